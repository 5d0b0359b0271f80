package lr

import (
	"bytes"
	"sort"

	"github.com/npillmayer/slrgen/lr/iteratable"
)

// Item is an LR(0) item: a rule, together with a position within the right
// hand side of the rule.
//
//     E ➞ E • + T
//
// Items are values and are comparable: two items are equal if they refer to the
// same rule with the same dot position.
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns an item with the dot at the beginning of a rule's RHS,
// together with the symbol after the dot (nil for epsilon rules).
func StartItem(r *Rule) (Item, *Symbol) {
	if r == nil {
		return Item{}, nil
	}
	i := Item{rule: r}
	return i, i.PeekSymbol()
}

// Rule returns the grammar rule of this item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the position of the dot within the RHS.
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot, if any.
func (i Item) PeekSymbol() *Symbol {
	if i.rule == nil || i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// IsComplete is true if the dot is behind the last RHS symbol.
func (i Item) IsComplete() bool {
	return i.rule != nil && i.dot >= len(i.rule.rhs)
}

// Advance returns a new item with the dot advanced one position.
// Advancing a completed item returns it unchanged.
func (i Item) Advance() Item {
	if i.IsComplete() {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1}
}

// Prefix returns the RHS symbols in front of the dot.
func (i Item) Prefix() []*Symbol {
	if i.rule == nil {
		return nil
	}
	return i.rule.rhs[:i.dot]
}

func (i Item) String() string {
	if i.rule == nil {
		return "[<empty item>]"
	}
	var b bytes.Buffer
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ➞")
	for n, A := range i.rule.rhs {
		if n == i.dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(A.Name)
	}
	if i.IsComplete() {
		b.WriteString(" •")
	}
	return b.String()
}

func asItem(x interface{}) Item {
	return x.(Item)
}

func newItemSet() *iteratable.Set {
	return iteratable.NewSet(0)
}

// sortedItems returns the items of an item set, ordered by rule serial and dot.
func sortedItems(iset *iteratable.Set) []Item {
	items := make([]Item, 0, iset.Size())
	iset.Each(func(x interface{}) {
		items = append(items, asItem(x))
	})
	sort.Slice(items, func(a, b int) bool {
		if items[a].rule.Serial != items[b].rule.Serial {
			return items[a].rule.Serial < items[b].rule.Serial
		}
		return items[a].dot < items[b].dot
	})
	return items
}

// Dump is a debugging helper: it writes an item set to the trace at debug level.
func Dump(iset *iteratable.Set) {
	for n, item := range sortedItems(iset) {
		tracer().Debugf("[%2d] %s", n+1, item)
	}
}

func itemSetString(S *iteratable.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	for n, item := range sortedItems(S) {
		if n == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteString(" }")
	return b.String()
}

// forGraphviz renders an item set as the label of a Graphviz record node.
func forGraphviz(S *iteratable.Set) string {
	var b bytes.Buffer
	for _, item := range sortedItems(S) {
		b.WriteString(escapeRecord(item.String()))
		b.WriteString("\\l")
	}
	return b.String()
}

func escapeRecord(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '{', '}', '|', '<', '>', '"', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
