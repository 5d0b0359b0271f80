package lr

import (
	"github.com/pingcap/errors"
	"golang.org/x/tools/container/intsets"
)

// maxFixpointPasses is a ceiling for the number of passes of fixed-point
// computations. All of them are monotone over finite sets and terminate long
// before; hitting the ceiling indicates a defect, not a large grammar.
const maxFixpointPasses = 1 << 16

// ErrNoConvergence is returned if a fixed-point iteration hits its ceiling.
var ErrNoConvergence = errors.New("fixed-point iteration did not converge")

// LRAnalysis is an object for grammar analysis (compute FIRST and FOLLOW sets,
// and which non-terminals are able to derive the empty string).
// Create one with Analysis(g).
type LRAnalysis struct {
	g        *Grammar
	nullable []bool            // indexed by symbol value
	first    []*intsets.Sparse // indexed by symbol value; may contain EpsilonValue
	follow   []*intsets.Sparse // indexed by symbol value; only for non-terminals
}

// Analysis analyses a grammar: it computes nullability, FIRST- and FOLLOW-sets.
// Each of these is a fixed point, iterated until a full pass over all rules does not
// change anything.
func Analysis(g *Grammar) (*LRAnalysis, error) {
	if g == nil {
		return nil, errors.Annotate(ErrEmptyGrammar, "analysis of nil grammar")
	}
	ga := &LRAnalysis{g: g}
	n := g.MaxValue() + 1
	ga.nullable = make([]bool, n)
	ga.first = make([]*intsets.Sparse, n)
	ga.follow = make([]*intsets.Sparse, n)
	for v := 0; v < n; v++ {
		ga.first[v] = &intsets.Sparse{}
		ga.follow[v] = &intsets.Sparse{}
	}
	ga.initFirstSets()
	ga.initFollowSets()
	if err := fixpoint("nullable", ga.nullablePass); err != nil {
		return nil, err
	}
	if err := fixpoint("FIRST", ga.firstPass); err != nil {
		return nil, err
	}
	if err := fixpoint("FOLLOW", ga.followPass); err != nil {
		return nil, err
	}
	return ga, nil
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// Nullable returns true if A is able to derive the empty string.
func (ga *LRAnalysis) Nullable(A *Symbol) bool {
	return ga.nullable[A.Value]
}

// First returns the FIRST-set of a symbol as a set of symbol values.
// It contains EpsilonValue iff A is nullable. The set is a copy.
func (ga *LRAnalysis) First(A *Symbol) *intsets.Sparse {
	s := &intsets.Sparse{}
	s.Copy(ga.first[A.Value])
	return s
}

// Follow returns the FOLLOW-set of a non-terminal as a set of symbol values.
// The set is a copy.
func (ga *LRAnalysis) Follow(A *Symbol) *intsets.Sparse {
	s := &intsets.Sparse{}
	s.Copy(ga.follow[A.Value])
	return s
}

// FirstOfSequence returns FIRST(Y1 … Yk) for a sequence of symbols. It contains
// EpsilonValue iff every symbol of the sequence is nullable (or the sequence is empty).
func (ga *LRAnalysis) FirstOfSequence(syms []*Symbol) *intsets.Sparse {
	s := &intsets.Sparse{}
	ga.unionFirstOfSequence(s, syms)
	return s
}

// SymbolsOf converts a set of symbol values to symbols. The epsilon marker is
// included if present.
func (ga *LRAnalysis) SymbolsOf(set *intsets.Sparse) []*Symbol {
	values := set.AppendTo(nil)
	syms := make([]*Symbol, 0, len(values))
	for _, v := range values {
		if A := ga.g.Symbol(v); A != nil {
			syms = append(syms, A)
		}
	}
	return syms
}

// unionFirstOfSequence adds FIRST(syms) to s and reports whether s changed.
func (ga *LRAnalysis) unionFirstOfSequence(s *intsets.Sparse, syms []*Symbol) bool {
	changed := false
	var tmp intsets.Sparse
	for _, Y := range syms {
		tmp.Copy(ga.first[Y.Value])
		tmp.Remove(EpsilonValue)
		if s.UnionWith(&tmp) {
			changed = true
		}
		if !ga.nullable[Y.Value] {
			return changed
		}
	}
	if s.Insert(EpsilonValue) {
		changed = true
	}
	return changed
}

// --- Fixed-point passes ----------------------------------------------------

func fixpoint(what string, pass func() bool) error {
	for n := 1; n <= maxFixpointPasses; n++ {
		if !pass() {
			tracer().Debugf("%s converged after %d passes", what, n)
			return nil
		}
	}
	tracer().Errorf("%s did not converge after %d passes", what, maxFixpointPasses)
	return errors.Annotatef(ErrNoConvergence, "%s after %d passes", what, maxFixpointPasses)
}

// A non-terminal A is nullable, if there is a rule A ➞ Y1 … Yk with all Yi
// nullable. This includes epsilon rules. Flags only ever flip from false to true.
func (ga *LRAnalysis) nullablePass() bool {
	changed := false
	for _, r := range ga.g.rules {
		if ga.nullable[r.LHS.Value] {
			continue
		}
		all := true
		for _, Y := range r.rhs {
			if !ga.nullable[Y.Value] {
				all = false
				break
			}
		}
		if all {
			tracer().Debugf("%s is nullable", r.LHS)
			ga.nullable[r.LHS.Value] = true
			changed = true
		}
	}
	return changed
}

// FIRST(t) = { t } for terminals.
func (ga *LRAnalysis) initFirstSets() {
	for _, t := range ga.g.terminals {
		ga.first[t.Value].Insert(t.Value)
	}
}

// For every rule A ➞ Y1 … Yk, FIRST(A) receives FIRST(Y1 … Yk).
func (ga *LRAnalysis) firstPass() bool {
	changed := false
	for _, r := range ga.g.rules {
		if ga.unionFirstOfSequence(ga.first[r.LHS.Value], r.rhs) {
			changed = true
		}
	}
	return changed
}

// FOLLOW(S') and FOLLOW(S) contain the end-of-input symbol.
func (ga *LRAnalysis) initFollowSets() {
	ga.follow[ga.g.rules[0].LHS.Value].Insert(EOFValue)
	ga.follow[ga.g.StartSymbol().Value].Insert(EOFValue)
}

// For every rule P ➞ α B β, FOLLOW(B) receives FIRST(β) without epsilon.
// If β is nullable (or empty), FOLLOW(B) receives FOLLOW(P).
func (ga *LRAnalysis) followPass() bool {
	changed := false
	var fb intsets.Sparse
	for _, r := range ga.g.rules {
		for i, B := range r.rhs {
			if B.IsTerminal() {
				continue
			}
			fb.Clear()
			ga.unionFirstOfSequence(&fb, r.rhs[i+1:])
			betaNullable := fb.Remove(EpsilonValue)
			if ga.follow[B.Value].UnionWith(&fb) {
				changed = true
			}
			if betaNullable && ga.follow[B.Value].UnionWith(ga.follow[r.LHS.Value]) {
				changed = true
			}
		}
	}
	return changed
}
