package lr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr/iteratable"
	"github.com/pingcap/errors"
)

// Reserved symbol names. Neither of them may be used as a non-terminal, and the
// epsilon marker may not be used as a symbol at all.
const (
	EpsilonName = "#" // marks an empty right hand side
	EOFName     = "$" // end of input
)

// Reserved symbol values.
const (
	EpsilonValue = 0
	EOFValue     = 1
)

// Errors of grammar construction.
var (
	ErrEmptyGrammar   = errors.New("grammar has no productions")
	ErrReservedSymbol = errors.New("reserved symbol used in production")
	ErrSymbolClash    = errors.New("symbol used as terminal and as non-terminal")
)

// === Symbols ===============================================================

// Symbol is a grammar symbol, either a terminal or a non-terminal.
// Symbols are interned per grammar: there is exactly one *Symbol per name, and
// every symbol carries a value unique within its grammar.
type Symbol struct {
	Name     string
	Value    int
	terminal bool
}

// IsTerminal returns true if this symbol represents a terminal.
func (A *Symbol) IsTerminal() bool {
	return A.terminal
}

// IsEpsilon is true for the epsilon marker.
func (A *Symbol) IsEpsilon() bool {
	return A.Value == EpsilonValue
}

// IsEOF is true for the end-of-input marker.
func (A *Symbol) IsEOF() bool {
	return A.Value == EOFValue
}

// TokenType returns the token type a scanner will deliver for this symbol.
func (A *Symbol) TokenType() slrgen.TokType {
	return slrgen.TokType(A.Value)
}

func (A *Symbol) String() string {
	if A == nil {
		return "<nil>"
	}
	return A.Name
}

// === Rules =================================================================

// Rule is a type for rules of a grammar. Rules cannot be shared between grammars.
type Rule struct {
	Serial int     // order number of this rule within a grammar
	LHS    *Symbol // symbol of left hand side
	rhs    []*Symbol
}

// RHS gets the right hand side of a rule as a shallow copy. Clients should treat it
// as read-only. For epsilon rules the slice is empty.
func (r *Rule) RHS() []*Symbol {
	return append([]*Symbol(nil), r.rhs...)
}

// Len returns the length of the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEpsilon is true for rules with an empty right hand side.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

// String renders a rule like "E->E+T" or "X->#".
func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.LHS.Name)
	b.WriteString("->")
	b.WriteString(symbolString(r.rhs))
	return b.String()
}

func symbolString(syms []*Symbol) string {
	if len(syms) == 0 {
		return EpsilonName
	}
	sep := ""
	for _, A := range syms {
		if utf8.RuneCountInString(A.Name) > 1 {
			sep = " "
			break
		}
	}
	names := make([]string, len(syms))
	for i, A := range syms {
		names[i] = A.Name
	}
	return strings.Join(names, sep)
}

// === Grammar ===============================================================

// Grammar is a type for a grammar. Usually created using a GrammarBuilder.
// A grammar is augmented with a start rule
//
//     S' ➞ S
//
// where S is the left hand side of the first rule declared. This is rule 0.
// Grammars are immutable once created.
type Grammar struct {
	Name         string
	rules        []*Rule
	symbols      []*Symbol // indexed by value
	byName       map[string]*Symbol
	terminals    []*Symbol
	nonterminals []*Symbol
	rulesFor     map[*Symbol][]*Rule
}

// Size returns the number of rules in the grammar, including the start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule gets a grammar rule by serial number.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Rules returns all rules in serial order.
func (g *Grammar) Rules() []*Rule {
	return append([]*Rule(nil), g.rules...)
}

// RulesFor returns the rules with left hand side A, in serial order.
func (g *Grammar) RulesFor(A *Symbol) []*Rule {
	return g.rulesFor[A]
}

// StartSymbol is the left hand side of the first rule declared, i.e. the symbol
// the augmented start rule derives.
func (g *Grammar) StartSymbol() *Symbol {
	return g.rules[0].rhs[0]
}

// EOF returns the end-of-input symbol.
func (g *Grammar) EOF() *Symbol {
	return g.symbols[EOFValue]
}

// Epsilon returns the epsilon marker. It is not part of the grammar's alphabet.
func (g *Grammar) Epsilon() *Symbol {
	return g.symbols[EpsilonValue]
}

// SymbolByName gets a symbol for a given name, if found in the grammar.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.byName[name]
}

// Symbol returns the symbol with a given value, or nil.
func (g *Grammar) Symbol(value int) *Symbol {
	if value < 0 || value >= len(g.symbols) {
		return nil
	}
	return g.symbols[value]
}

// Terminal returns the terminal for an input character, or nil if r is not
// part of the grammar's alphabet.
func (g *Grammar) Terminal(r rune) *Symbol {
	if A := g.byName[string(r)]; A != nil && A.IsTerminal() && !A.IsEpsilon() {
		return A
	}
	return nil
}

// Terminals returns the terminals of the grammar, ordered by value.
// The end-of-input symbol is always included.
func (g *Grammar) Terminals() []*Symbol {
	return append([]*Symbol(nil), g.terminals...)
}

// NonTerminals returns the non-terminals of the grammar, ordered by value.
func (g *Grammar) NonTerminals() []*Symbol {
	return append([]*Symbol(nil), g.nonterminals...)
}

// MaxValue is the highest symbol value of the grammar.
func (g *Grammar) MaxValue() int {
	return len(g.symbols) - 1
}

// EachSymbol iterates over all symbols of the grammar's alphabet, ordered by value.
// Return values of the mapper function are collected.
func (g *Grammar) EachSymbol(mapper func(*Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.symbols[1:] {
		r = append(r, mapper(A))
	}
	return r
}

// EachTerminal iterates over all terminals of the grammar.
// Return values of the mapper function are collected.
func (g *Grammar) EachTerminal(mapper func(*Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.terminals {
		r = append(r, mapper(A))
	}
	return r
}

// EachNonTerminal iterates over all non-terminals of the grammar.
// Return values of the mapper function are collected.
func (g *Grammar) EachNonTerminal(mapper func(*Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.nonterminals {
		r = append(r, mapper(A))
	}
	return r
}

// FindNonTermRules returns a set of start items (with the dot at position 0)
// for all rules with LHS A.
// If includeEpsilons is false, epsilon rules will be omitted.
func (g *Grammar) FindNonTermRules(A *Symbol, includeEpsilons bool) *iteratable.Set {
	rules := g.rulesFor[A]
	iset := newItemSet()
	for _, r := range rules {
		if !includeEpsilons && r.IsEpsilon() {
			continue
		}
		item, _ := StartItem(r)
		iset.Add(item)
	}
	return iset
}

// Dump is a debugging helper: it writes all rules to the trace at debug level.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: [%s] ::= [%s]", r.Serial, r.LHS, symbolString(r.rhs))
	}
	tracer().Debugf("-------------------------------------------------------")
}

// === Grammar Builder =======================================================

// GrammarBuilder is a tool for constructing grammars. Use it like this:
//
//     b := lr.NewGrammarBuilder("G")
//     b.LHS("E").N("E").T("+").N("T").End()   // E  ➞  E + T
//     b.LHS("E").N("T").End()                 // E  ➞  T
//     b.LHS("T").T("i").End()                 // T  ➞  i
//     b.LHS("T").Epsilon()                    // T  ➞  ε
//     g, err := b.Grammar()
//
// Productions in the single-character notation may be added in one go:
//
//     b.AddProduction("E", "E+T", "T")
//
type GrammarBuilder struct {
	name    string
	decls   []*ruleDecl
	grammar *Grammar
	err     error
}

type symDecl struct {
	name     string
	terminal bool
}

type ruleDecl struct {
	lhs  string
	rhs  []symDecl
	rule *Rule // will be set when the grammar is built
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar to build.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{name: gname}
}

// RuleBuilder is a builder type for rules.
type RuleBuilder struct {
	gb   *GrammarBuilder
	decl *ruleDecl
}

// LHS starts a rule given the left hand side symbol (non-terminal).
func (gb *GrammarBuilder) LHS(s string) *RuleBuilder {
	return &RuleBuilder{
		gb:   gb,
		decl: &ruleDecl{lhs: s},
	}
}

// N appends a non-terminal to the builder.
func (rb *RuleBuilder) N(s string) *RuleBuilder {
	rb.decl.rhs = append(rb.decl.rhs, symDecl{name: s})
	return rb
}

// T appends a terminal to the builder.
func (rb *RuleBuilder) T(s string) *RuleBuilder {
	rb.decl.rhs = append(rb.decl.rhs, symDecl{name: s, terminal: true})
	return rb
}

// Epsilon sets the right hand side of the rule to be empty and ends the rule.
func (rb *RuleBuilder) Epsilon() *Rule {
	rb.decl.rhs = nil
	return rb.End()
}

// End ends a rule. The returned rule will be completed as soon as the
// grammar is built.
func (rb *RuleBuilder) End() *Rule {
	r := &Rule{}
	rb.decl.rule = r
	rb.gb.decls = append(rb.gb.decls, rb.decl)
	rb.gb.grammar, rb.gb.err = nil, nil
	return r
}

// AddProduction splits a right hand side into its alternatives and adds a rule for
// each of them. Symbols are single characters; upper case letters are
// non-terminals, every other character is a terminal. Spaces are ignored.
// An empty alternative or one consisting of the epsilon marker is an epsilon rule.
func (gb *GrammarBuilder) AddProduction(lhs string, alternatives ...string) []*Rule {
	rules := make([]*Rule, 0, len(alternatives))
	for _, alt := range alternatives {
		rb := gb.LHS(lhs)
		alt = strings.TrimSpace(alt)
		if alt == "" || alt == EpsilonName {
			rules = append(rules, rb.Epsilon())
			continue
		}
		for _, r := range alt {
			if unicode.IsSpace(r) {
				continue
			}
			if IsNonTerminalRune(r) {
				rb.N(string(r))
			} else {
				rb.T(string(r))
			}
		}
		rules = append(rules, rb.End())
	}
	return rules
}

// IsNonTerminalRune is the naming convention for single-character grammars:
// non-terminals are upper case letters.
func IsNonTerminalRune(r rune) bool {
	return unicode.IsUpper(r)
}

// Grammar returns the grammar built so far. The grammar is augmented with a
// start rule and its symbols are collected and interned.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if gb.grammar != nil || gb.err != nil {
		return gb.grammar, gb.err
	}
	gb.grammar, gb.err = gb.build()
	return gb.grammar, gb.err
}

func (gb *GrammarBuilder) build() (*Grammar, error) {
	if len(gb.decls) == 0 {
		return nil, errors.Annotatef(ErrEmptyGrammar, "grammar %q", gb.name)
	}
	g := &Grammar{
		Name:     gb.name,
		byName:   make(map[string]*Symbol),
		rulesFor: make(map[*Symbol][]*Rule),
	}
	g.symbols = []*Symbol{
		{Name: EpsilonName, Value: EpsilonValue, terminal: true},
		{Name: EOFName, Value: EOFValue, terminal: true},
	}
	g.byName[EOFName] = g.symbols[EOFValue]
	decls := gb.augment()
	if err := g.collectSymbols(decls); err != nil {
		return nil, err
	}
	for serial, d := range decls {
		r := d.rule
		if r.LHS != nil { // rule belongs to a grammar built earlier
			r = &Rule{}
			d.rule = r
		}
		r.Serial = serial
		r.LHS = g.byName[d.lhs]
		r.rhs = make([]*Symbol, len(d.rhs))
		for i, s := range d.rhs {
			r.rhs[i] = g.byName[s.name]
		}
		g.rules = append(g.rules, r)
		g.rulesFor[r.LHS] = append(g.rulesFor[r.LHS], r)
	}
	for _, A := range g.symbols[1:] {
		if A.IsTerminal() {
			g.terminals = append(g.terminals, A)
		} else {
			g.nonterminals = append(g.nonterminals, A)
		}
	}
	tracer().Debugf("grammar %q has %d rules, %d terminals, %d non-terminals",
		g.Name, len(g.rules), len(g.terminals), len(g.nonterminals))
	return g, nil
}

// augment prepends a start rule S' ➞ S, where S is the first LHS declared and
// S' is a name not used anywhere in the grammar.
func (gb *GrammarBuilder) augment() []*ruleDecl {
	used := make(map[string]bool)
	for _, d := range gb.decls {
		used[d.lhs] = true
		for _, s := range d.rhs {
			used[s.name] = true
		}
	}
	start := gb.decls[0].lhs
	aug := start + "'"
	for used[aug] {
		aug += "'"
	}
	startRule := &ruleDecl{
		lhs:  aug,
		rhs:  []symDecl{{name: start}},
		rule: &Rule{},
	}
	return append([]*ruleDecl{startRule}, gb.decls...)
}

// collectSymbols interns all symbols of all rules, in order of appearance.
func (g *Grammar) collectSymbols(decls []*ruleDecl) error {
	intern := func(name string, terminal bool) error {
		if name == EpsilonName || name == "" {
			return errors.Annotatef(ErrReservedSymbol, "symbol %q", name)
		}
		if A, ok := g.byName[name]; ok {
			if A.terminal != terminal {
				return errors.Annotatef(ErrSymbolClash, "symbol %q", name)
			}
			return nil
		}
		A := &Symbol{Name: name, Value: len(g.symbols), terminal: terminal}
		g.symbols = append(g.symbols, A)
		g.byName[name] = A
		return nil
	}
	for _, d := range decls {
		if err := intern(d.lhs, false); err != nil {
			return err
		}
	}
	for _, d := range decls {
		for _, s := range d.rhs {
			if err := intern(s.name, s.terminal); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Grammar) String() string {
	return fmt.Sprintf("grammar %q (%d rules)", g.Name, len(g.rules))
}
