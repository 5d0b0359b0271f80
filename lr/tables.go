package lr

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr/iteratable"
	"github.com/npillmayer/slrgen/lr/sparse"
	"github.com/pingcap/errors"
)

// Actions for parser action tables. Reduce actions are encoded by the serial
// number of the rule to reduce, which is always > 0.
const (
	ShiftAction  = -1
	AcceptAction = -2
)

// maxCFSMStates is a ceiling for the number of CFSM states. The item universe of
// a grammar is finite, so construction always terminates; exceeding the ceiling
// indicates a defect.
const maxCFSMStates = 1 << 16

// ErrAutomatonOverflow is returned if CFSM construction exceeds its ceiling.
var ErrAutomatonOverflow = errors.New("CFSM construction exceeded state limit")

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Compute the closure of an item.
func (ga *LRAnalysis) closure(i Item) *iteratable.Set {
	S := newItemSet()
	S.Add(i)
	return ga.closureSet(S)
}

// Compute the closure of an item set. The closure set serves as its own worklist:
// items added during the iteration will be visited by the same iteration.
// https://www.cs.bgu.ac.il/~comp151/wiki.files/ps6.html#sec-2-7-3
func (ga *LRAnalysis) closureSet(S *iteratable.Set) *iteratable.Set {
	C := S.Copy() // add start items to closure
	C.IterateOnce()
	for C.Next() {
		item := asItem(C.Item())
		A := item.PeekSymbol()           // get symbol A after dot
		if A != nil && !A.IsTerminal() { // A is non-terminal
			R := ga.g.FindNonTermRules(A, true)
			if New := R.Difference(C); !New.Empty() {
				C.Union(New)
			}
		}
	}
	return C
}

func (ga *LRAnalysis) gotoSet(closure *iteratable.Set, A *Symbol) (*iteratable.Set, *Symbol) {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	closure.Each(func(x interface{}) {
		i := asItem(x)
		if i.PeekSymbol() == A {
			ii := i.Advance()
			tracer().Debugf("goto(%s) -%s-> %s", i, A, ii)
			gotoset.Add(ii)
		}
	})
	return gotoset, A
}

func (ga *LRAnalysis) gotoSetClosure(i *iteratable.Set, A *Symbol) (*iteratable.Set, *Symbol) {
	gotoset, _ := ga.gotoSet(i, A)
	if gotoset.Empty() {
		return gotoset, A
	}
	gclosure := ga.closureSet(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure, A
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     uint            // serial ID of this state
	items  *iteratable.Set // configuration items within this state
	Accept bool            // does this state contain the completed start rule?
}

// CFSM edge between 2 states, directed and with a symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// Items returns the items of a state, ordered by rule number and dot position.
func (s *CFSMState) Items() []Item {
	return sortedItems(s.items)
}

// Size returns the number of items in this state.
func (s *CFSMState) Size() int {
	return s.items.Size()
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

// Create a state from an item set
func state(id uint, iset *iteratable.Set) *CFSMState {
	s := &CFSMState{ID: id}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	return s
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.IsComplete() {
			return true
		}
	}
	return false
}

// Create an edge
func edge(from, to *CFSMState, label *Symbol) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(int(c1.ID), int(c2.ID))
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes, or even to
// compute your own tables from it.
type CFSM struct {
	g           *Grammar                // this CFSM is for Grammar g
	states      *treeset.Set            // all the states
	byID        []*CFSMState            // states indexed by ID
	edges       *arraylist.List         // all the edges between states
	index       map[string][]*CFSMState // states bucketed by item set hash
	transitions map[transitionKey]*CFSMState
	S0          *CFSMState // start state
	cfsmIds     uint       // serial IDs for CFSM states
}

type transitionKey struct {
	from   uint
	symbol int
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.index = make(map[string][]*CFSMState)
	c.transitions = make(map[transitionKey]*CFSMState)
	return c
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return c.states.Size()
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	vals := c.states.Values()
	r := make([]*CFSMState, len(vals))
	for i, x := range vals {
		r[i] = x.(*CFSMState)
	}
	return r
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id uint) *CFSMState {
	if int(id) >= len(c.byID) {
		return nil
	}
	return c.byID[id]
}

// Transition returns the target state of the edge leaving s, labelled with A.
// It returns nil if there is no such edge.
func (c *CFSM) Transition(s *CFSMState, A *Symbol) *CFSMState {
	return c.transitions[transitionKey{from: s.ID, symbol: A.Value}]
}

// Add a state to the CFSM. Checks first if state is present.
func (c *CFSM) addState(iset *iteratable.Set) *CFSMState {
	s := c.findStateByItems(iset)
	if s == nil {
		s = state(c.cfsmIds, iset)
		c.cfsmIds++
		c.states.Add(s)
		c.byID = append(c.byID, s)
		key := itemSetKey(iset)
		c.index[key] = append(c.index[key], s)
	}
	return s
}

// Find a CFSM state by the contained item set. The hash key only selects a
// bucket; membership is decided by set equality.
func (c *CFSM) findStateByItems(iset *iteratable.Set) *CFSMState {
	for _, s := range c.index[itemSetKey(iset)] {
		if s.items.Equals(iset) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	c.transitions[transitionKey{from: s0.ID, symbol: sym.Value}] = s1
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

type itemKey struct {
	Rule int
	Dot  int
}

type itemSetSignature struct {
	Items []itemKey
}

// itemSetKey hashes the canonical (sorted) form of an item set.
func itemSetKey(iset *iteratable.Set) string {
	items := sortedItems(iset)
	sig := itemSetSignature{Items: make([]itemKey, len(items))}
	for n, i := range items {
		sig.Items[n] = itemKey{Rule: i.rule.Serial, Dot: i.dot}
	}
	key, err := structhash.Hash(sig, 1)
	if err != nil {
		tracer().Errorf("cannot hash item set: %v", err)
		return fmt.Sprintf("%v", sig.Items)
	}
	return key
}

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LR-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	conflicts    []Conflict
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// Grammar returns the grammar the tables are generated for.
func (lrgen *TableGenerator) Grammar() *Grammar {
	return lrgen.g
}

// Analysis returns the grammar analysis the tables are generated from.
func (lrgen *TableGenerator) Analysis() *LRAnalysis {
	return lrgen.ga
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously. If construction fails, CFSM returns nil.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		dfa, err := lrgen.buildCFSM()
		if err != nil {
			tracer().Errorf("%v", err)
			return nil
		}
		lrgen.dfa = dfa
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Conflicts returns the table conflicts which have been resolved by policy during
// construction of the ACTION table.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return append([]Conflict(nil), lrgen.conflicts...)
}

// CreateTables creates the necessary data structures for an SLR parser.
func (lrgen *TableGenerator) CreateTables() error {
	dfa, err := lrgen.buildCFSM()
	if err != nil {
		return err
	}
	lrgen.dfa = dfa
	lrgen.gototable = lrgen.BuildGotoTable()
	lrgen.actiontable, lrgen.HasConflicts = lrgen.BuildSLR1ActionTable()
	return nil
}

// AcceptingStates returns all states of the CFSM which contain the completed
// start rule, i.e. states with an accept action on end-of-input.
// Clients have to call CreateTables() first.
func (lrgen *TableGenerator) AcceptingStates() []uint {
	if lrgen.dfa == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	acc := make([]uint, 0, 1)
	for _, s := range lrgen.dfa.States() {
		if s.Accept {
			acc = append(acc, s.ID)
		}
	}
	return acc
}

// Construct the characteristic finite state machine CFSM for a grammar.
// State 0 is the closure of the start item. Every state is expanded once
// for every grammar symbol; non-empty goto-sets which are not yet present
// become new states.
func (lrgen *TableGenerator) buildCFSM() (*CFSM, error) {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	item, sym := StartItem(G.rules[0])
	tracer().Debugf("Start item=%v/%v", item, sym)
	closure0 := lrgen.ga.closure(item)
	cfsm.S0 = cfsm.addState(closure0)
	cfsm.S0.Dump()
	S := treeset.NewWith(stateComparator)
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		for _, A := range G.symbols[1:] {
			gotoset, _ := lrgen.ga.gotoSetClosure(s.items, A)
			if gotoset.Empty() {
				continue
			}
			snew := cfsm.findStateByItems(gotoset)
			if snew == nil {
				if cfsm.cfsmIds >= maxCFSMStates {
					return nil, errors.Annotatef(ErrAutomatonOverflow, "grammar %q, %d states",
						G.Name, cfsm.cfsmIds)
				}
				snew = cfsm.addState(gotoset)
				snew.Accept = snew.containsCompletedStartRule()
				tracer().Debugf("new state %s on %v from %s", snew, A, s)
				snew.Dump()
				S.Add(snew)
			}
			cfsm.addEdge(s, snew, A)
		}
	}
	tracer().Infof("CFSM for grammar %q has %d states", G.Name, cfsm.Size())
	return cfsm, nil
}

// ===========================================================================

// BuildGotoTable builds the GOTO table. This is normally not called directly, but rather
// via CreateTables(). It contains every transition of the CFSM, i.e. shift targets for
// terminals as well as goto targets for non-terminals.
func (lrgen *TableGenerator) BuildGotoTable() *Table {
	statescnt := lrgen.dfa.Size()
	extent := lrgen.g.MaxValue() + 1
	tracer().Infof("GOTO table of size %d x %d", statescnt, extent)
	gototable := newTable(statescnt, extent)
	for _, state := range lrgen.dfa.States() {
		for _, e := range lrgen.dfa.allEdges(state) {
			gototable.set(state.ID, e.label.TokenType(), int32(e.to.ID))
		}
	}
	return gototable
}

// BuildSLR1ActionTable constructs the SLR(1) Action table. This method is normally not called
// by clients, but rather via CreateTables(). It builds an action table including
// lookahead (using the FOLLOW-set created by the grammar analyzer).
func (lrgen *TableGenerator) BuildSLR1ActionTable() (*Table, bool) {
	statescnt := lrgen.dfa.Size()
	extent := lrgen.g.MaxValue() + 1
	tracer().Infof("ACTION table of size %d x %d", statescnt, extent)
	actions := newTable(statescnt, extent)
	return lrgen.buildActionTable(actions)
}

// For building an ACTION table we iterate over all the states of the CFSM.
// Within a state, shift entries are created first: for every item with a terminal
// a after the dot and an edge labelled a, the cell for a is set to shift.
// Then every completed item produces a reduce entry for each terminal in
// FOLLOW(LHS), or an accept entry on end-of-input for the start rule.
//
// A reduce never replaces a shift, and a reduce never replaces another reduce.
// The losing action is stored as the second value of the cell and is recorded
// as a conflict.
func (lrgen *TableGenerator) buildActionTable(actions *Table) (*Table, bool) {
	lrgen.conflicts = lrgen.conflicts[:0]
	for _, state := range lrgen.dfa.States() {
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		items := state.Items()
		for _, i := range items {
			A := i.PeekSymbol()
			if A == nil || !A.IsTerminal() {
				continue
			}
			if target := lrgen.dfa.Transition(state, A); target != nil {
				tracer().Debugf("    %v: shift %d", i, target.ID)
				lrgen.place(actions, state, A, ShiftAction)
			}
		}
		for _, i := range items {
			if !i.IsComplete() {
				continue
			}
			if i.rule.Serial == 0 {
				tracer().Debugf("    %v: accept", i)
				lrgen.place(actions, state, lrgen.g.EOF(), AcceptAction)
				continue
			}
			lookaheads := lrgen.ga.Follow(i.rule.LHS)
			tracer().Debugf("    Follow(%v) = %v", i.rule.LHS, lookaheads)
			for _, la := range lookaheads.AppendTo(nil) {
				lrgen.place(actions, state, lrgen.g.Symbol(la), int32(i.rule.Serial))
			}
		}
	}
	return actions, len(lrgen.conflicts) > 0
}

func (lrgen *TableGenerator) place(actions *Table, state *CFSMState, a *Symbol, val int32) {
	a1 := actions.Value(state.ID, a.TokenType())
	if a1 == actions.NullValue() {
		actions.add(state.ID, a.TokenType(), val)
		return
	}
	if a1 == val {
		return // double shift or same reduce from two items
	}
	c := Conflict{State: state.ID, Symbol: a, Kept: a1, Dropped: val}
	tracer().Infof("resolved conflict: %s", c)
	lrgen.conflicts = append(lrgen.conflicts, c)
	actions.add(state.ID, a.TokenType(), val)
}

// Conflict is an ACTION table cell where two actions competed.
// The kept action is the table entry; the dropped one is the cell's second value.
type Conflict struct {
	State   uint
	Symbol  *Symbol
	Kept    int32
	Dropped int32
}

// IsShiftReduce is true for shift/reduce conflicts.
func (c Conflict) IsShiftReduce() bool {
	return c.Kept == ShiftAction || c.Dropped == ShiftAction
}

func (c Conflict) String() string {
	return fmt.Sprintf("state %d, '%s' : %s kept, %s dropped", c.State, c.Symbol,
		actionString(c.Kept), actionString(c.Dropped))
}

// === Tables ================================================================

// Table is a parser table, either GOTO or ACTION. Rows are indexed by CFSM state IDs,
// columns by symbol values.
type Table struct {
	matrix *sparse.IntMatrix
}

func newTable(states, symbols int) *Table {
	return &Table{
		matrix: sparse.NewIntMatrix(states, symbols, sparse.DefaultNullValue),
	}
}

func (t *Table) add(i uint, tt slrgen.TokType, val int32) {
	t.matrix.Add(int(i), int(tt), val)
}

func (t *Table) set(i uint, tt slrgen.TokType, val int32) {
	t.matrix.Set(int(i), int(tt), val)
}

// NullValue is the value of empty cells.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the entry for a state and a symbol's token type. For positions outside
// the table, e.g. token types unknown to the grammar, the null value is returned.
func (t *Table) Value(i uint, tt slrgen.TokType) int32 {
	a, _ := t.Values(i, tt)
	return a
}

// Values returns both values of a table cell. The second one is set for cells where
// a conflict has been resolved.
func (t *Table) Values(i uint, tt slrgen.TokType) (int32, int32) {
	if int(i) >= t.matrix.M() || tt < 0 || int(tt) >= t.matrix.N() {
		return t.NullValue(), t.NullValue()
	}
	return t.matrix.Values(int(i), int(tt))
}

// States returns the number of rows.
func (t *Table) States() int {
	return t.matrix.M()
}

// Each calls f for every non-empty cell, ordered by state and symbol value.
func (t *Table) Each(f func(state uint, tt slrgen.TokType, v1, v2 int32)) {
	t.matrix.Each(func(i, j int, a, b int32) {
		f(uint(i), slrgen.TokType(j), a, b)
	})
}

// actionString is a short helper to stringify an action table entry.
func actionString(v int32) string {
	switch {
	case v == ShiftAction:
		return "shift"
	case v == AcceptAction:
		return "accept"
	case v > 0:
		return fmt.Sprintf("reduce %d", v)
	}
	return "<none>"
}
