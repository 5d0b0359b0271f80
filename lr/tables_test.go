package lr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTables(t *testing.T, g *Grammar) *TableGenerator {
	ga, err := Analysis(g)
	require.NoError(t, err)
	lrgen := NewTableGenerator(ga)
	require.NoError(t, lrgen.CreateTables())
	return lrgen
}

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	ga, err := Analysis(exprGrammar(t))
	require.NoError(t, err)
	start, sym := StartItem(ga.Grammar().Rule(0))
	assert.Equal(t, "E", sym.Name)
	C := ga.closure(start)
	Dump(C)
	assert.Equal(t, 7, C.Size(), "closure of start item")
	assert.True(t, C.Equals(ga.closureSet(C)), "closure is idempotent")
	//
	G, A := ga.gotoSetClosure(C, ga.Grammar().SymbolByName("E"))
	assert.Equal(t, "E", A.Name)
	assert.Equal(t, 2, G.Size())
	G, _ = ga.gotoSetClosure(C, ga.Grammar().SymbolByName(")"))
	assert.True(t, G.Empty())
}

func TestItemSetKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	i1, _ := StartItem(g.Rule(1))
	i2, _ := StartItem(g.Rule(2))
	S1, S2 := newItemSet(), newItemSet()
	S1.Add(i1)
	S1.Add(i2)
	S2.Add(i2)
	S2.Add(i1)
	assert.Equal(t, itemSetKey(S1), itemSetKey(S2))
	S2.Add(i1.Advance())
	assert.NotEqual(t, itemSetKey(S1), itemSetKey(S2))
}

func TestExpressionCFSM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	lrgen := makeTables(t, exprGrammar(t))
	cfsm := lrgen.CFSM()
	assert.Equal(t, 12, cfsm.Size())
	assert.False(t, lrgen.HasConflicts)
	assert.Empty(t, lrgen.Conflicts())
	require.Len(t, lrgen.AcceptingStates(), 1)
	for i, s := range cfsm.States() {
		assert.Equal(t, uint(i), s.ID)
		assert.Same(t, s, cfsm.State(s.ID))
	}
	assert.Nil(t, cfsm.State(12))
	// no two states share an item set
	states := cfsm.States()
	for i := range states {
		for j := i + 1; j < len(states); j++ {
			assert.False(t, states[i].items.Equals(states[j].items),
				"states %d and %d are equal", i, j)
		}
	}
	g := lrgen.Grammar()
	E := g.SymbolByName("E")
	acc := cfsm.Transition(cfsm.S0, E)
	require.NotNil(t, acc)
	assert.True(t, acc.Accept)
	assert.Equal(t, acc.ID, lrgen.AcceptingStates()[0])
}

func TestExpressionTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	lrgen := makeTables(t, exprGrammar(t))
	g := lrgen.Grammar()
	cfsm := lrgen.CFSM()
	actions, gotos := lrgen.ActionTable(), lrgen.GotoTable()
	i := g.SymbolByName("i")
	a := DecodeAction(actions, gotos, cfsm.S0.ID, i.TokenType())
	assert.Equal(t, Shift, a.Kind)
	assert.Equal(t, int(cfsm.Transition(cfsm.S0, i).ID), a.Target)
	// after shifting i, reduce F ➞ i on every terminal in FOLLOW(F)
	si := cfsm.Transition(cfsm.S0, i)
	for _, name := range []string{"+", "*", ")", "$"} {
		a = DecodeAction(actions, gotos, si.ID, g.SymbolByName(name).TokenType())
		assert.Equal(t, Action{Kind: Reduce, Target: 6}, a, "on %s", name)
	}
	a = DecodeAction(actions, gotos, si.ID, g.SymbolByName("(").TokenType())
	assert.Equal(t, NoAction, a.Kind)
	acc := cfsm.Transition(cfsm.S0, g.SymbolByName("E"))
	a = DecodeAction(actions, gotos, acc.ID, g.EOF().TokenType())
	assert.Equal(t, Accept, a.Kind)
	// unknown token types are outside of the table
	a = DecodeAction(actions, gotos, cfsm.S0.ID, 4711)
	assert.Equal(t, NoAction, a.Kind)
	// non-terminal transitions are found in the GOTO table
	T := g.SymbolByName("T")
	assert.Equal(t, int32(cfsm.Transition(cfsm.S0, T).ID), gotos.Value(cfsm.S0.ID, T.TokenType()))
	assert.Equal(t, cfsm.Size(), actions.States())
}

func TestEpsilonReduce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	lrgen := makeTables(t, nullableGrammar(t))
	g := lrgen.Grammar()
	assert.False(t, lrgen.HasConflicts)
	s0 := lrgen.CFSM().S0.ID
	actions, gotos := lrgen.ActionTable(), lrgen.GotoTable()
	// A ➞ ε is rule 3
	assert.Equal(t, Action{Kind: Reduce, Target: 3}, DecodeAction(actions, gotos, s0, g.EOF().TokenType()))
	assert.Equal(t, Action{Kind: Reduce, Target: 3}, DecodeAction(actions, gotos, s0, g.SymbolByName("b").TokenType()))
	assert.Equal(t, Shift, DecodeAction(actions, gotos, s0, g.SymbolByName("a").TokenType()).Kind)
}

func TestShiftWinsOverReduce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Ambiguous")
	b.AddProduction("E", "E+E", "i")
	g, err := b.Grammar()
	require.NoError(t, err)
	lrgen := makeTables(t, g)
	assert.Equal(t, 5, lrgen.CFSM().Size())
	assert.True(t, lrgen.HasConflicts)
	conflicts := lrgen.Conflicts()
	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.True(t, c.IsShiftReduce())
	cfsm := lrgen.CFSM()
	E, plus := g.SymbolByName("E"), g.SymbolByName("+")
	sE := cfsm.Transition(cfsm.Transition(cfsm.Transition(cfsm.S0, E), plus), E)
	require.NotNil(t, sE)
	assert.Equal(t, sE.ID, c.State) // E ➞ E + E • | E • + E
	assert.Equal(t, "+", c.Symbol.Name)
	assert.Equal(t, int32(ShiftAction), c.Kept)
	assert.Equal(t, int32(1), c.Dropped)
	v1, v2 := lrgen.ActionTable().Values(c.State, c.Symbol.TokenType())
	assert.Equal(t, int32(ShiftAction), v1)
	assert.Equal(t, int32(1), v2)
	assert.Contains(t, c.String(), "shift kept")
}

func TestFirstReduceWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("ReduceReduce")
	b.AddProduction("S", "A", "B")
	b.AddProduction("A", "a")
	b.AddProduction("B", "a")
	g, err := b.Grammar()
	require.NoError(t, err)
	lrgen := makeTables(t, g)
	conflicts := lrgen.Conflicts()
	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.False(t, c.IsShiftReduce())
	assert.Equal(t, "$", c.Symbol.Name)
	assert.Equal(t, int32(3), c.Kept)
	assert.Equal(t, int32(4), c.Dropped)
}

func TestListing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(mustAnalyse(t, exprGrammar(t)))
	var b bytes.Buffer
	assert.Error(t, lrgen.WriteListing(&b), "tables not yet created")
	require.NoError(t, lrgen.CreateTables())
	require.NoError(t, lrgen.WriteListing(&b))
	listing := b.String()
	t.Log(listing)
	assert.True(t, strings.HasPrefix(listing, "Productions (numbered):\n 0: E'->E\n 1: E->E+T\n"))
	assert.Contains(t, listing, "Number of states: 12")
	assert.Contains(t, listing, "state 0, 'i' : shift ")
	assert.Contains(t, listing, "reduce by 6")
	assert.Equal(t, 1, strings.Count(listing, ": accept"))
	assert.NotContains(t, listing, "conflicts")
}

func TestExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	tracing.Select("slrgen.lr").SetTraceLevel(tracing.LevelInfo)
	//
	lrgen := makeTables(t, exprGrammar(t))
	var b bytes.Buffer
	require.NoError(t, lrgen.CFSM().CFSM2GraphViz(&b))
	dot := b.String()
	assert.True(t, strings.HasPrefix(dot, "digraph {"))
	assert.Contains(t, dot, "s000 -> s")
	assert.Equal(t, 1, strings.Count(dot, "fillcolor=lightgray"))
	b.Reset()
	require.NoError(t, ActionTableAsHTML(lrgen, &b))
	assert.Contains(t, b.String(), "ACTION table")
	assert.Contains(t, b.String(), "<td>acc</td>")
	b.Reset()
	require.NoError(t, GotoTableAsHTML(lrgen, &b))
	assert.Contains(t, b.String(), "GOTO table")
}

func TestHTMLEscapesSymbols(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	tracing.Select("slrgen.lr").SetTraceLevel(tracing.LevelInfo)
	//
	b := NewGrammarBuilder("Markup")
	b.AddProduction("S", "<S>", "a&b")
	g, err := b.Grammar()
	require.NoError(t, err)
	lrgen := makeTables(t, g)
	var buf bytes.Buffer
	require.NoError(t, ActionTableAsHTML(lrgen, &buf))
	out := buf.String()
	assert.Contains(t, out, "<td>&lt;</td>")
	assert.Contains(t, out, "<td>&gt;</td>")
	assert.Contains(t, out, "<td>&amp;</td>")
	assert.NotContains(t, out, "<td><</td>")
	assert.NotContains(t, out, "<td>&</td>")
}

func mustAnalyse(t *testing.T, g *Grammar) *LRAnalysis {
	ga, err := Analysis(g)
	require.NoError(t, err)
	return ga
}
