package lr

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprGrammar is the classic expression grammar
//
//     E ➞ E + T | T
//     T ➞ T * F | F
//     F ➞ ( E ) | i
//
func exprGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Expr")
	b.AddProduction("E", "E+T", "T")
	b.AddProduction("T", "T*F", "F")
	b.AddProduction("F", "(E)", "i")
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func symbolNames(syms []*Symbol) []string {
	names := make([]string, len(syms))
	for i, A := range syms {
		names[i] = A.Name
	}
	return names
}

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a").End()
	b.LHS("A").T("b").End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	require.NoError(t, err)
	g.Dump()
	assert.Equal(t, 4, g.Size())
	assert.Equal(t, "S'->S", g.Rule(0).String())
	assert.Equal(t, "A->#", g.Rule(3).String())
	assert.True(t, g.Rule(3).IsEpsilon())
	assert.Equal(t, "S", g.StartSymbol().Name)
	assert.Equal(t, []string{"$", "a", "b"}, symbolNames(g.Terminals()))
	assert.Equal(t, []string{"S'", "S", "A"}, symbolNames(g.NonTerminals()))
	assert.Nil(t, g.Rule(4))
}

func TestGrammarIsCached(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.AddProduction("S", "a")
	g1, _ := b.Grammar()
	g2, _ := b.Grammar()
	assert.Same(t, g1, g2)
	b.AddProduction("S", "b")
	g3, err := b.Grammar()
	require.NoError(t, err)
	assert.NotSame(t, g1, g3)
	assert.Equal(t, 3, g3.Size())
}

func TestSymbolValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	assert.Equal(t, EpsilonValue, g.Epsilon().Value)
	assert.Equal(t, EOFValue, g.EOF().Value)
	assert.True(t, g.EOF().IsTerminal())
	// left hand sides come first, in order of appearance
	assert.Equal(t, []string{"E'", "E", "T", "F"}, symbolNames(g.NonTerminals()))
	assert.Equal(t, []string{"$", "+", "*", "(", ")", "i"}, symbolNames(g.Terminals()))
	assert.Equal(t, 2, g.SymbolByName("E'").Value)
	assert.Equal(t, g.MaxValue(), g.SymbolByName("i").Value)
	for v := 0; v <= g.MaxValue(); v++ {
		assert.Equal(t, v, g.Symbol(v).Value)
	}
	assert.Nil(t, g.Symbol(g.MaxValue()+1))
	assert.Equal(t, g.SymbolByName("+"), g.Terminal('+'))
	assert.Nil(t, g.Terminal('E'), "non-terminal is no terminal")
	assert.Nil(t, g.Terminal('#'), "epsilon is not in the alphabet")
	assert.Nil(t, g.Terminal('x'))
	assert.Len(t, g.EachSymbol(func(A *Symbol) interface{} { return A }), g.MaxValue())
}

func TestRuleStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	assert.Equal(t, "E'->E", g.Rule(0).String())
	assert.Equal(t, "E->E+T", g.Rule(1).String())
	assert.Equal(t, "F->(E)", g.Rule(5).String())
	b := NewGrammarBuilder("Long")
	b.LHS("Sum").N("Sum").T("+").N("Product").End()
	b.LHS("Sum").N("Product").End()
	b.LHS("Product").T("n").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	assert.Equal(t, "Sum->Sum + Product", g.Rule(1).String())
	assert.Len(t, g.RulesFor(g.SymbolByName("Sum")), 2)
}

func TestAugmentedStartName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Primes")
	b.LHS("S").N("S'").End()
	b.LHS("S'").T("a").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	assert.Equal(t, "S''", g.Rule(0).LHS.Name)
	assert.Equal(t, "S", g.StartSymbol().Name)
}

func TestGrammarErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	_, err := NewGrammarBuilder("empty").Grammar()
	assert.Equal(t, ErrEmptyGrammar, errors.Cause(err))
	//
	b := NewGrammarBuilder("eps")
	b.LHS("S").T("#").End()
	_, err = b.Grammar()
	assert.Equal(t, ErrReservedSymbol, errors.Cause(err))
	//
	b = NewGrammarBuilder("eof")
	b.LHS("$").T("a").End()
	_, err = b.Grammar()
	assert.Equal(t, ErrSymbolClash, errors.Cause(err))
	//
	b = NewGrammarBuilder("clash")
	b.LHS("S").T("A").End()
	b.LHS("A").T("a").End()
	_, err = b.Grammar()
	assert.Equal(t, ErrSymbolClash, errors.Cause(err))
}

func TestFindNonTermRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.AddProduction("S", "Aa")
	b.AddProduction("A", "b", "")
	g, err := b.Grammar()
	require.NoError(t, err)
	A := g.SymbolByName("A")
	assert.Equal(t, 2, g.FindNonTermRules(A, true).Size())
	assert.Equal(t, 1, g.FindNonTermRules(A, false).Size())
}
