package lr

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/container/intsets"
)

//     S ➞ A B
//     A ➞ a | ε
//     B ➞ b | ε
func nullableGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Nullable")
	b.AddProduction("S", "AB")
	b.AddProduction("A", "a", "")
	b.AddProduction("B", "b", "#")
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func setNames(ga *LRAnalysis, set *intsets.Sparse) []string {
	return symbolNames(ga.SymbolsOf(set))
}

func TestNullable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	ga, err := Analysis(nullableGrammar(t))
	require.NoError(t, err)
	g := ga.Grammar()
	for _, name := range []string{"S'", "S", "A", "B"} {
		assert.True(t, ga.Nullable(g.SymbolByName(name)), "%s should be nullable", name)
	}
	assert.False(t, ga.Nullable(g.SymbolByName("a")))
	//
	ga, err = Analysis(exprGrammar(t))
	require.NoError(t, err)
	ga.Grammar().EachNonTerminal(func(A *Symbol) interface{} {
		assert.False(t, ga.Nullable(A), "%s should not be nullable", A)
		return nil
	})
}

func TestFirstSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	ga, err := Analysis(nullableGrammar(t))
	require.NoError(t, err)
	g := ga.Grammar()
	assert.Equal(t, []string{"#", "a", "b"}, setNames(ga, ga.First(g.SymbolByName("S"))))
	assert.Equal(t, []string{"#", "a"}, setNames(ga, ga.First(g.SymbolByName("A"))))
	assert.Equal(t, []string{"b"}, setNames(ga, ga.First(g.SymbolByName("b"))))
	seq := ga.FirstOfSequence([]*Symbol{g.SymbolByName("A"), g.SymbolByName("b")})
	assert.Equal(t, []string{"a", "b"}, setNames(ga, seq))
	assert.Equal(t, []string{"#"}, setNames(ga, ga.FirstOfSequence(nil)))
	//
	ga, err = Analysis(exprGrammar(t))
	require.NoError(t, err)
	g = ga.Grammar()
	for _, name := range []string{"E", "T", "F"} {
		assert.Equal(t, []string{"(", "i"}, setNames(ga, ga.First(g.SymbolByName(name))),
			"FIRST(%s)", name)
	}
}

func TestFollowSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	ga, err := Analysis(nullableGrammar(t))
	require.NoError(t, err)
	g := ga.Grammar()
	assert.Equal(t, []string{"$"}, setNames(ga, ga.Follow(g.SymbolByName("S"))))
	assert.Equal(t, []string{"$", "b"}, setNames(ga, ga.Follow(g.SymbolByName("A"))))
	assert.Equal(t, []string{"$"}, setNames(ga, ga.Follow(g.SymbolByName("B"))))
	//
	ga, err = Analysis(exprGrammar(t))
	require.NoError(t, err)
	g = ga.Grammar()
	assert.Equal(t, []string{"$", "+", ")"}, setNames(ga, ga.Follow(g.SymbolByName("E"))))
	assert.Equal(t, []string{"$", "+", "*", ")"}, setNames(ga, ga.Follow(g.SymbolByName("T"))))
	assert.Equal(t, []string{"$", "+", "*", ")"}, setNames(ga, ga.Follow(g.SymbolByName("F"))))
}

func TestAnalysisIsFixedPoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{exprGrammar(t), nullableGrammar(t)} {
		ga, err := Analysis(g)
		require.NoError(t, err)
		assert.False(t, ga.nullablePass(), "nullable of %s", g.Name)
		assert.False(t, ga.firstPass(), "FIRST of %s", g.Name)
		assert.False(t, ga.followPass(), "FOLLOW of %s", g.Name)
	}
}

func TestSetsAreCopies(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	ga, err := Analysis(exprGrammar(t))
	require.NoError(t, err)
	E := ga.Grammar().SymbolByName("E")
	ga.First(E).Clear()
	ga.Follow(E).Clear()
	assert.Equal(t, 2, ga.First(E).Len())
	assert.Equal(t, 3, ga.Follow(E).Len())
}

func TestAnalysisOfNilGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	_, err := Analysis(nil)
	assert.Error(t, err)
}

func TestNullableTail(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Tail")
	b.AddProduction("E", "TX")
	b.AddProduction("X", "+TX", "")
	b.AddProduction("T", "F")
	b.AddProduction("F", "i")
	g, err := b.Grammar()
	require.NoError(t, err)
	ga, err := Analysis(g)
	require.NoError(t, err)
	nullable := []string{}
	g.EachNonTerminal(func(A *Symbol) interface{} {
		if ga.Nullable(A) {
			nullable = append(nullable, A.Name)
		}
		return nil
	})
	assert.Equal(t, []string{"X"}, nullable)
	assert.Equal(t, []string{"$"}, setNames(ga, ga.Follow(g.SymbolByName("X"))))
	assert.Equal(t, []string{"$", "+"}, setNames(ga, ga.Follow(g.SymbolByName("T"))))
}
