package scanner

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exprGrammar(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("Expr")
	b.AddProduction("E", "E+T", "T")
	b.AddProduction("T", "T*F", "F")
	b.AddProduction("F", "(E)", "i")
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func collect(tok Tokenizer) []slrgen.Token {
	var tokens []slrgen.Token
	for {
		token := tok.NextToken()
		tokens = append(tokens, token)
		if token.TokType() == EOF {
			return tokens
		}
	}
}

func lexemes(tokens []slrgen.Token) string {
	var b strings.Builder
	for _, token := range tokens {
		b.WriteString(token.Lexeme())
	}
	return b.String()
}

func TestSymbolTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	g := exprGrammar(t)
	inputs := []struct {
		input   string
		lexemes string
		count   int
	}{
		{"i+i*i", "i+i*i$", 6},
		{"i+i*i$", "i+i*i$", 6},
		{" i + ( i )\n", "i+(i)$", 6},
		{"i$i+i", "i$", 2},
		{"", "$", 1},
	}
	for _, x := range inputs {
		tokens := collect(StringTokenizer(g, x.input))
		assert.Equal(t, x.lexemes, lexemes(tokens), "input %q", x.input)
		assert.Len(t, tokens, x.count, "input %q", x.input)
	}
}

func TestTokenTypesAreSymbolValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	g := exprGrammar(t)
	tokens := collect(StringTokenizer(g, "i+x"))
	require.Len(t, tokens, 4)
	assert.Equal(t, g.SymbolByName("i").TokenType(), tokens[0].TokType())
	assert.Equal(t, g.SymbolByName("+").TokenType(), tokens[1].TokType())
	assert.Equal(t, Unknown, tokens[2].TokType())
	assert.Equal(t, "x", tokens[2].Lexeme())
	assert.Equal(t, g.EOF().TokenType(), tokens[3].TokType())
	// non-terminals are not part of the input alphabet
	tokens = collect(StringTokenizer(g, "E"))
	assert.Equal(t, Unknown, tokens[0].TokType())
}

func TestSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	g := exprGrammar(t)
	tokens := collect(StringTokenizer(g, "i + i"))
	require.Len(t, tokens, 4)
	assert.Equal(t, slrgen.Span{0, 1}, tokens[0].Span())
	assert.Equal(t, slrgen.Span{2, 3}, tokens[1].Span())
	assert.Equal(t, slrgen.Span{4, 5}, tokens[2].Span())
	assert.Equal(t, uint64(0), tokens[3].Span().Len())
}

func TestEOFIsSticky(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	tok := StringTokenizer(exprGrammar(t), "i")
	tok.NextToken()
	for n := 0; n < 3; n++ {
		assert.Equal(t, EOF, tok.NextToken().TokType())
	}
}

func TestErrorHandler(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	var errs []error
	tok := StringTokenizer(exprGrammar(t), "i\xffi")
	tok.SetErrorHandler(func(e error) { errs = append(errs, e) })
	tokens := collect(tok)
	assert.NotEmpty(t, errs)
	assert.Equal(t, Unknown, tokens[1].TokType())
	tok.SetErrorHandler(nil)
	assert.NotNil(t, tok.Error)
}
