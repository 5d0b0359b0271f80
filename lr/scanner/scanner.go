/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

Two scanner implementations are provided: (1) a tokenizer for grammars with
single-character terminals, backed by the Go std lib 'text/scanner', and (2) an
adapter for lexmachine, living in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"io"
	"strings"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/pingcap/errors"
)

// tracer traces with key 'slrgen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.scanner")
}

// Token types with a fixed meaning for every grammar.
const (
	EOF     = slrgen.TokType(lr.EOFValue) // end of input, i.e. the '$' terminal
	Unknown = slrgen.TokType(-1)          // a character which is not a terminal of the grammar
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() slrgen.Token
	SetErrorHandler(func(error))
}

// SymbolTokenizer splits its input into single characters, skipping white space.
// Each character is delivered as a token with the type of the grammar's
// terminal for it. An explicit end marker '$' ends the input, as does the end of
// the underlying reader; both produce an EOF token. After EOF every further call
// to NextToken will return EOF again.
//
// Create one with NewSymbolTokenizer.
type SymbolTokenizer struct {
	scanner.Scanner
	g     *lr.Grammar
	Error func(error) // error handler
	eof   slrgen.Token
}

var _ Tokenizer = (*SymbolTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NewSymbolTokenizer creates a tokenizer for the terminals of grammar g.
func NewSymbolTokenizer(g *lr.Grammar, sourceID string, input io.Reader) *SymbolTokenizer {
	t := &SymbolTokenizer{g: g}
	t.Error = logError
	t.Init(input)
	t.Mode = 0 // deliver every rune as a token of its own
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(errors.Errorf("%s: %s", s.Position, msg))
	}
	return t
}

// StringTokenizer is a shortcut for tokenizing an input string.
func StringTokenizer(g *lr.Grammar, input string) *SymbolTokenizer {
	return NewSymbolTokenizer(g, "input", strings.NewReader(input))
}

// SetErrorHandler sets an error handler for the scanner.
func (t *SymbolTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *SymbolTokenizer) NextToken() slrgen.Token {
	if t.eof != nil {
		return t.eof
	}
	r := t.Scan()
	span := slrgen.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)}
	if r == scanner.EOF || string(r) == lr.EOFName {
		tracer().Debugf("SymbolTokenizer reached end of input")
		t.eof = MakeDefaultToken(EOF, lr.EOFName, slrgen.Span{span[0], span[0]})
		return t.eof
	}
	lexeme := t.TokenText()
	if A := t.g.Terminal(r); A != nil {
		return MakeDefaultToken(A.TokenType(), lexeme, span)
	}
	tracer().Infof("character %q is not a terminal of grammar %q", r, t.g.Name)
	return MakeDefaultToken(Unknown, lexeme, span)
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the symbol
// tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	kind   slrgen.TokType
	lexeme string
	Val    interface{}
	span   slrgen.Span
}

// MakeDefaultToken creates a token without a value.
func MakeDefaultToken(typ slrgen.TokType, lexeme string, span slrgen.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() slrgen.TokType {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() slrgen.Span {
	return t.span
}
