/*
Package notation reads grammars written in a compact text notation, one line per
non-terminal:

    E -> E+T | T
    T -> T*F | F
    F -> (E) | i
    X -> a | #

The left hand side is a single upper case letter. Alternatives are separated by
'|'. Every other printable character of an alternative is a symbol of its own:
upper case letters are non-terminals, everything else is a terminal. Blanks are
ignored. An empty alternative, or one consisting of '#' only, derives the empty
string. The first line declares the start symbol.

Lines which do not conform to this format are skipped.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package notation

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/scanner/lexmach"
	"github.com/pingcap/errors"
	"github.com/timtadh/lexmachine"
)

// tracer traces with key 'slrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.lr")
}

// ErrProductionCount is returned by Read if the count header is missing or malformed.
var ErrProductionCount = errors.New("expected number of productions")

// Production is a left hand side together with its alternatives, as read from one
// line of input. Alternatives are strings of single-character symbols; the empty
// string denotes an epsilon alternative.
type Production struct {
	LHS          string
	Alternatives []string
}

// AddTo adds a rule for each alternative to a grammar builder.
func (p Production) AddTo(b *lr.GrammarBuilder) []*lr.Rule {
	return b.AddProduction(p.LHS, p.Alternatives...)
}

func (p Production) String() string {
	alts := make([]string, len(p.Alternatives))
	for i, alt := range p.Alternatives {
		if alt == "" {
			alt = lr.EpsilonName
		}
		alts[i] = alt
	}
	return p.LHS + "->" + strings.Join(alts, "|")
}

// Token types of the line lexer. Type 1 is reserved for end of input.
const (
	tokArrow slrgen.TokType = iota + 2
	tokBar
	tokSymbol
)

var lexer struct {
	once    sync.Once
	adapter *lexmach.LMAdapter
	err     error
}

// lineLexer returns the lexer for production lines. It is compiled once and shared.
func lineLexer() (*lexmach.LMAdapter, error) {
	lexer.once.Do(func() {
		init := func(lx *lexmachine.Lexer) {
			lx.Add([]byte(`( |\t|\r)+`), lexmach.Skip)
			lx.Add([]byte(`[!-~]`), lexmach.MakeToken(tokSymbol))
		}
		ids := map[string]slrgen.TokType{"->": tokArrow, "|": tokBar}
		lexer.adapter, lexer.err = lexmach.NewLMAdapter(init, []string{"->", "|"}, ids)
	})
	return lexer.adapter, lexer.err
}

// ParseLine parses one line of grammar notation. It returns false if the line
// lacks an arrow, if its left hand side is not a single upper case letter, or if
// it contains characters outside of printable ASCII.
func ParseLine(line string) (Production, bool) {
	lm, err := lineLexer()
	if err != nil {
		tracer().Errorf("grammar notation lexer: %v", err)
		return Production{}, false
	}
	sc, err := lm.Scanner(line)
	if err != nil {
		tracer().Debugf("cannot scan line %q: %v", line, err)
		return Production{}, false
	}
	malformed := false
	sc.SetErrorHandler(func(e error) {
		tracer().Debugf("line %q: %v", line, e)
		malformed = true
	})
	lhs := sc.NextToken()
	if lhs.TokType() != tokSymbol || !isNonTerminal(lhs.Lexeme()) {
		tracer().Debugf("line %q has no valid left hand side", line)
		return Production{}, false
	}
	if sc.NextToken().TokType() != tokArrow {
		tracer().Debugf("line %q lacks '->'", line)
		return Production{}, false
	}
	p := Production{LHS: lhs.Lexeme()}
	var alt strings.Builder
scan:
	for {
		tok := sc.NextToken()
		switch tok.TokType() {
		case tokSymbol, tokArrow: // a further arrow is just two terminals
			alt.WriteString(tok.Lexeme())
		case tokBar:
			p.Alternatives = append(p.Alternatives, epsilonIfMarked(alt.String()))
			alt.Reset()
		default:
			break scan
		}
	}
	p.Alternatives = append(p.Alternatives, epsilonIfMarked(alt.String()))
	if malformed {
		return Production{}, false
	}
	return p, true
}

func isNonTerminal(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size == len(s) && lr.IsNonTerminalRune(r)
}

func epsilonIfMarked(alt string) string {
	if alt == lr.EpsilonName {
		return ""
	}
	return alt
}

// FromLines creates a grammar from lines in grammar notation. Malformed lines are
// skipped.
func FromLines(name string, lines ...string) (*lr.Grammar, error) {
	b := lr.NewGrammarBuilder(name)
	for _, line := range lines {
		if p, ok := ParseLine(line); ok {
			p.AddTo(b)
		}
	}
	return b.Grammar()
}

// Read creates a grammar from a reader. The first non-empty line holds the number n
// of productions, the next n non-empty lines hold the productions. Further lines
// are ignored.
func Read(name string, r io.Reader) (*lr.Grammar, error) {
	sc := bufio.NewScanner(r)
	nextLine := func() (string, bool) {
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}
	header, ok := nextLine()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, errors.Trace(err)
		}
		return nil, errors.Annotatef(ErrProductionCount, "grammar %q is empty", name)
	}
	n, err := strconv.Atoi(header)
	if err != nil || n < 0 {
		return nil, errors.Annotatef(ErrProductionCount, "found %q", header)
	}
	lines := make([]string, 0, n)
	for len(lines) < n {
		line, ok := nextLine()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	if len(lines) < n {
		tracer().Infof("grammar %q: expected %d productions, found %d", name, n, len(lines))
	}
	return FromLines(name, lines...)
}
