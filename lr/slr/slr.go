/*
Package slr provides an SLR(1)-parser. Clients have to use the tools
of package lr to prepare the necessary parse tables. The SLR parser
utilizes these tables to create a right derivation for a given input,
provided through a scanner interface.

This parser is intended for small grammars, e.g. for teaching or for
experimenting with grammar design. Clients are able to construct the parse
tables from a grammar and use the parser directly, without a code-generation
or compile step.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Expressions")
	b.AddProduction("E", "E+T", "T")     // E ➞ E + T | T
	b.AddProduction("T", "T*F", "F")     // T ➞ T * F | F
	b.AddProduction("F", "(E)", "i")     // F ➞ ( E ) | i
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	ga, err := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	err = lrgen.CreateTables()
	if lrgen.HasConflicts { ... }  // conflicts have been resolved by policy

Finally parse some input:

	p := slr.NewParser(g, lrgen.GotoTable(), lrgen.ActionTable())
	result, err := p.ParseString(lrgen.CFSM().S0, "i+i*i")
	for _, step := range result.Steps {
		fmt.Println(step)
	}

Every step of the parser is recorded before it changes the parse stack. A
rejected input is not an error: it is reported by result.Outcome and
result.Reason. Errors are returned for defective tables only.

A parser holds nothing but its (read-only) tables; every call to Parse works on a
stack of its own. A parser may therefore be used from concurrent goroutines.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package slr

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/scanner"
	"github.com/pingcap/errors"
)

// tracer traces with key 'slrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.lr")
}

// Errors of the parser. Input which does not conform to the grammar is not an error,
// but a rejected parse.
var (
	ErrNotInitialized    = errors.New("SLR(1)-parser not initialized")
	ErrTableInconsistent = errors.New("parser tables are inconsistent")
	ErrNoProgress        = errors.New("parser does not consume input")
)

// maxReductions is a ceiling for the number of consecutive reductions which do not
// shrink the stack. Only cyclic grammars (A ➞ B, B ➞ A) will reach it.
var maxReductions = 1 << 16

// Outcome is the state of a parse.
type Outcome int8

// Outcomes of a parse.
const (
	Running Outcome = iota
	Accepted
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	}
	return "running"
}

// Step is the record of a single parser step, taken before the step changes the
// parse stack.
type Step struct {
	Stack     string // states and symbols on the stack, bottom first, e.g. "0 E 1 + 6"
	Remaining string // input not yet consumed, including the end marker
	Action    string // "shift 5", "reduce by F->i", "accept" or an error message
}

func (s Step) String() string {
	return fmt.Sprintf("%-20s | %-20s | %s", s.Stack, s.Remaining, s.Action)
}

// Result is the outcome of a parse together with a trace of all the steps taken.
type Result struct {
	Outcome Outcome
	Reason  string      // for rejected input: why it has been rejected
	Span    slrgen.Span // for accepted input: the input span of the start symbol
	Steps   []Step
}

// Accepted is true if the input has been accepted.
func (r *Result) Accepted() bool {
	return r != nil && r.Outcome == Accepted
}

// Parser is an SLR(1)-parser type. Create and initialize one with slr.NewParser(...)
type Parser struct {
	G       *lr.Grammar
	gotoT   *lr.Table // GOTO table
	actionT *lr.Table // ACTION table
}

// NewParser creates an SLR(1) parser.
func NewParser(g *lr.Grammar, gotoTable *lr.Table, actionTable *lr.Table) *Parser {
	return &Parser{
		G:       g,
		gotoT:   gotoTable,
		actionT: actionTable,
	}
}

// We store pairs of state-IDs and symbols on the parse stack.
type stackitem struct {
	stateID uint        // ID of a CFSM state
	sym     *lr.Symbol  // grammar symbol (terminal or non-terminal)
	span    slrgen.Span // input span over which this symbol reaches
}

// parse is the per-invocation state of a parse.
type parse struct {
	*Parser
	stack  []stackitem // parser stack, bottom is (start state, end marker)
	input  []slrgen.Token
	ip     int // input cursor
	result *Result
}

// ParseString parses an input string of single-character terminals. An end marker
// '$' is appended to the input if it is missing.
func (p *Parser) ParseString(S *lr.CFSMState, input string) (*Result, error) {
	if p.G == nil {
		return nil, ErrNotInitialized
	}
	if !strings.HasSuffix(input, lr.EOFName) {
		input += lr.EOFName
	}
	return p.Parse(S, scanner.StringTokenizer(p.G, input))
}

// Parse starts a new parse, given a start state and a scanner tokenizing the input.
// The parser must have been initialized.
//
// The input is read from the scanner up to the end marker before parsing starts.
// Parse returns a result for accepted as well as for rejected input. An error is
// returned if the tables turn out to be inconsistent; in this case the result holds
// the steps up to the failure. If configuration flag panic-on-table-inconsistency is
// set, Parse will panic instead.
func (p *Parser) Parse(S *lr.CFSMState, scan scanner.Tokenizer) (*Result, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.G == nil || p.gotoT == nil || p.actionT == nil || S == nil || scan == nil {
		tracer().Errorf("SLR(1)-parser not initialized")
		return nil, ErrNotInitialized
	}
	run := &parse{
		Parser: p,
		stack:  make([]stackitem, 1, 64),
		result: &Result{Outcome: Running},
	}
	run.stack[0] = stackitem{stateID: S.ID, sym: p.G.EOF()}
	for {
		token := scan.NextToken()
		run.input = append(run.input, token)
		if token.TokType() == scanner.EOF {
			break
		}
	}
	err := run.loop()
	return run.result, err
}

// http://www.cse.unt.edu/~sweany/CSCE3650/HANDOUTS/LRParseAlg.pdf
func (run *parse) loop() error {
	reductions := 0
	for run.result.Outcome == Running {
		tos := run.stack[len(run.stack)-1]
		token := run.input[run.ip]
		tokval := token.TokType()
		action := lr.DecodeAction(run.actionT, run.gotoT, tos.stateID, tokval)
		tracer().Debugf("action(%d,%q) = %s %d", tos.stateID, token.Lexeme(), action.Kind, action.Target)
		switch action.Kind {
		case lr.Shift:
			run.record(fmt.Sprintf("shift %d", action.Target))
			if action.Target < 0 {
				return run.inconsistent(errors.Annotatef(ErrTableInconsistent,
					"no shift target for state %d on symbol %q", tos.stateID, token.Lexeme()))
			}
			run.stack = append(run.stack, stackitem{
				stateID: uint(action.Target),
				sym:     run.G.Symbol(int(tokval)),
				span:    token.Span(),
			})
			if run.ip < len(run.input)-1 {
				run.ip++
			}
			reductions = 0
		case lr.Reduce:
			rule := run.G.Rule(action.Target)
			if rule == nil {
				run.record(fmt.Sprintf("reduce by %d", action.Target))
				return run.inconsistent(errors.Annotatef(ErrTableInconsistent,
					"no rule %d for state %d on symbol %q", action.Target, tos.stateID, token.Lexeme()))
			}
			run.record("reduce by " + rule.String())
			if err := run.reduce(rule); err != nil {
				return run.inconsistent(err)
			}
			if rule.Len() > 1 { // stack shrinks
				reductions = 0
			} else if reductions++; reductions > maxReductions {
				err := errors.Annotatef(ErrNoProgress, "%d reductions on symbol %q",
					reductions, token.Lexeme())
				run.result.Outcome = Rejected
				run.result.Reason = err.Error()
				return err
			}
		case lr.Accept:
			run.record("accept")
			run.result.Outcome = Accepted
			run.result.Span = tos.span
			tracer().Infof("input accepted")
		default:
			reason := fmt.Sprintf("no action for state %d on symbol '%s'", tos.stateID, token.Lexeme())
			run.record("error: " + reason)
			run.result.Outcome = Rejected
			run.result.Reason = reason
			tracer().Infof("input rejected: %s", reason)
		}
	}
	return nil
}

// reduce performs a reduce action for a rule
//
//    LHS ➞ X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states
//
//    [TOS]  Sn(Xn, span_n) ... S1(X1, span1)  ...
//
// For epsilon rules nothing is popped. Exactly one frame for LHS is pushed.
func (run *parse) reduce(rule *lr.Rule) error {
	n := rule.Len()
	if n >= len(run.stack) {
		return errors.Annotatef(ErrTableInconsistent, "cannot pop %d symbols for %v", n, rule)
	}
	handle := run.stack[len(run.stack)-n:]
	var span slrgen.Span
	for i, sym := range rule.RHS() {
		if handle[i].sym != sym {
			return errors.Annotatef(ErrTableInconsistent, "cannot reduce by %v: expected %v on stack, got %v",
				rule, sym, handle[i].sym)
		}
		span = span.Extend(handle[i].span)
	}
	if span.IsNull() { // epsilon was just before lookahead
		pos := run.input[run.ip].Span().From()
		span = slrgen.Span{pos, pos}
	}
	run.stack = run.stack[:len(run.stack)-n]
	tos := run.stack[len(run.stack)-1]
	nextstate := run.gotoT.Value(tos.stateID, rule.LHS.TokenType())
	if nextstate == run.gotoT.NullValue() {
		return errors.Annotatef(ErrTableInconsistent, "no goto for state %d on %s",
			tos.stateID, rule.LHS)
	}
	tracer().Debugf("reduced %v, next state = %d", rule, nextstate)
	run.stack = append(run.stack, stackitem{
		stateID: uint(nextstate),
		sym:     rule.LHS,
		span:    span,
	})
	return nil
}

func (run *parse) inconsistent(err error) error {
	tracer().Errorf("%v", err)
	run.result.Outcome = Rejected
	run.result.Reason = err.Error()
	if panicOnInconsistency() {
		panic(`SLR(1)-parser found inconsistent tables.

Configuration flag panic-on-table-inconsistency is set to true. It is aimed at
helping to debug the table construction. If you did not expect this to panic,
please unset panic-on-table-inconsistency to its default (false).

` + err.Error())
	}
	return err
}

// panicOnInconsistency reads configuration flag panic-on-table-inconsistency.
// Without an initialized configuration the flag is unset.
func panicOnInconsistency() bool {
	return gconf.GetBool("panic-on-table-inconsistency")
}

// record appends a step for the current configuration.
func (run *parse) record(action string) {
	run.result.Steps = append(run.result.Steps, Step{
		Stack:     run.stackString(),
		Remaining: run.remaining(),
		Action:    action,
	})
}

func (run *parse) stackString() string {
	var b strings.Builder
	for i, frame := range run.stack {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(frame.sym.Name)
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", frame.stateID)
	}
	return b.String()
}

func (run *parse) remaining() string {
	var b strings.Builder
	for _, token := range run.input[run.ip:] {
		b.WriteString(token.Lexeme())
	}
	return b.String()
}
