package lr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/npillmayer/slrgen"
	"github.com/pingcap/errors"
)

// ActionKind classifies the entries of an ACTION table.
type ActionKind int8

// Kinds of parser actions.
const (
	NoAction ActionKind = iota
	Shift
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	}
	return "none"
}

// Action is a decoded ACTION table entry. Target is the state to shift to, or the
// serial number of the rule to reduce.
type Action struct {
	Kind   ActionKind
	Target int
}

// DecodeAction looks up the ACTION table entry for a state and a terminal's token type.
// The target state of a shift is taken from the GOTO table; if it is missing there,
// Target will be -1.
func DecodeAction(actionT, gotoT *Table, state uint, tt slrgen.TokType) Action {
	v := actionT.Value(state, tt)
	switch {
	case v == actionT.NullValue():
		return Action{Kind: NoAction}
	case v == AcceptAction:
		return Action{Kind: Accept}
	case v == ShiftAction:
		target := gotoT.Value(state, tt)
		if target == gotoT.NullValue() {
			return Action{Kind: Shift, Target: -1}
		}
		return Action{Kind: Shift, Target: int(target)}
	}
	return Action{Kind: Reduce, Target: int(v)}
}

// WriteListing writes a human readable summary of the parser construction:
// the numbered rules, the number of CFSM states and every non-empty ACTION table
// cell, like
//
//    state 0, 'i' : shift 5
//    state 1, '$' : accept
//    state 5, '+' : reduce by 6
//
// Conflicts resolved during table construction are listed at the end.
func (lrgen *TableGenerator) WriteListing(w io.Writer) error {
	if lrgen.actiontable == nil || lrgen.gototable == nil {
		return errors.New("tables not yet generated; call CreateTables() first")
	}
	var b bytes.Buffer
	b.WriteString("Productions (numbered):\n")
	for _, r := range lrgen.g.rules {
		fmt.Fprintf(&b, "%2d: %s\n", r.Serial, r)
	}
	fmt.Fprintf(&b, "\nNumber of states: %d\n", lrgen.dfa.Size())
	b.WriteString("\nACTION (state x terminal) summary (non-empty entries):\n")
	for _, s := range lrgen.dfa.States() {
		for _, a := range lrgen.g.terminals {
			action := DecodeAction(lrgen.actiontable, lrgen.gototable, s.ID, a.TokenType())
			switch action.Kind {
			case Shift:
				fmt.Fprintf(&b, "state %d, '%s' : shift %d\n", s.ID, a, action.Target)
			case Reduce:
				fmt.Fprintf(&b, "state %d, '%s' : reduce by %d\n", s.ID, a, action.Target)
			case Accept:
				fmt.Fprintf(&b, "state %d, '%s' : accept\n", s.ID, a)
			}
		}
	}
	if len(lrgen.conflicts) > 0 {
		b.WriteString("\nResolved conflicts:\n")
		for _, c := range lrgen.conflicts {
			b.WriteString(c.String())
			b.WriteString("\n")
		}
	}
	_, err := w.Write(b.Bytes())
	return errors.Trace(err)
}
