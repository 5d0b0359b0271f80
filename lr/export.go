package lr

import (
	"fmt"
	"html"
	"io"

	"github.com/pingcap/errors"
)

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		ew.printf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items))
	}
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		ew.printf("s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			escapeRecord(edge.label.Name))
	}
	ew.printf("}\n")
	return ew.err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.gototable == nil {
		return errors.New("GOTO table not yet created, cannot export to HTML")
	}
	return parserTableAsHTML(lrgen, "GOTO", lrgen.gototable, w)
}

// ActionTableAsHTML exports the SLR(1) ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.actiontable == nil {
		return errors.New("ACTION table not yet created, cannot export to HTML")
	}
	return parserTableAsHTML(lrgen, "ACTION", lrgen.actiontable, w)
}

func parserTableAsHTML(lrgen *TableGenerator, tname string, table *Table, w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("<html><body>\n")
	ew.printf("%s table of size = %d<p>", tname, table.matrix.ValueCount())
	ew.printf("<table border=1 cellspacing=0 cellpadding=5>\n")
	ew.printf("<tr bgcolor=#cccccc><td></td>\n")
	symvec := make([]*Symbol, 0, lrgen.g.MaxValue())
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		ew.printf("<td>%s</td>", html.EscapeString(A.Name))
		symvec = append(symvec, A)
		return nil
	})
	ew.printf("</tr>\n")
	var td string // table cell
	for _, state := range lrgen.dfa.States() {
		ew.printf("<tr><td>state %d</td>\n", state.ID)
		for _, A := range symvec {
			v1, v2 := table.Values(state.ID, A.TokenType())
			if v1 == table.NullValue() {
				td = "&nbsp;"
			} else if v2 == table.NullValue() {
				td = cellString(table, lrgen.actiontable, v1)
			} else {
				td = fmt.Sprintf("%s/%s", cellString(table, lrgen.actiontable, v1),
					cellString(table, lrgen.actiontable, v2))
			}
			ew.printf("<td>%s</td>\n", td)
		}
		ew.printf("</tr>\n")
	}
	ew.printf("</table></body></html>\n")
	return ew.err
}

func cellString(table, actions *Table, v int32) string {
	if table != actions {
		return fmt.Sprintf("%d", v)
	}
	switch v {
	case ShiftAction:
		return "s"
	case AcceptAction:
		return "acc"
	}
	return fmt.Sprintf("r%d", v)
}

// errWriter remembers the first write error and skips all writes after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
	ew.err = errors.Trace(ew.err)
}
