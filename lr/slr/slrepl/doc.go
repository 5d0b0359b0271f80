/*
Package slrepl/main provides an interactive command line tool (SLR.REPL)
for constructing SLR(1) parsers. Users enter a grammar in a compact
notation, one line per non-terminal,

    E->E+T|T
    T->T*F|F
    F->(E)|i

either interactively or from a file given with flag -grammar. The first line
of a grammar file holds the number of lines to follow. SLR.REPL prints the
numbered productions and the ACTION table of the parser, then reads input
strings and prints a trace of each parse.

    slrepl -grammar expr.txt -dot expr.dot 'i+i*i'

Upper case letters are non-terminals, '#' denotes the empty string and '$'
marks the end of input.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// cli is the tracer for messages of the command line tool itself. Library
// packages trace with keys 'slrgen.lr' and 'slrgen.scanner'.
var cli tracing.Trace = gologadapter.New()

func tracer() tracing.Trace {
	return cli
}
