/*
Package lr implements prerequisites for SLR(1) parsing: grammars, grammar analysis,
the LR(0) automaton (CFSM) and the parser tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Grammars may contain
epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a").End()     // S  ➞  A a
    b.LHS("A").N("B").N("D").End()     // A  ➞  B D
    b.LHS("B").T("b").End()            // B  ➞  b
    b.LHS("B").Epsilon()               // B  ➞
    b.LHS("D").T("d").End()            // D  ➞  d
    b.LHS("D").Epsilon()               // D  ➞

For grammars with single-character symbols there is a shortcut, where upper case
letters denote non-terminals:

    b.AddProduction("E", "E+T", "T")   // E  ➞  E + T  |  T

Grammars are augmented with a start rule S' ➞ S, which always is rule 0:

   b.Grammar().Dump()

   0: [S'] ::= [S]
   1: [S] ::= [A a]
   2: [A] ::= [B D]
   3: [B] ::= [b]
   4: [B] ::= [#]
   5: [D] ::= [d]
   6: [D] ::= [#]

The end-of-input symbol '$' is always part of a grammar's terminals.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all nullable non-terminals.
Sets are sets of symbol values, with value 0 representing epsilon.

    ga, err := lr.Analysis(g)
    ga.Grammar().EachNonTerminal(
        func(N *lr.Symbol) interface{} {                     // ad-hoc mapper function
            fmt.Printf("FIRST(%s) = %v", N, ga.First(N))     // get FIRST-set for N
            return nil
        })

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First a characteristic finite state machine (CFSM) is built from the
grammar. The CFSM will then be transformed into a GOTO table and an ACTION table
for an SLR(1) parser. The CFSM will not be thrown away,
but is made available to the client. It can be exported to Graphviz's Dot-format.

    lrgen := lr.NewTableGenerator(ga)  // ga is a grammar analysis, see above
    err := lrgen.CreateTables()        // construct LR parser tables

Conflicts are resolved by a fixed policy: a shift wins over a reduce, and of two
reduces the one assigned first (lower rule number) wins. This deviates from
canonical SLR(1), where such grammars would be rejected. Resolved conflicts are
reported by lrgen.Conflicts().
___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'slrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.lr")
}
