/*
Package slrgen is an SLR(1) parser generator and driver.

Clients hand a context-free grammar to slrgen and receive an LR(0) automaton,
FIRST and FOLLOW sets, and ACTION/GOTO tables, which then drive a shift-reduce
parse of input strings. Every parse produces a step-by-step trace.
Package structure is as follows:

■ lr: Package lr implements grammars, grammar analysis, the characteristic finite
state machine (CFSM) and the SLR(1) parser tables.

■ lr/notation: Package notation reads grammars in a compact line format like
"E -> E+T | T".

■ lr/slr: Package slr implements a table-driven shift-reduce parser.

■ lr/scanner: Package scanner defines the tokenizer interface the parser relies on.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package slrgen
