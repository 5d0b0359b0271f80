/*
Package iteratable implements iteratable container data structures.

Set is a special purpose set type, suitable mainly for implementing algorithms
around scanners, parsers, etc. These kinds of algorithms are often more straightforward
to describe as set constructions and operations. Elements have to be comparable Go
values, as they are used as map keys.

Unusually, all set operations are destructive!

Iteration is tolerant against growth: elements added to a set while it is being
iterated will be visited by the same iteration. This makes Set a natural worklist
for fixed-point computations like an LR(0) closure.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package iteratable
