/*
Package weft implements the WEFT container format: a framed, self-describing
package combining a warp map and the original text of an input file.

A WEFT file starts with a signature line and a declaration line, followed by
the map records and the body lines:

   %WEFT;
   7,2
   +0,3
   .1,5
   .1,5
   .1,3
   .0,0
   +0,0
   $0,0
   The quick brown fox

The map tells, per body line, where the content words live: each line is an
alternating sequence of skip runs (whitespace, markup) and content words.
Filters read tuples of (skip, word, …, skip) strings through a Reader,
transform the words, and emit tuples through a Writer. The skip runs travel
through every filter untouched, which is what lets a downstream filter stay
ignorant of the original file format.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

*/
package weft

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.container'.
func tracer() tracing.Trace {
	return tracing.Select("weft.container")
}
