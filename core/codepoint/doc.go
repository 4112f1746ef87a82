/*
Package codepoint provides codepoint-oriented I/O for the pipeline tools.

Input is always UTF-8. A single leading byte order mark is discarded, lines
are split on LF or CRLF, and a CR not followed by LF is an error. Character
counts anywhere in the pipeline are counts of codepoints, never bytes.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

*/
package codepoint

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.core'.
func tracer() tracing.Trace {
	return tracing.Select("weft.core")
}
