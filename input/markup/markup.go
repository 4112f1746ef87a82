/*
Package markup packages XML and HTML files as WEFT.

A line-spanning state machine classifies every input codepoint into one of
eleven locations (character data, tag, quoted attribute values, comment,
CDATA, doctype, processing instruction, XML declaration). Content words
are emitted only from raw character data; everything else travels in the
skip runs. Character and entity references are decoded on the way in and
unsafe characters are re-encoded on the way out, so downstream filters
see plain text words.

The machine may start in any location, which lets fragments be processed
that begin in the middle of markup.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

*/
package markup

import (
	"io"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/weft/core/codepoint"
	"github.com/npillmayer/weft/weft"
)

// tracer traces with key 'weft.input'.
func tracer() tracing.Trace {
	return tracing.Select("weft.input")
}

// Pack reads markup from r and writes a WEFT to w. Tokenizing begins at
// location begin, which is Char for complete documents.
func Pack(r io.Reader, w io.Writer, begin Location, opts ...weft.Option) error {
	in := codepoint.NewReader(r)
	out := weft.NewWriter(w, opts...)
	defer out.Abort()
	tz := NewTokenizer(begin, nil)
	count := 0
	for {
		line, err := in.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		tuple, err := tz.Line(line)
		if err != nil {
			return err
		}
		if err := out.WriteLine(tuple); err != nil {
			return err
		}
		count++
	}
	tracer().Debugf("packaged %d markup lines, final location %s", count, tz.loc)
	return out.Close()
}
