/*
Package plain packages plain text files as WEFT.

Content words are the maximal runs of non-blank codepoints of each line;
everything else ends up in the skip runs. A completely empty input still
produces one (empty) body line, as a WEFT body has at least one line;
unpacking that WEFT yields a single LF. Input that ends with a line break
is reproduced byte for byte by unpacking.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

*/
package plain

import (
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/weft/core/codepoint"
	"github.com/npillmayer/weft/weft"
)

// tracer traces with key 'weft.input'.
func tracer() tracing.Trace {
	return tracing.Select("weft.input")
}

// Pack reads plain UTF-8 text from r and writes a WEFT to w.
func Pack(r io.Reader, w io.Writer, opts ...weft.Option) error {
	in := codepoint.NewReader(r)
	out := weft.NewWriter(w, opts...)
	defer out.Abort()
	count := 0
	for {
		line, err := in.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := out.WriteLine(split(line)); err != nil {
			return err
		}
		count++
	}
	tracer().Debugf("packaged %d plain text lines", count)
	return out.Close()
}

func isBlank(c rune) bool {
	return c == ' ' || c == '\t'
}

// split decomposes one line into its skip/word tuple.
func split(line string) weft.Tuple {
	tuple := weft.Tuple{}
	var run strings.Builder
	inWord := false
	for _, c := range line {
		if isBlank(c) == inWord { // run type changes
			tuple = append(tuple, run.String())
			run.Reset()
			inWord = !inWord
		}
		run.WriteRune(c)
	}
	tuple = append(tuple, run.String())
	if inWord { // line ended inside a word: append the empty trailing skip
		tuple = append(tuple, "")
	}
	return tuple
}
