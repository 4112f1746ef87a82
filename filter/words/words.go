/*
Package words splits mixed content words into linguistic and
non-linguistic sub-words.

A linguistic sub-word is a maximal run of codepoints from the Unicode
categories L (Letter) and M (Mark). The apostrophe and the right single
quotation mark count as letter-like when, and only when, both their
immediate neighbours in the original word are letters or marks — so
"don't" stays one word, while a quote at the rim of a word is punctuation.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

*/
package words

import (
	"io"
	"unicode"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/weft/weft"
)

// tracer traces with key 'weft.filter'.
func tracer() tracing.Trace {
	return tracing.Select("weft.filter")
}

// Contextual apostrophes are parked on private-use sentinels while the
// word is cut into runs, and restored afterwards.
const (
	apostrophe    = '\''
	rightQuote    = '’'
	sentinelApos  = '\uE000'
	sentinelQuote = '\uE001'
)

func isLetter(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsMark(c)
}

func isLetterLike(c rune) bool {
	return isLetter(c) || c == sentinelApos || c == sentinelQuote
}

// Split cuts one content word into its alternating non-linguistic and
// linguistic pieces, in original order. Every piece is non-empty; a word
// without category-L/M codepoints comes back whole.
func Split(word string) []string {
	original := []rune(word)
	runes := make([]rune, len(original))
	for i, c := range original {
		runes[i] = c
		if c != apostrophe && c != rightQuote {
			continue
		}
		if i > 0 && i+1 < len(original) && isLetter(original[i-1]) && isLetter(original[i+1]) {
			if c == apostrophe {
				runes[i] = sentinelApos
			} else {
				runes[i] = sentinelQuote
			}
		}
	}
	var pieces []string
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && !isLetterLike(runes[j]) {
			j++
		}
		if j > i {
			pieces = append(pieces, string(original[i:j]))
			i = j
		}
		for j < len(runes) && isLetterLike(runes[j]) {
			j++
		}
		if j > i {
			pieces = append(pieces, string(original[i:j]))
			i = j
		}
	}
	return pieces
}

// Run reads a WEFT from r, splits every content word, and writes the
// reshaped WEFT to w. Between adjacent pieces of a split word an empty
// skip keeps the tuple alternating; the skip runs of the line are
// preserved untouched.
func Run(r io.Reader, w io.Writer, opts ...weft.Option) error {
	in, err := weft.NewReader(r, opts...)
	if err != nil {
		return err
	}
	defer in.Close()
	out := weft.NewWriter(w, opts...)
	defer out.Abort()
	split := 0
	for i := 0; i < in.LineCount(); i++ {
		tuple, err := in.ReadLine()
		if err != nil {
			return err
		}
		result := weft.Tuple{tuple[0]}
		for k := 1; k < len(tuple); k += 2 {
			for n, piece := range Split(tuple[k]) {
				if n > 0 {
					result = append(result, "")
				}
				result = append(result, piece)
			}
			split++
			result = append(result, tuple[k+1])
		}
		if err := out.WriteLine(result); err != nil {
			return err
		}
	}
	tracer().Debugf("split %d content words", split)
	return out.Close()
}
