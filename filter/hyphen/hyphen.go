/*
Package hyphen marks hyphenation points in the content words of a WEFT.

Hyphen points are inserted as soft hyphens (U+00AD). A word is looked up
in a per-run cache first, then in an optional specialized word list, and
finally handed to a TeX pattern set; the decision is always written back
to the cache. The cache can be exported as a sorted word list in which
grave accents mark the hyphen points.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

*/
package hyphen

import (
	"io"
	"strings"
	"unicode"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/weft"
	"golang.org/x/text/unicode/norm"
)

// tracer traces with key 'weft.filter'.
func tracer() tracing.Trace {
	return tracing.Select("weft.filter")
}

// SoftHyphen marks a hyphen point inside a word.
const SoftHyphen = '\u00AD'

// GraveAccent marks a hyphen point in word list files.
const GraveAccent = '`'

// A Context holds the state of one hyphenator run: the word cache, the
// specialized word list, and the pattern set. None of it survives the
// run; a fresh Context starts empty.
type Context struct {
	cache    map[string]string
	special  map[string]string
	patterns *Patterns
}

// NewContext creates an empty hyphenation context.
func NewContext() *Context {
	return &Context{cache: make(map[string]string)}
}

// UsePatterns hands a compiled pattern set to the context.
func (ctx *Context) UsePatterns(p *Patterns) {
	ctx.patterns = p
}

// linguistic tells if a word is subject to hyphenation: it has to carry
// at least one codepoint of category L.
func linguistic(word string) bool {
	return strings.IndexFunc(word, unicode.IsLetter) >= 0
}

// Word returns the hyphenation decision for one content word. Words
// without a letter pass through unchanged; linguistic words must not
// contain blanks, line terminators or grave accents.
func (ctx *Context) Word(word string) (string, error) {
	if !linguistic(word) {
		return word, nil
	}
	if strings.ContainsAny(word, " \t\r\n") {
		return "", core.Error(core.EWORDSYNTAX, "word %q contains whitespace", word)
	}
	if strings.ContainsRune(word, GraveAccent) {
		return "", core.Error(core.EWORDSYNTAX, "word %q contains a grave accent", word)
	}
	key := norm.NFC.String(word)
	if v, ok := ctx.cache[key]; ok {
		return v, nil
	}
	v, ok := ctx.special[key]
	if !ok {
		v = key
		if ctx.patterns != nil {
			v = insertSoftHyphens(key, ctx.patterns.Offsets(key))
		}
	}
	ctx.cache[key] = v
	return v, nil
}

// insertSoftHyphens places a soft hyphen before each of the given
// codepoint offsets of word. Offsets are sorted ascending.
func insertSoftHyphens(word string, offsets []int) string {
	if len(offsets) == 0 {
		return word
	}
	var sb strings.Builder
	next := 0
	pos := 0
	for _, c := range word {
		if next < len(offsets) && pos == offsets[next] {
			sb.WriteRune(SoftHyphen)
			next++
		}
		sb.WriteRune(c)
		pos++
	}
	return sb.String()
}

// Run reads a WEFT from r, hyphenates every content word, and writes
// the result to w.
func (ctx *Context) Run(r io.Reader, w io.Writer, opts ...weft.Option) error {
	in, err := weft.NewReader(r, opts...)
	if err != nil {
		return err
	}
	defer in.Close()
	out := weft.NewWriter(w, opts...)
	defer out.Abort()
	for i := 0; i < in.LineCount(); i++ {
		tuple, err := in.ReadLine()
		if err != nil {
			return err
		}
		for k := 1; k < len(tuple); k += 2 {
			if tuple[k], err = ctx.Word(tuple[k]); err != nil {
				return err
			}
		}
		if err := out.WriteLine(tuple); err != nil {
			return err
		}
	}
	tracer().Debugf("hyphenation cache holds %d words", len(ctx.cache))
	return out.Close()
}
