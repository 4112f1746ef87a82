package weft

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/weft/core"
)

// A Tuple is one body line, decomposed into an alternating sequence of
// skip runs and content words:
//
//    S0, W1, S1, W2, S2, …, WN, SN
//
// Even indices hold the skips (possibly empty), odd indices hold the
// words (never empty). A line without content words is a tuple of length
// one, holding the whole line. The concatenation of all elements is the
// body line.
type Tuple []string

// Words returns the number of content words in the tuple.
func (t Tuple) Words() int {
	return len(t) / 2
}

// String re-assembles the body line.
func (t Tuple) String() string {
	return strings.Join(t, "")
}

// check verifies the writer preconditions for a tuple.
func (t Tuple) check() error {
	if len(t) == 0 || len(t)%2 == 0 {
		return core.Error(core.EINTERNAL, "tuple must have odd length, has %d", len(t))
	}
	for i, s := range t {
		if i%2 == 1 && s == "" {
			return core.Error(core.EINTERNAL, "content word %d is empty", (i+1)/2)
		}
		if !utf8.ValidString(s) {
			return core.Error(core.EENCODING, "tuple element is not valid UTF-8")
		}
		if strings.ContainsAny(s, "\r\n") {
			return core.Error(core.EENCODING, "tuple element contains a line terminator")
		}
	}
	return nil
}
