/*
Package woof applies user-supplied escape tables to content words.

A Woof table names a one-character escape lead and maps short ASCII keys
to arbitrary codepoint sequences. Keys must be unique and no key may be
a proper prefix of another, so a first-match scan over the key lengths
is unambiguous.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

*/
package woof

import (
	"io"
	"strconv"
	"strings"

	"github.com/derekparker/trie"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/codepoint"
	"github.com/npillmayer/weft/weft"
)

// tracer traces with key 'weft.filter'.
func tracer() tracing.Trace {
	return tracing.Select("weft.filter")
}

// A Table is a loaded Woof escape table.
type Table struct {
	Lead   rune // the escape lead character
	keys   *trie.Trie
	maxKey int
}

// LoadTable reads a Woof table. The file is US-ASCII; '#' introduces a
// comment at line start or after a blank; blank lines are ignored. The
// first effective line holds the escape lead ('H' standing in for '#'),
// every further line one record:
//
//    hex(,hex)*:key
//
// with the replacement codepoints on the left and the key on the right.
func LoadTable(r io.Reader) (*Table, error) {
	in := codepoint.NewReader(r)
	table := &Table{keys: trie.New()}
	seen := hashset.New()
	sawLead := false
	for lineno := 1; ; lineno++ {
		raw, err := in.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line := strings.TrimRight(stripComment(raw), " \t")
		if line == "" {
			continue
		}
		if !isASCII(line) {
			return nil, core.Error(core.EWOOFSYNTAX, "Woof table is not US-ASCII in line %d", lineno)
		}
		if !sawLead {
			if err := table.setLead(line, lineno); err != nil {
				return nil, err
			}
			sawLead = true
			continue
		}
		key, value, err := parseRecord(line, lineno)
		if err != nil {
			return nil, err
		}
		if seen.Contains(key) {
			return nil, core.Error(core.EWOOFAMBIGUOUS, "duplicate Woof key %q in line %d", key, lineno)
		}
		seen.Add(key)
		table.keys.Add(key, value)
		if len(key) > table.maxKey {
			table.maxKey = len(key)
		}
	}
	if !sawLead {
		return nil, core.Error(core.EWOOFSYNTAX, "Woof table lacks an escape lead header")
	}
	for _, key := range table.keys.Keys() {
		if len(table.keys.PrefixSearch(key)) > 1 {
			return nil, core.Error(core.EWOOFAMBIGUOUS, "Woof key %q is a prefix of another key", key)
		}
	}
	tracer().Debugf("Woof table loaded, escape lead %q", table.Lead)
	return table, nil
}

// stripComment removes a comment from raw: '#' counts as a comment
// opener at line start or right after SP or HT.
func stripComment(raw string) string {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' && (i == 0 || raw[i-1] == ' ' || raw[i-1] == '\t') {
			return raw[:i]
		}
	}
	return raw
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7E {
			return false
		}
	}
	return true
}

func isVisibleASCII(c byte) bool {
	return c > 0x20 && c <= 0x7E
}

func (t *Table) setLead(line string, lineno int) error {
	if len(line) != 1 {
		return core.Error(core.EWOOFSYNTAX, "Woof header must be a single character, line %d", lineno)
	}
	lead := line[0]
	if lead == 'H' {
		lead = '#'
	}
	isAlnum := (lead >= '0' && lead <= '9') || (lead >= 'A' && lead <= 'Z') || (lead >= 'a' && lead <= 'z')
	if !isVisibleASCII(lead) || isAlnum {
		return core.Error(core.EWOOFSYNTAX, "escape lead %q must be printable ASCII and not alphanumeric", lead)
	}
	t.Lead = rune(lead)
	return nil
}

func parseRecord(line string, lineno int) (string, string, error) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", "", core.Error(core.EWOOFSYNTAX, "Woof record lacks colon in line %d", lineno)
	}
	var value strings.Builder
	for _, hexdigits := range strings.Split(line[:colon], ",") {
		n, err := strconv.ParseUint(hexdigits, 16, 32)
		if err != nil || !codepoint.Valid(rune(n)) {
			return "", "", core.Error(core.EWOOFSYNTAX, "bad codepoint %q in line %d", hexdigits, lineno)
		}
		value.WriteRune(rune(n))
	}
	key := line[colon+1:]
	if key == "" {
		return "", "", core.Error(core.EWOOFSYNTAX, "empty Woof key in line %d", lineno)
	}
	for i := 0; i < len(key); i++ {
		if !isVisibleASCII(key[i]) {
			return "", "", core.Error(core.EWOOFSYNTAX, "Woof key %q is not visible ASCII in line %d", key, lineno)
		}
	}
	return key, value.String(), nil
}

// Expand replaces the escape sequences in one content word. Text between
// escapes passes through unchanged; an escape lead that no key matches
// is fatal.
func (t *Table) Expand(word string) (string, error) {
	lead := string(t.Lead)
	if !strings.Contains(word, lead) {
		return word, nil
	}
	var sb strings.Builder
	rest := word
	for {
		idx := strings.Index(rest, lead)
		if idx < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		sb.WriteString(rest[:idx])
		rest = rest[idx+len(lead):]
		matched := false
		for l := 1; l <= t.maxKey && l <= len(rest); l++ {
			if node, ok := t.keys.Find(rest[:l]); ok {
				sb.WriteString(node.Meta().(string))
				rest = rest[l:]
				matched = true
				break
			}
		}
		if !matched {
			return "", core.Error(core.EWOOFSYNTAX, "no Woof key matches after %q in %q", lead, word)
		}
	}
}

// Run reads a WEFT from r, expands the escapes of every content word
// with table, and writes the result to w.
func Run(r io.Reader, w io.Writer, table *Table, opts ...weft.Option) error {
	if table == nil {
		return core.Error(core.ETABLEMISSING, "no Woof table given")
	}
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
			if tuple[k], err = table.Expand(tuple[k]); err != nil {
				return err
			}
		}
		if err := out.WriteLine(tuple); err != nil {
			return err
		}
	}
	return out.Close()
}
