package markup

import (
	"html"
	"strconv"
	"strings"

	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/codepoint"
)

// An EntityTable maps HTML5 entity names (without the leading '&' and the
// closing ';') to replacement codepoint sequences. The zero table serves
// the full built-in HTML5 set; tables loaded from a distribution file
// replace the built-in set completely.
type EntityTable struct {
	names map[string]string
}

// Lookup resolves an entity name, case-sensitively.
func (t *EntityTable) Lookup(name string) (string, bool) {
	if t != nil && t.names != nil {
		v, ok := t.names[name]
		return v, ok
	}
	// The built-in set defers to the standard library, which carries the
	// complete HTML5 table. UnescapeString also resolves legacy
	// semicolon-less prefixes, so a partial match has to be filtered out:
	// it leaves our closing semicolon behind.
	ref := "&" + name + ";"
	v := html.UnescapeString(ref)
	if v == ref {
		return "", false
	}
	if v == html.UnescapeString("&"+name)+";" {
		return "", false
	}
	return v, true
}

// LoadEntityTable reads a table in distribution form: one entry per line,
//
//    name=hex1,hex2,…
//
// sorted by name, codepoints in hex without prefix.
func LoadEntityTable(r *codepoint.Reader) (*EntityTable, error) {
	t := &EntityTable{names: make(map[string]string)}
	for {
		line, err := r.ReadLine()
		if err != nil {
			break
		}
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			return nil, core.Error(core.EENCODING, "malformed entity table line %q", line)
		}
		name := line[:eq]
		var sb strings.Builder
		for _, hexdigits := range strings.Split(line[eq+1:], ",") {
			n, err := strconv.ParseUint(hexdigits, 16, 32)
			if err != nil || !codepoint.Valid(rune(n)) {
				return nil, core.Error(core.EENTITYCODEP, "bad codepoint %q for entity %s", hexdigits, name)
			}
			sb.WriteRune(rune(n))
		}
		if sb.Len() == 0 {
			return nil, core.Error(core.EENCODING, "entity %s has no codepoints", name)
		}
		t.names[name] = sb.String()
	}
	return t, nil
}

func isEntityNameChar(c rune) bool {
	return c == '#' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// decodeEntities resolves character and entity references in text. It is a
// pure function of the text and the location: references are decoded in
// character data and inside tags, but a tag outside its quoted attribute
// values must not contain a raw ampersand at all.
func decodeEntities(text string, loc Location, table *EntityTable) (string, error) {
	amp := strings.IndexByte(text, '&')
	if amp < 0 {
		return text, nil
	}
	if loc == Tag {
		return "", core.Error(core.EAMPERSAND, "raw '&' inside tag")
	}
	var sb strings.Builder
	rest := text
	for {
		amp = strings.IndexByte(rest, '&')
		if amp < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		sb.WriteString(rest[:amp])
		rest = rest[amp+1:]
		end := 0
		for _, c := range rest {
			if !isEntityNameChar(c) {
				break
			}
			end++ // name characters are all ASCII
		}
		name := rest[:end]
		if name == "" || end >= len(rest) || rest[end] != ';' {
			return "", core.Error(core.EENTITYUNKNOWN, "malformed entity reference '&%s'", name)
		}
		rest = rest[end+1:]
		repl, err := resolveEntity(name, table)
		if err != nil {
			return "", err
		}
		sb.WriteString(repl)
	}
}

// resolveEntity resolves a single reference name (sans '&' and ';').
func resolveEntity(name string, table *EntityTable) (string, error) {
	if name[0] != '#' {
		repl, ok := table.Lookup(name)
		if !ok {
			return "", core.Error(core.EENTITYUNKNOWN, "unknown entity '&%s;'", name)
		}
		for _, c := range repl {
			if !codepoint.Valid(c) {
				return "", core.Error(core.EENTITYCODEP, "entity '&%s;' yields invalid codepoint U+%04X", name, c)
			}
		}
		return repl, nil
	}
	digits, base := name[1:], 10
	if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
		digits, base = digits[1:], 16
	}
	if digits == "" {
		return "", core.Error(core.EENTITYUNKNOWN, "malformed numeric reference '&%s;'", name)
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return "", core.Error(core.EENTITYUNKNOWN, "malformed numeric reference '&%s;'", name)
	}
	if !codepoint.Valid(rune(n)) {
		return "", core.Error(core.EENTITYCODEP, "reference '&%s;' yields invalid codepoint U+%04X", name, n)
	}
	return string(rune(n)), nil
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
var escaperSQ = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "'", "&apos;")
var escaperDQ = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// reescape re-encodes the characters that are unsafe at the given
// location. Terminator and opener characters never pass through here.
func reescape(text string, loc Location) string {
	switch loc {
	case TagAttSQ:
		return escaperSQ.Replace(text)
	case TagAttDQ:
		return escaperDQ.Replace(text)
	}
	return escaper.Replace(text)
}
