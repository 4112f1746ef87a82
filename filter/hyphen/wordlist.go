package hyphen

import (
	"io"
	"sort"
	"strings"

	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/codepoint"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// LoadSpecial reads a specialized word list. One word per line, grave
// accents marking the hyphen points; blanks around the word are trimmed
// and the word is NFC-normalized. A grave accent may appear neither at
// the rim of a word nor next to another one. Repeated entries have to
// agree on their hyphen points.
func (ctx *Context) LoadSpecial(r io.Reader) error {
	in := codepoint.NewReader(r)
	if ctx.special == nil {
		ctx.special = make(map[string]string)
	}
	count := 0
	for {
		line, err := in.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		entry := norm.NFC.String(strings.Trim(line, " \t"))
		if entry == "" {
			continue
		}
		key, value, err := splitEntry(entry)
		if err != nil {
			return err
		}
		if prev, ok := ctx.special[key]; ok && prev != value {
			return core.Error(core.EWORDSYNTAX, "conflicting word list entries for %q", key)
		}
		ctx.special[key] = value
		count++
	}
	tracer().Debugf("specialized word list holds %d entries", len(ctx.special))
	return nil
}

// splitEntry derives the cache key (graves removed) and value (graves
// turned into soft hyphens) of a word list entry.
func splitEntry(entry string) (string, string, error) {
	var key, value strings.Builder
	prevGrave := true // a grave may not start the entry
	for _, c := range entry {
		if c != GraveAccent {
			key.WriteRune(c)
			value.WriteRune(c)
			prevGrave = false
			continue
		}
		if prevGrave {
			return "", "", core.Error(core.EWORDSYNTAX, "misplaced grave accent in word list entry %q", entry)
		}
		value.WriteRune(SoftHyphen)
		prevGrave = true
	}
	if prevGrave { // ends with a grave, or was all graves
		return "", "", core.Error(core.EWORDSYNTAX, "misplaced grave accent in word list entry %q", entry)
	}
	return key.String(), value.String(), nil
}

// ExportWordList dumps the cache as a word list: one word per line,
// soft hyphens rendered as grave accents. Entries are ordered by
// descending word length (hyphen points not counted) and, within one
// length, by the Unicode Collation Algorithm.
func (ctx *Context) ExportWordList(w io.Writer) error {
	type entry struct {
		key   string // bare word, sort key
		value string // word with soft hyphens
	}
	entries := make([]entry, 0, len(ctx.cache))
	for key, value := range ctx.cache {
		entries = append(entries, entry{key: key, value: value})
	}
	collator := collate.New(language.Und)
	sort.SliceStable(entries, func(i, j int) bool {
		return collator.CompareString(entries[i].key, entries[j].key) < 0
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return codepoint.Length(entries[i].key) > codepoint.Length(entries[j].key)
	})
	out := codepoint.NewWriter(w)
	for _, e := range entries {
		line := strings.Map(func(c rune) rune {
			if c == SoftHyphen {
				return GraveAccent
			}
			return c
		}, e.value)
		if err := out.WriteLine(line); err != nil {
			return err
		}
	}
	return out.Flush()
}
