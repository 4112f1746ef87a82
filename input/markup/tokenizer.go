package markup

import (
	"strings"

	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/codepoint"
	"github.com/npillmayer/weft/weft"
)

// Location is the classifier state of the tokenizer. Every codepoint of
// the input belongs to exactly one location.
type Location int8

// The eleven locations.
const (
	Char         Location = iota // raw character data
	Tag                          // inside <…>, outside quoted attribute values
	TagAttSQ                     // single-quoted attribute value
	TagAttDQ                     // double-quoted attribute value
	Comment                      // <!-- … -->
	CDATA                        // <![CDATA[ … ]]>
	Doctype                      // <!DOCTYPE …>
	DoctypeAttSQ                 // single-quoted literal in doctype
	DoctypeAttDQ                 // double-quoted literal in doctype
	PI                           // <? … ?>
	XMLDecl                      // <?xml … ?>
)

var locationNames = []string{
	"char", "tag", "tag-att-sq", "tag-att-dq", "comment", "CDATA",
	"doctype", "doctype-att-sq", "doctype-att-dq", "pi", "xml-decl",
}

func (loc Location) String() string {
	if loc < 0 || int(loc) >= len(locationNames) {
		return "invalid"
	}
	return locationNames[loc]
}

// ParseLocation maps a location name to its Location. Names are the ones
// accepted by the markup tool's -begin option.
func ParseLocation(name string) (Location, error) {
	for i, n := range locationNames {
		if n == name {
			return Location(i), nil
		}
	}
	return Char, core.Error(core.EARG, "no such tokenizer state: %q", name)
}

// A Tokenizer is the line-spanning state machine over XML/HTML input.
// It classifies every codepoint, rewrites character and entity
// references, and emits content words only from raw character data.
// The zero tokenizer starts in location Char with the built-in entity
// table; fragments may resume at any declared location.
type Tokenizer struct {
	loc   Location
	table *EntityTable
	skip  strings.Builder // pending skip run, possibly spanning locations
	tuple weft.Tuple
}

// NewTokenizer creates a tokenizer resuming at the given location.
// A nil table selects the built-in HTML5 entity table.
func NewTokenizer(begin Location, table *EntityTable) *Tokenizer {
	return &Tokenizer{loc: begin, table: table}
}

// Line feeds one input line (without terminator) to the tokenizer and
// returns its tuple. The tokenizer's location carries over to the next
// line.
func (tz *Tokenizer) Line(line string) (weft.Tuple, error) {
	for _, c := range line {
		if !codepoint.Valid(c) {
			return nil, core.Error(core.EENCODING, "invalid codepoint U+%04X in input", c)
		}
	}
	rest := line
	for rest != "" {
		var err error
		switch tz.loc {
		case Char:
			rest, err = tz.scanChar(rest)
		case Tag:
			rest, err = tz.scanTag(rest)
		case TagAttSQ:
			rest, err = tz.scanAttValue(rest, '\'')
		case TagAttDQ:
			rest, err = tz.scanAttValue(rest, '"')
		case Comment:
			rest = tz.scanRaw(rest, "-->", Char)
		case CDATA:
			rest = tz.scanRaw(rest, "]]>", Char)
		case Doctype:
			rest = tz.scanDoctype(rest)
		case DoctypeAttSQ:
			rest = tz.scanRaw(rest, "'", Doctype)
		case DoctypeAttDQ:
			rest = tz.scanRaw(rest, `"`, Doctype)
		case PI, XMLDecl:
			rest = tz.scanRaw(rest, "?>", Char)
		}
		if err != nil {
			return nil, err
		}
	}
	tuple := append(tz.tuple, tz.skip.String())
	tz.tuple = nil
	tz.skip.Reset()
	return tuple, nil
}

// scanChar processes character data up to the next '<' or the end of the
// line. Decoded text is cut into blank runs, which extend the pending
// skip, and content words.
func (tz *Tokenizer) scanChar(rest string) (string, error) {
	text := rest
	remaining := ""
	if lt := strings.IndexByte(rest, '<'); lt >= 0 {
		text, remaining = rest[:lt], rest[lt:]
	}
	decoded, err := decodeEntities(text, Char, tz.table)
	if err != nil {
		return "", err
	}
	tz.emitText(reescape(decoded, Char))
	if remaining != "" {
		opener, loc := recognizeOpener(remaining)
		tz.skip.WriteString(opener)
		tz.loc = loc
		tracer().Debugf("markup opener %q, entering location %s", opener, loc)
		remaining = remaining[len(opener):]
	}
	return remaining, nil
}

// recognizeOpener classifies the markup starting at '<'. Priority order:
// <?xml (ci), <?, <!DOCTYPE (ci), <![CDATA[ (cs), <!--, and plain <.
// The opener belongs to the skip run of the new location.
func recognizeOpener(rest string) (string, Location) {
	switch {
	case hasPrefixFold(rest, "<?xml"):
		return rest[:5], XMLDecl
	case strings.HasPrefix(rest, "<?"):
		return rest[:2], PI
	case hasPrefixFold(rest, "<!DOCTYPE"):
		return rest[:9], Doctype
	case strings.HasPrefix(rest, "<![CDATA["):
		return rest[:9], CDATA
	case strings.HasPrefix(rest, "<!--"):
		return rest[:4], Comment
	}
	return rest[:1], Tag
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// emitText distributes decoded, re-escaped character data over the skip
// buffer and the tuple under construction. Blanks are SP and HT only;
// anything else, including NBSP, is content.
func (tz *Tokenizer) emitText(text string) {
	for text != "" {
		cut := strings.IndexAny(text, " \t")
		if cut == 0 { // leading blank run extends the skip
			word := strings.TrimLeft(text, " \t")
			tz.skip.WriteString(text[:len(text)-len(word)])
			text = word
			continue
		}
		word := text
		if cut > 0 {
			word, text = text[:cut], text[cut:]
		} else {
			text = ""
		}
		tz.tuple = append(tz.tuple, tz.skip.String(), word)
		tz.skip.Reset()
	}
}

// scanTag processes the inside of a tag up to a quote, the closing '>',
// or the end of the line. Tag text is entity-checked and re-escaped; the
// terminator goes into the skip verbatim.
func (tz *Tokenizer) scanTag(rest string) (string, error) {
	text := rest
	remaining := ""
	idx := strings.IndexAny(rest, `'">`)
	if idx >= 0 {
		text, remaining = rest[:idx], rest[idx:]
	}
	decoded, err := decodeEntities(text, Tag, tz.table)
	if err != nil {
		return "", err
	}
	tz.skip.WriteString(reescape(decoded, Tag))
	if remaining != "" {
		term := remaining[0]
		tz.skip.WriteByte(term)
		switch term {
		case '\'':
			tz.loc = TagAttSQ
		case '"':
			tz.loc = TagAttDQ
		case '>':
			tz.loc = Char
		}
		remaining = remaining[1:]
	}
	return remaining, nil
}

// scanAttValue processes a quoted attribute value up to the closing
// quote or the end of the line.
func (tz *Tokenizer) scanAttValue(rest string, quote byte) (string, error) {
	text := rest
	remaining := ""
	if idx := strings.IndexByte(rest, quote); idx >= 0 {
		text, remaining = rest[:idx], rest[idx:]
	}
	decoded, err := decodeEntities(text, tz.loc, tz.table)
	if err != nil {
		return "", err
	}
	tz.skip.WriteString(reescape(decoded, tz.loc))
	if remaining != "" {
		tz.skip.WriteByte(quote)
		tz.loc = Tag
		remaining = remaining[1:]
	}
	return remaining, nil
}

// scanDoctype processes doctype-interior text. No entity decoding here.
func (tz *Tokenizer) scanDoctype(rest string) string {
	idx := strings.IndexAny(rest, `'">`)
	if idx < 0 {
		tz.skip.WriteString(rest)
		return ""
	}
	tz.skip.WriteString(rest[:idx+1])
	switch rest[idx] {
	case '\'':
		tz.loc = DoctypeAttSQ
	case '"':
		tz.loc = DoctypeAttDQ
	case '>':
		tz.loc = Char
	}
	return rest[idx+1:]
}

// scanRaw consumes text of a location without entity decoding, ending at
// the terminator sequence. The terminator may not span lines.
func (tz *Tokenizer) scanRaw(rest string, term string, next Location) string {
	if idx := strings.Index(rest, term); idx >= 0 {
		tz.skip.WriteString(rest[:idx+len(term)])
		tz.loc = next
		return rest[idx+len(term):]
	}
	tz.skip.WriteString(rest)
	return ""
}
