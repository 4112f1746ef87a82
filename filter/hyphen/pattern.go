package hyphen

import (
	"io"
	"strings"

	"github.com/derekparker/trie"
	"github.com/npillmayer/weft/core"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Style selects the character encoding of a TeX pattern file.
type Style int8

// Pattern file encoding styles. Classic pattern distributions predate
// Unicode: the Czech patterns circulate in ISO Latin-2, the German ones
// in ISO Latin-1 with the traditional "a "o "u "s umlaut shortcuts.
const (
	StyleUTF8 Style = iota
	StyleCzech
	StyleGerman
)

// ParseStyle maps a -style option value to its Style.
func ParseStyle(name string) (Style, error) {
	switch name {
	case "utf8":
		return StyleUTF8, nil
	case "czech":
		return StyleCzech, nil
	case "german":
		return StyleGerman, nil
	}
	return StyleUTF8, core.Error(core.EARG, "no such pattern style: %q", name)
}

// Patterns is a compiled TeX hyphenation pattern set. It maps a word to
// the sorted list of positions (in codepoints, strictly inside the word)
// where a hyphen may be inserted.
type Patterns struct {
	tree       *trie.Trie     // letter skeleton → inter-letter weights
	exceptions map[string][]int
	maxLen     int // longest skeleton in the set
	leftMin    int
	rightMin   int
}

var germanShortcuts = strings.NewReplacer(`"a`, "ä", `"o`, "ö", `"u`, "ü", `"s`, "ß", `"A`, "Ä", `"O`, "Ö", `"U`, "Ü")

// LoadPatterns compiles a TeX pattern file. Both a bare list of patterns
// and the \patterns{…} / \hyphenation{…} group syntax are accepted; '%'
// starts a comment.
func LoadPatterns(r io.Reader, style Style) (*Patterns, error) {
	switch style {
	case StyleCzech:
		r = transform.NewReader(r, charmap.ISO8859_2.NewDecoder())
	case StyleGerman:
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "reading pattern file: %v", err)
	}
	text := string(raw)
	if style == StyleGerman {
		text = germanShortcuts.Replace(text)
	}
	p := &Patterns{
		tree:       trie.New(),
		exceptions: make(map[string][]int),
		leftMin:    2,
		rightMin:   2,
	}
	if err := p.parse(text); err != nil {
		return nil, err
	}
	return p, nil
}

// parse walks the pattern file text, honoring comments and the TeX
// grouping commands.
func (p *Patterns) parse(text string) error {
	inPatterns, inExceptions := false, false
	sawGroup := strings.Contains(text, `\patterns`)
	for _, line := range strings.Split(text, "\n") {
		if cut := strings.IndexByte(line, '%'); cut >= 0 {
			line = line[:cut]
		}
		for _, token := range strings.Fields(strings.ReplaceAll(strings.ReplaceAll(line, "{", " { "), "}", " } ")) {
			switch {
			case token == `\patterns`:
				inPatterns, inExceptions = true, false
			case token == `\hyphenation`:
				inPatterns, inExceptions = false, true
			case token == "{":
				// group opener, handled by the command before it
			case token == "}":
				inPatterns, inExceptions = false, false
			case inExceptions:
				p.addException(token)
			case inPatterns || !sawGroup:
				if err := p.addPattern(token); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// addPattern compiles one pattern token like ".ach4" or "hy3ph" into its
// letter skeleton and inter-letter weights.
func (p *Patterns) addPattern(token string) error {
	var skeleton strings.Builder
	var weights []int
	pending := 0
	count := 0
	for _, c := range strings.ToLower(token) {
		if c >= '0' && c <= '9' {
			pending = int(c - '0')
			continue
		}
		weights = append(weights, pending)
		pending = 0
		skeleton.WriteRune(c)
		count++
	}
	weights = append(weights, pending)
	if count == 0 {
		return core.Error(core.EWORDSYNTAX, "pattern %q has no letters", token)
	}
	p.tree.Add(skeleton.String(), weights)
	if count > p.maxLen {
		p.maxLen = count
	}
	return nil
}

// addException records a \hyphenation entry like "ta-ble".
func (p *Patterns) addException(token string) {
	var word strings.Builder
	var offsets []int
	pos := 0
	for _, c := range strings.ToLower(token) {
		if c == '-' {
			offsets = append(offsets, pos)
			continue
		}
		word.WriteRune(c)
		pos++
	}
	p.exceptions[word.String()] = offsets
}

// Offsets returns the sorted hyphenation offsets for word, in codepoint
// positions strictly inside the word.
func (p *Patterns) Offsets(word string) []int {
	letters := []rune(strings.ToLower(word))
	if exc, ok := p.exceptions[string(letters)]; ok {
		return exc
	}
	dotted := make([]rune, 0, len(letters)+2)
	dotted = append(dotted, '.')
	dotted = append(dotted, letters...)
	dotted = append(dotted, '.')
	weights := make([]int, len(dotted)+1)
	for i := range dotted {
		limit := len(dotted) - i
		if limit > p.maxLen {
			limit = p.maxLen
		}
		for l := 1; l <= limit; l++ {
			node, ok := p.tree.Find(string(dotted[i : i+l]))
			if !ok {
				continue
			}
			for k, wt := range node.Meta().([]int) {
				if at := i + k; wt > weights[at] {
					weights[at] = wt
				}
			}
		}
	}
	var offsets []int
	for off := p.leftMin; off <= len(letters)-p.rightMin; off++ {
		// offset off in the word is the gap at index off+1 of dotted
		if weights[off+1]%2 == 1 {
			offsets = append(offsets, off)
		}
	}
	return offsets
}
