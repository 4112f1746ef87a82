package hyphen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	for name, style := range map[string]Style{"utf8": StyleUTF8, "czech": StyleCzech, "german": StyleGerman} {
		got, err := ParseStyle(name)
		assert.NoError(t, err)
		assert.Equal(t, style, got)
	}
	_, err := ParseStyle("latin")
	assert.Error(t, err)
}

func TestBarePatternList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	// a file without \patterns{} group is a plain pattern list
	p, err := LoadPatterns(strings.NewReader("y1p n1a\na1t % trailing comment\n"), StyleUTF8)
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 6, 7}, p.Offsets("hyphenation"))
}

func TestPatternsAreCaseInsensitive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	p := loadTestPatterns(t)
	assert.Equal(t, []int{2, 6, 7}, p.Offsets("Hyphenation"))
}

func TestHyphenationExceptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	src := `
\patterns{ y1p n1a a1t }
\hyphenation{ hy-phen-ation ta-ble }
`
	p, err := LoadPatterns(strings.NewReader(src), StyleUTF8)
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 6}, p.Offsets("hyphenation"))
	assert.Equal(t, []int{2}, p.Offsets("table"))
}

func TestDottedAnchorPatterns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	// .un1d only applies at the beginning of a word
	p, err := LoadPatterns(strings.NewReader(".un1d\n"), StyleUTF8)
	assert.NoError(t, err)
	assert.Equal(t, []int{2}, p.Offsets("undo"))
	assert.Empty(t, p.Offsets("fundo"))
}

func TestCzechStyleDecodesLatin2(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	// "ě1k" in ISO Latin-2: 0xEC is ě
	raw := []byte{0xEC, '1', 'k', '\n'}
	p, err := LoadPatterns(bytes.NewReader(raw), StyleCzech)
	assert.NoError(t, err)
	assert.Equal(t, []int{2}, p.Offsets("zěkaa"))
}

func TestGermanStyleShortcuts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	// the traditional "a notation stands for ä
	p, err := LoadPatterns(strings.NewReader("\"a1s\n"), StyleGerman)
	assert.NoError(t, err)
	assert.Equal(t, []int{2}, p.Offsets("mäste"))
}
