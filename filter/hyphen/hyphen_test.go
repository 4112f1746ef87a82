package hyphen

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/weft"
)

// a small pattern set that hyphenates "hyphenation" as hy-phen-a-tion
const testPatterns = `
% test patterns
\patterns{
y1p
n1a
a1t
}
`

func loadTestPatterns(t *testing.T) *Patterns {
	t.Helper()
	p, err := LoadPatterns(strings.NewReader(testPatterns), StyleUTF8)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPatternOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	p := loadTestPatterns(t)
	offsets := p.Offsets("hyphenation")
	want := []int{2, 6, 7}
	if len(offsets) != len(want) {
		t.Fatalf("offsets = %v, want %v", offsets, want)
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("offsets = %v, want %v", offsets, want)
		}
	}
}

func TestPatternMargins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	p := loadTestPatterns(t)
	// "hyp" matches y1p, but the break would fall inside the margins
	if offsets := p.Offsets("hyp"); len(offsets) != 0 {
		t.Errorf("short word got offsets %v", offsets)
	}
}

func TestHyphenateWord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	ctx := NewContext()
	ctx.UsePatterns(loadTestPatterns(t))
	got, err := ctx.Word("hyphenation")
	if err != nil {
		t.Fatal(err)
	}
	if got != "hy\u00adphen\u00ada\u00adtion" {
		t.Errorf("hyphenation becomes %q", got)
	}
	// non-linguistic words pass through untouched
	if got, _ := ctx.Word("1234!"); got != "1234!" {
		t.Errorf("non-linguistic word changed to %q", got)
	}
}

func TestHyphenateWordSyntax(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	ctx := NewContext()
	if _, err := ctx.Word("foo`bar"); core.Code(err) != core.EWORDSYNTAX {
		t.Errorf("grave accent in word must be fatal, got %v", err)
	}
}

func TestCacheOverridesPatterns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	ctx := NewContext()
	ctx.UsePatterns(loadTestPatterns(t))
	first, err := ctx.Word("hyphenation")
	if err != nil {
		t.Fatal(err)
	}
	ctx.patterns = nil // later lookups must come from the cache
	second, err := ctx.Word("hyphenation")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("cache miss on second lookup: %q vs %q", first, second)
	}
}

func TestSpecialListOverridesPatterns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	ctx := NewContext()
	ctx.UsePatterns(loadTestPatterns(t))
	if err := ctx.LoadSpecial(strings.NewReader("hyphen`ation\n")); err != nil {
		t.Fatal(err)
	}
	got, err := ctx.Word("hyphenation")
	if err != nil {
		t.Fatal(err)
	}
	if got != "hyphen\u00adation" {
		t.Errorf("specialized entry ignored, got %q", got)
	}
}

func TestSpecialListSyntax(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	bad := []string{"`word\n", "word`\n", "wo``rd\n", "```\n"}
	for _, list := range bad {
		ctx := NewContext()
		if err := ctx.LoadSpecial(strings.NewReader(list)); core.Code(err) != core.EWORDSYNTAX {
			t.Errorf("list %q must be rejected, got %v", list, err)
		}
	}
	// agreeing duplicates are fine, disagreeing ones are not
	ctx := NewContext()
	if err := ctx.LoadSpecial(strings.NewReader("ta`ble\n  ta`ble \n")); err != nil {
		t.Errorf("agreeing duplicate rejected: %v", err)
	}
	ctx = NewContext()
	if err := ctx.LoadSpecial(strings.NewReader("ta`ble\ntab`le\n")); core.Code(err) != core.EWORDSYNTAX {
		t.Errorf("conflicting duplicate accepted, got %v", err)
	}
}

func TestRunAndExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	var packed strings.Builder
	w := weft.NewWriter(&packed)
	if err := w.WriteLine(weft.Tuple{"", "hyphenation", " ", "fox", ""}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	ctx := NewContext()
	ctx.UsePatterns(loadTestPatterns(t))
	var out strings.Builder
	if err := ctx.Run(strings.NewReader(packed.String()), &out); err != nil {
		t.Fatal(err)
	}
	r, err := weft.NewReader(strings.NewReader(out.String()))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	tuple, err := r.ReadLine()
	if err != nil {
		t.Fatal(err)
	}
	if tuple[1] != "hy\u00adphen\u00ada\u00adtion" {
		t.Errorf("word 1 is %q", tuple[1])
	}
	if tuple[3] != "fox" {
		t.Errorf("word 2 is %q", tuple[3])
	}
	//
	var list strings.Builder
	if err := ctx.ExportWordList(&list); err != nil {
		t.Fatal(err)
	}
	want := "hy`phen`a`tion\nfox\n"
	if list.String() != want {
		t.Errorf("word list is %q, want %q", list.String(), want)
	}
}

func TestExportOrdering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	ctx := NewContext()
	for _, word := range []string{"bb", "aaa", "ab", "zzzz", "aa"} {
		if _, err := ctx.Word(word); err != nil {
			t.Fatal(err)
		}
	}
	var list strings.Builder
	if err := ctx.ExportWordList(&list); err != nil {
		t.Fatal(err)
	}
	// longest first, UCA order within one length
	want := "zzzz\naaa\naa\nab\nbb\n"
	if list.String() != want {
		t.Errorf("word list is %q, want %q", list.String(), want)
	}
}

func TestHyphenatorPurity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	run := func() string {
		ctx := NewContext()
		ctx.UsePatterns(loadTestPatterns(t))
		var sb strings.Builder
		for _, w := range []string{"hyphenation", "fox", "hyphenation"} {
			v, err := ctx.Word(w)
			if err != nil {
				t.Fatal(err)
			}
			sb.WriteString(v)
			sb.WriteByte('\n')
		}
		var list strings.Builder
		ctx.ExportWordList(&list)
		return sb.String() + list.String()
	}
	if run() != run() {
		t.Errorf("two identical runs differ")
	}
}
