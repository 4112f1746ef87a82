package woof

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/weft"
)

const aeTable = `
# ligature escapes
;
61,65:ae
c6:AE
`

func loadAE(t *testing.T) *Table {
	t.Helper()
	table, err := LoadTable(strings.NewReader(aeTable))
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestLoadTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	table := loadAE(t)
	if table.Lead != ';' {
		t.Errorf("escape lead is %q", table.Lead)
	}
}

func TestExpand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	table := loadAE(t)
	cases := []struct {
		word string
		want string
	}{
		{"plain", "plain"},
		{";AEther", "Æther"},
		{";aether", "aether"},
		{"x;AEy;aez", "xÆyaez"},
	}
	for _, c := range cases {
		got, err := table.Expand(c.word)
		if err != nil {
			t.Errorf("%q: %v", c.word, err)
		} else if got != c.want {
			t.Errorf("%q expands to %q, want %q", c.word, got, c.want)
		}
	}
}

func TestExpandNoMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	table := loadAE(t)
	if _, err := table.Expand(";zz"); core.Code(err) != core.EWOOFSYNTAX {
		t.Errorf("unmatched escape must be fatal, got %v", err)
	}
}

func TestPrefixKeysRejected(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	src := ";\n61:abc\n62:abcd\n"
	if _, err := LoadTable(strings.NewReader(src)); core.Code(err) != core.EWOOFAMBIGUOUS {
		t.Errorf("prefix-related keys must be rejected, got %v", err)
	}
	src = ";\n61:abc\n62:abc\n"
	if _, err := LoadTable(strings.NewReader(src)); core.Code(err) != core.EWOOFAMBIGUOUS {
		t.Errorf("duplicate keys must be rejected, got %v", err)
	}
}

func TestHeaderRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	// H stands in for the comment character
	table, err := LoadTable(strings.NewReader("H\n41:a\n"))
	if err != nil {
		t.Fatal(err)
	}
	if table.Lead != '#' {
		t.Errorf("H header should select '#', got %q", table.Lead)
	}
	bad := []string{"", "a\n41:x\n", "5\n41:x\n", ";;\n", "ä\n"}
	for _, src := range bad {
		if _, err := LoadTable(strings.NewReader(src)); core.Code(err) != core.EWOOFSYNTAX {
			t.Errorf("table %q must be rejected, got %v", src, err)
		}
	}
}

func TestCommentRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	// '#' is a comment opener only at line start or after a blank
	src := ";\n23,61:x#a # record for '#a'\n"
	table, err := LoadTable(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	got, err := table.Expand(";x#a")
	if err != nil {
		t.Fatal(err)
	}
	if got != "#a" {
		t.Errorf(";x#a expands to %q", got)
	}
}

func TestRecordSyntax(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	bad := []string{
		";\nxx:a\n",
		";\n41,:a\n",
		";\n41 b\n",
		";\n41:\n",
		";\nd800:a\n",
	}
	for _, src := range bad {
		if _, err := LoadTable(strings.NewReader(src)); core.Code(err) != core.EWOOFSYNTAX {
			t.Errorf("table %q must be rejected, got %v", src, err)
		}
	}
}

func TestRunFilter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	var packed strings.Builder
	w := weft.NewWriter(&packed)
	if err := w.WriteLine(weft.Tuple{"", ";AEther", "  ", ";aether", ""}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := Run(strings.NewReader(packed.String()), &out, loadAE(t)); err != nil {
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
	if tuple[1] != "Æther" || tuple[3] != "aether" {
		t.Errorf("expanded words: %q", tuple)
	}
	if tuple[0] != "" || tuple[2] != "  " || tuple[4] != "" {
		t.Errorf("skip runs changed: %q", tuple)
	}
}

func TestRunWithoutTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	err := Run(strings.NewReader("%WEFT;\n2,1\n+0,0\n$0,0\n\n"), &strings.Builder{}, nil)
	if core.Code(err) != core.ETABLEMISSING {
		t.Errorf("missing table must be fatal, got %v", err)
	}
}
