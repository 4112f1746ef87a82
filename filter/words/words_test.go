package words

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/weft"
)

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSplit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	cases := []struct {
		word   string
		pieces []string
	}{
		{"simple", []string{"simple"}},
		{"don't,stop!", []string{"don't", ",", "stop", "!"}},
		{"don’t", []string{"don’t"}},
		{"'quoted'", []string{"'", "quoted", "'"}},
		{"x''y", []string{"x", "''", "y"}},
		{"123", []string{"123"}},
		{"a1b", []string{"a", "1", "b"}},
		{"über-maß", []string{"über", "-", "maß"}},
	}
	for _, c := range cases {
		pieces := Split(c.word)
		if !sameStrings(pieces, c.pieces) {
			t.Errorf("Split(%q) = %q, want %q", c.word, pieces, c.pieces)
		}
	}
}

func TestSplitCombiningMark(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	// combining acute is category M and belongs to the linguistic run
	word := "e\u0301clat!"
	pieces := Split(word)
	if !sameStrings(pieces, []string{"e\u0301clat", "!"}) {
		t.Errorf("Split(%q) = %q", word, pieces)
	}
}

func TestSplitApostropheAtRim(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	// apostrophes count as letters only between letters
	pieces := Split("'tis")
	if !sameStrings(pieces, []string{"'", "tis"}) {
		t.Errorf("Split('tis) = %q", pieces)
	}
	pieces = Split("runnin'")
	if !sameStrings(pieces, []string{"runnin", "'"}) {
		t.Errorf("Split(runnin') = %q", pieces)
	}
}

func runFilter(t *testing.T, tuples []weft.Tuple) []weft.Tuple {
	t.Helper()
	var packed strings.Builder
	w := weft.NewWriter(&packed)
	for _, tuple := range tuples {
		if err := w.WriteLine(tuple); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := Run(strings.NewReader(packed.String()), &out); err != nil {
		t.Fatal(err)
	}
	r, err := weft.NewReader(strings.NewReader(out.String()))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	var result []weft.Tuple
	for i := 0; i < r.LineCount(); i++ {
		tuple, err := r.ReadLine()
		if err != nil {
			t.Fatal(err)
		}
		result = append(result, tuple)
	}
	return result
}

func TestRunReshapesTuples(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	result := runFilter(t, []weft.Tuple{{" ", "don't,stop!", " "}})
	want := weft.Tuple{" ", "don't", "", ",", "", "stop", "", "!", " "}
	if !sameStrings(result[0], want) {
		t.Errorf("reshaped tuple %q, want %q", result[0], want)
	}
}

func TestRunPreservesLineText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	tuples := []weft.Tuple{
		{"", "don't,stop!", " ", "now...", ""},
		{"  (", "a+b", ")  "},
	}
	result := runFilter(t, tuples)
	for i := range tuples {
		if result[i].String() != tuples[i].String() {
			t.Errorf("line %d text changed: %q -> %q", i, tuples[i].String(), result[i].String())
		}
	}
}

func TestRunIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.filter")
	defer teardown()
	//
	tuples := []weft.Tuple{
		{"", "don't,stop!", " ", "x1y2z", " (", "über-maß)", ""},
	}
	once := runFilter(t, tuples)
	twice := runFilter(t, once)
	if len(once) != len(twice) {
		t.Fatalf("line counts differ")
	}
	for i := range once {
		if !sameStrings(once[i], twice[i]) {
			t.Errorf("splitting is not idempotent: %q vs %q", once[i], twice[i])
		}
	}
}
