package weft

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/cords"
	"github.com/npillmayer/weft/core"
)

// The reader must see the whole map before the body, and the writer must
// hold back both map and body until Close. Both buffer into a spill: an
// in-memory text arena by default, or a temporary file when the client
// expects inputs too large to hold comfortably in memory. A spill is a
// scoped resource, released on close and on every error path.
type spill interface {
	appendLine(s string) error
	rewind() error
	readLine() (string, error) // io.EOF after the last line
	release() error
}

// --- In-memory spill -------------------------------------------------------

// memSpill collects lines as leafs of a cord while filling, and drains
// them from the assembled cord after rewind.
type memSpill struct {
	builder *cords.Builder
	lines   []string
	next    int
}

// lineLeaf is the cord leaf fragment for one spilled line.
type lineLeaf string

func (l lineLeaf) Weight() uint64 {
	return uint64(len(l))
}

func (l lineLeaf) String() string {
	return string(l)
}

func (l lineLeaf) Split(i uint64) (cords.Leaf, cords.Leaf) {
	return l[:i], l[i:]
}

func (l lineLeaf) Substring(i, j uint64) []byte {
	return []byte(l[i:j])
}

var _ cords.Leaf = lineLeaf("")

func newMemSpill() *memSpill {
	return &memSpill{builder: cords.NewBuilder()}
}

func (sp *memSpill) appendLine(s string) error {
	if sp.builder == nil {
		return core.Error(core.EINTERNAL, "spill no longer filling")
	}
	sp.builder.Append(lineLeaf(s + "\n"))
	return nil
}

func (sp *memSpill) rewind() error {
	if sp.builder == nil {
		return core.Error(core.EINTERNAL, "spill rewound twice")
	}
	text := sp.builder.Cord()
	sp.builder = nil
	var sb strings.Builder
	err := text.EachLeaf(func(leaf cords.Leaf, _ uint64) error {
		sb.WriteString(leaf.String())
		return nil
	})
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "draining spill arena: %v", err)
	}
	all := sb.String()
	if all != "" {
		all = all[:len(all)-1] // drop the final appended LF
		sp.lines = strings.Split(all, "\n")
	}
	return nil
}

func (sp *memSpill) readLine() (string, error) {
	if sp.next >= len(sp.lines) {
		return "", io.EOF
	}
	s := sp.lines[sp.next]
	sp.next++
	return s, nil
}

func (sp *memSpill) release() error {
	sp.builder = nil
	sp.lines = nil
	return nil
}

// --- Temp-file spill -------------------------------------------------------

type fileSpill struct {
	file *os.File
	out  *bufio.Writer
	in   *bufio.Reader
}

func newFileSpill(dir string) (*fileSpill, error) {
	f, err := os.CreateTemp(dir, "weft-spill-*")
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot create spill file: %v", err)
	}
	tracer().Debugf("spilling to %s", f.Name())
	return &fileSpill{file: f, out: bufio.NewWriter(f)}, nil
}

func (sp *fileSpill) appendLine(s string) error {
	if sp.out == nil {
		return core.Error(core.EINTERNAL, "spill no longer filling")
	}
	if _, err := sp.out.WriteString(s); err != nil {
		return core.WrapError(err, core.EIO, "writing spill: %v", err)
	}
	if err := sp.out.WriteByte('\n'); err != nil {
		return core.WrapError(err, core.EIO, "writing spill: %v", err)
	}
	return nil
}

func (sp *fileSpill) rewind() error {
	if sp.out == nil {
		return core.Error(core.EINTERNAL, "spill rewound twice")
	}
	if err := sp.out.Flush(); err != nil {
		return core.WrapError(err, core.EIO, "flushing spill: %v", err)
	}
	sp.out = nil
	if _, err := sp.file.Seek(0, io.SeekStart); err != nil {
		return core.WrapError(err, core.EIO, "rewinding spill: %v", err)
	}
	sp.in = bufio.NewReader(sp.file)
	return nil
}

func (sp *fileSpill) readLine() (string, error) {
	if sp.in == nil {
		return "", io.EOF
	}
	s, err := sp.in.ReadString('\n')
	if err == io.EOF {
		if s == "" {
			return "", io.EOF
		}
		return s, nil // unterminated final fragment, should not happen
	}
	if err != nil {
		return "", core.WrapError(err, core.EIO, "reading spill: %v", err)
	}
	return s[:len(s)-1], nil
}

func (sp *fileSpill) release() error {
	if sp.file == nil {
		return nil
	}
	name := sp.file.Name()
	err := sp.file.Close()
	if rmerr := os.Remove(name); err == nil {
		err = rmerr
	}
	sp.file = nil
	sp.out, sp.in = nil, nil
	if err != nil {
		return core.WrapError(err, core.EIO, "releasing spill: %v", err)
	}
	return nil
}
