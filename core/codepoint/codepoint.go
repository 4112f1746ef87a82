package codepoint

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/weft/core"
)

// BOM is the byte order mark. As the very first codepoint of input it is
// discarded; anywhere else it is kept as ordinary line content.
const BOM = '\uFEFF'

// A Reader decodes a UTF-8 byte stream into lines of codepoints.
//
// Lines are terminated by LF or CRLF; the terminator is not part of the
// returned line. An empty trailing line is reported if and only if the
// input ends with a line terminator, or the input is completely empty.
type Reader struct {
	in    *bufio.Reader
	first bool // not yet past the first codepoint
	done  bool
}

// NewReader wraps r for line-wise codepoint reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		in:    bufio.NewReader(r),
		first: true,
	}
}

// KeepBOM disables the one-time stripping of a leading BOM. WEFT
// streams must not carry a byte order mark, so their readers see it.
func (r *Reader) KeepBOM() *Reader {
	r.first = false
	return r
}

// ReadLine returns the next input line, without its terminator.
// After the last line it returns io.EOF.
func (r *Reader) ReadLine() (string, error) {
	if r.done {
		return "", io.EOF
	}
	var sb strings.Builder
	for {
		c, size, err := r.in.ReadRune()
		if err == io.EOF {
			r.done = true
			return sb.String(), nil
		}
		if err != nil {
			return "", core.WrapError(err, core.EIO, "reading input: %v", err)
		}
		if c == utf8.RuneError && size == 1 {
			return "", core.Error(core.EENCODING, "input is not valid UTF-8")
		}
		if r.first {
			r.first = false
			if c == BOM {
				tracer().Debugf("discarding leading BOM")
				continue
			}
		}
		switch c {
		case '\r':
			c2, size2, err2 := r.in.ReadRune()
			if err2 == io.EOF || c2 != '\n' || (c2 == utf8.RuneError && size2 == 1) {
				return "", core.Error(core.EENCODING, "CR not followed by LF")
			}
			return sb.String(), nil
		case '\n':
			return sb.String(), nil
		default:
			sb.WriteRune(c)
		}
	}
}

// A Writer emits UTF-8 text, one LF-terminated line at a time.
// Output never starts with a BOM.
type Writer struct {
	out *bufio.Writer
}

// NewWriter wraps w for line-wise output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: bufio.NewWriter(w)}
}

// WriteString emits s without appending a terminator.
func (w *Writer) WriteString(s string) error {
	if _, err := w.out.WriteString(s); err != nil {
		return core.WrapError(err, core.EIO, "writing output: %v", err)
	}
	return nil
}

// WriteLine emits s followed by a single LF.
func (w *Writer) WriteLine(s string) error {
	if err := w.WriteString(s); err != nil {
		return err
	}
	if err := w.out.WriteByte('\n'); err != nil {
		return core.WrapError(err, core.EIO, "writing output: %v", err)
	}
	return nil
}

// Flush drains buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.out.Flush(); err != nil {
		return core.WrapError(err, core.EIO, "flushing output: %v", err)
	}
	return nil
}

// Length returns the number of codepoints in s.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Slice returns the codepoint range [from, to) of s.
// Both bounds are clamped to the length of s.
func Slice(s string, from, to int) string {
	if from >= to {
		return ""
	}
	start, end, i := len(s), len(s), 0
	for pos := range s {
		if i == from {
			start = pos
		}
		if i == to {
			end = pos
			break
		}
		i++
	}
	if i < from {
		start = len(s)
	}
	return s[start:end]
}

// Valid tells if c may appear in pipeline output. The policy follows the
// XML character rules: C0 controls except HT/LF/CR are excluded, as are
// the C1 range except NEL, surrogates, the non-characters U+FDD0–U+FDEF,
// and all codepoints whose low 16 bits are FFFE or FFFF.
func Valid(c rune) bool {
	if c < 0 || c > 0x10FFFF {
		return false
	}
	if c < 0x20 && c != 0x09 && c != 0x0A && c != 0x0D {
		return false
	}
	if c > 0x7E && c <= 0x9F && c != 0x85 {
		return false
	}
	if c >= 0xD800 && c <= 0xDFFF {
		return false
	}
	if c >= 0xFDD0 && c <= 0xFDEF {
		return false
	}
	if low := c & 0xFFFF; low == 0xFFFE || low == 0xFFFF {
		return false
	}
	return true
}
