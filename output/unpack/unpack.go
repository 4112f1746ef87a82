/*
Package unpack turns a WEFT back into plain output.

Unpack reconstructs the original body by concatenating the tuple strings
of every line; JSON emits a diagnostic array-of-arrays representation of
the parsed tuples.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

*/
package unpack

import (
	"io"
	"os"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/codepoint"
	"github.com/npillmayer/weft/weft"
)

// tracer traces with key 'weft.output'.
func tracer() tracing.Trace {
	return tracing.Select("weft.output")
}

// Unpack reads a WEFT from r and writes the reconstructed body to w,
// each line terminated by LF. An empty last line that follows other lines
// stands for the final line break of the original text and is not written
// as a line of its own. If mapPath is non-empty, the embedded map,
// including its EOF record, is additionally written to that path.
func Unpack(r io.Reader, w io.Writer, mapPath string, opts ...weft.Option) error {
	in, err := weft.NewReader(r, opts...)
	if err != nil {
		return err
	}
	defer in.Close()
	var mapOut *codepoint.Writer
	if mapPath != "" {
		f, err := os.Create(mapPath)
		if err != nil {
			return core.WrapError(err, core.EIO, "cannot create map file: %v", err)
		}
		defer f.Close()
		mapOut = codepoint.NewWriter(f)
	}
	out := codepoint.NewWriter(w)
	for i := 0; i < in.LineCount(); i++ {
		tuple, err := in.ReadLine()
		if err != nil {
			return err
		}
		text := tuple.String()
		if i == 0 || i < in.LineCount()-1 || text != "" {
			if err := out.WriteLine(text); err != nil {
				return err
			}
		}
		if mapOut != nil {
			for _, rec := range weft.LineRecords(tuple) {
				if err := mapOut.WriteLine(rec.String()); err != nil {
					return err
				}
			}
		}
	}
	tracer().Debugf("unpacked %d body lines", in.LineCount())
	if mapOut != nil {
		if err := mapOut.WriteLine(weft.Record{Op: weft.EOF}.String()); err != nil {
			return err
		}
		if err := mapOut.Flush(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// JSON reads a WEFT from r and writes a diagnostic JSON representation
// to w: an outer array with one inner array of tuple strings per line.
func JSON(r io.Reader, w io.Writer, opts ...weft.Option) error {
	in, err := weft.NewReader(r, opts...)
	if err != nil {
		return err
	}
	defer in.Close()
	out := codepoint.NewWriter(w)
	if err := out.WriteString("["); err != nil {
		return err
	}
	for i := 0; i < in.LineCount(); i++ {
		tuple, err := in.ReadLine()
		if err != nil {
			return err
		}
		if i > 0 {
			if err := out.WriteString(","); err != nil {
				return err
			}
		}
		if err := out.WriteString("\n "); err != nil {
			return err
		}
		if err := out.WriteString(jsonTuple(tuple)); err != nil {
			return err
		}
	}
	if err := out.WriteString("\n]"); err != nil {
		return err
	}
	if err := out.WriteString("\n"); err != nil {
		return err
	}
	return out.Flush()
}

func jsonTuple(t weft.Tuple) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, s := range t {
		if i > 0 {
			sb.WriteByte(',')
		}
		jsonString(&sb, s)
	}
	sb.WriteByte(']')
	return sb.String()
}

// jsonString encodes s as a JSON string. Control codes use the dedicated
// escapes where JSON defines them and \uXXXX otherwise; supplementary
// codepoints are written as surrogate pairs.
func jsonString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, c := range s {
		switch {
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\b':
			sb.WriteString(`\b`)
		case c == '\f':
			sb.WriteString(`\f`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			writeHexEscape(sb, c)
		case c > 0xFFFF:
			c -= 0x10000
			writeHexEscape(sb, 0xD800+(c>>10))
			writeHexEscape(sb, 0xDC00+(c&0x3FF))
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
}

const hexDigits = "0123456789ABCDEF"

func writeHexEscape(sb *strings.Builder, c rune) {
	sb.WriteString(`\u`)
	sb.WriteByte(hexDigits[(c>>12)&0xF])
	sb.WriteByte(hexDigits[(c>>8)&0xF])
	sb.WriteByte(hexDigits[(c>>4)&0xF])
	sb.WriteByte(hexDigits[c&0xF])
}
