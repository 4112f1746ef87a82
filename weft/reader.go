package weft

import (
	"io"
	"strings"

	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/codepoint"
)

// Signature is the fixed first line of every WEFT file (modulo trailing
// blanks and the line terminator).
const Signature = "%WEFT;"

// An Option adjusts reader or writer behavior.
type Option func(*config)

type config struct {
	spillDir    string
	spillToFile bool
}

// SpillToFile lets the reader or writer buffer map and body in temporary
// files below dir instead of in memory. An empty dir means the system
// default location for temporary files.
func SpillToFile(dir string) Option {
	return func(cfg *config) {
		cfg.spillToFile = true
		cfg.spillDir = dir
	}
}

func (cfg config) newSpill() (spill, error) {
	if cfg.spillToFile {
		return newFileSpill(cfg.spillDir)
	}
	return newMemSpill(), nil
}

// A Reader decodes a WEFT stream into per-line tuples.
//
// NewReader validates signature and declaration and buffers the map in a
// spill; ReadLine then walks map records and body lines in lock-step.
// Clients must call Close, even after an error.
type Reader struct {
	in        *codepoint.Reader
	maprecs   spill
	lineCount int
	linesRead int
	closed    bool
}

// NewReader accepts the header of a WEFT stream and prepares for tuple
// reading. Errors: WeftSignature, WeftHeader, MapSyntax, Truncated.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	in := codepoint.NewReader(r).KeepBOM()
	// The codepoint reader reports the empty remainder behind a final line
	// terminator as a line. No header or map line may be empty, so peeking
	// one line further to tell end of input apart does no harm.
	readLine := func() (string, error) {
		line, err := in.ReadLine()
		if err == nil && line == "" {
			if _, err := in.ReadLine(); err == io.EOF {
				return "", io.EOF
			}
		}
		return line, err
	}
	sig, err := readLine()
	if err != nil {
		if err == io.EOF {
			return nil, core.Error(core.ETRUNCATED, "empty input, expected WEFT")
		}
		return nil, err
	}
	if strings.HasPrefix(sig, "\uFEFF") {
		return nil, core.Error(core.EENCODING, "WEFT must not start with a BOM")
	}
	if !strings.HasPrefix(sig, Signature) || strings.TrimRight(sig[len(Signature):], " \t") != "" {
		return nil, core.Error(core.EWEFTSIGNATURE, "input does not start with %q", Signature)
	}
	decl, err := readLine()
	if err != nil {
		if err == io.EOF {
			return nil, core.Error(core.ETRUNCATED, "WEFT ends after signature")
		}
		return nil, err
	}
	mapCount, lineCount, err := parseDeclaration(decl)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("WEFT declares %d map records, %d body lines", mapCount, lineCount)
	sp, err := cfg.newSpill()
	if err != nil {
		return nil, err
	}
	for i := 0; i < mapCount; i++ {
		line, err := readLine()
		if err != nil {
			sp.release()
			if err == io.EOF {
				return nil, core.Error(core.ETRUNCATED, "WEFT map cut short at record %d of %d", i+1, mapCount)
			}
			return nil, err
		}
		if line == "" {
			sp.release()
			return nil, core.Error(core.EMAPSYNTAX, "empty map record %d", i+1)
		}
		if err := sp.appendLine(line); err != nil {
			sp.release()
			return nil, err
		}
	}
	if err := sp.rewind(); err != nil {
		sp.release()
		return nil, err
	}
	return &Reader{
		in:        in,
		maprecs:   sp,
		lineCount: lineCount,
	}, nil
}

// parseDeclaration parses the second header line: two unsigned decimal
// integers separated by a comma, optional trailing blanks.
func parseDeclaration(line string) (int, int, error) {
	n, rest, err := scanInt(line)
	if err != nil {
		return 0, 0, core.Error(core.EWEFTHEADER, "malformed declaration %q", line)
	}
	if !strings.HasPrefix(rest, ",") {
		return 0, 0, core.Error(core.EWEFTHEADER, "declaration lacks comma")
	}
	m, rest, err := scanInt(rest[1:])
	if err != nil {
		return 0, 0, core.Error(core.EWEFTHEADER, "malformed declaration %q", line)
	}
	if strings.TrimRight(rest, " \t") != "" {
		return 0, 0, core.Error(core.EWEFTHEADER, "junk after declaration: %q", rest)
	}
	if m < 1 {
		return 0, 0, core.Error(core.EWEFTHEADER, "WEFT body must have at least one line")
	}
	return n, m, nil
}

// LineCount returns the number of body lines the stream declares.
func (r *Reader) LineCount() int {
	return r.lineCount
}

// ReadLine returns the tuple for the next body line. After the last line
// it verifies the map's EOF record and returns io.EOF on the following
// call. Errors: MapSyntax, MapMismatch, Truncated, Encoding.
func (r *Reader) ReadLine() (Tuple, error) {
	if r.closed || r.linesRead >= r.lineCount {
		return nil, io.EOF
	}
	recs, err := r.gatherLineRecords()
	if err != nil {
		r.Close()
		return nil, err
	}
	body, err := r.in.ReadLine()
	if err != nil {
		r.Close()
		if err == io.EOF {
			return nil, core.Error(core.ETRUNCATED, "WEFT body cut short at line %d of %d", r.linesRead+1, r.lineCount)
		}
		return nil, err
	}
	tuple, err := sliceLine(body, recs, r.linesRead+1)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.linesRead++
	if r.linesRead == r.lineCount {
		if err := r.consumeMapEOF(); err != nil {
			r.Close()
			return nil, err
		}
		r.Close()
	}
	return tuple, nil
}

// gatherLineRecords collects the records of one body line: an NL followed
// by W records, up to and including the first record with Read == 0.
func (r *Reader) gatherLineRecords() ([]Record, error) {
	var recs []Record
	for {
		line, err := r.maprecs.readLine()
		if err == io.EOF {
			return nil, core.Error(core.ETRUNCATED, "map exhausted at body line %d", r.linesRead+1)
		}
		if err != nil {
			return nil, err
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, err
		}
		switch {
		case rec.Op == EOF:
			return nil, core.Error(core.EMAPMISMATCH, "map ends before body line %d", r.linesRead+1)
		case len(recs) == 0 && rec.Op != NL:
			return nil, core.Error(core.EMAPMISMATCH, "body line %d does not start with an NL record", r.linesRead+1)
		case len(recs) > 0 && rec.Op != W:
			return nil, core.Error(core.EMAPMISMATCH, "NL record in the middle of body line %d", r.linesRead+1)
		}
		recs = append(recs, rec)
		if rec.Read == 0 {
			return recs, nil
		}
	}
}

// consumeMapEOF checks that exactly one EOF record remains in the map.
func (r *Reader) consumeMapEOF() error {
	line, err := r.maprecs.readLine()
	if err == io.EOF {
		return core.Error(core.ETRUNCATED, "map lacks EOF record")
	}
	if err != nil {
		return err
	}
	rec, err := ParseRecord(line)
	if err != nil {
		return err
	}
	if rec.Op != EOF {
		return core.Error(core.EMAPMISMATCH, "map continues after last body line")
	}
	if _, err := r.maprecs.readLine(); err != io.EOF {
		return core.Error(core.EMAPMISMATCH, "map records after EOF record")
	}
	return nil
}

// sliceLine cuts a body line into a tuple at the cumulative codepoint
// offsets of its records.
func sliceLine(body string, recs []Record, lineno int) (Tuple, error) {
	total := 0
	for _, rec := range recs {
		total += rec.Skip + rec.Read
	}
	if length := codepoint.Length(body); total != length {
		return nil, core.Error(core.EMAPMISMATCH,
			"body line %d has %d codepoints, map accounts for %d", lineno, length, total)
	}
	tuple := make(Tuple, 0, 2*len(recs)-1)
	pos := 0
	for _, rec := range recs {
		tuple = append(tuple, codepoint.Slice(body, pos, pos+rec.Skip))
		pos += rec.Skip
		if rec.Read > 0 {
			tuple = append(tuple, codepoint.Slice(body, pos, pos+rec.Read))
			pos += rec.Read
		}
	}
	return tuple, nil
}

// Close releases the reader's spill. It is idempotent and safe to call
// after errors.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.maprecs.release()
}
