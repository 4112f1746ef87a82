package weft

import (
	"fmt"
	"io"

	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/codepoint"
)

// A Writer assembles a WEFT stream from per-line tuples.
//
// WriteLine buffers the map records and the body line of each tuple in
// two spills; Close emits the complete file: signature, declaration, the
// full map including its EOF record, then the full body. Clients must
// call Close, even after an error.
type Writer struct {
	out      *codepoint.Writer
	cfg      config
	maprecs  spill
	body     spill
	recCount int
	count    int
	closed   bool
}

// NewWriter prepares a WEFT writer emitting to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Writer{
		out: codepoint.NewWriter(w),
		cfg: cfg,
	}
}

// WriteLine appends one body line, given as a tuple. The tuple must have
// odd length, with non-empty words at the odd indices, and no element may
// contain CR, LF or invalid UTF-8.
func (w *Writer) WriteLine(t Tuple) error {
	if w.closed {
		return core.Error(core.EINTERNAL, "write to closed WEFT writer")
	}
	if err := t.check(); err != nil {
		w.drop()
		return err
	}
	if w.maprecs == nil {
		if err := w.acquireSpills(); err != nil {
			return err
		}
	}
	for _, rec := range LineRecords(t) {
		if err := w.maprecs.appendLine(rec.String()); err != nil {
			w.drop()
			return err
		}
		w.recCount++
	}
	if err := w.body.appendLine(t.String()); err != nil {
		w.drop()
		return err
	}
	w.count++
	return nil
}

// LineRecords derives the map records for one tuple. The first record is
// an NL, continuations are W records, and the line is closed by a record
// with Read == 0.
func LineRecords(t Tuple) []Record {
	n := t.Words()
	recs := make([]Record, 0, n+1)
	if n == 0 {
		return append(recs, Record{Op: NL, Skip: codepoint.Length(t[0])})
	}
	recs = append(recs, Record{Op: NL, Skip: codepoint.Length(t[0]), Read: codepoint.Length(t[1])})
	for k := 1; k < n; k++ {
		recs = append(recs, Record{Op: W, Skip: codepoint.Length(t[2*k]), Read: codepoint.Length(t[2*k+1])})
	}
	return append(recs, Record{Op: W, Skip: codepoint.Length(t[2*n])})
}

func (w *Writer) acquireSpills() error {
	sp, err := w.cfg.newSpill()
	if err != nil {
		return err
	}
	w.maprecs = sp
	if sp, err = w.cfg.newSpill(); err != nil {
		w.maprecs.release()
		w.maprecs = nil
		return err
	}
	w.body = sp
	return nil
}

// Close emits the buffered WEFT and releases both spills.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if w.maprecs == nil {
		if err := w.acquireSpills(); err != nil {
			w.closed = true
			return err
		}
	}
	defer w.drop()
	if err := w.maprecs.rewind(); err != nil {
		return err
	}
	if err := w.body.rewind(); err != nil {
		return err
	}
	if err := w.out.WriteLine(Signature); err != nil {
		return err
	}
	if err := w.out.WriteLine(declaration(w.recCount+1, w.count)); err != nil {
		return err
	}
	if err := w.drain(w.maprecs); err != nil {
		return err
	}
	if err := w.out.WriteLine(Record{Op: EOF}.String()); err != nil {
		return err
	}
	if err := w.drain(w.body); err != nil {
		return err
	}
	return w.out.Flush()
}

// declaration formats the second header line: map record count and body
// line count. The record count includes the EOF record.
func declaration(recs, lines int) string {
	return fmt.Sprintf("%d,%d", recs, lines)
}

func (w *Writer) drain(sp spill) error {
	for {
		line, err := sp.readLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := w.out.WriteLine(line); err != nil {
			return err
		}
	}
}

// Abort releases the writer's buffers without emitting anything. It is
// idempotent and safe to call after Close, so clients can defer it as a
// guard for their error paths.
func (w *Writer) Abort() {
	w.drop()
}

// drop releases the spills and marks the writer closed.
func (w *Writer) drop() {
	if w.maprecs != nil {
		w.maprecs.release()
	}
	if w.body != nil {
		w.body.release()
	}
	w.closed = true
}
