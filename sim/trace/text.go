package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// TextSink writes one line per record and flushes after every line.
type TextSink struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewTextSink wraps an existing writer. The caller keeps ownership of w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: bufio.NewWriter(w)}
}

// CreateTextFile truncates or creates path and returns a sink writing to it.
func CreateTextFile(path string) (*TextSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating event log %s: %w", path, err)
	}
	return &TextSink{w: bufio.NewWriter(f), closer: f}, nil
}

// Write renders and flushes a single record.
func (t *TextSink) Write(record Record) error {
	if _, err := fmt.Fprintln(t.w, record.String()); err != nil {
		return err
	}
	return t.w.Flush()
}

// Close flushes and closes the underlying file, if the sink owns one.
func (t *TextSink) Close() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}
