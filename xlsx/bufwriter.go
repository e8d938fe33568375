package xlsx

import (
	"io"
	"os"
)

// FlushThreshold is the buffered size at which a BufferedWriter flushes.
const FlushThreshold = 8192

// BufferedWriter accumulates output in memory and writes it to its sink in
// chunks of at least FlushThreshold bytes. Tell and SeekTo flush first so the
// sink position always reflects everything written.
type BufferedWriter struct {
	sink      io.Writer
	closer    io.Closer // nil when the caller owns the sink
	name      string
	buf       []byte
	checkUTF8 bool
	closed    bool
}

// NewBufferedWriter wraps sink. The caller keeps ownership of sink; Close
// flushes but does not close it. When checkUTF8 is set, the writer tracks
// whether every flushed chunk was valid UTF-8.
func NewBufferedWriter(sink io.Writer, checkUTF8 bool) *BufferedWriter {
	return &BufferedWriter{
		sink:      sink,
		buf:       make([]byte, 0, FlushThreshold),
		checkUTF8: checkUTF8,
	}
}

// OpenBufferedWriter opens path with the given os.OpenFile flags and wraps
// the file. Close closes the file.
func OpenBufferedWriter(path string, flag int, checkUTF8 bool) (*BufferedWriter, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, &IOError{Op: "open for writing", Path: path, Err: err}
	}
	w := NewBufferedWriter(f, checkUTF8)
	w.closer = f
	w.name = path
	return w, nil
}

// Write buffers p, flushing once the buffer reaches FlushThreshold.
func (w *BufferedWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	w.buf = append(w.buf, p...)
	if len(w.buf) >= FlushThreshold {
		if err := w.Flush(); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// WriteString is Write for strings.
func (w *BufferedWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Buffered returns the number of bytes not yet written to the sink.
func (w *BufferedWriter) Buffered() int {
	return len(w.buf)
}

// UTF8Valid reports whether every chunk flushed so far was valid UTF-8. It
// is always false when checking was not requested, and never goes back to
// true once false.
func (w *BufferedWriter) UTF8Valid() bool {
	return w.checkUTF8
}

// Flush writes any buffered bytes to the sink.
func (w *BufferedWriter) Flush() error {
	if w.closed {
		return ErrClosed
	}
	if len(w.buf) == 0 {
		return nil
	}
	if w.checkUTF8 && !IsValidUTF8(w.buf) {
		w.checkUTF8 = false
	}
	_, err := w.sink.Write(w.buf)
	w.buf = w.buf[:0]
	if err != nil {
		return &IOError{Op: "write", Path: w.name, Err: err}
	}
	return nil
}

func (w *BufferedWriter) seeker() (io.Seeker, error) {
	if w.closed {
		return nil, ErrClosed
	}
	s, ok := w.sink.(io.Seeker)
	if !ok {
		return nil, ErrNotSeekable
	}
	return s, nil
}

// Tell flushes and returns the current offset of the sink.
func (w *BufferedWriter) Tell() (int64, error) {
	s, err := w.seeker()
	if err != nil {
		return -1, err
	}
	if err := w.Flush(); err != nil {
		return -1, err
	}
	return s.Seek(0, io.SeekCurrent)
}

// SeekTo flushes and moves the sink to the absolute offset.
func (w *BufferedWriter) SeekTo(offset int64) (int64, error) {
	s, err := w.seeker()
	if err != nil {
		return -1, err
	}
	if err := w.Flush(); err != nil {
		return -1, err
	}
	return s.Seek(offset, io.SeekStart)
}

// Close flushes and releases the sink. Closing twice is a no-op.
func (w *BufferedWriter) Close() error {
	if w.closed {
		return nil
	}
	err := w.Flush()
	w.closed = true
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil && cerr != nil {
			err = &IOError{Op: "close", Path: w.name, Err: cerr}
		}
		w.closer = nil
	}
	return err
}
