package xlsx

import (
	"errors"
	"fmt"
)

// ErrDuplicateSheet is returned when a sheet name is already registered.
var ErrDuplicateSheet = errors.New("duplicate sheet name")

// ErrClosed is returned by a BufferedWriter after Close.
var ErrClosed = errors.New("writer is closed")

// ErrNotSeekable is returned by Tell and SeekTo when the sink has no position.
var ErrNotSeekable = errors.New("sink does not support seeking")

// IOError reports a failure to open, create or write a file or stream.
type IOError struct {
	Op   string // "open", "create", "write", "copy", ...
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// PackagingError reports a failure to render a part or finalize the ZIP container.
type PackagingError struct {
	Part string // empty when the container itself could not be finalized
	Err  error
}

func (e *PackagingError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("packaging xlsx: %v", e.Err)
	}
	return fmt.Sprintf("packaging xlsx part %s: %v", e.Part, e.Err)
}

func (e *PackagingError) Unwrap() error {
	return e.Err
}
