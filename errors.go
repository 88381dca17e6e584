package gifsplit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFrameData is returned for a malformed FrameDescriptor or a
	// frame that does not fit the current session.
	ErrInvalidFrameData = errors.New("gifsplit: invalid frame data")

	// ErrInvalidCanvasDimensions is returned when the logical screen is empty,
	// negative or larger than the configured pixel limit.
	ErrInvalidCanvasDimensions = errors.New("gifsplit: invalid canvas dimensions")

	// ErrClosed is returned by a Compositor after Close.
	ErrClosed = errors.New("gifsplit: compositor closed")
)

// FrameError describes why a frame was rejected.
// Err is ErrInvalidFrameData or ErrInvalidCanvasDimensions.
type FrameError struct {
	Index  int
	Reason string
	Err    error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("gifsplit: frame %d: %s", e.Index, e.Reason)
}

func (e *FrameError) Unwrap() error { return e.Err }

func invalidFrame(index int, format string, args ...any) error {
	return &FrameError{Index: index, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidFrameData}
}

func invalidCanvas(index int, format string, args ...any) error {
	return &FrameError{Index: index, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidCanvasDimensions}
}
