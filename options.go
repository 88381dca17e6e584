package gifsplit

import (
	"fmt"
	"strings"
)

// FillMode selects what a pixel shows when the current frame does not draw it.
type FillMode uint8

const (
	// FillCarryForward shows the most recent opaque color ever computed at the
	// coordinate. Disposal only affects the internal canvas state.
	FillCarryForward FillMode = iota

	// FillDisposed shows the canvas as left by the previous frame's disposal.
	// This matches how browsers and image viewers play a GIF.
	FillDisposed
)

// String returns the flag spelling of the fill mode.
func (m FillMode) String() string {
	switch m {
	case FillCarryForward:
		return "carry"
	case FillDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("FillMode(%d)", uint8(m))
	}
}

// ParseFillMode parses "carry" or "disposed" (case-insensitive).
func ParseFillMode(s string) (FillMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "carry", "carry-forward":
		return FillCarryForward, nil
	case "disposed", "dispose":
		return FillDisposed, nil
	}
	return 0, fmt.Errorf("gifsplit: unknown fill mode %q", s)
}

// Option configures a Compositor during creation.
//
// Example:
//
//	c := gifsplit.New(
//	    gifsplit.WithFillMode(gifsplit.FillDisposed),
//	    gifsplit.WithMaxPixels(4096*4096),
//	)
type Option func(*options)

// options holds optional configuration for Compositor creation.
type options struct {
	fill      FillMode
	maxPixels int
	sessionID string
}

// defaultOptions returns the default compositor options.
func defaultOptions() options {
	return options{
		fill:      FillCarryForward,
		maxPixels: 0, // unlimited
	}
}

// WithFillMode sets how undrawn pixels are filled.
func WithFillMode(m FillMode) Option {
	return func(o *options) {
		o.fill = m
	}
}

// WithMaxPixels rejects canvases whose width*height exceeds n with
// ErrInvalidCanvasDimensions. Zero or negative means unlimited.
func WithMaxPixels(n int) Option {
	return func(o *options) {
		o.maxPixels = n
	}
}

// WithSessionID sets the identifier attached to the compositor's log records.
// A random UUID is used if unset.
func WithSessionID(id string) Option {
	return func(o *options) {
		o.sessionID = id
	}
}
