// Package sink writes composited frames to containers: one image file per
// frame (TGA, BMP, PNG, TIFF, raw), a single animated PNG, or an in-memory
// texture registry.
package sink

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gifsplit"
	intImage "github.com/gogpu/gifsplit/internal/image"
)

var (
	// ErrClosed is returned when writing to a closed sink.
	ErrClosed = errors.New("sink: closed")

	// ErrUnknownFormat is returned for an unsupported container name.
	ErrUnknownFormat = errors.New("sink: unknown format")

	// ErrTooLarge is returned when a frame exceeds the container's size limit.
	ErrTooLarge = errors.New("sink: frame too large for format")
)

// Sink is a gifsplit.Sink that must be closed to flush its output.
type Sink interface {
	gifsplit.Sink
	Close() error
}

// ChannelOrder is the byte order of raw pixels.
type ChannelOrder = intImage.Format

const (
	// ChannelRGBA stores pixels as R, G, B, A.
	ChannelRGBA = intImage.FormatRGBA8

	// ChannelBGRA stores pixels as B, G, R, A.
	ChannelBGRA = intImage.FormatBGRA8
)

// ParseChannelOrder parses "rgba" or "bgra" (an "8" suffix is accepted).
func ParseChannelOrder(s string) (ChannelOrder, error) {
	return intImage.ParseFormat(s)
}

// Format is a per-frame file container.
type Format uint8

const (
	FormatTGA Format = iota
	FormatBMP
	FormatPNG
	FormatTIFF
	FormatRaw
)

var formatNames = [...]string{
	FormatTGA:  "tga",
	FormatBMP:  "bmp",
	FormatPNG:  "png",
	FormatTIFF: "tiff",
	FormatRaw:  "raw",
}

// String returns the lower-case container name.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat parses a container name such as "tga" or "png".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if s == "tif" {
		s = "tiff"
	}
	for i, name := range formatNames {
		if s == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Option configures a sink.
type Option func(*options)

type options struct {
	prefix     string
	name       string
	maxDim     int
	order      ChannelOrder
	compress   bool
	loopCount  int
	poolBucket int
	workers    int
}

func defaultOptions() options {
	return options{
		prefix:     "T_",
		name:       "frame",
		order:      ChannelRGBA,
		poolBucket: 2,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithNamePrefix sets the prefix of generated frame names. Default "T_".
func WithNamePrefix(p string) Option {
	return func(o *options) {
		o.prefix = p
	}
}

// WithBaseName sets the asset name frames are derived from. It is
// sanitized with SanitizeName.
func WithBaseName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithMaxDimension downscales frames whose width or height exceeds n,
// keeping the aspect ratio. Zero disables scaling. Scaled frames keep binary
// alpha: each output pixel is either opaque or transparent black.
func WithMaxDimension(n int) Option {
	return func(o *options) {
		o.maxDim = n
	}
}

// WithChannelOrder sets the byte order of raw output and textures.
func WithChannelOrder(order ChannelOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithCompression zstd-compresses raw frames.
func WithCompression(enabled bool) Option {
	return func(o *options) {
		o.compress = enabled
	}
}

// WithLoopCount sets the APNG loop count. Zero loops forever.
func WithLoopCount(n int) Option {
	return func(o *options) {
		o.loopCount = n
	}
}

// WithWorkers encodes Dir frames on n goroutines. WriteFrame then returns
// once the frame is queued and encode errors surface on a later WriteFrame
// or on Close. Zero or one encodes synchronously.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
		o.poolBucket = max(2, n+1)
	}
}
