// Package image provides the pixel buffers used to hand composited GIF
// frames to sinks.
//
// The compositor always produces RGBA8. Sinks that need another channel
// order (TGA, BGRA textures) convert through a Buf, usually borrowed from
// a Pool so that per-frame conversions do not allocate.
package image

import (
	"fmt"
	"strings"
)

// Format represents a 32-bit pixel channel order.
type Format uint8

const (
	// FormatRGBA8 is 32-bit RGBA, non-premultiplied (4 bytes per pixel).
	// This is the compositor's native order.
	FormatRGBA8 Format = iota

	// FormatBGRA8 is 32-bit BGRA, non-premultiplied (4 bytes per pixel).
	// Used by TGA files and most engine texture uploads on Windows.
	FormatBGRA8

	// formatCount is the number of formats (for internal use).
	formatCount
)

// formatInfo contains metadata about a pixel format.
type formatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// RedOffset, GreenOffset, BlueOffset and AlphaOffset are the byte
	// positions of each channel within a pixel.
	RedOffset   int
	GreenOffset int
	BlueOffset  int
	AlphaOffset int
}

var formatInfoTable = [formatCount]formatInfo{
	FormatRGBA8: {
		BytesPerPixel: 4,
		RedOffset:     0,
		GreenOffset:   1,
		BlueOffset:    2,
		AlphaOffset:   3,
	},
	FormatBGRA8: {
		BytesPerPixel: 4,
		RedOffset:     2,
		GreenOffset:   1,
		BlueOffset:    0,
		AlphaOffset:   3,
	},
}

// info returns the channel layout of f, or the zero value for an unknown format.
func (f Format) info() formatInfo {
	if f >= formatCount {
		return formatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.info().BytesPerPixel
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}

// ParseFormat parses a channel order name such as "rgba" or "BGRA8".
func ParseFormat(s string) (Format, error) {
	switch strings.TrimSuffix(strings.ToLower(s), "8") {
	case "rgba":
		return FormatRGBA8, nil
	case "bgra":
		return FormatBGRA8, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}
