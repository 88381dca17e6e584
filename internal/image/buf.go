package image

import "errors"

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrSizeMismatch is returned when source and destination differ in size.
	ErrSizeMismatch = errors.New("image: size mismatch")
)

// Buf is a 32-bit pixel buffer in a fixed channel order.
//
// Thread safety: Buf is safe for concurrent reads. Writes require external
// synchronization.
type Buf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewBuf creates a new zeroed buffer with the given dimensions and format.
func NewBuf(width, height int, format Format) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	return &Buf{
		data:   make([]byte, format.ImageBytes(width, height)),
		width:  width,
		height: height,
		stride: format.RowBytes(width),
		format: format,
	}, nil
}

// FromRaw creates a Buf over existing data without copying.
// The caller must ensure data remains valid for the lifetime of the Buf.
// Stride must be at least format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	if stride < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}

	requiredSize := stride * height
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &Buf{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Clone creates a deep copy of the buffer.
func (b *Buf) Clone() *Buf {
	newData := make([]byte, len(b.data))
	copy(newData, b.data)

	return &Buf{
		data:   newData,
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
	}
}

// Width returns the width in pixels.
func (b *Buf) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *Buf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row (including padding).
func (b *Buf) Stride() int {
	return b.stride
}

// Format returns the channel order.
func (b *Buf) Format() Format {
	return b.format
}

// Data returns the raw pixel data slice.
func (b *Buf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *Buf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// Clear sets all pixels to zero (transparent black).
func (b *Buf) Clear() {
	clear(b.data)
}

// ConvertFrom copies src into b, reordering channels as needed.
// Both buffers must have identical dimensions.
func (b *Buf) ConvertFrom(src *Buf) error {
	if src.width != b.width || src.height != b.height {
		return ErrSizeMismatch
	}

	si := src.format.info()
	di := b.format.info()
	for y := range b.height {
		srow := src.RowBytes(y)
		drow := b.RowBytes(y)
		if src.format == b.format {
			copy(drow, srow)
			continue
		}
		for x := range b.width {
			s := srow[x*si.BytesPerPixel:]
			d := drow[x*di.BytesPerPixel:]
			d[di.RedOffset] = s[si.RedOffset]
			d[di.GreenOffset] = s[si.GreenOffset]
			d[di.BlueOffset] = s[si.BlueOffset]
			d[di.AlphaOffset] = s[si.AlphaOffset]
		}
	}
	return nil
}
