package gifsplit

import (
	"image"
	"image/color"
	"time"
)

// CompositedFrame is the full-canvas raster produced for one input frame.
// The caller owns it; the Compositor keeps no reference.
type CompositedFrame struct {
	// Index is the index of the FrameDescriptor this frame was built from.
	Index int

	Width  int
	Height int

	// Pix holds Width*Height pixels, 4 bytes each in R, G, B, A order,
	// row-major from the top. Alpha is always 0 or 255.
	Pix []byte

	Delay time.Duration
}

// Stride returns the number of bytes per row.
func (f *CompositedFrame) Stride() int {
	return f.Width * 4
}

// NRGBAAt returns the pixel at (x, y), or the zero color out of bounds.
func (f *CompositedFrame) NRGBAAt(x, y int) color.NRGBA {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return color.NRGBA{}
	}
	i := y*f.Stride() + x*4
	return color.NRGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: f.Pix[i+3]}
}

// Image returns an *image.NRGBA view that shares Pix.
func (f *CompositedFrame) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Stride(),
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

func (f *CompositedFrame) set(i int, c color.NRGBA) {
	p := f.Pix[i*4 : i*4+4 : i*4+4]
	p[0] = c.R
	p[1] = c.G
	p[2] = c.B
	p[3] = c.A
}
