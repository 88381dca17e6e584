package gifsplit

import (
	"fmt"
	"image"
	"time"
)

// Disposal says how a frame affects the canvas before the next frame is drawn.
// The values match the GIF graphic control extension.
type Disposal uint8

const (
	// DisposalUnspecified is the GIF "no disposal specified" value.
	// It is treated as DisposalNone.
	DisposalUnspecified Disposal = 0

	// DisposalNone leaves the canvas as drawn.
	DisposalNone Disposal = 1

	// DisposalBackground restores the frame's rectangle to the background color.
	DisposalBackground Disposal = 2

	// DisposalPrevious restores the frame's rectangle to the content it had
	// before the frame was drawn.
	DisposalPrevious Disposal = 3
)

// String returns a human-readable name for the disposal mode.
func (d Disposal) String() string {
	switch d {
	case DisposalUnspecified:
		return "Unspecified"
	case DisposalNone:
		return "None"
	case DisposalBackground:
		return "Background"
	case DisposalPrevious:
		return "Previous"
	default:
		return fmt.Sprintf("Disposal(%d)", uint8(d))
	}
}

// known reports whether d is one of the four values defined by GIF89a.
func (d Disposal) known() bool {
	return d <= DisposalPrevious
}

// normalize maps every mode other than Background and Previous to None.
// Unknown values degrade to None instead of failing the frame.
func (d Disposal) normalize() Disposal {
	switch d {
	case DisposalBackground, DisposalPrevious:
		return d
	default:
		return DisposalNone
	}
}

// RGB is one palette entry.
type RGB struct {
	R, G, B uint8
}

// Palette is an index-addressable color table.
type Palette []RGB

// PaletteFromRGB builds a palette from packed R,G,B triples as stored in a
// GIF color table. A trailing partial triple is ignored.
func PaletteFromRGB(b []byte) Palette {
	p := make(Palette, len(b)/3)
	for i := range p {
		p[i] = RGB{R: b[3*i], G: b[3*i+1], B: b[3*i+2]}
	}
	return p
}

// FrameDescriptor is one decoded GIF frame as delivered by a parser.
// The compositor never modifies it.
type FrameDescriptor struct {
	// Index is the position of the frame in the sequence, starting at 0.
	Index int

	// CanvasWidth and CanvasHeight are the logical screen dimensions.
	CanvasWidth, CanvasHeight int

	// Left, Top, Width and Height place the frame's sub-rectangle on the canvas.
	Left, Top, Width, Height int

	// Interlaced is the image descriptor's interlace flag. It changes the
	// traversal order only; Pixels is always laid out row by row.
	Interlaced bool

	Disposal Disposal

	// Transparent is the transparent palette index, or negative for none.
	Transparent int

	// Background is the logical screen's background palette index.
	Background int

	Palette Palette

	// Pixels holds Width*Height palette indices, row-major.
	Pixels []byte

	// Delay is the display time of the frame.
	Delay time.Duration
}

// Bounds returns the frame's sub-rectangle in canvas coordinates.
func (f *FrameDescriptor) Bounds() image.Rectangle {
	return image.Rect(f.Left, f.Top, f.Left+f.Width, f.Top+f.Height)
}

// contains reports whether canvas coordinate (x, y) lies inside the frame's
// half-open sub-rectangle.
func (f *FrameDescriptor) contains(x, y int) bool {
	return x >= f.Left && x < f.Left+f.Width &&
		y >= f.Top && y < f.Top+f.Height
}

// pixelAt returns the palette index at canvas coordinate (x, y).
// The caller must check contains first.
func (f *FrameDescriptor) pixelAt(x, y int) int {
	return int(f.Pixels[(x-f.Left)+(y-f.Top)*f.Width])
}
