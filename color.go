package gifsplit

import "image/color"

// BackgroundIndex returns the palette index that means "nothing drawn here":
// the transparent index when the frame has one, otherwise the background index.
func (f *FrameDescriptor) BackgroundIndex() int {
	if f.Transparent >= 0 {
		return f.Transparent
	}
	return f.Background
}

// Color maps palette index i to an RGBA color.
//
// Alpha is 255, or 0 when i is the frame's BackgroundIndex. An index outside
// the palette yields fully transparent black. Color depends only on the
// frame, never on canvas state.
func (f *FrameDescriptor) Color(i int) color.NRGBA {
	if i < 0 || i >= len(f.Palette) {
		return color.NRGBA{}
	}
	c := f.Palette[i]
	a := uint8(0xff)
	if i == f.BackgroundIndex() {
		a = 0
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// BackgroundColor returns Color(BackgroundIndex()).
func (f *FrameDescriptor) BackgroundColor() color.NRGBA {
	return f.Color(f.BackgroundIndex())
}
