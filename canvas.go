package gifsplit

import "image/color"

// canvas is the per-session pixel state threaded through parseFrame.
type canvas struct {
	width  int
	height int

	// before is the canvas after the previous frame's disposal.
	before []color.NRGBA

	// lastValid is the most recent opaque color computed per coordinate.
	lastValid []color.NRGBA
}

func newCanvas(width, height int, bg color.NRGBA) *canvas {
	c := &canvas{
		width:     width,
		height:    height,
		before:    make([]color.NRGBA, width*height),
		lastValid: make([]color.NRGBA, width*height),
	}
	c.fill(bg)
	return c
}

// reset reinitializes the canvas for a new session, reusing the buffers when
// the size is unchanged.
func (c *canvas) reset(width, height int, bg color.NRGBA) *canvas {
	if c == nil || c.width != width || c.height != height {
		return newCanvas(width, height, bg)
	}
	c.fill(bg)
	return c
}

func (c *canvas) fill(bg color.NRGBA) {
	for i := range c.before {
		c.before[i] = bg
		c.lastValid[i] = bg
	}
}

func (c *canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}
