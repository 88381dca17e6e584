package gifsplit

import (
	"image/color"
	"iter"
	"log/slog"
	"math"

	"github.com/google/uuid"
)

// Compositor turns a sequence of FrameDescriptors into full-canvas frames.
//
// A frame with Index 0 starts a session: the canvas is sized from the frame's
// logical screen and filled with its background color. Every following frame
// must carry the next index. A rejected frame aborts the session until the
// next index-0 frame.
//
// Compositor is not safe for concurrent use. Independent compositors share
// no state.
type Compositor struct {
	opts   options
	log    *slog.Logger
	canvas *canvas
	last   int
	err    error // sticky session error
	closed bool
}

// New creates a Compositor with the given options.
func New(opts ...Option) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.sessionID == "" {
		o.sessionID = uuid.New().String()
	}
	return &Compositor{
		opts: o,
		log:  Logger().With("session", o.sessionID),
		last: -1,
	}
}

// SessionID returns the identifier attached to this compositor's log records.
func (c *Compositor) SessionID() string {
	return c.opts.sessionID
}

// FillMode returns the configured fill mode.
func (c *Compositor) FillMode() FillMode {
	return c.opts.fill
}

// Size returns the current canvas dimensions, or 0, 0 before the first
// index-0 frame.
func (c *Compositor) Size() (width, height int) {
	if c.canvas == nil {
		return 0, 0
	}
	return c.canvas.width, c.canvas.height
}

// Composite processes one frame and returns its composited raster.
//
// The frame is validated before any canvas pixel is touched, so on error the
// canvas is unchanged and no frame is produced.
func (c *Compositor) Composite(f *FrameDescriptor) (*CompositedFrame, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if f == nil {
		return nil, invalidFrame(c.last+1, "nil frame")
	}

	if err := c.begin(f); err != nil {
		c.err = err
		c.log.Debug("gifsplit: frame rejected", "index", f.Index, "err", err)
		return nil, err
	}

	if !f.Disposal.known() {
		c.log.Debug("gifsplit: unknown disposal, treating as none",
			"index", f.Index, "value", uint8(f.Disposal))
	}
	c.log.Debug("gifsplit: frame",
		"index", f.Index,
		"rect", f.Bounds(),
		"interlaced", f.Interlaced,
		"disposal", f.Disposal.normalize())

	out := c.parseFrame(f)
	c.last = f.Index
	return out, nil
}

// begin checks f against the session and starts a new session on index 0.
func (c *Compositor) begin(f *FrameDescriptor) error {
	if f.Index < 0 {
		return invalidFrame(f.Index, "negative index")
	}

	if f.Index == 0 {
		if err := c.checkCanvas(f); err != nil {
			return err
		}
		if err := validate(f); err != nil {
			return err
		}
		c.canvas = c.canvas.reset(f.CanvasWidth, f.CanvasHeight, f.BackgroundColor())
		c.err = nil
		c.last = -1
		c.log.Info("gifsplit: session started",
			"width", f.CanvasWidth, "height", f.CanvasHeight, "fill", c.opts.fill)
		return nil
	}

	if c.err != nil {
		return c.err
	}
	if c.canvas == nil {
		return invalidFrame(f.Index, "frame received before frame 0")
	}
	if f.Index != c.last+1 {
		return invalidFrame(f.Index, "expected frame %d", c.last+1)
	}
	if f.CanvasWidth != c.canvas.width || f.CanvasHeight != c.canvas.height {
		return invalidFrame(f.Index, "canvas %dx%d does not match session canvas %dx%d",
			f.CanvasWidth, f.CanvasHeight, c.canvas.width, c.canvas.height)
	}
	return validate(f)
}

func (c *Compositor) checkCanvas(f *FrameDescriptor) error {
	w, h := f.CanvasWidth, f.CanvasHeight
	if w <= 0 || h <= 0 {
		return invalidCanvas(f.Index, "canvas %dx%d", w, h)
	}
	// The RGBA buffers hold w*h*4 bytes, which must fit in an int.
	if w > maxCanvasSide || h > maxCanvasSide || w > math.MaxInt/4/h {
		return invalidCanvas(f.Index, "canvas %dx%d too large", w, h)
	}
	if limit := c.opts.maxPixels; limit > 0 && (w > limit || h > limit || w*h > limit) {
		return invalidCanvas(f.Index, "canvas %dx%d exceeds %d pixels", w, h, limit)
	}
	return nil
}

// maxCanvasSide is the largest logical screen side a GIF can declare.
const maxCanvasSide = 0xFFFF

// validate bounds-checks everything parseFrame will index.
func validate(f *FrameDescriptor) error {
	if f.Left < 0 || f.Top < 0 || f.Width < 0 || f.Height < 0 {
		return invalidFrame(f.Index, "negative rectangle %v", f.Bounds())
	}
	// Compare by subtraction so huge sides cannot wrap past the check.
	if f.Width > f.CanvasWidth-f.Left || f.Height > f.CanvasHeight-f.Top {
		return invalidFrame(f.Index, "rectangle %dx%d at (%d,%d) exceeds canvas %dx%d",
			f.Width, f.Height, f.Left, f.Top, f.CanvasWidth, f.CanvasHeight)
	}
	if len(f.Palette) == 0 {
		return invalidFrame(f.Index, "empty palette")
	}
	n := f.Width * f.Height
	if len(f.Pixels) < n {
		return invalidFrame(f.Index, "pixel buffer has %d bytes, want %d", len(f.Pixels), n)
	}
	bg := f.BackgroundIndex()
	for i, p := range f.Pixels[:n] {
		if int(p) != bg && int(p) >= len(f.Palette) {
			return invalidFrame(f.Index, "pixel %d uses index %d outside palette of %d", i, p, len(f.Palette))
		}
	}
	return nil
}

// parseFrame resolves every canvas pixel for f and applies f's disposal.
func (c *Compositor) parseFrame(f *FrameDescriptor) *CompositedFrame {
	cv := c.canvas
	out := &CompositedFrame{
		Index:  f.Index,
		Width:  cv.width,
		Height: cv.height,
		Pix:    make([]byte, cv.width*cv.height*4),
		Delay:  f.Delay,
	}

	bgIndex := f.BackgroundIndex()
	bg := f.BackgroundColor()
	disposal := f.Disposal.normalize()
	fill := c.opts.fill

	for y := range ScanRows(cv.height, f.Interlaced) {
		for x := 0; x < cv.width; x++ {
			i := y*cv.width + x
			prevValid := cv.lastValid[i]

			inBounds := f.contains(x, y)
			drawn := false
			var px color.NRGBA
			if inBounds {
				if p := f.pixelAt(x, y); p != bgIndex {
					px = f.Color(p)
					drawn = true
				}
			}

			switch {
			case drawn:
				cv.lastValid[i] = px
			case fill == FillDisposed:
				px = cv.before[i]
			default:
				px = cv.lastValid[i]
			}
			out.set(i, px)

			if !inBounds {
				continue
			}
			switch disposal {
			case DisposalBackground:
				cv.before[i] = bg
			case DisposalPrevious:
				if fill == FillCarryForward {
					cv.before[i] = prevValid
				}
			default:
				cv.before[i] = px
			}
		}
	}
	return out
}

// Frames composites every descriptor from src lazily.
//
// Iteration stops after the first error, whether it comes from src or from
// Composite; that error is yielded with a nil frame. src is consumed once.
func (c *Compositor) Frames(src iter.Seq2[*FrameDescriptor, error]) iter.Seq2[*CompositedFrame, error] {
	return func(yield func(*CompositedFrame, error) bool) {
		for fd, err := range src {
			if err != nil {
				yield(nil, err)
				return
			}
			out, err := c.Composite(fd)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// Before returns the disposed canvas pixel at (x, y): what the next frame
// starts from. ok is false outside the canvas or before frame 0.
func (c *Compositor) Before(x, y int) (px color.NRGBA, ok bool) {
	if c.canvas == nil || !c.canvas.inBounds(x, y) {
		return color.NRGBA{}, false
	}
	return c.canvas.before[y*c.canvas.width+x], true
}

// LastValid returns the most recent opaque color computed at (x, y), or the
// background color if none. ok is false outside the canvas or before frame 0.
func (c *Compositor) LastValid(x, y int) (px color.NRGBA, ok bool) {
	if c.canvas == nil || !c.canvas.inBounds(x, y) {
		return color.NRGBA{}, false
	}
	return c.canvas.lastValid[y*c.canvas.width+x], true
}

// Close releases the canvas buffers. Further calls to Composite return
// ErrClosed. Close is idempotent.
func (c *Compositor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.canvas = nil
	c.log.Debug("gifsplit: compositor closed", "last_index", c.last)
	return nil
}
