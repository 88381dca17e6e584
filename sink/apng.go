package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kettek/apng"
	"github.com/klauspost/compress/zlib"

	"github.com/gogpu/gifsplit"
)

// APNG collects frames and writes them as one animated PNG on Close.
//
// Frames arrive fully composited, so each one replaces the previous
// (dispose none, blend source).
type APNG struct {
	w      io.Writer
	opts   options
	anim   apng.APNG
	closed bool
}

// NewAPNG returns a sink that writes an animated PNG to w on Close.
func NewAPNG(w io.Writer, opts ...Option) *APNG {
	o := applyOptions(opts)
	return &APNG{
		w:    w,
		opts: o,
		anim: apng.APNG{LoopCount: uint(max(0, o.loopCount))},
	}
}

// WriteFrame appends f. The sink keeps f's pixels until Close.
func (a *APNG) WriteFrame(ctx context.Context, f *gifsplit.CompositedFrame) error {
	if a.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	img := Downscale(f.Image(), a.opts.maxDim)
	if n := len(a.anim.Frames); n > 0 {
		first := a.anim.Frames[0].Image.Bounds()
		if img.Rect != first {
			return fmt.Errorf("sink: apng frame %d is %v, first frame is %v", f.Index, img.Rect, first)
		}
	}

	a.anim.Frames = append(a.anim.Frames, apng.Frame{
		Image:            img,
		DelayNumerator:   centiseconds(f.Delay),
		DelayDenominator: 100,
		DisposeOp:        apng.DISPOSE_OP_NONE,
		BlendOp:          apng.BLEND_OP_SOURCE,
	})
	return nil
}

// Len returns the number of frames collected.
func (a *APNG) Len() int {
	return len(a.anim.Frames)
}

// Close encodes the collected frames. Closing an empty sink writes nothing.
func (a *APNG) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if len(a.anim.Frames) == 0 {
		return nil
	}

	bw := bufio.NewWriter(a.w)
	enc := apng.Encoder{
		CompressionWriter: func(w io.Writer) (apng.CompressionWriter, error) {
			return zlib.NewWriterLevel(w, zlib.BestCompression)
		},
	}
	if err := enc.Encode(bw, a.anim); err != nil {
		return fmt.Errorf("sink: apng: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("sink: apng: %w", err)
	}
	gifsplit.Logger().Info("sink: wrote apng", "frames", len(a.anim.Frames), "loop", a.anim.LoopCount)
	a.anim.Frames = nil
	return nil
}

func centiseconds(d time.Duration) uint16 {
	cs := d / (10 * time.Millisecond)
	if cs > 0xFFFF {
		return 0xFFFF
	}
	return uint16(cs)
}
