package gifsplit

import (
	"context"
	"fmt"
	"iter"
)

// Sink receives composited frames in index order.
type Sink interface {
	WriteFrame(ctx context.Context, f *CompositedFrame) error
}

// Split composites every frame from frames and writes it to s.
//
// It returns the number of frames written. ctx is checked between frames;
// a frame that is being composited is never interrupted. Split does not
// close s.
func Split(ctx context.Context, frames iter.Seq2[*FrameDescriptor, error], s Sink, opts ...Option) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c := New(opts...)
	defer c.Close()

	n := 0
	for out, err := range c.Frames(frames) {
		if err != nil {
			return n, err
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := s.WriteFrame(ctx, out); err != nil {
			return n, fmt.Errorf("gifsplit: write frame %d: %w", out.Index, err)
		}
		n++
	}

	c.log.Info("gifsplit: split complete", "frames", n)
	return n, nil
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, f *CompositedFrame) error

// WriteFrame calls fn(ctx, f).
func (fn SinkFunc) WriteFrame(ctx context.Context, f *CompositedFrame) error {
	return fn(ctx, f)
}
