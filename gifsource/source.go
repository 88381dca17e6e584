// Package gifsource turns a GIF stream into gifsplit.FrameDescriptor values.
//
// LZW decoding is done by image/gif. The metadata image/gif drops or rewrites
// (interlace flag, raw color tables, transparent index) comes from a block
// scan of the same bytes.
package gifsource

import (
	"bytes"
	"errors"
	"fmt"
	"image/gif"
	"io"
	"iter"
	"os"

	"github.com/gogpu/gifsplit"
	"github.com/gogpu/gifsplit/internal/gifscan"
)

var (
	// ErrConsumed is yielded when Frames is iterated a second time.
	ErrConsumed = errors.New("gifsource: frames already consumed")

	// ErrMismatch is returned when the block scan and the decoder disagree
	// about the frame layout.
	ErrMismatch = errors.New("gifsource: scan and decode disagree")
)

// Config summarizes a decoded GIF.
type Config struct {
	Width, Height int
	FrameCount    int

	// LoopCount is 0 for infinite looping, -1 for play once, otherwise the
	// number of repetitions.
	LoopCount int

	// BackgroundIndex is the logical screen background index.
	BackgroundIndex int
}

// Source yields the frames of one GIF.
type Source struct {
	header   *gifscan.Header
	meta     []gifscan.Frame
	decoded  *gif.GIF
	consumed bool
}

// Open reads and decodes the GIF file at path.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gifsource: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a complete GIF stream from r.
func Decode(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gifsource: read: %w", err)
	}

	hdr, meta, err := gifscan.Scan(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gifsource: scan: %w", err)
	}
	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gifsource: decode: %w", err)
	}

	if len(meta) != len(decoded.Image) {
		return nil, fmt.Errorf("%w: %d image descriptors, %d decoded frames",
			ErrMismatch, len(meta), len(decoded.Image))
	}
	for i, m := range decoded.Image {
		b := m.Bounds()
		if b.Min.X != meta[i].Left || b.Min.Y != meta[i].Top ||
			b.Dx() != meta[i].Width || b.Dy() != meta[i].Height {
			return nil, fmt.Errorf("%w: frame %d bounds %v", ErrMismatch, i, b)
		}
	}

	gifsplit.Logger().Debug("gifsource: decoded",
		"width", hdr.Width, "height", hdr.Height,
		"frames", len(meta), "loop", hdr.LoopCount)

	return &Source{header: hdr, meta: meta, decoded: decoded}, nil
}

// Config returns the canvas size, frame count and loop count.
func (s *Source) Config() Config {
	return Config{
		Width:           s.header.Width,
		Height:          s.header.Height,
		FrameCount:      len(s.meta),
		LoopCount:       s.header.LoopCount,
		BackgroundIndex: s.header.BackgroundIndex,
	}
}

// Frames yields one descriptor per frame, in order.
//
// The sequence can be iterated once; a second iteration yields ErrConsumed.
// Descriptors are built on demand and share pixel memory with the decoder.
func (s *Source) Frames() iter.Seq2[*gifsplit.FrameDescriptor, error] {
	return func(yield func(*gifsplit.FrameDescriptor, error) bool) {
		if s.consumed {
			yield(nil, ErrConsumed)
			return
		}
		s.consumed = true

		for i := range s.meta {
			fd, err := s.descriptor(i)
			if !yield(fd, err) || err != nil {
				return
			}
		}
	}
}

func (s *Source) descriptor(i int) (*gifsplit.FrameDescriptor, error) {
	m := s.meta[i]
	img := s.decoded.Image[i]
	if m.Palette == nil {
		return nil, fmt.Errorf("gifsource: frame %d has no color table", i)
	}

	pixels := img.Pix
	if img.Stride != m.Width {
		pixels = make([]byte, m.Width*m.Height)
		for y := 0; y < m.Height; y++ {
			copy(pixels[y*m.Width:(y+1)*m.Width], img.Pix[y*img.Stride:])
		}
	}

	return &gifsplit.FrameDescriptor{
		Index:        i,
		CanvasWidth:  s.header.Width,
		CanvasHeight: s.header.Height,
		Left:         m.Left,
		Top:          m.Top,
		Width:        m.Width,
		Height:       m.Height,
		Interlaced:   m.Interlaced,
		Disposal:     gifsplit.Disposal(m.Disposal),
		Transparent:  m.Transparent,
		Background:   s.header.BackgroundIndex,
		Palette:      gifsplit.PaletteFromRGB(m.Palette),
		Pixels:       pixels,
		Delay:        m.Delay,
	}, nil
}
