package gifsource

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/gifsplit"
	"github.com/gogpu/gifsplit/internal/giftest"
)

var rgb4 = []byte{
	255, 255, 255,
	255, 0, 0,
	0, 255, 0,
	0, 0, 255,
}

func twoFrameGIF(interlaced bool) []byte {
	pix := []byte{
		1, 2, 1,
		2, 3, 2,
		1, 2, 1,
		3, 3, 3,
		0, 1, 0,
	}
	return giftest.Encode(&giftest.GIF{
		Width: 4, Height: 6, Background: 0, Palette: rgb4, LoopCount: 0,
		Frames: []giftest.Frame{
			{Width: 4, Height: 6, Transparent: -1, Disposal: 1, DelayCS: 10, Pixels: giftest.Solid(4, 6, 3)},
			{Left: 1, Top: 1, Width: 3, Height: 5, Interlaced: interlaced, Transparent: 0, Disposal: 2, DelayCS: 20, Pixels: pix},
		},
	})
}

func TestDecode(t *testing.T) {
	src, err := Decode(bytes.NewReader(twoFrameGIF(true)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	cfg := src.Config()
	if cfg.Width != 4 || cfg.Height != 6 || cfg.FrameCount != 2 || cfg.LoopCount != 0 {
		t.Errorf("Config() = %+v", cfg)
	}

	var got []*gifsplit.FrameDescriptor
	for fd, err := range src.Frames() {
		if err != nil {
			t.Fatalf("Frames() error = %v", err)
		}
		got = append(got, fd)
	}
	if len(got) != 2 {
		t.Fatalf("got %d frames, want 2", len(got))
	}

	f := got[1]
	if f.Index != 1 || f.Left != 1 || f.Top != 1 || f.Width != 3 || f.Height != 5 {
		t.Errorf("frame 1 layout = %+v", f.Bounds())
	}
	if !f.Interlaced {
		t.Error("Interlaced = false, want true")
	}
	if f.Transparent != 0 || f.Background != 0 {
		t.Errorf("Transparent = %d, Background = %d; want 0, 0", f.Transparent, f.Background)
	}
	if f.Disposal != gifsplit.DisposalBackground {
		t.Errorf("Disposal = %v, want Background", f.Disposal)
	}
	if f.Delay != 200*time.Millisecond {
		t.Errorf("Delay = %v, want 200ms", f.Delay)
	}
	// The transparent entry keeps its RGB.
	if f.Palette[0] != (gifsplit.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("Palette[0] = %v, want white", f.Palette[0])
	}
	// Pixels are positional even though the stream is interlaced.
	if f.Pixels[3*3+0] != 3 || f.Pixels[4*3+1] != 1 {
		t.Errorf("Pixels = %v", f.Pixels)
	}
}

func TestFrames_Consumed(t *testing.T) {
	src, err := Decode(bytes.NewReader(twoFrameGIF(false)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	for range src.Frames() {
	}

	n := 0
	for fd, err := range src.Frames() {
		n++
		if fd != nil || !errors.Is(err, ErrConsumed) {
			t.Errorf("second iteration = %v, %v; want nil, ErrConsumed", fd, err)
		}
	}
	if n != 1 {
		t.Errorf("second iteration yielded %d times, want 1", n)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not a gif"))); err == nil {
		t.Error("Decode(garbage) error = nil")
	}
	data := twoFrameGIF(false)
	if _, err := Decode(bytes.NewReader(data[:len(data)-6])); err == nil {
		t.Error("Decode(truncated) error = nil")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.gif")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	if err := os.WriteFile(path, twoFrameGIF(false), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if src.Config().FrameCount != 2 {
		t.Errorf("FrameCount = %d, want 2", src.Config().FrameCount)
	}
}

func splitAll(t *testing.T, data []byte, opts ...gifsplit.Option) []*gifsplit.CompositedFrame {
	t.Helper()
	src, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	var out []*gifsplit.CompositedFrame
	sink := gifsplit.SinkFunc(func(_ context.Context, f *gifsplit.CompositedFrame) error {
		out = append(out, f)
		return nil
	})
	if _, err := gifsplit.Split(context.Background(), src.Frames(), sink, opts...); err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	return out
}

func TestSplit_EndToEnd(t *testing.T) {
	plain := splitAll(t, twoFrameGIF(false))
	inter := splitAll(t, twoFrameGIF(true))

	if len(plain) != 2 || len(inter) != 2 {
		t.Fatalf("frame counts %d, %d; want 2, 2", len(plain), len(inter))
	}
	for i := range plain {
		if !bytes.Equal(plain[i].Pix, inter[i].Pix) {
			t.Errorf("frame %d differs between interlaced and plain encodings", i)
		}
	}

	blue := color.NRGBA{B: 255, A: 255}
	red := color.NRGBA{R: 255, A: 255}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, blue}, // outside frame 1
		{1, 1, red},  // drawn by frame 1
		{2, 2, blue}, // index 3 drawn over blue
		{1, 5, blue}, // transparent index 0 carries frame 0
		{2, 5, red},
	}
	for _, tt := range tests {
		if got := plain[1].NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("frame 1 pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
