package gifsplit

import (
	"image/color"
	"testing"
)

func TestFrameDescriptor_BackgroundIndex(t *testing.T) {
	tests := []struct {
		name        string
		transparent int
		background  int
		want        int
	}{
		{"no transparency", -1, 2, 2},
		{"transparency wins", 3, 2, 3},
		{"transparent zero", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &FrameDescriptor{Transparent: tt.transparent, Background: tt.background}
			if got := f.BackgroundIndex(); got != tt.want {
				t.Errorf("BackgroundIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFrameDescriptor_Color(t *testing.T) {
	f := &FrameDescriptor{Transparent: -1, Background: 1, Palette: testPalette}

	tests := []struct {
		name  string
		index int
		want  color.NRGBA
	}{
		{"opaque entry", 2, color.NRGBA{G: 255, A: 255}},
		{"background entry", 1, color.NRGBA{R: 255, A: 0}},
		{"out of palette", 9, color.NRGBA{}},
		{"negative", -1, color.NRGBA{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Color(tt.index); got != tt.want {
				t.Errorf("Color(%d) = %v, want %v", tt.index, got, tt.want)
			}
			if got := f.Color(tt.index); got != f.Color(tt.index) {
				t.Errorf("Color(%d) not deterministic", tt.index)
			}
		})
	}

	if got := f.BackgroundColor(); got != (color.NRGBA{R: 255}) {
		t.Errorf("BackgroundColor() = %v", got)
	}
}

func TestPaletteFromRGB(t *testing.T) {
	p := PaletteFromRGB([]byte{1, 2, 3, 4, 5, 6, 7})
	if len(p) != 2 {
		t.Fatalf("len = %d, want 2", len(p))
	}
	if p[1] != (RGB{R: 4, G: 5, B: 6}) {
		t.Errorf("p[1] = %v, want {4 5 6}", p[1])
	}
}
