package image

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestStdImage(t *testing.T) {
	t.Run("RGBA8 shares data", func(t *testing.T) {
		buf, _ := NewBuf(2, 2, FormatRGBA8)
		img := buf.stdImage()
		setPixel(buf, 1, 0, 7, 7, 7, 7)
		if got := img.NRGBAAt(1, 0); got.R != 7 {
			t.Errorf("stdImage copy detected: got %v", got)
		}
	})

	t.Run("BGRA8 converts", func(t *testing.T) {
		buf, _ := NewBuf(2, 2, FormatBGRA8)
		setPixel(buf, 1, 1, 200, 100, 50, 255)
		img := buf.stdImage()
		want := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
		if got := img.NRGBAAt(1, 1); got != want {
			t.Errorf("NRGBAAt(1,1) = %v, want %v", got, want)
		}
	})
}

func TestEncodePNG(t *testing.T) {
	buf, _ := NewBuf(3, 2, FormatBGRA8)
	setPixel(buf, 2, 1, 10, 20, 30, 255)

	var out bytes.Buffer
	if err := buf.EncodePNG(&out); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}

	img, err := png.Decode(&out)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	got := color.NRGBAModel.Convert(img.At(2, 1)).(color.NRGBA)
	want := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	if got != want {
		t.Errorf("decoded pixel = %v, want %v", got, want)
	}
}
