package image

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// stdImage converts the Buf to a non-premultiplied *image.NRGBA.
// RGBA8 buffers with a tight stride share their pixel data with the result.
func (b *Buf) stdImage() *image.NRGBA {
	rect := image.Rect(0, 0, b.width, b.height)

	if b.format == FormatRGBA8 && b.stride == b.format.RowBytes(b.width) {
		return &image.NRGBA{Pix: b.data, Stride: b.stride, Rect: rect}
	}

	nrgba := image.NewNRGBA(rect)
	dst, _ := FromRaw(nrgba.Pix, b.width, b.height, FormatRGBA8, nrgba.Stride)
	_ = dst.ConvertFrom(b)
	return nrgba
}

// EncodePNG encodes the buffer as PNG to the given writer.
func (b *Buf) EncodePNG(w io.Writer) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, b.stdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}
