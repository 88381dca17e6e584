package sink

import (
	"encoding/binary"
	"fmt"
	"io"

	intImage "github.com/gogpu/gifsplit/internal/image"
)

// tgaHeader is the 18-byte Truevision TGA header.
type tgaHeader struct {
	IDLength       uint8
	ColorMapType   uint8
	ImageType      uint8
	ColorMapOrigin uint16
	ColorMapLength uint16
	ColorMapDepth  uint8
	XOrigin        uint16
	YOrigin        uint16
	Width          uint16
	Height         uint16
	PixelDepth     uint8
	Descriptor     uint8
}

const (
	tgaTrueColor = 2

	// Top-left origin, 8 alpha bits.
	tgaDescriptor = 0x20 | 8
)

// EncodeTGA writes buf as an uncompressed 32-bit TGA. buf must be BGRA8.
func EncodeTGA(w io.Writer, buf *intImage.Buf) error {
	if buf.Format() != intImage.FormatBGRA8 {
		return fmt.Errorf("sink: tga needs BGRA8, got %v", buf.Format())
	}
	if buf.Width() > 0xFFFF || buf.Height() > 0xFFFF {
		return fmt.Errorf("%w: tga %dx%d", ErrTooLarge, buf.Width(), buf.Height())
	}

	h := tgaHeader{
		ImageType:  tgaTrueColor,
		Width:      uint16(buf.Width()),
		Height:     uint16(buf.Height()),
		PixelDepth: 32,
		Descriptor: tgaDescriptor,
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	for y := 0; y < buf.Height(); y++ {
		if _, err := w.Write(buf.RowBytes(y)); err != nil {
			return err
		}
	}
	return nil
}
