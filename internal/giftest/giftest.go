// Package giftest builds small GIF89a streams for tests.
//
// Unlike image/gif.EncodeAll it can write interlaced frames, keep the RGB of
// the transparent palette entry and set any disposal value.
package giftest

import (
	"bytes"
	"compress/lzw"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gifsplit"
)

// GIF describes a stream to encode.
type GIF struct {
	Width, Height int
	Background    byte

	// Palette is the global color table as packed RGB, or nil.
	Palette []byte

	// LoopCount is written as a NETSCAPE2.0 extension unless negative.
	LoopCount int

	Frames []Frame
}

// Frame describes one image descriptor.
type Frame struct {
	Left, Top, Width, Height int

	// Interlaced writes the rows in four-pass order. Pixels stays row-major.
	Interlaced bool

	// Palette is a local color table as packed RGB, or nil to use the global one.
	Palette []byte

	// Transparent is the transparent index, or -1 for none.
	Transparent int

	Disposal byte

	// DelayCS is the delay in hundredths of a second.
	DelayCS uint16

	Pixels []byte
}

// Encode serializes g. It panics on inconsistent input since it is only
// used to build fixtures.
func Encode(g *GIF) []byte {
	var b bytes.Buffer
	b.WriteString("GIF89a")
	writeU16(&b, g.Width, g.Height)

	var packed byte
	var globalBits int
	if g.Palette != nil {
		globalBits = tableBits(len(g.Palette) / 3)
		packed = 0x80 | 0x70 | byte(globalBits-1)
	}
	b.WriteByte(packed)
	b.WriteByte(g.Background)
	b.WriteByte(0) // aspect
	if g.Palette != nil {
		writeTable(&b, g.Palette, globalBits)
	}

	if g.LoopCount >= 0 {
		b.Write([]byte{0x21, 0xFF, 0x0B})
		b.WriteString("NETSCAPE2.0")
		b.Write([]byte{0x03, 0x01})
		writeU16(&b, g.LoopCount)
		b.WriteByte(0)
	}

	for i := range g.Frames {
		writeFrame(&b, g, &g.Frames[i])
	}

	b.WriteByte(0x3B)
	return b.Bytes()
}

func writeFrame(b *bytes.Buffer, g *GIF, f *Frame) {
	if len(f.Pixels) != f.Width*f.Height {
		panic(fmt.Sprintf("giftest: %d pixels for %dx%d frame", len(f.Pixels), f.Width, f.Height))
	}

	// Graphic control extension.
	gc := f.Disposal << 2
	trans := byte(0)
	if f.Transparent >= 0 {
		gc |= 1
		trans = byte(f.Transparent)
	}
	b.Write([]byte{0x21, 0xF9, 0x04, gc})
	writeU16(b, int(f.DelayCS))
	b.WriteByte(trans)
	b.WriteByte(0)

	// Image descriptor.
	b.WriteByte(0x2C)
	writeU16(b, f.Left, f.Top, f.Width, f.Height)

	palette := g.Palette
	var packed byte
	if f.Palette != nil {
		palette = f.Palette
		packed |= 0x80 | byte(tableBits(len(f.Palette)/3)-1)
	}
	if f.Interlaced {
		packed |= 0x40
	}
	b.WriteByte(packed)
	if f.Palette != nil {
		writeTable(b, f.Palette, tableBits(len(f.Palette)/3))
	}

	litWidth := max(2, tableBits(len(palette)/3))
	b.WriteByte(byte(litWidth))

	var data bytes.Buffer
	w := lzw.NewWriter(&data, lzw.LSB, litWidth)
	for y := range gifsplit.ScanRows(f.Height, f.Interlaced) {
		if _, err := w.Write(f.Pixels[y*f.Width : (y+1)*f.Width]); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}

	for p := data.Bytes(); len(p) > 0; {
		n := min(len(p), 255)
		b.WriteByte(byte(n))
		b.Write(p[:n])
		p = p[n:]
	}
	b.WriteByte(0)
}

// tableBits returns the smallest k in [1, 8] with 1<<k >= n.
func tableBits(n int) int {
	k := 1
	for k < 8 && 1<<k < n {
		k++
	}
	return k
}

func writeTable(b *bytes.Buffer, rgb []byte, bits int) {
	table := make([]byte, 3<<bits)
	copy(table, rgb)
	b.Write(table)
}

func writeU16(b *bytes.Buffer, vs ...int) {
	for _, v := range vs {
		_ = binary.Write(b, binary.LittleEndian, uint16(v))
	}
}

// Solid returns a w x h pixel buffer filled with index i.
func Solid(w, h int, i byte) []byte {
	return bytes.Repeat([]byte{i}, w*h)
}
