// Package gifscan walks the block structure of a GIF stream and reports the
// per-frame metadata that image/gif does not expose: the interlace flag, the
// raw color tables, the transparent index and the disposal method.
//
// Image data is skipped, never decompressed.
package gifscan

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// Block introducers and extension labels.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B

	eText           = 0x01
	eGraphicControl = 0xF9
	eComment        = 0xFE
	eApplication    = 0xFF
)

// Masks for the packed fields.
const (
	fColorTable         = 1 << 7
	fInterlace          = 1 << 6
	fColorTableBitsMask = 7

	gcTransparentColorSet = 1 << 0
	gcDisposalMethodMask  = 7 << 2
)

var (
	// ErrFormat is returned when the stream is not a GIF.
	ErrFormat = errors.New("gifscan: not a GIF")

	// ErrTruncated is returned when the stream ends before the trailer.
	ErrTruncated = errors.New("gifscan: truncated stream")
)

// Header is the logical screen of a GIF.
type Header struct {
	Version string // "87a" or "89a"

	Width, Height int

	// BackgroundIndex is the background color index of the logical screen.
	BackgroundIndex int

	// GlobalPalette holds the global color table as packed RGB triples,
	// or nil if there is none.
	GlobalPalette []byte

	// LoopCount follows image/gif: -1 when there is no NETSCAPE2.0
	// extension, 0 to loop forever, otherwise the number of repetitions.
	LoopCount int
}

// Frame is the metadata of one image descriptor and its graphic control
// extension.
type Frame struct {
	Left, Top, Width, Height int

	Interlaced bool

	// Palette is the color table in effect for the frame (local if present,
	// otherwise global) as packed RGB triples. It is not padded or modified.
	Palette []byte

	// LocalPalette reports whether Palette came from a local color table.
	LocalPalette bool

	// Transparent is the transparent color index, or -1.
	Transparent int

	// Disposal is the raw 3-bit disposal method.
	Disposal uint8

	Delay time.Duration
}

// screenDescriptor is the 7-byte logical screen descriptor after the signature.
type screenDescriptor struct {
	Width      uint16
	Height     uint16
	Packed     byte
	Background byte
	Aspect     byte
}

// imageDescriptor is the 9 bytes following the 0x2C introducer.
type imageDescriptor struct {
	Left   uint16
	Top    uint16
	Width  uint16
	Height uint16
	Packed byte
}

type graphicControl struct {
	transparent int
	disposal    uint8
	delay       time.Duration
}

func noGraphicControl() graphicControl {
	return graphicControl{transparent: -1}
}

// Scan reads a complete GIF stream from r.
func Scan(r io.Reader) (*Header, []Frame, error) {
	s := &scanner{r: bufio.NewReader(r)}
	if err := s.readHeader(); err != nil {
		return nil, nil, err
	}
	if err := s.readBlocks(); err != nil {
		return nil, nil, err
	}
	return &s.header, s.frames, nil
}

type scanner struct {
	r      *bufio.Reader
	header Header
	frames []Frame
	gc     graphicControl
}

func (s *scanner) readHeader() error {
	var sig [6]byte
	if _, err := io.ReadFull(s.r, sig[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	version := string(sig[3:])
	if string(sig[:3]) != "GIF" || (version != "87a" && version != "89a") {
		return fmt.Errorf("%w: signature %q", ErrFormat, sig[:])
	}

	var sd screenDescriptor
	if err := binary.Read(s.r, binary.LittleEndian, &sd); err != nil {
		return truncated(err)
	}
	s.header = Header{
		Version:         version,
		Width:           int(sd.Width),
		Height:          int(sd.Height),
		BackgroundIndex: int(sd.Background),
		LoopCount:       -1,
	}
	if sd.Packed&fColorTable != 0 {
		p, err := s.readColorTable(sd.Packed)
		if err != nil {
			return err
		}
		s.header.GlobalPalette = p
	}
	s.gc = noGraphicControl()
	return nil
}

func (s *scanner) readBlocks() error {
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			return truncated(err)
		}
		switch c {
		case sExtension:
			if err := s.readExtension(); err != nil {
				return err
			}
		case sImageDescriptor:
			if err := s.readImageDescriptor(); err != nil {
				return err
			}
		case sTrailer:
			return nil
		default:
			return fmt.Errorf("%w: unknown block type 0x%02x", ErrFormat, c)
		}
	}
}

func (s *scanner) readExtension() error {
	label, err := s.r.ReadByte()
	if err != nil {
		return truncated(err)
	}
	blocks, err := s.readSubBlocks()
	if err != nil {
		return err
	}

	switch label {
	case eGraphicControl:
		if len(blocks) == 0 || len(blocks[0]) < 4 {
			return fmt.Errorf("%w: short graphic control extension", ErrFormat)
		}
		b := blocks[0]
		s.gc = graphicControl{
			transparent: -1,
			disposal:    (b[0] & gcDisposalMethodMask) >> 2,
			delay:       time.Duration(binary.LittleEndian.Uint16(b[1:3])) * 10 * time.Millisecond,
		}
		if b[0]&gcTransparentColorSet != 0 {
			s.gc.transparent = int(b[3])
		}
	case eApplication:
		if len(blocks) >= 2 && string(blocks[0]) == "NETSCAPE2.0" {
			if d := blocks[1]; len(d) >= 3 && d[0] == 1 {
				s.header.LoopCount = int(binary.LittleEndian.Uint16(d[1:3]))
			}
		}
	case eText, eComment:
		// skipped
	}
	return nil
}

func (s *scanner) readImageDescriptor() error {
	var id imageDescriptor
	if err := binary.Read(s.r, binary.LittleEndian, &id); err != nil {
		return truncated(err)
	}

	f := Frame{
		Left:        int(id.Left),
		Top:         int(id.Top),
		Width:       int(id.Width),
		Height:      int(id.Height),
		Interlaced:  id.Packed&fInterlace != 0,
		Palette:     s.header.GlobalPalette,
		Transparent: s.gc.transparent,
		Disposal:    s.gc.disposal,
		Delay:       s.gc.delay,
	}
	if id.Packed&fColorTable != 0 {
		p, err := s.readColorTable(id.Packed)
		if err != nil {
			return err
		}
		f.Palette = p
		f.LocalPalette = true
	}

	// LZW minimum code size, then the compressed sub-blocks.
	if _, err := s.r.ReadByte(); err != nil {
		return truncated(err)
	}
	if err := s.skipSubBlocks(); err != nil {
		return err
	}

	s.frames = append(s.frames, f)
	s.gc = noGraphicControl()
	return nil
}

func (s *scanner) readColorTable(packed byte) ([]byte, error) {
	n := 3 << (1 + uint(packed&fColorTableBitsMask))
	p := make([]byte, n)
	if _, err := io.ReadFull(s.r, p); err != nil {
		return nil, truncated(err)
	}
	return p, nil
}

// readSubBlocks reads data sub-blocks up to and including the terminator.
func (s *scanner) readSubBlocks() ([][]byte, error) {
	var blocks [][]byte
	for {
		n, err := s.r.ReadByte()
		if err != nil {
			return nil, truncated(err)
		}
		if n == 0 {
			return blocks, nil
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(s.r, b); err != nil {
			return nil, truncated(err)
		}
		blocks = append(blocks, b)
	}
}

func (s *scanner) skipSubBlocks() error {
	for {
		n, err := s.r.ReadByte()
		if err != nil {
			return truncated(err)
		}
		if n == 0 {
			return nil
		}
		if _, err := s.r.Discard(int(n)); err != nil {
			return truncated(err)
		}
	}
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
