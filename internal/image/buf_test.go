package image

import (
	"errors"
	"testing"
)

// setPixel writes (r, g, bl, a) at (x, y) in b's channel order.
func setPixel(b *Buf, x, y int, r, g, bl, a uint8) {
	info := b.format.info()
	px := b.RowBytes(y)[x*info.BytesPerPixel:]
	px[info.RedOffset] = r
	px[info.GreenOffset] = g
	px[info.BlueOffset] = bl
	px[info.AlphaOffset] = a
}

// pixel reads the pixel at (x, y) as (r, g, b, a).
func pixel(b *Buf, x, y int) (r, g, bl, a uint8) {
	info := b.format.info()
	px := b.RowBytes(y)[x*info.BytesPerPixel:]
	return px[info.RedOffset], px[info.GreenOffset], px[info.BlueOffset], px[info.AlphaOffset]
}

func TestNewBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid RGBA8", 100, 100, FormatRGBA8, nil},
		{"valid BGRA8", 50, 50, FormatBGRA8, nil},
		{"1x1 minimum", 1, 1, FormatRGBA8, nil},
		{"zero width", 0, 100, FormatRGBA8, ErrInvalidDimensions},
		{"zero height", 100, 0, FormatRGBA8, ErrInvalidDimensions},
		{"negative width", -1, 100, FormatRGBA8, ErrInvalidDimensions},
		{"negative height", 100, -1, FormatRGBA8, ErrInvalidDimensions},
		{"invalid format", 100, 100, Format(255), ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewBuf(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewBuf() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if buf.Width() != tt.width {
				t.Errorf("Width() = %d, want %d", buf.Width(), tt.width)
			}
			if buf.Height() != tt.height {
				t.Errorf("Height() = %d, want %d", buf.Height(), tt.height)
			}
			if buf.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", buf.Format(), tt.format)
			}
			expectedStride := tt.format.RowBytes(tt.width)
			if buf.Stride() != expectedStride {
				t.Errorf("Stride() = %d, want %d", buf.Stride(), expectedStride)
			}
			if len(buf.Data()) != expectedStride*tt.height {
				t.Errorf("len(Data()) = %d, want %d", len(buf.Data()), expectedStride*tt.height)
			}
		})
	}
}

func TestFromRaw(t *testing.T) {
	validData := make([]byte, 40*10)

	tests := []struct {
		name    string
		data    []byte
		width   int
		height  int
		format  Format
		stride  int
		wantErr error
	}{
		{"valid data", validData, 10, 10, FormatRGBA8, 40, nil},
		{"data too small", make([]byte, 100), 10, 10, FormatRGBA8, 40, ErrDataTooSmall},
		{"invalid dimensions", validData, 0, 10, FormatRGBA8, 40, ErrInvalidDimensions},
		{"stride too small", validData, 10, 10, FormatRGBA8, 20, ErrInvalidStride},
		{"invalid format", validData, 10, 10, Format(9), 40, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := FromRaw(tt.data, tt.width, tt.height, tt.format, tt.stride)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FromRaw() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && buf == nil {
				t.Error("FromRaw() returned nil without error")
			}
		})
	}
}

func TestFromRaw_SharesData(t *testing.T) {
	data := make([]byte, 2*2*4)
	buf, err := FromRaw(data, 2, 2, FormatRGBA8, 8)
	if err != nil {
		t.Fatalf("FromRaw() error = %v", err)
	}
	setPixel(buf, 1, 1, 9, 8, 7, 6)
	if data[12] != 9 || data[15] != 6 {
		t.Errorf("FromRaw did not share data: got %v", data[12:16])
	}
}

func TestBuf_ChannelLayout(t *testing.T) {
	tests := []struct {
		format Format
		raw    [4]byte
	}{
		{FormatRGBA8, [4]byte{10, 20, 30, 255}},
		{FormatBGRA8, [4]byte{30, 20, 10, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			buf, _ := NewBuf(4, 4, tt.format)
			setPixel(buf, 2, 3, 10, 20, 30, 255)

			off := 3*buf.Stride() + 2*4
			var got [4]byte
			copy(got[:], buf.Data()[off:off+4])
			if got != tt.raw {
				t.Errorf("raw bytes = %v, want %v", got, tt.raw)
			}
		})
	}
}

func TestBuf_RowBytesOutOfBounds(t *testing.T) {
	buf, _ := NewBuf(3, 3, FormatRGBA8)
	for _, y := range []int{-1, 3} {
		if buf.RowBytes(y) != nil {
			t.Errorf("RowBytes(%d) should be nil", y)
		}
	}
	if got := len(buf.RowBytes(2)); got != 12 {
		t.Errorf("len(RowBytes(2)) = %d, want 12", got)
	}
}

func TestBuf_Clear(t *testing.T) {
	buf, _ := NewBuf(5, 2, FormatBGRA8)
	for y := range 2 {
		for x := range 5 {
			setPixel(buf, x, y, 1, 2, 3, 4)
		}
	}

	buf.Clear()
	for i, v := range buf.Data() {
		if v != 0 {
			t.Fatalf("after Clear data[%d] = %d, want 0", i, v)
		}
	}
}

func TestBuf_ConvertFrom(t *testing.T) {
	src, _ := NewBuf(2, 1, FormatRGBA8)
	setPixel(src, 0, 0, 255, 0, 0, 255)
	setPixel(src, 1, 0, 1, 2, 3, 0)

	dst, _ := NewBuf(2, 1, FormatBGRA8)
	if err := dst.ConvertFrom(src); err != nil {
		t.Fatalf("ConvertFrom() error = %v", err)
	}

	want := []byte{0, 0, 255, 255, 3, 2, 1, 0}
	for i := range want {
		if dst.Data()[i] != want[i] {
			t.Fatalf("BGRA data = %v, want %v", dst.Data(), want)
		}
	}

	back := dst.Clone()
	same, _ := NewBuf(2, 1, FormatBGRA8)
	if err := same.ConvertFrom(back); err != nil {
		t.Fatalf("ConvertFrom(same format) error = %v", err)
	}
	if string(same.Data()) != string(dst.Data()) {
		t.Errorf("same-format copy = %v, want %v", same.Data(), dst.Data())
	}

	wrong, _ := NewBuf(3, 1, FormatBGRA8)
	if err := wrong.ConvertFrom(src); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("ConvertFrom(mismatched) error = %v, want ErrSizeMismatch", err)
	}
}

func TestBuf_Clone(t *testing.T) {
	buf, _ := NewBuf(2, 2, FormatRGBA8)
	setPixel(buf, 0, 0, 5, 6, 7, 8)

	c := buf.Clone()
	setPixel(buf, 0, 0, 0, 0, 0, 0)

	if r, _, _, _ := pixel(c, 0, 0); r != 5 {
		t.Errorf("Clone shares data with original: r = %d, want 5", r)
	}
}

func BenchmarkBuf_ConvertFrom(b *testing.B) {
	src, _ := NewBuf(512, 512, FormatRGBA8)
	dst, _ := NewBuf(512, 512, FormatBGRA8)
	b.SetBytes(int64(len(src.Data())))
	b.ResetTimer()
	for range b.N {
		_ = dst.ConvertFrom(src)
	}
}
