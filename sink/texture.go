package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gifsplit"
	intImage "github.com/gogpu/gifsplit/internal/image"
)

// TextureUpload is everything an engine needs to create a sampled 2D texture
// for one frame and upload its pixels.
type TextureUpload struct {
	// Name is the asset name, e.g. "T_spinner_3".
	Name string

	// Index is the source frame index.
	Index int

	Descriptor gputypes.TextureDescriptor

	// Destination of the upload: mip 0, origin (0, 0, 0).
	Destination gputypes.ImageCopyTexture

	Layout gputypes.TextureDataLayout

	// Data holds Layout.BytesPerRow * Descriptor.Size.Height bytes.
	Data []byte
}

// textureFormat maps a channel order to the matching unorm texture format.
func textureFormat(order ChannelOrder) (gputypes.TextureFormat, error) {
	switch order {
	case ChannelRGBA:
		return gputypes.TextureFormatRGBA8Unorm, nil
	case ChannelBGRA:
		return gputypes.TextureFormatBGRA8Unorm, nil
	default:
		return gputypes.TextureFormatUndefined, fmt.Errorf("sink: no texture format for %v", order)
	}
}

// defaultTextureDescriptor returns a descriptor for a sampled, uploadable
// 2D texture without mipmaps.
func defaultTextureDescriptor(label string, width, height uint32, format gputypes.TextureFormat) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         label,
		Size:          gputypes.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

// Textures is an in-memory registry of texture uploads, one per frame.
//
// Textures is safe for concurrent use.
type Textures struct {
	mu      sync.Mutex
	opts    options
	namer   Namer
	format  gputypes.TextureFormat
	uploads []TextureUpload
	closed  bool
}

// NewTextures returns an empty registry. WithChannelOrder selects
// RGBA8Unorm (default) or BGRA8Unorm.
func NewTextures(opts ...Option) (*Textures, error) {
	o := applyOptions(opts)
	format, err := textureFormat(o.order)
	if err != nil {
		return nil, err
	}
	return &Textures{
		opts:   o,
		namer:  NewNamer(o.prefix, o.name),
		format: format,
	}, nil
}

// WriteFrame registers a texture upload for f.
func (t *Textures) WriteFrame(ctx context.Context, f *gifsplit.CompositedFrame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img := Downscale(f.Image(), t.opts.maxDim)
	w, h := img.Rect.Dx(), img.Rect.Dy()
	src, err := intImage.FromRaw(img.Pix, w, h, intImage.FormatRGBA8, img.Stride)
	if err != nil {
		return err
	}
	dst, err := intImage.NewBuf(w, h, t.opts.order)
	if err != nil {
		return err
	}
	if err := dst.ConvertFrom(src); err != nil {
		return err
	}

	name := t.namer.Name(f.Index)
	up := TextureUpload{
		Name:       name,
		Index:      f.Index,
		Descriptor: defaultTextureDescriptor(name, uint32(w), uint32(h), t.format),
		Destination: gputypes.ImageCopyTexture{
			MipLevel: 0,
			Origin:   gputypes.Origin3D{X: 0, Y: 0, Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		Layout: gputypes.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(dst.Stride()),
			RowsPerImage: uint32(h),
		},
		Data: dst.Data(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.uploads = append(t.uploads, up)
	return nil
}

// Uploads returns a copy of the registered uploads in frame order.
func (t *Textures) Uploads() []TextureUpload {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TextureUpload(nil), t.uploads...)
}

// Lookup returns the upload registered under name.
func (t *Textures) Lookup(name string) (TextureUpload, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, up := range t.uploads {
		if up.Name == name {
			return up, true
		}
	}
	return TextureUpload{}, false
}

// Close stops accepting frames. Registered uploads stay readable.
func (t *Textures) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
