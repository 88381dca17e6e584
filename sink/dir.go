package sink

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/gifsplit"
	intImage "github.com/gogpu/gifsplit/internal/image"
	"github.com/gogpu/gifsplit/internal/parallel"
)

// Dir writes every frame to its own file in a directory.
//
// Files are named by a Namer built from WithNamePrefix and WithBaseName,
// e.g. "T_spinner_0.tga".
type Dir struct {
	dir     string
	format  Format
	opts    options
	namer   Namer
	pool    *intImage.Pool
	zenc    *zstd.Encoder
	workers *parallel.WorkerPool
	log     *slog.Logger
	closed  bool

	mu    sync.Mutex
	files []written
}

type written struct {
	index int
	path  string
}

// NewDir creates dir if needed and returns a sink writing format files into it.
func NewDir(dir string, format Format, opts ...Option) (*Dir, error) {
	if int(format) >= len(formatNames) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	o := applyOptions(opts)
	if !o.order.IsValid() {
		return nil, fmt.Errorf("sink: invalid channel order %v", o.order)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sink: %w", err)
	}

	d := &Dir{
		dir:    dir,
		format: format,
		opts:   o,
		namer:  NewNamer(o.prefix, o.name),
		pool:   intImage.NewPool(o.poolBucket),
		log:    gifsplit.Logger().With("sink", format.String(), "dir", dir),
	}
	if format == FormatRaw && o.compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("sink: zstd: %w", err)
		}
		d.zenc = enc
	}
	if o.workers > 1 {
		d.workers = parallel.NewWorkerPool(o.workers)
		d.log.Debug("sink: encoding in parallel", "workers", d.workers.Workers())
	}
	return d, nil
}

// Ext returns the file extension used for frames, including the dot.
func (d *Dir) Ext() string {
	if d.format != FormatRaw {
		return "." + d.format.String()
	}
	ext := ".rgba"
	if d.opts.order == ChannelBGRA {
		ext = ".bgra"
	}
	if d.zenc != nil {
		ext += ".zst"
	}
	return ext
}

// Files returns the paths written so far, in frame order.
func (d *Dir) Files() []string {
	d.mu.Lock()
	done := slices.Clone(d.files)
	d.mu.Unlock()

	slices.SortFunc(done, func(a, b written) int { return a.index - b.index })
	paths := make([]string, len(done))
	for i, w := range done {
		paths[i] = w.path
	}
	return paths
}

// WriteFrame encodes f into a new file. With WithWorkers the sink keeps
// f's pixels until the file is written.
func (d *Dir) WriteFrame(ctx context.Context, f *gifsplit.CompositedFrame) error {
	if d.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if d.workers == nil {
		return d.write(f)
	}
	if err := d.workers.Err(); err != nil {
		return err
	}
	return d.workers.Submit(func() error { return d.write(f) })
}

func (d *Dir) write(f *gifsplit.CompositedFrame) error {
	img := Downscale(f.Image(), d.opts.maxDim)
	path := filepath.Join(d.dir, d.namer.Name(f.Index)+d.Ext())

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	w := bufio.NewWriter(file)
	if err := d.encode(w, img); err != nil {
		file.Close()
		return fmt.Errorf("sink: encode %s: %w", filepath.Base(path), err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("sink: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("sink: %w", err)
	}

	d.mu.Lock()
	d.files = append(d.files, written{index: f.Index, path: path})
	d.mu.Unlock()
	d.log.Debug("sink: wrote frame", "index", f.Index, "path", path,
		"width", img.Rect.Dx(), "height", img.Rect.Dy())
	return nil
}

func (d *Dir) encode(w io.Writer, img *image.NRGBA) error {
	switch d.format {
	case FormatTGA:
		return d.withOrder(img, intImage.FormatBGRA8, func(buf *intImage.Buf) error {
			return EncodeTGA(w, buf)
		})
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatPNG:
		return d.withOrder(img, intImage.FormatRGBA8, func(buf *intImage.Buf) error {
			return buf.EncodePNG(w)
		})
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatRaw:
		return d.withOrder(img, d.opts.order, func(buf *intImage.Buf) error {
			return d.writeRaw(w, buf)
		})
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, d.format)
	}
}

// withOrder hands fn a view of img in the requested channel order. RGBA8
// shares img's memory; other orders use a pooled scratch buffer.
func (d *Dir) withOrder(img *image.NRGBA, order ChannelOrder, fn func(*intImage.Buf) error) error {
	src, err := intImage.FromRaw(img.Pix, img.Rect.Dx(), img.Rect.Dy(), intImage.FormatRGBA8, img.Stride)
	if err != nil {
		return err
	}
	if order == intImage.FormatRGBA8 {
		return fn(src)
	}

	dst := d.pool.Get(src.Width(), src.Height(), order)
	if dst == nil {
		return fmt.Errorf("sink: invalid channel order %v", order)
	}
	defer d.pool.Put(dst)
	if err := dst.ConvertFrom(src); err != nil {
		return err
	}
	return fn(dst)
}

func (d *Dir) writeRaw(w io.Writer, buf *intImage.Buf) error {
	data := buf.Data()
	if buf.Stride() != buf.Format().RowBytes(buf.Width()) {
		data = buf.Clone().Data()
	}
	if d.zenc != nil {
		data = d.zenc.EncodeAll(data, make([]byte, 0, len(data)/4))
	}
	_, err := w.Write(data)
	return err
}

// Close waits for queued frames and releases the sink. Files already
// written are kept. It returns the first deferred encode error.
func (d *Dir) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	var err error
	if d.workers != nil {
		err = d.workers.Close()
	}
	if d.zenc != nil {
		if err := d.zenc.Close(); err != nil {
			d.log.Warn("sink: zstd close", "err", err)
		}
	}
	d.log.Info("sink: closed", "frames", len(d.Files()))
	return err
}

// DecodeRaw returns the pixel bytes of a raw frame file's contents,
// decompressing them when compressed is true.
func DecodeRaw(data []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("sink: zstd: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("sink: zstd: %w", err)
	}
	return out, nil
}
