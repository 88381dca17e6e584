// Command gifsplit splits an animated GIF into fully composited frames.
//
// Usage:
//
//	gifsplit -in spinner.gif -out frames -format tga
//	gifsplit -in spinner.gif -out frames -format apng
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gogpu/gifsplit"
	"github.com/gogpu/gifsplit/gifsource"
	"github.com/gogpu/gifsplit/sink"
)

func main() {
	var (
		input    = flag.String("in", "", "input GIF file")
		output   = flag.String("out", ".", "output directory")
		format   = flag.String("format", "tga", "output format: tga, bmp, png, tiff, raw or apng")
		fill     = flag.String("fill", "carry", "fill for undrawn pixels: carry or disposed")
		maxDim   = flag.Int("max", 0, "downscale frames larger than this (0 keeps size)")
		prefix   = flag.String("prefix", "T_", "frame name prefix")
		order    = flag.String("order", "rgba", "channel order of raw frames: rgba or bgra")
		compress = flag.Bool("zstd", false, "zstd-compress raw frames")
		workers  = flag.Int("workers", 0, "encode frames on this many goroutines")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		gifsplit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	mode, err := gifsplit.ParseFillMode(*fill)
	if err != nil {
		log.Fatalf("Invalid -fill: %v", err)
	}
	channels, err := sink.ParseChannelOrder(*order)
	if err != nil {
		log.Fatalf("Invalid -order: %v", err)
	}

	src, err := gifsource.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open: %v", err)
	}
	cfg := src.Config()

	name := strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input))
	opts := []sink.Option{
		sink.WithNamePrefix(*prefix),
		sink.WithBaseName(name),
		sink.WithMaxDimension(*maxDim),
		sink.WithCompression(*compress),
		sink.WithLoopCount(apngLoops(cfg.LoopCount)),
		sink.WithWorkers(*workers),
		sink.WithChannelOrder(channels),
	}

	out, err := openSink(*format, *output, name, opts)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := gifsplit.Split(ctx, src.Frames(), out, gifsplit.WithFillMode(mode))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("Split failed after %d frames: %v", n, err)
	}

	log.Printf("Wrote %d frames (%dx%d) to %s\n", n, cfg.Width, cfg.Height, *output)
}

// openSink returns the per-frame directory sink, or a single APNG file
// named after the input.
func openSink(format, dir, name string, opts []sink.Option) (sink.Sink, error) {
	if strings.EqualFold(format, "apng") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.Create(filepath.Join(dir, sink.SanitizeName(name)+".png"))
		if err != nil {
			return nil, err
		}
		return &apngFile{APNG: sink.NewAPNG(f, opts...), f: f}, nil
	}

	ff, err := sink.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return sink.NewDir(dir, ff, opts...)
}

// apngFile closes the underlying file after the animation is encoded.
type apngFile struct {
	*sink.APNG
	f *os.File
}

func (a *apngFile) Close() error {
	err := a.APNG.Close()
	if cerr := a.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// apngLoops maps a GIF loop count (0 forever, -1 once, n repeats) to the
// APNG num_plays field (0 forever, n total plays).
func apngLoops(gifLoops int) int {
	switch {
	case gifLoops < 0:
		return 1
	case gifLoops == 0:
		return 0
	default:
		return gifLoops + 1
	}
}
