// Package gifsplit splits an animated GIF into fully composited frames.
//
// # Overview
//
// A GIF frame usually covers only a sub-rectangle of the logical screen,
// may be interlaced, and carries a disposal mode that tells the player how
// to modify the canvas before the next frame is drawn. gifsplit keeps the
// canvas state across frames and emits, for every input frame, a complete
// RGBA raster of the whole canvas that can be re-encoded on its own.
//
// # Quick Start
//
//	src, err := gifsource.Open("anim.gif")
//	if err != nil {
//	    return err
//	}
//	out, err := sink.NewDir("frames", sink.FormatPNG, sink.WithNamePrefix("T_"))
//	if err != nil {
//	    return err
//	}
//	n, err := gifsplit.Split(ctx, src.Frames(), out)
//
// # Canvas model
//
// The Compositor owns two canvas-sized buffers:
//   - the disposed canvas: what the canvas looks like after each frame's
//     disposal has been applied, ready for the next frame
//   - the last-valid canvas: the most recent opaque color computed at each
//     coordinate
//
// Both are (re)initialized to the background color when a frame with index 0
// arrives. Pixels a frame does not draw are filled according to [FillMode].
//
// # Pull-based pipeline
//
// [Compositor.Frames] turns an iter.Seq2 of [FrameDescriptor] values into an
// iter.Seq2 of [CompositedFrame] values. The source is consumed lazily and
// iteration stops at the first error; a partial frame is never yielded.
//
// # Packages
//
//   - gifsplit: the compositor, frame types and the Split driver
//   - gifsource: GIF decoding into FrameDescriptors
//   - sink: TGA, BMP, PNG, TIFF, APNG, raw and texture outputs
//   - cmd/gifsplit: command-line front end
package gifsplit

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
