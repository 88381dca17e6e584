package sink

import (
	"image"

	"golang.org/x/image/draw"
)

// Downscale returns img scaled with Catmull-Rom so that neither side exceeds
// maxDim, or img itself when it already fits or maxDim <= 0.
//
// GIF pixels are either opaque or fully transparent, so the filtered alpha is
// snapped back to 0 or 255. Transparent pixels are zeroed.
func Downscale(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	snapAlpha(dst.Pix)
	return dst
}

func snapAlpha(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		if pix[i+3] >= 0x80 {
			pix[i+3] = 0xFF
			continue
		}
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
	}
}
