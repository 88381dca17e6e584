package gifsplit

import "iter"

// GIF interlace passes: rows offset, offset+jump, offset+2*jump, ...
var (
	interlaceOffset = [4]int{0, 4, 2, 1}
	interlaceJump   = [4]int{8, 8, 4, 2}
)

// ScanRows yields every row in [0, height) exactly once, in plain top to
// bottom order or in GIF's four-pass interlace order.
func ScanRows(height int, interlaced bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		if !interlaced {
			for y := 0; y < height; y++ {
				if !yield(y) {
					return
				}
			}
			return
		}
		for pass := range interlaceOffset {
			for y := interlaceOffset[pass]; y < height; y += interlaceJump[pass] {
				if !yield(y) {
					return
				}
			}
		}
	}
}
