package sink

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SanitizeName turns an arbitrary name into an ASCII identifier usable as an
// asset or file name. Accents are stripped ("é" becomes "e"), every other
// character outside [A-Za-z0-9_-] becomes '_'. An empty result becomes "frame".
func SanitizeName(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
				return r
			default:
				return '_'
			}
		}),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = ""
	}
	out = strings.Trim(out, "_")
	if out == "" {
		return "frame"
	}
	return out
}

// Namer derives per-frame names: <Prefix><Base>_<index>.
type Namer struct {
	Prefix string
	Base   string
}

// NewNamer returns a Namer with a sanitized base name.
func NewNamer(prefix, base string) Namer {
	return Namer{Prefix: prefix, Base: SanitizeName(base)}
}

// Name returns the name of frame index.
func (n Namer) Name(index int) string {
	return fmt.Sprintf("%s%s_%d", n.Prefix, n.Base, index)
}
