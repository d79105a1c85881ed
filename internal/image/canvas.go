package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// referenceSize is the edge length the pixel constants of the styles were
// tuned for; other canvas sizes scale them by scaleFor.
const referenceSize = 1080.0

// ParseHex parses "#RRGGBB" or "#RRGGBBAA".
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(s) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func mustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func lerp(a, b uint8, t float64) uint8 {
	return clamp8(float64(a)*(1-t) + float64(b)*t)
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// scaleFor maps reference pixel constants onto a canvas of the given size.
func scaleFor(width, height int) float64 {
	m := width
	if height < m {
		m = height
	}
	return float64(m) / referenceSize
}

func scaled(v int, s float64) int {
	out := int(math.Round(float64(v) * s))
	if v > 0 && out < 1 {
		return 1
	}
	return out
}

// setColor sets a non-premultiplied color on a gg context.
func setColor(dc *gg.Context, c color.NRGBA) {
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

// drawLayer renders fn onto a transparent layer the size of base and
// alpha-composites it over base. sigma > 0 blurs the layer first.
func drawLayer(base *image.NRGBA, sigma float64, fn func(dc *gg.Context)) *image.NRGBA {
	b := base.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	fn(dc)
	layer := imaging.Clone(dc.Image())
	if sigma > 0 {
		layer = imaging.Blur(layer, sigma)
	}
	return imaging.Overlay(base, layer, image.Pt(0, 0), 1.0)
}

// drawOnto draws fn directly over a copy of base.
func drawOnto(base *image.NRGBA, fn func(dc *gg.Context)) *image.NRGBA {
	dc := gg.NewContextForImage(base)
	fn(dc)
	return imaging.Clone(dc.Image())
}
