package imagepkg

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// BlendMode selects how watermark pixels combine with the canvas.
type BlendMode string

const (
	BlendNormal   BlendMode = "normal"
	BlendMultiply BlendMode = "multiply"
	BlendScreen   BlendMode = "screen"
	BlendOverlay  BlendMode = "overlay"
)

// blendFuncs combine a backdrop channel d with a source channel s, both in
// [0, 255].
var blendFuncs = map[BlendMode]func(d, s float64) float64{
	BlendNormal: func(d, s float64) float64 { return s },
	BlendMultiply: func(d, s float64) float64 {
		return d * s / 255
	},
	BlendScreen: func(d, s float64) float64 {
		return 255 - (255-d)*(255-s)/255
	},
	BlendOverlay: func(d, s float64) float64 {
		if d < 128 {
			return 2 * d * s / 255
		}
		return 255 - 2*(255-d)*(255-s)/255
	},
}

// BlendModes lists the supported modes.
func BlendModes() []BlendMode {
	return []BlendMode{BlendNormal, BlendMultiply, BlendScreen, BlendOverlay}
}

// ParseBlendMode maps s to a known mode; anything unrecognised is normal.
func ParseBlendMode(s string) BlendMode {
	m := BlendMode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := blendFuncs[m]; ok {
		return m
	}
	return BlendNormal
}

// Composite returns a copy of dst with src blended in at pos. Source alpha is
// multiplied by opacity; pixels whose effective alpha is zero are left
// untouched, so opacity 0 returns an identical copy.
func Composite(dst *image.NRGBA, src image.Image, pos image.Point, opacity float64, mode BlendMode) *image.NRGBA {
	out := imaging.Clone(dst)
	if src == nil || opacity <= 0 {
		return out
	}
	blendInto(out, imaging.Clone(src), pos, opacity, mode)
	return out
}

// blendInto composites src over dst in place. The blended color is mixed with
// the source by the backdrop alpha and the result is source-over composited.
func blendInto(dst, src *image.NRGBA, pos image.Point, opacity float64, mode BlendMode) {
	if opacity > 1 {
		opacity = 1
	}
	fn, ok := blendFuncs[mode]
	if !ok {
		fn = blendFuncs[BlendNormal]
	}
	sb := src.Bounds()
	r := image.Rect(pos.X, pos.Y, pos.X+sb.Dx(), pos.Y+sb.Dy()).Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(sb.Min.X+x-pos.X, sb.Min.Y+y-pos.Y)
			a := float64(src.Pix[si+3]) / 255 * opacity
			if a == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			da := float64(dst.Pix[di+3]) / 255
			outA := a + da*(1-a)
			for c := 0; c < 3; c++ {
				s := float64(src.Pix[si+c])
				d := float64(dst.Pix[di+c])
				mixed := (1-da)*s + da*fn(d, s)
				dst.Pix[di+c] = clamp8((a*mixed + da*(1-a)*d) / outA)
			}
			dst.Pix[di+3] = clamp8(outA * 255)
		}
	}
}
