package imagepkg

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

const (
	splitAngleDegrees = 25.0
	shapeCount        = 8
	leafCount         = 5
	blobCount         = 50
	starCount         = 300
	paperSpeckles     = 2000
)

// RenderBackground paints the base canvas of style. All randomness is drawn
// from rng, so equal seeds give equal backgrounds.
func RenderBackground(style Style, palette Palette, width, height int, rng *rand.Rand) *image.NRGBA {
	s := scaleFor(width, height)
	base := baseColor(style, palette)

	var canvas *image.NRGBA
	switch style.Background {
	case BackgroundGradient:
		canvas = Gradient(width, height, palette)
	case BackgroundDiagonalSplit:
		canvas = DiagonalSplit(width, height, palette.At(0), palette.At(1), splitAngleDegrees)
	case BackgroundShapes:
		canvas = scatterShapes(imaging.New(width, height, base), palette, rng, s)
	case BackgroundPaper:
		canvas = paperTexture(imaging.New(width, height, base), rng)
	case BackgroundWatercolor:
		canvas = watercolor(imaging.New(width, height, base), palette, rng, s)
	case BackgroundStarfield:
		canvas = starfield(imaging.New(width, height, base), palette, rng, s)
	case BackgroundGlowRings:
		canvas = glowRings(width, height, palette, s)
	default:
		canvas = imaging.New(width, height, base)
	}

	switch style.Pattern {
	case PatternLeaves:
		canvas = leaves(canvas, rng, s)
	case PatternWaves:
		canvas = waves(canvas, s)
	case PatternRuledLines:
		canvas = ruledLines(canvas, s)
	}
	return canvas
}

func baseColor(style Style, palette Palette) color.NRGBA {
	if style.Base.A != 0 {
		return style.Base
	}
	return palette.At(0)
}

// Gradient paints a vertical gradient through colors. For scanline y the
// ratio is t = y/height; with n colors the segment is floor(t*(n-1)).
func Gradient(width, height int, colors Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		c := gradientColor(colors, float64(y)/float64(height))
		fillRow(img, y, 0, width, c)
	}
	return img
}

func gradientColor(colors Palette, t float64) color.NRGBA {
	n := len(colors)
	switch n {
	case 0:
		return color.NRGBA{A: 0xff}
	case 1:
		return colors[0]
	}
	pos := t * float64(n-1)
	idx := int(math.Floor(pos))
	if idx > n-1 {
		idx = n - 1
	}
	local := pos - float64(idx)
	next := idx + 1
	if next > n-1 {
		next = n - 1
	}
	a, b := colors[idx], colors[next]
	return color.NRGBA{
		R: lerp(a.R, b.R, local),
		G: lerp(a.G, b.G, local),
		B: lerp(a.B, b.B, local),
		A: 0xff,
	}
}

// DiagonalSplit paints left of x = width*0.3 + y*tan(angle) with left and the
// rest with right.
func DiagonalSplit(width, height int, left, right color.NRGBA, angleDegrees float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	slope := math.Tan(angleDegrees * math.Pi / 180)
	for y := 0; y < height; y++ {
		split := int(float64(width)*0.3 + float64(y)*slope)
		if split < 0 {
			split = 0
		}
		if split > width {
			split = width
		}
		fillRow(img, y, 0, split, left)
		fillRow(img, y, split, width, right)
	}
	return img
}

func fillRow(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	off := y * img.Stride
	for x := x0; x < x1; x++ {
		i := off + x*4
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}

func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func scatterShapes(canvas *image.NRGBA, palette Palette, rng *rand.Rand, s float64) *image.NRGBA {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	return drawLayer(canvas, 0, func(dc *gg.Context) {
		for i := 0; i < shapeCount; i++ {
			c := palette.At(rng.Intn(max(1, len(palette))))
			kind := rng.Intn(3)
			x := float64(rng.Intn(w + 1))
			y := float64(rng.Intn(h + 1))
			size := float64(scaled(between(rng, 100, 300), s))

			setColor(dc, withAlpha(c, 30))
			switch kind {
			case 0:
				dc.DrawEllipse(x+size/2, y+size/2, size/2, size/2)
			case 1:
				dc.DrawRectangle(x, y, size, size)
			default:
				dc.MoveTo(x, y+size)
				dc.LineTo(x+size/2, y)
				dc.LineTo(x+size, y+size)
				dc.ClosePath()
			}
			dc.Fill()
		}
	})
}

// paperTexture jitters the brightness of scattered pixels for an aged look.
func paperTexture(canvas *image.NRGBA, rng *rand.Rand) *image.NRGBA {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	n := int(float64(paperSpeckles) * float64(w*h) / (referenceSize * referenceSize))
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		x := rng.Intn(w)
		y := rng.Intn(h)
		d := float64(between(rng, -20, 20))
		p := canvas.PixOffset(x, y)
		for c := 0; c < 3; c++ {
			canvas.Pix[p+c] = clamp8(float64(canvas.Pix[p+c]) + d)
		}
	}
	return canvas
}

func watercolor(canvas *image.NRGBA, palette Palette, rng *rand.Rand, s float64) *image.NRGBA {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	margin := scaled(100, s)
	return drawLayer(canvas, 40*s, func(dc *gg.Context) {
		for i := 0; i < blobCount; i++ {
			c := palette.At(rng.Intn(2))
			x := float64(between(rng, -margin, w+margin))
			y := float64(between(rng, -margin, h+margin))
			size := float64(scaled(between(rng, 100, 400), s))
			alpha := uint8(between(rng, 10, 40))
			setColor(dc, withAlpha(c, alpha))
			dc.DrawEllipse(x+size/2, y+size/2, size/2, size/2)
			dc.Fill()
		}
	})
}

func starfield(canvas *image.NRGBA, palette Palette, rng *rand.Rand, s float64) *image.NRGBA {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	canvas = drawOnto(canvas, func(dc *gg.Context) {
		for i := 0; i < starCount; i++ {
			x := float64(rng.Intn(w + 1))
			y := float64(rng.Intn(h + 1))
			size := float64(between(rng, 1, 3))
			v := uint8(between(rng, 150, 255))
			dc.SetRGB255(int(v), int(v), int(v))
			dc.DrawEllipse(x+size/2, y+size/2, size/2, size/2)
			dc.Fill()
		}
	})

	reach := scaled(200, s)
	return drawLayer(canvas, 60*s, func(dc *gg.Context) {
		for _, c := range palette {
			x0 := float64(between(rng, -reach, w))
			y0 := float64(between(rng, -reach, h))
			x1 := float64(between(rng, 0, w+reach))
			y1 := float64(between(rng, 0, h+reach))
			if x1 < x0 {
				x0, x1 = x1, x0
			}
			if y1 < y0 {
				y0, y1 = y1, y0
			}
			setColor(dc, withAlpha(c, 30))
			dc.DrawEllipse((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2)
			dc.Fill()
		}
	})
}

// glowRings paints a dim two-accent gradient and two blurred ring outlines in
// the top-left corner.
func glowRings(width, height int, palette Palette, s float64) *image.NRGBA {
	a1, a2 := palette.At(0), palette.At(1)
	dim := func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: c.R / 10, G: c.G / 10, B: c.B / 10, A: 0xff}
	}
	canvas := Gradient(width, height, Palette{dim(a1), dim(a2)})

	cx, cy := 180*s, 180*s
	return drawLayer(canvas, 6*s, func(dc *gg.Context) {
		setColor(dc, a1)
		dc.SetLineWidth(10 * s)
		dc.DrawCircle(cx, cy, 340*s)
		dc.Stroke()

		setColor(dc, a2)
		dc.SetLineWidth(6 * s)
		dc.DrawCircle(cx, cy, 390*s)
		dc.Stroke()
	})
}

func leaves(canvas *image.NRGBA, rng *rand.Rand, s float64) *image.NRGBA {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	rx, ry := 15*s, 25*s
	return drawLayer(canvas, 0, func(dc *gg.Context) {
		dc.SetRGBA255(255, 255, 255, 15)
		for i := 0; i < leafCount; i++ {
			x := float64(rng.Intn(w + 1))
			y := float64(rng.Intn(h + 1))
			dc.DrawEllipse(x+rx, y+ry, rx, ry)
			dc.Fill()
		}
	})
}

func waves(canvas *image.NRGBA, s float64) *image.NRGBA {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	step := scaled(100, s)
	return drawLayer(canvas, 0, func(dc *gg.Context) {
		dc.SetRGBA255(255, 255, 255, 20)
		dc.SetLineWidth(3 * s)
		for y := 0; y < h; y += step {
			dc.NewSubPath()
			dc.DrawEllipticalArc(float64(w)/2, float64(y), float64(w)/2, 50*s, 0, math.Pi)
			dc.Stroke()
		}
	})
}

func ruledLines(canvas *image.NRGBA, s float64) *image.NRGBA {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	step := scaled(40, s)
	left := 20 * s
	return drawOnto(canvas, func(dc *gg.Context) {
		setColor(dc, mustHex("#F0F0F0"))
		dc.SetLineWidth(1)
		for y := 0; y < h; y += step {
			dc.DrawLine(left, float64(y)+0.5, float64(w), float64(y)+0.5)
			dc.Stroke()
		}
	})
}
