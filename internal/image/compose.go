package imagepkg

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

var (
	borderColor  = mustHex("#D4A5A5")
	bracketColor = mustHex("#8B7355")
	quoteShadow  = mustHex("#00000040")
	authorShadow = mustHex("#00000030")
	panelColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	glassColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 30}
)

// Compose draws the style's ornaments and then the laid-out text over a copy
// of canvas.
func Compose(canvas *image.NRGBA, style Style, palette Palette, layout TextLayout, quoteFace, authorFace font.Face) *image.NRGBA {
	b := canvas.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	s := scaleFor(b.Dx(), b.Dy())

	dc := gg.NewContextForImage(canvas)
	drawOrnament(dc, style.Ornament, palette, layout, w, h, s)

	authorColor := style.AuthorColor
	if style.AuthorAccent {
		authorColor = palette.At(0)
	}

	dc.SetFontFace(quoteFace)
	ascent := float64(quoteFace.Metrics().Ascent) / 64
	for _, line := range layout.Quote {
		switch style.Text {
		case TextShadow:
			drawShadowed(dc, line, style.QuoteColor, quoteShadow, math.Max(1, math.Round(3*s)))
		case TextGlow:
			drawGlowing(dc, line, style.QuoteColor, palette.At(0), glowRadius(s))
		case TextPanel:
			top := line.Y - ascent
			setColor(dc, panelColor)
			dc.DrawRectangle(line.X-20*s, top-10*s, line.Width+40*s, layout.Pitch+10*s)
			dc.Fill()
			drawPlain(dc, line, style.QuoteColor)
		default:
			drawPlain(dc, line, style.QuoteColor)
		}
	}

	if layout.HasAuthor {
		dc.SetFontFace(authorFace)
		line := layout.Author
		switch style.Text {
		case TextShadow:
			drawShadowed(dc, line, authorColor, authorShadow, math.Max(1, math.Round(2*s)))
		case TextGlow:
			drawGlowing(dc, line, authorColor, palette.At(1), glowRadius(s))
		default:
			drawPlain(dc, line, authorColor)
		}
	}

	if style.Ornament == OrnamentAccentRules {
		// closing rule below the author line
		y := layout.AuthorTop + 60*s
		setColor(dc, palette.At(0))
		dc.SetLineWidth(2 * s)
		dc.DrawLine(100*s, y, w-100*s, y)
		dc.Stroke()
	}

	return imaging.Clone(dc.Image())
}

func glowRadius(s float64) float64 {
	return math.Max(1, math.Round(2*s))
}

func drawOrnament(dc *gg.Context, o Ornament, palette Palette, layout TextLayout, w, h, s float64) {
	switch o {
	case OrnamentDoubleBorder:
		setColor(dc, borderColor)
		m := 60 * s
		dc.SetLineWidth(3 * s)
		dc.DrawRectangle(m, m, w-2*m, h-2*m)
		dc.Stroke()
		m += 15 * s
		dc.SetLineWidth(math.Max(1, s))
		dc.DrawRectangle(m, m, w-2*m, h-2*m)
		dc.Stroke()

	case OrnamentAccentCircle:
		setColor(dc, palette.At(0))
		dc.DrawCircle(100*s, 100*s, 200*s)
		dc.Fill()

	case OrnamentAccentBar:
		setColor(dc, palette.At(0))
		dc.DrawRectangle(0, 0, 20*s, h)
		dc.Fill()

	case OrnamentCornerBrackets:
		setColor(dc, bracketColor)
		dc.SetLineWidth(3 * s)
		in, size := 20*s, 60*s
		segments := [][4]float64{
			{in, in, size, in}, {in, in, in, size},
			{w - size, in, w - in, in}, {w - in, in, w - in, size},
			{in, h - in, size, h - in}, {in, h - size, in, h - in},
			{w - size, h - in, w - in, h - in}, {w - in, h - size, w - in, h - in},
		}
		for _, seg := range segments {
			dc.DrawLine(seg[0], seg[1], seg[2], seg[3])
			dc.Stroke()
		}

	case OrnamentAccentRules:
		y := h/2 - 100*s
		setColor(dc, palette.At(0))
		dc.SetLineWidth(2 * s)
		dc.DrawLine(100*s, y, w-100*s, y)
		dc.Stroke()

	case OrnamentGlassPanel:
		setColor(dc, glassColor)
		dc.DrawRoundedRectangle(100*s, 200*s, w-200*s, h-400*s, 30*s)
		dc.Fill()
	}
}

func drawPlain(dc *gg.Context, line TextLine, c color.NRGBA) {
	setColor(dc, c)
	dc.DrawString(line.Text, line.X, line.Y)
}

func drawShadowed(dc *gg.Context, line TextLine, c, shadow color.NRGBA, d float64) {
	setColor(dc, shadow)
	dc.DrawString(line.Text, line.X+d, line.Y+d)
	drawPlain(dc, line, c)
}

// drawGlowing strokes the line at eight offsets around its position in glow
// before drawing it in c.
func drawGlowing(dc *gg.Context, line TextLine, c, glow color.NRGBA, r float64) {
	setColor(dc, glow)
	for _, d := range [][2]float64{{-r, -r}, {0, -r}, {r, -r}, {-r, 0}, {r, 0}, {-r, r}, {0, r}, {r, r}} {
		dc.DrawString(line.Text, line.X+d[0], line.Y+d[1])
	}
	drawPlain(dc, line, c)
}
