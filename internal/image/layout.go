package imagepkg

import (
	"math"
	"strings"

	"golang.org/x/image/font"
)

// linePitch is the quote line spacing as a multiple of the font size.
const linePitch = 1.35

// MeasureWidth returns the advance width of s in pixels. It is the only width
// function used for both wrapping and centering.
func MeasureWidth(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// Wrap breaks text into lines no wider than maxWidth, greedily. A single word
// wider than maxWidth is placed on a line of its own.
func Wrap(text string, face font.Face, maxWidth float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		if current == "" {
			current = word
			continue
		}
		candidate := current + " " + word
		if MeasureWidth(face, candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// TextLine is one positioned line. X is the left edge, Y the baseline.
type TextLine struct {
	Text  string
	X     float64
	Y     float64
	Width float64
}

// TextLayout is the placement of a quote block and its author line.
type TextLayout struct {
	Quote     []TextLine
	Author    TextLine
	HasAuthor bool
	Pitch     float64
	LineTop   float64 // top of the first quote line
	AuthorTop float64 // top of the author line, or where it would start
}

// LayoutText wraps quote inside the style's inset and centers the block
// vertically on the canvas; the author line sits AuthorGap below the block.
func LayoutText(quote, author string, style Style, quoteFace, authorFace font.Face, quoteSize float64, width, height int) TextLayout {
	s := scaleFor(width, height)
	maxWidth := float64(width) - float64(style.TextInset)*s
	if maxWidth < 1 {
		maxWidth = 1
	}
	offsetX := float64(style.OffsetX) * s

	lines := Wrap(quote, quoteFace, maxWidth)
	pitch := math.Round(quoteSize * linePitch)
	top := float64(height)/2 - float64(len(lines))*pitch/2
	ascent := float64(quoteFace.Metrics().Ascent) / 64

	authorTop := top + float64(len(lines))*pitch + float64(style.AuthorGap)*s
	out := TextLayout{Pitch: pitch, LineTop: top, AuthorTop: authorTop}
	for i, line := range lines {
		w := MeasureWidth(quoteFace, line)
		out.Quote = append(out.Quote, TextLine{
			Text:  line,
			X:     math.Round((float64(width)-w)/2 + offsetX),
			Y:     math.Round(top + float64(i)*pitch + ascent),
			Width: w,
		})
	}

	if strings.TrimSpace(author) == "" {
		return out
	}
	text := style.AuthorText(author)
	w := MeasureWidth(authorFace, text)
	out.HasAuthor = true
	out.Author = TextLine{
		Text:  text,
		X:     math.Round((float64(width)-w)/2 + offsetX),
		Y:     math.Round(authorTop + float64(authorFace.Metrics().Ascent)/64),
		Width: w,
	}
	return out
}
