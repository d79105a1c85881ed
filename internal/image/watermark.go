package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// WatermarkMode selects the watermark placement strategy.
type WatermarkMode string

const (
	ModeCorner     WatermarkMode = "corner"
	ModeSubtle     WatermarkMode = "subtle"
	ModeStripe     WatermarkMode = "stripe"
	ModeColorMatch WatermarkMode = "color-match"
)

const (
	watermarkPadding   = 30
	watermarkMinSize   = 32
	subtleOpacityCap   = 0.35
	colorMatchOpacity  = 0.5
	stripeWidthPercent = 0.12
	stripeMinWidth     = 160
	stripeStep         = 1.8
	stripeAngle        = -22.0
	haloSigma          = 10.0
	haloAlpha          = 0.92
)

// WatermarkModes lists the supported modes.
func WatermarkModes() []WatermarkMode {
	return []WatermarkMode{ModeCorner, ModeSubtle, ModeStripe, ModeColorMatch}
}

// WatermarkPositions lists the accepted corner positions.
func WatermarkPositions() []string {
	return []string{PositionBottomRight, PositionBottomLeft}
}

// ParseWatermarkMode maps s to a known mode; anything unrecognised is corner.
func ParseWatermarkMode(s string) WatermarkMode {
	m := WatermarkMode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	switch m {
	case ModeCorner, ModeSubtle, ModeStripe, ModeColorMatch:
		return m
	}
	return ModeCorner
}

// WatermarkOptions controls ApplyWatermark.
type WatermarkOptions struct {
	Mode        WatermarkMode
	Opacity     float64
	Blend       BlendMode
	Position    string
	SizePercent float64
	Halo        bool
}

// ApplyWatermark composites mark onto a copy of canvas. Color-match mode
// always uses opacity 0.5 whatever the caller asked for.
func ApplyWatermark(canvas *image.NRGBA, mark image.Image, opts WatermarkOptions) *image.NRGBA {
	if mark == nil {
		return canvas
	}
	b := canvas.Bounds()
	w, h := b.Dx(), b.Dy()
	m := imaging.Clone(mark)
	opacity := math.Max(0, math.Min(1, opts.Opacity))
	blend := opts.Blend
	if blend == "" {
		blend = BlendNormal
	}

	switch opts.Mode {
	case ModeColorMatch:
		m = tint(m, DominantColor(canvas))
		opacity = colorMatchOpacity
	case ModeSubtle:
		opacity = math.Min(opacity, subtleOpacityCap)
	case ModeStripe:
		return stripe(canvas, m, opacity, blend)
	}

	sp := opts.SizePercent
	if sp <= 0 {
		sp = 0.15
	}
	size := max(watermarkMinSize, int(float64(min(w, h))*sp))
	m = imaging.Fit(m, size, size, imaging.Lanczos)
	mb := m.Bounds()

	position := PositionBottomRight
	if strings.ToLower(strings.TrimSpace(opts.Position)) == PositionBottomLeft {
		position = PositionBottomLeft
	}
	pos := anchor(position, w, h, mb.Dx(), mb.Dy(), watermarkPadding)

	if opts.Halo {
		return Composite(halo(canvas, m, pos, opacity), m, pos, opacity, BlendNormal)
	}
	return Composite(canvas, m, pos, opacity, blend)
}

// DominantColor is the mean color of a 50×50 downsample of img.
func DominantColor(img image.Image) color.NRGBA {
	small := imaging.Resize(img, 50, 50, imaging.Linear)
	var r, g, b int
	n := 0
	for i := 0; i+3 < len(small.Pix); i += 4 {
		r += int(small.Pix[i])
		g += int(small.Pix[i+1])
		b += int(small.Pix[i+2])
		n++
	}
	if n == 0 {
		return color.NRGBA{R: 100, G: 100, B: 100, A: 0xff}
	}
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 0xff}
}

// tint averages every non-transparent pixel of m toward c.
func tint(m *image.NRGBA, c color.NRGBA) *image.NRGBA {
	for i := 0; i+3 < len(m.Pix); i += 4 {
		if m.Pix[i+3] == 0 {
			continue
		}
		m.Pix[i] = uint8((int(m.Pix[i]) + int(c.R)) / 2)
		m.Pix[i+1] = uint8((int(m.Pix[i+1]) + int(c.G)) / 2)
		m.Pix[i+2] = uint8((int(m.Pix[i+2]) + int(c.B)) / 2)
	}
	return m
}

func scaleAlpha(m *image.NRGBA, f float64) {
	for i := 3; i < len(m.Pix); i += 4 {
		m.Pix[i] = uint8(float64(m.Pix[i]) * f)
	}
}

// stripe tiles the mark over a diagonal-sized square, rotates the tile
// clockwise and composites its centered window over the canvas.
func stripe(canvas *image.NRGBA, m *image.NRGBA, opacity float64, blend BlendMode) *image.NRGBA {
	if opacity <= 0 {
		return imaging.Clone(canvas)
	}
	b := canvas.Bounds()
	w, h := b.Dx(), b.Dy()
	short := min(w, h)

	target := max(stripeMinWidth, int(float64(short)*stripeWidthPercent))
	if target > short/2 {
		target = max(1, short/2)
	}
	mw := m.Bounds().Dx()
	th := max(1, int(float64(m.Bounds().Dy())*float64(target)/float64(max(1, mw))))
	m = imaging.Resize(m, target, th, imaging.Lanczos)
	scaleAlpha(m, opacity)

	diag := int(math.Hypot(float64(w), float64(h)))
	tile := image.NewNRGBA(image.Rect(0, 0, diag, diag))
	stepX := max(1, int(float64(target)*stripeStep))
	stepY := max(1, int(float64(th)*stripeStep))
	for y := -th; y < diag+th; y += stepY {
		for x := -target; x < diag+target; x += stepX {
			blendInto(tile, m, image.Pt(x, y), 1, BlendNormal)
		}
	}

	rotated := imaging.Rotate(tile, stripeAngle, color.Transparent)
	rb := rotated.Bounds()
	left := max(0, (rb.Dx()-w)/2)
	top := max(0, (rb.Dy()-h)/2)
	window := imaging.Crop(rotated, image.Rect(left, top, left+w, top+h))
	return Composite(canvas, window, image.Pt(0, 0), 1, blend)
}

// halo screens a blurred, slightly transparent copy of m under its final
// position.
func halo(canvas *image.NRGBA, m *image.NRGBA, pos image.Point, opacity float64) *image.NRGBA {
	if opacity <= 0 {
		return canvas
	}
	glow := imaging.Clone(m)
	scaleAlpha(glow, haloAlpha)
	pad := int(3 * haloSigma)
	gb := glow.Bounds()
	padded := imaging.New(gb.Dx()+2*pad, gb.Dy()+2*pad, color.Transparent)
	padded = imaging.Paste(padded, glow, image.Pt(pad, pad))
	blurred := imaging.Blur(padded, haloSigma)
	return Composite(canvas, blurred, pos.Sub(image.Pt(pad, pad)), 1, BlendScreen)
}

// WatermarkLibrary serves watermark assets from a directory. Decoded files
// are cached by path.
type WatermarkLibrary struct {
	dir   string
	cache sync.Map // path -> image.Image
	log   logrus.FieldLogger
}

// NewWatermarkLibrary serves *.png files found in dir.
func NewWatermarkLibrary(dir string, log logrus.FieldLogger) *WatermarkLibrary {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WatermarkLibrary{dir: dir, log: log}
}

// Dir is the directory assets are read from.
func (l *WatermarkLibrary) Dir() string { return l.dir }

// Files lists the watermark file names in sorted order.
func (l *WatermarkLibrary) Files() []string {
	if l.dir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(l.dir, "*.png"))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, p := range matches {
		names = append(names, filepath.Base(p))
	}
	sort.Strings(names)
	return names
}

// Select picks the watermark for one render: file when it names an asset
// inside the directory, else a QR code of link when set, else a seeded pick
// among the directory's files. ok is false when nothing is available.
func (l *WatermarkLibrary) Select(file, link string, rng *rand.Rand) (mark image.Image, ok bool) {
	if file = strings.TrimSpace(file); file != "" {
		p, err := l.resolve(file)
		if err != nil {
			l.log.WithError(err).WithField("file", file).Warn("watermark rejected")
		} else {
			img, err := l.open(p)
			if err == nil {
				return img, true
			}
			l.log.WithError(err).WithField("file", file).Warn("watermark unreadable")
		}
	}

	if link = strings.TrimSpace(link); link != "" {
		img, err := GenerateQRImage(link, qrSize)
		if err == nil {
			return img, true
		}
		l.log.WithError(err).Warn("qr watermark failed")
	}

	files := l.Files()
	if len(files) == 0 {
		l.log.WithField("dir", l.dir).Warn("no watermark assets, skipping watermark")
		return nil, false
	}
	name := files[rng.Intn(len(files))]
	img, err := l.open(filepath.Join(l.dir, name))
	if err != nil {
		l.log.WithError(err).WithField("file", name).Warn("watermark unreadable")
		return nil, false
	}
	return img, true
}

// resolve maps name to a file inside the library directory, rejecting paths
// that escape it.
func (l *WatermarkLibrary) resolve(name string) (string, error) {
	if l.dir == "" {
		return "", fmt.Errorf("no watermark directory")
	}
	root, err := filepath.Abs(l.dir)
	if err != nil {
		return "", err
	}
	p := filepath.Join(root, filepath.Clean(name))
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("watermark %q is outside %s", name, l.dir)
	}
	fi, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", fmt.Errorf("watermark %q is a directory", name)
	}
	return p, nil
}

func (l *WatermarkLibrary) open(path string) (image.Image, error) {
	if img, ok := l.cache.Load(path); ok {
		return img.(image.Image), nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watermark: %w", err)
	}
	actual, _ := l.cache.LoadOrStore(path, img)
	return actual.(image.Image), nil
}
