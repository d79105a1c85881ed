package imagepkg

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/youruser/quotecard/internal/util"
)

// DefaultAvatarTimeout bounds remote avatar downloads.
const DefaultAvatarTimeout = 6 * time.Second

// Upper bounds applied by Normalize.
const (
	MaxDimension = 8192
	MaxFontSize  = 400.0
)

// QuoteRecord is the text to render.
type QuoteRecord struct {
	Quote     string `json:"quote"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	AvatarRef string `json:"avatar"` // local path or http(s) URL; empty for none
}

// WatermarkConfig selects and places the watermark.
type WatermarkConfig struct {
	Enabled     bool    `json:"enabled"`
	Mode        string  `json:"mode"`
	Opacity     float64 `json:"opacity"`
	Blend       string  `json:"blend"`
	Position    string  `json:"position"`
	SizePercent float64 `json:"size_percent"`
	File        string  `json:"file"`
	Link        string  `json:"link"`
}

// AvatarConfig places the avatar badge.
type AvatarConfig struct {
	Position    string  `json:"position"`
	Opacity     float64 `json:"opacity"`
	SizePercent float64 `json:"size_percent"`
}

// RenderConfig carries every per-render choice. It is passed by value;
// callers start from DefaultRenderConfig and override fields.
type RenderConfig struct {
	Style          string          `json:"style"`
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	FontName       string          `json:"font"`
	QuoteFontSize  float64         `json:"quote_font_size"`
	AuthorFontSize float64         `json:"author_font_size"`
	Seed           int64           `json:"seed"`
	OutputDir      string          `json:"-"`
	Watermark      WatermarkConfig `json:"watermark"`
	Avatar         AvatarConfig    `json:"avatar"`
}

// DefaultRenderConfig returns the stock settings: 1080×1080, minimal style,
// corner watermark at 0.7 and a top-left avatar.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Style:          string(DefaultStyle),
		Width:          1080,
		Height:         1080,
		QuoteFontSize:  52,
		AuthorFontSize: 30,
		OutputDir:      "Generated_Images",
		Watermark: WatermarkConfig{
			Enabled:     true,
			Mode:        string(ModeCorner),
			Opacity:     0.7,
			Blend:       string(BlendNormal),
			Position:    PositionBottomRight,
			SizePercent: 0.15,
		},
		Avatar: AvatarConfig{
			Position:    PositionTopLeft,
			Opacity:     0.95,
			SizePercent: 0.14,
		},
	}
}

// Normalize returns a copy with unset dimensions, sizes and selectors filled
// from the defaults, dimensions and font sizes capped, and opacities clamped
// to [0, 1]. Opacity 0 is kept.
func (c RenderConfig) Normalize() RenderConfig {
	d := DefaultRenderConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.QuoteFontSize <= 0 {
		c.QuoteFontSize = d.QuoteFontSize
	}
	if c.AuthorFontSize <= 0 {
		c.AuthorFontSize = d.AuthorFontSize
	}
	if strings.TrimSpace(c.Style) == "" {
		c.Style = d.Style
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	if c.Watermark.Mode == "" {
		c.Watermark.Mode = d.Watermark.Mode
	}
	if c.Watermark.Blend == "" {
		c.Watermark.Blend = d.Watermark.Blend
	}
	if c.Watermark.Position == "" {
		c.Watermark.Position = d.Watermark.Position
	}
	if c.Watermark.SizePercent <= 0 {
		c.Watermark.SizePercent = d.Watermark.SizePercent
	}
	if c.Avatar.Position == "" {
		c.Avatar.Position = d.Avatar.Position
	}
	if c.Avatar.SizePercent <= 0 {
		c.Avatar.SizePercent = d.Avatar.SizePercent
	}
	c.Width = min(c.Width, MaxDimension)
	c.Height = min(c.Height, MaxDimension)
	c.QuoteFontSize = math.Min(c.QuoteFontSize, MaxFontSize)
	c.AuthorFontSize = math.Min(c.AuthorFontSize, MaxFontSize)
	c.Watermark.SizePercent = math.Min(c.Watermark.SizePercent, 1)
	c.Avatar.SizePercent = math.Min(c.Avatar.SizePercent, 1)
	c.Watermark.Opacity = clamp01(c.Watermark.Opacity)
	c.Avatar.Opacity = clamp01(c.Avatar.Opacity)
	return c
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Result describes a written image.
type Result struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

// RendererOptions configures NewRenderer.
type RendererOptions struct {
	FontDir       string
	WatermarkDir  string
	AvatarTimeout time.Duration
	Log           logrus.FieldLogger
	Now           func() time.Time
}

// Renderer turns quote records into images. It holds only read-only settings
// and shared caches, so one Renderer serves concurrent renders.
type Renderer struct {
	fonts         *FontLibrary
	marks         *WatermarkLibrary
	avatarTimeout time.Duration
	log           logrus.FieldLogger
	now           func() time.Time
}

// NewRenderer builds a Renderer over the given asset directories.
func NewRenderer(opts RendererOptions) *Renderer {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Renderer{
		fonts:         NewFontLibrary(opts.FontDir, log),
		marks:         NewWatermarkLibrary(opts.WatermarkDir, log),
		avatarTimeout: opts.AvatarTimeout,
		log:           log,
		now:           opts.Now,
	}
	if r.avatarTimeout <= 0 {
		r.avatarTimeout = DefaultAvatarTimeout
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Fonts exposes the font catalogue.
func (r *Renderer) Fonts() *FontLibrary { return r.fonts }

// Watermarks exposes the watermark asset library.
func (r *Renderer) Watermarks() *WatermarkLibrary { return r.marks }

// Compose renders rec in memory: background, ornaments and text, avatar,
// then watermark. Missing assets and failed downloads only degrade the image.
func (r *Renderer) Compose(ctx context.Context, rec QuoteRecord, cfg RenderConfig) *image.NRGBA {
	cfg = cfg.Normalize()
	log := r.log.WithField("style", cfg.Style)

	style, ok := LookupStyle(cfg.Style)
	if !ok {
		log.WithField("fallback", style.ID).Warn("unknown style")
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	palette := style.PickPalette(rng)

	canvas := RenderBackground(style, palette, cfg.Width, cfg.Height, rng)

	quoteFace := r.fonts.Face(cfg.FontName, cfg.QuoteFontSize, style.QuoteBold)
	authorFace := r.fonts.Face(cfg.FontName, cfg.AuthorFontSize, style.AuthorBold)
	layout := LayoutText(rec.Quote, rec.Author, style, quoteFace, authorFace, cfg.QuoteFontSize, cfg.Width, cfg.Height)
	canvas = Compose(canvas, style, palette, layout, quoteFace, authorFace)

	if strings.TrimSpace(rec.AvatarRef) != "" {
		actx, cancel := context.WithTimeout(ctx, r.avatarTimeout)
		avatar, err := LoadAvatar(actx, rec.AvatarRef)
		cancel()
		if err != nil {
			log.WithError(err).WithField("avatar", rec.AvatarRef).Warn("could not add avatar")
		} else {
			canvas = ApplyAvatar(canvas, avatar, cfg.Avatar)
		}
	}

	if cfg.Watermark.Enabled {
		if mark, ok := r.marks.Select(cfg.Watermark.File, cfg.Watermark.Link, rng); ok {
			canvas = ApplyWatermark(canvas, mark, WatermarkOptions{
				Mode:        ParseWatermarkMode(cfg.Watermark.Mode),
				Opacity:     cfg.Watermark.Opacity,
				Blend:       ParseBlendMode(cfg.Watermark.Blend),
				Position:    cfg.Watermark.Position,
				SizePercent: cfg.Watermark.SizePercent,
				Halo:        style.WatermarkHalo,
			})
		}
	}
	return canvas
}

// Render composes rec and writes it as a PNG under cfg.OutputDir.
func (r *Renderer) Render(ctx context.Context, rec QuoteRecord, cfg RenderConfig) (Result, error) {
	cfg = cfg.Normalize()
	canvas := r.Compose(ctx, rec, cfg)

	name := EncodeFilename(rec, r.now())
	path := filepath.Join(cfg.OutputDir, name)
	if err := writePNG(cfg.OutputDir, path, canvas); err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}
	r.log.WithFields(logrus.Fields{"path": path, "style": cfg.Style}).Info("image generated")
	return Result{Path: path, Filename: name}, nil
}

// writePNG encodes img to a temporary file in dir and renames it to path, so
// readers never observe a partial image.
func writePNG(dir, path string, img image.Image) (err error) {
	if err := util.EnsureDir(dir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.CreateTemp(dir, ".render-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}
