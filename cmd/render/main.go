package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/youruser/quotecard/internal/config"
	imagepkg "github.com/youruser/quotecard/internal/image"
	"github.com/youruser/quotecard/internal/quotes"
	"github.com/youruser/quotecard/internal/storage"
)

type options struct {
	render     imagepkg.RenderConfig
	record     imagepkg.QuoteRecord
	csvPath    string
	manifest   string
	categories string
	limit      int
	upload     bool
	logLevel   string
}

func main() {
	if err := config.LoadEnvFile(); err != nil {
		logrus.Fatalf("Invalid .env file: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		logrus.Fatal(err)
	}
}

func parseFlags(args []string, cfg config.Config) (options, error) {
	o := options{render: cfg.RenderDefaults()}
	rc := &o.render

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.StringVar(&rc.Style, "style", rc.Style, "Design style.")
	fs.IntVar(&rc.Width, "width", rc.Width, "Image width in pixels.")
	fs.IntVar(&rc.Height, "height", rc.Height, "Image height in pixels.")
	fs.StringVar(&rc.FontName, "font", rc.FontName, "Font file stem from the font directory.")
	fs.Float64Var(&rc.QuoteFontSize, "quote-size", rc.QuoteFontSize, "Quote font size.")
	fs.Float64Var(&rc.AuthorFontSize, "author-size", rc.AuthorFontSize, "Author font size.")
	fs.Int64Var(&rc.Seed, "seed", rc.Seed, "Random seed for palettes and decorations.")
	fs.StringVar(&rc.OutputDir, "out", rc.OutputDir, "Output directory.")

	fs.BoolVar(&rc.Watermark.Enabled, "watermark", rc.Watermark.Enabled, "Apply a watermark.")
	fs.StringVar(&rc.Watermark.Mode, "wm-mode", rc.Watermark.Mode, "Watermark mode (corner, subtle, stripe, color-match).")
	fs.Float64Var(&rc.Watermark.Opacity, "wm-opacity", rc.Watermark.Opacity, "Watermark opacity, 0 to 1.")
	fs.StringVar(&rc.Watermark.Blend, "wm-blend", rc.Watermark.Blend, "Watermark blend (normal, multiply, screen, overlay).")
	fs.StringVar(&rc.Watermark.Position, "wm-position", rc.Watermark.Position, "Watermark corner (bottom-left, bottom-right).")
	fs.Float64Var(&rc.Watermark.SizePercent, "wm-size", rc.Watermark.SizePercent, "Watermark size as a fraction of the short side.")
	fs.StringVar(&rc.Watermark.File, "wm-file", rc.Watermark.File, "Watermark file in the watermark directory.")
	fs.StringVar(&rc.Watermark.Link, "wm-link", rc.Watermark.Link, "Render a QR code of this link as the watermark.")

	fs.StringVar(&rc.Avatar.Position, "avatar-position", rc.Avatar.Position, "Avatar badge position.")
	fs.Float64Var(&rc.Avatar.Opacity, "avatar-opacity", rc.Avatar.Opacity, "Avatar opacity, 0 to 1.")
	fs.Float64Var(&rc.Avatar.SizePercent, "avatar-size", rc.Avatar.SizePercent, "Avatar size as a fraction of the short side.")

	fs.StringVar(&o.record.Quote, "quote", "", "Quote text for a single render.")
	fs.StringVar(&o.record.Author, "author", "", "Quote author.")
	fs.StringVar(&o.record.Category, "category", "", "Quote category.")
	fs.StringVar(&o.record.AvatarRef, "avatar", "", "Avatar image path or URL.")

	fs.StringVar(&o.csvPath, "csv", "", "Render every pending row of this sheet export.")
	fs.StringVar(&o.manifest, "manifest", "", "Write the batch manifest here instead of stdout.")
	fs.StringVar(&o.categories, "categories", "", "Comma separated categories to render in batch mode.")
	fs.IntVar(&o.limit, "limit", 0, "Render at most this many rows in batch mode.")
	fs.BoolVar(&o.upload, "upload", false, "Publish rendered images to the configured storage.")
	fs.StringVar(&o.logLevel, "loglevel", cfg.LogLevel, "The log level (debug, info, warn, error).")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.csvPath == "" && strings.TrimSpace(o.record.Quote) == "" {
		return o, errors.New("either -quote or -csv is required")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		return err
	}
	o, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)

	r := imagepkg.NewRenderer(imagepkg.RendererOptions{
		FontDir:      cfg.FontDir,
		WatermarkDir: cfg.WatermarkDir,
	})

	var up storage.Uploader
	if o.upload {
		up, err = storage.New(ctx, storage.Config{
			Type:          cfg.StorageType,
			LocalDir:      o.render.OutputDir,
			PublicPath:    "/Generated_Images",
			PublicBaseURL: cfg.PublicBaseURL,
			Bucket:        cfg.S3Bucket,
			KeyPrefix:     cfg.S3KeyPrefix,
		})
		if err != nil {
			return err
		}
	}

	if o.csvPath == "" {
		res, err := r.Render(ctx, o.record, o.render)
		if err != nil {
			return err
		}
		loc := res.Path
		if up != nil {
			if loc, err = up.Upload(ctx, res.Path, res.Filename); err != nil {
				return err
			}
		}
		fmt.Fprintln(stdout, loc)
		return nil
	}
	return batch(ctx, r, up, o, stdout)
}

// batch renders the pending rows of a sheet export one after another and
// writes a manifest. A failed row is recorded and does not stop the batch.
func batch(ctx context.Context, r *imagepkg.Renderer, up storage.Uploader, o options, stdout io.Writer) error {
	all, err := quotes.LoadCSV(o.csvPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", o.csvPath, err)
	}
	opt := quotes.FilterOptions{}
	if o.categories != "" {
		opt.Categories = strings.Split(o.categories, ",")
	}
	todo := quotes.Filter(all, opt)
	if o.limit > 0 && len(todo) > o.limit {
		todo = todo[:o.limit]
	}

	var entries []quotes.ManifestEntry
	for _, q := range todo {
		if ctx.Err() != nil {
			break
		}
		rc := o.render
		if q.DesignStyle != "" {
			rc.Style = q.DesignStyle
		}
		rc.Seed = o.render.Seed + int64(q.Row)

		e := quotes.ManifestEntry{Row: q.Row, Category: q.Category, Author: q.Author, Style: rc.Style}
		res, err := r.Render(ctx, q.Record(), rc)
		if err == nil {
			e.Filename, e.URL = res.Filename, res.Path
			if up != nil {
				e.URL, err = up.Upload(ctx, res.Path, res.Filename)
			}
		}
		if err != nil {
			e.Err = err.Error()
			logrus.WithError(err).WithField("row", q.Row).Error("batch row failed")
		}
		entries = append(entries, e)
	}
	logrus.WithField("count", len(entries)).Info("batch finished")

	if o.manifest == "" {
		return quotes.WriteManifest(stdout, entries)
	}
	f, err := os.Create(o.manifest)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := quotes.WriteManifest(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	return f.Close()
}
