package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	imagepkg "github.com/youruser/quotecard/internal/image"
	"github.com/youruser/quotecard/internal/quotes"
	"github.com/youruser/quotecard/internal/storage"
)

// Server carries the dependencies shared by the handlers.
type Server struct {
	Renderer *imagepkg.Renderer
	Storage  storage.Uploader
	Defaults imagepkg.RenderConfig
	DataDir  string
	Log      logrus.FieldLogger
}

func (s *Server) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// settings lists every selectable option for the render form.
func (s *Server) settings(c *gin.Context) {
	storageType := ""
	if s.Storage != nil {
		storageType = s.Storage.Type()
	}
	c.JSON(http.StatusOK, gin.H{
		"styles":              imagepkg.Styles(),
		"fonts":               s.Renderer.Fonts().Names(),
		"watermarks":          s.Renderer.Watermarks().Files(),
		"watermark_modes":     imagepkg.WatermarkModes(),
		"watermark_blends":    imagepkg.BlendModes(),
		"watermark_positions": imagepkg.WatermarkPositions(),
		"avatar_positions":    imagepkg.AvatarPositions(),
		"storage":             storageType,
		"defaults":            s.Defaults,
	})
}

type renderRequest struct {
	imagepkg.QuoteRecord
	Config imagepkg.RenderConfig `json:"config"`
}

// renderHandler renders one quote, publishes it and returns its location.
// Omitted config fields keep the server defaults.
func (s *Server) renderHandler(c *gin.Context) {
	req := renderRequest{Config: s.Defaults}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Quote) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quote is required"})
		return
	}
	req.Config.OutputDir = s.Defaults.OutputDir

	id := ulid.Make().String()
	log := s.logger().WithField("id", id)
	ctx := c.Request.Context()

	res, err := s.Renderer.Render(ctx, req.QuoteRecord, req.Config)
	if err != nil {
		log.WithError(err).Error("render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	url := ""
	if s.Storage != nil {
		url, err = s.Storage.Upload(ctx, res.Path, res.Filename)
		if err != nil {
			log.WithError(err).Error("upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"filename": res.Filename,
		"path":     res.Path,
		"url":      url,
	})
}

// filterHandler returns the review-queue rows matching the posted options.
func (s *Server) filterHandler(c *gin.Context) {
	var opt quotes.FilterOptions
	if err := c.ShouldBindJSON(&opt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	all, err := quotes.LoadQuotesFromDataDir(s.DataDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := quotes.Filter(all, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "quotes": out})
}

func (s *Server) topicsHandler(c *gin.Context) {
	all, err := quotes.LoadQuotesFromDataDir(s.DataDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": quotes.Topics(all)})
}

// qr endpoint returns a PNG of a QR for "text" query param
func (s *Server) qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 256
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		size = min(v, 2048)
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
