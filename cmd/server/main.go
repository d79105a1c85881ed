package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/youruser/quotecard/internal/api"
	"github.com/youruser/quotecard/internal/config"
	imagepkg "github.com/youruser/quotecard/internal/image"
	"github.com/youruser/quotecard/internal/quotes"
	"github.com/youruser/quotecard/internal/storage"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		logrus.Fatalf("Invalid .env file: %v", err)
	}

	configPath := flag.String("config", config.DefaultPath, "Optional JSON settings file.")
	listenAddress := flag.String("listen", "", "The address to listen on (default :$PORT).")
	logLevel := flag.String("loglevel", "", "The log level (debug, info, warn, error).")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatal(err)
	}
	if *logLevel == "" {
		*logLevel = cfg.LogLevel
	}
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load quotes at startup (best-effort)
	if qs, err := quotes.LoadQuotesFromDataDir(cfg.DataDir); err != nil {
		logrus.WithError(err).Warn("failed to load quote CSVs at startup")
	} else {
		logrus.WithField("pending", len(quotes.Pending(qs))).Info("quotes loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	store, err := storage.New(ctx, storage.Config{
		Type:          cfg.StorageType,
		LocalDir:      cfg.OutputDir,
		PublicPath:    api.PublicPath,
		PublicBaseURL: cfg.PublicBaseURL,
		Bucket:        cfg.S3Bucket,
		KeyPrefix:     cfg.S3KeyPrefix,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	srv := &api.Server{
		Renderer: imagepkg.NewRenderer(imagepkg.RendererOptions{
			FontDir:      cfg.FontDir,
			WatermarkDir: cfg.WatermarkDir,
		}),
		Storage:  store,
		Defaults: cfg.RenderDefaults(),
		DataDir:  cfg.DataDir,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	api.RegisterRoutes(r, srv)

	addr := *listenAddress
	if addr == "" {
		addr = ":" + cfg.Port
	}
	httpSrv := &http.Server{Addr: addr, Handler: r}

	logrus.WithField("addr", addr).Info("starting server")
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown failed")
	}
}
