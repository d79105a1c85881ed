package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Uploader publishes a rendered image and returns where it can be fetched.
type Uploader interface {
	Upload(ctx context.Context, localPath, name string) (string, error)
	Type() string
}

// Config selects and configures the upload sink.
type Config struct {
	Type          string // "local" (default) or "s3"
	LocalDir      string // directory served under PublicPath
	PublicPath    string // URL path prefix of LocalDir, e.g. /Generated_Images
	PublicBaseURL string // optional scheme://host prefix for returned URLs
	Bucket        string
	KeyPrefix     string
}

// New builds the uploader named by cfg.Type.
func New(ctx context.Context, cfg Config) (Uploader, error) {
	fields := logrus.Fields{"storageType": cfg.Type}

	var up Uploader
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("storage: S3_BUCKET_NAME must be set for s3 storage")
		}
		s3up, err := NewS3(ctx, cfg.Bucket, cfg.KeyPrefix, cfg.PublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		fields["bucketName"] = cfg.Bucket
		up = s3up
	default:
		fields["storageType"] = "local"
		fields["basePath"] = cfg.LocalDir
		up = NewLocal(cfg.LocalDir, cfg.PublicPath, cfg.PublicBaseURL)
	}
	logrus.WithFields(fields).Info("Use storage")
	return up, nil
}
