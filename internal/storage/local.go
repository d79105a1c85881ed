package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/youruser/quotecard/internal/util"
)

// Local serves images from a directory exposed by the HTTP server.
type Local struct {
	dir        string
	publicPath string
	baseURL    string
}

// NewLocal returns a Local uploader for dir, published under publicPath.
func NewLocal(dir, publicPath, baseURL string) *Local {
	if publicPath == "" {
		publicPath = "/Generated_Images"
	}
	return &Local{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (l *Local) Type() string { return "local" }

// Upload copies localPath into the served directory unless it already lives
// there, and returns its public URL.
func (l *Local) Upload(ctx context.Context, localPath, name string) (string, error) {
	if filepath.Base(name) != name || name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	log := logrus.WithFields(logrus.Fields{"file": name, "dir": l.dir})

	dst := filepath.Join(l.dir, name)
	same, err := samePath(localPath, dst)
	if err != nil {
		return "", err
	}
	if !same {
		if err := util.EnsureDir(l.dir); err != nil {
			return "", fmt.Errorf("create storage dir: %w", err)
		}
		if err := copyFile(localPath, dst); err != nil {
			log.WithError(err).Error("Failed to store image")
			return "", err
		}
	}
	log.Debug("Image stored")
	return l.baseURL + l.publicPath + "/" + url.PathEscape(name), nil
}

func samePath(a, b string) (bool, error) {
	aa, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	bb, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return aa == bb, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy image: %w", err)
	}
	return out.Close()
}
