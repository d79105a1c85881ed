package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	imagepkg "github.com/youruser/quotecard/internal/image"
)

// DefaultPath is the optional JSON settings file read by Load.
const DefaultPath = "references/config.json"

// Config holds the service settings. JSON values from the settings file are
// overridden by environment variables.
type Config struct {
	Port          string `json:"port"`
	OutputDir     string `json:"output_dir"`
	WatermarkDir  string `json:"watermark_dir"`
	FontDir       string `json:"font_dir"`
	DataDir       string `json:"data_dir"`
	Width         int    `json:"image_width"`
	Height        int    `json:"image_height"`
	DefaultStyle  string `json:"default_style"`
	StorageType   string `json:"storage_type"`
	S3Bucket      string `json:"s3_bucket_name"`
	S3KeyPrefix   string `json:"s3_key_prefix"`
	PublicBaseURL string `json:"public_base_url"`
	LogLevel      string `json:"log_level"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:         "8080",
		OutputDir:    "Generated_Images",
		WatermarkDir: "Watermarks",
		FontDir:      "assets/fonts",
		DataDir:      "data",
		Width:        1080,
		Height:       1080,
		DefaultStyle: string(imagepkg.DefaultStyle),
		StorageType:  "local",
		LogLevel:     "info",
	}
}

// LoadEnvFile loads a .env file into the process environment. A missing
// file is not an error.
func LoadEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		logrus.Info("No .env file found")
		return nil
	}
	return err
}

// Load reads the settings file at path (missing or empty is fine), applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := readFile(path, &cfg); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load config: open %q: %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func env(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"PORT":            &cfg.Port,
		"OUTPUT_DIR":      &cfg.OutputDir,
		"WATERMARK_DIR":   &cfg.WatermarkDir,
		"FONT_DIR":        &cfg.FontDir,
		"DATA_DIR":        &cfg.DataDir,
		"DEFAULT_STYLE":   &cfg.DefaultStyle,
		"STORAGE_TYPE":    &cfg.StorageType,
		"S3_BUCKET_NAME":  &cfg.S3Bucket,
		"S3_KEY_PREFIX":   &cfg.S3KeyPrefix,
		"PUBLIC_BASE_URL": &cfg.PublicBaseURL,
		"LOG_LEVEL":       &cfg.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := env(name); ok {
			*dst = v
		}
	}
	ints := map[string]*int{
		"IMAGE_WIDTH":  &cfg.Width,
		"IMAGE_HEIGHT": &cfg.Height,
	}
	for name, dst := range ints {
		v, ok := env(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("load config: %s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Width < 64 || c.Width > imagepkg.MaxDimension || c.Height < 64 || c.Height > imagepkg.MaxDimension {
		return fmt.Errorf("image size must be between 64 and %d, got %dx%d", imagepkg.MaxDimension, c.Width, c.Height)
	}
	if _, ok := imagepkg.LookupStyle(c.DefaultStyle); !ok {
		return fmt.Errorf("unknown default style %q", c.DefaultStyle)
	}
	switch strings.ToLower(c.StorageType) {
	case "local", "":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET_NAME is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.StorageType)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// RenderDefaults returns the base render configuration for requests.
func (c Config) RenderDefaults() imagepkg.RenderConfig {
	rc := imagepkg.DefaultRenderConfig()
	rc.Style = c.DefaultStyle
	rc.Width = c.Width
	rc.Height = c.Height
	rc.OutputDir = c.OutputDir
	return rc
}
