package imagepkg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	embeddedRegular = "embedded:goregular"
	embeddedBold    = "embedded:gobold"
)

// FontLibrary resolves font names (file stems under a directory) to faces.
// Parsed fonts are cached by path and shared; faces are created per call since
// they are not safe for concurrent use.
type FontLibrary struct {
	paths   map[string]string
	names   []string
	regular string
	bold    string

	parsed sync.Map // path -> *truetype.Font
	log    logrus.FieldLogger
}

// NewFontLibrary scans dir for *.ttf files. The first file (sorted) is the
// default regular font and the first whose stem contains "bold" the default
// bold one. An empty or missing dir falls back to the embedded Go fonts.
func NewFontLibrary(dir string, log logrus.FieldLogger) *FontLibrary {
	if log == nil {
		log = logrus.StandardLogger()
	}
	l := &FontLibrary{
		paths:   map[string]string{},
		regular: embeddedRegular,
		bold:    embeddedBold,
		log:     log,
	}
	if dir == "" {
		return l
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.ttf"))
	if err != nil || len(files) == 0 {
		log.WithField("dir", dir).Debug("no fonts found, using embedded fonts")
		return l
	}
	sort.Strings(files)
	for _, p := range files {
		stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		l.paths[stem] = p
		l.names = append(l.names, stem)
	}
	sort.Strings(l.names)

	l.regular = files[0]
	l.bold = files[0]
	for _, p := range files {
		if strings.Contains(strings.ToLower(filepath.Base(p)), "bold") {
			l.bold = p
			break
		}
	}
	return l
}

// Names lists the selectable font stems.
func (l *FontLibrary) Names() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Face returns a face of the named font. An unknown or empty name selects the
// default regular/bold pair. For a bold face of a named font its "-Bold"
// sibling is preferred; without one the named font serves both weights.
func (l *FontLibrary) Face(name string, size float64, bold bool) font.Face {
	path := embeddedRegular
	if bold {
		path = embeddedBold
	}
	if l != nil {
		path = l.regular
		if bold {
			path = l.bold
		}
		name = strings.TrimSpace(name)
		if p, ok := l.paths[name]; ok {
			path = p
			if bold {
				if sib, ok := l.boldSibling(name); ok {
					path = sib
				}
			}
		}
	}

	f, err := l.load(path)
	if err != nil {
		l.logger().WithError(err).WithField("font", path).Warn("font unavailable, using embedded font")
		if bold {
			f, _ = l.load(embeddedBold)
		} else {
			f, _ = l.load(embeddedRegular)
		}
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// boldSibling finds the bold file of the family stem belongs to, such as
// "Lora-Bold" for "Lora" or "Lora-Regular".
func (l *FontLibrary) boldSibling(stem string) (string, bool) {
	family := stem
	for _, suffix := range []string{"-regular", "_regular", " regular", "regular"} {
		if strings.HasSuffix(strings.ToLower(family), suffix) {
			family = family[:len(family)-len(suffix)]
			break
		}
	}
	for _, sep := range []string{"-", "_", " ", ""} {
		want := strings.ToLower(family + sep + "bold")
		for _, n := range l.names {
			if strings.ToLower(n) == want && n != stem {
				return l.paths[n], true
			}
		}
	}
	return "", false
}

func (l *FontLibrary) logger() logrus.FieldLogger {
	if l == nil || l.log == nil {
		return logrus.StandardLogger()
	}
	return l.log
}

var embeddedFonts sync.Map

func (l *FontLibrary) load(path string) (*truetype.Font, error) {
	cache := &embeddedFonts
	if l != nil && !strings.HasPrefix(path, "embedded:") {
		cache = &l.parsed
	}
	if f, ok := cache.Load(path); ok {
		return f.(*truetype.Font), nil
	}

	var data []byte
	switch path {
	case embeddedRegular:
		data = goregular.TTF
	case embeddedBold:
		data = gobold.TTF
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", filepath.Base(path), err)
	}
	actual, _ := cache.LoadOrStore(path, f)
	return actual.(*truetype.Font), nil
}
