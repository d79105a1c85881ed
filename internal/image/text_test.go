package imagepkg

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestFontLibraryScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A-Regular.ttf"), goregular.TTF)
	writeFile(t, filepath.Join(dir, "B-Bold.ttf"), gobold.TTF)
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("not a font"))

	lib := NewFontLibrary(dir, quietLogger())
	if got, want := lib.Names(), []string{"A-Regular", "B-Bold"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	embedded := (*FontLibrary)(nil)
	const sample = "Hello, quotes"
	if got, want := MeasureWidth(lib.Face("", 40, false), sample), MeasureWidth(embedded.Face("", 40, false), sample); got != want {
		t.Errorf("regular width = %v, want %v", got, want)
	}
	if got, want := MeasureWidth(lib.Face("", 40, true), sample), MeasureWidth(embedded.Face("", 40, true), sample); got != want {
		t.Errorf("bold width = %v, want %v", got, want)
	}
	// without a bold sibling a named font is used for both weights
	if got, want := MeasureWidth(lib.Face("A-Regular", 40, true), sample), MeasureWidth(embedded.Face("", 40, false), sample); got != want {
		t.Errorf("named bold width = %v, want regular width %v", got, want)
	}
}

func TestFontLibraryBoldSibling(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Lora-Regular.ttf"), goregular.TTF)
	writeFile(t, filepath.Join(dir, "Lora-Bold.ttf"), gobold.TTF)
	writeFile(t, filepath.Join(dir, "Mono.ttf"), goregular.TTF)
	writeFile(t, filepath.Join(dir, "MonoBold.ttf"), gobold.TTF)

	lib := NewFontLibrary(dir, quietLogger())
	embedded := (*FontLibrary)(nil)
	const sample = "Hello, quotes"
	regular := MeasureWidth(embedded.Face("", 40, false), sample)
	bold := MeasureWidth(embedded.Face("", 40, true), sample)
	if regular == bold {
		t.Fatalf("regular and bold widths are equal (%v); the test cannot tell them apart", regular)
	}

	tests := []struct {
		name string
		bold bool
		want float64
	}{
		{"Lora-Regular", false, regular},
		{"Lora-Regular", true, bold},
		{"Mono", false, regular},
		{"Mono", true, bold},
		{"Lora-Bold", true, bold},
	}
	for _, tt := range tests {
		if got := MeasureWidth(lib.Face(tt.name, 40, tt.bold), sample); got != tt.want {
			t.Errorf("Face(%q, bold=%v) width = %v, want %v", tt.name, tt.bold, got, tt.want)
		}
	}
}

func TestFontLibraryFallbacks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Broken.ttf"), []byte("garbage"))

	lib := NewFontLibrary(dir, quietLogger())
	face := lib.Face("Broken", 30, false)
	if w := MeasureWidth(face, "abc"); w <= 0 {
		t.Errorf("fallback face width = %v, want > 0", w)
	}

	missing := NewFontLibrary(filepath.Join(dir, "nope"), quietLogger())
	if n := len(missing.Names()); n != 0 {
		t.Errorf("Names() on missing dir = %d entries, want 0", n)
	}
	if w := MeasureWidth(missing.Face("anything", 30, true), "abc"); w <= 0 {
		t.Errorf("embedded face width = %v, want > 0", w)
	}
}
