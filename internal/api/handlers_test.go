package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	imagepkg "github.com/youruser/quotecard/internal/image"
	"github.com/youruser/quotecard/internal/storage"
)

const sheet = `CATEGORY,AUTHOR,QUOTE,DESIGN_STYLE,STATUS
Motivation,Seneca,Luck is what happens when preparation meets opportunity.,bold,
Motivation,Anon,Be the change.,elegant,Done
Wisdom,Lao Tzu,The journey of a thousand miles begins with one step.,minimal,
`

func newTestServer(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "quotes.csv"), []byte(sheet), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	defaults := imagepkg.DefaultRenderConfig()
	defaults.Width, defaults.Height = 200, 200
	defaults.Watermark.Enabled = false
	defaults.OutputDir = t.TempDir()

	s := &Server{
		Renderer: imagepkg.NewRenderer(imagepkg.RendererOptions{Log: log}),
		Storage:  storage.NewLocal(defaults.OutputDir, PublicPath, ""),
		Defaults: defaults,
		DataDir:  dataDir,
		Log:      log,
	}
	r := gin.New()
	RegisterRoutes(r, s)
	return r, s
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decode(t, w)["status"]; got != "ok" {
		t.Errorf("status field = %v, want ok", got)
	}
}

func TestSettings(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(r, http.MethodGet, "/api/settings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	out := decode(t, w)
	if styles, _ := out["styles"].([]any); len(styles) != len(imagepkg.Styles()) {
		t.Errorf("styles = %v, want %d entries", out["styles"], len(imagepkg.Styles()))
	}
	if out["storage"] != "local" {
		t.Errorf("storage = %v, want local", out["storage"])
	}
	if _, ok := out["fonts"].([]any); !ok {
		t.Errorf("fonts = %v, want a list", out["fonts"])
	}
}

func TestRender(t *testing.T) {
	r, s := newTestServer(t)
	body := `{"quote": "Be the change.", "author": "Anon", "config": {"style": "neon", "seed": 7}}`
	w := do(r, http.MethodPost, "/api/render", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	name, _ := out["filename"].(string)
	if !strings.HasPrefix(name, "General - Be-the-change - Anon - ") {
		t.Errorf("filename = %q", name)
	}
	if id, _ := out["id"].(string); len(id) != 26 {
		t.Errorf("id = %q, want a ulid", id)
	}
	url, _ := out["url"].(string)
	if !strings.HasPrefix(url, PublicPath+"/") {
		t.Errorf("url = %q, want it under %s", url, PublicPath)
	}
	if _, err := os.Stat(filepath.Join(s.Defaults.OutputDir, name)); err != nil {
		t.Errorf("rendered file missing: %v", err)
	}

	img := do(r, http.MethodGet, url, "")
	if img.Code != http.StatusOK || !bytes.HasPrefix(img.Body.Bytes(), []byte("\x89PNG")) {
		t.Errorf("GET %s = %d, want the PNG", url, img.Code)
	}
}

func TestRenderBadRequests(t *testing.T) {
	r, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"quote":`},
		{"empty quote", `{"quote": "  ", "author": "Anon"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/render", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if decode(t, w)["error"] == nil {
				t.Errorf("response has no error field")
			}
		})
	}
}

func TestRenderCapsRequestedSize(t *testing.T) {
	r, s := newTestServer(t)
	body := `{"quote": "Wide.", "author": "Anon", "config": {"width": 9000, "height": 64, "quote_font_size": 1000000}}`
	w := do(r, http.MethodPost, "/api/render", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	name, _ := decode(t, w)["filename"].(string)

	f, err := os.Open(filepath.Join(s.Defaults.OutputDir, name))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	pc, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if pc.Width != imagepkg.MaxDimension || pc.Height != 64 {
		t.Errorf("image size = %dx%d, want %dx64", pc.Width, pc.Height, imagepkg.MaxDimension)
	}
}

func TestRenderOutputFailure(t *testing.T) {
	r, s := newTestServer(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	s.Defaults.OutputDir = filepath.Join(blocker, "sub")

	w := do(r, http.MethodPost, "/api/render", `{"quote": "q", "author": "a"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if msg, _ := decode(t, w)["error"].(string); !strings.HasPrefix(msg, "render:") {
		t.Errorf("error = %q, want a render: error", msg)
	}
}

func TestQuotesFilterAndTopics(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(r, http.MethodPost, "/api/quotes/filter", `{"categories": ["motivation"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decode(t, w)["count"]; got != float64(1) {
		t.Errorf("count = %v, want 1 pending motivation quote", got)
	}

	w = do(r, http.MethodPost, "/api/quotes/filter", `nope`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad filter status = %d, want 400", w.Code)
	}

	w = do(r, http.MethodGet, "/api/quotes/topics", "")
	topics, _ := decode(t, w)["topics"].([]any)
	if len(topics) != 2 || topics[0] != "Motivation" || topics[1] != "Wisdom" {
		t.Errorf("topics = %v, want [Motivation Wisdom]", topics)
	}
}

func TestQuotesMissingData(t *testing.T) {
	r, s := newTestServer(t)
	s.DataDir = t.TempDir()
	if w := do(r, http.MethodGet, "/api/quotes/topics", ""); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestQR(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(r, http.MethodGet, "/api/qr?text=https://example.com&size=128", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("status = %d, type %q", w.Code, w.Header().Get("Content-Type"))
	}
	if w := do(r, http.MethodGet, "/api/qr", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing text status = %d, want 400", w.Code)
	}
}
