package imagepkg

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestCircleMaskArea(t *testing.T) {
	for _, size := range []int{64, 200, 301} {
		mask := CircleMask(size)
		inside := 0
		for _, v := range mask.Pix {
			if v == 0xff {
				inside++
			}
		}
		frac := float64(inside) / float64(size*size)
		if math.Abs(frac-math.Pi/4) > 0.02 {
			t.Errorf("size %d: mask fraction = %.4f, want %.4f", size, frac, math.Pi/4)
		}
		if mask.AlphaAt(0, 0).A != 0 || mask.AlphaAt(size/2, size/2).A != 0xff {
			t.Errorf("size %d: corner/center mask values wrong", size)
		}
	}
}

func TestApplyAvatar(t *testing.T) {
	canvas := imaging.New(400, 400, color.White)
	avatar := imaging.New(200, 100, color.NRGBA{R: 255, A: 255})
	opts := AvatarConfig{Position: PositionTopLeft, Opacity: 1, SizePercent: 0.14}

	out := ApplyAvatar(canvas, avatar, opts)
	// 200x100 fits into 56px as 56x28, then a 28px square at (36, 36)
	center := out.NRGBAAt(36+14, 36+14)
	if center.R < 240 || center.G > 20 || center.B > 20 {
		t.Errorf("badge center = %v, want red", center)
	}
	if got := out.NRGBAAt(300, 300); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("far pixel = %v, want untouched white", got)
	}
	if got := canvas.NRGBAAt(50, 50); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("input canvas was modified")
	}

	br := ApplyAvatar(canvas, avatar, AvatarConfig{Position: PositionBottomRight, Opacity: 1, SizePercent: 0.14})
	if c := br.NRGBAAt(400-36-14, 400-36-14); c.R < 240 || c.G > 20 {
		t.Errorf("bottom-right badge center = %v, want red", c)
	}
}

func TestApplyAvatarOpacity(t *testing.T) {
	canvas := imaging.New(400, 400, color.White)
	avatar := imaging.New(100, 100, color.NRGBA{A: 255})
	out := ApplyAvatar(canvas, avatar, AvatarConfig{Position: PositionCenter, Opacity: 0.5, SizePercent: 0.25})
	// white darkened by the α80 shadow to 175, then half covered by black
	c := out.NRGBAAt(200, 200)
	if c.R < 80 || c.R > 95 {
		t.Errorf("half-opaque black over shadowed white = %v, want about 87", c)
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestLoadAvatar(t *testing.T) {
	body := encodePNG(t, imaging.New(40, 30, color.NRGBA{G: 255, A: 255}))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	img, err := LoadAvatar(context.Background(), srv.URL+"/me.png")
	if err != nil {
		t.Fatalf("LoadAvatar failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("bounds = %v, want 40x30", b)
	}

	if _, err := LoadAvatar(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Errorf("LoadAvatar on 404 succeeded, want error")
	}

	local := filepath.Join(t.TempDir(), "local.png")
	if err := imaging.Save(imaging.New(10, 12, color.Black), local); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	img, err = LoadAvatar(context.Background(), local)
	if err != nil {
		t.Fatalf("LoadAvatar(local) failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 12 {
		t.Errorf("local bounds = %v, want 10x12", b)
	}

	img, err = LoadAvatar(context.Background(), "  ")
	if img != nil || err != nil {
		t.Errorf("LoadAvatar(blank) = %v, %v, want nil, nil", img, err)
	}
}
