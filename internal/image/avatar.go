package imagepkg

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Anchor positions shared by the avatar badge and the watermark.
const (
	PositionTopLeft     = "top-left"
	PositionTopRight    = "top-right"
	PositionBottomLeft  = "bottom-left"
	PositionBottomRight = "bottom-right"
	PositionCenter      = "center"
)

const avatarPadding = 36

// AvatarPositions lists the accepted avatar anchors.
func AvatarPositions() []string {
	return []string{PositionTopLeft, PositionTopRight, PositionBottomLeft, PositionBottomRight, PositionCenter}
}

// LoadAvatar opens ref as a local path or, for http(s) references, downloads
// it. An empty ref yields a nil image and no error.
func LoadAvatar(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	if strings.HasPrefix(strings.ToLower(ref), "http") {
		return DownloadImage(ctx, ref)
	}
	img, err := imaging.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("open avatar: %w", err)
	}
	return img, nil
}

// CircleMask returns the inscribed disc of a size×size square: a pixel is
// inside when its center lies within size/2 of the square's center.
func CircleMask(size int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				mask.Pix[y*mask.Stride+x] = 0xff
			}
		}
	}
	return mask
}

// ApplyAvatar composites a circular badge of avatar onto a copy of canvas:
// drop shadow, then white ring, then the masked avatar.
func ApplyAvatar(canvas *image.NRGBA, avatar image.Image, opts AvatarConfig) *image.NRGBA {
	if avatar == nil {
		return canvas
	}
	b := canvas.Bounds()
	maxSize := int(float64(min(b.Dx(), b.Dy())) * opts.SizePercent)
	if maxSize < 1 {
		return canvas
	}

	badge := imaging.Fit(avatar, maxSize, maxSize, imaging.Lanczos)
	size := min(badge.Bounds().Dx(), badge.Bounds().Dy())
	badge = imaging.CropCenter(badge, size, size)

	mask := CircleMask(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := badge.PixOffset(x, y)
			m := float64(mask.Pix[y*mask.Stride+x]) / 255
			badge.Pix[i+3] = clamp8(float64(badge.Pix[i+3]) * opts.Opacity * m)
		}
	}

	pos := anchor(opts.Position, b.Dx(), b.Dy(), size, size, avatarPadding)
	out := imaging.Clone(canvas)
	blendInto(out, avatarShadow(size), pos.Sub(image.Pt(10, 10)), 1, BlendNormal)
	blendInto(out, avatarRing(size), pos.Sub(image.Pt(4, 4)), 1, BlendNormal)
	blendInto(out, badge, pos, 1, BlendNormal)
	return out
}

func avatarShadow(size int) *image.NRGBA {
	dc := gg.NewContext(size+20, size+20)
	dc.SetRGBA255(0, 0, 0, 80)
	r := float64(size+10) / 2
	dc.DrawEllipse(5+r, 5+r, r, r)
	dc.Fill()
	return imaging.Blur(dc.Image(), 5)
}

func avatarRing(size int) *image.NRGBA {
	dc := gg.NewContext(size+8, size+8)
	setColor(dc, color.NRGBA{R: 255, G: 255, B: 255, A: 200})
	dc.SetLineWidth(4)
	c := float64(size+8) / 2
	dc.DrawCircle(c, c, c-2)
	dc.Stroke()
	return imaging.Clone(dc.Image())
}

// anchor returns the top-left point of a w×h box placed at position inside a
// canvasW×canvasH canvas. Unknown positions are centered.
func anchor(position string, canvasW, canvasH, w, h, pad int) image.Point {
	switch strings.ToLower(strings.TrimSpace(position)) {
	case PositionTopLeft:
		return image.Pt(pad, pad)
	case PositionTopRight:
		return image.Pt(canvasW-w-pad, pad)
	case PositionBottomLeft:
		return image.Pt(pad, canvasH-h-pad)
	case PositionBottomRight:
		return image.Pt(canvasW-w-pad, canvasH-h-pad)
	default:
		return image.Pt((canvasW-w)/2, (canvasH-h)/2)
	}
}
