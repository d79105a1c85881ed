package imagepkg

import (
	"fmt"
	"image"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the pixel edge of generated link watermarks before fitting.
const qrSize = 256

// GenerateQRPNG returns PNG bytes of a QR code for text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	b, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return b, nil
}

// GenerateQRImage renders text as a QR code with dark modules on a
// transparent background, ready to be used as a watermark.
func GenerateQRImage(text string, size int) (image.Image, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.BackgroundColor = color.Transparent
	q.ForegroundColor = color.Black
	return q.Image(size), nil
}
