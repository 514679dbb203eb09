package imagepkg

import (
	"fmt"
	"image"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	MinQRSize = 64
	MaxQRSize = 1024
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	q, err := newQR(text)
	if err != nil {
		return nil, err
	}
	return q.PNG(clampQRSize(size))
}

// GenerateQRImage returns a QR code with the given colors for further
// composition.
func GenerateQRImage(text string, size int, fg, bg color.Color) (image.Image, error) {
	q, err := newQR(text)
	if err != nil {
		return nil, err
	}
	q.ForegroundColor = fg
	q.BackgroundColor = bg
	return q.Image(clampQRSize(size)), nil
}

func newQR(text string) (*qrcode.QRCode, error) {
	if text == "" {
		return nil, fmt.Errorf("empty QR text")
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encoding QR: %w", err)
	}
	return q, nil
}

func clampQRSize(size int) int {
	return min(max(size, MinQRSize), MaxQRSize)
}
