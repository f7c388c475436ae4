package assets

import (
	"fmt"
	"image"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// MinQRSide is the smallest QR bitmap side the compositor accepts. QR
// codes are rasterized oversized and scaled down at draw time so module
// edges stay crisp in the export.
const MinQRSide = 128

// QRSide picks the bitmap side for an element drawn at the given
// on-canvas side: four times the element size, floored at MinQRSide.
func QRSide(elementSide float64) int {
	side := int(elementSide * 4)
	if side < MinQRSide {
		side = MinQRSide
	}
	return side
}

// QRImage renders a QR code bitmap for a value. fg and bg may be nil
// for the conventional black-on-white.
func QRImage(value string, fg, bg color.Color, side int) (image.Image, error) {
	if value == "" {
		return nil, fmt.Errorf("assets: empty QR value")
	}
	if side < MinQRSide {
		side = MinQRSide
	}
	q, err := qrcode.New(value, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("assets: qr encode: %w", err)
	}
	if fg != nil {
		q.ForegroundColor = fg
	}
	if bg != nil {
		q.BackgroundColor = bg
	}
	return q.Image(side), nil
}
