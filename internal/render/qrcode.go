package render

import (
	"fmt"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"brochure/server/internal/imagery"
)

const (
	qrSize    = 22.0
	qrPadding = 1.5
	qrPixels  = 330
	qrName    = "website-qr"
)

// qrImage encodes content as a QR code picture
func qrImage(content string) (imagery.Image, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return imagery.Image{}, fmt.Errorf("failed to encode qr code: %w", err)
	}
	scaled, err := barcode.Scale(code, qrPixels, qrPixels)
	if err != nil {
		return imagery.Image{}, fmt.Errorf("failed to scale qr code: %w", err)
	}
	return imagery.FromImage(scaled)
}

// drawQRCode places the website QR code at the right end of the footer on
// a white quiet zone.
func drawQRCode(code imagery.Image) region {
	return func(c *PageCanvas, s *sheet) {
		w, h := c.PageSize()
		x := w - c.right - qrSize
		y := h - footerHeight + (footerHeight-qrSize)/2

		c.FillRect(Rect{X: x - qrPadding, Y: y - qrPadding, W: qrSize + 2*qrPadding, H: qrSize + 2*qrPadding}, White)
		c.Image(qrName, code, Rect{X: x, Y: y, W: qrSize, H: qrSize})
	}
}
