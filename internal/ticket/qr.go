package ticket

import "github.com/skip2/go-qrcode"

const defaultQRSize = 256

// RenderQR produces a PNG image of the encoded ticket code. Size is the
// image edge in pixels; non-positive values fall back to the default.
func RenderQR(code string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultQRSize
	}
	return qrcode.Encode(code, qrcode.Medium, size)
}
