//go:build !cgo

package imaging

import (
	"image"
	"io"

	"golang.org/x/image/webp"
)

// decodeWebP uses the pure-Go decoder when libwebp is not linked in.
func decodeWebP(r io.Reader) (image.Image, error) {
	return webp.Decode(r)
}
