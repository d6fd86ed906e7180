//go:build cgo

package imaging

import (
	"image"
	"io"

	"github.com/chai2010/webp"
)

// decodeWebP decodes lossy, lossless and alpha WebP files with libwebp.
func decodeWebP(r io.Reader) (image.Image, error) {
	return webp.Decode(r)
}
