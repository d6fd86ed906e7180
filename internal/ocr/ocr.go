package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	imgutil "github.com/ironsheep/mser-tools-mcp/internal/imaging"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// minLineHeight is the height shorter line crops are upscaled to before
// recognition.
const minLineHeight = 32

// ErrUnavailable is returned when the binary was built without cgo.
var ErrUnavailable = errors.New("ocr: tesseract support not compiled in (built without cgo)")

// LineText is the recognition result for one text line.
type LineText struct {
	// Text is the recognized text with surrounding whitespace trimmed.
	// Empty when nothing was recognized.
	Text string `json:"text"`

	// Confidence is the mean word confidence (0.0 to 1.0), or 0 when no
	// words were found.
	Confidence float64 `json:"confidence"`
}

// lineImage crops r expanded by padding pixels, clamped to the image, upscales
// short crops and encodes the result as PNG. ok is false when the clamped
// rectangle is empty.
func lineImage(img image.Image, r image.Rectangle, padding int) (data []byte, ok bool, err error) {
	crop := imgutil.CropPadded(img, r, padding)
	b := crop.Bounds()
	if b.Empty() {
		return nil, false, nil
	}

	if h := b.Dy(); h < minLineHeight {
		w := b.Dx() * minLineHeight / h
		crop = imaging.Resize(crop, w, minLineHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, false, fmt.Errorf("failed to encode line image: %w", err)
	}
	return buf.Bytes(), true, nil
}
