//go:build cgo

package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// RecognizeLines runs OCR on each line rectangle of img.
//
// Parameters:
//   - img: The source image.
//   - lines: Line bounds in img's coordinate space.
//   - language: Tesseract language code (e.g., "eng"). Empty uses DefaultLanguage.
//     The corresponding language data must be installed on the system.
//   - padding: Pixels added around each line before cropping.
//
// Returns:
//   - []LineText: One entry per input line, in input order. Lines that are
//     blank or fall outside the image have empty Text.
//   - error: Non-nil if Tesseract cannot be initialized or recognition fails.
//
// A single Tesseract client in single-line segmentation mode is reused for
// all lines.
func RecognizeLines(img image.Image, lines []image.Rectangle, language string, padding int) ([]LineText, error) {
	results := make([]LineText, len(lines))
	if len(lines) == 0 {
		return results, nil
	}
	if language == "" {
		language = DefaultLanguage
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	for i, r := range lines {
		data, ok, err := lineImage(img, r, padding)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if err := client.SetImageFromBytes(data); err != nil {
			return nil, fmt.Errorf("failed to set image for line %d: %w", i, err)
		}

		text, err := client.Text()
		if err != nil {
			return nil, fmt.Errorf("OCR failed on line %d: %w", i, err)
		}
		results[i].Text = strings.TrimSpace(text)

		// Confidence is best-effort; text is still returned if boxes fail.
		boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
		if err != nil {
			continue
		}
		var sum float64
		n := 0
		for _, box := range boxes {
			if strings.TrimSpace(box.Word) == "" {
				continue
			}
			sum += float64(box.Confidence)
			n++
		}
		if n > 0 {
			results[i].Confidence = sum / float64(n) / 100.0
		}
	}

	return results, nil
}

// Version returns the installed Tesseract version.
func Version() (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version(), nil
}
