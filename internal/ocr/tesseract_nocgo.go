//go:build !cgo

package ocr

import "image"

// RecognizeLines always fails with ErrUnavailable in builds without cgo.
func RecognizeLines(img image.Image, lines []image.Rectangle, language string, padding int) ([]LineText, error) {
	return nil, ErrUnavailable
}

// Version always fails with ErrUnavailable in builds without cgo.
func Version() (string, error) {
	return "", ErrUnavailable
}
