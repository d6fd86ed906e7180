// Package ocr recognizes the text of detected text lines using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Callers pass
// a source image and the bounds of the lines to read, typically produced by
// grouping MSER regions into lines; each line is cropped, padded and read in
// single-line segmentation mode.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// The default language is English ("eng"). Other languages can be specified
// using their Tesseract language codes, e.g. "deu", "fra" or "chi_sim".
//
// # Builds Without cgo
//
// gosseract requires cgo. When built with CGO_ENABLED=0 the package still
// compiles, but RecognizeLines and Version return ErrUnavailable.
package ocr
