//go:build !cgo

package mser

import "image"

// Detector is a placeholder in builds without cgo. It cannot be constructed.
type Detector struct {
	params Params
}

// New always returns ErrUnavailable when built without cgo.
func New(p Params) (*Detector, error) {
	_ = p
	return nil, ErrUnavailable
}

// Params returns the parameters the detector was constructed with.
func (d *Detector) Params() Params {
	return d.params
}

// DetectImage returns ErrUnavailable when built without cgo.
func (d *Detector) DetectImage(img image.Image) ([]Region, error) {
	_ = img
	return nil, ErrUnavailable
}

// DetectImageColor returns ErrUnavailable when built without cgo.
func (d *Detector) DetectImageColor(img image.Image) ([]Region, error) {
	_ = img
	return nil, ErrUnavailable
}

// Close does nothing when built without cgo.
func (d *Detector) Close() error {
	return nil
}
