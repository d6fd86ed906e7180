package mser

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrClosed is returned when a Detector is used after Close.
	ErrClosed = errors.New("mser: detector is closed")

	// ErrUnavailable is returned by New when the binary was built without
	// the native OpenCV binding.
	ErrUnavailable = errors.New("mser: native OpenCV binding not available (built without cgo)")

	// ErrEmptyImage is returned when detection is requested on an image with
	// no pixels.
	ErrEmptyImage = errors.New("mser: empty image")
)

// NativeError reports an exception raised inside OpenCV.
type NativeError struct {
	Op  string // "create" or "detect"
	Msg string // exception text from the native library
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("mser: native %s failed: %s", e.Op, e.Msg)
}

// Region is one maximally stable extremal region.
type Region struct {
	// Points are the region's pixels in the order OpenCV reports them.
	Points []image.Point `json:"points"`

	// Bounds is the smallest axis-aligned rectangle enclosing Points.
	// Max is exclusive, matching image.Rectangle conventions.
	Bounds image.Rectangle `json:"bounds"`
}

// Area returns the number of pixels in the region.
func (r Region) Area() int {
	return len(r.Points)
}

// Centroid returns the mean of the region's points.
// The zero point is returned for an empty region.
func (r Region) Centroid() image.Point {
	if len(r.Points) == 0 {
		return image.Point{}
	}
	var sx, sy int
	for _, p := range r.Points {
		sx += p.X
		sy += p.Y
	}
	n := len(r.Points)
	return image.Point{X: sx / n, Y: sy / n}
}

// Translate returns a copy of r shifted by d.
func (r Region) Translate(d image.Point) Region {
	pts := make([]image.Point, len(r.Points))
	for i, p := range r.Points {
		pts[i] = p.Add(d)
	}
	return Region{Points: pts, Bounds: r.Bounds.Add(d)}
}

// Split separates regions into index-aligned contour and bounding-box slices.
func Split(regions []Region) ([][]image.Point, []image.Rectangle) {
	points := make([][]image.Point, len(regions))
	boxes := make([]image.Rectangle, len(regions))
	for i, r := range regions {
		points[i] = r.Points
		boxes[i] = r.Bounds
	}
	return points, boxes
}
