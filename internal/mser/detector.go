//go:build cgo

package mser

/*
#cgo !windows pkg-config: opencv4
#cgo CXXFLAGS: --std=c++11
#include <stdlib.h>
#include "mser.h"
*/
import "C"

import (
	"image"
	"runtime"
	"sync"
	"unsafe"

	"gocv.io/x/gocv"
)

// Detector owns one configured native MSER context.
type Detector struct {
	mu     sync.Mutex
	p      C.MSERDetector
	params Params
}

// New constructs a native MSER context from fully resolved parameters.
//
// No validation is performed locally; OpenCV decides which combinations it
// accepts. An exception raised during construction is returned as a
// *NativeError.
//
// The returned Detector must be released with Close. A finalizer releases it
// if the caller forgets, but native memory is not visible to the Go
// collector, so relying on it delays the release indefinitely.
func New(p Params) (*Detector, error) {
	var cerr *C.char
	ptr := C.MSERDetector_New(
		C.int(p.Delta),
		C.int(p.MinArea),
		C.int(p.MaxArea),
		C.double(p.MaxVariation),
		C.double(p.MinDiversity),
		C.int(p.MaxEvolution),
		C.double(p.AreaThreshold),
		C.double(p.MinMargin),
		C.int(p.EdgeBlurSize),
		&cerr,
	)
	if ptr == nil {
		return nil, &NativeError{Op: "create", Msg: takeError(cerr)}
	}

	d := &Detector{p: ptr, params: p}
	runtime.SetFinalizer(d, (*Detector).Close)
	return d, nil
}

// Params returns the parameters the detector was constructed with.
func (d *Detector) Params() Params {
	return d.params
}

// Detect finds maximally stable extremal regions in img.
//
// img may be 8-bit single channel (MSER) or 8-bit three channel (OpenCV then
// runs its color variant). Format constraints are enforced by OpenCV; a
// rejected image is reported as a *NativeError. img is not modified.
//
// Each returned Region pairs a contour with its bounding box. A uniform image
// yields an empty, non-nil slice.
func (d *Detector) Detect(img gocv.Mat) ([]Region, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.p == nil {
		return nil, ErrClosed
	}
	if img.Empty() {
		return nil, ErrEmptyImage
	}

	var out C.MSERRegions
	var cerr *C.char
	ok := C.MSERDetector_DetectRegions(d.p, C.Mat(unsafe.Pointer(img.Ptr())), &out, &cerr)
	runtime.KeepAlive(&img)
	if ok == 0 {
		return nil, &NativeError{Op: "detect", Msg: takeError(cerr)}
	}
	defer C.MSERRegions_Free(&out)

	return copyRegions(&out), nil
}

// DetectRegions is Detect with the result split into index-aligned contour
// and bounding-box slices of equal length.
func (d *Detector) DetectRegions(img gocv.Mat) ([][]image.Point, []image.Rectangle, error) {
	regions, err := d.Detect(img)
	if err != nil {
		return nil, nil, err
	}
	points, boxes := Split(regions)
	return points, boxes, nil
}

// DetectImage converts img to 8-bit grayscale and runs Detect on it.
// Returned coordinates are in img's coordinate space, so images whose bounds
// do not start at (0,0) map back correctly.
func (d *Detector) DetectImage(img image.Image) ([]Region, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	mat, err := gocv.ImageGrayToMatGray(grayFrame(img))
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return d.detectAt(mat, img.Bounds().Min)
}

// DetectImageColor converts img to a 3-channel BGR Mat and runs Detect on
// it, selecting OpenCV's color MSER. MaxEvolution, AreaThreshold, MinMargin
// and EdgeBlurSize only take effect in this mode. Coordinates are in img's
// coordinate space, as with DetectImage.
func (d *Detector) DetectImageColor(img image.Image) ([]Region, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return d.detectAt(mat, img.Bounds().Min)
}

// detectAt runs Detect and shifts the results by origin.
func (d *Detector) detectAt(mat gocv.Mat, origin image.Point) ([]Region, error) {
	regions, err := d.Detect(mat)
	if err != nil {
		return nil, err
	}

	if origin != (image.Point{}) {
		for i := range regions {
			regions[i] = regions[i].Translate(origin)
		}
	}
	return regions, nil
}

// Close releases the native context. It is safe to call more than once;
// calls after the first do nothing.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.p == nil {
		return nil
	}
	C.MSERDetector_Close(d.p)
	d.p = nil
	runtime.SetFinalizer(d, nil)
	return nil
}

// copyRegions copies native results into Go memory.
func copyRegions(out *C.MSERRegions) []Region {
	n := int(out.count)
	if n == 0 {
		return []Region{}
	}

	lengths := unsafe.Slice(out.lengths, n)
	boxes := unsafe.Slice(out.boxes, 4*n)

	total := 0
	for _, l := range lengths {
		total += int(l)
	}
	coords := unsafe.Slice(out.coords, 2*total)

	regions := make([]Region, n)
	k := 0
	for i := 0; i < n; i++ {
		pts := make([]image.Point, int(lengths[i]))
		for j := range pts {
			pts[j] = image.Point{X: int(coords[k]), Y: int(coords[k+1])}
			k += 2
		}
		x, y := int(boxes[4*i]), int(boxes[4*i+1])
		w, h := int(boxes[4*i+2]), int(boxes[4*i+3])
		regions[i] = Region{
			Points: pts,
			Bounds: image.Rect(x, y, x+w, y+h),
		}
	}
	return regions
}

// takeError converts and frees a native error message.
func takeError(cerr *C.char) string {
	if cerr == nil {
		return "unknown error"
	}
	defer C.free(unsafe.Pointer(cerr))
	return C.GoString(cerr)
}
