package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// RegionFromRect converts an image.Rectangle to a Region.
func RegionFromRect(r image.Rectangle) Region {
	return Region{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Limits on the resize step of Preprocess.
const (
	MaxScale  = 8.0
	MaxPixels = 64 << 20
)

// PreprocessOptions controls image preparation before region detection.
// The zero value leaves the image untouched.
type PreprocessOptions struct {
	// ROI restricts processing to a sub-rectangle of the source image.
	ROI *Region

	// Scale resizes the (cropped) image. 0 and 1 mean no resize.
	// Upscaling helps MSER find small glyphs; downscaling speeds up large scans.
	Scale float64

	// BlurSigma applies a Gaussian blur with this standard deviation.
	// 0 disables blurring.
	BlurSigma float64

	// Contrast adjusts contrast in the range -1 to 1. 0 disables it.
	Contrast float64
}

// Prepared is a preprocessed image together with the transform back to the
// source image's coordinate space.
type Prepared struct {
	// Image is the image to run detection on.
	Image image.Image

	// Origin is the source coordinate of Image's (0,0) when a transform was
	// applied, or the zero point when Image is the untouched source.
	Origin image.Point

	// Scale is the resize factor that was applied (1 when none).
	Scale float64
}

// Preprocess applies the requested crop, resize, blur and contrast steps.
//
// Parameters:
//   - img: Source image.
//   - opts: Steps to apply. Steps run in the order crop, scale, blur, contrast.
//
// Returns:
//   - *Prepared: The processed image and how to map coordinates back.
//   - error: Non-nil if the ROI is outside the image or inverted, or the scale
//     is negative, not finite, above MaxScale or would produce more than
//     MaxPixels.
//
// When no step is requested the source image is returned as-is and its own
// coordinates remain valid.
func Preprocess(img image.Image, opts PreprocessOptions) (*Prepared, error) {
	bounds := img.Bounds()

	if opts.Scale < 0 || math.IsNaN(opts.Scale) || math.IsInf(opts.Scale, 0) {
		return nil, fmt.Errorf("invalid scale %g: must be positive", opts.Scale)
	}
	if opts.Scale > MaxScale {
		return nil, fmt.Errorf("invalid scale %g: must be at most %g", opts.Scale, MaxScale)
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1.0
	}

	rect := bounds
	if opts.ROI != nil {
		roi := *opts.ROI
		if roi.X1 >= roi.X2 || roi.Y1 >= roi.Y2 {
			return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
		rect = roi.Rect()
		if !rect.In(bounds) {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
	}

	w := math.Round(float64(rect.Dx()) * scale)
	h := math.Round(float64(rect.Dy()) * scale)
	if scale > 1 && w*h > MaxPixels {
		return nil, fmt.Errorf("invalid scale %g: %.0fx%.0f result exceeds %d pixels", scale, w, h, MaxPixels)
	}

	if opts.ROI == nil && scale == 1.0 && opts.BlurSigma <= 0 && opts.Contrast == 0 {
		return &Prepared{Image: img, Scale: 1.0}, nil
	}

	// Crop always runs so the result has a (0,0) origin.
	var out image.Image = imaging.Crop(img, rect)

	if scale != 1.0 {
		out = imaging.Resize(out, maxInt(int(w), 1), maxInt(int(h), 1), imaging.Lanczos)
	}

	if opts.BlurSigma > 0 {
		out = blur.Gaussian(out, opts.BlurSigma)
	}

	if opts.Contrast != 0 {
		out = adjust.Contrast(out, opts.Contrast)
	}

	return &Prepared{Image: out, Origin: rect.Min, Scale: scale}, nil
}

// MapPoint converts a point in the prepared image to source coordinates.
func (p *Prepared) MapPoint(pt image.Point) image.Point {
	if p.Scale == 1.0 {
		return pt.Add(p.Origin)
	}
	return image.Point{
		X: p.Origin.X + int(math.Floor(float64(pt.X)/p.Scale)),
		Y: p.Origin.Y + int(math.Floor(float64(pt.Y)/p.Scale)),
	}
}

// MapRect converts a rectangle in the prepared image to the smallest source
// rectangle covering it.
func (p *Prepared) MapRect(r image.Rectangle) image.Rectangle {
	if p.Scale == 1.0 {
		return r.Add(p.Origin)
	}
	return image.Rect(
		p.Origin.X+int(math.Floor(float64(r.Min.X)/p.Scale)),
		p.Origin.Y+int(math.Floor(float64(r.Min.Y)/p.Scale)),
		p.Origin.X+int(math.Ceil(float64(r.Max.X)/p.Scale)),
		p.Origin.Y+int(math.Ceil(float64(r.Max.Y)/p.Scale)),
	)
}

// CropPadded crops r expanded by padding pixels on every side, clamped to
// the image bounds. The result has a (0,0) origin.
func CropPadded(img image.Image, r image.Rectangle, padding int) image.Image {
	if padding > 0 {
		r = r.Inset(-padding)
	}
	r = r.Intersect(img.Bounds())
	return imaging.Crop(img, r)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
