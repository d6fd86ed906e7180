package imaging

import (
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorInfo describes one color in several representations.
type ColorInfo struct {
	Hex string   `json:"hex"` // Hex format "#rrggbb"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// newColorInfo converts a colorful.Color into a ColorInfo.
func newColorInfo(c colorful.Color) ColorInfo {
	c = c.Clamped()
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorInfo{
		Hex: c.Hex(),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// RegionColor returns the mean color of the given pixels.
//
// Averaging happens in linear RGB, so a region that is half black and half
// white averages to a perceptual mid gray rather than a dark one. Points
// outside the image are skipped; if none remain the result is black.
func RegionColor(img image.Image, points []image.Point) ColorInfo {
	bounds := img.Bounds()

	var sr, sg, sb float64
	n := 0
	for _, p := range points {
		if !p.In(bounds) {
			continue
		}
		c, ok := colorful.MakeColor(img.At(p.X, p.Y))
		if !ok {
			// Fully transparent pixels carry no color.
			continue
		}
		r, g, b := c.LinearRgb()
		sr += r
		sg += g
		sb += b
		n++
	}

	if n == 0 {
		return newColorInfo(colorful.Color{})
	}
	k := float64(n)
	return newColorInfo(colorful.LinearRgb(sr/k, sg/k, sb/k))
}

// goldenAngle spaces successive palette hues so neighbours never look alike.
const goldenAngle = 137.508

// Palette returns n visually distinct colors. The sequence is deterministic:
// Palette(n)[i] == Palette(m)[i] for any i below both n and m.
func Palette(n int) []colorful.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]colorful.Color, n)
	for i := range colors {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		colors[i] = colorful.Hsv(hue, 0.85, 0.95)
	}
	return colors
}
