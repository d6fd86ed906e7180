package mser

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// grayFrame returns an 8-bit single channel copy of img whose pixel buffer
// is tightly packed with its origin at (0,0), as the native side expects.
// Images that already satisfy this are returned unchanged.
func grayFrame(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return packGray(g)
	}

	// bild writes the luminance into all three color channels of an RGBA.
	rgba := effect.Grayscale(img)
	b := rgba.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride : (y+1)*out.Stride]
		for x := range dst {
			dst[x] = src[4*x]
		}
	}
	return out
}

func packGray(g *image.Gray) *image.Gray {
	b := g.Bounds()
	if b.Min == (image.Point{}) && g.Stride == b.Dx() {
		return g
	}

	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], src[:b.Dx()])
	}
	return out
}
