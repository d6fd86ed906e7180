package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Overlay is one shape to draw on top of an image.
type Overlay struct {
	// Points are filled with the overlay color. May be empty.
	Points []image.Point

	// Bounds is outlined when OverlayOptions.ShowBoxes is set.
	Bounds image.Rectangle

	// Label is drawn at the top-left of Bounds when labels are enabled.
	// Only digits and commas are rendered.
	Label string
}

// OverlayOptions controls how overlays are rendered.
type OverlayOptions struct {
	// FillAlpha blends region pixels toward the overlay color (0-1).
	FillAlpha float64

	// ShowBoxes outlines each overlay's Bounds.
	ShowBoxes bool

	// ShowLabels draws each overlay's Label.
	ShowLabels bool

	// BoxColor overrides the outline color ("#RRGGBB" or "#RRGGBBAA").
	// Empty uses the overlay's palette color.
	BoxColor string
}

// OverlayResult contains the rendered overlay image.
type OverlayResult struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ImageBase64  string `json:"image_base64"`
	MimeType     string `json:"mime_type"`
	OverlayCount int    `json:"overlay_count"`
}

// RenderOverlay draws overlays on a copy of img and returns it as a base64 PNG.
//
// Each overlay gets the next color from Palette, so the i-th overlay is
// always drawn in the same color for a given input order.
func RenderOverlay(img image.Image, overlays []Overlay, opts OverlayOptions) (*OverlayResult, error) {
	bounds := img.Bounds()

	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	alpha := opts.FillAlpha
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	var boxColor color.Color
	if opts.BoxColor != "" {
		c, err := parseHexColor(opts.BoxColor)
		if err != nil {
			return nil, fmt.Errorf("invalid box color %q: %w", opts.BoxColor, err)
		}
		boxColor = c
	}

	palette := Palette(len(overlays))
	for i, ov := range overlays {
		fill := palette[i]

		if alpha > 0 {
			for _, p := range ov.Points {
				if !p.In(bounds) {
					continue
				}
				base, _ := colorful.MakeColor(result.RGBAAt(p.X, p.Y))
				result.Set(p.X, p.Y, base.BlendRgb(fill, alpha).Clamped())
			}
		}

		if opts.ShowBoxes {
			var outline color.Color = fill
			if boxColor != nil {
				outline = boxColor
			}
			drawRect(result, ov.Bounds, outline)
		}

		if opts.ShowLabels && ov.Label != "" {
			drawLabel(result, ov.Bounds.Min.X+1, ov.Bounds.Min.Y+1, ov.Label,
				color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	return &OverlayResult{
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		ImageBase64:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:     "image/png",
		OverlayCount: len(overlays),
	}, nil
}

// drawRect outlines r (Max exclusive) clipped to the image.
func drawRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	x2, y2 := r.Max.X-1, r.Max.Y-1
	bounds := img.Bounds()
	set := func(x, y int) {
		if image.Pt(x, y).In(bounds) {
			img.Set(x, y, c)
		}
	}
	for x := r.Min.X; x <= x2; x++ {
		set(x, r.Min.Y)
		set(x, y2)
	}
	for y := r.Min.Y; y <= y2; y++ {
		set(r.Min.X, y)
		set(x2, y)
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}
}

// glyphs is a 3x5 pixel font for region index labels.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws text with the 3x5 glyph font on a filled background box.
// Unknown characters advance the cursor without drawing.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px, py := cx+col, y+row
				if image.Pt(px, py).In(bounds) {
					img.Set(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
