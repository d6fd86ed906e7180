package detection

import (
	"image"
	"sort"
)

// Default grouping thresholds used for zero LineOptions fields.
const (
	DefaultMinHeight          = 8
	DefaultMaxHeight          = 300
	DefaultMinAspect          = 0.1
	DefaultMaxAspect          = 5.0
	DefaultGapFactor          = 1.5
	DefaultMinVerticalOverlap = 0.5
	DefaultMinMembers         = 2
)

// LineOptions controls how character boxes are chained into text lines.
// Zero fields take the corresponding Default* value.
type LineOptions struct {
	// MinHeight and MaxHeight bound the pixel height of a character box.
	MinHeight int
	MaxHeight int

	// MinAspect and MaxAspect bound a character box's width/height ratio.
	MinAspect float64
	MaxAspect float64

	// GapFactor limits the horizontal gap between neighbouring characters to
	// GapFactor times the mean character height of the line.
	GapFactor float64

	// MinVerticalOverlap is the minimum shared vertical extent of two
	// neighbours, as a fraction of the shorter box's height (0-1).
	MinVerticalOverlap float64

	// MinMembers is the smallest number of characters that makes a line.
	MinMembers int
}

// DefaultLineOptions returns the default grouping thresholds.
func DefaultLineOptions() LineOptions {
	return LineOptions{
		MinHeight:          DefaultMinHeight,
		MaxHeight:          DefaultMaxHeight,
		MinAspect:          DefaultMinAspect,
		MaxAspect:          DefaultMaxAspect,
		GapFactor:          DefaultGapFactor,
		MinVerticalOverlap: DefaultMinVerticalOverlap,
		MinMembers:         DefaultMinMembers,
	}
}

func (o LineOptions) withDefaults() LineOptions {
	d := DefaultLineOptions()
	if o.MinHeight <= 0 {
		o.MinHeight = d.MinHeight
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = d.MaxHeight
	}
	if o.MinAspect <= 0 {
		o.MinAspect = d.MinAspect
	}
	if o.MaxAspect <= 0 {
		o.MaxAspect = d.MaxAspect
	}
	if o.GapFactor <= 0 {
		o.GapFactor = d.GapFactor
	}
	if o.MinVerticalOverlap <= 0 {
		o.MinVerticalOverlap = d.MinVerticalOverlap
	}
	if o.MinMembers <= 0 {
		o.MinMembers = d.MinMembers
	}
	return o
}

// TextLine is a horizontal run of character boxes.
type TextLine struct {
	// Bounds is the union of the member boxes.
	Bounds image.Rectangle

	// Members are indices into the boxes passed to GroupTextLines, ordered
	// left to right.
	Members []int
}

// GroupTextLines chains character-like boxes into text lines.
//
// Boxes are typically MSER region bounds. Processing runs in four steps:
//
//  1. Filtering: keep boxes whose height and aspect ratio look like a glyph.
//  2. Deduplication: drop boxes lying inside another kept box, so nested
//     detections of one glyph (and glyph holes) count once.
//  3. Chaining: scanning left to right, attach each box to the line whose
//     last box it overlaps vertically and follows within the gap limit.
//  4. Merging: lines whose bounds overlap on the same row are combined.
//
// Lines with fewer than MinMembers boxes are dropped. The result is sorted
// top-to-bottom, then left-to-right, and is empty (never nil) when no line
// is found.
func GroupTextLines(boxes []image.Rectangle, opts LineOptions) []TextLine {
	opts = opts.withDefaults()

	candidates := filterGlyphs(boxes, opts)
	candidates = dropNested(boxes, candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := boxes[candidates[i]], boxes[candidates[j]]
		if a.Min.X != b.Min.X {
			return a.Min.X < b.Min.X
		}
		return a.Min.Y < b.Min.Y
	})

	var chains []*chain
	for _, idx := range candidates {
		box := boxes[idx]
		var best *chain
		bestGap := 0
		for _, c := range chains {
			last := boxes[c.members[len(c.members)-1]]
			if verticalOverlap(last, box) < opts.MinVerticalOverlap {
				continue
			}
			gap := box.Min.X - last.Max.X
			limit := opts.GapFactor * c.meanHeight(box.Dy())
			if float64(gap) > limit {
				continue
			}
			if best == nil || gap < bestGap {
				best, bestGap = c, gap
			}
		}
		if best == nil {
			best = &chain{}
			chains = append(chains, best)
		}
		best.add(idx, box)
	}

	lines := make([]TextLine, 0, len(chains))
	for _, c := range chains {
		if len(c.members) < opts.MinMembers {
			continue
		}
		lines = append(lines, TextLine{Bounds: c.bounds, Members: c.members})
	}

	lines = mergeOverlappingLines(boxes, lines, opts.MinVerticalOverlap)

	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i].Bounds, lines[j].Bounds
		if a.Min.Y != b.Min.Y {
			return a.Min.Y < b.Min.Y
		}
		return a.Min.X < b.Min.X
	})

	return lines
}

// chain is a text line under construction.
type chain struct {
	members     []int
	bounds      image.Rectangle
	totalHeight int
}

func (c *chain) add(idx int, box image.Rectangle) {
	if len(c.members) == 0 {
		c.bounds = box
	} else {
		c.bounds = c.bounds.Union(box)
	}
	c.members = append(c.members, idx)
	c.totalHeight += box.Dy()
}

// meanHeight is the mean member height including a candidate of height h.
func (c *chain) meanHeight(h int) float64 {
	return float64(c.totalHeight+h) / float64(len(c.members)+1)
}

// filterGlyphs returns the indices of boxes with glyph-like size and shape.
func filterGlyphs(boxes []image.Rectangle, opts LineOptions) []int {
	kept := make([]int, 0, len(boxes))
	for i, b := range boxes {
		h := b.Dy()
		if b.Empty() || h < opts.MinHeight || h > opts.MaxHeight {
			continue
		}
		aspect := float64(b.Dx()) / float64(h)
		if aspect < opts.MinAspect || aspect > opts.MaxAspect {
			continue
		}
		kept = append(kept, i)
	}
	return kept
}

// dropNested removes candidates lying inside another candidate. Of identical
// boxes the first one is kept.
func dropNested(boxes []image.Rectangle, candidates []int) []int {
	kept := make([]int, 0, len(candidates))
	for _, i := range candidates {
		inner := boxes[i]
		nested := false
		for _, j := range candidates {
			if i == j {
				continue
			}
			outer := boxes[j]
			if !inner.In(outer) {
				continue
			}
			if inner != outer || j < i {
				nested = true
				break
			}
		}
		if !nested {
			kept = append(kept, i)
		}
	}
	return kept
}

// verticalOverlap returns the shared vertical extent of a and b as a fraction
// of the shorter height.
func verticalOverlap(a, b image.Rectangle) float64 {
	top := maxInt(a.Min.Y, b.Min.Y)
	bottom := minInt(a.Max.Y, b.Max.Y)
	if bottom <= top {
		return 0
	}
	shorter := minInt(a.Dy(), b.Dy())
	if shorter <= 0 {
		return 0
	}
	return float64(bottom-top) / float64(shorter)
}

// mergeOverlappingLines combines lines whose bounds overlap and share a row,
// repeating until no pair qualifies.
func mergeOverlappingLines(boxes []image.Rectangle, lines []TextLine, minOverlap float64) []TextLine {
	for {
		merged := make([]TextLine, 0, len(lines))
		changed := false

		for _, l := range lines {
			foundMerge := false
			for i := range merged {
				if boundsOverlap(l.Bounds, merged[i].Bounds) &&
					verticalOverlap(l.Bounds, merged[i].Bounds) >= minOverlap {
					merged[i].Bounds = merged[i].Bounds.Union(l.Bounds)
					merged[i].Members = append(merged[i].Members, l.Members...)
					foundMerge = true
					changed = true
					break
				}
			}
			if !foundMerge {
				merged = append(merged, l)
			}
		}

		lines = merged
		if !changed {
			break
		}
	}

	for i := range lines {
		members := lines[i].Members
		sort.SliceStable(members, func(a, b int) bool {
			return boxes[members[a]].Min.X < boxes[members[b]].Min.X
		})
	}
	return lines
}

// boundsOverlap checks if two rectangles share any pixel.
func boundsOverlap(a, b image.Rectangle) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X && a.Min.Y < b.Max.Y && a.Max.Y > b.Min.Y
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
