package mser

import "fmt"

// Default tuning values applied to any parameter left unset on a Builder.
const (
	DefaultDelta         = 5
	DefaultMinArea       = 60
	DefaultMaxArea       = 14400
	DefaultMaxVariation  = 0.25
	DefaultMinDiversity  = 0.2
	DefaultMaxEvolution  = 200
	DefaultAreaThreshold = 1.01
	DefaultMinMargin     = 0.003
	DefaultEdgeBlurSize  = 5
)

// Params is a fully resolved MSER configuration.
//
// The integer fields are passed to OpenCV as C int and the float fields as
// double. No range validation is performed here.
type Params struct {
	// Delta is the intensity step used to compare region areas across thresholds.
	Delta int `json:"delta"`

	// MinArea and MaxArea bound the pixel area of reported regions.
	MinArea int `json:"min_area"`
	MaxArea int `json:"max_area"`

	// MaxVariation prunes regions whose relative area change exceeds it.
	MaxVariation float64 `json:"max_variation"`

	// MinDiversity prunes children too similar in size to their parent.
	MinDiversity float64 `json:"min_diversity"`

	// MaxEvolution, AreaThreshold, MinMargin and EdgeBlurSize only affect
	// color (3-channel) input.
	MaxEvolution  int     `json:"max_evolution"`
	AreaThreshold float64 `json:"area_threshold"`
	MinMargin     float64 `json:"min_margin"`
	EdgeBlurSize  int     `json:"edge_blur_size"`
}

// DefaultParams returns the documented default configuration.
func DefaultParams() Params {
	return Params{
		Delta:         DefaultDelta,
		MinArea:       DefaultMinArea,
		MaxArea:       DefaultMaxArea,
		MaxVariation:  DefaultMaxVariation,
		MinDiversity:  DefaultMinDiversity,
		MaxEvolution:  DefaultMaxEvolution,
		AreaThreshold: DefaultAreaThreshold,
		MinMargin:     DefaultMinMargin,
		EdgeBlurSize:  DefaultEdgeBlurSize,
	}
}

// String formats the parameters in a stable, log-friendly form.
func (p Params) String() string {
	return fmt.Sprintf("delta=%d min_area=%d max_area=%d max_variation=%g min_diversity=%g max_evolution=%d area_threshold=%g min_margin=%g edge_blur_size=%d",
		p.Delta, p.MinArea, p.MaxArea, p.MaxVariation, p.MinDiversity,
		p.MaxEvolution, p.AreaThreshold, p.MinMargin, p.EdgeBlurSize)
}

// field identifies one tunable parameter in a Builder's set mask.
type field uint16

const (
	fieldDelta field = 1 << iota
	fieldMinArea
	fieldMaxArea
	fieldMaxVariation
	fieldMinDiversity
	fieldMaxEvolution
	fieldAreaThreshold
	fieldMinMargin
	fieldEdgeBlurSize
)

// Builder accumulates optional parameter overrides.
//
// The zero value is ready to use and resolves to DefaultParams. Every setter
// returns an updated copy, so a Builder can be shared as a template:
//
//	base := mser.NewBuilder().Delta(4)
//	small := base.MinArea(10)
//	large := base.MinArea(500)
type Builder struct {
	set    field
	values Params
}

// NewBuilder returns an empty Builder.
func NewBuilder() Builder {
	return Builder{}
}

// Delta replaces the current delta.
func (b Builder) Delta(v int) Builder {
	b.values.Delta = v
	b.set |= fieldDelta
	return b
}

// MinArea replaces the current minimum region area.
func (b Builder) MinArea(v int) Builder {
	b.values.MinArea = v
	b.set |= fieldMinArea
	return b
}

// MaxArea replaces the current maximum region area.
func (b Builder) MaxArea(v int) Builder {
	b.values.MaxArea = v
	b.set |= fieldMaxArea
	return b
}

// MaxVariation replaces the current maximum variation.
func (b Builder) MaxVariation(v float64) Builder {
	b.values.MaxVariation = v
	b.set |= fieldMaxVariation
	return b
}

// MinDiversity replaces the current minimum diversity.
func (b Builder) MinDiversity(v float64) Builder {
	b.values.MinDiversity = v
	b.set |= fieldMinDiversity
	return b
}

// MaxEvolution replaces the current maximum evolution.
func (b Builder) MaxEvolution(v int) Builder {
	b.values.MaxEvolution = v
	b.set |= fieldMaxEvolution
	return b
}

// AreaThreshold replaces the current area threshold.
func (b Builder) AreaThreshold(v float64) Builder {
	b.values.AreaThreshold = v
	b.set |= fieldAreaThreshold
	return b
}

// MinMargin replaces the current minimum margin.
func (b Builder) MinMargin(v float64) Builder {
	b.values.MinMargin = v
	b.set |= fieldMinMargin
	return b
}

// EdgeBlurSize replaces the current edge blur size.
func (b Builder) EdgeBlurSize(v int) Builder {
	b.values.EdgeBlurSize = v
	b.set |= fieldEdgeBlurSize
	return b
}

// Merge returns b with every field that is set on other copied over.
// Fields unset on other keep b's value (set or not).
func (b Builder) Merge(other Builder) Builder {
	if other.set&fieldDelta != 0 {
		b = b.Delta(other.values.Delta)
	}
	if other.set&fieldMinArea != 0 {
		b = b.MinArea(other.values.MinArea)
	}
	if other.set&fieldMaxArea != 0 {
		b = b.MaxArea(other.values.MaxArea)
	}
	if other.set&fieldMaxVariation != 0 {
		b = b.MaxVariation(other.values.MaxVariation)
	}
	if other.set&fieldMinDiversity != 0 {
		b = b.MinDiversity(other.values.MinDiversity)
	}
	if other.set&fieldMaxEvolution != 0 {
		b = b.MaxEvolution(other.values.MaxEvolution)
	}
	if other.set&fieldAreaThreshold != 0 {
		b = b.AreaThreshold(other.values.AreaThreshold)
	}
	if other.set&fieldMinMargin != 0 {
		b = b.MinMargin(other.values.MinMargin)
	}
	if other.set&fieldEdgeBlurSize != 0 {
		b = b.EdgeBlurSize(other.values.EdgeBlurSize)
	}
	return b
}

// Params resolves the builder, substituting defaults for unset fields.
func (b Builder) Params() Params {
	p := DefaultParams()
	if b.set&fieldDelta != 0 {
		p.Delta = b.values.Delta
	}
	if b.set&fieldMinArea != 0 {
		p.MinArea = b.values.MinArea
	}
	if b.set&fieldMaxArea != 0 {
		p.MaxArea = b.values.MaxArea
	}
	if b.set&fieldMaxVariation != 0 {
		p.MaxVariation = b.values.MaxVariation
	}
	if b.set&fieldMinDiversity != 0 {
		p.MinDiversity = b.values.MinDiversity
	}
	if b.set&fieldMaxEvolution != 0 {
		p.MaxEvolution = b.values.MaxEvolution
	}
	if b.set&fieldAreaThreshold != 0 {
		p.AreaThreshold = b.values.AreaThreshold
	}
	if b.set&fieldMinMargin != 0 {
		p.MinMargin = b.values.MinMargin
	}
	if b.set&fieldEdgeBlurSize != 0 {
		p.EdgeBlurSize = b.values.EdgeBlurSize
	}
	return p
}

// Build resolves the builder and constructs a Detector from the result.
func (b Builder) Build() (*Detector, error) {
	return New(b.Params())
}
