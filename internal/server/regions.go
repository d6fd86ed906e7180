package server

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/mser-tools-mcp/internal/imaging"
	"github.com/ironsheep/mser-tools-mcp/internal/mser"
)

// detectArgs are the arguments shared by every tool that runs detection.
//
// The nine MSER parameters are pointers so an explicit value, including one
// equal to the default, can be told apart from an omitted one.
type detectArgs struct {
	Path string `json:"path"`

	Delta         *int     `json:"delta"`
	MinArea       *int     `json:"min_area"`
	MaxArea       *int     `json:"max_area"`
	MaxVariation  *float64 `json:"max_variation"`
	MinDiversity  *float64 `json:"min_diversity"`
	MaxEvolution  *int     `json:"max_evolution"`
	AreaThreshold *float64 `json:"area_threshold"`
	MinMargin     *float64 `json:"min_margin"`
	EdgeBlurSize  *int     `json:"edge_blur_size"`

	// Color runs OpenCV's color MSER on the RGB image instead of grayscale.
	Color bool `json:"color"`

	Region    *imaging.Region `json:"region"`
	Scale     float64         `json:"scale"`
	BlurSigma float64         `json:"blur_sigma"`
	Contrast  float64         `json:"contrast"`

	IncludePoints bool   `json:"include_points"`
	MaxRegions    int    `json:"max_regions"`
	Sort          string `json:"sort"`
}

// overrides returns a builder with only the parameters given in the call set.
func (a *detectArgs) overrides() mser.Builder {
	b := mser.NewBuilder()
	if a.Delta != nil {
		b = b.Delta(*a.Delta)
	}
	if a.MinArea != nil {
		b = b.MinArea(*a.MinArea)
	}
	if a.MaxArea != nil {
		b = b.MaxArea(*a.MaxArea)
	}
	if a.MaxVariation != nil {
		b = b.MaxVariation(*a.MaxVariation)
	}
	if a.MinDiversity != nil {
		b = b.MinDiversity(*a.MinDiversity)
	}
	if a.MaxEvolution != nil {
		b = b.MaxEvolution(*a.MaxEvolution)
	}
	if a.AreaThreshold != nil {
		b = b.AreaThreshold(*a.AreaThreshold)
	}
	if a.MinMargin != nil {
		b = b.MinMargin(*a.MinMargin)
	}
	if a.EdgeBlurSize != nil {
		b = b.EdgeBlurSize(*a.EdgeBlurSize)
	}
	return b
}

// Sort orders accepted by the sort argument.
const (
	sortNone     = "none"
	sortArea     = "area"
	sortPosition = "position"
)

func (a *detectArgs) validate() error {
	if a.MaxRegions < 0 {
		return fmt.Errorf("invalid max_regions %d: must not be negative", a.MaxRegions)
	}
	switch a.Sort {
	case "", sortNone, sortArea, sortPosition:
		return nil
	default:
		return fmt.Errorf("invalid sort %q: want %q, %q or %q", a.Sort, sortNone, sortArea, sortPosition)
	}
}

// detection is the outcome of running MSER on one tool call's image.
type detection struct {
	// source is the decoded, unprocessed image.
	source image.Image

	// regions are in source image coordinates, ordered per the sort argument.
	regions []mser.Region

	params mser.Params
}

// detect loads, preprocesses and runs MSER according to a.
func (s *Server) detect(a *detectArgs) (*detection, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	prep, err := imaging.Preprocess(img, imaging.PreprocessOptions{
		ROI:       a.Region,
		Scale:     a.Scale,
		BlurSigma: a.BlurSigma,
		Contrast:  a.Contrast,
	})
	if err != nil {
		return nil, err
	}

	params := s.baseline.Merge(a.overrides()).Params()
	regions, err := s.runDetector(params, prep.Image, a.Color)
	if err != nil {
		return nil, err
	}

	if prep.Origin != (image.Point{}) || prep.Scale != 1 {
		for i, r := range regions {
			regions[i] = mapRegion(prep, r)
		}
	}

	sortRegions(regions, a.Sort)

	return &detection{source: img, regions: regions, params: params}, nil
}

// runDetector runs detection with the cached detector for p. A detector
// evicted and closed by a concurrent call is replaced once.
func (s *Server) runDetector(p mser.Params, img image.Image, color bool) ([]mser.Region, error) {
	for attempt := 0; ; attempt++ {
		d, err := s.detectors.get(p)
		if err != nil {
			return nil, err
		}
		var regions []mser.Region
		if color {
			regions, err = d.DetectImageColor(img)
		} else {
			regions, err = d.DetectImage(img)
		}
		if errors.Is(err, mser.ErrClosed) && attempt == 0 {
			continue
		}
		return regions, err
	}
}

// mapRegion converts a region found in a preprocessed image back to source
// coordinates. Downscaled regions may map several points onto one pixel;
// duplicates are dropped.
func mapRegion(prep *imaging.Prepared, r mser.Region) mser.Region {
	pts := make([]image.Point, 0, len(r.Points))
	var seen map[image.Point]struct{}
	if prep.Scale < 1 {
		seen = make(map[image.Point]struct{}, len(r.Points))
	}
	for _, p := range r.Points {
		q := prep.MapPoint(p)
		if seen != nil {
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
		}
		pts = append(pts, q)
	}
	return mser.Region{Points: pts, Bounds: prep.MapRect(r.Bounds)}
}

// sortRegions orders regions in place. Unknown and empty orders keep the
// detector's order.
func sortRegions(regions []mser.Region, order string) {
	switch order {
	case sortArea:
		sort.SliceStable(regions, func(i, j int) bool {
			return regions[i].Area() > regions[j].Area()
		})
	case sortPosition:
		sort.SliceStable(regions, func(i, j int) bool {
			a, b := regions[i].Bounds.Min, regions[j].Bounds.Min
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.X < b.X
		})
	}
}

// limit returns the region cap for a call.
func (s *Server) limit(a *detectArgs) int {
	if a.MaxRegions > 0 {
		return a.MaxRegions
	}
	return s.cfg.MaxRegions
}

// pointResult is a pixel coordinate.
type pointResult struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// regionResult describes one detected region.
type regionResult struct {
	Index      int               `json:"index"`
	Bounds     imaging.Region    `json:"bounds"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	PointCount int               `json:"point_count"`
	Centroid   pointResult       `json:"centroid"`
	Color      imaging.ColorInfo `json:"color"`

	// Points are [x, y] pairs, present only when include_points is set.
	Points [][2]int `json:"points,omitempty"`
}

// DetectRegionsResult is the response of mser_detect_regions.
type DetectRegionsResult struct {
	Regions   []regionResult `json:"regions"`
	Count     int            `json:"count"`
	Total     int            `json:"total"`
	Truncated bool           `json:"truncated"`
	Params    mser.Params    `json:"params"`
}

func newRegionResult(img image.Image, i int, r mser.Region, includePoints bool) regionResult {
	c := r.Centroid()
	res := regionResult{
		Index:      i,
		Bounds:     imaging.RegionFromRect(r.Bounds),
		Width:      r.Bounds.Dx(),
		Height:     r.Bounds.Dy(),
		PointCount: r.Area(),
		Centroid:   pointResult{X: c.X, Y: c.Y},
		Color:      imaging.RegionColor(img, r.Points),
	}
	if includePoints {
		res.Points = make([][2]int, len(r.Points))
		for j, p := range r.Points {
			res.Points[j] = [2]int{p.X, p.Y}
		}
	}
	return res
}
