package mser

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	want := Params{
		Delta:         5,
		MinArea:       60,
		MaxArea:       14400,
		MaxVariation:  0.25,
		MinDiversity:  0.2,
		MaxEvolution:  200,
		AreaThreshold: 1.01,
		MinMargin:     0.003,
		EdgeBlurSize:  5,
	}
	if p != want {
		t.Errorf("DefaultParams() = %+v, want %+v", p, want)
	}
}

func TestBuilder_ZeroOverridesResolveToDefaults(t *testing.T) {
	var zero Builder
	if got := zero.Params(); got != DefaultParams() {
		t.Errorf("zero Builder resolved to %+v, want defaults", got)
	}
	if got := NewBuilder().Params(); got != DefaultParams() {
		t.Errorf("NewBuilder() resolved to %+v, want defaults", got)
	}
}

func TestBuilder_Setters(t *testing.T) {
	tests := []struct {
		name  string
		build func(Builder) Builder
		check func(Params) bool
	}{
		{"delta", func(b Builder) Builder { return b.Delta(2) }, func(p Params) bool { return p.Delta == 2 }},
		{"min_area", func(b Builder) Builder { return b.MinArea(10) }, func(p Params) bool { return p.MinArea == 10 }},
		{"max_area", func(b Builder) Builder { return b.MaxArea(900) }, func(p Params) bool { return p.MaxArea == 900 }},
		{"max_variation", func(b Builder) Builder { return b.MaxVariation(0.5) }, func(p Params) bool { return p.MaxVariation == 0.5 }},
		{"min_diversity", func(b Builder) Builder { return b.MinDiversity(0.1) }, func(p Params) bool { return p.MinDiversity == 0.1 }},
		{"max_evolution", func(b Builder) Builder { return b.MaxEvolution(100) }, func(p Params) bool { return p.MaxEvolution == 100 }},
		{"area_threshold", func(b Builder) Builder { return b.AreaThreshold(1.5) }, func(p Params) bool { return p.AreaThreshold == 1.5 }},
		{"min_margin", func(b Builder) Builder { return b.MinMargin(0.01) }, func(p Params) bool { return p.MinMargin == 0.01 }},
		{"edge_blur_size", func(b Builder) Builder { return b.EdgeBlurSize(3) }, func(p Params) bool { return p.EdgeBlurSize == 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.build(NewBuilder()).Params()
			if !tt.check(p) {
				t.Errorf("override not applied: %+v", p)
			}

			// Every other field must still be at its default.
			def := DefaultParams()
			diffs := 0
			if p.Delta != def.Delta {
				diffs++
			}
			if p.MinArea != def.MinArea {
				diffs++
			}
			if p.MaxArea != def.MaxArea {
				diffs++
			}
			if p.MaxVariation != def.MaxVariation {
				diffs++
			}
			if p.MinDiversity != def.MinDiversity {
				diffs++
			}
			if p.MaxEvolution != def.MaxEvolution {
				diffs++
			}
			if p.AreaThreshold != def.AreaThreshold {
				diffs++
			}
			if p.MinMargin != def.MinMargin {
				diffs++
			}
			if p.EdgeBlurSize != def.EdgeBlurSize {
				diffs++
			}
			if diffs != 1 {
				t.Errorf("expected exactly one field to differ from defaults, got %d: %+v", diffs, p)
			}
		})
	}
}

func TestBuilder_LastWriteWins(t *testing.T) {
	p := NewBuilder().
		Delta(1).
		MinArea(5).
		Delta(9).
		MaxVariation(0.1).
		MinArea(70).
		MaxVariation(0.3).
		Params()

	if p.Delta != 9 {
		t.Errorf("Delta = %d, want 9", p.Delta)
	}
	if p.MinArea != 70 {
		t.Errorf("MinArea = %d, want 70", p.MinArea)
	}
	if p.MaxVariation != 0.3 {
		t.Errorf("MaxVariation = %g, want 0.3", p.MaxVariation)
	}
}

func TestBuilder_SettingDefaultValueIsStillAnOverride(t *testing.T) {
	a := NewBuilder().Delta(DefaultDelta)
	b := NewBuilder()
	if a.Params() != b.Params() {
		t.Error("setting a field to its default should resolve identically")
	}
	if a == b {
		t.Error("a builder with an explicit field should not compare equal to an empty one")
	}
}

func TestBuilder_CopySemantics(t *testing.T) {
	base := NewBuilder().Delta(3)
	small := base.MinArea(10)
	large := base.MinArea(5000)

	if base.Params().MinArea != DefaultMinArea {
		t.Errorf("base was modified by a derived setter: MinArea = %d", base.Params().MinArea)
	}
	if small.Params().MinArea != 10 || large.Params().MinArea != 5000 {
		t.Error("derived builders interfered with each other")
	}
	if small.Params().Delta != 3 || large.Params().Delta != 3 {
		t.Error("derived builders lost the base override")
	}
}

func TestBuilder_UsableAsMapKey(t *testing.T) {
	seen := map[Builder]int{}
	seen[NewBuilder().Delta(2)]++
	seen[NewBuilder().Delta(2)]++
	seen[NewBuilder().Delta(3)]++
	if len(seen) != 2 {
		t.Errorf("expected 2 distinct builders, got %d", len(seen))
	}
}

func TestBuilder_Merge(t *testing.T) {
	base := NewBuilder().Delta(4).MinArea(20).MaxArea(800)
	override := NewBuilder().MinArea(35).EdgeBlurSize(7)

	p := base.Merge(override).Params()
	if p.Delta != 4 {
		t.Errorf("Delta = %d, want 4 (kept from base)", p.Delta)
	}
	if p.MinArea != 35 {
		t.Errorf("MinArea = %d, want 35 (from override)", p.MinArea)
	}
	if p.MaxArea != 800 {
		t.Errorf("MaxArea = %d, want 800 (kept from base)", p.MaxArea)
	}
	if p.EdgeBlurSize != 7 {
		t.Errorf("EdgeBlurSize = %d, want 7 (from override)", p.EdgeBlurSize)
	}
	if p.MaxVariation != DefaultMaxVariation {
		t.Errorf("MaxVariation = %g, want default", p.MaxVariation)
	}

	if got := base.Merge(Builder{}); got != base {
		t.Error("merging an empty builder should be a no-op")
	}
}

func TestParams_String(t *testing.T) {
	s := DefaultParams().String()
	for _, want := range []string{"delta=5", "min_area=60", "max_area=14400", "max_variation=0.25", "edge_blur_size=5"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestNativeError(t *testing.T) {
	var err error = &NativeError{Op: "detect", Msg: "bad depth"}
	if !strings.Contains(err.Error(), "detect") || !strings.Contains(err.Error(), "bad depth") {
		t.Errorf("unexpected message %q", err.Error())
	}

	var ne *NativeError
	if !errors.As(err, &ne) {
		t.Fatal("errors.As failed for *NativeError")
	}
	if ne.Op != "detect" {
		t.Errorf("Op = %q, want detect", ne.Op)
	}
}

func TestRegion_Helpers(t *testing.T) {
	r := Region{
		Points: []image.Point{{2, 2}, {4, 2}, {2, 4}, {4, 4}},
		Bounds: image.Rect(2, 2, 5, 5),
	}

	if r.Area() != 4 {
		t.Errorf("Area() = %d, want 4", r.Area())
	}
	if c := r.Centroid(); c != (image.Point{3, 3}) {
		t.Errorf("Centroid() = %v, want (3,3)", c)
	}

	moved := r.Translate(image.Pt(10, 20))
	if moved.Bounds != image.Rect(12, 22, 15, 25) {
		t.Errorf("translated bounds = %v", moved.Bounds)
	}
	if moved.Points[0] != (image.Point{12, 22}) {
		t.Errorf("translated first point = %v", moved.Points[0])
	}
	if r.Points[0] != (image.Point{2, 2}) {
		t.Error("Translate modified the original region")
	}

	if c := (Region{}).Centroid(); c != (image.Point{}) {
		t.Errorf("empty region centroid = %v, want zero", c)
	}
}

func TestSplit(t *testing.T) {
	regions := []Region{
		{Points: []image.Point{{1, 1}}, Bounds: image.Rect(1, 1, 2, 2)},
		{Points: []image.Point{{5, 5}, {6, 5}}, Bounds: image.Rect(5, 5, 7, 6)},
	}

	points, boxes := Split(regions)
	if len(points) != len(boxes) {
		t.Fatalf("Split returned %d contours and %d boxes", len(points), len(boxes))
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(points))
	}
	if boxes[1] != image.Rect(5, 5, 7, 6) || len(points[1]) != 2 {
		t.Errorf("entry 1 misaligned: %v %v", points[1], boxes[1])
	}

	p, b := Split(nil)
	if len(p) != 0 || len(b) != 0 {
		t.Error("Split(nil) should return empty slices")
	}
}

func TestGrayFrame(t *testing.T) {
	t.Run("packed gray returned unchanged", func(t *testing.T) {
		g := image.NewGray(image.Rect(0, 0, 8, 4))
		if got := grayFrame(g); got != g {
			t.Error("expected the same *image.Gray back")
		}
	})

	t.Run("sub image is repacked at origin", func(t *testing.T) {
		g := image.NewGray(image.Rect(0, 0, 10, 10))
		g.SetGray(5, 6, color.Gray{Y: 200})
		sub := g.SubImage(image.Rect(4, 4, 8, 8)).(*image.Gray)

		out := grayFrame(sub)
		if out.Bounds() != image.Rect(0, 0, 4, 4) {
			t.Fatalf("bounds = %v, want (0,0)-(4,4)", out.Bounds())
		}
		if out.Stride != 4 {
			t.Errorf("stride = %d, want 4", out.Stride)
		}
		if v := out.GrayAt(1, 2).Y; v != 200 {
			t.Errorf("pixel (1,2) = %d, want 200", v)
		}
	})

	t.Run("color image converted", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 3, 3))
		img.Set(1, 1, color.White)
		out := grayFrame(img)
		if out.Bounds().Dx() != 3 || out.Bounds().Dy() != 3 {
			t.Fatalf("unexpected bounds %v", out.Bounds())
		}
		if out.GrayAt(1, 1).Y < 250 {
			t.Errorf("white pixel converted to %d", out.GrayAt(1, 1).Y)
		}
		if out.GrayAt(0, 0).Y != 0 {
			t.Errorf("transparent black pixel converted to %d", out.GrayAt(0, 0).Y)
		}
	})

	t.Run("color sub image with offset origin", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 12, 12))
		for i := range img.Pix {
			img.Pix[i] = 255
		}
		img.SetNRGBA(6, 7, color.NRGBA{0, 0, 0, 255})
		sub := img.SubImage(image.Rect(5, 5, 9, 9))

		out := grayFrame(sub)
		if out.Bounds() != image.Rect(0, 0, 4, 4) {
			t.Fatalf("bounds = %v, want (0,0)-(4,4)", out.Bounds())
		}
		if out.Stride != 4 {
			t.Errorf("stride = %d, want 4", out.Stride)
		}
		if v := out.GrayAt(1, 2).Y; v != 0 {
			t.Errorf("black pixel (1,2) = %d, want 0", v)
		}
		if v := out.GrayAt(0, 0).Y; v < 250 {
			t.Errorf("white pixel (0,0) = %d, want 255", v)
		}
	})
}
