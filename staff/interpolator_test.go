package staff

import (
	"testing"

	"github.com/chantlab/neumatic/model"
)

func TestInterpolator_DegenerateGroup(t *testing.T) {
	it := NewInterpolator()

	if _, ok := it.Region(1, nil); ok {
		t.Error("Expected no region for empty group")
	}

	// Single point: zero-extent bounding box.
	if _, ok := it.Region(1, []model.Polygon{{{X: 5, Y: 5}}}); ok {
		t.Error("Expected no region for zero-area group")
	}

	// Horizontal line of points: positive width, zero height.
	flat := model.Polygon{{X: 0, Y: 10}, {X: 50, Y: 10}, {X: 100, Y: 10}}
	if _, ok := it.Region(1, []model.Polygon{flat}); ok {
		t.Error("Expected no region for zero-height group")
	}
}

func TestInterpolator_RegionShape(t *testing.T) {
	it := NewInterpolator()
	group := []model.Polygon{
		bandPolygon(0, 200, 100, 170),
	}

	region, ok := it.Region(3, group)
	if !ok {
		t.Fatal("Expected a region")
	}

	if region.N != 3 {
		t.Errorf("Expected staff number 3, got %d", region.N)
	}
	if region.NumLines != 4 {
		t.Errorf("Expected 4 notated lines, got %d", region.NumLines)
	}
	if len(region.Curves) != model.CurveCount {
		t.Fatalf("Expected %d curves, got %d", model.CurveCount, len(region.Curves))
	}
	for i, curve := range region.Curves {
		if len(curve) != model.CurveSamples {
			t.Errorf("Curve %d: expected %d samples, got %d", i, model.CurveSamples, len(curve))
		}
	}

	if region.BBox.ULX != 0 || region.BBox.ULY != 100 || region.BBox.LRX() != 200 || region.BBox.LRY() != 170 {
		t.Errorf("Unexpected bounding box: %+v", region.BBox)
	}
}

func TestInterpolator_CurvesOrderedTopToBottom(t *testing.T) {
	it := NewInterpolator()
	group := []model.Polygon{bandPolygon(0, 500, 1000, 1140)}

	region, ok := it.Region(1, group)
	if !ok {
		t.Fatal("Expected a region")
	}

	prev := CurveMeanY(region.Curves[0])
	for i := 1; i < len(region.Curves); i++ {
		mean := CurveMeanY(region.Curves[i])
		if mean < prev {
			t.Errorf("Curve %d mean y %f above curve %d mean y %f", i, mean, i-1, prev)
		}
		prev = mean
	}

	// First and last curves hug the box edges.
	if top := CurveMeanY(region.Curves[0]); top < 1000 || top > 1010 {
		t.Errorf("Topmost curve should sit near the box top, mean y %f", top)
	}
	if bottom := CurveMeanY(region.Curves[7]); bottom < 1130 || bottom > 1140 {
		t.Errorf("Bottommost curve should sit near the box bottom, mean y %f", bottom)
	}
}

// A group with points only at the box corners leaves the middle anchors
// without enough band candidates, which must fall back to straight lines at
// the anchor positions rather than failing.
func TestInterpolator_SparseFallback(t *testing.T) {
	it := NewInterpolator()
	group := []model.Polygon{
		{{X: 0, Y: 0}, {X: 700, Y: 0}},
		{{X: 0, Y: 700}, {X: 700, Y: 700}},
	}

	region, ok := it.Region(1, group)
	if !ok {
		t.Fatal("Expected a region")
	}

	// Middle curves (anchors at 300 and 400, band 131.25) have no
	// candidates and fall back to horizontal lines at their anchors.
	for _, j := range []int{3, 4} {
		anchor := j * 700 / 7
		for _, pt := range region.Curves[j] {
			if pt.Y != anchor {
				t.Fatalf("Curve %d: expected fallback y %d, got %d", j, anchor, pt.Y)
			}
		}
	}
}

// A slanted staff interpolates slanted curves: the curve follows the y trend
// of the band's points across x.
func TestInterpolator_FollowsSlant(t *testing.T) {
	it := NewInterpolator()

	// Top edge rises 40 pixels over the width; bottom edge parallel.
	top := model.Polygon{}
	bottom := model.Polygon{}
	for x := 0; x <= 1000; x += 100 {
		top = append(top, model.Point{X: x, Y: 100 + x/25})
		bottom = append(bottom, model.Point{X: x, Y: 240 + x/25})
	}

	region, ok := it.Region(1, []model.Polygon{top, bottom})
	if !ok {
		t.Fatal("Expected a region")
	}

	first := region.Curves[0]
	if first[len(first)-1].Y <= first[0].Y {
		t.Errorf("Topmost curve should slant downward with the staff: start %d, end %d",
			first[0].Y, first[len(first)-1].Y)
	}
}

func TestInterpolator_Deterministic(t *testing.T) {
	it := NewInterpolator()
	group := []model.Polygon{bandPolygon(10, 800, 50, 200)}

	a, _ := it.Region(1, group)
	b, _ := it.Region(1, group)

	for i := range a.Curves {
		for j := range a.Curves[i] {
			if a.Curves[i][j] != b.Curves[i][j] {
				t.Fatalf("Curve %d sample %d differs between runs", i, j)
			}
		}
	}
}
