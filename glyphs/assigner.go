// Package glyphs matches classified glyph detections to the staff regions
// they spatially belong to.
package glyphs

import (
	"math"
	"sort"

	"github.com/chantlab/neumatic/model"
)

// insideWeight discounts the vertical-distance score when the glyph center
// falls within the candidate region's vertical span, so a glyph inside a
// region beats one that is merely near it.
const insideWeight = 0.5

// AssignResult holds the assigned glyphs and everything that could not be
// assigned.
type AssignResult struct {
	// Assigned are the matched glyphs, ordered by staff number and then
	// left to right within each staff.
	Assigned []model.AssignedGlyph

	// Unassigned are glyphs with no horizontally overlapping region.
	// They are dropped from the pipeline but reported to the caller.
	Unassigned []model.GlyphDetection

	// Discarded counts glyphs removed up front (skip-edge artifacts).
	Discarded int
}

// ByStaff returns the assigned glyphs belonging to the given staff number,
// in left-to-right order.
func (r *AssignResult) ByStaff(n int) []model.AssignedGlyph {
	var out []model.AssignedGlyph
	for _, g := range r.Assigned {
		if g.Staff == n {
			out = append(out, g)
		}
	}
	return out
}

// Assigner matches glyphs to staff regions.
type Assigner struct{}

// NewAssigner creates a glyph assigner.
func NewAssigner() *Assigner {
	return &Assigner{}
}

// Assign matches each detection to a staff region. Skip-edge glyphs are
// discarded. A glyph is only eligible for regions it horizontally overlaps;
// among those, the region with the smallest weighted vertical-center
// distance wins, where the distance is halved when the glyph center lies
// inside the region's vertical span. Glyphs with no overlapping region are
// collected as unassigned.
func (a *Assigner) Assign(detections []model.GlyphDetection, regions []model.StaffRegion) *AssignResult {
	result := &AssignResult{}

	for _, det := range detections {
		if det.Class == model.SkipEdge {
			result.Discarded++
			continue
		}

		staff, ok := a.bestRegion(det.BBox, regions)
		if !ok {
			result.Unassigned = append(result.Unassigned, det)
			continue
		}

		result.Assigned = append(result.Assigned, model.AssignedGlyph{
			GlyphDetection: det,
			Staff:          staff,
			Offset:         det.BBox.ULX,
		})
	}

	sort.SliceStable(result.Assigned, func(i, j int) bool {
		if result.Assigned[i].Staff != result.Assigned[j].Staff {
			return result.Assigned[i].Staff < result.Assigned[j].Staff
		}
		return result.Assigned[i].Offset < result.Assigned[j].Offset
	})

	return result
}

// bestRegion scores the horizontally overlapping regions and returns the
// staff number of the best, or false when none overlap.
func (a *Assigner) bestRegion(glyph model.BBox, regions []model.StaffRegion) (int, bool) {
	centerY := glyph.CenterY()
	best := 0
	bestScore := math.Inf(1)

	for _, region := range regions {
		if !glyph.OverlapsHorizontally(region.BBox) {
			continue
		}

		score := math.Abs(centerY - region.BBox.CenterY())
		if region.BBox.ContainsY(centerY) {
			score *= insideWeight
		}

		if score < bestScore {
			bestScore = score
			best = region.N
		}
	}

	return best, best != 0
}
