// Package reconcile keeps the symbolic document's zones and structural
// markers consistent with the geometric record.
//
// Every transform takes a document and geometry, works on a clone, and
// returns the updated document with a result describing what changed. The
// transforms are idempotent except for id assignment, which always reuses
// ids already present.
package reconcile

import (
	"fmt"

	"github.com/chantlab/neumatic/mei"
	"github.com/chantlab/neumatic/model"
)

// Result describes one reconciliation pass.
type Result struct {
	// Recreated is true when a zone/staff count mismatch forced the
	// destructive-but-consistent path: all zones discarded and rebuilt.
	Recreated bool

	// Patched counts zones updated in place.
	Patched int

	// Filled counts placeholder zones filled from geometry sources.
	Filled int

	// Residual lists the ids of placeholder zones left unfilled because
	// the geometry sources ran out.
	Residual []string

	// ZoneIDs are the staff zone ids after the pass, in staff order.
	ZoneIDs []string
}

// Defects returns human-readable descriptions of the pass's reportable
// conditions.
func (r *Result) Defects() []string {
	var out []string
	if r.Recreated {
		out = append(out, "zone/staff count mismatch: all zones recreated")
	}
	for _, id := range r.Residual {
		out = append(out, fmt.Sprintf("zone %s left empty: geometry sources exhausted", id))
	}
	return out
}

// SyncZonesFromStaves aligns the document's zones with the staff regions.
//
// When the existing zone count equals the staff count, each zone's bounding
// box is updated element-wise in order and its id is kept (zones missing an
// id receive one). Any other count discards every existing zone and creates
// one fresh zone per staff, in staff order, with new ids: partial
// correspondence cannot be inferred without stable cross-run identifiers, so
// the mismatch path is deliberately destructive but consistent.
func SyncZonesFromStaves(doc *mei.Document, staves []model.StaffRegion) (*mei.Document, *Result) {
	out := doc.Clone()
	result := &Result{}

	if len(out.Zones) == len(staves) {
		for i, staff := range staves {
			zone := out.Zones[i]
			setZoneBox(zone, staff.BBox)
			if zone.ID == "" {
				zone.ID = mei.ZoneID("staff", i+1)
			}
			result.Patched++
			result.ZoneIDs = append(result.ZoneIDs, zone.ID)
		}
		return out, result
	}

	result.Recreated = true
	out.Zones = nil
	for i, staff := range staves {
		zone := &mei.Zone{ID: mei.ZoneID("staff", i+1)}
		setZoneBox(zone, staff.BBox)
		out.Zones = append(out.Zones, zone)
		result.ZoneIDs = append(result.ZoneIDs, zone.ID)
	}
	return out, result
}

// RepointSystemBreaks recreates one structural marker per staff zone, in
// sequence order. Existing system breaks are removed everywhere; the new
// marker for staff i carries n=i+1 and references the i-th zone id. For a
// flat document the markers are appended to the single layer in order; for
// a split document each staff's layer opens with its marker.
func RepointSystemBreaks(doc *mei.Document, zoneIDs []string) *mei.Document {
	out := doc.Clone()

	for _, staff := range out.Staves {
		kept := staff.Layer[:0]
		for _, el := range staff.Layer {
			if _, ok := el.(*mei.SystemBreak); !ok {
				kept = append(kept, el)
			}
		}
		staff.Layer = kept
	}

	if len(out.Staves) == 0 {
		out.Staves = append(out.Staves, &mei.Staff{N: 1})
	}

	if len(out.Staves) == 1 {
		layer := out.Staves[0].Layer
		for i, id := range zoneIDs {
			layer = append(layer, &mei.SystemBreak{N: i + 1, Facs: "#" + id})
		}
		out.Staves[0].Layer = layer
		return out
	}

	for i, id := range zoneIDs {
		sb := &mei.SystemBreak{N: i + 1, Facs: "#" + id}
		if i < len(out.Staves) {
			staff := out.Staves[i]
			staff.Layer = append([]mei.Element{sb}, staff.Layer...)
		} else {
			last := out.Staves[len(out.Staves)-1]
			last.Layer = append(last.Layer, sb)
		}
	}
	return out
}

// FillEmptyZones fills placeholder zones from the geometry, staff bounding
// boxes first and then glyph boxes, strictly in input order with no
// backtracking. Each source is consumed at most once. Placeholders left
// over when the sources run out are reported as a residual defect.
func FillEmptyZones(doc *mei.Document, staves []model.StaffRegion, glyphs []model.AssignedGlyph) (*mei.Document, *Result) {
	out := doc.Clone()
	result := &Result{}

	sources := make([]model.BBox, 0, len(staves)+len(glyphs))
	for _, s := range staves {
		sources = append(sources, s.BBox)
	}
	for _, g := range glyphs {
		sources = append(sources, g.BBox)
	}

	next := 0
	for _, zone := range out.Zones {
		if !zone.Placeholder() {
			continue
		}
		if next >= len(sources) {
			result.Residual = append(result.Residual, zone.ID)
			continue
		}
		setZoneBox(zone, sources[next])
		next++
		result.Filled++
	}
	return out, result
}

func setZoneBox(zone *mei.Zone, bbox model.BBox) {
	zone.ULX = bbox.ULX
	zone.ULY = bbox.ULY
	zone.LRX = bbox.LRX()
	zone.LRY = bbox.LRY()
}
