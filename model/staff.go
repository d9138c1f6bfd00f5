package model

// CurveCount is the number of line/space curves interpolated per staff
// region: four staff lines and the four spaces between and around them.
const CurveCount = 8

// CurveSamples is the number of evenly spaced x positions each curve is
// sampled at across the region's width.
const CurveSamples = 100

// StaffRegion is the geometric record of one staff: its bounding box and the
// interpolated line/space curves derived from the staff polygons.
//
// Regions are created by clustering and interpolation and are numbered
// 1..N in top-to-bottom page order. The bounding box may later be corrected
// by reconciliation; everything else is immutable once built.
type StaffRegion struct {
	// N is the 1-based staff number in top-to-bottom order.
	N int

	// BBox is the bounding box of the staff's polygon group.
	BBox BBox

	// Curves holds CurveCount curves of CurveSamples points each, ordered
	// top to bottom. Curve points are ordered left to right.
	Curves [][]Point

	// NumLines is the notated line count for the staff (4 for neume
	// notation), as distinct from the number of interpolated curves.
	NumLines int
}
