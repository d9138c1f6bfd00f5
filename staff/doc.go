// Package staff turns detected staff polygons into staff regions.
//
// Detection produces a flat list of polygon fragments per page. The
// [Clusterer] groups them into candidate staves by vertical proximity, and
// the [Interpolator] derives each staff's line/space curves from the grouped
// boundary points, falling back to evenly spaced straight lines where the
// detections are too sparse to interpolate. The fallback is a documented
// approximation: sparse input degrades gracefully instead of failing.
package staff
