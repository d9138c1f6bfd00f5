package staff

import (
	"sort"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"

	"github.com/chantlab/neumatic/model"
)

// xDedupEpsilon is the minimum x separation between consecutive sorted
// candidate points for both to be kept; closer points would make the
// interpolation abscissae non-increasing.
const xDedupEpsilon = 0.1

// InterpolateConfig holds configuration for staff-line interpolation.
type InterpolateConfig struct {
	// Curves is the number of line/space curves to derive per staff.
	Curves int

	// Samples is the number of evenly spaced x positions per curve.
	Samples int

	// BandFactor scales the vertical band half-width around each curve
	// anchor, as a multiple of the estimated space height.
	BandFactor float64

	// NumLines is the notated line count recorded on each region.
	NumLines int
}

// DefaultInterpolateConfig returns the standard configuration: 8 curves of
// 100 samples over a 1.5-space band, for 4-line neume notation.
func DefaultInterpolateConfig() InterpolateConfig {
	return InterpolateConfig{
		Curves:     model.CurveCount,
		Samples:    model.CurveSamples,
		BandFactor: 1.5,
		NumLines:   4,
	}
}

// Interpolator derives staff-line curves from clustered polygon groups.
type Interpolator struct {
	config InterpolateConfig
}

// NewInterpolator creates an interpolator with the default configuration.
func NewInterpolator() *Interpolator {
	return &Interpolator{config: DefaultInterpolateConfig()}
}

// NewInterpolatorWithConfig creates an interpolator with a custom
// configuration.
func NewInterpolatorWithConfig(config InterpolateConfig) *Interpolator {
	return &Interpolator{config: config}
}

// Region builds the staff region for one polygon group. The group bounding
// box is computed, curve anchors are placed evenly from the box top to its
// bottom, and each curve is linearly interpolated from the group points that
// fall within a vertical band around its anchor. Anchors whose band holds
// fewer than two x-distinct points fall back to a straight horizontal line
// at the anchor's even-spacing position.
//
// The second return value is false for degenerate groups (no points, or a
// bounding box without positive extent in both axes); such groups produce no
// region and should be reported as malformed geometry by the caller.
func (it *Interpolator) Region(n int, group []model.Polygon) (model.StaffRegion, bool) {
	bbox, ok := model.BoundsOf(group)
	if !ok || bbox.Empty() {
		return model.StaffRegion{}, false
	}

	var xs, ys []float64
	for _, poly := range group {
		for _, pt := range poly {
			xs = append(xs, float64(pt.X))
			ys = append(ys, float64(pt.Y))
		}
	}

	k := it.config.Curves
	minX, maxX := float64(bbox.ULX), float64(bbox.LRX())
	minY := float64(bbox.ULY)
	height := float64(bbox.NRows)
	band := height / float64(k) * it.config.BandFactor

	samples := make([]float64, it.config.Samples)
	for i := range samples {
		samples[i] = minX + float64(i)*(maxX-minX)/float64(len(samples)-1)
	}

	region := model.StaffRegion{
		N:        n,
		BBox:     bbox,
		NumLines: it.config.NumLines,
		Curves:   make([][]model.Point, 0, k),
	}

	for j := 0; j < k; j++ {
		anchor := minY + float64(j)*height/float64(k-1)
		region.Curves = append(region.Curves, it.curveAt(anchor, band, xs, ys, samples))
	}

	return region, true
}

// curveAt interpolates one curve from the points within the anchor's band,
// or returns the straight fallback line at the anchor position.
func (it *Interpolator) curveAt(anchor, band float64, xs, ys, samples []float64) []model.Point {
	type candidate struct{ x, y float64 }
	var cands []candidate
	for i := range xs {
		if ys[i] >= anchor-band && ys[i] <= anchor+band {
			cands = append(cands, candidate{xs[i], ys[i]})
		}
	}

	if len(cands) >= 2 {
		sort.Slice(cands, func(a, b int) bool { return cands[a].x < cands[b].x })

		// Keep only points strictly increasing in x; repeated abscissae
		// would break the interpolant.
		ux := make([]float64, 0, len(cands))
		uy := make([]float64, 0, len(cands))
		for _, c := range cands {
			if len(ux) > 0 && c.x-ux[len(ux)-1] <= xDedupEpsilon {
				continue
			}
			ux = append(ux, c.x)
			uy = append(uy, c.y)
		}

		if len(ux) >= 2 {
			var pl interp.PiecewiseLinear
			if err := pl.Fit(ux, uy); err == nil {
				curve := make([]model.Point, len(samples))
				for i, x := range samples {
					// Clamp to the fitted span; points outside it take
					// the nearest endpoint's value.
					cx := x
					if cx < ux[0] {
						cx = ux[0]
					} else if cx > ux[len(ux)-1] {
						cx = ux[len(ux)-1]
					}
					curve[i] = model.Point{X: int(x), Y: int(pl.Predict(cx))}
				}
				return curve
			}
		}
	}

	curve := make([]model.Point, len(samples))
	for i, x := range samples {
		curve[i] = model.Point{X: int(x), Y: int(anchor)}
	}
	return curve
}

// CurveMeanY returns the representative height of a curve: the mean y of its
// sampled points.
func CurveMeanY(curve []model.Point) float64 {
	ys := make([]float64, len(curve))
	for i, pt := range curve {
		ys[i] = float64(pt.Y)
	}
	return stat.Mean(ys, nil)
}
