// Package pitch estimates symbolic pitch from glyph position.
//
// The estimator maps a glyph's vertical center to the nearest of its staff
// region's interpolated curves and reads a (note letter, octave) pair off a
// diatonic cycle seeded at a configurable base pitch. It does not interpret
// clef semantics; clefs receive a fixed configured role instead, a
// documented simplification of the upstream pipeline.
package pitch

import (
	"math"

	"github.com/chantlab/neumatic/model"
	"github.com/chantlab/neumatic/staff"
)

// letters is the diatonic cycle pitches are read from.
var letters = [7]string{"c", "d", "e", "f", "g", "a", "b"}

// Config holds the estimator's seed pitch and default clef role. These are
// explicit parameters rather than embedded notation assumptions.
type Config struct {
	// BaseNote is the note letter assigned to the region's topmost curve.
	BaseNote string

	// BaseOctave is the octave of BaseNote.
	BaseOctave int

	// ClefShape is the shape recorded for clef glyphs whose own class does
	// not determine one.
	ClefShape string

	// ClefLine is the staff line recorded for every clef glyph.
	ClefLine int
}

// DefaultConfig returns the conventional seed for neume notation: the cycle
// starts at c4 and clefs default to a C clef on line 4.
func DefaultConfig() Config {
	return Config{
		BaseNote:   "c",
		BaseOctave: 4,
		ClefShape:  "C",
		ClefLine:   4,
	}
}

// Estimator fills pitch fields on assigned glyphs.
type Estimator struct {
	config  Config
	baseIdx int
}

// NewEstimator creates an estimator with the default configuration.
func NewEstimator() *Estimator {
	return NewEstimatorWithConfig(DefaultConfig())
}

// NewEstimatorWithConfig creates an estimator with a custom configuration.
// An unrecognized base note falls back to "c".
func NewEstimatorWithConfig(config Config) *Estimator {
	e := &Estimator{config: config}
	for i, l := range letters {
		if l == config.BaseNote {
			e.baseIdx = i
		}
	}
	return e
}

// Estimate fills the pitch of every glyph assigned to one of the given
// regions, exactly once. Clef glyphs receive the configured clef role;
// accidental and divider glyphs, and the custos, are exempt and keep a nil
// pitch. Glyphs whose staff number matches no region are left untouched.
//
// The input slice is not modified; the returned slice carries the enriched
// copies in the same order.
func (e *Estimator) Estimate(assigned []model.AssignedGlyph, regions []model.StaffRegion) []model.AssignedGlyph {
	byN := make(map[int]*model.StaffRegion, len(regions))
	for i := range regions {
		byN[regions[i].N] = &regions[i]
	}

	out := make([]model.AssignedGlyph, len(assigned))
	for i, g := range assigned {
		if g.Pitch == nil {
			if region, ok := byN[g.Staff]; ok {
				g.Pitch = e.pitchFor(g, region)
			}
		}
		out[i] = g
	}
	return out
}

// pitchFor computes one glyph's pitch, or nil for exempt classes.
func (e *Estimator) pitchFor(g model.AssignedGlyph, region *model.StaffRegion) *model.Pitch {
	if g.Class.IsClef() {
		shape := g.Class.ClefShape()
		if shape == "" {
			shape = e.config.ClefShape
		}
		return &model.Pitch{ClefShape: shape, ClefLine: e.config.ClefLine}
	}

	switch g.Class {
	case model.Custos, model.Accidental, model.Divider:
		return nil
	}

	if len(region.Curves) == 0 {
		return nil
	}

	centerY := g.BBox.CenterY()
	nearest := 0
	nearestDist := math.Inf(1)
	means := make([]float64, len(region.Curves))
	for i, curve := range region.Curves {
		means[i] = staff.CurveMeanY(curve)
		if d := math.Abs(centerY - means[i]); d < nearestDist {
			nearestDist = d
			nearest = i
		}
	}

	// Past the outermost curves, extrapolate a single diatonic step
	// instead of clamping to the edge pitch.
	step := nearest
	if nearest == 0 && centerY < means[0] {
		step = -1
	} else if nearest == len(means)-1 && centerY > means[len(means)-1] {
		step = len(means)
	}

	note, octave := e.StepPitch(step)
	return &model.Pitch{Note: note, Octave: octave, Line: step}
}

// StepPitch returns the (note letter, octave) pair for a diatonic step
// relative to the region's topmost curve. Step 0 is the configured base
// pitch; the octave moves by one each time the cycle wraps past the base
// letter, in either direction.
func (e *Estimator) StepPitch(step int) (string, int) {
	off := e.baseIdx + step
	letter := letters[((off%7)+7)%7]
	oct := e.config.BaseOctave + floorDiv(off, 7)
	return letter, oct
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
