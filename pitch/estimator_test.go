package pitch

import (
	"testing"

	"github.com/chantlab/neumatic/model"
)

// flatRegion builds a staff region with 8 horizontal curves evenly spaced
// from top to bottom across the given vertical range.
func flatRegion(n, uly, height int) model.StaffRegion {
	region := model.StaffRegion{
		N:        n,
		BBox:     model.BBox{ULX: 0, ULY: uly, NCols: 1000, NRows: height},
		NumLines: 4,
	}
	for j := 0; j < model.CurveCount; j++ {
		y := uly + j*height/(model.CurveCount-1)
		curve := make([]model.Point, model.CurveSamples)
		for i := range curve {
			curve[i] = model.Point{X: i * 10, Y: y}
		}
		region.Curves = append(region.Curves, curve)
	}
	return region
}

func glyphAt(name string, staffN, centerY int) model.AssignedGlyph {
	return model.AssignedGlyph{
		GlyphDetection: model.NewGlyphDetection(
			model.BBox{ULX: 100, ULY: centerY - 5, NCols: 10, NRows: 10}, name, 1.0),
		Staff:  staffN,
		Offset: 100,
	}
}

func TestStepPitch_DiatonicCycle(t *testing.T) {
	e := NewEstimator() // base c4

	tests := []struct {
		step   int
		note   string
		octave int
	}{
		{0, "c", 4},
		{1, "d", 4},
		{6, "b", 4},
		{7, "c", 5},
		{8, "d", 5},
		{14, "c", 6},
		{-1, "b", 3},
	}
	for _, tt := range tests {
		note, oct := e.StepPitch(tt.step)
		if note != tt.note || oct != tt.octave {
			t.Errorf("Step %d: expected %s%d, got %s%d", tt.step, tt.note, tt.octave, note, oct)
		}
	}
}

func TestStepPitch_SeededBase(t *testing.T) {
	e := NewEstimatorWithConfig(Config{BaseNote: "f", BaseOctave: 3, ClefShape: "C", ClefLine: 4})

	tests := []struct {
		step   int
		note   string
		octave int
	}{
		{0, "f", 3},
		{3, "b", 3},
		{4, "c", 4}, // wrap past b increments the octave
		{-1, "e", 3},
		{-3, "c", 3},
		{-4, "b", 2}, // wrap below c decrements the octave
	}
	for _, tt := range tests {
		note, oct := e.StepPitch(tt.step)
		if note != tt.note || oct != tt.octave {
			t.Errorf("Step %d: expected %s%d, got %s%d", tt.step, tt.note, tt.octave, note, oct)
		}
	}
}

func TestEstimate_NearestCurve(t *testing.T) {
	e := NewEstimator()
	region := flatRegion(1, 0, 70) // curves at y = 0, 10, ..., 70

	// Center y 21 is nearest curve index 2, step 2 from base c4 -> e4.
	got := e.Estimate([]model.AssignedGlyph{glyphAt("neume.punctum", 1, 21)},
		[]model.StaffRegion{region})

	if got[0].Pitch == nil {
		t.Fatal("Expected a pitch")
	}
	if got[0].Pitch.Note != "e" || got[0].Pitch.Octave != 4 {
		t.Errorf("Expected e4, got %s%d", got[0].Pitch.Note, got[0].Pitch.Octave)
	}
	if got[0].Pitch.Line != 2 {
		t.Errorf("Expected line index 2, got %d", got[0].Pitch.Line)
	}
}

func TestEstimate_ExtrapolatesPastEdges(t *testing.T) {
	e := NewEstimator()
	region := flatRegion(1, 100, 70)

	above := e.Estimate([]model.AssignedGlyph{glyphAt("neume.punctum", 1, 80)},
		[]model.StaffRegion{region})
	if above[0].Pitch.Note != "b" || above[0].Pitch.Octave != 3 {
		t.Errorf("Above staff: expected b3, got %s%d", above[0].Pitch.Note, above[0].Pitch.Octave)
	}
	if above[0].Pitch.Line != -1 {
		t.Errorf("Above staff: expected line -1, got %d", above[0].Pitch.Line)
	}

	// Step 8 from c4 wraps past b: d5.
	below := e.Estimate([]model.AssignedGlyph{glyphAt("neume.punctum", 1, 200)},
		[]model.StaffRegion{region})
	if below[0].Pitch.Note != "d" || below[0].Pitch.Octave != 5 {
		t.Errorf("Below staff: expected d5, got %s%d", below[0].Pitch.Note, below[0].Pitch.Octave)
	}
	if below[0].Pitch.Line != model.CurveCount {
		t.Errorf("Below staff: expected line %d, got %d", model.CurveCount, below[0].Pitch.Line)
	}
}

// As the glyph center moves down the staff, the diatonic-with-octave
// ordering of the estimated pitch never decreases.
func TestEstimate_Monotonic(t *testing.T) {
	e := NewEstimator()
	region := flatRegion(1, 100, 140)

	prev := -100
	for y := 80; y <= 260; y += 4 {
		got := e.Estimate([]model.AssignedGlyph{glyphAt("neume.punctum", 1, y)},
			[]model.StaffRegion{region})
		p := got[0].Pitch
		// Rank pitches on the diatonic-with-octave line.
		rank := p.Octave*7 + noteIndex(p.Note)
		if rank < prev {
			t.Fatalf("Pitch rank decreased at y=%d: %d < %d", y, rank, prev)
		}
		prev = rank
	}
}

func noteIndex(note string) int {
	for i, l := range [7]string{"c", "d", "e", "f", "g", "a", "b"} {
		if l == note {
			return i
		}
	}
	return -1
}

func TestEstimate_ClefRole(t *testing.T) {
	e := NewEstimator()
	region := flatRegion(1, 0, 70)

	tests := []struct {
		name  string
		shape string
	}{
		{"clef.f", "F"},
		{"clef.c", "C"},
		{"clef.g", "G"},
		{"clef.not", "C"}, // generic falls back to the configured default
	}
	for _, tt := range tests {
		got := e.Estimate([]model.AssignedGlyph{glyphAt(tt.name, 1, 30)},
			[]model.StaffRegion{region})
		p := got[0].Pitch
		if p == nil {
			t.Fatalf("%s: expected a clef role", tt.name)
		}
		if p.ClefShape != tt.shape || p.ClefLine != 4 {
			t.Errorf("%s: expected shape %s line 4, got %s %d", tt.name, tt.shape, p.ClefShape, p.ClefLine)
		}
		if p.Note != "" {
			t.Errorf("%s: clef must not carry a note pitch", tt.name)
		}
	}
}

func TestEstimate_ExemptClasses(t *testing.T) {
	e := NewEstimator()
	region := flatRegion(1, 0, 70)

	for _, name := range []string{"custos", "accid.flat", "divLine.maxima"} {
		got := e.Estimate([]model.AssignedGlyph{glyphAt(name, 1, 30)},
			[]model.StaffRegion{region})
		if got[0].Pitch != nil {
			t.Errorf("%s: expected nil pitch for exempt class", name)
		}
	}
}

func TestEstimate_FillsOnce(t *testing.T) {
	e := NewEstimator()
	region := flatRegion(1, 0, 70)

	first := e.Estimate([]model.AssignedGlyph{glyphAt("neume.punctum", 1, 0)},
		[]model.StaffRegion{region})
	marker := first[0].Pitch

	second := e.Estimate(first, []model.StaffRegion{region})
	if second[0].Pitch != marker {
		t.Error("A filled pitch must not be recomputed")
	}
}

func TestEstimate_UnknownStaffLeftAlone(t *testing.T) {
	e := NewEstimator()
	got := e.Estimate([]model.AssignedGlyph{glyphAt("neume.punctum", 9, 30)},
		[]model.StaffRegion{flatRegion(1, 0, 70)})
	if got[0].Pitch != nil {
		t.Error("Glyph on a nonexistent staff must keep a nil pitch")
	}
}
