package neumatic

import (
	"fmt"

	"github.com/chantlab/neumatic/glyphs"
	"github.com/chantlab/neumatic/jsomr"
	"github.com/chantlab/neumatic/mei"
	"github.com/chantlab/neumatic/model"
	"github.com/chantlab/neumatic/pitch"
	"github.com/chantlab/neumatic/reconcile"
	"github.com/chantlab/neumatic/repair"
	"github.com/chantlab/neumatic/staff"
)

// Pipeline sequences the processing stages for one manuscript page:
// clustering, interpolation, glyph assignment, pitch estimation,
// reconciliation, and structural repair.
type Pipeline struct {
	polygons   []model.Polygon
	detections []model.GlyphDetection
	staves     []model.StaffRegion
	doc        *mei.Document
	options    pipelineOptions
}

// Result holds the output of a processing run.
type Result struct {
	// Staves are the interpolated staff regions, top to bottom.
	Staves []model.StaffRegion

	// Glyphs are the assigned glyphs with pitch fields filled, ordered by
	// staff and then left to right.
	Glyphs []model.AssignedGlyph

	// Unassigned are detections no staff region horizontally overlaps.
	Unassigned []model.GlyphDetection

	// Document is the reconciled and repaired symbolic document.
	Document *mei.Document

	// Warnings are the non-fatal issues recovered during the run.
	Warnings []Warning
}

// FromGeometry creates a pipeline over the page's staff polygons and glyph
// detections. Either input may be empty, but not both.
func FromGeometry(polygons []model.Polygon, detections []model.GlyphDetection) *Pipeline {
	return &Pipeline{
		polygons:   polygons,
		detections: detections,
		options:    defaultOptions(),
	}
}

// FromRecord creates a pipeline over a decoded geometric record, taking the
// staff regions and glyph detections the record already carries. Clustering
// and interpolation are skipped; the record's staves feed assignment,
// estimation, and reconciliation directly.
func FromRecord(page *jsomr.Page) *Pipeline {
	p := &Pipeline{options: defaultOptions()}
	for _, s := range page.Staves {
		p.staves = append(p.staves, s.ToRegion())
	}
	for _, g := range page.Glyphs {
		p.detections = append(p.detections, g.ToDetection())
	}
	return p
}

// WithStaves supplies prebuilt staff regions, bypassing clustering and
// interpolation. Regions must be in top-to-bottom order with distinct
// staff numbers.
func (p *Pipeline) WithStaves(staves []model.StaffRegion) *Pipeline {
	p.staves = staves
	return p
}

// WithDocument supplies an existing symbolic document to reconcile against
// the geometry. Without one, processing starts from an empty document. The
// given document is not modified.
func (p *Pipeline) WithDocument(doc *mei.Document) *Pipeline {
	p.doc = doc
	return p
}

// Tolerance sets the vertical clustering tolerance in pixels.
func (p *Pipeline) Tolerance(t float64) *Pipeline {
	p.options.tolerance = t
	return p
}

// BasePitch seeds the diatonic cycle: the note letter and octave assigned
// to each region's topmost curve.
func (p *Pipeline) BasePitch(note string, octave int) *Pipeline {
	p.options.baseNote = note
	p.options.baseOctave = octave
	return p
}

// DefaultClef sets the clef shape and line recorded for clef glyphs and
// filled into incomplete staff definitions.
func (p *Pipeline) DefaultClef(shape string, line int) *Pipeline {
	p.options.clefShape = shape
	p.options.clefLine = line
	return p
}

// StaffLines sets the notated line count recorded on regions and staff
// definitions.
func (p *Pipeline) StaffLines(n int) *Pipeline {
	p.options.numLines = n
	return p
}

// Process runs every stage and returns the enriched geometry and the
// repaired document. Stage-local problems are recovered inline and
// aggregated into Result.Warnings; only total absence of input fails.
func (p *Pipeline) Process() (*Result, error) {
	if len(p.polygons) == 0 && len(p.detections) == 0 && len(p.staves) == 0 {
		return nil, fmt.Errorf("pipeline requires staves, polygons, or detections: %w", ErrInputMissing)
	}

	result := &Result{}

	staves := p.staves
	if staves == nil {
		staves = p.buildStaves(result)
	}
	result.Staves = staves

	assigned := glyphs.NewAssigner().Assign(p.detections, staves)
	result.Unassigned = assigned.Unassigned
	for _, det := range assigned.Unassigned {
		result.warnf("assign", WarnUnassignableGlyph,
			"glyph %q at (%d,%d) overlaps no staff", det.Name, det.BBox.ULX, det.BBox.ULY)
	}

	estimator := pitch.NewEstimatorWithConfig(pitch.Config{
		BaseNote:   p.options.baseNote,
		BaseOctave: p.options.baseOctave,
		ClefShape:  p.options.clefShape,
		ClefLine:   p.options.clefLine,
	})
	result.Glyphs = estimator.Estimate(assigned.Assigned, staves)

	result.Document = p.reconcileAndRepair(result)
	return result, nil
}

func (p *Pipeline) buildStaves(result *Result) []model.StaffRegion {
	clusterer := staff.NewClustererWithConfig(staff.ClusterConfig{
		Tolerance: p.options.tolerance,
	})
	clustered := clusterer.Cluster(p.polygons)
	if clustered.Skipped > 0 {
		result.warnf("cluster", WarnMalformedGeometry,
			"%d empty polygons skipped", clustered.Skipped)
	}

	interpolator := staff.NewInterpolatorWithConfig(staff.InterpolateConfig{
		Curves:     p.options.curves,
		Samples:    p.options.samples,
		BandFactor: p.options.bandFactor,
		NumLines:   p.options.numLines,
	})

	var staves []model.StaffRegion
	for _, group := range clustered.Groups {
		region, ok := interpolator.Region(len(staves)+1, group)
		if !ok {
			result.warnf("interpolate", WarnMalformedGeometry,
				"degenerate polygon group skipped")
			continue
		}
		staves = append(staves, region)
	}
	return staves
}

func (p *Pipeline) reconcileAndRepair(result *Result) *mei.Document {
	doc := p.doc
	if doc == nil {
		doc = mei.NewDocument()
	}

	doc, syncResult := reconcile.SyncZonesFromStaves(doc, result.Staves)
	if syncResult.Recreated {
		result.warnf("reconcile", WarnReconciliationMismatch,
			"zone/staff count mismatch, all zones recreated")
	}

	doc = reconcile.RepointSystemBreaks(doc, syncResult.ZoneIDs)

	doc, fillResult := reconcile.FillEmptyZones(doc, result.Staves, result.Glyphs)
	for _, id := range fillResult.Residual {
		result.warnf("reconcile", WarnResidualEmptyZone,
			"zone %s left empty, geometry sources exhausted", id)
	}

	repairer := repair.NewRepairer(repair.Config{
		Lines:     p.options.numLines,
		ClefShape: p.options.clefShape,
		ClefLine:  p.options.clefLine,
	})
	doc, repairResult := repairer.Run(doc)
	for _, defect := range repairResult.Defects() {
		result.warnf("repair", WarnStructuralDefect, "%s", defect)
	}
	return doc
}

func (r *Result) warnf(stage, code, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Stage:   stage,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}
