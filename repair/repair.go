// Package repair detects and fixes referential and structural defects in
// the symbolic document.
//
// Each check is independent, individually idempotent, and a safe no-op on a
// clean document. Run composes them until the document stops changing.
package repair

import (
	"fmt"

	"github.com/chantlab/neumatic/mei"
)

// maxPasses bounds the fixed-point iteration in Run. Each check converges
// in one pass on its own defect class, so the bound is never reached on
// well-formed input.
const maxPasses = 8

// Config holds the default staff-definition attributes filled in by
// CompleteStaffDefs.
type Config struct {
	// Lines is the notated line count per staff.
	Lines int

	// NotationType is the notation type attribute value.
	NotationType string

	// ClefShape and ClefLine give the default clef.
	ClefShape string
	ClefLine  int
}

// DefaultConfig returns defaults for four-line neume notation with a C
// clef on the top line.
func DefaultConfig() Config {
	return Config{
		Lines:        4,
		NotationType: "neume",
		ClefShape:    "C",
		ClefLine:     4,
	}
}

// Result describes the defects found and the changes made by one or more
// repair checks.
type Result struct {
	// Orphans lists zone ids with no referencing element.
	Orphans []string

	// Dangling lists referenced zone ids that do not exist. These are
	// reported, not repaired.
	Dangling []string

	// AddedBreaks counts structural markers appended for orphan zones.
	AddedBreaks int

	// CompletedDefs counts staff definitions created or completed.
	CompletedDefs int

	// Restructured is true when a flat reading order was redistributed
	// into per-staff layers.
	Restructured bool
}

// Changed reports whether any check modified the document.
func (r *Result) Changed() bool {
	return r.AddedBreaks > 0 || r.CompletedDefs > 0 || r.Restructured
}

// Defects returns human-readable descriptions of what was found.
func (r *Result) Defects() []string {
	var out []string
	for _, id := range r.Orphans {
		out = append(out, fmt.Sprintf("zone %s has no referencing marker", id))
	}
	for _, id := range r.Dangling {
		out = append(out, fmt.Sprintf("reference to missing zone %s", id))
	}
	if r.Restructured {
		out = append(out, "flat reading order split into per-staff layers")
	}
	return out
}

func (r *Result) merge(other *Result) {
	r.Orphans = append(r.Orphans, other.Orphans...)
	r.Dangling = append(r.Dangling, other.Dangling...)
	r.AddedBreaks += other.AddedBreaks
	r.CompletedDefs += other.CompletedDefs
	r.Restructured = r.Restructured || other.Restructured
}

// Repairer runs structural checks with a fixed set of defaults.
type Repairer struct {
	cfg Config
}

// NewRepairer creates a repairer. A zero-valued field in cfg falls back to
// its default.
func NewRepairer(cfg Config) *Repairer {
	def := DefaultConfig()
	if cfg.Lines == 0 {
		cfg.Lines = def.Lines
	}
	if cfg.NotationType == "" {
		cfg.NotationType = def.NotationType
	}
	if cfg.ClefShape == "" {
		cfg.ClefShape = def.ClefShape
	}
	if cfg.ClefLine == 0 {
		cfg.ClefLine = def.ClefLine
	}
	return &Repairer{cfg: cfg}
}

// FindOrphanZones returns the ids of zones no element references, in zone
// document order.
func FindOrphanZones(doc *mei.Document) []string {
	referenced := make(map[string]bool)
	for _, el := range doc.ReadingOrder() {
		if id := el.FacsRef(); id != "" {
			referenced[id] = true
		}
	}

	var out []string
	for _, z := range doc.Zones {
		if !referenced[z.ID] {
			out = append(out, z.ID)
		}
	}
	return out
}

// FindDanglingRefs returns the referenced zone ids that have no zone, in
// reading order, deduplicated.
func FindDanglingRefs(doc *mei.Document) []string {
	exists := make(map[string]bool, len(doc.Zones))
	for _, z := range doc.Zones {
		exists[z.ID] = true
	}

	seen := make(map[string]bool)
	var out []string
	for _, el := range doc.ReadingOrder() {
		id := el.FacsRef()
		if id == "" || exists[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// AddMissingBreaks appends one structural marker per orphan zone, numbered
// continuing from the current marker count, in zone document order. The
// markers go at the end of the last staff's layer.
func (r *Repairer) AddMissingBreaks(doc *mei.Document) (*mei.Document, *Result) {
	result := &Result{Orphans: FindOrphanZones(doc)}
	out := doc.Clone()
	if len(result.Orphans) == 0 {
		return out, result
	}

	if len(out.Staves) == 0 {
		out.Staves = append(out.Staves, &mei.Staff{N: 1})
	}
	last := out.Staves[len(out.Staves)-1]

	n := len(out.SystemBreaks())
	for _, id := range result.Orphans {
		n++
		last.Layer = append(last.Layer, &mei.SystemBreak{N: n, Facs: "#" + id})
		result.AddedBreaks++
	}
	return out, result
}

// CompleteStaffDefs ensures each staff 1..N has a definition carrying the
// default line count, notation type, and clef, filling only attributes
// that are absent.
func (r *Repairer) CompleteStaffDefs(doc *mei.Document) (*mei.Document, *Result) {
	out := doc.Clone()
	result := &Result{}

	n := 0
	for _, s := range out.Staves {
		if s.N > n {
			n = s.N
		}
	}
	for _, sd := range out.StaffDefs {
		if sd.N > n {
			n = sd.N
		}
	}

	for i := 1; i <= n; i++ {
		sd := out.StaffDefByN(i)
		if sd == nil {
			sd = &mei.StaffDef{N: i}
			out.StaffDefs = append(out.StaffDefs, sd)
		}
		changed := false
		if sd.Lines == 0 {
			sd.Lines = r.cfg.Lines
			changed = true
		}
		if sd.NotationType == "" {
			sd.NotationType = r.cfg.NotationType
			changed = true
		}
		if sd.ClefShape == "" {
			sd.ClefShape = r.cfg.ClefShape
			changed = true
		}
		if sd.ClefLine == 0 {
			sd.ClefLine = r.cfg.ClefLine
			changed = true
		}
		if changed {
			result.CompletedDefs++
		}
	}
	return out, result
}

// SplitStaves redistributes the reading order into per-staff layers. Each
// structural marker switches the current staff to the marker's n label, or
// to its encounter ordinal when the label is absent; elements before the
// first marker stay on staff 1. Already-split documents come back
// unchanged.
func (r *Repairer) SplitStaves(doc *mei.Document) (*mei.Document, *Result) {
	result := &Result{}
	order := doc.ReadingOrder()
	if len(order) == 0 {
		return doc.Clone(), result
	}

	keys, groups := groupByMarker(order)
	if groupingMatches(doc, keys, groups) {
		return doc.Clone(), result
	}
	result.Restructured = true

	out := doc.Clone()
	keys, groups = groupByMarker(out.ReadingOrder())

	staves := make([]*mei.Staff, len(keys))
	for i, key := range keys {
		staves[i] = &mei.Staff{N: key, Layer: groups[key]}
		if prev := staffByN(out.Staves, key); prev != nil {
			staves[i].ID = prev.ID
			staves[i].LayerID = prev.LayerID
		}
	}
	out.Staves = staves
	return out, result
}

// groupByMarker partitions the reading order by staff. Staves come back in
// first-encounter order; duplicate marker labels merge into one staff.
func groupByMarker(order []mei.Element) ([]int, map[int][]mei.Element) {
	var keys []int
	groups := make(map[int][]mei.Element)

	current := 1
	markers := 0
	for _, el := range order {
		if sb, ok := el.(*mei.SystemBreak); ok {
			markers++
			if sb.N > 0 {
				current = sb.N
			} else {
				current = markers
			}
		}
		if _, ok := groups[current]; !ok {
			keys = append(keys, current)
		}
		groups[current] = append(groups[current], el)
	}
	return keys, groups
}

func staffByN(staves []*mei.Staff, n int) *mei.Staff {
	for _, s := range staves {
		if s.N == n {
			return s
		}
	}
	return nil
}

func groupingMatches(doc *mei.Document, keys []int, groups map[int][]mei.Element) bool {
	if len(doc.Staves) != len(keys) {
		return false
	}
	for i, staff := range doc.Staves {
		if staff.N != keys[i] || len(staff.Layer) != len(groups[keys[i]]) {
			return false
		}
	}
	return true
}

// Run composes every check until the document stops changing, bounded by a
// fixed pass limit. The returned result aggregates all passes; dangling
// references are reported once, from the final document.
func (r *Repairer) Run(doc *mei.Document) (*mei.Document, *Result) {
	out := doc.Clone()
	total := &Result{}

	for pass := 0; pass < maxPasses; pass++ {
		passResult := &Result{}

		out2, res := r.SplitStaves(out)
		passResult.merge(res)

		out2, res = r.AddMissingBreaks(out2)
		passResult.merge(res)

		out2, res = r.CompleteStaffDefs(out2)
		passResult.merge(res)

		out = out2
		total.merge(passResult)
		if !passResult.Changed() {
			break
		}
	}

	total.Dangling = FindDanglingRefs(out)
	return out, total
}
