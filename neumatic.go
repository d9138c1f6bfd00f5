// Package neumatic converts raster-detected manuscript geometry, staff
// polygons and classified glyph boxes, into a symbolic cross-referenced
// notation document, and keeps the two records consistent across repeated
// enrichment passes.
//
// Basic usage:
//
//	result, err := neumatic.FromGeometry(polygons, detections).Process()
//	if err != nil {
//	    // handle error
//	}
//	if len(result.Warnings) > 0 {
//	    log.Println("Warnings:", neumatic.FormatWarnings(result.Warnings))
//	}
//
// With an existing document and options:
//
//	result, err := neumatic.FromGeometry(polygons, detections).
//	    WithDocument(doc).
//	    Tolerance(120).
//	    BasePitch("c", 4).
//	    Process()
//
// For advanced use cases, the lower-level staff, glyphs, pitch, reconcile,
// and repair packages are also available.
package neumatic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInputMissing is returned when a pipeline is started with neither
// polygons nor glyph detections.
var ErrInputMissing = errors.New("no geometry input")

// Warning codes reported by the pipeline.
const (
	WarnMalformedGeometry      = "malformed-geometry"
	WarnUnassignableGlyph      = "unassignable-glyph"
	WarnReconciliationMismatch = "reconciliation-mismatch"
	WarnResidualEmptyZone      = "residual-empty-zone"
	WarnStructuralDefect       = "structural-defect"
)

// Warning describes a non-fatal issue encountered during processing. The
// pipeline recovers from these inline and completes best-effort.
type Warning struct {
	// Stage is the pipeline stage that reported the issue.
	Stage string

	// Code is one of the Warn* constants.
	Code string

	// Message describes the specific occurrence.
	Message string
}

// String formats the warning as "stage: code: message".
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Stage, w.Code, w.Message)
}

// FormatWarnings joins warnings into a single human-readable string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := neumatic.Must(neumatic.FromGeometry(polys, glyphs).Process())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
