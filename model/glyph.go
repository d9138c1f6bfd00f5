package model

import "strings"

// GlyphClass is the closed classification of glyph detections. It is derived
// from the classifier's free-form name exactly once, at ingestion.
type GlyphClass int

const (
	// Unknown covers names no other class matches. Unknown glyphs still
	// flow through assignment and pitch estimation.
	Unknown GlyphClass = iota
	// ClefF is a bass (F) clef.
	ClefF
	// ClefC is a C clef, the usual clef in neume notation.
	ClefC
	// ClefG is a treble (G) clef.
	ClefG
	// ClefGeneric is a clef the classifier could not narrow ("clef.not").
	ClefGeneric
	// NoteBlack is a black notehead.
	NoteBlack
	// Neume is any neume form.
	Neume
	// Custos marks the pitch of the first note on the following staff.
	Custos
	// Accidental is a sharp, flat, or natural sign.
	Accidental
	// Divider is a division or breath mark.
	Divider
	// SkipEdge marks classifier edge artifacts; discarded at assignment.
	SkipEdge
)

// String returns a short lowercase name for the class.
func (c GlyphClass) String() string {
	switch c {
	case ClefF:
		return "clef.f"
	case ClefC:
		return "clef.c"
	case ClefG:
		return "clef.g"
	case ClefGeneric:
		return "clef"
	case NoteBlack:
		return "note"
	case Neume:
		return "neume"
	case Custos:
		return "custos"
	case Accidental:
		return "accidental"
	case Divider:
		return "divider"
	case SkipEdge:
		return "skip.edge"
	default:
		return "unknown"
	}
}

// IsClef reports whether the class is any of the clef variants.
func (c GlyphClass) IsClef() bool {
	switch c {
	case ClefF, ClefC, ClefG, ClefGeneric:
		return true
	}
	return false
}

// ClefShape returns the MEI clef shape letter for a clef class. Non-clef
// classes and ClefGeneric return "" so the caller can substitute a default.
func (c GlyphClass) ClefShape() string {
	switch c {
	case ClefF:
		return "F"
	case ClefC:
		return "C"
	case ClefG:
		return "G"
	}
	return ""
}

// ClassifyGlyphName maps a classifier taxonomy name to its GlyphClass.
// Matching follows the taxonomy's dotted prefixes: "clef.f", "clef.c",
// "clef.g", "clef.not", "note.*", "neume.*", "custos", "accid*",
// "divLine*"/"divider", "skip.edge".
func ClassifyGlyphName(name string) GlyphClass {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "skip.edge"):
		return SkipEdge
	case strings.Contains(n, "clef.f"):
		return ClefF
	case strings.Contains(n, "clef.c"):
		return ClefC
	case strings.Contains(n, "clef.g"):
		return ClefG
	case strings.Contains(n, "clef"):
		return ClefGeneric
	case strings.Contains(n, "custos"):
		return Custos
	case strings.Contains(n, "accid"):
		return Accidental
	case strings.Contains(n, "divline") || strings.Contains(n, "divider"):
		return Divider
	case strings.Contains(n, "note"):
		return NoteBlack
	case strings.Contains(n, "neume"):
		return Neume
	default:
		return Unknown
	}
}

// GlyphDetection is one classified glyph from the upstream classifier.
// Detections are read-only input.
type GlyphDetection struct {
	// BBox is the glyph's bounding box on the page image.
	BBox BBox

	// Name is the raw classifier taxonomy name (e.g. "neume.punctum").
	Name string

	// Class is the closed classification of Name.
	Class GlyphClass

	// Confidence is the classifier's confidence in [0,1].
	Confidence float64
}

// NewGlyphDetection builds a detection from classifier output, resolving the
// glyph class from the taxonomy name.
func NewGlyphDetection(bbox BBox, name string, confidence float64) GlyphDetection {
	return GlyphDetection{
		BBox:       bbox,
		Name:       name,
		Class:      ClassifyGlyphName(name),
		Confidence: confidence,
	}
}

// Pitch is the estimated symbolic pitch of a glyph, or its clef role.
type Pitch struct {
	// Note is the diatonic note letter ("a".."g"). Empty for glyphs that
	// carry a clef role or are exempt from estimation.
	Note string

	// Octave is the scientific octave number for Note.
	Octave int

	// Line is the diatonic step index relative to the region's topmost
	// curve. -1 and CurveCount mark one-step extrapolation past the edges.
	Line int

	// ClefShape and ClefLine describe a clef glyph's role. Both are zero
	// for non-clef glyphs.
	ClefShape string
	ClefLine  int
}

// AssignedGlyph is a detection bound to a staff region, with pitch fields
// filled exactly once by the estimator.
type AssignedGlyph struct {
	GlyphDetection

	// Staff is the 1-based number of the StaffRegion the glyph belongs to.
	Staff int

	// Offset is the glyph's horizontal position (its left edge), used for
	// left-to-right ordering within a staff.
	Offset int

	// Pitch is filled by the estimator; nil until then, and nil forever
	// for exempt classes other than clefs.
	Pitch *Pitch
}
