// Package model provides the shared data types for manuscript geometry and
// its symbolic enrichment.
//
// This package defines the types that flow between pipeline stages: raw
// [Polygon] input from staff detection, the [StaffRegion] records produced by
// clustering and interpolation, upstream [GlyphDetection] records, and the
// [AssignedGlyph] values that carry staff assignment and estimated pitch.
//
// All coordinates are image coordinates: integer pixels with the origin at
// the upper-left corner and y growing downward. A [BBox] is stored as its
// upper-left corner plus column/row extents, matching the geometric record's
// wire format.
//
// Glyph class names arrive as free-form strings from the upstream classifier
// (e.g. "clef.f", "note.black", "neume.punctum"). They are mapped once, at
// ingestion, to the closed [GlyphClass] enumeration by [ClassifyGlyphName];
// downstream logic switches over the enum and never inspects the raw name.
package model
