// Package jsomr reads and writes the geometric record: the JSON document
// carrying the page, its staff regions with interpolated line positions, and
// the assigned glyphs with their pitch fields.
//
// The wire schema follows the OMR interchange format produced upstream
// (bounding boxes as ulx/uly/ncols/nrows, pitch fields as strings). The
// package converts between that schema and the model types; it performs no
// path handling, which stays with the orchestration layer.
package jsomr

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/chantlab/neumatic/model"
)

// BoundingBox is a bounding box in the record's wire form.
type BoundingBox struct {
	ULX   int `json:"ulx"`
	ULY   int `json:"uly"`
	NCols int `json:"ncols"`
	NRows int `json:"nrows"`
}

// PageInfo describes the scanned page.
type PageInfo struct {
	Resolution  float64     `json:"resolution"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// Staff is one staff region entry.
type Staff struct {
	StaffNo       int         `json:"staff_no"`
	BoundingBox   BoundingBox `json:"bounding_box"`
	NumLines      int         `json:"num_lines"`
	LinePositions [][][2]int  `json:"line_positions"`
}

// PitchInfo carries a glyph's staff assignment and estimated pitch. All
// fields are strings on the wire; "None" marks absent clef fields.
type PitchInfo struct {
	Staff   string `json:"staff"`
	Offset  string `json:"offset"`
	StrtPos string `json:"strt_pos"`
	Note    string `json:"note"`
	Octave  string `json:"octave"`
	ClefPos string `json:"clef_pos"`
	Clef    string `json:"clef"`
}

// GlyphInfo is the geometric half of a glyph entry.
type GlyphInfo struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	State       string      `json:"state"`
	Name        string      `json:"name"`
}

// Glyph is one glyph entry: pitch fields plus geometry.
type Glyph struct {
	Pitch PitchInfo `json:"pitch"`
	Glyph GlyphInfo `json:"glyph"`
}

// Page is the complete geometric record for one manuscript page.
type Page struct {
	Page   PageInfo `json:"page"`
	Staves []Staff  `json:"staves"`
	Glyphs []Glyph  `json:"glyphs"`
}

// Decode reads a geometric record.
func Decode(r io.Reader) (*Page, error) {
	var page Page
	dec := json.NewDecoder(r)
	if err := dec.Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding geometric record: %w", err)
	}
	return &page, nil
}

// Encode writes a geometric record with the upstream tooling's indentation.
func Encode(w io.Writer, page *Page) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(page); err != nil {
		return fmt.Errorf("encoding geometric record: %w", err)
	}
	return nil
}

// ToBBox converts a wire bounding box to the model form.
func (b BoundingBox) ToBBox() model.BBox {
	return model.BBox{ULX: b.ULX, ULY: b.ULY, NCols: b.NCols, NRows: b.NRows}
}

// FromBBox converts a model bounding box to the wire form.
func FromBBox(b model.BBox) BoundingBox {
	return BoundingBox{ULX: b.ULX, ULY: b.ULY, NCols: b.NCols, NRows: b.NRows}
}

// ToRegion converts a staff entry to a model staff region.
func (s Staff) ToRegion() model.StaffRegion {
	region := model.StaffRegion{
		N:        s.StaffNo,
		BBox:     s.BoundingBox.ToBBox(),
		NumLines: s.NumLines,
	}
	for _, line := range s.LinePositions {
		curve := make([]model.Point, len(line))
		for i, pt := range line {
			curve[i] = model.Point{X: pt[0], Y: pt[1]}
		}
		region.Curves = append(region.Curves, curve)
	}
	return region
}

// FromRegion converts a model staff region to a staff entry.
func FromRegion(region model.StaffRegion) Staff {
	s := Staff{
		StaffNo:     region.N,
		BoundingBox: FromBBox(region.BBox),
		NumLines:    region.NumLines,
	}
	for _, curve := range region.Curves {
		line := make([][2]int, len(curve))
		for i, pt := range curve {
			line[i] = [2]int{pt.X, pt.Y}
		}
		s.LinePositions = append(s.LinePositions, line)
	}
	return s
}

// ToDetection converts a glyph entry's geometric half to a model detection.
func (g Glyph) ToDetection() model.GlyphDetection {
	return model.NewGlyphDetection(g.Glyph.BoundingBox.ToBBox(), g.Glyph.Name, 0)
}

// FromAssigned converts an enriched glyph to its wire entry. Pitch fields
// not carried by the glyph are written as "None", matching the upstream
// convention.
func FromAssigned(g model.AssignedGlyph) Glyph {
	out := Glyph{
		Pitch: PitchInfo{
			Staff:   strconv.Itoa(g.Staff),
			Offset:  strconv.Itoa(g.Offset),
			StrtPos: "1",
			Note:    "None",
			Octave:  "None",
			ClefPos: "None",
			Clef:    "None",
		},
		Glyph: GlyphInfo{
			BoundingBox: FromBBox(g.BBox),
			State:       "AUTOMATIC",
			Name:        g.Name,
		},
	}

	if p := g.Pitch; p != nil {
		if p.Note != "" {
			out.Pitch.Note = p.Note
			out.Pitch.Octave = strconv.Itoa(p.Octave)
			out.Pitch.StrtPos = strconv.Itoa(p.Line + 1)
		}
		if p.ClefShape != "" {
			out.Pitch.Clef = p.ClefShape
			out.Pitch.ClefPos = strconv.Itoa(p.ClefLine)
		}
	}

	return out
}

// ToAssigned converts a wire glyph back to the enriched model form. Staff
// and offset fields that fail to parse are zero; "None" pitch fields leave
// the pitch nil.
func (g Glyph) ToAssigned() model.AssignedGlyph {
	det := g.ToDetection()
	out := model.AssignedGlyph{GlyphDetection: det}
	out.Staff, _ = strconv.Atoi(g.Pitch.Staff)
	if g.Pitch.Offset != "" && g.Pitch.Offset != "None" {
		out.Offset, _ = strconv.Atoi(g.Pitch.Offset)
	} else {
		out.Offset = det.BBox.ULX
	}

	var p model.Pitch
	hasPitch := false
	if g.Pitch.Note != "" && g.Pitch.Note != "None" {
		p.Note = g.Pitch.Note
		p.Octave, _ = strconv.Atoi(g.Pitch.Octave)
		if line, err := strconv.Atoi(g.Pitch.StrtPos); err == nil {
			p.Line = line - 1
		}
		hasPitch = true
	}
	if g.Pitch.Clef != "" && g.Pitch.Clef != "None" {
		p.ClefShape = g.Pitch.Clef
		p.ClefLine, _ = strconv.Atoi(g.Pitch.ClefPos)
		hasPitch = true
	}
	if hasPitch {
		out.Pitch = &p
	}
	return out
}
