// Package mei provides the symbolic notation document: an in-memory MEI
// tree restricted to the structures this pipeline reads and repairs.
//
// A document holds a region container (zones on a facsimile surface), the
// staff definitions, and a per-staff reading-order sequence of structural
// markers (system breaks), clef markers, and neume marks. Elements reference
// zones through "#id" facs strings resolved against the zone container.
// Reading order inside a layer is significant and is preserved exactly by
// the reader and writer.
package mei

import (
	"fmt"
	"strings"
)

// MEINamespace is the XML namespace of MEI documents.
const MEINamespace = "http://www.music-encoding.org/ns/mei"

// Zone is an identified rectangular area on the source image. A zone whose
// four coordinates are all zero is a placeholder awaiting reconciliation.
type Zone struct {
	ID  string
	ULX int
	ULY int
	LRX int
	LRY int
}

// Placeholder reports whether the zone is an unfilled zero-area-at-origin
// placeholder.
func (z *Zone) Placeholder() bool {
	return z.ULX == 0 && z.ULY == 0 && z.LRX == 0 && z.LRY == 0
}

// Ref returns the "#id" reference string for the zone.
func (z *Zone) Ref() string {
	return "#" + z.ID
}

// Element is one entry in a layer's reading-order sequence.
type Element interface {
	// FacsRef returns the id of the referenced zone, without the leading
	// "#", or "" when the element carries no reference.
	FacsRef() string
}

// SystemBreak is the structural marker that opens a new staff in reading
// order and references the staff's bounding zone.
type SystemBreak struct {
	// N is the marker's staff-number label.
	N int

	// Facs is the "#id" reference to the staff's zone.
	Facs string
}

// FacsRef returns the referenced zone id.
func (s *SystemBreak) FacsRef() string { return stripRef(s.Facs) }

// Clef is a clef marker in the reading order.
type Clef struct {
	Shape string
	Line  int
	Oct   int
	Pname string
	Facs  string
}

// FacsRef returns the referenced zone id.
func (c *Clef) FacsRef() string { return stripRef(c.Facs) }

// Neume is a mark element referencing its glyph's zone.
type Neume struct {
	Facs string
}

// FacsRef returns the referenced zone id.
func (n *Neume) FacsRef() string { return stripRef(n.Facs) }

func stripRef(facs string) string {
	return strings.TrimPrefix(facs, "#")
}

// StaffDef is the definition of one staff: its notated line count, notation
// type, and default clef.
type StaffDef struct {
	ID           string
	N            int
	Lines        int
	NotationType string
	ClefShape    string
	ClefLine     int
}

// Staff is one staff's portion of the reading order.
type Staff struct {
	ID      string
	N       int
	LayerID string
	Layer   []Element
}

// Document is the symbolic notation document for one page.
type Document struct {
	Zones     []*Zone
	StaffDefs []*StaffDef
	Staves    []*Staff
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// ZoneByID returns the zone with the given id, or nil.
func (d *Document) ZoneByID(id string) *Zone {
	for _, z := range d.Zones {
		if z.ID == id {
			return z
		}
	}
	return nil
}

// StaffDefByN returns the staff definition for staff n, or nil.
func (d *Document) StaffDefByN(n int) *StaffDef {
	for _, sd := range d.StaffDefs {
		if sd.N == n {
			return sd
		}
	}
	return nil
}

// ReadingOrder returns every layer element across staves, flattened in
// document order.
func (d *Document) ReadingOrder() []Element {
	var out []Element
	for _, staff := range d.Staves {
		out = append(out, staff.Layer...)
	}
	return out
}

// SystemBreaks returns the structural markers in reading order.
func (d *Document) SystemBreaks() []*SystemBreak {
	var out []*SystemBreak
	for _, el := range d.ReadingOrder() {
		if sb, ok := el.(*SystemBreak); ok {
			out = append(out, sb)
		}
	}
	return out
}

// ZoneID builds the conventional id for a staff or glyph zone.
func ZoneID(kind string, parts ...int) string {
	b := strings.Builder{}
	b.WriteString("zone-")
	b.WriteString(kind)
	for _, p := range parts {
		fmt.Fprintf(&b, "-%d", p)
	}
	return b.String()
}

// Clone returns a deep copy of the document. Reconciliation and repair
// operate on clones so callers keep the original intact.
func (d *Document) Clone() *Document {
	out := NewDocument()
	for _, z := range d.Zones {
		zc := *z
		out.Zones = append(out.Zones, &zc)
	}
	for _, sd := range d.StaffDefs {
		sdc := *sd
		out.StaffDefs = append(out.StaffDefs, &sdc)
	}
	for _, staff := range d.Staves {
		sc := &Staff{ID: staff.ID, N: staff.N, LayerID: staff.LayerID}
		for _, el := range staff.Layer {
			sc.Layer = append(sc.Layer, cloneElement(el))
		}
		out.Staves = append(out.Staves, sc)
	}
	return out
}

func cloneElement(el Element) Element {
	switch v := el.(type) {
	case *SystemBreak:
		c := *v
		return &c
	case *Clef:
		c := *v
		return &c
	case *Neume:
		c := *v
		return &c
	default:
		return el
	}
}
