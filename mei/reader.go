package mei

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode parses a symbolic notation document. The input may carry a byte
// order mark or a declared legacy encoding; both are handled before XML
// decoding. Elements the pipeline does not model (syllables, annotations)
// are skipped without error, and layer reading order is preserved.
func Decode(r io.Reader) (*Document, error) {
	// UTF-16 sources and BOMs are normalized up front; declared charsets
	// are handled by the decoder's CharsetReader.
	bom := unicode.BOMOverride(transform.Nop)
	dec := xml.NewDecoder(transform.NewReader(r, bom))
	dec.CharsetReader = charset.NewReaderLabel

	doc := NewDocument()
	var currentStaff *Staff

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document: %w", err)
		}

		if end, ok := tok.(xml.EndElement); ok {
			if end.Name.Local == "staff" {
				currentStaff = nil
			}
			continue
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "zone":
			doc.Zones = append(doc.Zones, &Zone{
				ID:  attr(start, "id"),
				ULX: intAttr(start, "ulx"),
				ULY: intAttr(start, "uly"),
				LRX: intAttr(start, "lrx"),
				LRY: intAttr(start, "lry"),
			})
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("parsing zone: %w", err)
			}

		case "staffDef":
			doc.StaffDefs = append(doc.StaffDefs, &StaffDef{
				ID:           attr(start, "id"),
				N:            intAttr(start, "n"),
				Lines:        intAttr(start, "lines"),
				NotationType: attr(start, "notationtype"),
				ClefShape:    attr(start, "clef.shape"),
				ClefLine:     intAttr(start, "clef.line"),
			})
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("parsing staffDef: %w", err)
			}

		case "staff":
			currentStaff = &Staff{
				ID: attr(start, "id"),
				N:  intAttr(start, "n"),
			}
			doc.Staves = append(doc.Staves, currentStaff)

		case "layer":
			if currentStaff != nil {
				currentStaff.LayerID = attr(start, "id")
			} else {
				// Some producers emit a layer with no staff wrapper;
				// open a fresh staff for it.
				currentStaff = &Staff{
					N:       len(doc.Staves) + 1,
					LayerID: attr(start, "id"),
				}
				doc.Staves = append(doc.Staves, currentStaff)
			}

		case "sb":
			el := &SystemBreak{
				N:    intAttr(start, "n"),
				Facs: attr(start, "facs"),
			}
			appendElement(doc, &currentStaff, el)
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("parsing sb: %w", err)
			}

		case "clef":
			el := &Clef{
				Shape: attr(start, "shape"),
				Line:  intAttr(start, "line"),
				Oct:   intAttr(start, "oct"),
				Pname: attr(start, "pname"),
				Facs:  attr(start, "facs"),
			}
			appendElement(doc, &currentStaff, el)
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("parsing clef: %w", err)
			}

		case "neume":
			el := &Neume{Facs: attr(start, "facs")}
			appendElement(doc, &currentStaff, el)
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("parsing neume: %w", err)
			}
		}
	}

	return doc, nil
}

// appendElement adds a layer element to the current staff, opening a fresh
// staff for content that appears outside any staff wrapper.
func appendElement(doc *Document, current **Staff, el Element) {
	if *current == nil {
		*current = &Staff{N: len(doc.Staves) + 1}
		doc.Staves = append(doc.Staves, *current)
	}
	(*current).Layer = append((*current).Layer, el)
}

// attr returns the named attribute's value, matching by local name so both
// plain and namespaced forms (xml:id) are found.
func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// intAttr returns the named attribute parsed as an int, or 0.
func intAttr(start xml.StartElement, name string) int {
	v, err := strconv.Atoi(attr(start, name))
	if err != nil {
		return 0
	}
	return v
}
