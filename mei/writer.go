package mei

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// Encode writes the document as MEI XML with an XML declaration and the MEI
// namespace on the root. Layer elements are written in reading order.
func Encode(w io.Writer, doc *Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := elem("mei", kv{"xmlns", MEINamespace})
	if err := enc.EncodeToken(root); err != nil {
		return err
	}

	music := elem("music")
	if err := enc.EncodeToken(music); err != nil {
		return err
	}

	if err := writeFacsimile(enc, doc); err != nil {
		return err
	}
	if err := writeBody(enc, doc); err != nil {
		return err
	}

	if err := enc.EncodeToken(music.End()); err != nil {
		return err
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func writeFacsimile(enc *xml.Encoder, doc *Document) error {
	facsimile := elem("facsimile")
	surface := elem("surface")
	for _, t := range []xml.Token{facsimile, surface} {
		if err := enc.EncodeToken(t); err != nil {
			return err
		}
	}

	for _, z := range doc.Zones {
		zone := elem("zone",
			kv{"xml:id", z.ID},
			kv{"ulx", strconv.Itoa(z.ULX)},
			kv{"uly", strconv.Itoa(z.ULY)},
			kv{"lrx", strconv.Itoa(z.LRX)},
			kv{"lry", strconv.Itoa(z.LRY)},
		)
		if err := writeEmpty(enc, zone); err != nil {
			return err
		}
	}

	for _, t := range []xml.Token{surface.End(), facsimile.End()} {
		if err := enc.EncodeToken(t); err != nil {
			return err
		}
	}
	return nil
}

func writeBody(enc *xml.Encoder, doc *Document) error {
	body := elem("body")
	mdiv := elem("mdiv")
	score := elem("score")
	for _, t := range []xml.Token{body, mdiv, score} {
		if err := enc.EncodeToken(t); err != nil {
			return err
		}
	}

	if len(doc.StaffDefs) > 0 {
		scoreDef := elem("scoreDef")
		staffGrp := elem("staffGrp")
		for _, t := range []xml.Token{scoreDef, staffGrp} {
			if err := enc.EncodeToken(t); err != nil {
				return err
			}
		}
		for _, sd := range doc.StaffDefs {
			attrs := []kv{{"n", strconv.Itoa(sd.N)}}
			if sd.ID != "" {
				attrs = append(attrs, kv{"xml:id", sd.ID})
			}
			attrs = append(attrs,
				kv{"lines", strconv.Itoa(sd.Lines)},
				kv{"notationtype", sd.NotationType},
				kv{"clef.shape", sd.ClefShape},
				kv{"clef.line", strconv.Itoa(sd.ClefLine)},
			)
			if err := writeEmpty(enc, elem("staffDef", attrs...)); err != nil {
				return err
			}
		}
		for _, t := range []xml.Token{staffGrp.End(), scoreDef.End()} {
			if err := enc.EncodeToken(t); err != nil {
				return err
			}
		}
	}

	section := elem("section")
	if err := enc.EncodeToken(section); err != nil {
		return err
	}

	for _, staff := range doc.Staves {
		if err := writeStaff(enc, staff); err != nil {
			return err
		}
	}

	for _, t := range []xml.Token{section.End(), score.End(), mdiv.End(), body.End()} {
		if err := enc.EncodeToken(t); err != nil {
			return err
		}
	}
	return nil
}

func writeStaff(enc *xml.Encoder, staff *Staff) error {
	attrs := []kv{{"n", strconv.Itoa(staff.N)}}
	if staff.ID != "" {
		attrs = append(attrs, kv{"xml:id", staff.ID})
	}
	staffEl := elem("staff", attrs...)
	if err := enc.EncodeToken(staffEl); err != nil {
		return err
	}

	var layerAttrs []kv
	if staff.LayerID != "" {
		layerAttrs = append(layerAttrs, kv{"xml:id", staff.LayerID})
	}
	layer := elem("layer", layerAttrs...)
	if err := enc.EncodeToken(layer); err != nil {
		return err
	}

	for _, el := range staff.Layer {
		if err := writeElement(enc, el); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(layer.End()); err != nil {
		return err
	}
	return enc.EncodeToken(staffEl.End())
}

func writeElement(enc *xml.Encoder, el Element) error {
	switch v := el.(type) {
	case *SystemBreak:
		return writeEmpty(enc, elem("sb",
			kv{"n", strconv.Itoa(v.N)},
			kv{"facs", v.Facs},
		))
	case *Clef:
		attrs := []kv{{"shape", v.Shape}, {"line", strconv.Itoa(v.Line)}}
		if v.Pname != "" {
			attrs = append(attrs, kv{"pname", v.Pname}, kv{"oct", strconv.Itoa(v.Oct)})
		}
		if v.Facs != "" {
			attrs = append(attrs, kv{"facs", v.Facs})
		}
		return writeEmpty(enc, elem("clef", attrs...))
	case *Neume:
		return writeEmpty(enc, elem("neume", kv{"facs", v.Facs}))
	default:
		return fmt.Errorf("unknown layer element %T", el)
	}
}

// kv is one attribute for elem.
type kv struct {
	name  string
	value string
}

func elem(name string, attrs ...kv) xml.StartElement {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	for _, a := range attrs {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: a.name},
			Value: a.value,
		})
	}
	return start
}

func writeEmpty(enc *xml.Encoder, start xml.StartElement) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}
