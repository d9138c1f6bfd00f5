package mei

import (
	"bytes"
	"strings"
	"testing"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<mei xmlns="http://www.music-encoding.org/ns/mei">
  <music>
    <facsimile>
      <surface>
        <zone xml:id="zone-staff-1" ulx="100" uly="200" lrx="2100" lry="350"></zone>
        <zone xml:id="zone-staff-2" ulx="100" uly="400" lrx="2100" lry="550"></zone>
        <zone xml:id="zone-glyph-1-1" ulx="120" uly="210" lrx="150" lry="250"></zone>
      </surface>
    </facsimile>
    <body>
      <mdiv>
        <score>
          <scoreDef>
            <staffGrp>
              <staffDef n="1" lines="4" notationtype="neume" clef.shape="C" clef.line="4"></staffDef>
            </staffGrp>
          </scoreDef>
          <section>
            <staff n="1" xml:id="m-staff-1">
              <layer xml:id="m-layer-1">
                <sb n="1" facs="#zone-staff-1"></sb>
                <clef shape="C" line="4" facs="#zone-glyph-1-1"></clef>
                <neume facs="#zone-glyph-1-1"></neume>
                <sb n="2" facs="#zone-staff-2"></sb>
                <neume facs="#zone-glyph-1-1"></neume>
              </layer>
            </staff>
          </section>
        </score>
      </mdiv>
    </body>
  </music>
</mei>`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(doc.Zones) != 3 {
		t.Fatalf("Expected 3 zones, got %d", len(doc.Zones))
	}
	z := doc.ZoneByID("zone-staff-1")
	if z == nil || z.ULX != 100 || z.LRY != 350 {
		t.Errorf("Unexpected zone: %+v", z)
	}

	if len(doc.StaffDefs) != 1 || doc.StaffDefs[0].NotationType != "neume" {
		t.Errorf("Unexpected staff defs: %+v", doc.StaffDefs)
	}

	if len(doc.Staves) != 1 {
		t.Fatalf("Expected 1 staff, got %d", len(doc.Staves))
	}
	layer := doc.Staves[0].Layer
	if len(layer) != 5 {
		t.Fatalf("Expected 5 layer elements, got %d", len(layer))
	}

	// Reading order is preserved exactly.
	if _, ok := layer[0].(*SystemBreak); !ok {
		t.Errorf("Element 0 should be a system break, got %T", layer[0])
	}
	if _, ok := layer[1].(*Clef); !ok {
		t.Errorf("Element 1 should be a clef, got %T", layer[1])
	}
	if sb, ok := layer[3].(*SystemBreak); !ok || sb.N != 2 {
		t.Errorf("Element 3 should be sb 2, got %T", layer[3])
	}
}

func TestDecode_BOM(t *testing.T) {
	withBOM := "\xef\xbb\xbf" + sampleDocument
	doc, err := Decode(strings.NewReader(withBOM))
	if err != nil {
		t.Fatalf("Decode with BOM failed: %v", err)
	}
	if len(doc.Zones) != 3 {
		t.Errorf("Expected 3 zones, got %d", len(doc.Zones))
	}
}

func TestDecode_BareLayer(t *testing.T) {
	// Producers sometimes emit layer content without a staff wrapper; it
	// becomes staff 1.
	bare := `<mei xmlns="http://www.music-encoding.org/ns/mei"><music><body>
	  <layer><sb n="1" facs="#z1"></sb><neume facs="#z2"></neume></layer>
	</body></music></mei>`

	doc, err := Decode(strings.NewReader(bare))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(doc.Staves) != 1 || doc.Staves[0].N != 1 {
		t.Fatalf("Expected implicit staff 1, got %+v", doc.Staves)
	}
	if len(doc.Staves[0].Layer) != 2 {
		t.Errorf("Expected 2 elements, got %d", len(doc.Staves[0].Layer))
	}
}

func TestDecode_LayerAfterClosedStaff(t *testing.T) {
	// A layer appearing after a staff has closed belongs to a fresh staff,
	// not the previous one.
	src := `<mei xmlns="http://www.music-encoding.org/ns/mei"><music><body><section>
	  <staff n="1" xml:id="s1"><layer xml:id="l1"><sb n="1" facs="#z1"></sb></layer></staff>
	  <layer xml:id="l2"><neume facs="#z2"></neume></layer>
	</section></body></music></mei>`

	doc, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(doc.Staves) != 2 {
		t.Fatalf("Expected 2 staves, got %d", len(doc.Staves))
	}
	if doc.Staves[0].LayerID != "l1" {
		t.Errorf("First staff layer id changed: %s", doc.Staves[0].LayerID)
	}
	if len(doc.Staves[0].Layer) != 1 {
		t.Errorf("First staff gained elements: %d", len(doc.Staves[0].Layer))
	}
	if doc.Staves[1].N != 2 || doc.Staves[1].LayerID != "l2" {
		t.Errorf("Stray layer not on a fresh staff: %+v", doc.Staves[1])
	}
	if len(doc.Staves[1].Layer) != 1 || doc.Staves[1].Layer[0].FacsRef() != "z2" {
		t.Errorf("Stray layer content wrong: %+v", doc.Staves[1].Layer)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode(strings.NewReader("<mei><unclosed")); err == nil {
		t.Error("Expected an error for malformed XML")
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	out := buf.String()
	again, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Second decode failed: %v", err)
	}

	if len(again.Zones) != len(doc.Zones) {
		t.Fatalf("Zone count changed: %d vs %d", len(again.Zones), len(doc.Zones))
	}
	for i := range doc.Zones {
		if *again.Zones[i] != *doc.Zones[i] {
			t.Errorf("Zone %d changed: %+v vs %+v", i, again.Zones[i], doc.Zones[i])
		}
	}

	a, b := doc.ReadingOrder(), again.ReadingOrder()
	if len(a) != len(b) {
		t.Fatalf("Reading order length changed: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].FacsRef() != b[i].FacsRef() {
			t.Errorf("Element %d reference changed", i)
		}
	}

	if !strings.Contains(out, `xmlns="http://www.music-encoding.org/ns/mei"`) {
		t.Error("Output missing MEI namespace")
	}
	if !strings.Contains(out, `xml:id="zone-staff-1"`) {
		t.Error("Output missing zone xml:id")
	}
}

func TestZonePlaceholder(t *testing.T) {
	if !(&Zone{ID: "z"}).Placeholder() {
		t.Error("All-zero zone should be a placeholder")
	}
	if (&Zone{ID: "z", LRX: 10, LRY: 10}).Placeholder() {
		t.Error("Zone with extent should not be a placeholder")
	}
}

func TestSystemBreaks(t *testing.T) {
	doc, _ := Decode(strings.NewReader(sampleDocument))
	sbs := doc.SystemBreaks()
	if len(sbs) != 2 || sbs[0].N != 1 || sbs[1].N != 2 {
		t.Errorf("Unexpected system breaks: %+v", sbs)
	}
	if sbs[0].FacsRef() != "zone-staff-1" {
		t.Errorf("Unexpected facs ref: %s", sbs[0].FacsRef())
	}
}

func TestClone(t *testing.T) {
	doc, _ := Decode(strings.NewReader(sampleDocument))
	clone := doc.Clone()

	clone.Zones[0].ULX = 999
	if doc.Zones[0].ULX == 999 {
		t.Error("Clone shares zone storage with the original")
	}

	clone.Staves[0].Layer[0].(*SystemBreak).Facs = "#other"
	if doc.Staves[0].Layer[0].(*SystemBreak).Facs == "#other" {
		t.Error("Clone shares layer elements with the original")
	}
}
