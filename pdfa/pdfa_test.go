package pdfa_test

import (
	"testing"

	"github.com/wudi/formkit/pdfa"
)

const elementXMP = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="" xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/">
   <pdfaid:part>2</pdfaid:part>
   <pdfaid:conformance>B</pdfaid:conformance>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

const attributeXMP = `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="" xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/"
    pdfaid:part="3" pdfaid:conformance="u"/>
 </rdf:RDF>
</x:xmpmeta>`

const partOnlyXMP = `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="" xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/">
   <pdfaid:part>4</pdfaid:part>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>`

func TestFromMetadata(t *testing.T) {
	tests := []struct {
		name string
		xmp  string
		want pdfa.Level
	}{
		{"elements", elementXMP, pdfa.PDFA2B},
		{"attributes", attributeXMP, pdfa.PDFA3U},
		{"part without letter", partOnlyXMP, pdfa.PDFA4},
		{"no claim", `<x:xmpmeta xmlns:x="adobe:ns:meta/"/>`, pdfa.None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pdfa.FromMetadata([]byte(tt.xmp))
			if err != nil {
				t.Fatalf("FromMetadata: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromMetadataRejectsBrokenXML(t *testing.T) {
	if _, err := pdfa.FromMetadata([]byte("<a><b></a>")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLevelParts(t *testing.T) {
	levels := []pdfa.Level{pdfa.PDFA1B, pdfa.PDFA2U, pdfa.PDFA3A, pdfa.PDFA4F}
	for _, l := range levels {
		back, err := pdfa.ParseLevel(l.Part(), l.Conformance())
		if err != nil {
			t.Fatalf("%v: %v", l, err)
		}
		if back != l {
			t.Fatalf("%v parsed back as %v", l, back)
		}
		if !l.IsPDFA() {
			t.Fatalf("%v should be a claim", l)
		}
	}
	if pdfa.None.IsPDFA() || pdfa.None.Part() != 0 {
		t.Fatalf("None is not a claim")
	}
	if _, err := pdfa.ParseLevel(5, "B"); err == nil {
		t.Fatalf("part 5 accepted")
	}
}
