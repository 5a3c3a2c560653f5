// Package pdfa identifies the PDF/A conformance a document claims.
//
// Only the claim is handled: the level is read from the XMP metadata
// (pdfaid:part and pdfaid:conformance) and propagated to code that has to
// behave differently for archival documents. Nothing is validated.
package pdfa

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/xmp"
)

// Level represents a PDF/A conformance level. The zero value means the
// document makes no PDF/A claim.
type Level int

const (
	None Level = iota
	PDFA1A
	PDFA1B
	PDFA2A
	PDFA2B
	PDFA2U
	PDFA3A
	PDFA3B
	PDFA3U
	PDFA4
	PDFA4E
	PDFA4F
)

func (l Level) String() string {
	switch l {
	case None:
		return "none"
	case PDFA1A:
		return "PDF/A-1a"
	case PDFA1B:
		return "PDF/A-1b"
	case PDFA2A:
		return "PDF/A-2a"
	case PDFA2B:
		return "PDF/A-2b"
	case PDFA2U:
		return "PDF/A-2u"
	case PDFA3A:
		return "PDF/A-3a"
	case PDFA3B:
		return "PDF/A-3b"
	case PDFA3U:
		return "PDF/A-3u"
	case PDFA4:
		return "PDF/A-4"
	case PDFA4E:
		return "PDF/A-4e"
	case PDFA4F:
		return "PDF/A-4f"
	default:
		return "Unknown"
	}
}

// IsPDFA reports whether l is an actual conformance claim.
func (l Level) IsPDFA() bool { return l != None }

// Part returns the PDF/A part number (1 to 4), or 0 for None.
func (l Level) Part() int {
	switch l {
	case PDFA1A, PDFA1B:
		return 1
	case PDFA2A, PDFA2B, PDFA2U:
		return 2
	case PDFA3A, PDFA3B, PDFA3U:
		return 3
	case PDFA4, PDFA4E, PDFA4F:
		return 4
	}
	return 0
}

// Conformance returns the conformance letter in upper case, or "" for
// PDF/A-4 without a letter and for None.
func (l Level) Conformance() string {
	s := l.String()
	if i := strings.LastIndexByte(s, '-'); i >= 0 && len(s) > i+2 {
		return strings.ToUpper(s[i+2:])
	}
	return ""
}

// ParseLevel builds a level from the pdfaid part and conformance values.
func ParseLevel(part int, conformance string) (Level, error) {
	conformance = strings.ToUpper(strings.TrimSpace(conformance))
	key := fmt.Sprintf("%d%s", part, conformance)
	switch key {
	case "1A":
		return PDFA1A, nil
	case "1B":
		return PDFA1B, nil
	case "2A":
		return PDFA2A, nil
	case "2B":
		return PDFA2B, nil
	case "2U":
		return PDFA2U, nil
	case "3A":
		return PDFA3A, nil
	case "3B":
		return PDFA3B, nil
	case "3U":
		return PDFA3U, nil
	case "4":
		return PDFA4, nil
	case "4E":
		return PDFA4E, nil
	case "4F":
		return PDFA4F, nil
	}
	return None, fmt.Errorf("pdfa: unknown conformance part=%d conformance=%q", part, conformance)
}

const pdfaidNS = "http://www.aiim.org/pdfa/ns/id/"

// FromMetadata reads the PDF/A identification from an XMP packet. The
// pdfaid properties may be written as elements or as attributes of
// rdf:Description. A packet without identification yields None and no
// error.
func FromMetadata(data []byte) (Level, error) {
	p, err := xmp.Read(bytes.NewReader(data))
	if err != nil {
		return None, fmt.Errorf("pdfa: parse metadata: %w", err)
	}
	part, err := xmp.PacketGetValue[xmp.Text](p, pdfaidNS, "part")
	if errors.Is(err, xmp.ErrNotFound) || strings.TrimSpace(part.V) == "" {
		return None, nil
	}
	if err != nil {
		return None, fmt.Errorf("pdfa: read part: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(part.V))
	if err != nil {
		return None, fmt.Errorf("pdfa: bad part %q: %w", part.V, err)
	}
	// PDF/A-4 may omit the conformance letter.
	conformance, err := xmp.PacketGetValue[xmp.Text](p, pdfaidNS, "conformance")
	if err != nil && !errors.Is(err, xmp.ErrNotFound) {
		return None, fmt.Errorf("pdfa: read conformance: %w", err)
	}
	return ParseLevel(n, conformance.V)
}
