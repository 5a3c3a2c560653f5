package fonts

import (
	"github.com/wudi/formkit/ir/raw"
)

// Descriptor flags (PDF 32000-1, table 123).
const (
	flagFixedPitch  = 1 << 0
	flagSerif       = 1 << 1
	flagSymbolic    = 1 << 2
	flagNonsymbolic = 1 << 5
	flagItalic      = 1 << 6
)

// Dict builds the font dictionary with its descriptor and embedded
// FontFile2 stream, registering the indirect parts in s.
func (t *TrueType) Dict(s *raw.Store) *raw.DictObj {
	file := raw.NewStream(nil, t.data)
	file.Dict.Set(raw.NameLiteral("Length1"), raw.NumberInt(int64(len(t.data))))

	flags := int64(flagNonsymbolic)
	if t.italicAngle != 0 {
		flags |= flagItalic
	}
	desc := raw.DictOf(map[string]raw.Object{
		"Type":        raw.NameLiteral("FontDescriptor"),
		"FontName":    raw.NameLiteral(t.name),
		"Flags":       raw.NumberInt(flags),
		"FontBBox":    raw.Floats(round(t.bbox[0]), round(t.bbox[1]), round(t.bbox[2]), round(t.bbox[3])),
		"ItalicAngle": raw.Real(t.italicAngle),
		"Ascent":      raw.Real(round(t.ascent)),
		"Descent":     raw.Real(-round(t.descent)),
		"CapHeight":   raw.Real(round(t.capHeight)),
		"StemV":       raw.NumberInt(80),
		"FontFile2":   s.MakeIndirect(file),
	})

	widths := raw.NewArray()
	for code := firstChar; code <= lastChar; code++ {
		widths.Append(raw.Real(t.widths[code]))
	}

	return raw.DictOf(map[string]raw.Object{
		"Type":           raw.NameLiteral("Font"),
		"Subtype":        raw.NameLiteral("TrueType"),
		"BaseFont":       raw.NameLiteral(t.name),
		"FirstChar":      raw.NumberInt(firstChar),
		"LastChar":       raw.NumberInt(lastChar),
		"Widths":         s.MakeIndirect(widths),
		"Encoding":       raw.NameLiteral("WinAnsiEncoding"),
		"FontDescriptor": s.MakeIndirect(desc),
	})
}
