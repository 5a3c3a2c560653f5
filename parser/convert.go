package parser

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
)

// imageFilters produce data the store never needs decoded; streams using
// them keep their encoded bytes and /Filter.
var imageFilters = map[string]bool{
	"DCTDecode":      true,
	"JPXDecode":      true,
	"JBIG2Decode":    true,
	"CCITTFaxDecode": true,
}

func convertRef(r types.IndirectRef) raw.RefObj {
	return raw.Ref(int(r.ObjectNumber), int(r.GenerationNumber))
}

func (s *Source) convert(o types.Object) raw.Object {
	switch v := o.(type) {
	case nil:
		return raw.NullObj{}
	case types.Boolean:
		return raw.Bool(bool(v))
	case types.Integer:
		return raw.NumberInt(int64(v))
	case types.Float:
		return raw.NumberFloat(float64(v))
	case types.Name:
		return raw.NameLiteral(string(v))
	case types.StringLiteral:
		b, err := types.Unescape(string(v))
		if err != nil {
			s.log.Warn("cannot unescape string literal", observability.Error("error", err))
			b = []byte(v)
		}
		return raw.Str(b)
	case types.HexLiteral:
		b, err := v.Bytes()
		if err != nil {
			s.log.Warn("cannot decode hex string", observability.Error("error", err))
		}
		return raw.StringObj{Bytes: b, Hex: true}
	case types.IndirectRef:
		return convertRef(v)
	case *types.IndirectRef:
		return convertRef(*v)
	case types.Array:
		arr := &raw.ArrayObj{Items: make([]raw.Object, len(v))}
		for i, it := range v {
			arr.Items[i] = s.convert(it)
		}
		return arr
	case types.Dict:
		return s.convertDict(v)
	case types.StreamDict:
		return s.convertStream(&v)
	case *types.StreamDict:
		return s.convertStream(v)
	default:
		s.log.Debug("unsupported object kind", observability.String("kind", o.String()))
		return raw.NullObj{}
	}
}

func (s *Source) convertDict(d types.Dict) *raw.DictObj {
	out := raw.Dict()
	for k, v := range d {
		out.KV[k] = s.convert(v)
	}
	return out
}

// convertStream decodes sd and drops its filter entries. Image codecs and
// streams that fail to decode are kept encoded.
func (s *Source) convertStream(sd *types.StreamDict) *raw.StreamObj {
	dict := s.convertDict(sd.Dict)
	if hasImageFilter(dict) {
		return raw.NewStream(dict, sd.Raw)
	}
	if len(sd.Content) == 0 && len(sd.Raw) > 0 {
		if err := sd.Decode(); err != nil {
			s.log.Warn("cannot decode stream, keeping encoded data", observability.Error("error", err))
			return raw.NewStream(dict, sd.Raw)
		}
	}
	data := sd.Content
	if len(sd.FilterPipeline) == 0 && len(data) == 0 {
		data = sd.Raw
	}
	for _, k := range []string{"Filter", "DecodeParms", "DL"} {
		dict.Delete(raw.NameLiteral(k))
	}
	return raw.NewStream(dict, data)
}

func hasImageFilter(d *raw.DictObj) bool {
	switch f := d.KV["Filter"].(type) {
	case raw.NameObj:
		return imageFilters[f.Value()]
	case *raw.ArrayObj:
		for _, it := range f.Items {
			if n, ok := it.(raw.NameObj); ok && imageFilters[n.Value()] {
				return true
			}
		}
	}
	return false
}
