// Package parser reads existing PDF files into a raw.Source. Cross
// reference resolution, object streams and stream filters are handled by
// pdfcpu; objects are converted to the raw model one at a time as the
// store asks for them.
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
)

// ErrEncrypted is returned for files carrying an /Encrypt dictionary.
var ErrEncrypted = errors.New("parser: encrypted documents are not supported")

// Config controls parsing.
type Config struct {
	Logger observability.Logger
	// Strict selects pdfcpu's strict validation instead of the relaxed
	// mode that tolerates common producer bugs.
	Strict bool
}

// Source serves the objects of one parsed file.
type Source struct {
	mc      *model.Context
	log     observability.Logger
	trailer *raw.DictObj
}

// Open parses r. The reader is fully consumed before Open returns.
func Open(ctx context.Context, r io.ReadSeeker, cfg Config) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if cfg.Strict {
		conf.ValidationMode = model.ValidationStrict
	}
	mc, err := api.ReadContext(r, conf)
	if err != nil {
		return nil, fmt.Errorf("parser: read: %w", err)
	}
	if mc.Encrypt != nil {
		return nil, ErrEncrypted
	}
	s := &Source{mc: mc, log: observability.OrNop(cfg.Logger)}
	s.trailer = s.buildTrailer()
	return s, nil
}

func (s *Source) buildTrailer() *raw.DictObj {
	t := raw.Dict()
	if s.mc.Root != nil {
		t.Set(raw.NameLiteral("Root"), convertRef(*s.mc.Root))
	}
	if s.mc.Info != nil {
		t.Set(raw.NameLiteral("Info"), convertRef(*s.mc.Info))
	}
	if len(s.mc.ID) > 0 {
		t.Set(raw.NameLiteral("ID"), s.convert(s.mc.ID))
	}
	return t
}

// Load returns the object stored under ref.
func (s *Source) Load(ref raw.ObjectRef) (raw.Object, error) {
	entry, ok := s.mc.Table[ref.Num]
	if !ok || entry == nil || entry.Free || ref.Num == 0 {
		return nil, nil
	}
	if entry.Generation != nil && *entry.Generation != ref.Gen {
		return nil, nil
	}
	obj := entry.Object
	if obj == nil {
		var err error
		obj, err = s.mc.Dereference(types.IndirectRef{
			ObjectNumber:     types.Integer(ref.Num),
			GenerationNumber: types.Integer(ref.Gen),
		})
		if err != nil {
			return nil, fmt.Errorf("parser: object %s: %w", ref, err)
		}
	}
	if obj == nil {
		return nil, nil
	}
	return s.convert(obj), nil
}

// Refs lists the in-use objects of the file.
func (s *Source) Refs() []raw.ObjectRef {
	out := make([]raw.ObjectRef, 0, len(s.mc.Table))
	for num, entry := range s.mc.Table {
		if num == 0 || entry == nil || entry.Free {
			continue
		}
		gen := 0
		if entry.Generation != nil {
			gen = *entry.Generation
		}
		out = append(out, raw.ObjectRef{Num: num, Gen: gen})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Num < out[j].Num })
	return out
}

// Trailer returns /Root, /Info and /ID of the file.
func (s *Source) Trailer() *raw.DictObj { return s.trailer }

// Version returns the effective header version.
func (s *Source) Version() string { return s.mc.VersionString() }

// PageCount reports the page count pdfcpu derived from the page tree.
func (s *Source) PageCount() int { return s.mc.PageCount }
