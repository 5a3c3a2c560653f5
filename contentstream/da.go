package contentstream

import (
	"context"
	"strings"

	"github.com/wudi/formkit/color"
	"github.com/wudi/formkit/ir/raw"
)

// DefaultAppearance is the parsed form of a /DA string: the font resource
// name, the font size (0 selects auto sizing) and the text colour.
type DefaultAppearance struct {
	Font  string
	Size  float64
	Color *color.Color
}

// ParseDA extracts the last Tf and colour operators of da. Malformed
// input yields whatever could be recovered.
func ParseDA(da string) DefaultAppearance {
	var out DefaultAppearance
	p := NewProcessor()
	p.RegisterHandler("Tf", HandlerFunc(func(_ string, ops []Operand) error {
		if len(ops) < 2 {
			return nil
		}
		if n, ok := ops[len(ops)-2].(NameOperand); ok {
			out.Font = n.Value
		}
		if s, ok := ops[len(ops)-1].(NumberOperand); ok {
			out.Size = s.Value
		}
		return nil
	}))
	setColor := HandlerFunc(func(_ string, ops []Operand) error {
		vals := make([]float64, 0, len(ops))
		for _, op := range ops {
			if n, ok := op.(NumberOperand); ok {
				vals = append(vals, n.Value)
			}
		}
		if c := color.FromComponents(vals); c != nil {
			out.Color = c
		}
		return nil
	})
	for _, op := range []string{"g", "rg", "k"} {
		p.RegisterHandler(op, setColor)
	}
	_ = p.Process(context.Background(), []byte(da))
	return out
}

// String renders the appearance as a /DA value.
func (d DefaultAppearance) String() string {
	var parts []string
	if d.Font != "" {
		parts = append(parts, "/"+d.Font, raw.FormatNumber(d.Size), "Tf")
	}
	if d.Color != nil {
		for _, v := range d.Color.Components() {
			parts = append(parts, raw.FormatNumber(v))
		}
		parts = append(parts, d.Color.FillOperator())
	}
	return strings.Join(parts, " ")
}
