// Package color implements the device colours used by annotation
// appearance characteristics: DeviceGray, DeviceRGB and DeviceCMYK.
package color

import (
	"fmt"

	"github.com/wudi/formkit/ir/raw"
)

// Space identifies a device colour space.
type Space int

const (
	DeviceGray Space = iota + 1
	DeviceRGB
	DeviceCMYK
)

func (s Space) String() string {
	switch s {
	case DeviceGray:
		return "DeviceGray"
	case DeviceRGB:
		return "DeviceRGB"
	case DeviceCMYK:
		return "DeviceCMYK"
	}
	return fmt.Sprintf("Space(%d)", int(s))
}

// Components returns the number of colour components of the space.
func (s Space) Components() int {
	switch s {
	case DeviceGray:
		return 1
	case DeviceRGB:
		return 3
	case DeviceCMYK:
		return 4
	}
	return 0
}

// Color is an immutable device colour. Optional colours are passed as
// *Color, where nil means "no colour".
type Color struct {
	space Space
	c     [4]float64
}

// Gray returns a DeviceGray colour.
func Gray(g float64) *Color { return &Color{space: DeviceGray, c: [4]float64{clamp(g)}} }

// RGB returns a DeviceRGB colour.
func RGB(r, g, b float64) *Color {
	return &Color{space: DeviceRGB, c: [4]float64{clamp(r), clamp(g), clamp(b)}}
}

// CMYK returns a DeviceCMYK colour.
func CMYK(c, m, y, k float64) *Color {
	return &Color{space: DeviceCMYK, c: [4]float64{clamp(c), clamp(m), clamp(y), clamp(k)}}
}

// Common colours.
var (
	Black     = Gray(0)
	White     = Gray(1)
	LightGray = Gray(0.75)
)

// FromComponents picks the colour space by the number of components:
// 1 is gray, 3 is RGB, 4 is CMYK. Any other count yields nil.
func FromComponents(vals []float64) *Color {
	switch len(vals) {
	case 1:
		return Gray(vals[0])
	case 3:
		return RGB(vals[0], vals[1], vals[2])
	case 4:
		return CMYK(vals[0], vals[1], vals[2], vals[3])
	}
	return nil
}

// FromObject reads a colour array such as MK/BC. Non-numeric entries make
// the colour absent.
func FromObject(s *raw.Store, obj raw.Object) *Color {
	vals, ok := s.Numbers(s.AsArray(obj))
	if !ok {
		return nil
	}
	return FromComponents(vals)
}

// Space returns the colour space.
func (c *Color) Space() Space { return c.space }

// Components returns a copy of the component values.
func (c *Color) Components() []float64 {
	n := c.space.Components()
	out := make([]float64, n)
	copy(out, c.c[:n])
	return out
}

// Equal reports whether c and o denote the same colour. Two nil colours are equal.
func (c *Color) Equal(o *Color) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.space == o.space && c.c == o.c
}

// Array encodes c as a PDF number array.
func (c *Color) Array() *raw.ArrayObj {
	return raw.Floats(c.Components()...)
}

// FillOperator returns the content stream operator selecting c for filling.
func (c *Color) FillOperator() string {
	switch c.space {
	case DeviceRGB:
		return "rg"
	case DeviceCMYK:
		return "k"
	}
	return "g"
}

// StrokeOperator returns the content stream operator selecting c for stroking.
func (c *Color) StrokeOperator() string {
	switch c.space {
	case DeviceRGB:
		return "RG"
	case DeviceCMYK:
		return "K"
	}
	return "G"
}

func (c *Color) String() string {
	return fmt.Sprintf("%s%v", c.space, c.Components())
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
