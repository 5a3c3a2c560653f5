// Package coords computes the transformations that place widget
// appearance streams on rotated pages and rotated fields.
//
// Angles are handled in whole degrees. PDF page rotation (/Rotate) is
// clockwise while the appearance matrices are built counter-clockwise, so
// page rotations are negated before use.
package coords

import (
	"errors"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"github.com/wudi/formkit/ir/raw"
)

var (
	// ErrUnsupportedRotation is returned for widget rotations other than
	// 0, 90, 180 and 270 degrees.
	ErrUnsupportedRotation = errors.New("coords: widget rotation must be 0, 90, 180 or 270")
	// ErrMalformedPageRotation is returned when a page rotation is not a
	// multiple of 90 degrees.
	ErrMalformedPageRotation = errors.New("coords: page rotation is not a multiple of 90")
)

// RectFromNumbers builds a normalised rectangle from llx, lly, urx, ury.
func RectFromNumbers(vals []float64) (rect.Rect, bool) {
	if len(vals) != 4 {
		return rect.Rect{}, false
	}
	r := rect.Rect{LLx: vals[0], LLy: vals[1], URx: vals[2], URy: vals[3]}
	if r.LLx > r.URx {
		r.LLx, r.URx = r.URx, r.LLx
	}
	if r.LLy > r.URy {
		r.LLy, r.URy = r.URy, r.LLy
	}
	return r, true
}

// RectFromObject reads a rectangle array through the store.
func RectFromObject(s *raw.Store, obj raw.Object) (rect.Rect, bool) {
	vals, ok := s.Numbers(s.AsArray(obj))
	if !ok {
		return rect.Rect{}, false
	}
	return RectFromNumbers(vals)
}

// RectArray encodes r as [llx lly urx ury].
func RectArray(r rect.Rect) *raw.ArrayObj {
	return raw.Floats(r.LLx, r.LLy, r.URx, r.URy)
}

// MatrixArray encodes m as a six element array.
func MatrixArray(m matrix.Matrix) *raw.ArrayObj {
	return raw.Floats(m[0], m[1], m[2], m[3], m[4], m[5])
}

// MatrixFromObject reads a six element matrix array.
func MatrixFromObject(s *raw.Store, obj raw.Object) (matrix.Matrix, bool) {
	vals, ok := s.Numbers(s.AsArray(obj))
	if !ok || len(vals) != 6 {
		return matrix.Identity, false
	}
	return matrix.Matrix{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]}, true
}

// Size returns a rectangle anchored at the origin with the given size.
func Size(width, height float64) rect.Rect {
	return rect.Rect{URx: width, URy: height}
}

// WidgetRotationMatrix returns the appearance matrix of a widget rotated
// by rotation degrees within its own rectangle. A rotation of 0 yields the
// identity, which callers do not write.
func WidgetRotationMatrix(rotation int, height, width float64) (matrix.Matrix, error) {
	switch rotation {
	case 0:
		return matrix.Identity, nil
	case 90:
		return matrix.Matrix{0, 1, -1, 0, height, 0}, nil
	case 180:
		return matrix.Matrix{-1, 0, 0, -1, width, height}, nil
	case 270:
		return matrix.Matrix{0, -1, 1, 0, 0, width}, nil
	}
	return matrix.Matrix{}, ErrUnsupportedRotation
}

// IsRightAngle reports whether deg is a multiple of 90.
func IsRightAngle(deg int) bool { return deg%90 == 0 }

// NormalizeDegrees maps a multiple of 90 into [0, 360).
func NormalizeDegrees(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

// rotation returns [cos, -sin, sin, cos, tx, ty] for a multiple of 90
// degrees without floating point noise.
func rotation(deg int, tx, ty float64) matrix.Matrix {
	var cos, sin float64
	switch NormalizeDegrees(deg) {
	case 0:
		cos, sin = 1, 0
	case 90:
		cos, sin = 0, 1
	case 180:
		cos, sin = -1, 0
	case 270:
		cos, sin = 0, -1
	}
	return matrix.Matrix{cos, -sin, sin, cos, tx, ty}
}

// swapsAxes reports whether a rotation exchanges width and height.
func swapsAxes(deg int) bool { return deg%90 == 0 && deg%180 != 0 }
