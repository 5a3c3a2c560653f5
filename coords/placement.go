package coords

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// AppearanceTransform computes the /Matrix of a text or choice appearance
// and the rectangle its content is laid out in.
//
// pageRotation is the page /Rotate value. fieldRotation is the widget's
// MK/R value and is only used when hasFieldRotation is set. bbox is the
// widget rectangle. The page transform is applied first, then the field
// transform; each swaps the box dimensions for quarter turns and moves its
// origin by the translation it introduced.
//
// When pageRotation is not a multiple of 90 the page transform falls back
// to the identity and ok is false; callers should log and carry on.
func AppearanceTransform(pageRotation, fieldRotation int, hasFieldRotation bool, bbox rect.Rect) (m matrix.Matrix, box rect.Rect, ok bool) {
	ok = true
	page := -pageRotation
	box = bbox
	m = matrix.Identity

	if IsRightAngle(page) {
		angle := page % 360
		var tx, ty float64
		if angle <= -90 && angle >= -180 {
			tx = box.Dx()
		}
		if angle <= -180 {
			ty = box.Dy()
		}
		m = rotation(angle, tx, ty)
		if swapsAxes(angle) {
			box = swap(box)
		}
		box = shift(box, tx, ty)
	} else {
		ok = false
	}

	rel := 0
	if hasFieldRotation {
		rel = fieldRotation + page
	}
	if IsRightAngle(rel) {
		angle := rel % 360
		tx := TranslationWidth(box, page, angle)
		ty := TranslationHeight(box, page, angle)
		m = m.Mul(rotation(angle, tx, ty))
		if swapsAxes(angle) {
			box = swap(box)
		}
		box = shift(box, tx, ty)
	}
	return m, box, ok
}

// TranslationHeight returns the vertical offset that brings a field
// rotated by rel degrees on a page rotated by page degrees (both
// counter-clockwise, page already negated) back into its box. Combinations
// not listed need no offset.
func TranslationHeight(box rect.Rect, page, rel int) float64 {
	w, h := box.Dx(), box.Dy()
	if rel == 0 {
		return 0
	}
	switch page {
	case 0:
		if rel == 90 || rel == 180 {
			return h
		}
	case -90:
		switch rel {
		case -90:
			return w - h
		case 90:
			return h
		case 180:
			return w
		}
	case -180:
		switch rel {
		case -180:
			return h
		case -90:
			return h - w
		case 90:
			return w
		}
	case -270:
		if rel == -270 || rel == -180 {
			return w
		}
	}
	return 0
}

// TranslationWidth is the horizontal counterpart of TranslationHeight.
func TranslationWidth(box rect.Rect, page, rel int) float64 {
	w, h := box.Dx(), box.Dy()
	if rel == 0 {
		return 0
	}
	switch page {
	case 0:
		if rel == 180 || rel == 270 {
			return w
		}
	case -90:
		if rel == -90 || rel == 180 {
			return h
		}
	case -180:
		switch rel {
		case -180:
			return w
		case -90:
			return h
		case 90:
			return -(h - w)
		}
	case -270:
		switch rel {
		case -270:
			return -(w - h)
		case -180:
			return h
		case -90:
			return w
		}
	}
	return 0
}

func swap(r rect.Rect) rect.Rect {
	w, h := r.Dx(), r.Dy()
	return rect.Rect{LLx: r.LLx, LLy: r.LLy, URx: r.LLx + h, URy: r.LLy + w}
}

func shift(r rect.Rect, dx, dy float64) rect.Rect {
	return rect.Rect{LLx: r.LLx + dx, LLy: r.LLy + dy, URx: r.URx + dx, URy: r.URy + dy}
}
