package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/formkit/color"
	"github.com/wudi/formkit/ir/raw"
)

func TestMakeFormAnnotationRejectsNonWidgets(t *testing.T) {
	_, form := newTestForm(t)
	link := raw.DictOf(map[string]raw.Object{"Subtype": raw.NameLiteral("Link")})
	if w := form.MakeFormAnnotation(link); w != nil {
		t.Fatalf("wrapped a link annotation")
	}
	if w := form.MakeFormAnnotation(raw.NumberInt(1)); w != nil {
		t.Fatalf("wrapped a number")
	}
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	require.NotNil(t, w)
	assert.True(t, form.store.IsIndirect(w.Dict()))
	assert.Same(t, w, form.MakeFormAnnotation(w.Dict()))
	assert.Equal(t, AnnotPrint, w.Flags())
}

func TestSetRotationNormalises(t *testing.T) {
	_, form := newTestForm(t)
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	cases := []struct {
		in, want int
	}{
		{0, 0}, {90, 90}, {-90, 270}, {450, 90}, {-360, 0}, {720, 0}, {-630, 90},
	}
	for _, c := range cases {
		if err := w.SetRotation(c.in); err != nil {
			t.Fatalf("SetRotation(%d): %v", c.in, err)
		}
		if got := w.Rotation(); got != c.want {
			t.Errorf("SetRotation(%d): rotation %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSetRotationRejectsOddAngles(t *testing.T) {
	_, form := newTestForm(t)
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	require.NoError(t, w.SetRotation(180))
	for _, deg := range []int{45, 1, -100} {
		err := w.SetRotation(deg)
		if !errors.Is(err, ErrInvalidRotation) {
			t.Errorf("SetRotation(%d) = %v, want ErrInvalidRotation", deg, err)
		}
	}
	assert.Equal(t, 180, w.Rotation(), "rejected rotations must not be stored")
}

func TestBorderColorRoundTrip(t *testing.T) {
	_, form := newTestForm(t)
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	red := color.RGB(1, 0, 0)
	w.SetBorderColor(red)
	if !red.Equal(w.BorderColor()) {
		t.Fatalf("BorderColor = %v, want %v", w.BorderColor(), red)
	}
	mk := form.store.GetDict(w.Dict(), "MK")
	vals, ok := form.store.Numbers(form.store.GetArray(mk, "BC"))
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0, 0}, vals)

	w.SetBorderColor(nil)
	assert.Nil(t, w.BorderColor())
	assert.False(t, form.store.GetDict(w.Dict(), "MK").Has("BC"), "nil colour must remove /BC")
}

func TestRetrieveStylesReadsMK(t *testing.T) {
	_, form := newTestForm(t)
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	mk := raw.DictOf(map[string]raw.Object{
		"BG": raw.Floats(0.5),
		"BC": raw.Floats(0, 0, 0, 1),
	})
	form.store.Put(w.Dict(), "MK", mk)
	w.RetrieveStyles()
	assert.True(t, color.Gray(0.5).Equal(w.BackgroundColor()))
	assert.True(t, color.CMYK(0, 0, 0, 1).Equal(w.BorderColor()))

	mk.Set(raw.NameLiteral("BC"), raw.Floats(1, 1))
	w.RetrieveStyles()
	assert.Nil(t, w.BorderColor(), "two components select no colour")
}

func TestBorderWidth(t *testing.T) {
	_, form := newTestForm(t)
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	assert.Equal(t, 1.0, w.BorderWidth())
	assert.Nil(t, w.Border(), "no border without a colour")

	w.SetBorderColor(color.Black)
	w.SetBorderWidth(2.6)
	assert.Equal(t, 3.0, w.BorderWidth())
	b := w.Border()
	require.NotNil(t, b)
	assert.Equal(t, BorderSolid, b.Style)

	w.SetBorderStyle(NewBorderStyle(BorderDashed, 0.4))
	b = w.Border()
	require.NotNil(t, b)
	assert.Equal(t, 1.0, b.Width, "border width is at least 1")
	assert.Equal(t, defaultDash, b.Dash)

	w.SetBorderWidth(0)
	assert.Nil(t, w.Border())
}

func TestSetVisibility(t *testing.T) {
	_, form := newTestForm(t)
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	cases := []struct {
		v    Visibility
		want AnnotationFlag
	}{
		{Hidden, AnnotPrint | AnnotHidden},
		{HiddenButPrintable, AnnotPrint | AnnotNoView},
		{Visible, AnnotPrint},
	}
	for _, c := range cases {
		w.SetVisibility(c.v)
		if got := w.Flags(); got != c.want {
			t.Errorf("SetVisibility(%v): flags %d, want %d", c.v, got, c.want)
		}
	}
	w.SetFlag(AnnotNoZoom, true)
	w.SetVisibility(VisibleButDoesNotPrint)
	assert.Equal(t, AnnotPrint|AnnotNoZoom, w.Flags(), "VisibleButDoesNotPrint leaves /F alone")
}

func TestSetPage(t *testing.T) {
	doc, form := newTestForm(t)
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	require.NoError(t, w.SetPage(2))
	assert.Same(t, doc.pages[1], w.Page())
	assert.ErrorIs(t, w.SetPage(9), ErrPageNotFound)
}

func TestSetAppearanceRequiresAP(t *testing.T) {
	_, form := newTestForm(t)
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	st := raw.NewStream(nil, []byte("0 g"))
	w.SetAppearance(AppearanceDown, "", st)
	assert.False(t, w.Dict().Has("AP"))

	form.store.Put(w.Dict(), "AP", raw.DictOf(map[string]raw.Object{
		"N": raw.DictOf(map[string]raw.Object{"Off": form.store.MakeIndirect(raw.NewStream(nil, nil))}),
	}))
	w.SetAppearance(AppearanceNormal, "On", st)
	w.SetAppearance(AppearanceDown, "", st)
	assert.Equal(t, []string{"Off", "On"}, w.AppearanceStates())
	assert.Same(t, st, form.store.GetStream(form.store.GetDict(w.Dict(), "AP"), "D"))
}

func TestWidgetWithoutParentRegenerates(t *testing.T) {
	_, form := newTestForm(t)
	w := form.NewFormAnnotation(box(0, 0, 10, 10))
	assert.Nil(t, w.Parent())
	assert.True(t, w.RegenerateWidget())
	assert.False(t, w.Dict().Has("AP"))
}
