package contentstream

import (
	"context"
	"errors"
	"testing"

	"seehuhn.de/go/geom/matrix"

	"github.com/wudi/formkit/color"
)

type testHandler struct {
	calls int
	last  []string
}

func (h *testHandler) Handle(_ string, operands []Operand) error {
	h.calls++
	h.last = make([]string, len(operands))
	for i, op := range operands {
		h.last[i] = op.Type()
	}
	return nil
}

func TestProcessorDispatchesOperators(t *testing.T) {
	p := NewProcessor()
	h := &testHandler{}
	p.RegisterHandler("Tj", h)

	err := p.Process(context.Background(), []byte("BT (Hello world) Tj ET"))
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if h.calls != 1 {
		t.Fatalf("expected handler to be called once, got %d", h.calls)
	}
	if len(h.last) != 1 || h.last[0] != "string" {
		t.Fatalf("unexpected operand types: %v", h.last)
	}
}

func TestProcessorPropagatesHandlerErrors(t *testing.T) {
	boom := errors.New("boom")
	p := NewProcessor()
	p.RegisterHandler("g", HandlerFunc(func(string, []Operand) error { return boom }))
	if err := p.Process(context.Background(), []byte("0 g")); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped handler error, got %v", err)
	}
}

func TestProcessorHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewProcessor().Process(ctx, []byte("q Q")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTokenizeLiteralStrings(t *testing.T) {
	toks := tokenize([]byte(`(a \(b\) c\061) <48 69> /F#20x`))
	if len(toks) != 3 {
		t.Fatalf("got %d tokens", len(toks))
	}
	if string(toks[0].data) != "a (b) c1" {
		t.Errorf("literal = %q", toks[0].data)
	}
	if string(toks[1].data) != "Hi" {
		t.Errorf("hex = %q", toks[1].data)
	}
	if toks[2].kind != tokName {
		t.Errorf("expected name token")
	}
}

func TestParseDA(t *testing.T) {
	tests := []struct {
		in   string
		font string
		size float64
		col  *color.Color
	}{
		{"/Helv 12 Tf 0 g", "Helv", 12, color.Gray(0)},
		{"/F1 0 Tf 1 0 0 rg", "F1", 0, color.RGB(1, 0, 0)},
		{"0 0 0 1 k /Cour 9.5 Tf", "Cour", 9.5, color.CMYK(0, 0, 0, 1)},
		{"", "", 0, nil},
		{"garbage Tf", "", 0, nil},
	}
	for _, tt := range tests {
		da := ParseDA(tt.in)
		if da.Font != tt.font || da.Size != tt.size || !da.Color.Equal(tt.col) {
			t.Errorf("ParseDA(%q) = %+v", tt.in, da)
		}
	}
}

func TestDefaultAppearanceString(t *testing.T) {
	da := DefaultAppearance{Font: "GoRegular", Size: 12, Color: color.RGB(0, 0, 1)}
	if got, want := da.String(), "/GoRegular 12 Tf 0 0 1 rg"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	back := ParseDA(da.String())
	if back.Font != da.Font || back.Size != da.Size || !back.Color.Equal(da.Color) {
		t.Fatalf("reparse mismatch: %+v", back)
	}
}

func TestCanvasOutput(t *testing.T) {
	c := NewCanvas()
	c.BeginMarkedContent("Tx")
	c.SaveState()
	c.SetFillColor(color.Gray(1))
	c.SetStrokeColor(nil)
	c.Rectangle(0, 0, 100.5, 20)
	c.Fill()
	c.ConcatMatrix(matrix.Matrix{0, 1, -1, 0, 20, 0})
	c.BeginText()
	c.SetFontAndSize("F1", 12)
	c.MoveText(2, 4.33333)
	c.ShowText([]byte("a(b)"))
	c.EndText()
	c.RestoreState()
	c.EndMarkedContent()

	want := "/Tx BMC\nq\n1 g\n0 0 100.5 20 re\nf\n0 1 -1 0 20 0 cm\nBT\n/F1 12 Tf\n2 4.3333 Td\n(a\\(b\\)) Tj\nET\nQ\nEMC\n"
	if got := string(c.Bytes()); got != want {
		t.Fatalf("canvas output:\n%s\nwant:\n%s", got, want)
	}
}

func TestEscapeName(t *testing.T) {
	if got := EscapeName("A B#"); got != "A#20B#23" {
		t.Fatalf("got %q", got)
	}
}
