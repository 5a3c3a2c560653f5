package scripting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFields map[string]string

func (m mapFields) FieldValue(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m mapFields) SetFieldValue(name, value string) bool {
	if _, ok := m[name]; !ok {
		return false
	}
	m[name] = value
	return true
}

func TestGojaEngine_ContextCancellation(t *testing.T) {
	engine := NewEngine(mapFields{})

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	if _, err := engine.Execute(ctx, "while (true) {}"); err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}

	if _, err := engine.Execute(context.Background(), "1 + 1"); err != nil {
		t.Fatalf("engine should recover after cancellation, got %v", err)
	}
}

func TestGojaEngine_ImmediateCancel(t *testing.T) {
	engine := NewEngine(mapFields{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Execute(ctx, "42"); err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
}

func TestCalculateWithGetField(t *testing.T) {
	fields := mapFields{"qty": "3", "price": "2.5", "note": "n/a"}
	engine := NewEngine(fields)

	v, ok, err := engine.Calculate(context.Background(), `event.value = getField("qty").value * getField("price").value`, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7.5", v)

	v, _, err = engine.Calculate(context.Background(), `event.value = getField("note").value + "!"`, "")
	require.NoError(t, err)
	assert.Equal(t, "n/a!", v)

	_, _, err = engine.Calculate(context.Background(), `event.value = getField("missing").value`, "")
	assert.Error(t, err, "getField returns null for unknown names")
}

func TestCalculateRejected(t *testing.T) {
	engine := NewEngine(mapFields{})
	v, ok, err := engine.Calculate(context.Background(), `event.value = 5; event.rc = false`, "old")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "old", v)
}

func TestSetFieldFromScript(t *testing.T) {
	fields := mapFields{"a": "1", "b": ""}
	engine := NewEngine(fields)
	_, err := engine.Execute(context.Background(), `getField("b").value = getField("a").value + 41`)
	require.NoError(t, err)
	assert.Equal(t, "42", fields["b"])
}

func TestSimpleCalculate(t *testing.T) {
	fields := mapFields{"a": "2", "b": "3", "c": " 5 ", "d": ""}
	cases := []struct {
		script string
		want   string
	}{
		{`AFSimple_Calculate("SUM", new Array("a", "b", "c"))`, "10"},
		{`AFSimple_Calculate("PRD", "a, b")`, "6"},
		{`AFSimple_Calculate("AVG", ["a", "b", "d"])`, "1.6666666666666667"},
		{`AFSimple_Calculate("MIN", ["a", "b", "c"])`, "2"},
		{`AFSimple_Calculate("MAX", ["a", "b", "c"])`, "5"},
	}
	engine := NewEngine(fields)
	for _, c := range cases {
		t.Run(c.script, func(t *testing.T) {
			v, ok, err := engine.Calculate(context.Background(), c.script, "")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, c.want, v)
		})
	}

	_, _, err := engine.Calculate(context.Background(), `AFSimple_Calculate("SUM", ["a", "zz"])`, "")
	assert.ErrorContains(t, err, "unknown field: zz")
	_, _, err = engine.Calculate(context.Background(), `AFSimple_Calculate("POW", ["a"])`, "")
	assert.Error(t, err)
}
