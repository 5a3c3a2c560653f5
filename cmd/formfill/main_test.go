package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/rect"

	"github.com/wudi/formkit/document"
	"github.com/wudi/formkit/forms"
)

func writeForm(t *testing.T) string {
	t.Helper()
	d := document.New()
	d.AddPage(612, 792)
	form, err := d.AcroForm()
	require.NoError(t, err)
	require.NoError(t, form.AddField(form.NewTextField("name", rect.Rect{LLx: 50, LLy: 700, URx: 250, URy: 720}, ""), 1))
	require.NoError(t, form.AddField(form.NewCheckBox("agree", rect.Rect{LLx: 50, LLy: 650, URx: 62, URy: 662}, forms.CheckCross, ""), 1))

	var buf bytes.Buffer
	require.NoError(t, d.Save(context.Background(), &buf, document.Full))
	path := filepath.Join(t.TempDir(), "form.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestRunFillsFields(t *testing.T) {
	in := writeForm(t)
	out := filepath.Join(t.TempDir(), "filled.pdf")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--set", "name=Ada", "--set", "agree=Yes", "--loglevel", "error", in, out}, &stdout, &stderr)
	require.NoError(t, err)

	original, err := os.ReadFile(in)
	require.NoError(t, err)
	filled, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(filled, original), "the default mode appends an update")

	d, err := document.Open(context.Background(), bytes.NewReader(filled))
	require.NoError(t, err)
	form, err := d.AcroForm()
	require.NoError(t, err)
	assert.Equal(t, "Ada", form.Field("name").Value())
	assert.Equal(t, "Yes", form.Field("agree").Value())
}

func TestRunFullMode(t *testing.T) {
	in := writeForm(t)
	out := filepath.Join(t.TempDir(), "filled.pdf")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--mode", "full", "--regenerate", "-s", "name=Grace", in, out}, &stdout, &stderr))

	filled, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(filled), "/Prev")
	assert.Contains(t, stderr.String(), "saved form")
}

func TestRunUnknownField(t *testing.T) {
	in := writeForm(t)
	out := filepath.Join(t.TempDir(), "filled.pdf")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-s", "missing=1", "-s", "other=2", in, out}, &stdout, &stderr)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnknownField)
	assert.Contains(t, err.Error(), "missing")
	assert.Contains(t, err.Error(), "other")
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "nothing is written on failure")
}

func TestRunList(t *testing.T) {
	in := writeForm(t)
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--list", in}, &stdout, &stderr))
	out := stdout.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "agree")
	assert.Contains(t, out, "[Off Yes]")
}

func TestRunMissingInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{filepath.Join(t.TempDir(), "nope.pdf"), "out.pdf"}, &stdout, &stderr)
	assert.Error(t, err)
}

func TestRunCalculate(t *testing.T) {
	d := document.New()
	d.AddPage(612, 792)
	form, err := d.AcroForm()
	require.NoError(t, err)
	a := form.NewTextField("a", rect.Rect{LLx: 10, LLy: 10, URx: 90, URy: 30}, "")
	sum := form.NewTextField("sum", rect.Rect{LLx: 10, LLy: 40, URx: 90, URy: 60}, "")
	require.NoError(t, form.AddField(a, 1))
	require.NoError(t, form.AddField(sum, 1))
	sum.SetJavaScript(forms.TriggerCalculate, `event.value = getField("a").value + 1`)
	form.SetCalculationOrder(sum)
	var buf bytes.Buffer
	require.NoError(t, d.Save(context.Background(), &buf, document.Full))
	in := filepath.Join(t.TempDir(), "calc.pdf")
	require.NoError(t, os.WriteFile(in, buf.Bytes(), 0o600))

	out := filepath.Join(t.TempDir(), "out.pdf")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--calculate", "-s", "a=41", in, out}, &stdout, &stderr))

	filled, err := os.ReadFile(out)
	require.NoError(t, err)
	re, err := document.Open(context.Background(), bytes.NewReader(filled))
	require.NoError(t, err)
	reForm, err := re.AcroForm()
	require.NoError(t, err)
	assert.Equal(t, "42", reForm.Field("sum").Value())
}
