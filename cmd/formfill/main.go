// Command formfill lists or fills the interactive form fields of a PDF.
//
//	formfill --set name=Ada --set agree=Yes in.pdf out.pdf
//	formfill --list in.pdf
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/wudi/formkit/document"
	"github.com/wudi/formkit/forms"
	"github.com/wudi/formkit/internal/config"
	"github.com/wudi/formkit/observability"
	"github.com/wudi/formkit/writer"
)

// errUnknownField is wrapped for every --set naming a field the form lacks.
var errUnknownField = errors.New("unknown field")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, config.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	level, _ := observability.ParseLevel(cfg.LogLevel)
	logger := observability.NewSlogLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	in, err := os.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	doc, err := document.Open(ctx, in,
		document.WithLogger(logger),
		document.WithProducer(cfg.Producer),
		document.WithWriterConfig(writer.Config{Compression: cfg.Compression, Deterministic: cfg.Deterministic}),
	)
	if err != nil {
		return err
	}
	defer doc.Close()

	form, err := doc.AcroForm()
	if err != nil {
		return err
	}
	if cfg.List {
		return listFields(stdout, form)
	}
	if err := fill(form, cfg.Values); err != nil {
		return err
	}
	if cfg.Calculate {
		n, err := doc.Calculate(ctx)
		if err != nil {
			return err
		}
		logger.Debug("ran calculations", observability.Int("changed", n))
	}
	if cfg.Regenerate {
		ok, err := doc.RegenerateFields(ctx)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn("some field appearances could not be generated")
		}
	}

	mode := document.Full
	if cfg.IsIncremental() {
		mode = document.Incremental
	}
	out, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := doc.Save(ctx, out, mode); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	logger.Info("saved form",
		observability.String("output", cfg.Output),
		observability.Stringer("mode", mode),
		observability.Int("fields", len(cfg.Values)))
	return nil
}

// fill sets values in name order so repeated runs modify objects in the
// same sequence.
func fill(form *forms.AcroForm, values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		f := form.Field(name)
		if f == nil {
			errs = append(errs, fmt.Errorf("%w: %s", errUnknownField, name))
			continue
		}
		f.SetValue(values[name])
	}
	return errors.Join(errs...)
}

func listFields(w io.Writer, form *forms.AcroForm) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tVALUE\tSTATES")
	for _, f := range form.AllFields() {
		if len(f.Widgets()) == 0 {
			continue
		}
		var states []string
		for _, wg := range f.Widgets() {
			states = append(states, wg.AppearanceStates()...)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", f.FullName(), f.Kind(), f.Value(), states)
	}
	return tw.Flush()
}
