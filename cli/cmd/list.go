package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/litweb/web"
)

// List reads the sources and describes every chunk and stream without
// expanding them.
type List struct {
	Input `embed:""`

	Chunks  bool   `help:"List chunks only"`
	Streams bool   `help:"List streams only"`
	Format  string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})" short:"f"`
	Where   string `help:"Only list entries for which the expression is true (fields: kind, name, lines, elements, uses)" placeholder:"EXPR" short:"w"`
}

// listEntry is one row of the listing. Field tags name the variables of
// --where expressions.
type listEntry struct {
	Kind     string   `expr:"kind"     json:"kind"           yaml:"kind"`
	Name     string   `expr:"name"     json:"name"           yaml:"name"`
	Lines    int      `expr:"lines"    json:"lines"          yaml:"lines"`
	Elements int      `expr:"elements" json:"elements"       yaml:"elements"`
	Uses     []string `expr:"uses"     json:"uses,omitempty" yaml:"uses,omitempty"`
}

func makeListEntry(e web.Entry) listEntry {
	entry := listEntry{
		Kind:     e.Kind.String(),
		Name:     e.Name,
		Lines:    e.Lines,
		Elements: e.Elements,
	}

	for _, ref := range e.Uses {
		entry.Uses = append(entry.Uses, ref.String())
	}

	return entry
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) error {
	w, err := l.newWeb(ctx)
	if err != nil {
		return err
	}

	err = l.parse(ctx, w)
	if err != nil {
		return err
	}

	entries, err := l.filter(w.Summary())
	if err != nil {
		return err
	}

	out := streamsFrom(ctx).stdout

	switch l.Format {
	case "json":
		return writeJSON(out, entries)
	case "yaml":
		return writeYAML(out, entries)
	default:
		return writeText(out, entries)
	}
}

// filter selects the entries matching the kind flags and the --where
// expression.
func (l *List) filter(summary []web.Entry) ([]listEntry, error) {
	var program *vm.Program

	if l.Where != "" {
		var err error

		program, err = expr.Compile(l.Where, expr.Env(listEntry{}), expr.AsBool())
		if err != nil {
			return nil, ErrFilter.Wrap(err).With(slog.String("where", l.Where))
		}
	}

	entries := []listEntry{}

	for _, e := range summary {
		if l.Chunks != l.Streams {
			if (e.Kind == web.KindChunk) != l.Chunks {
				continue
			}
		}

		entry := makeListEntry(e)

		if program != nil {
			ok, err := expr.Run(program, entry)
			if err != nil {
				return nil, ErrFilter.Wrap(err).With(
					slog.String("where", l.Where),
					slog.String("ref", e.Ref.String()),
				)
			}

			if keep, _ := ok.(bool); !keep {
				continue
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func writeJSON(w io.Writer, entries []listEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(entries)
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

func writeYAML(w io.Writer, entries []listEntry) error {
	b, err := yaml.Marshal(entries)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(b)

	return err
}

// writeText prints streams then chunks, each name followed by the names it
// uses. Styling is dropped when w is not a terminal.
func writeText(w io.Writer, entries []listEntry) error {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true)
	name := r.NewStyle().Foreground(lipgloss.Color("6"))
	detail := r.NewStyle().Faint(true)

	kind := ""

	for _, e := range entries {
		if e.Kind != kind {
			kind = e.Kind

			_, err := fmt.Fprintln(w, heading.Render(kind+"s:"))
			if err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, "   %s %s\n",
			name.Render(e.Name),
			detail.Render(fmt.Sprintf("(%d lines)", e.Lines)),
		)
		if err != nil {
			return err
		}

		for _, use := range e.Uses {
			_, err := fmt.Fprintln(w, detail.Render("      uses "+use))
			if err != nil {
				return err
			}
		}
	}

	return nil
}
