package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

const listDoc = `=begin litweb
=begin_chunk head
title
=end_chunk head
=begin_chunk tail
end
=end_chunk tail
=begin_stream main
=use_chunk head tail
body
=end_stream main
=end litweb
`

func list(t *testing.T, l *List) (string, error) {
	t.Helper()

	l.Input = input()

	var out strings.Builder

	ctx := WithStreams(context.Background(), strings.NewReader(listDoc), &out, nil)
	err := l.Run(ctx)

	return out.String(), err
}

func TestListFilter(t *testing.T) {
	tests := []struct {
		name string
		list List
		want []string
	}{
		{name: "all", want: []string{"main", "head", "tail"}},
		{name: "chunks", list: List{Chunks: true}, want: []string{"head", "tail"}},
		{name: "streams", list: List{Streams: true}, want: []string{"main"}},
		{name: "both kinds", list: List{Chunks: true, Streams: true}, want: []string{"main", "head", "tail"}},
		{name: "where uses", list: List{Where: `len(uses) > 0`}, want: []string{"main"}},
		{name: "where name", list: List{Where: `name startsWith "t"`}, want: []string{"tail"}},
		{name: "where nothing", list: List{Where: `lines > 10`}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.list
			l.Format = "json"

			out, err := list(t, &l)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			var entries []listEntry

			err = json.Unmarshal([]byte(out), &entries)
			if err != nil {
				t.Fatalf("invalid JSON %q: %v", out, err)
			}

			got := []string{}
			for _, e := range entries {
				got = append(got, e.Name)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("listed names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListFilterErrors(t *testing.T) {
	for _, where := range []string{`name +`, `lines + 1`, `unknown == 1`} {
		t.Run(where, func(t *testing.T) {
			_, err := list(t, &List{Where: where, Format: "text"})
			if !errors.Is(err, ErrFilter) {
				t.Errorf("Run() error = %v, want %v", err, ErrFilter)
			}
		})
	}
}

func TestListYAML(t *testing.T) {
	out, err := list(t, &List{Streams: true, Format: "yaml"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got []listEntry

	err = yaml.Unmarshal([]byte(out), &got)
	if err != nil {
		t.Fatalf("invalid YAML %q: %v", out, err)
	}

	want := []listEntry{{
		Kind:     "stream",
		Name:     "main",
		Lines:    1,
		Elements: 2,
		Uses:     []string{"chunk head", "chunk tail"},
	}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("YAML listing mismatch (-want +got):\n%s", diff)
	}
}

func TestListText(t *testing.T) {
	out, err := list(t, &List{Format: "text"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{
		"streams:",
		"main (1 lines)",
		"uses chunk head",
		"uses chunk tail",
		"chunks:",
		"head (1 lines)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text listing missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "streams:") > strings.Index(out, "chunks:") {
		t.Errorf("streams listed after chunks:\n%s", out)
	}
}
