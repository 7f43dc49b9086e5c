package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/litweb/web"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	return path
}

func sourceNames(srcs []source) []string {
	names := make([]string, len(srcs))
	for i, s := range srcs {
		names[i] = s.name
	}

	return names
}

// TestSourcesEmpty tests that no paths means standard input alone.
func TestSourcesEmpty(t *testing.T) {
	srcs, err := sources(nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(srcs) != 1 || !srcs[0].stdin {
		t.Errorf("sources(nil) = %+v, want stdin only", srcs)
	}
}

// TestSourcesDuplicates tests that paths naming one file are read once.
func TestSourcesDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.txt"), "a")
	b := writeFile(t, filepath.Join(dir, "b.txt"), "b")

	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(wd, a)
	if err != nil {
		t.Fatal(err)
	}

	srcs, err := sources([]string{a, b, rel, link, a})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{a, b}, sourceNames(srcs)); diff != "" {
		t.Errorf("sources() mismatch (-want +got):\n%s", diff)
	}
}

// TestSourcesStdinLast tests that every "-" collapses into one trailing stdin
// source.
func TestSourcesStdinLast(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.txt"), "a")

	srcs, err := sources([]string{"-", a, "-"})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{a, stdinName}, sourceNames(srcs)); diff != "" {
		t.Errorf("sources() mismatch (-want +got):\n%s", diff)
	}

	if !srcs[1].stdin {
		t.Error("last source is not stdin")
	}
}

// TestSourcesNonexistent tests that a missing file is an input error.
func TestSourcesNonexistent(t *testing.T) {
	_, err := sources([]string{filepath.Join(t.TempDir(), "missing.txt")})
	if !errors.Is(err, web.ErrReadInput) {
		t.Errorf("sources() error = %v, want %v", err, web.ErrReadInput)
	}
}

func TestSplitPair(t *testing.T) {
	tests := []struct {
		pair      string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{pair: "main=out.txt", wantName: "main", wantValue: "out.txt"},
		{pair: "main=sort -u | wc -l", wantName: "main", wantValue: "sort -u | wc -l"},
		{pair: "a=b=c", wantName: "a", wantValue: "b=c"},
		{pair: "main", wantErr: true},
		{pair: "=out.txt", wantErr: true},
		{pair: "main=", wantErr: true},
		{pair: "main=  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			name, value, err := splitPair(tt.pair)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitPair(%q) error = %v, wantErr %v", tt.pair, err, tt.wantErr)
			}

			if err != nil {
				if !errors.Is(err, ErrInvalidPair) {
					t.Errorf("splitPair(%q) error = %v, want %v", tt.pair, err, ErrInvalidPair)
				}

				return
			}

			if name != tt.wantName || value != tt.wantValue {
				t.Errorf("splitPair(%q) = %q, %q, want %q, %q",
					tt.pair, name, value, tt.wantName, tt.wantValue)
			}
		})
	}
}

// input returns flags equivalent to the command-line defaults.
func input(srcs ...string) Input {
	return Input{
		Sources:  srcs,
		Marker:   web.DefaultMarker,
		MaxDepth: web.DefaultMaxDepth,
	}
}

func run(t *testing.T, r *Run, stdin string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut strings.Builder

	ctx := WithStreams(context.Background(), strings.NewReader(stdin), &out, &errOut)
	err = r.Run(ctx)

	return out.String(), errOut.String(), err
}

func TestRunPolicy(t *testing.T) {
	tests := []struct {
		name     string
		run      Run
		wantOut  string
		wantFile bool
	}{
		{
			name:    "default displays only",
			wantOut: "hello\n",
		},
		{
			name:     "allow output",
			run:      Run{AllowOutput: true},
			wantOut:  "hello\n",
			wantFile: true,
		},
		{
			name:     "allow all then suppress display",
			run:      Run{AllowAll: true, SuppressDisplay: true},
			wantFile: true,
		},
		{
			name: "suppress all",
			run:  Run{SuppressAll: true},
		},
		{
			name:     "suppress all then allow output",
			run:      Run{SuppressAll: true, AllowOutput: true},
			wantFile: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			target := filepath.Join(dir, "out.txt")
			doc := writeFile(t, filepath.Join(dir, "doc.txt"), strings.Join([]string{
				"=begin litweb",
				"=begin_chunk greet",
				"hello",
				"=end_chunk greet",
				"=display_chunk greet",
				"=output_chunk greet " + target,
				"=end litweb",
			}, "\n")+"\n")

			r := tt.run
			r.Input = input(doc)

			out, _, err := run(t, &r, "")
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if out != tt.wantOut {
				t.Errorf("stdout = %q, want %q", out, tt.wantOut)
			}

			_, err = os.Stat(target)
			if gotFile := err == nil; gotFile != tt.wantFile {
				t.Errorf("output file exists = %v, want %v", gotFile, tt.wantFile)
			}
		})
	}
}

// TestRunCommandRequests tests that command-line requests run regardless of
// the directive policy.
func TestRunCommandRequests(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.txt")

	r := Run{
		Input:         input(),
		SuppressAll:   true,
		DisplayStream: []string{"main"},
		OutputStream:  []string{"main=" + target},
		PipeChunk:     []string{"head=tr a-z A-Z"},
	}

	out, _, err := run(t, &r, strings.Join([]string{
		"=begin litweb",
		"=begin_chunk head",
		"title",
		"=end_chunk head",
		"=begin_stream main",
		"=use_chunk head",
		"body",
		"=end_stream main",
		"=display_chunk head",
		"=end litweb",
	}, "\n")+"\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := "title\nbody\nTITLE\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}

	b, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}

	if want := "title\nbody\n"; string(b) != want {
		t.Errorf("output file = %q, want %q", b, want)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		run   Run
		stdin string
		want  error
	}{
		{
			name: "invalid pair",
			run:  Run{OutputChunk: []string{"main"}},
			want: ErrInvalidPair,
		},
		{
			name:  "undefined use",
			stdin: "=begin litweb\n=begin_chunk a\n=use_chunk b\n=end_chunk a\n=end litweb\n",
			want:  web.ErrUndefined,
		},
		{
			name:  "undefined display",
			run:   Run{DisplayChunk: []string{"missing"}},
			stdin: "text\n",
			want:  web.ErrUndefined,
		},
		{
			name:  "nested region",
			stdin: "=begin litweb\n=begin litweb\n",
			want:  web.ErrRegionNested,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.run
			r.Input = input()

			_, _, err := run(t, &r, tt.stdin)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPolicy(t *testing.T) {
	tests := []struct {
		name string
		run  Run
		want [3]bool
	}{
		{name: "default", want: [3]bool{true, false, false}},
		{name: "allow all", run: Run{AllowAll: true}, want: [3]bool{true, true, true}},
		{name: "suppress all", run: Run{SuppressAll: true}, want: [3]bool{}},
		{name: "suppress wins", run: Run{AllowPipe: true, SuppressPipe: true}, want: [3]bool{true, false, false}},
		{name: "allow after suppress all", run: Run{SuppressAll: true, AllowPipe: true}, want: [3]bool{false, false, true}},
		{name: "suppress display", run: Run{SuppressDisplay: true}, want: [3]bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.run.policy()
			got := [3]bool{p.Display, p.Output, p.Pipe}

			if got != tt.want {
				t.Errorf("policy() = %v, want %v", got, tt.want)
			}
		})
	}
}
