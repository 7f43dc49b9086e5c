package sink

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/litweb/web"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer

	err := Console{W: &buf}.Write(context.Background(), "greet", "hello\n")
	if err != nil {
		t.Fatal(err)
	}

	if buf.String() != "hello\n" {
		t.Errorf("wrote %q", buf.String())
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	err := os.WriteFile(path, []byte("old contents that are longer\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	err = File{Path: path}.Write(context.Background(), "c", "new\n")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "new\n" {
		t.Errorf("file contents = %q, want truncated to %q", got, "new\n")
	}
}

func TestFileSkipUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	past := time.Now().Add(-time.Hour).Truncate(time.Second)

	write := func(text string) time.Time {
		t.Helper()

		err := File{Path: path, SkipUnchanged: true}.Write(context.Background(), "c", text)
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}

		return info.ModTime()
	}

	write("same\n")

	err := os.Chtimes(path, past, past)
	if err != nil {
		t.Fatal(err)
	}

	if mod := write("same\n"); !mod.Equal(past) {
		t.Errorf("unchanged file was rewritten: mtime %v, want %v", mod, past)
	}

	if mod := write("different\n"); mod.Equal(past) {
		t.Error("changed file was not rewritten")
	}
}

func TestFileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.txt")

	err := File{Path: path}.Write(context.Background(), "c", "x")
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("Write() error = %v, want %v", err, ErrWrite)
	}

	var werr *web.Error
	if !errors.As(err, &werr) {
		t.Fatal("error is not a *web.Error")
	}

	if v, _ := werr.Attr("target"); v.String() != path {
		t.Errorf("target = %q, want %q", v.String(), path)
	}
}

func TestPipe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	var stdout, stderr bytes.Buffer

	p := Pipe{
		Command: "tr a-z A-Z; echo done >&2",
		Shell:   DefaultShell,
		Stdout:  &stdout,
		Stderr:  &stderr,
	}

	err := p.Write(context.Background(), "s", "shout\n")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if stdout.String() != "SHOUT\n" {
		t.Errorf("stdout = %q", stdout.String())
	}

	if stderr.String() != "done\n" {
		t.Errorf("stderr = %q", stderr.String())
	}

	p.Command = "exit 3"

	err = p.Write(context.Background(), "s", "")
	if !errors.Is(err, ErrWrite) {
		t.Errorf("Write() error = %v, want %v", err, ErrWrite)
	}
}

func TestPipeShell(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/custom")

	if got := (Pipe{}).shell(); got != "/usr/bin/custom" {
		t.Errorf("shell() = %q, want $SHELL", got)
	}

	if got := (Pipe{Shell: "/bin/bash"}).shell(); got != "/bin/bash" {
		t.Errorf("shell() = %q, want explicit shell", got)
	}

	t.Setenv("SHELL", "")

	if got := (Pipe{}).shell(); got != DefaultShell {
		t.Errorf("shell() = %q, want %q", got, DefaultShell)
	}
}

// parse builds an expanded web from input.
func parse(t *testing.T, input string) *web.Web {
	t.Helper()

	w, err := web.New()
	if err != nil {
		t.Fatal(err)
	}

	err = w.Parse(context.Background(), "in.txt", strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	err = w.ExpandAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	return w
}

func TestDispatch(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	cli := filepath.Join(dir, "cli.txt")

	input := strings.Join([]string{
		"=begin litweb",
		"=begin_chunk c",
		"chunk",
		"=end_chunk c",
		"=begin_stream s",
		"stream",
		"=end_stream s",
		"=pipe_chunk c cat",
		"=output_chunk c " + out,
		"=display_chunk c",
		"=display_stream s",
		"=end litweb",
	}, "\n") + "\n"

	tests := []struct {
		name    string
		policy  Policy
		stdout  string
		outFile bool
	}{
		{"default", DefaultPolicy, "stream\nchunk\n", false},
		{"all", Policy{Display: true, Output: true, Pipe: true}, "stream\nchunk\nchunk\n", true},
		{"none", Policy{}, "", false},
		{"pipe only", Policy{Pipe: true}, "chunk\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Remove(out)
			os.Remove(cli)

			w := parse(t, input)

			// Command-line requests run regardless of the policy.
			w.Request(web.Request{
				Action: web.ActionOutput,
				Ref:    web.Stream("s"),
				Target: cli,
				Origin: web.OriginCommand,
			})

			var stdout bytes.Buffer

			d := Dispatcher{Policy: tt.policy, Stdout: &stdout, Stderr: &stdout, Shell: DefaultShell}

			err := d.Dispatch(context.Background(), w, w.Requests())
			if err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}

			if diff := cmp.Diff(tt.stdout, stdout.String()); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}

			_, err = os.Stat(out)
			if exists := err == nil; exists != tt.outFile {
				t.Errorf("output file exists = %v, want %v", exists, tt.outFile)
			}

			got, err := os.ReadFile(cli)
			if err != nil || string(got) != "stream\n" {
				t.Errorf("command-line output = %q, %v", got, err)
			}
		})
	}
}

func TestDispatchRendersBeforeOpening(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.txt")

	err := os.WriteFile(path, []byte("keep\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	w := parse(t, "=begin litweb\n=end litweb\n")

	reqs := []web.Request{{
		Action: web.ActionOutput,
		Ref:    web.Chunk("missing"),
		Target: path,
		Origin: web.OriginCommand,
	}}

	err = Dispatcher{}.Dispatch(context.Background(), w, reqs)
	if !errors.Is(err, web.ErrUndefined) {
		t.Fatalf("Dispatch() error = %v, want %v", err, web.ErrUndefined)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "keep\n" {
		t.Errorf("file was modified: %q", got)
	}
}

func TestPolicyAllows(t *testing.T) {
	p := Policy{Output: true}

	for action, want := range map[web.Action]bool{
		web.ActionDisplay: false,
		web.ActionOutput:  true,
		web.ActionPipe:    false,
		web.Action(9):     false,
	} {
		if got := p.Allows(action); got != want {
			t.Errorf("Allows(%v) = %v, want %v", action, got, want)
		}
	}
}
