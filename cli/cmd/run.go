package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/litweb/log"
	"github.com/ardnew/litweb/sink"
	"github.com/ardnew/litweb/web"
)

// Run reads the sources, expands every chunk and stream, and executes the
// display, output and pipe requests.
type Run struct {
	Input `embed:""`

	AllowAll     bool `help:"Execute display, output and pipe directives" short:"a"`
	AllowDisplay bool `help:"Execute display directives"`
	AllowOutput  bool `help:"Execute output directives"`
	AllowPipe    bool `help:"Execute pipe directives"`

	SuppressAll     bool `help:"Ignore display, output and pipe directives" short:"s"`
	SuppressDisplay bool `help:"Ignore display directives"`
	SuppressOutput  bool `help:"Ignore output directives"`
	SuppressPipe    bool `help:"Ignore pipe directives"`

	DisplayChunk  []string `help:"Write chunk to stdout"                   placeholder:"NAME"         sep:"none"`
	DisplayStream []string `help:"Write stream to stdout"                  placeholder:"NAME"         sep:"none"`
	OutputChunk   []string `help:"Write chunk to file"                     placeholder:"NAME=PATH"    sep:"none"`
	OutputStream  []string `help:"Write stream to file"                    placeholder:"NAME=PATH"    sep:"none"`
	PipeChunk     []string `help:"Feed chunk to shell command"             placeholder:"NAME=COMMAND" sep:"none"`
	PipeStream    []string `help:"Feed stream to shell command"            placeholder:"NAME=COMMAND" sep:"none"`
	SkipUnchanged bool     `help:"Leave output files with identical content untouched"`
	Shell         string   `help:"Shell used to run pipe commands (default: SHELL from the environment, or /bin/sh)"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) error {
	w, err := r.newWeb(ctx)
	if err != nil {
		return err
	}

	// Command-line requests are queued first so they precede directives.
	err = r.queue(w)
	if err != nil {
		return err
	}

	err = r.parse(ctx, w)
	if err != nil {
		return err
	}

	err = w.ExpandAll(ctx)
	if err != nil {
		return err
	}

	s := streamsFrom(ctx)

	d := sink.Dispatcher{
		Policy:        r.policy(),
		Stdout:        s.stdout,
		Stderr:        s.stderr,
		Shell:         r.Shell,
		SkipUnchanged: r.SkipUnchanged,
		Logger:        log.Default(),
	}

	log.DebugContext(ctx, "dispatch",
		slog.Bool("display", d.Policy.Display),
		slog.Bool("output", d.Policy.Output),
		slog.Bool("pipe", d.Policy.Pipe),
	)

	return d.Dispatch(ctx, w, w.Requests())
}

// policy resolves the permission flags. Starting from the default, the
// -all flags apply first, then individual allows, then individual
// suppressions.
func (r *Run) policy() sink.Policy {
	p := sink.DefaultPolicy

	if r.AllowAll {
		p = sink.Policy{Display: true, Output: true, Pipe: true}
	}

	if r.SuppressAll {
		p = sink.Policy{}
	}

	p.Display = (p.Display || r.AllowDisplay) && !r.SuppressDisplay
	p.Output = (p.Output || r.AllowOutput) && !r.SuppressOutput
	p.Pipe = (p.Pipe || r.AllowPipe) && !r.SuppressPipe

	return p
}

// queue adds the command-line requests to w.
func (r *Run) queue(w *web.Web) error {
	for _, name := range r.DisplayChunk {
		w.Request(command(web.ActionDisplay, web.Chunk(name), ""))
	}

	for _, name := range r.DisplayStream {
		w.Request(command(web.ActionDisplay, web.Stream(name), ""))
	}

	for _, p := range []struct {
		action web.Action
		kind   web.Kind
		flag   string
		pairs  []string
	}{
		{web.ActionOutput, web.KindChunk, "output-chunk", r.OutputChunk},
		{web.ActionOutput, web.KindStream, "output-stream", r.OutputStream},
		{web.ActionPipe, web.KindChunk, "pipe-chunk", r.PipeChunk},
		{web.ActionPipe, web.KindStream, "pipe-stream", r.PipeStream},
	} {
		for _, pair := range p.pairs {
			name, target, err := splitPair(pair)
			if err != nil {
				return err.With(slog.String("flag", "--"+p.flag))
			}

			w.Request(command(p.action, web.Ref{Kind: p.kind, Name: name}, target))
		}
	}

	return nil
}

func command(action web.Action, ref web.Ref, target string) web.Request {
	return web.Request{
		Action: action,
		Ref:    ref,
		Target: target,
		Origin: web.OriginCommand,
	}
}

// splitPair splits NAME=VALUE at the first '='. Both parts must be non-empty.
func splitPair(pair string) (name, value string, err *web.Error) {
	name, value, ok := strings.Cut(pair, "=")

	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(value) == "" {
		return "", "", ErrInvalidPair.With(slog.String("value", pair))
	}

	return name, value, nil
}
