package sink

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/litweb/log"
	"github.com/ardnew/litweb/web"
)

// Policy selects which directive requests are executed. Requests given on
// the command line are always executed.
type Policy struct {
	Display bool
	Output  bool
	Pipe    bool
}

// DefaultPolicy displays text but neither writes files nor runs commands on
// behalf of a directive.
var DefaultPolicy = Policy{Display: true}

// Allows reports whether the policy permits the action.
func (p Policy) Allows(action web.Action) bool {
	switch action {
	case web.ActionDisplay:
		return p.Display
	case web.ActionOutput:
		return p.Output
	case web.ActionPipe:
		return p.Pipe
	default:
		return false
	}
}

// Renderer returns the text of an expanded chunk or stream.
type Renderer interface {
	Render(ref web.Ref) (string, error)
}

// Dispatcher executes requests against the sinks they name.
type Dispatcher struct {
	Policy        Policy
	Stdout        io.Writer // display target and pipe standard output
	Stderr        io.Writer // pipe standard error
	Shell         string
	SkipUnchanged bool
	Logger        log.Logger
}

// Sink returns the sink that executes r.
func (d Dispatcher) Sink(r web.Request) Sink {
	switch r.Action {
	case web.ActionOutput:
		return File{Path: r.Target, SkipUnchanged: d.SkipUnchanged, Logger: d.Logger}

	case web.ActionPipe:
		return Pipe{Command: r.Target, Shell: d.Shell, Stdout: d.Stdout, Stderr: d.Stderr}

	default:
		return Console{W: d.Stdout}
	}
}

// Dispatch executes reqs in order and stops at the first failure. The text
// of each request is rendered before its sink is opened, so an undefined
// name never creates or truncates a file.
func (d Dispatcher) Dispatch(
	ctx context.Context,
	src Renderer,
	reqs []web.Request,
) error {
	for _, r := range reqs {
		err := ctx.Err()
		if err != nil {
			return err
		}

		attrs := []slog.Attr{
			slog.String("action", r.Action.String()),
			slog.String("ref", r.Ref.String()),
			slog.String("origin", r.Origin.String()),
		}

		if r.Target != "" {
			attrs = append(attrs, slog.String("target", r.Target))
		}

		if !r.Position.IsZero() {
			attrs = append(attrs, slog.String("position", r.Position.String()))
		}

		if r.Origin == web.OriginDirective && !d.Policy.Allows(r.Action) {
			d.Logger.DebugContext(ctx, "suppressed", attrs...)

			continue
		}

		text, err := src.Render(r.Ref)
		if err != nil {
			return err
		}

		d.Logger.DebugContext(ctx, "dispatch", attrs...)

		err = d.Sink(r).Write(ctx, r.Name, text)
		if err != nil {
			return err
		}
	}

	return nil
}
