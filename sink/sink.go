// Package sink delivers rendered chunk and stream text to the terminal, to
// files, and to shell commands, and executes the queued requests of a web.
package sink

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/litweb/web"
)

// ErrWrite is returned when a sink cannot deliver text.
var ErrWrite = web.NewError("write failed")

// Sink receives the rendered text of the chunk or stream called name.
type Sink interface {
	Write(ctx context.Context, name, text string) error
}

// Console writes text to W unchanged.
type Console struct {
	W io.Writer
}

func (c Console) Write(_ context.Context, name, text string) error {
	_, err := io.WriteString(c.W, text)
	if err != nil {
		return ErrWrite.Wrap(err).With(
			slog.String("sink", "console"),
			slog.String("name", name),
		)
	}

	return nil
}
