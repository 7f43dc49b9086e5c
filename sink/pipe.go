package sink

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultShell runs pipe commands when neither [Pipe.Shell] nor $SHELL is
// set.
const DefaultShell = "/bin/sh"

// Pipe runs Command with the shell and feeds it the text on standard input.
// The command's output is forwarded to Stdout and Stderr.
type Pipe struct {
	Command string
	Shell   string
	Stdout  io.Writer
	Stderr  io.Writer
}

// shell returns the interpreter used to run the command.
func (p Pipe) shell() string {
	if p.Shell != "" {
		return p.Shell
	}

	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}

	return DefaultShell
}

func (p Pipe) Write(ctx context.Context, name, text string) error {
	cmd := exec.CommandContext(ctx, p.shell(), "-c", p.Command)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	err := cmd.Run()
	if err != nil {
		return ErrWrite.Wrap(err).With(
			slog.String("sink", "pipe"),
			slog.String("name", name),
			slog.String("target", p.Command),
			slog.String("shell", p.shell()),
		)
	}

	return nil
}
