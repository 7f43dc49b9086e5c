package sink

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/litweb/log"
)

// DefaultPerm is the permission of files created by [File].
const DefaultPerm fs.FileMode = 0o644

// File replaces the contents of the file at Path.
//
// With SkipUnchanged, a file whose xxh3 digest already matches the text is
// left untouched and keeps its modification time.
type File struct {
	Path          string
	Perm          fs.FileMode
	SkipUnchanged bool
	Logger        log.Logger
}

func (f File) Write(ctx context.Context, name, text string) error {
	if f.SkipUnchanged && f.unchanged(text) {
		f.Logger.DebugContext(ctx, "unchanged",
			slog.String("name", name),
			slog.String("path", f.Path),
		)

		return nil
	}

	perm := f.Perm
	if perm == 0 {
		perm = DefaultPerm
	}

	err := os.WriteFile(f.Path, []byte(text), perm)
	if err != nil {
		return ErrWrite.Wrap(err).With(
			slog.String("sink", "file"),
			slog.String("name", name),
			slog.String("target", f.Path),
		)
	}

	f.Logger.DebugContext(ctx, "wrote",
		slog.String("name", name),
		slog.String("path", f.Path),
		slog.Int("bytes", len(text)),
	)

	return nil
}

// unchanged reports whether the file at Path exists and hashes the same as
// text.
func (f File) unchanged(text string) bool {
	file, err := os.Open(f.Path)
	if err != nil {
		return false
	}
	defer file.Close()

	h := xxh3.New()

	n, err := io.Copy(h, file)
	if err != nil {
		return false
	}

	return n == int64(len(text)) && h.Sum64() == xxh3.HashString(text)
}
