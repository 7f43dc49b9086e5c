package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/litweb/web"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	streamsKey struct{}

	// streams are the standard files used by a command.
	streams struct {
		stdin          io.Reader
		stdout, stderr io.Writer
	}
)

// WithStreams returns a new context.Context whose commands read standard
// input from stdin and write to stdout and stderr. Nil streams fall back to
// the process's standard files.
func WithStreams(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{stdin, stdout, stderr})
}

func streamsFrom(ctx context.Context) streams {
	s, _ := ctx.Value(streamsKey{}).(streams)

	if s.stdin == nil {
		s.stdin = os.Stdin
	}

	if s.stdout == nil {
		s.stdout = os.Stdout
	}

	if s.stderr == nil {
		s.stderr = os.Stderr
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName identifies standard input in diagnostics.
const stdinName = "<stdin>"

// source is one top-level input.
type source struct {
	name  string
	stdin bool
}

// open returns a reader for the source. Standard input is never closed.
func (s source) open(stdin io.Reader) (io.ReadCloser, error) {
	if s.stdin {
		return io.NopCloser(stdin), nil
	}

	return os.Open(s.name)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// sources resolves the command-line inputs in order.
//
// Paths naming the same file are read once, by device and inode. All
// occurrences of "-" are replaced with a single stdin source placed last so it
// reads after all regular files. Without any path, stdin is the only source.
func sources(paths []string) ([]source, error) {
	if len(paths) == 0 {
		return []source{{name: stdinName, stdin: true}}, nil
	}

	var (
		srcs     []source
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	stdinKey, stdinOK := statKey(os.Stdin.Stat())

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		key, err := uniqueKey(path)
		if err != nil {
			return nil, web.ErrReadInput.Wrap(err).With(slog.String("file", path))
		}

		// Stdin may also be named as a file, such as /dev/stdin.
		if stdinOK && key == stdinKey {
			hasStdin = true

			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}

		srcs = append(srcs, source{name: path})
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinName, stdin: true})
	}

	return srcs, nil
}

// uniqueKey resolves symlinks in path and returns its device and inode.
func uniqueKey(path string) (fileKey, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, err
	}

	key, ok := statKey(os.Stat(resolved))
	if !ok {
		// Without inode information, fall back to the resolved path.
		return fileKey{ino: xxh3.HashString(resolved)}, nil
	}

	return key, nil
}

// statKey creates a fileKey from the result of a stat call.
// Returns false if the stat failed or the underlying Sys() data is not of
// type *syscall.Stat_t.
func statKey(info os.FileInfo, err error) (key fileKey, ok bool) {
	if err != nil || info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true //nolint:unconvert
}
