package web

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"
)

// include scans the file named by target in place of the directive ln.
//
// The region state is forced outside while the included file is read, so the
// file must open its own regions, and is restored afterwards. Open chunks and
// streams stay open and capture the included content.
func (w *Web) include(
	ctx context.Context,
	pc *parseContext,
	target string,
	ln logicalLine,
) error {
	path, rc, err := w.resolve(target, ln.pos.File)
	if err != nil {
		return ErrInclude.Wrap(err).
			at(ln.pos, ln.body).
			With(slog.String("file", target))
	}
	defer rc.Close()

	key := chainKey(path)
	if pc.including(key) {
		return ErrDuplicateInclude.Wrap(positionError(ln.pos)).
			at(ln.pos, ln.body).
			With(
				slog.String("file", path),
				chainAttr("chain", pc.chain),
			)
	}

	w.logger.DebugContext(ctx, "include",
		slog.String("file", path),
		slog.Int("depth", len(pc.chain)),
	)

	pc.chain = append(pc.chain, key)
	pc.inRegion = false

	err = w.scan(ctx, pc, path, rc)

	pc.inRegion = true
	pc.chain = pc.chain[:len(pc.chain)-1]

	return err
}

// resolve opens the first existing candidate for target: the path itself,
// then relative to the directory of the including file, then relative to
// each directory of the search path.
func (w *Web) resolve(target, from string) (string, io.ReadCloser, error) {
	var first error

	for _, path := range w.candidates(target, from) {
		rc, err := w.open(path)
		if err == nil {
			return path, rc, nil
		}

		if first == nil {
			first = err
		}
	}

	return "", nil, first
}

func (w *Web) candidates(target, from string) []string {
	if filepath.IsAbs(target) {
		return []string{target}
	}

	paths := []string{target}

	if dir := filepath.Dir(from); from != "" && dir != "." {
		paths = append(paths, filepath.Join(dir, target))
	}

	for _, dir := range w.searchPath {
		paths = append(paths, filepath.Join(dir, target))
	}

	return slices.Compact(paths)
}

// chainKey normalizes a path for membership tests on the inclusion chain.
func chainKey(path string) string {
	return filepath.Clean(path)
}

// SearchPath returns the directories of the PATH-like list with the given
// prefix directories placed first. Empty entries, duplicates, and entries
// that are not existing directories are dropped.
func SearchPath(list string, prefix ...string) []string {
	sep := string(os.PathListSeparator)

	joined := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(sep),
		mung.WithPrefixItems(prefix...),
	).String()

	var dirs []string

	for _, dir := range strings.Split(joined, sep) {
		if dir == "" || slices.Contains(dirs, dir) {
			continue
		}

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		dirs = append(dirs, dir)
	}

	return dirs
}
