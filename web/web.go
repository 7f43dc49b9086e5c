package web

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"slices"

	"github.com/ardnew/litweb/log"
	"github.com/ardnew/litweb/pkg"
)

// DefaultMarker is the prefix that introduces every directive.
const DefaultMarker = "="

// DefaultMaxDepth is the default maximum nesting of symbolic uses followed
// during expansion. Users may modify this before calling [New].
var DefaultMaxDepth = 1000

// DefaultRegionTags are the region names always accepted after =begin and
// =end.
var DefaultRegionTags = []string{"region", pkg.Name}

// Web collects chunks and streams from directive-annotated input and expands
// the references between them.
//
// A Web is not safe for concurrent use.
type Web struct {
	lines Lines
	repo  Repository
	queue []Request
	pc    parseContext
	guard []Ref

	expanded bool

	marker     string
	tags       []string
	searchPath []string
	open       func(name string) (io.ReadCloser, error)
	maxDepth   int
	logger     log.Logger

	region struct{ begin, end *regexp.Regexp }
	table  []directive
}

// Option configures a [Web].
type Option func(*Web)

// WithMarker sets the prefix that introduces every directive.
func WithMarker(marker string) Option {
	return func(w *Web) {
		w.marker = marker
	}
}

// WithRegionTags adds region names accepted after =begin and =end, in
// addition to [DefaultRegionTags].
func WithRegionTags(tags ...string) Option {
	return func(w *Web) {
		w.tags = append(w.tags, tags...)
	}
}

// WithSearchPath appends directories searched for included files that are
// not found relative to the working directory or the including file.
func WithSearchPath(dirs ...string) Option {
	return func(w *Web) {
		w.searchPath = append(w.searchPath, dirs...)
	}
}

// WithOpener sets the function used to open input and included files.
// The default is [os.Open].
func WithOpener(open func(name string) (io.ReadCloser, error)) Option {
	return func(w *Web) {
		w.open = open
	}
}

// WithFS reads input and included files from fsys.
func WithFS(fsys fs.FS) Option {
	return WithOpener(func(name string) (io.ReadCloser, error) {
		return fsys.Open(name)
	})
}

// WithMaxDepth sets the maximum nesting of symbolic uses followed during
// expansion.
func WithMaxDepth(depth int) Option {
	return func(w *Web) {
		w.maxDepth = depth
	}
}

// WithLogger sets the structured logger for debug and trace output.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(w *Web) {
		w.logger = logger
	}
}

// New returns an empty Web configured with opts.
func New(opts ...Option) (*Web, error) {
	w := &Web{
		marker:   DefaultMarker,
		tags:     slices.Clone(DefaultRegionTags),
		maxDepth: DefaultMaxDepth,
		open: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}

	for _, opt := range opts {
		opt(w)
	}

	err := w.compile()
	if err != nil {
		return nil, err
	}

	return w, nil
}

// Parse scans every line read from r as part of the combined top-level
// input. The name identifies r in diagnostics and roots the inclusion chain.
//
// Region and containment state carry over between successive calls, so
// several sources behave as one concatenated input.
func (w *Web) Parse(ctx context.Context, name string, r io.Reader) error {
	if w.expanded {
		return ErrExpanded.With(slog.String("file", name))
	}

	w.pc.chain = []string{chainKey(name)}
	defer func() { w.pc.chain = nil }()

	w.logger.DebugContext(ctx, "parse start", slog.String("file", name))

	err := w.scan(ctx, &w.pc, name, r)
	if err != nil {
		return err
	}

	w.logger.DebugContext(ctx, "parse done",
		slog.String("file", name),
		slog.Int("lines", w.lines.Len()),
	)

	return nil
}

// ParseFile opens the named file with the configured opener and parses it.
func (w *Web) ParseFile(ctx context.Context, name string) error {
	rc, err := w.open(name)
	if err != nil {
		return ErrReadInput.Wrap(err).With(slog.String("file", name))
	}
	defer rc.Close()

	return w.Parse(ctx, name, rc)
}

// Lines returns the line store.
func (w *Web) Lines() *Lines { return &w.lines }

// Repository returns the chunk and stream namespaces.
func (w *Web) Repository() *Repository { return &w.repo }

// Expanded reports whether [Web.ExpandAll] has completed.
func (w *Web) Expanded() bool { return w.expanded }
