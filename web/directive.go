package web

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// handler applies a matched directive. The args are the trimmed text that
// follows the keyword.
type handler func(
	ctx context.Context,
	pc *parseContext,
	ln logicalLine,
	args string,
) error

// directive pairs a line matcher with its handler. Directives are evaluated
// in table order and the first match wins.
type directive struct {
	keyword string
	match   func(ln logicalLine) (args string, ok bool)
	handle  handler
}

var (
	validTag  = regexp.MustCompile(`^\w+$`)
	pipeArgs  = regexp.MustCompile(`^(\S+)\s+(.+)$`)
	reserved  = []string{"chunk", "stream"}
	separator = `[_-]`
)

// keyword returns a matcher for marker followed by the given words and
// optional whitespace-separated arguments.
func keyword(marker string, words ...string) func(logicalLine) (string, bool) {
	quoted := make([]string, len(words))
	for i, word := range words {
		quoted[i] = regexp.QuoteMeta(word)
	}

	rex := regexp.MustCompile(
		`(?i)^` + regexp.QuoteMeta(marker) +
			strings.Join(quoted, separator) + `(?:\s+(.*?))?\s*$`,
	)

	return func(ln logicalLine) (string, bool) {
		m := rex.FindStringSubmatch(ln.body)
		if m == nil {
			return "", false
		}

		return m[1], true
	}
}

// escape returns a matcher for the print directive. The remainder after the
// keyword and one whitespace character is returned verbatim, terminator
// included.
func escape(marker string) func(logicalLine) (string, bool) {
	rex := regexp.MustCompile(`(?is)^` + regexp.QuoteMeta(marker) + `print\s(.*)$`)

	return func(ln logicalLine) (string, bool) {
		m := rex.FindStringSubmatch(ln.text)
		if m == nil {
			return "", false
		}

		return m[1], true
	}
}

// regionPattern matches =begin or =end followed by any accepted region tag.
func regionPattern(marker, verb string, tags []string) *regexp.Regexp {
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = regexp.QuoteMeta(tag)
	}

	return regexp.MustCompile(
		`(?i)^` + regexp.QuoteMeta(marker) + verb + `[ _-](?:` +
			strings.Join(quoted, "|") + `)(?:\s.*)?$`,
	)
}

// compile validates the marker and region tags and builds the directive
// table.
func (w *Web) compile() error {
	if w.marker == "" || strings.ContainsFunc(w.marker, unicode.IsSpace) {
		return ErrInvalidMarker.With(slog.String("marker", w.marker))
	}

	for _, tag := range w.tags {
		if !validTag.MatchString(tag) ||
			slices.Contains(reserved, strings.ToLower(tag)) {
			return ErrInvalidRegionTag.With(slog.String("tag", tag))
		}
	}

	w.region.begin = regionPattern(w.marker, "begin", w.tags)
	w.region.end = regionPattern(w.marker, "end", w.tags)

	inRegion := func(rex *regexp.Regexp) func(logicalLine) (string, bool) {
		return func(ln logicalLine) (string, bool) {
			return "", rex.MatchString(ln.body)
		}
	}

	m := w.marker
	w.table = []directive{
		{"begin region", inRegion(w.region.begin), w.beginNested},
		{"end region", inRegion(w.region.end), w.endRegion},
		{"include", keyword(m, "include"), w.includeFile},
		{"begin_stream", keyword(m, "begin", "stream"), w.beginGroup(KindStream)},
		{"end_stream", keyword(m, "end", "stream"), w.endGroup(KindStream)},
		{"begin_chunk", keyword(m, "begin", "chunk"), w.beginGroup(KindChunk)},
		{"end_chunk", keyword(m, "end", "chunk"), w.endGroup(KindChunk)},
		{"use_chunk", keyword(m, "use", "chunk"), w.use(KindChunk)},
		{"use_stream", keyword(m, "use", "stream"), w.use(KindStream)},
		{"display_chunk", keyword(m, "display", "chunk"), w.display(KindChunk)},
		{"display_stream", keyword(m, "display", "stream"), w.display(KindStream)},
		{"output_chunk", keyword(m, "output", "chunk"), w.output(KindChunk)},
		{"output_stream", keyword(m, "output", "stream"), w.output(KindStream)},
		{"pipe_chunk", keyword(m, "pipe", "chunk"), w.pipe(KindChunk)},
		{"pipe_stream", keyword(m, "pipe", "stream"), w.pipe(KindStream)},
		{"include_code", keyword(m, "include", "code"), w.includeCode},
		{"print", escape(m), w.print},
	}

	return nil
}

func (w *Web) beginNested(
	_ context.Context,
	pc *parseContext,
	ln logicalLine,
	_ string,
) error {
	return ErrRegionNested.Wrap(positionError(ln.pos)).
		at(ln.pos, ln.body).
		With(chainAttr("chain", pc.chain))
}

func (w *Web) endRegion(
	ctx context.Context,
	pc *parseContext,
	ln logicalLine,
	_ string,
) error {
	pc.inRegion = false

	w.logger.TraceContext(ctx, "region end",
		slog.String("position", ln.pos.String()),
	)

	return nil
}

func (w *Web) includeFile(
	ctx context.Context,
	pc *parseContext,
	ln logicalLine,
	args string,
) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return nil
	}

	return w.include(ctx, pc, fields[0], ln)
}

func (w *Web) beginGroup(kind Kind) handler {
	return func(
		ctx context.Context,
		pc *parseContext,
		ln logicalLine,
		args string,
	) error {
		names := strings.Fields(args)
		pc.open[kind] = pc.open[kind].add(names...)

		for _, name := range names {
			w.repo.define(Ref{Kind: kind, Name: name})
		}

		w.logger.TraceContext(ctx, "begin "+kind.String(),
			slog.String("position", ln.pos.String()),
			slog.Any("names", names),
			slog.Any("open", []string(pc.open[kind])),
		)

		return nil
	}
}

func (w *Web) endGroup(kind Kind) handler {
	return func(
		ctx context.Context,
		pc *parseContext,
		ln logicalLine,
		args string,
	) error {
		names := strings.Fields(args)
		pc.open[kind] = pc.open[kind].remove(names...)

		w.logger.TraceContext(ctx, "end "+kind.String(),
			slog.String("position", ln.pos.String()),
			slog.Any("names", names),
			slog.Any("open", []string(pc.open[kind])),
		)

		return nil
	}
}

func (w *Web) use(kind Kind) handler {
	return func(
		_ context.Context,
		pc *parseContext,
		ln logicalLine,
		args string,
	) error {
		names := strings.Fields(args)
		if len(names) == 0 {
			return nil
		}

		w.push(pc, SymbolicUse(Use{
			Kind:      kind,
			Names:     names,
			Directive: ln.body,
			Position:  ln.pos,
		}))

		return nil
	}
}

func (w *Web) display(kind Kind) handler {
	return func(
		_ context.Context,
		_ *parseContext,
		ln logicalLine,
		args string,
	) error {
		fields := strings.Fields(args)
		if len(fields) == 0 {
			return nil
		}

		w.Request(Request{
			Action:   ActionDisplay,
			Ref:      Ref{Kind: kind, Name: fields[0]},
			Origin:   OriginDirective,
			Position: ln.pos,
		})

		return nil
	}
}

func (w *Web) output(kind Kind) handler {
	return func(
		_ context.Context,
		_ *parseContext,
		ln logicalLine,
		args string,
	) error {
		fields := strings.Fields(args)
		if len(fields) < 2 {
			return nil
		}

		w.Request(Request{
			Action:   ActionOutput,
			Ref:      Ref{Kind: kind, Name: fields[0]},
			Target:   fields[1],
			Origin:   OriginDirective,
			Position: ln.pos,
		})

		return nil
	}
}

func (w *Web) pipe(kind Kind) handler {
	return func(
		_ context.Context,
		_ *parseContext,
		ln logicalLine,
		args string,
	) error {
		m := pipeArgs.FindStringSubmatch(args)
		if m == nil {
			return nil
		}

		w.Request(Request{
			Action:   ActionPipe,
			Ref:      Ref{Kind: kind, Name: m[1]},
			Target:   m[2],
			Origin:   OriginDirective,
			Position: ln.pos,
		})

		return nil
	}
}

func (w *Web) includeCode(
	_ context.Context,
	pc *parseContext,
	_ logicalLine,
	_ string,
) error {
	pc.includeCode = true

	return nil
}

func (w *Web) print(
	_ context.Context,
	pc *parseContext,
	_ logicalLine,
	rest string,
) error {
	w.accept(pc, rest)

	return nil
}
