package web

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/klauspost/readahead"
)

// logicalLine is one line after continuation folding.
type logicalLine struct {
	text string // line content including its terminator
	body string // line content without its terminator
	pos  Position
}

// scan reads r line by line, folding continuations, and interprets each
// logical line according to the current region state.
func (w *Web) scan(
	ctx context.Context,
	pc *parseContext,
	name string,
	r io.Reader,
) error {
	// Wrap reader with async read-ahead so the next buffer is fetched while
	// the current one is interpreted.
	ra := readahead.NewReader(r)
	defer ra.Close()

	br := bufio.NewReader(ra)

	for n := 1; ; n++ {
		err := ctx.Err()
		if err != nil {
			return err
		}

		text, err := br.ReadString('\n')
		if text != "" {
			lerr := w.fold(ctx, pc, Position{File: name, Line: n}, text)
			if lerr != nil {
				return lerr
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return ErrReadInput.Wrap(err).With(slog.String("file", name))
		}
	}
}

// fold joins a physical line ending in a backslash with the line that
// follows. The leading whitespace of the continuation collapses to a single
// space and the logical line keeps the position of its first physical line.
func (w *Web) fold(
	ctx context.Context,
	pc *parseContext,
	pos Position,
	text string,
) error {
	body := strings.TrimRight(text, "\r\n")
	term := text[len(body):]

	if pc.pending != nil {
		body = pc.pending.body + collapseLeading(body)
		pos = pc.pending.pos
		pc.pending = nil
	}

	if strings.HasSuffix(body, `\`) {
		pc.pending = &logicalLine{
			body: strings.TrimSuffix(body, `\`),
			pos:  pos,
		}

		return nil
	}

	return w.scanLine(ctx, pc, logicalLine{text: body + term, body: body, pos: pos})
}

func collapseLeading(s string) string {
	t := strings.TrimLeftFunc(s, unicode.IsSpace)
	if len(t) < len(s) {
		return " " + t
	}

	return s
}

// scanLine classifies one logical line.
func (w *Web) scanLine(
	ctx context.Context,
	pc *parseContext,
	ln logicalLine,
) error {
	if !pc.inRegion {
		return w.scanOutside(ctx, pc, ln)
	}

	for _, d := range w.table {
		args, ok := d.match(ln)
		if !ok {
			continue
		}

		w.logger.TraceContext(ctx, "directive",
			slog.String("keyword", d.keyword),
			slog.String("position", ln.pos.String()),
		)

		return d.handle(ctx, pc, ln, args)
	}

	w.accept(pc, ln.text)

	return nil
}

// scanOutside handles a line outside of any region, where only =begin is
// interpreted. Other lines are captured only after =include_code.
func (w *Web) scanOutside(
	ctx context.Context,
	pc *parseContext,
	ln logicalLine,
) error {
	switch {
	case w.region.begin.MatchString(ln.body):
		pc.inRegion = true
		pc.includeCode = false

		w.logger.TraceContext(ctx, "region begin",
			slog.String("position", ln.pos.String()),
		)

	case w.region.end.MatchString(ln.body):
		return ErrRegionOutside.Wrap(positionError(ln.pos)).
			at(ln.pos, ln.body).
			With(chainAttr("chain", pc.chain))

	case pc.includeCode:
		w.accept(pc, ln.text)
	}

	return nil
}

// accept stores a literal line and references it from every open chunk and
// stream.
func (w *Web) accept(pc *parseContext, text string) {
	w.push(pc, LineRef(w.lines.Append(text)))
}

// push appends e to every open chunk and every open stream.
func (w *Web) push(pc *parseContext, e Element) {
	w.repo.push(KindChunk, pc.open[KindChunk], e)
	w.repo.push(KindStream, pc.open[KindStream], e)
}
