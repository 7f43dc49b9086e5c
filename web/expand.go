package web

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
)

// ExpandAll replaces every symbolic use in every chunk and stream with the
// line references it denotes. Each entity is flattened once and the result is
// reused by every later reference to it.
//
// ExpandAll must run after all input has been parsed; a web cannot be parsed
// further once expanded. Calling it again is a no-op.
func (w *Web) ExpandAll(ctx context.Context) error {
	if w.expanded {
		return nil
	}

	if w.pc.pending != nil {
		w.logger.WarnContext(ctx, "discarding unterminated continuation",
			slog.String("position", w.pc.pending.pos.String()),
		)

		w.pc.pending = nil
	}

	for _, kind := range Kinds {
		for _, name := range w.repo.Names(kind) {
			err := ctx.Err()
			if err != nil {
				return err
			}

			_, err = w.expand(ctx, Ref{Kind: kind, Name: name}, nil)
			if err != nil {
				return err
			}
		}
	}

	w.expanded = true

	w.logger.DebugContext(ctx, "expanded",
		slog.Int("chunks", len(w.repo.Names(KindChunk))),
		slog.Int("streams", len(w.repo.Names(KindStream))),
	)

	return nil
}

// expand returns the flattened sequence of ref, expanding it first if
// needed. The use from which ref is referenced, if any, is reported when ref
// is undefined.
func (w *Web) expand(ctx context.Context, ref Ref, from *Use) ([]Element, error) {
	if slices.Contains(w.guard, ref) {
		return nil, ErrReferenceCycle.
			Wrap(errors.New(cycleString(append(w.guard, ref)))).
			at(usePosition(from)).
			With(guardAttr(w.guard))
	}

	ent, ok := w.repo.lookup(ref)
	if !ok {
		return nil, w.undefined(ref, from)
	}

	if ent.resolved {
		return ent.elements, nil
	}

	if len(w.guard) >= w.maxDepth {
		return nil, ErrMaxDepthExceeded.
			at(usePosition(from)).
			With(
				slog.Int("max_depth", w.maxDepth),
				guardAttr(w.guard),
			)
	}

	w.guard = append(w.guard, ref)
	defer func() { w.guard = w.guard[:len(w.guard)-1] }()

	w.logger.TraceContext(ctx, "expand",
		slog.String("ref", ref.String()),
		slog.Int("depth", len(w.guard)),
	)

	out := make([]Element, 0, len(ent.elements))

	for _, e := range ent.elements {
		use, ok := e.Use()
		if !ok {
			out = append(out, e)

			continue
		}

		for _, name := range use.Names {
			sub, err := w.expand(ctx, Ref{Kind: use.Kind, Name: name}, use)
			if err != nil {
				return nil, err
			}

			out = append(out, sub...)
		}
	}

	ent.elements = out
	ent.resolved = true

	return out, nil
}

func usePosition(u *Use) (Position, string) {
	if u == nil {
		return Position{}, ""
	}

	return u.Position, u.Directive
}

func cycleString(refs []Ref) string {
	s := make([]string, len(refs))
	for i, ref := range refs {
		s[i] = ref.String()
	}

	return strings.Join(s, " → ")
}
