package web

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" candidates of an undefined
// reference.
const maxSuggestions = 3

// suggest returns defined names of the same kind that fuzzily match ref.
func (w *Web) suggest(ref Ref) []string {
	matches := fuzzy.Find(ref.Name, w.repo.Names(ref.Kind))

	var names []string

	for _, m := range matches {
		if len(names) == maxSuggestions {
			break
		}

		names = append(names, m.Str)
	}

	return names
}

// undefined builds the error for a reference to a name that was never
// defined.
func (w *Web) undefined(ref Ref, from *Use) *Error {
	e := ErrUndefined.
		Wrap(errors.New(ref.String())).
		at(usePosition(from)).
		With(
			slog.String("kind", ref.Kind.String()),
			slog.String("name", ref.Name),
		)

	if len(w.guard) > 0 {
		e = e.With(guardAttr(w.guard))
	}

	if names := w.suggest(ref); len(names) > 0 {
		e = e.With(slog.String("suggest", strings.Join(names, ", ")))
	}

	other := Ref{Kind: KindStream, Name: ref.Name}
	if ref.Kind == KindStream {
		other.Kind = KindChunk
	}

	if w.repo.Has(other) {
		e = e.With(slog.String("defined_as", other.String()))
	}

	return e
}
