package web

import (
	"log/slog"
	"strings"
)

// Render returns the text of an expanded chunk or stream: the concatenation
// of its lines in sequence order.
func (w *Web) Render(ref Ref) (string, error) {
	ent, ok := w.repo.lookup(ref)
	if !ok {
		return "", w.undefined(ref, nil)
	}

	if !ent.resolved {
		return "", ErrUnexpanded.With(slog.String("ref", ref.String()))
	}

	var sb strings.Builder

	for _, e := range ent.elements {
		i, _ := e.Line()
		sb.WriteString(w.lines.At(i))
	}

	return sb.String(), nil
}
