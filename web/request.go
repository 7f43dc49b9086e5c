package web

import (
	"fmt"
	"slices"
)

// Action is the kind of output a [Request] asks for.
type Action int

const (
	ActionDisplay Action = iota // display
	ActionOutput                // output
	ActionPipe                  // pipe
)

func (a Action) String() string {
	switch a {
	case ActionDisplay:
		return "display"
	case ActionOutput:
		return "output"
	case ActionPipe:
		return "pipe"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Origin tells where a [Request] came from.
type Origin int

const (
	OriginDirective Origin = iota // directive
	OriginCommand                 // command
)

func (o Origin) String() string {
	switch o {
	case OriginDirective:
		return "directive"
	case OriginCommand:
		return "command"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// Request asks for the rendered text of a chunk or stream to be displayed,
// written to the file named by Target, or piped to the shell command in
// Target. Requests are only recorded while parsing and are executed by the
// caller after [Web.ExpandAll].
type Request struct {
	Action Action
	Ref
	Target   string
	Origin   Origin
	Position Position
}

// Request queues r. A display request for a chunk or stream that is already
// queued for display is dropped.
func (w *Web) Request(r Request) {
	if r.Action == ActionDisplay && slices.ContainsFunc(w.queue, func(q Request) bool {
		return q.Action == ActionDisplay && q.Ref == r.Ref
	}) {
		return
	}

	w.queue = append(w.queue, r)
}

// Requests returns the queued requests in execution order: display streams,
// display chunks, output streams, output chunks, pipe streams, then pipe
// chunks. Within each group, requests keep the order they were queued in.
func (w *Web) Requests() []Request {
	reqs := slices.Clone(w.queue)

	slices.SortStableFunc(reqs, func(a, b Request) int {
		return a.group() - b.group()
	})

	return reqs
}

func (r Request) group() int {
	g := int(r.Action) * 2
	if r.Kind == KindChunk {
		g++
	}

	return g
}
