package web

import "slices"

// openSet is an insertion-ordered set of open group names.
type openSet []string

func (s openSet) add(names ...string) openSet {
	for _, name := range names {
		if !slices.Contains(s, name) {
			s = append(s, name)
		}
	}

	return s
}

func (s openSet) remove(names ...string) openSet {
	return slices.DeleteFunc(s, func(name string) bool {
		return slices.Contains(names, name)
	})
}

// parseContext is the containment state of a single parse pass. It is passed
// explicitly through recursive inclusion; only the region flag is saved and
// restored around an included file.
type parseContext struct {
	open        [2]openSet // indexed by Kind
	inRegion    bool
	includeCode bool

	// chain is the stack of files currently being read, outermost first.
	chain []string

	// pending holds a folded line awaiting its continuation.
	pending *logicalLine
}

func (pc *parseContext) including(key string) bool {
	return slices.Contains(pc.chain, key)
}
