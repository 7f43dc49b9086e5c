package web

// Entry summarizes one chunk or stream.
type Entry struct {
	Ref `yaml:",inline"`

	// Lines counts line references, Elements counts all elements.
	Lines    int `json:"lines"    yaml:"lines"`
	Elements int `json:"elements" yaml:"elements"`

	// Uses lists every name referenced by a symbolic use, in order.
	// It is empty once the web has been expanded.
	Uses []Ref `json:"uses,omitempty" yaml:"uses,omitempty"`
}

// Summary describes every stream, then every chunk, in order of first
// definition.
func (w *Web) Summary() []Entry {
	var entries []Entry

	for _, kind := range []Kind{KindStream, KindChunk} {
		for _, name := range w.repo.Names(kind) {
			ref := Ref{Kind: kind, Name: name}
			ent, _ := w.repo.lookup(ref)

			entry := Entry{Ref: ref, Elements: len(ent.elements)}

			for _, e := range ent.elements {
				use, ok := e.Use()
				if !ok {
					entry.Lines++

					continue
				}

				for _, name := range use.Names {
					entry.Uses = append(entry.Uses, Ref{Kind: use.Kind, Name: name})
				}
			}

			entries = append(entries, entry)
		}
	}

	return entries
}
