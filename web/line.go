package web

// Lines is the append-only store of literal text lines. A line keeps its
// terminator and its index never changes once assigned.
type Lines struct {
	text []string
}

// Append stores s and returns its index.
func (l *Lines) Append(s string) int {
	l.text = append(l.text, s)

	return len(l.text) - 1
}

// At returns the line at index i.
func (l *Lines) At(i int) string { return l.text[i] }

// Len returns the number of stored lines.
func (l *Lines) Len() int { return len(l.text) }
