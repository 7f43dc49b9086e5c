package web

import "strconv"

// Position locates a logical line in its input file.
type Position struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
}

func (p Position) String() string {
	if p.File == "" {
		return ""
	}

	return p.File + ":" + strconv.Itoa(p.Line)
}

// IsZero reports whether p does not locate anything.
func (p Position) IsZero() bool { return p.File == "" && p.Line == 0 }

// Use is a deferred reference to the content of one or more chunks or
// streams, recorded by =use_chunk and =use_stream.
type Use struct {
	Kind      Kind
	Names     []string
	Directive string
	Position  Position
}

// Element is one entry of a chunk or stream: either a reference to a line in
// the line store, or a symbolic use that is replaced during expansion.
type Element struct {
	use  *Use
	line int
}

// LineRef returns an element referring to the line at index.
func LineRef(index int) Element { return Element{line: index} }

// SymbolicUse returns an element standing in for the content of u.Names.
func SymbolicUse(u Use) Element { return Element{use: &u, line: -1} }

// Line returns the line index of a line reference.
func (e Element) Line() (int, bool) { return e.line, e.use == nil }

// Use returns the symbolic use of a deferred reference.
func (e Element) Use() (*Use, bool) { return e.use, e.use != nil }
