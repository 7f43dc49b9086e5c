package web

import (
	"fmt"
	"strings"
)

// Kind selects one of the two independent namespaces of a [Web].
type Kind int

const (
	KindChunk  Kind = iota // chunk
	KindStream             // stream
)

// Kinds lists every namespace in expansion order.
var Kinds = []Kind{KindChunk, KindStream}

func (k Kind) String() string {
	switch k {
	case KindChunk:
		return "chunk"
	case KindStream:
		return "stream"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the case-insensitive name of a namespace.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chunk":
		return KindChunk, true
	case "stream":
		return KindStream, true
	default:
		return 0, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("invalid kind %q", text)
	}

	*k = v

	return nil
}

// Ref names a chunk or stream.
type Ref struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
}

func (r Ref) String() string { return r.Kind.String() + " " + r.Name }

// Chunk returns a reference to the named chunk.
func Chunk(name string) Ref { return Ref{Kind: KindChunk, Name: name} }

// Stream returns a reference to the named stream.
func Stream(name string) Ref { return Ref{Kind: KindStream, Name: name} }
