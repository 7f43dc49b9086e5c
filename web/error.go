package web

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values). Every error returned while parsing,
// expanding or rendering matches one of these with [errors.Is].
var (
	ErrRegionNested     = NewError("already in region")
	ErrRegionOutside    = NewError("already outside region")
	ErrDuplicateInclude = NewError("file already included")
	ErrInclude          = NewError("cannot include file")
	ErrReadInput        = NewError("failed to read input")
	ErrReferenceCycle   = NewError("reference cycle")
	ErrMaxDepthExceeded = NewError("maximum expansion depth exceeded")
	ErrUndefined        = NewError("undefined reference")
	ErrUnexpanded       = NewError("references not expanded")
	ErrInvalidMarker    = NewError("invalid directive marker")
	ErrInvalidRegionTag = NewError("invalid region tag")
	ErrExpanded         = NewError("web already expanded")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from the sentinel target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e.base == nil {
		return false
	}

	return e.base == t || e.base == t.base
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		base:  e.base,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		base:  e.base,
	}
}

// at returns e annotated with the directive text and its position.
func (e *Error) at(pos Position, directive string) *Error {
	attrs := make([]slog.Attr, 0, 2)

	if !pos.IsZero() {
		attrs = append(attrs, slog.String("position", pos.String()))
	}

	if directive != "" {
		attrs = append(attrs, slog.String("directive", directive))
	}

	return e.With(attrs...)
}

func chainAttr(key string, chain []string) slog.Attr {
	return slog.String(key, strings.Join(chain, " → "))
}

func guardAttr(guard []Ref) slog.Attr {
	chain := make([]string, len(guard))
	for i, ref := range guard {
		chain[i] = ref.String()
	}

	return chainAttr("expanding", chain)
}

// positionError returns a plain error naming pos, or nil if pos is zero.
func positionError(pos Position) error {
	if pos.IsZero() {
		return nil
	}

	return errors.New(pos.String())
}
