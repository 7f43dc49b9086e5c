package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles render
// through a renderer bound to the output writer, so color is dropped when the
// writer is not a terminal.
type palette struct {
	key, str, num, dur, tim, null lipgloss.Style
	yes, no                       lipgloss.Style
	msg                           lipgloss.Style
	trace, debug, info, warn, err lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)

	fg := func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		dur:   fg("5"),
		tim:   fg("4"),
		null:  fg("8"),
		yes:   fg("2"),
		no:    fg("1"),
		msg:   r.NewStyle().Bold(true),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) string {
	style := p.trace

	switch {
	case l >= slog.LevelError:
		style = p.err
	case l >= slog.LevelWarn:
		style = p.warn
	case l >= slog.LevelInfo:
		style = p.info
	case l >= slog.LevelDebug:
		style = p.debug
	}

	return style.Render(fmt.Sprintf("%-5s", strings.ToUpper(Level(l).String())))
}

// scalar renders a resolved non-group value.
func (p palette) scalar(v slog.Value, quote bool) string {
	switch v.Kind() {
	case slog.KindString:
		if quote {
			return p.str.Render(strconv.Quote(v.String()))
		}

		return p.str.Render(v.String())

	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())

	case slog.KindTime:
		return p.tim.Render(v.Time().Format(time.RFC3339))

	default:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if quote {
			return p.str.Render(strconv.Quote(v.String()))
		}

		return p.str.Render(v.String())
	}
}

// prettyBase holds what the text and JSON handlers share: options,
// accumulated attributes, and the group prefix.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	pal        palette
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr // qualified by the group prefix in effect
	prefix     string
}

func newPrettyBase(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyBase {
	return prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		pal:        newPalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (b prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	return level >= b.opts.Level.Level()
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	qualified := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	qualified = append(qualified, b.attrs...)

	for _, a := range attrs {
		a.Key = b.prefix + a.Key
		qualified = append(qualified, a)
	}

	b.attrs = qualified

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.prefix += name + "."
	}

	return b
}

// header returns the time, level, and source of r.
func (b prettyBase) header(r slog.Record) (stamp, level, source string) {
	if !r.Time.IsZero() {
		stamp = b.formatTime(r.Time)
	}

	level = b.pal.level(r.Level)

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			source = src.File + ":" + strconv.Itoa(src.Line)
		}
	}

	return stamp, level, source
}

// each calls fn with every attribute of the handler and of r, qualified by
// the group prefix.
func (b prettyBase) each(r slog.Record, fn func(slog.Attr)) {
	for _, a := range b.attrs {
		fn(a)
	}

	r.Attrs(func(a slog.Attr) bool {
		a.Key = b.prefix + a.Key
		fn(a)

		return true
	})
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one styled line per record with unquoted values.
// Group values are flattened into dotted keys.
type prettyTextHandler struct {
	prettyBase
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts, formatTime)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	stamp, level, source := h.header(r)
	if stamp != "" {
		buf.WriteString(h.pal.tim.Render(stamp))
		buf.WriteByte(' ')
	}

	buf.WriteString(level)

	if source != "" {
		buf.WriteByte(' ')
		buf.WriteString(h.pal.key.Render(source))
	}

	buf.WriteByte(' ')
	buf.WriteString(h.pal.msg.Render(r.Message))

	h.each(r, func(a slog.Attr) { h.writeAttr(buf, "", a) })

	return h.write(buf)
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return
	}

	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, sub := range v.Group() {
			h.writeAttr(buf, prefix, sub)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.pal.key.Render(prefix + a.Key + "="))
	buf.WriteString(h.pal.scalar(v, false))
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented, styled object.
// Group values become nested objects.
type prettyJSONHandler struct {
	prettyBase
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts, formatTime)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []slog.Attr

	stamp, _, source := h.header(r)
	if stamp != "" {
		fields = append(fields, slog.String(slog.TimeKey, stamp))
	}

	fields = append(fields,
		slog.String(slog.LevelKey, strings.ToUpper(Level(r.Level).String())),
	)

	if source != "" {
		fields = append(fields, slog.String(slog.SourceKey, source))
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))

	h.each(r, func(a slog.Attr) { fields = append(fields, a) })

	buf := new(bytes.Buffer)
	h.writeObject(buf, "", fields)

	return h.write(buf)
}

func (h *prettyJSONHandler) writeObject(buf *bytes.Buffer, indent string, attrs []slog.Attr) {
	buf.WriteString("{")

	first := true

	for _, a := range attrs {
		v := a.Value.Resolve()
		if a.Key == "" {
			continue
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteString("\n" + indent + "  ")
		buf.WriteString(h.pal.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		if v.Kind() == slog.KindGroup {
			h.writeObject(buf, indent+"  ", v.Group())

			continue
		}

		buf.WriteString(h.pal.scalar(v, true))
	}

	if !first {
		buf.WriteString("\n" + indent)
	}

	buf.WriteString("}")
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
