package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// errValue is an error with structured attributes.
type errValue struct{}

func (errValue) Error() string { return "boom" }

func (errValue) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "boom"),
		slog.String("position", "doc.txt:3"),
	)
}

func TestMakeDefaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if got := logger.Level(); got != DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, DefaultLevel)
	}

	if got := logger.Format(); got != DefaultFormat {
		t.Errorf("Format() = %v, want %v", got, DefaultFormat)
	}

	if logger.caller {
		t.Error("caller enabled by default")
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		log   func(Logger)
		want  bool
	}{
		{LevelInfo, func(l Logger) { l.Debug("msg") }, false},
		{LevelInfo, func(l Logger) { l.Info("msg") }, true},
		{LevelDebug, func(l Logger) { l.Trace("msg") }, false},
		{LevelTrace, func(l Logger) { l.Trace("msg") }, true},
		{LevelError, func(l Logger) { l.Warn("msg") }, false},
		{LevelError, func(l Logger) { l.Error("msg") }, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		tt.log(Make(&buf, WithLevel(tt.level), WithPretty(false)))

		if got := strings.Contains(buf.String(), "msg"); got != tt.want {
			t.Errorf("level %v: logged = %v, want %v (%q)", tt.level, got, tt.want, buf.String())
		}
	}
}

func TestPlainJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatJSON),
		WithPretty(false),
		WithLevel(LevelTrace),
		WithTimeLayout("none"),
	)

	logger.TraceContext(context.Background(), "expand",
		slog.String("ref", "chunk a"),
		slog.Int("depth", 2),
	)

	var rec map[string]any

	err := json.Unmarshal(buf.Bytes(), &rec)
	if err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}

	if rec["ref"] != "chunk a" || rec["depth"] != float64(2) {
		t.Errorf("attributes = %v", rec)
	}

	if _, ok := rec["time"]; ok {
		t.Error("time present with layout none")
	}
}

func TestPrettyText(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none")).
		With(slog.String("component", "web"))

	logger.Warn("undefined reference",
		slog.Any("error", errValue{}),
		slog.Bool("fatal", false),
	)

	out := buf.String()

	for _, want := range []string{
		"WARN",
		"undefined reference",
		"component=web",
		"error.error=boom",
		"error.position=doc.txt:3",
		"fatal=false",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}

	if strings.Count(out, "\n") != 1 {
		t.Errorf("want a single line, got %q", out)
	}
}

func TestPrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))

	logger.Error("failed", slog.Any("error", errValue{}))

	// Styling is dropped for a non-terminal writer, so the output is valid
	// JSON.
	var rec struct {
		Level string `json:"level"`
		Msg   string `json:"msg"`
		Error struct {
			Error    string `json:"error"`
			Position string `json:"position"`
		} `json:"error"`
	}

	err := json.Unmarshal(buf.Bytes(), &rec)
	if err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if rec.Level != "ERROR" || rec.Msg != "failed" || rec.Error.Position != "doc.txt:3" {
		t.Errorf("record = %+v", rec)
	}
}

func TestWithGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"))
	logger.Logger = logger.Logger.WithGroup("sink")

	logger.Info("wrote", slog.String("path", "out.txt"))

	if !strings.Contains(buf.String(), "sink.path=out.txt") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTee(t *testing.T) {
	var term, file bytes.Buffer

	logger := Make(&term, WithTee(&file, FormatJSON), WithTee(nil, FormatText))

	logger.Info("hello", slog.String("k", "v"))

	if !strings.Contains(term.String(), "hello") {
		t.Errorf("primary output = %q", term.String())
	}

	var rec map[string]any

	err := json.Unmarshal(file.Bytes(), &rec)
	if err != nil {
		t.Fatalf("tee output is not JSON: %v (%q)", err, file.String())
	}

	if rec["msg"] != "hello" || rec["k"] != "v" {
		t.Errorf("tee record = %v", rec)
	}

	logger.Debug("hidden")

	if strings.Contains(file.String(), "hidden") {
		t.Error("tee ignored the level")
	}
}

func TestWrapKeepsConfig(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelWarn), WithFormat(FormatJSON))
	wrapped := base.Wrap(WithPretty(false))

	if wrapped.Level() != LevelWarn || wrapped.Format() != FormatJSON {
		t.Errorf("Wrap() lost configuration: level=%v format=%v",
			wrapped.Level(), wrapped.Format())
	}

	_ = base.Wrap(WithLevel(LevelDebug))
	if base.Level() != LevelWarn {
		t.Error("Wrap() modified the receiver")
	}
}

func TestZeroLogger(t *testing.T) {
	var logger Logger

	logger.Info("discarded")
	logger.TraceContext(context.Background(), "discarded")

	if logger.Enabled(context.Background(), LevelError) {
		t.Error("zero logger reports enabled")
	}

	if logger.With(slog.String("k", "v")).Logger != nil {
		t.Error("With() on zero logger allocated a handler")
	}
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	}()

	var buf bytes.Buffer

	Config(
		WithOutput(&buf),
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false),
	)

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			var rec map[string]any

			err := json.Unmarshal(buf.Bytes(), &rec)
			if err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}

			if rec["level"] != tt.level || rec["key"] != "value" {
				t.Errorf("record = %v", rec)
			}
		})
	}
}

func TestCallerSource(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithCaller(true), WithPretty(false), WithFormat(FormatJSON))
	logger.Info("where")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("source does not name the caller: %q", buf.String())
	}
}

func TestParse(t *testing.T) {
	levelTests := map[string]Level{
		"trace":   LevelTrace,
		" TRACE ": LevelTrace,
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"error":   LevelError,
		"bogus":   DefaultLevel,
	}

	for in, want := range levelTests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	formatTests := map[string]Format{
		"json":   FormatJSON,
		" TEXT ": FormatText,
		"yaml":   DefaultFormat,
	}

	for in, want := range formatTests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}

	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	if strings.Join(names, ",") != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %v", names)
	}
}

var timeZero = time.Time{}

func TestFormatTime(t *testing.T) {
	if got := makeFormatTimeFunc("  ")(timeZero); got != "" {
		t.Errorf("blank layout = %q, want empty", got)
	}

	if got := makeFormatTimeFunc("kitchen")(timeZero); got != "12:00AM" {
		t.Errorf("kitchen layout = %q", got)
	}

	if got := makeFormatTimeFunc("2006")(timeZero); got != "0001" {
		t.Errorf("custom layout = %q", got)
	}
}

func TestErrorsFlowThroughAny(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false), WithFormat(FormatText), WithTimeLayout("none"))
	logger.Error("run failed", slog.Any("error", errors.New("plain")))

	if !strings.Contains(buf.String(), "error=plain") {
		t.Errorf("output = %q", buf.String())
	}
}
