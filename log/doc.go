// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// output formats, and secondary destinations that are applied at logger
// creation time using functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("parsed", slog.String("file", "doc.rb"))
//	logger.Error("expansion failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// # Package-Level Logger
//
// The package-level functions ([Info], [Warn], [ErrorContext], ...) write
// through a default logger on [os.Stderr], so standard output stays free for
// program data. [Config] reconfigures it.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level
// are discarded.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and
// [FormatJSON]. With [WithPretty], both are styled using lipgloss; styling
// is dropped automatically when the output is not a terminal.
//
// # Tees
//
// [WithTee] adds destinations that receive every record in plain,
// unstyled form, such as a log file alongside the terminal.
//
// # Zero Value
//
// A zero [Logger] discards everything. Packages accept one as an option and
// log unconditionally.
package log
