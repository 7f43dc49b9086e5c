// Package cli contains the command line interface for litweb.
//
// # Usage
//
//	litweb [flags] [run] [source ...]
//	litweb list [--chunks] [--streams] [--where EXPR] [--format text|json|yaml] [source ...]
//	litweb init [--force]
//
// The run command is the default. Sources are read in order and "-", or no
// source at all, reads standard input after every named file.
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.json in the user
// configuration directory (for example ~/.config/litweb). The init command
// writes config.yaml from the flags given with it:
//
//	litweb --log-level=debug init --marker=@
//
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout
//   - --log-caller: include the source location of each record
//   - --log-pretty: colorize output (default when stderr is a terminal)
//   - --log-file: also append JSON records to a file
//
// # Profiling Options
//
//   - --pprof-mode: enable profiling
//   - --pprof-dir: profile output directory
//
// These flags exist only when built with the pprof build tag:
//
//	go build -tags pprof .
package cli
