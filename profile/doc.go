// Package profile provides optional runtime profiling for litweb.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Profiler.Start] always returns a no-op and [Modes] is
// empty.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution tracing
//
// # Command line
//
//	litweb --pprof-mode=cpu run book.txt
//	litweb --pprof-mode=heap --pprof-dir=./profiles list book.txt
//
// Profiles are written to the pprof directory under the user cache directory
// unless --pprof-dir is given, and are read with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/litweb/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
