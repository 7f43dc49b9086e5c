package profile

// Profiler selects a profiling mode and its output directory.
type Profiler struct {
	Mode  string
	Path  string // defaults to a temporary directory
	Quiet bool
}

// Stopper ends a profile and flushes it to disk.
type Stopper interface{ Stop() }

// Start begins profiling. It returns a no-op when Mode is empty or unknown,
// or when built without the pprof tag. Stop must be called exactly once.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
