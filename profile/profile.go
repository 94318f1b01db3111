package profile

// Profiler configures a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unsupported mode disables
	// profiling.
	Mode string
	// Path is the output directory. If empty, a temporary directory is used.
	Path string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling if p names a supported mode. Both Start and the
// returned Stopper are always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
