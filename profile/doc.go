// Package profile provides optional runtime profiling using
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag. Without it,
// [Modes] is empty and [Profiler.Start] returns a no-op stopper, so callers
// never need to check the build configuration:
//
//	stop := profile.Profiler{Mode: "cpu", Path: dir}.Start()
//	defer stop.Stop()
//
// Profiles are written to Path with names matching the mode, such as
// cpu.pprof or mem.pprof, and are analyzed with "go tool pprof". Builds with
// the tag also register the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
