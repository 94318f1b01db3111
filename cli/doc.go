// Package cli contains the command line interface for jsonscript.
//
// # Commands
//
//	jsonscript [run] [SCRIPT]   execute a script and print its result
//	jsonscript fmt json|yaml    re-encode a script
//	jsonscript repl             start an interactive shell
//
// SCRIPT defaults to "-", standard input. Scripts, context values (--this)
// and variables files (--vars) are YAML or JSON.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the per-user
// configuration directory (for example ~/.config/jsonscript). The YAML form
// accepts nested mappings:
//
//	log:
//	  level: debug
//	  pretty: false
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (rfc3339, kitchen, none, ...)
//   - --log-caller: include caller information
//   - --[no-]log-pretty: colorized output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
// The profiling flags are:
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread or trace
//   - --pprof-dir: profile output directory (default ~/.cache/jsonscript/pprof)
package cli
