// Package host provides the Go side of a script's world: a prelude of native
// functions and values placed in the variables mapping before evaluation,
// and a callback [Loop] that runs promise reactions after a script returns.
//
// Built-in names can be shadowed by variables supplied by the caller.
package host
