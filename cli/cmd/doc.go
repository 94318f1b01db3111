// Package cmd implements the jsonscript subcommands: run, fmt and repl.
//
// Commands read their input through [Open], write results to the writer
// stored in the context by [WithStdout], and report failures as [*Error]
// values carrying structured attributes.
package cmd

// Kong variable identifiers shared with package cli.
const (
	// CacheIdentifier names the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// MaxDepthIdentifier names the kong variable holding the default
	// evaluation depth limit.
	MaxDepthIdentifier = "maxDepth"
)
