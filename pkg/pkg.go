// Package pkg holds identifying metadata and host paths shared by the
// jsonscript command and its packages.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It appears in help text and is the fallback
	// for [Prefix].
	Name = "jsonscript"
	// Description summarizes the command for help output.
	Description = "Interpreter for S-expression scripts embedded in JSON"
)

// AuthorInfo identifies an author of the project.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary authors of the project.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
