package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the identifier used to name the configuration and cache
// directories and to prefix environment variables.
//
// It is the base name of the executable without extension, except that
// debugger build outputs ("__debug_bin1234") are replaced with [Name] and
// leading dots are removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	return prefixOf(id)
})

//nolint:gochecknoglobals
var (
	debugBin   = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDot = regexp.MustCompile(`^\.+`)
)

func prefixOf(exe string) string {
	base := filepath.Base(exe)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = debugBin.ReplaceAllString(base, Name)
	base = leadingDot.ReplaceAllString(base, "")

	if base == "" {
		return Name
	}

	return base
}

// ConfigDir returns the directory searched for configuration files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory holding transient files such as the REPL
// history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir joins [Prefix] to the directory returned by base, falling back to
// fallback under the home directory and then to the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if wd, werr := os.Getwd(); werr == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
