package host

import (
	"bufio"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/mung"
)

// Target identifies an operating system and instruction set architecture.
type Target struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// String returns "os/arch".
func (t Target) String() string { return t.OS + "/" + t.Arch }

// hostTarget returns the host target using GNU GCC/LLVM naming conventions.
func hostTarget() Target {
	t := hostPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// hostPlatform returns the host target using Go conventions.
func hostPlatform() Target {
	lookup := func(fallback string, keys ...string) string {
		for _, key := range keys {
			if v, ok := os.LookupEnv(key); ok {
				return v
			}
		}

		return fallback
	}

	return Target{
		OS:   lookup(runtime.GOOS, "GOHOSTOS", "GOOS"),
		Arch: lookup(runtime.GOARCH, "GOHOSTARCH", "GOARCH"),
	}
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}

	return name
}

func currentUser() *user.User {
	u, err := user.Current()
	if err != nil {
		return nil
	}

	return u
}

func loginShell() string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	u := currentUser()
	if u == nil || u.Username == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}

	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == u.Username {
			return e[6]
		}
	}

	return ""
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return dir
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

// mungPrefix prepends prefix to the path list, removing duplicates.
func mungPrefix(list string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// mungPrefixIf is like mungPrefix, keeping only the items accepted by
// predicate.
func mungPrefixIf(list string, predicate func(string) bool, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}

// environ converts "KEY=VALUE" entries to a map. If entries is nil, the
// process environment is used.
func environ(entries []string) map[string]string {
	if entries == nil {
		entries = os.Environ()
	}

	m := make(map[string]string, len(entries))

	for _, entry := range entries {
		if key, value, ok := strings.Cut(entry, "="); ok {
			m[key] = value
		}
	}

	return m
}
