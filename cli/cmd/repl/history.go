package repl

import (
	"bufio"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// History is the list of submitted input lines, persisted one per line in a
// file. Resubmitting a line moves it to the end.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []string
}

// NewHistory returns an empty History persisted at path. If path is empty,
// the history is kept in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those stored in the history file. A missing
// file is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, line)
		}
	}

	return scanner.Err()
}

// Write appends entry, removing an earlier copy of it, and persists the
// change.
func (h *History) Write(entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if h.path == "" {
		return nil
	}

	if i >= 0 {
		return h.rewrite()
	}

	return h.append(entry)
}

// Line returns the entry at index i, oldest first.
func (h *History) Line(i int) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

func (h *History) open(flag int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return nil, err
	}

	return os.OpenFile(h.path, flag|os.O_CREATE|os.O_WRONLY, 0o600)
}

// append must be called with h.mu held.
func (h *History) append(entry string) error {
	file, err := h.open(os.O_APPEND)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry + "\n")

	return err
}

// rewrite must be called with h.mu held.
func (h *History) rewrite() error {
	file, err := h.open(os.O_TRUNC)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, entry := range h.entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			return err
		}
	}

	return w.Flush()
}
