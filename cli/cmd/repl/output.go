package repl

import (
	"bytes"
	"strings"
	"sync"
)

// Output collects text written by scripts, such as by the host print
// function, so the shell can display it after each evaluation.
type Output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewOutput returns an empty Output.
func NewOutput() *Output { return &Output{} }

// Write appends p.
func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.buf.Write(p)
}

// Drain returns the collected text without its trailing newline and resets
// the buffer.
func (o *Output) Drain() string {
	if o == nil {
		return ""
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	s := strings.TrimSuffix(o.buf.String(), "\n")
	o.buf.Reset()

	return s
}
