package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/jsonscript/lang"
	"github.com/ardnew/jsonscript/log"
	"github.com/ardnew/jsonscript/pkg"
)

const defaultEditor = "vi"

// editThisCommand implements [tea.ExecCommand] to edit the context value in
// an external editor. The value is written as YAML to a temporary file and
// decoded again once the editor exits. On a decode error the user is asked
// to re-edit; declining ends the shell.
type editThisCommand struct {
	this    any
	ctxFunc func() context.Context
	logger  log.Logger
	edited  bool
	result  any
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editThisCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editThisCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editThisCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-decode-retry loop. An emptied file cancels the edit.
// Declining to re-edit returns [ErrEditDeclined].
func (c *editThisCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := lang.Encode(ctx, &buf, c.this, lang.EncodeYAML, 2); err != nil {
		return fmt.Errorf("encode context: %w", err)
	}

	f, err := os.CreateTemp("", pkg.Name+"-this-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		v, decodeErr := lang.Decode(bytes.NewReader(content))

		c.logger.TraceContext(ctx, "editor decode attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.edited, c.result = true, v

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", decodeErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR on path, falling back to vi.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
