package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/jsonscript/host"
	"github.com/ardnew/jsonscript/lang"
	"github.com/ardnew/jsonscript/log"
)

const (
	prompt     = "➜ "
	ctrlPrefix = ":"

	defaultWidth = 80
	previewWidth = 60
)

const helpMessage = `
Commands:

  :help    Print this cruft
  :vars    List variables
  :this    Print the context value
  :edit    Edit the context value in $EDITOR
  :clear   Clear screen
  :quit    Exit

Usage:
  Type a script as JSON or as a YAML flow sequence, for example
    ["call", "path.cat", ["a", "b"]]
  The result of each script is available to the next one as "$"
  Completions appear as you type; Tab / Shift-Tab cycle through them
  Esc restores the input from before cycling
  Up/Down navigate history
  Press Ctrl+C on an empty line or Ctrl+D to exit`

var (
	promptStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = suggestionStyle.Bold(true).Underline(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true).Underline(true)
)

// Session is the state shared by every line evaluated in the shell.
type Session struct {
	// Runtime evaluates each line. Variables, the context, and the last
	// value persist between lines.
	Runtime *lang.Runtime
	// Loop, if set, is drained after each line. A promise result is
	// replaced by its settlement.
	Loop *host.Loop
	// Output, if set, collects script output to print after each line.
	Output *Output
	// History is the directory holding the input history. If empty, history
	// is not persisted.
	History string
	Logger  log.Logger
}

// evaluation is the outcome of evaluating one line.
type evaluation struct {
	output string
	result any
	err    error
}

// evaluate decodes input as a script and runs it in s.
func (s Session) evaluate(ctx context.Context, input string) evaluation {
	var ev evaluation

	script, err := lang.DecodeString(input)
	if err != nil {
		ev.err = err

		return ev
	}

	ev.result, ev.err = s.Runtime.Execute(ctx, script)
	if ev.err == nil && s.Loop != nil {
		ev.result, ev.err = s.Loop.Await(ctx, ev.result)
	}

	ev.output = s.Output.Drain()

	return ev
}

// Run starts the interactive shell and returns once the user quits.
func Run(ctx context.Context, s Session) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if s.Runtime == nil {
		s.Runtime = lang.New(lang.WithLogger(s.Logger))
	}

	var path string
	if s.History != "" {
		path = filepath.Join(s.History, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		s.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	s.Logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("entries", history.Len()),
	)

	_, err = tea.NewProgram(newModel(ctx, s, history), tea.WithContext(ctx)).Run()

	return err
}

// editedMsg is sent when the context value was edited.
type editedMsg struct{ this any }

// editCancelledMsg is sent when the user emptied the edited file.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a decode
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when editing failed for any other reason.
type editErrorMsg struct{ err error }

// model is the Bubble Tea model for the shell.
type model struct {
	ctxFunc      func() context.Context
	session      Session
	input        textinput.Model
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
}

func newModel(ctx context.Context, s Session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    s,
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil

	case editedMsg:
		m.session.Runtime.SetThis(msg.this)

		return m, tea.Println(resultStyle.Render("✔ context updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine returns the line shown below the input: the history position,
// a usage hint, the signature of the call under the cursor, or the
// completion candidates.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		return hintStyle.Render("Type a script, or :help for commands")
	}

	if call := detectFunctionCall(input, m.input.Position()); call.inCall && !m.tabActive {
		if fn, ok := resolve(m.session.Runtime, call.name); ok {
			if params, ok := signature(fn); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive {
			return m.executeInput()
		}

		m.tabActive = false
		refreshMatches(&m)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m)
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m)

	return m, cmd
}

// cycle selects the next (dir > 0) or previous candidate and writes it into
// the input. A sole candidate is accepted immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n
	case dir > 0:
		m.suggIdx = 0
	default:
		m.suggIdx = n - 1
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the word being completed with replacement and
// moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the candidates for the word at the cursor.
func refreshMatches(m *model) {
	c := complete(m.session.Runtime, m.input.Value(), m.input.Position())

	m.matches = c.matches
	m.wordStart, m.wordEnd = c.wordStart, c.wordEnd

	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) historyMove(dir int) model {
	i := m.historyIdx + dir
	if i < 0 || (dir > 0 && m.historyIdx >= m.history.Len()) {
		return m
	}

	m.tabActive = false

	line, err := m.history.Line(i)
	if err != nil {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
	} else {
		m.historyIdx = i
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
	}

	refreshMatches(&m)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	ctx := m.ctxFunc()

	if err := m.history.Write(input); err != nil {
		m.session.Logger.WarnContext(ctx, "could not write history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(input))

	if name, ok := strings.CutPrefix(input, ctrlPrefix); ok {
		m.session.Logger.TraceContext(ctx, "repl command", slog.String("command", name))

		var cmd tea.Cmd

		m, cmd = m.executeCommand(strings.TrimSpace(name))

		return m, tea.Sequence(echo, cmd)
	}

	ev := m.session.evaluate(ctx, input)

	m.session.Logger.TraceContext(ctx, "repl eval",
		slog.String("input", input),
		slog.String("kind", lang.KindOf(ev.result).String()),
		slog.Bool("failed", ev.err != nil),
	)

	cmds := []tea.Cmd{echo}
	if ev.output != "" {
		cmds = append(cmds, tea.Println(ev.output))
	}

	if ev.err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+ev.err.Error())))
	} else {
		cmds = append(cmds, tea.Println(resultStyle.Render(lang.FormatResult(ev.result))))
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(name string) (model, tea.Cmd) {
	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "h", "help":
		return m, tea.Println(helpMessage)

	case "v", "vars":
		return m, tea.Println(listVariables(m.session.Runtime))

	case "t", "this":
		return m, tea.Println(resultStyle.Render(lang.FormatResult(m.session.Runtime.This())))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, m.edit()

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + name + " (try :help)"),
		)
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editThisCommand{
		this:    m.session.Runtime.This(),
		ctxFunc: m.ctxFunc,
		logger:  m.session.Logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !cmd.edited:
			return editCancelledMsg{}
		default:
			return editedMsg{this: cmd.result}
		}
	})
}

// listVariables renders each variable name with a preview of its value.
func listVariables(rt *lang.Runtime) string {
	var b strings.Builder

	for _, name := range rt.Scope().Names() {
		v, _ := rt.Scope().Lookup(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(v)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// preview returns the formatted value v cut to a single short line.
func preview(v any) string {
	s := lang.FormatResult(v)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}

	if r := []rune(s); len(r) > previewWidth {
		s = string(r[:previewWidth-3]) + "..."
	}

	return s
}
