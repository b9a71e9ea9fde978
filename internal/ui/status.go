// Package ui renders progress and help on stderr. Nothing here ever writes to
// stdout, which carries only the generated command.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Status displays ephemeral progress until it is closed.
type Status interface {
	WriteStatus(phase string, message string)
	Close()
}

// NopStatus discards all updates.
type NopStatus struct{}

func (NopStatus) WriteStatus(string, string) {}
func (NopStatus) Close()                     {}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or fallback when it is unknown.
func TerminalWidth(f *os.File, fallback int) int {
	if !IsTerminal(f) {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// NewStatus returns a spinner on f when f is a terminal and a NopStatus
// otherwise.
func NewStatus(f *os.File) Status {
	if !IsTerminal(f) {
		return NopStatus{}
	}
	return StartSpinner(f)
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// DefaultSpinner is the dot spinner.
func DefaultSpinner() spinner.Model {
	return spinner.New(spinner.WithSpinner(spinner.Dot))
}

// Spinner runs a Bubble Tea program that owns one status line.
type Spinner struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// StartSpinner starts the program on out. The program reads no input and
// leaves signal handling to the caller.
func StartSpinner(out io.Writer, opts ...tea.ProgramOption) *Spinner {
	opts = append([]tea.ProgramOption{
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	}, opts...)

	s := &Spinner{
		program: tea.NewProgram(newStatusModel(DefaultSpinner()), opts...),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
	return s
}

// WriteStatus updates the status line
func (s *Spinner) WriteStatus(phase string, message string) {
	s.program.Send(statusMsg{phase: phase, message: message})
}

// Close clears the line and waits for the program to exit.
func (s *Spinner) Close() {
	s.once.Do(func() {
		s.program.Send(stopMsg{})
		<-s.done
	})
}

type statusMsg struct {
	phase   string
	message string
}

type stopMsg struct{}

// statusModel implements tea.Model
type statusModel struct {
	spinner spinner.Model
	phase   string
	message string
	stopped bool
}

func newStatusModel(sp spinner.Model) statusModel {
	return statusModel{spinner: sp}
}

func (m statusModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.phase = msg.phase
		m.message = msg.message
		return m, nil

	case stopMsg:
		m.stopped = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the status line. A stopped model renders nothing so the line
// is cleared on exit.
func (m statusModel) View() string {
	if m.stopped || m.message == "" {
		return ""
	}

	var style = StatusDefaultStyle
	switch m.phase {
	case "thinking":
		style = StatusThinkingStyle
	case "executing":
		style = StatusExecutingStyle
	}
	return style.Render(fmt.Sprintf("%s %s", m.spinner.View(), m.message))
}
