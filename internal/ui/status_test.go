package ui

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusModel_Update(t *testing.T) {
	m := newStatusModel(spinner.New())

	next, cmd := m.Update(statusMsg{phase: "thinking", message: "Thinking..."})
	assert.Nil(t, cmd)
	m = next.(statusModel)
	assert.Equal(t, "thinking", m.phase)
	assert.Contains(t, m.View(), "Thinking...")

	next, _ = m.Update(statusMsg{phase: "executing", message: "Running: ls -la"})
	m = next.(statusModel)
	assert.Contains(t, m.View(), "Running: ls -la")
	assert.NotContains(t, m.View(), "Thinking...")
}

func TestStatusModel_StopClearsLine(t *testing.T) {
	m := newStatusModel(spinner.New())
	next, _ := m.Update(statusMsg{phase: "thinking", message: "Thinking..."})

	next, cmd := next.Update(stopMsg{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestStatusModel_EmptyMessageRendersNothing(t *testing.T) {
	assert.Empty(t, newStatusModel(spinner.New()).View())
}

func TestStatusModel_SpinnerTicks(t *testing.T) {
	m := newStatusModel(spinner.New())

	_, cmd := m.Update(m.spinner.Tick())

	assert.NotNil(t, cmd)
}

// syncBuffer guards the buffer shared with the renderer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_WriteAndClose(t *testing.T) {
	out := &syncBuffer{}
	s := StartSpinner(out)

	s.WriteStatus("thinking", "Thinking...")
	s.Close()
	s.Close() // idempotent

	assert.NotPanics(t, func() { s.WriteStatus("thinking", "after close") })
}

func TestNewStatus_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	defer f.Close()

	assert.IsType(t, NopStatus{}, NewStatus(f))
	assert.False(t, IsTerminal(f))
	assert.Equal(t, 80, TerminalWidth(f, 80))
	assert.False(t, IsTerminal(nil))
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("# Usage\n\nRun `llmc list files`.", 60)

	assert.Contains(t, out, "Usage")
	assert.Contains(t, out, "llmc list files")
}
