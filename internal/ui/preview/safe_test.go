package preview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type panicModel struct {
	updates int
}

func (m panicModel) Init() tea.Cmd { panic("init") }

func (m panicModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		panic("update")
	}
	m.updates++
	return m, nil
}

func (m panicModel) View() string { panic("view") }

func TestSafeRecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := NewSafe(panicModel{}, zap.New(core))

	assert.Nil(t, s.Init())
	assert.Equal(t, crashedView, s.View())

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	safe, ok := next.(Safe)
	require.True(t, ok)
	assert.Equal(t, 1, safe.Panics())

	next, _ = safe.Update(tea.WindowSizeMsg{Width: 10, Height: 10})
	inner, ok := next.(Safe).Unwrap().(panicModel)
	require.True(t, ok)
	assert.Equal(t, 1, inner.updates)

	assert.Equal(t, 2, logs.FilterMessage("Preview panic recovered").Len())
	assert.Equal(t, 1, logs.FilterMessage("View panic recovered").Len())
}

func TestSafePassesThrough(t *testing.T) {
	m := New(nil, nil, nil, Options{Amount: "1"})
	s := NewSafe(m, nil)

	assert.Equal(t, m.View(), s.View())

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, 0, next.(Safe).Panics())
}
