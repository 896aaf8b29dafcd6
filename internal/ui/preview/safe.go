// internal/ui/preview/safe.go
package preview

import (
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const crashedView = "Preview error: view crashed. Press Esc or Ctrl+C to exit."

// Safe оборачивает tea.Model и перехватывает паники в Init, Update и View,
// чтобы сбой расчета не оставлял терминал в alt screen.
type Safe struct {
	model  tea.Model
	logger *zap.Logger
	panics int
}

// NewSafe creates a panic-recovering wrapper around model
func NewSafe(model tea.Model, logger *zap.Logger) Safe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Safe{model: model, logger: logger.Named("preview")}
}

// Panics возвращает число перехваченных паник
func (s Safe) Panics() int {
	return s.panics
}

// Unwrap returns the wrapped model
func (s Safe) Unwrap() tea.Model {
	return s.model
}

// Init implements tea.Model
func (s Safe) Init() (cmd tea.Cmd) {
	defer s.recoverFromPanic("Init", &cmd, nil)
	return s.model.Init()
}

// Update implements tea.Model. После паники остается прежняя модель.
func (s Safe) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	next = s
	defer s.recoverFromPanic("Update", &cmd, &next)

	model, cmd := s.model.Update(msg)
	s.model = model
	return s, cmd
}

// View implements tea.Model
func (s Safe) View() (view string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("View panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			view = crashedView
		}
	}()
	return s.model.View()
}

func (s Safe) recoverFromPanic(method string, cmd *tea.Cmd, next *tea.Model) {
	r := recover()
	if r == nil {
		return
	}
	s.logger.Error("Preview panic recovered",
		zap.String("method", method),
		zap.Any("panic", r),
		zap.String("stack", string(debug.Stack())))

	*cmd = nil
	if next != nil {
		s.panics++
		*next = s
	}
}
