package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/hanji-sdk/internal/logger"
	"github.com/rovshanmuradov/hanji-sdk/internal/ui/style"
)

// LogFilter defines what log levels to show
type LogFilter struct {
	ShowError   bool
	ShowWarning bool
	ShowInfo    bool
	ShowDebug   bool
}

// LogPane показывает последние записи LogBuffer в компактной панели
type LogPane struct {
	buffer   *logger.LogBuffer
	viewport viewport.Model
	filter   LogFilter
	styles   logPaneStyles
	limit    int
	visible  bool
	title    string
}

type logPaneStyles struct {
	container lipgloss.Style
	title     lipgloss.Style
	timestamp lipgloss.Style
	error     lipgloss.Style
	warning   lipgloss.Style
	info      lipgloss.Style
	debug     lipgloss.Style
}

// NewLogPane creates a log pane over buffer
func NewLogPane(buffer *logger.LogBuffer) *LogPane {
	palette := style.DefaultPalette()

	return &LogPane{
		buffer:  buffer,
		visible: true,
		limit:   50,
		title:   "Recent Logs",
		filter: LogFilter{
			ShowError:   true,
			ShowWarning: true,
			ShowInfo:    true,
		},
		styles: logPaneStyles{
			container: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Info).
				Padding(0, 1),
			title:     lipgloss.NewStyle().Foreground(palette.Info).Bold(true),
			timestamp: lipgloss.NewStyle().Foreground(palette.TextMuted),
			error:     lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
			warning:   lipgloss.NewStyle().Foreground(palette.Warning).Bold(true),
			info:      lipgloss.NewStyle().Foreground(palette.Info),
			debug:     lipgloss.NewStyle().Foreground(palette.TextMuted),
		},
		viewport: viewport.New(60, 4),
	}
}

// SetSize sets the pane dimensions including border
func (lp *LogPane) SetSize(width, height int) {
	lp.viewport.Width = max(width-4, 10)
	lp.viewport.Height = max(height-3, 2)
}

// Toggle switches pane visibility
func (lp *LogPane) Toggle() {
	lp.visible = !lp.visible
}

// IsVisible returns whether the pane is visible
func (lp *LogPane) IsVisible() bool {
	return lp.visible
}

// SetFilter updates the log filter
func (lp *LogPane) SetFilter(filter LogFilter) {
	lp.filter = filter
}

// Update forwards scroll messages to the viewport
func (lp *LogPane) Update(msg tea.Msg) tea.Cmd {
	if !lp.visible {
		return nil
	}
	var cmd tea.Cmd
	lp.viewport, cmd = lp.viewport.Update(msg)
	return cmd
}

// View renders the pane
func (lp *LogPane) View() string {
	if !lp.visible {
		return ""
	}

	lp.viewport.SetContent(strings.Join(lp.Lines(), "\n"))
	lp.viewport.GotoBottom()

	return lp.styles.container.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		lp.styles.title.Render(lp.title),
		lp.viewport.View(),
	))
}

// Lines возвращает отформатированные записи, прошедшие фильтр
func (lp *LogPane) Lines() []string {
	if lp.buffer == nil {
		return []string{"No log buffer available"}
	}

	var lines []string
	for _, entry := range lp.buffer.GetRecentLogs(lp.limit) {
		if lp.shouldShow(entry) {
			lines = append(lines, lp.format(entry))
		}
	}
	if len(lines) == 0 {
		return []string{"No logs match current filter"}
	}
	return lines
}

func (lp *LogPane) shouldShow(entry logger.LogEntry) bool {
	switch strings.ToLower(entry.Level) {
	case "error", "fatal":
		return lp.filter.ShowError
	case "warning", "warn":
		return lp.filter.ShowWarning
	case "debug":
		return lp.filter.ShowDebug
	default:
		return lp.filter.ShowInfo
	}
}

func (lp *LogPane) format(entry logger.LogEntry) string {
	ts := lp.styles.timestamp.Render(entry.Timestamp.Format("15:04:05"))

	var msg string
	switch strings.ToLower(entry.Level) {
	case "error", "fatal":
		msg = lp.styles.error.Render(entry.Message)
	case "warning", "warn":
		msg = lp.styles.warning.Render(entry.Message)
	case "debug":
		msg = lp.styles.debug.Render(entry.Message)
	default:
		msg = lp.styles.info.Render(entry.Message)
	}

	return fmt.Sprintf("%s %s", ts, msg)
}
