package preview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/hanji-sdk/internal/logger"
	"github.com/rovshanmuradov/hanji-sdk/internal/quote"
	"github.com/rovshanmuradov/hanji-sdk/internal/snapshot"
	"github.com/rovshanmuradov/hanji-sdk/internal/ui/component"
	"github.com/rovshanmuradov/hanji-sdk/internal/ui/style"
	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

const (
	fieldAmount = iota
	fieldSlippage
	fieldCount
)

// Options - начальное состояние экрана
type Options struct {
	Direction       spot.Direction
	InputToken      spot.InputToken
	Amount          string
	Slippage        decimal.Decimal
	UseAutoSlippage bool
}

// Model - экран предпросмотра рыночного ордера.
// Котировка пересчитывается на каждое изменение ввода.
type Model struct {
	keys     KeyMap
	help     help.Model
	inputs   []textinput.Model
	focus    int
	logs     *component.LogPane
	service  *quote.Service
	snapshot *snapshot.Snapshot

	direction  spot.Direction
	inputToken spot.InputToken
	auto       bool

	quote *quote.Quote
	err   error

	width  int
	height int
}

// New creates the preview model over a loaded snapshot
func New(snap *snapshot.Snapshot, svc *quote.Service, buffer *logger.LogBuffer, opts Options) Model {
	if opts.Direction == "" {
		opts.Direction = spot.DirectionBuy
	}
	if opts.InputToken == "" {
		opts.InputToken = spot.InputBase
	}

	amount := textinput.New()
	amount.Placeholder = "0.0"
	amount.Prompt = ""
	amount.CharLimit = 32
	amount.SetValue(opts.Amount)
	amount.Focus()

	slippage := textinput.New()
	slippage.Placeholder = "1.0"
	slippage.Prompt = ""
	slippage.CharLimit = 8
	slippage.SetValue(opts.Slippage.String())

	m := Model{
		keys:       DefaultKeyMap(),
		help:       help.New(),
		inputs:     []textinput.Model{amount, slippage},
		logs:       component.NewLogPane(buffer),
		service:    svc,
		snapshot:   snap,
		direction:  opts.Direction,
		inputToken: opts.InputToken,
		auto:       opts.UseAutoSlippage,
	}
	m.recompute()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.logs.SetSize(msg.Width, 8)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.NextField):
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case key.Matches(msg, m.keys.PrevField):
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case key.Matches(msg, m.keys.ToggleDirection):
			if m.direction == spot.DirectionBuy {
				m.direction = spot.DirectionSell
			} else {
				m.direction = spot.DirectionBuy
			}
			m.recompute()
			return m, nil
		case key.Matches(msg, m.keys.ToggleInput):
			if m.inputToken == spot.InputBase {
				m.inputToken = spot.InputQuote
			} else {
				m.inputToken = spot.InputBase
			}
			m.recompute()
			return m, nil
		case key.Matches(msg, m.keys.ToggleAuto):
			m.auto = !m.auto
			m.recompute()
			return m, nil
		case key.Matches(msg, m.keys.ToggleLogs):
			m.logs.Toggle()
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() != before {
		m.recompute()
	}
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// Params собирает параметры расчета из текущего ввода
func (m Model) Params() (spot.MarketDetailsParams, error) {
	amount := decimal.Zero
	if s := strings.TrimSpace(m.inputs[fieldAmount].Value()); s != "" {
		var err error
		if amount, err = spot.ParseAmount(s); err != nil {
			return spot.MarketDetailsParams{}, err
		}
	}

	slippage := decimal.Zero
	if s := strings.TrimSpace(m.inputs[fieldSlippage].Value()); s != "" {
		var err error
		if slippage, err = decimal.NewFromString(s); err != nil {
			return spot.MarketDetailsParams{}, fmt.Errorf("%w: slippage %q", spot.ErrInvalidInput, s)
		}
	}

	inputs := spot.TradeInputs{Slippage: slippage, UseAutoSlippage: m.auto}
	if m.inputToken == spot.InputBase {
		inputs.TokenXInput = amount
	} else {
		inputs.TokenYInput = amount
	}

	return spot.MarketDetailsParams{
		Market:     m.snapshot.Market,
		Orderbook:  m.snapshot.Orderbook,
		InputToken: m.inputToken,
		Direction:  m.direction,
		Inputs:     inputs,
	}, nil
}

func (m *Model) recompute() {
	m.quote, m.err = nil, nil
	if m.snapshot == nil || m.service == nil {
		return
	}

	params, err := m.Params()
	if err != nil {
		m.err = err
		return
	}
	if params.Inputs.TokenXInput.IsZero() && params.Inputs.TokenYInput.IsZero() {
		return
	}
	m.quote, m.err = m.service.Estimate(context.Background(), params)
}

// Quote returns the last computed quote
func (m Model) Quote() *quote.Quote {
	return m.quote
}

// Err returns the last input error
func (m Model) Err() error {
	return m.err
}

// View implements tea.Model
func (m Model) View() string {
	if m.snapshot == nil {
		return style.ErrorStyle.Render("no snapshot loaded") + "\n"
	}

	market := m.snapshot.Market
	base, quoteSym := market.BaseToken.Symbol, market.QuoteToken.Symbol

	title := style.TitleStyle.Render(fmt.Sprintf("%s/%s market order preview", base, quoteSym))

	dir := style.DirectionStyle(string(m.direction)).Render(strings.ToUpper(string(m.direction)))
	inputSym := base
	if m.inputToken == spot.InputQuote {
		inputSym = quoteSym
	}
	autoBadge := style.BadgeOffStyle.Render("auto slippage off")
	if m.auto {
		autoBadge = style.BadgeStyle.Render("auto slippage on")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, dir, "  ", style.MutedStyle.Render("amount in "+inputSym), "  ", autoBadge)

	form := lipgloss.JoinVertical(lipgloss.Left,
		m.renderField(fieldAmount, "Amount", inputSym),
		m.renderField(fieldSlippage, "Slippage", "%"),
	)

	var body string
	switch {
	case m.err != nil:
		body = style.FormErrorStyle.Render(m.err.Error())
	case m.quote != nil:
		body = lipgloss.JoinVertical(lipgloss.Left,
			component.RenderQuoteTable(m.quote, base, quoteSym),
			component.RenderSeverity(m.quote),
		)
	default:
		body = style.MutedStyle.Render("enter an amount")
	}

	sections := []string{
		title,
		style.SubHeaderStyle.Render(market.ID),
		header,
		"",
		style.AdaptiveJoinHorizontal(m.width, form, "  ", body),
	}
	if logs := m.logs.View(); logs != "" {
		sections = append(sections, logs)
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderField(i int, label, unit string) string {
	panel := style.PanelStyle
	if i == m.focus {
		panel = style.ActivePanelStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		style.FormLabelStyle.Render(label),
		panel.Width(20).Render(m.inputs[i].View()),
		" "+style.MutedStyle.Render(unit),
	)
}
