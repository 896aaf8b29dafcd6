package component

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/hanji-sdk/internal/quote"
	"github.com/rovshanmuradov/hanji-sdk/internal/ui/style"
	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

// QuoteRow - одна строка таблицы котировки
type QuoteRow struct {
	Label     string
	Guarantee string // по худшей цене
	Estimate  string // по живой книге
}

// QuoteRows раскладывает запрошенную сторону котировки на строки.
// base и quoteSym - символы токенов для подписей.
func QuoteRows(q *quote.Quote, base, quoteSym string) []QuoteRow {
	if q == nil {
		return nil
	}

	if q.Direction == spot.DirectionSell {
		s := q.Details.Sell
		return []QuoteRow{
			{"Price", s.WorstPrice.String(), s.EstPrice.String()},
			{"Worst price", s.WorstPrice.String(), s.EstWorstPrice.String()},
			{"Pay " + base, s.TokenXPay.String(), s.EstTokenXPay.String()},
			{"Receive " + quoteSym, s.TokenYReceive.String(), s.EstTokenYReceive.String()},
			{"Fee " + quoteSym, s.Fee.String(), s.EstFee.String()},
			{"Slippage %", slippageCell(s.AutoSlippage), s.EstSlippage.String()},
		}
	}

	b := q.Details.Buy
	return []QuoteRow{
		{"Price", b.WorstPrice.String(), b.EstPrice.String()},
		{"Worst price", b.WorstPrice.String(), b.EstWorstPrice.String()},
		{"Receive " + base, b.TokenXReceive.String(), b.EstTokenXReceive.String()},
		{"Pay " + quoteSym, b.TokenYPay.String(), b.EstTokenYPay.String()},
		{"Fee " + quoteSym, b.Fee.String(), b.EstFee.String()},
		{"Slippage %", slippageCell(b.AutoSlippage), b.EstSlippage.String()},
	}
}

func slippageCell(auto decimal.Decimal) string {
	if auto.IsZero() {
		return "-"
	}
	return "auto " + auto.String()
}

// RenderQuoteTable рисует котировку таблицей lipgloss
func RenderQuoteTable(q *quote.Quote, base, quoteSym string) string {
	palette := style.DefaultPalette()
	headerStyle := lipgloss.NewStyle().Foreground(palette.Secondary).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(palette.Text).Padding(0, 1)
	labelStyle := cellStyle.Foreground(palette.TextSecondary)

	rows := QuoteRows(q, base, quoteSym)
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Label, r.Guarantee, r.Estimate})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(palette.TextMuted)).
		Headers("", "Guaranteed", "Estimated").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})

	return t.Render()
}

// RenderSeverity рисует уровень влияния на цену и предупреждение
func RenderSeverity(q *quote.Quote) string {
	if q == nil || !q.Quoted() {
		return style.WarningStyle.Render("No liquidity on the requested side")
	}
	badge := lipgloss.NewStyle().
		Foreground(style.SeverityColor(string(q.Severity))).
		Bold(true).
		Render("impact: " + string(q.Severity))
	if q.Warning == "" {
		return badge
	}
	return badge + "  " + style.MutedStyle.Render(q.Warning)
}
