// internal/quote/severity.go
package quote

import "github.com/shopspring/decimal"

// Пороги проскальзывания в процентах
var (
	SlippageLow      = decimal.NewFromInt(1)
	SlippageModerate = decimal.NewFromInt(3)
	SlippageHigh     = decimal.NewFromInt(5)
	SlippageExtreme  = decimal.NewFromInt(10)
)

// Severity - уровень влияния сделки на цену
type Severity string

const (
	SeverityNone     Severity = "none"     // < 1%
	SeverityLow      Severity = "low"      // 1-3%
	SeverityModerate Severity = "moderate" // 3-5%
	SeverityHigh     Severity = "high"     // 5-10%
	SeverityExtreme  Severity = "extreme"  // >= 10%
)

// GetSeverity классифицирует оценку проскальзывания в процентах
func GetSeverity(slippagePct decimal.Decimal) Severity {
	switch {
	case slippagePct.LessThan(SlippageLow):
		return SeverityNone
	case slippagePct.LessThan(SlippageModerate):
		return SeverityLow
	case slippagePct.LessThan(SlippageHigh):
		return SeverityModerate
	case slippagePct.LessThan(SlippageExtreme):
		return SeverityHigh
	default:
		return SeverityExtreme
	}
}

// AtLeast сообщает, что уровень не ниже other
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}

func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityModerate:
		return 2
	case SeverityHigh:
		return 3
	case SeverityExtreme:
		return 4
	default:
		return 0
	}
}

// Warning возвращает предупреждение для пользователя; пустая строка - предупреждать не о чем
func (s Severity) Warning() string {
	switch s {
	case SeverityLow:
		return "Low price impact"
	case SeverityModerate:
		return "Moderate price impact - consider reducing trade size"
	case SeverityHigh:
		return "High price impact - the order walks deep into the book"
	case SeverityExtreme:
		return "EXTREME price impact - most of the visible liquidity will be consumed"
	default:
		return ""
	}
}
