// pkg/spot/rounding.go
package spot

import "github.com/shopspring/decimal"

// RoundingMode задает направление округления до заданного числа знаков
type RoundingMode int

const (
	// RoundFloor округляет к -inf; для сумм, которые получает тейкер
	RoundFloor RoundingMode = iota
	// RoundCeil округляет к +inf; для всего, что увеличивает стоимость для тейкера
	RoundCeil
)

func (m RoundingMode) String() string {
	switch m {
	case RoundFloor:
		return "floor"
	case RoundCeil:
		return "ceil"
	default:
		return "unknown"
	}
}

// divisionPrecision - точность промежуточных делений, результат которых не округляется
const divisionPrecision int32 = 24

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Round округляет d до places знаков после запятой в направлении mode
func Round(d decimal.Decimal, places int32, mode RoundingMode) decimal.Decimal {
	if mode == RoundCeil {
		return d.RoundCeil(places)
	}
	return d.RoundFloor(places)
}

// DivRound делит a на b точно и округляет частное до places знаков в направлении mode.
// Деление на ноль возвращает ноль.
func DivRound(a, b decimal.Decimal, places int32, mode RoundingMode) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}

	// QuoRem усекает к нулю, остаток показывает, было ли частное точным
	q, r := a.QuoRem(b, places)
	if r.IsZero() {
		return q
	}

	step := decimal.New(1, -places)
	positive := a.Sign()*b.Sign() > 0
	switch {
	case mode == RoundCeil && positive:
		return q.Add(step)
	case mode == RoundFloor && !positive:
		return q.Sub(step)
	default:
		return q
	}
}

// safeDiv делит с фиксированной точностью; при нулевом делителе возвращает ноль
func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, divisionPrecision)
}
