// pkg/spot/scaling.go
package spot

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// ToScaled переводит человекочитаемую сумму в целое число единиц контракта:
// amount * 10^scalingFactor, округленное в направлении mode.
func ToScaled(amount decimal.Decimal, scalingFactor int32, mode RoundingMode) (*big.Int, error) {
	if scalingFactor < 0 {
		return nil, invalidInput("scaling_factor", strconv.Itoa(int(scalingFactor)), "must not be negative")
	}
	if amount.IsNegative() {
		return nil, invalidAmount("amount", amount.String(), "must not be negative")
	}

	return Round(amount.Shift(scalingFactor), 0, mode).BigInt(), nil
}

// FromScaled выполняет обратное преобразование: raw / 10^scalingFactor
func FromScaled(raw *big.Int, scalingFactor int32) (decimal.Decimal, error) {
	if scalingFactor < 0 {
		return decimal.Zero, invalidInput("scaling_factor", strconv.Itoa(int(scalingFactor)), "must not be negative")
	}
	if raw == nil {
		return decimal.Zero, invalidAmount("raw", "<nil>", "missing value")
	}
	if raw.Sign() < 0 {
		return decimal.Zero, invalidAmount("raw", raw.String(), "must not be negative")
	}

	return decimal.NewFromBigInt(raw, -scalingFactor), nil
}

// FromScaledDecimal - вариант FromScaled для сырых значений, уже хранящихся как decimal.
// Дробная часть у сырого значения недопустима.
func FromScaledDecimal(raw decimal.Decimal, scalingFactor int32) (decimal.Decimal, error) {
	if !raw.IsInteger() {
		return decimal.Zero, invalidAmount("raw", raw.String(), "must be an integer")
	}
	return FromScaled(raw.BigInt(), scalingFactor)
}

// DecimalFromFloat конвертирует float64 в decimal, отклоняя NaN, Inf и отрицательные значения
func DecimalFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, invalidAmount("amount", strconv.FormatFloat(f, 'g', -1, 64), "must be finite")
	}
	if f < 0 {
		return decimal.Zero, invalidAmount("amount", strconv.FormatFloat(f, 'g', -1, 64), "must not be negative")
	}
	return decimal.NewFromFloat(f), nil
}

// ParseAmount разбирает строковую сумму и проверяет, что она неотрицательна
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &InputError{Field: "amount", Value: s, Reason: err.Error(), Err: ErrInvalidAmount}
	}
	if d.IsNegative() {
		return decimal.Zero, invalidAmount("amount", s, "must not be negative")
	}
	return d, nil
}
