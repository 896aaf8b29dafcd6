// pkg/spot/fee.go
package spot

import "github.com/shopspring/decimal"

// WithFee рассчитывает сумму к оплате с учетом комиссии, когда известна чистая сумма.
//
//	fee   = ceil(value * feeRate, feeDecimalPlaces)
//	total = ceil(value + fee, valueDecimalPlaces)
//
// Оба округления вверх: протокол никогда не получает меньше теоретической комиссии.
func WithFee(value, feeRate decimal.Decimal, feeDecimalPlaces, valueDecimalPlaces int32) (total, fee decimal.Decimal) {
	fee = Round(value.Mul(feeRate), feeDecimalPlaces, RoundCeil)
	total = Round(value.Add(fee), valueDecimalPlaces, RoundCeil)
	return total, fee
}

// WithoutFee выделяет чистую сумму из суммы, уже включающей комиссию.
//
//	net = floor(value / (1 + feeRate), valueDecimalPlaces)
//	fee = ceil(value - net, feeDecimalPlaces)
func WithoutFee(value, feeRate decimal.Decimal, feeDecimalPlaces, valueDecimalPlaces int32) (net, fee decimal.Decimal) {
	net = DivRound(value, one.Add(feeRate), valueDecimalPlaces, RoundFloor)
	fee = Round(value.Sub(net), feeDecimalPlaces, RoundCeil)
	return net, fee
}
