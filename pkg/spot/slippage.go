// pkg/spot/slippage.go
package spot

import "github.com/shopspring/decimal"

const (
	autoSlippageIncreasePercent       = 10
	autoSlippageDecimalPlaces   int32 = 1
)

var (
	autoSlippageMin = decimal.New(1, -1)
	autoSlippageMax = decimal.NewFromInt(5)
)

// SlippagePct возвращает |worstPrice - referencePrice| / referencePrice * 100.
// При неположительной референсной цене возвращает ноль.
func SlippagePct(worstPrice, referencePrice decimal.Decimal) decimal.Decimal {
	if !referencePrice.IsPositive() {
		return decimal.Zero
	}
	return safeDiv(worstPrice.Sub(referencePrice).Abs(), referencePrice).Mul(hundred)
}

// AutoSlippage предлагает допуск проскальзывания по оценке из книги:
// оценка + 10%, округление вверх до 0.1, не меньше 0.1 и не больше 5.
// Это рекомендация для тейкера, а не гарантия исполнения.
func AutoSlippage(estSlippagePct decimal.Decimal) decimal.Decimal {
	increase := estSlippagePct.Mul(decimal.New(autoSlippageIncreasePercent, -2))
	slippage := Round(estSlippagePct.Add(increase), autoSlippageDecimalPlaces, RoundCeil)

	if !slippage.IsPositive() {
		return autoSlippageMin
	}
	if slippage.GreaterThan(autoSlippageMax) {
		return autoSlippageMax
	}
	return slippage
}

// BuyWorstPrice - худшая цена покупки: bestPrice * (1 + slippage/100), вверх до priceDecimalPlaces
func BuyWorstPrice(bestPrice, slippage decimal.Decimal, priceDecimalPlaces int32) decimal.Decimal {
	factor := one.Add(slippage.Shift(-2))
	return Round(bestPrice.Mul(factor), priceDecimalPlaces, RoundCeil)
}

// SellWorstPrice - худшая цена продажи: bestPrice * (1 - slippage/100), вниз до priceDecimalPlaces
func SellWorstPrice(bestPrice, slippage decimal.Decimal, priceDecimalPlaces int32) decimal.Decimal {
	factor := one.Sub(slippage.Shift(-2))
	return Round(bestPrice.Mul(factor), priceDecimalPlaces, RoundFloor)
}
