// pkg/spot/estimator.go
package spot

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// pathParams - общие параметры для всех четырех путей расчета
type pathParams struct {
	amount          decimal.Decimal
	slippage        decimal.Decimal
	bestPrice       decimal.Decimal
	levels          []OrderbookLevel
	xScale          int32
	yScale          int32
	priceScale      int32
	feeRate         decimal.Decimal
	useAutoSlippage bool
}

// feeDecimalPlaces - точность комиссии: размер в базовом токене * цена
func (p pathParams) feeDecimalPlaces() int32 {
	return p.xScale + p.priceScale
}

// GetMarketDetails рассчитывает параметры рыночного ордера по снимку рынка и книги.
//
// Отсутствие лучшей цены на нужной стороне или пустая книга ошибкой не являются:
// возвращается нулевая запись. Ошибка возвращается только для некорректного ввода
// и всегда удовлетворяет errors.Is(err, ErrInvalidInput).
func GetMarketDetails(params MarketDetailsParams) (MarketOrderDetails, error) {
	details := MarketOrderDetails{Buy: DefaultBuyDetails(), Sell: DefaultSellDetails()}

	if err := validateParams(params); err != nil {
		return details, err
	}

	market := params.Market
	inputs := params.Inputs

	var (
		best   *decimal.Decimal
		levels []OrderbookLevel
	)
	if params.Direction == DirectionBuy {
		best, levels = market.BestAsk, params.Orderbook.Asks
	} else {
		best, levels = market.BestBid, params.Orderbook.Bids
	}

	if best == nil || !best.IsPositive() {
		return details, nil
	}

	bestPrice, err := FromScaledDecimal(*best, market.PriceScalingFactor)
	if err != nil {
		return details, err
	}

	p := pathParams{
		slippage:        inputs.Slippage,
		bestPrice:       bestPrice,
		levels:          levels,
		xScale:          market.TokenXScalingFactor,
		yScale:          market.TokenYScalingFactor,
		priceScale:      market.PriceScalingFactor,
		feeRate:         market.FeeRate(),
		useAutoSlippage: inputs.UseAutoSlippage,
	}
	if params.InputToken == InputBase {
		p.amount = inputs.TokenXInput
	} else {
		p.amount = inputs.TokenYInput
	}

	switch {
	case params.Direction == DirectionBuy && params.InputToken == InputBase:
		details.Buy = buyWithBaseInput(p)
	case params.Direction == DirectionBuy:
		details.Buy = buyWithQuoteInput(p)
	case params.InputToken == InputBase:
		details.Sell = sellWithBaseInput(p)
	default:
		details.Sell = sellWithQuoteInput(p)
	}

	return details, nil
}

// effectiveSlippage возвращает допуск для расчета худшей цены и значение автопроскальзывания
func effectiveSlippage(p pathParams, estSlippage decimal.Decimal) (slippage, auto decimal.Decimal) {
	if !p.useAutoSlippage {
		return p.slippage, decimal.Zero
	}
	auto = AutoSlippage(estSlippage)
	return auto, auto
}

// buyWithBaseInput: пользователь задает, сколько базового токена получить
func buyWithBaseInput(p pathParams) BuyDetails {
	tokenXReceive := Round(p.amount, p.xScale, RoundFloor)

	est := WalkByBaseQuantity(p.levels, tokenXReceive, p.bestPrice)
	slippage, auto := effectiveSlippage(p, est.SlippagePct)

	worstPrice := BuyWorstPrice(p.bestPrice, slippage, p.priceScale)
	payWithoutFee := Round(tokenXReceive.Mul(worstPrice), p.yScale, RoundCeil)
	tokenYPay, fee := WithFee(payWithoutFee, p.feeRate, p.feeDecimalPlaces(), p.yScale)
	estTokenYPay, estFee := WithFee(est.MatchedQuote, p.feeRate, p.feeDecimalPlaces(), p.yScale)

	return BuyDetails{
		Fee:           fee,
		EstFee:        estFee,
		WorstPrice:    worstPrice,
		EstPrice:      Round(est.AvgPrice, p.priceScale, RoundCeil),
		EstWorstPrice: Round(est.WorstPrice, p.priceScale, RoundCeil),
		EstSlippage:   est.SlippagePct,
		AutoSlippage:  auto,

		TokenXReceive:    tokenXReceive,
		EstTokenXReceive: Round(est.MatchedBase, p.xScale, RoundFloor),
		TokenYPay:        tokenYPay,
		EstTokenYPay:     estTokenYPay,
	}
}

// buyWithQuoteInput: пользователь задает, сколько котируемого токена потратить (с комиссией)
func buyWithQuoteInput(p pathParams) BuyDetails {
	tokenYPay := Round(p.amount, p.yScale, RoundFloor)
	payWithoutFee, fee := WithoutFee(tokenYPay, p.feeRate, p.feeDecimalPlaces(), p.yScale)

	est := WalkByQuoteBudget(p.levels, payWithoutFee, p.bestPrice)
	slippage, auto := effectiveSlippage(p, est.SlippagePct)

	worstPrice := BuyWorstPrice(p.bestPrice, slippage, p.priceScale)
	tokenXReceive := DivRound(payWithoutFee, worstPrice, p.xScale, RoundFloor)

	return BuyDetails{
		Fee:           fee,
		EstFee:        fee,
		WorstPrice:    worstPrice,
		EstPrice:      Round(est.AvgPrice, p.priceScale, RoundCeil),
		EstWorstPrice: Round(est.WorstPrice, p.priceScale, RoundCeil),
		EstSlippage:   est.SlippagePct,
		AutoSlippage:  auto,

		TokenXReceive:    tokenXReceive,
		EstTokenXReceive: Round(est.MatchedBase, p.xScale, RoundFloor),
		TokenYPay:        tokenYPay,
		EstTokenYPay:     tokenYPay,
	}
}

// sellWithBaseInput: пользователь задает, сколько базового токена продать
func sellWithBaseInput(p pathParams) SellDetails {
	tokenXPay := Round(p.amount, p.xScale, RoundFloor)

	est := WalkByBaseQuantity(p.levels, tokenXPay, p.bestPrice)
	slippage, auto := effectiveSlippage(p, est.SlippagePct)

	worstPrice := SellWorstPrice(p.bestPrice, slippage, p.priceScale)
	receiveWithFee := Round(tokenXPay.Mul(worstPrice), p.yScale, RoundFloor)
	tokenYReceive, fee := WithoutFee(receiveWithFee, p.feeRate, p.feeDecimalPlaces(), p.yScale)
	estTokenYReceive, estFee := WithoutFee(est.MatchedQuote, p.feeRate, p.feeDecimalPlaces(), p.yScale)

	return SellDetails{
		Fee:           fee,
		EstFee:        estFee,
		WorstPrice:    worstPrice,
		EstPrice:      Round(est.AvgPrice, p.priceScale, RoundFloor),
		EstWorstPrice: Round(est.WorstPrice, p.priceScale, RoundFloor),
		EstSlippage:   est.SlippagePct,
		AutoSlippage:  auto,

		TokenXPay:        tokenXPay,
		EstTokenXPay:     Round(est.MatchedBase, p.xScale, RoundFloor),
		TokenYReceive:    tokenYReceive,
		EstTokenYReceive: estTokenYReceive,
	}
}

// sellWithQuoteInput: пользователь задает, сколько котируемого токена получить
func sellWithQuoteInput(p pathParams) SellDetails {
	tokenYInput := Round(p.amount, p.yScale, RoundFloor)
	tokenYReceive, fee := WithoutFee(tokenYInput, p.feeRate, p.feeDecimalPlaces(), p.yScale)

	est := WalkByQuoteBudget(p.levels, tokenYReceive, p.bestPrice)
	slippage, auto := effectiveSlippage(p, est.SlippagePct)

	worstPrice := SellWorstPrice(p.bestPrice, slippage, p.priceScale)
	// DivRound возвращает ноль, если худшая цена округлилась до нуля
	tokenXPay := DivRound(tokenYReceive, worstPrice, p.xScale, RoundCeil)

	return SellDetails{
		Fee:           fee,
		EstFee:        fee,
		WorstPrice:    worstPrice,
		EstPrice:      Round(est.AvgPrice, p.priceScale, RoundFloor),
		EstWorstPrice: Round(est.WorstPrice, p.priceScale, RoundFloor),
		EstSlippage:   est.SlippagePct,
		AutoSlippage:  auto,

		TokenXPay:        tokenXPay,
		EstTokenXPay:     Round(est.MatchedBase, p.xScale, RoundFloor),
		TokenYReceive:    tokenYReceive,
		EstTokenYReceive: tokenYReceive,
	}
}

func validateParams(params MarketDetailsParams) error {
	switch params.Direction {
	case DirectionBuy, DirectionSell:
	default:
		return invalidInput("direction", string(params.Direction), "must be buy or sell")
	}
	switch params.InputToken {
	case InputBase, InputQuote:
	default:
		return invalidInput("input_token", string(params.InputToken), "must be base or quote")
	}

	if err := validateMarket(params.Market); err != nil {
		return err
	}

	inputs := params.Inputs
	if inputs.TokenXInput.IsNegative() {
		return invalidAmount("token_x_input", inputs.TokenXInput.String(), "must not be negative")
	}
	if inputs.TokenYInput.IsNegative() {
		return invalidAmount("token_y_input", inputs.TokenYInput.String(), "must not be negative")
	}
	if inputs.Slippage.IsNegative() {
		return invalidInput("slippage", inputs.Slippage.String(), "must not be negative")
	}
	if params.Direction == DirectionSell && inputs.Slippage.GreaterThanOrEqual(hundred) {
		return invalidInput("slippage", inputs.Slippage.String(), "sell slippage must be below 100%")
	}

	side := params.Orderbook.Asks
	if params.Direction == DirectionSell {
		side = params.Orderbook.Bids
	}
	return validateLevels(side)
}

func validateMarket(m Market) error {
	scales := []struct {
		name  string
		value int32
	}{
		{"token_x_scaling_factor", m.TokenXScalingFactor},
		{"token_y_scaling_factor", m.TokenYScalingFactor},
		{"price_scaling_factor", m.PriceScalingFactor},
		{"base_token.scaling_factor", m.BaseToken.ScalingFactor},
		{"quote_token.scaling_factor", m.QuoteToken.ScalingFactor},
	}
	for _, s := range scales {
		if s.value < 0 {
			return invalidInput(s.name, strconv.Itoa(int(s.value)), "must not be negative")
		}
	}

	// Decimals == 0 значит, что метаданных токена нет и сверять не с чем
	bounds := []struct {
		name     string
		value    int32
		decimals int32
	}{
		{"token_x_scaling_factor", m.TokenXScalingFactor, m.BaseToken.Decimals},
		{"token_y_scaling_factor", m.TokenYScalingFactor, m.QuoteToken.Decimals},
		{"base_token.scaling_factor", m.BaseToken.ScalingFactor, m.BaseToken.Decimals},
		{"quote_token.scaling_factor", m.QuoteToken.ScalingFactor, m.QuoteToken.Decimals},
	}
	for _, b := range bounds {
		if b.decimals > 0 && b.value > b.decimals {
			return invalidInput(b.name, strconv.Itoa(int(b.value)),
				"must not exceed decimals "+strconv.Itoa(int(b.decimals)))
		}
	}

	if m.AggressiveFeeRate.IsNegative() {
		return invalidInput("aggressive_fee_rate", m.AggressiveFeeRate.String(), "must not be negative")
	}
	if m.PassiveOrderPayoutRate.IsNegative() {
		return invalidInput("passive_order_payout_rate", m.PassiveOrderPayoutRate.String(), "must not be negative")
	}
	if m.BestAsk != nil && m.BestAsk.IsNegative() {
		return invalidInput("best_ask", m.BestAsk.String(), "must not be negative")
	}
	if m.BestBid != nil && m.BestBid.IsNegative() {
		return invalidInput("best_bid", m.BestBid.String(), "must not be negative")
	}
	return nil
}

func validateLevels(levels []OrderbookLevel) error {
	for i, level := range levels {
		if !level.Price.IsPositive() {
			return invalidInput("levels["+strconv.Itoa(i)+"].price", level.Price.String(), "must be positive")
		}
		if level.Size.IsNegative() {
			return invalidInput("levels["+strconv.Itoa(i)+"].size", level.Size.String(), "must not be negative")
		}
	}
	return nil
}
