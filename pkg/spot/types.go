// pkg/spot/types.go
package spot

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction определяет направление рыночного ордера
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// InputToken определяет, в каком токене пары пользователь указал сумму
type InputToken string

const (
	InputBase  InputToken = "base"
	InputQuote InputToken = "quote"
)

// Token описывает токен рынка.
// ScalingFactor - количество десятичных знаков, отбрасываемых при переходе
// к "рыночным" единицам; всегда ScalingFactor <= Decimals.
type Token struct {
	Symbol        string `json:"symbol"`
	ScalingFactor int32  `json:"scaling_factor"`
	Decimals      int32  `json:"decimals"`
}

// Market - неизменяемый снимок рынка на момент расчета.
// BestAsk и BestBid хранятся в сырых единицах контракта (цена * 10^PriceScalingFactor),
// nil означает отсутствие ликвидности на стороне.
type Market struct {
	ID                     string           `json:"id"`
	BaseToken              Token            `json:"base_token"`
	QuoteToken             Token            `json:"quote_token"`
	TokenXScalingFactor    int32            `json:"token_x_scaling_factor"`
	TokenYScalingFactor    int32            `json:"token_y_scaling_factor"`
	PriceScalingFactor     int32            `json:"price_scaling_factor"`
	BestAsk                *decimal.Decimal `json:"best_ask"`
	BestBid                *decimal.Decimal `json:"best_bid"`
	AggressiveFeeRate      decimal.Decimal  `json:"aggressive_fee_rate"`
	PassiveOrderPayoutRate decimal.Decimal  `json:"passive_order_payout_rate"`
}

// FeeRate возвращает суммарную ставку комиссии тейкера
func (m Market) FeeRate() decimal.Decimal {
	return m.AggressiveFeeRate.Add(m.PassiveOrderPayoutRate)
}

// OrderbookLevel - ценовой уровень книги в человекочитаемых единицах
type OrderbookLevel struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// Orderbook - снимок книги ордеров.
// Asks отсортированы по возрастанию цены, Bids - по убыванию; сортировку гарантирует вызывающий.
type Orderbook struct {
	Timestamp time.Time        `json:"timestamp"`
	Asks      []OrderbookLevel `json:"asks"`
	Bids      []OrderbookLevel `json:"bids"`
}

// TradeInputs содержит пользовательские параметры сделки.
// Slippage задается в процентах (1.0 = 1%).
type TradeInputs struct {
	TokenXInput     decimal.Decimal `json:"token_x_input"`
	TokenYInput     decimal.Decimal `json:"token_y_input"`
	Slippage        decimal.Decimal `json:"slippage"`
	UseAutoSlippage bool            `json:"use_auto_slippage"`
}

// MarketDetailsParams - полный набор входных данных для GetMarketDetails
type MarketDetailsParams struct {
	Market     Market      `json:"market"`
	Orderbook  Orderbook   `json:"orderbook"`
	InputToken InputToken  `json:"input_token"`
	Direction  Direction   `json:"direction"`
	Inputs     TradeInputs `json:"inputs"`
}

// BuyDetails - результат расчета покупки.
// Поля без префикса Est посчитаны по худшей допустимой цене, поля Est* - по живой книге.
type BuyDetails struct {
	Fee           decimal.Decimal `json:"fee"`
	EstFee        decimal.Decimal `json:"est_fee"`
	WorstPrice    decimal.Decimal `json:"worst_price"`
	EstPrice      decimal.Decimal `json:"est_price"`
	EstWorstPrice decimal.Decimal `json:"est_worst_price"`
	EstSlippage   decimal.Decimal `json:"est_slippage"`
	AutoSlippage  decimal.Decimal `json:"auto_slippage"`

	TokenXReceive    decimal.Decimal `json:"token_x_receive"`
	EstTokenXReceive decimal.Decimal `json:"est_token_x_receive"`
	TokenYPay        decimal.Decimal `json:"token_y_pay"`
	EstTokenYPay     decimal.Decimal `json:"est_token_y_pay"`
}

// SellDetails - результат расчета продажи
type SellDetails struct {
	Fee           decimal.Decimal `json:"fee"`
	EstFee        decimal.Decimal `json:"est_fee"`
	WorstPrice    decimal.Decimal `json:"worst_price"`
	EstPrice      decimal.Decimal `json:"est_price"`
	EstWorstPrice decimal.Decimal `json:"est_worst_price"`
	EstSlippage   decimal.Decimal `json:"est_slippage"`
	AutoSlippage  decimal.Decimal `json:"auto_slippage"`

	TokenXPay        decimal.Decimal `json:"token_x_pay"`
	EstTokenXPay     decimal.Decimal `json:"est_token_x_pay"`
	TokenYReceive    decimal.Decimal `json:"token_y_receive"`
	EstTokenYReceive decimal.Decimal `json:"est_token_y_receive"`
}

// MarketOrderDetails объединяет записи для обеих сторон; заполняется только запрошенная
type MarketOrderDetails struct {
	Buy  BuyDetails  `json:"buy"`
	Sell SellDetails `json:"sell"`
}

// DefaultBuyDetails возвращает нулевую запись покупки ("котировка невозможна")
func DefaultBuyDetails() BuyDetails {
	return BuyDetails{
		Fee:              decimal.Zero,
		EstFee:           decimal.Zero,
		WorstPrice:       decimal.Zero,
		EstPrice:         decimal.Zero,
		EstWorstPrice:    decimal.Zero,
		EstSlippage:      decimal.Zero,
		AutoSlippage:     decimal.Zero,
		TokenXReceive:    decimal.Zero,
		EstTokenXReceive: decimal.Zero,
		TokenYPay:        decimal.Zero,
		EstTokenYPay:     decimal.Zero,
	}
}

// DefaultSellDetails возвращает нулевую запись продажи
func DefaultSellDetails() SellDetails {
	return SellDetails{
		Fee:              decimal.Zero,
		EstFee:           decimal.Zero,
		WorstPrice:       decimal.Zero,
		EstPrice:         decimal.Zero,
		EstWorstPrice:    decimal.Zero,
		EstSlippage:      decimal.Zero,
		AutoSlippage:     decimal.Zero,
		TokenXPay:        decimal.Zero,
		EstTokenXPay:     decimal.Zero,
		TokenYReceive:    decimal.Zero,
		EstTokenYReceive: decimal.Zero,
	}
}

// IsZero сообщает, что запись не содержит котировки
func (d BuyDetails) IsZero() bool {
	return d.WorstPrice.IsZero() && d.TokenXReceive.IsZero() && d.TokenYPay.IsZero() &&
		d.EstTokenXReceive.IsZero() && d.EstTokenYPay.IsZero()
}

// IsZero сообщает, что запись не содержит котировки
func (d SellDetails) IsZero() bool {
	return d.WorstPrice.IsZero() && d.TokenXPay.IsZero() && d.TokenYReceive.IsZero() &&
		d.EstTokenXPay.IsZero() && d.EstTokenYReceive.IsZero()
}
