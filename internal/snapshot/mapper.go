// internal/snapshot/mapper.go
package snapshot

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

// ScalingFactors - коэффициенты для перевода сырых значений книги
type ScalingFactors struct {
	BaseToken  int32
	QuoteToken int32
	Price      int32
}

// MarketScalingFactors берет коэффициенты контракта рынка, а не метаданные токенов,
// чтобы уровни книги и bestAsk/bestBid были в одних единицах
func MarketScalingFactors(m spot.Market) ScalingFactors {
	return ScalingFactors{
		BaseToken:  m.TokenXScalingFactor,
		QuoteToken: m.TokenYScalingFactor,
		Price:      m.PriceScalingFactor,
	}
}

// MapToken переводит TokenDTO в spot.Token
func MapToken(dto TokenDTO) spot.Token {
	return spot.Token{
		Symbol:        dto.Symbol,
		ScalingFactor: dto.ScalingFactor,
		Decimals:      dto.Decimals,
	}
}

// MapMarket переводит MarketDTO в spot.Market. Пустые bestAsk/bestBid
// означают отсутствие ликвидности на стороне.
func MapMarket(dto MarketDTO) (spot.Market, error) {
	m := spot.Market{
		ID:                  dto.ID,
		BaseToken:           MapToken(dto.BaseToken),
		QuoteToken:          MapToken(dto.QuoteToken),
		TokenXScalingFactor: dto.TokenXScalingFactor,
		TokenYScalingFactor: dto.TokenYScalingFactor,
		PriceScalingFactor:  dto.TokenYScalingFactor - dto.TokenXScalingFactor,
	}
	if dto.PriceScalingFactor != nil {
		m.PriceScalingFactor = *dto.PriceScalingFactor
	}

	var err error
	if m.BestAsk, err = parseOptionalRaw("bestAsk", dto.BestAsk); err != nil {
		return spot.Market{}, err
	}
	if m.BestBid, err = parseOptionalRaw("bestBid", dto.BestBid); err != nil {
		return spot.Market{}, err
	}
	if m.AggressiveFeeRate, err = parseRate("aggressiveFee", dto.AggressiveFee); err != nil {
		return spot.Market{}, err
	}
	if m.PassiveOrderPayoutRate, err = parseRate("passiveOrderPayout", dto.PassiveOrderPayout); err != nil {
		return spot.Market{}, err
	}

	return m, nil
}

// MapOrderbook переводит сырые уровни книги в человекочитаемые единицы
// и проверяет сортировку: asks по возрастанию, bids по убыванию.
func MapOrderbook(dto OrderbookDTO, sf ScalingFactors) (spot.Orderbook, error) {
	if sf.Price < 0 {
		return spot.Orderbook{}, fmt.Errorf("%w: negative price scaling factor %d", spot.ErrInvalidInput, sf.Price)
	}

	asks, err := mapLevels("asks", dto.Levels.Asks, sf)
	if err != nil {
		return spot.Orderbook{}, err
	}
	bids, err := mapLevels("bids", dto.Levels.Bids, sf)
	if err != nil {
		return spot.Orderbook{}, err
	}

	if err := checkSorted("asks", asks, func(prev, cur decimal.Decimal) bool { return prev.LessThanOrEqual(cur) }); err != nil {
		return spot.Orderbook{}, err
	}
	if err := checkSorted("bids", bids, func(prev, cur decimal.Decimal) bool { return prev.GreaterThanOrEqual(cur) }); err != nil {
		return spot.Orderbook{}, err
	}

	return spot.Orderbook{
		Timestamp: time.UnixMilli(dto.Timestamp).UTC(),
		Asks:      asks,
		Bids:      bids,
	}, nil
}

// Map собирает рынок и книгу из файла снимка
func Map(f File) (spot.Market, spot.Orderbook, error) {
	market, err := MapMarket(f.Market)
	if err != nil {
		return spot.Market{}, spot.Orderbook{}, fmt.Errorf("market %s: %w", f.Market.ID, err)
	}
	book, err := MapOrderbook(f.Orderbook, MarketScalingFactors(market))
	if err != nil {
		return spot.Market{}, spot.Orderbook{}, fmt.Errorf("orderbook %s: %w", f.Market.ID, err)
	}
	return market, book, nil
}

func mapLevels(side string, dtos []OrderbookLevelDTO, sf ScalingFactors) ([]spot.OrderbookLevel, error) {
	levels := make([]spot.OrderbookLevel, 0, len(dtos))
	for i, dto := range dtos {
		rawPrice, err := parseRaw(fmt.Sprintf("%s[%d].price", side, i), dto.Price)
		if err != nil {
			return nil, err
		}
		rawSize, err := parseRaw(fmt.Sprintf("%s[%d].size", side, i), dto.Size)
		if err != nil {
			return nil, err
		}

		price, err := spot.FromScaled(rawPrice, sf.Price)
		if err != nil {
			return nil, err
		}
		size, err := spot.FromScaled(rawSize, sf.BaseToken)
		if err != nil {
			return nil, err
		}

		levels = append(levels, spot.OrderbookLevel{Price: price, Size: size})
	}
	return levels, nil
}

func checkSorted(side string, levels []spot.OrderbookLevel, ordered func(prev, cur decimal.Decimal) bool) error {
	for i := 1; i < len(levels); i++ {
		if !ordered(levels[i-1].Price, levels[i].Price) {
			return &spot.InputError{
				Field:  fmt.Sprintf("%s[%d].price", side, i),
				Value:  levels[i].Price.String(),
				Reason: "levels are not sorted",
				Err:    spot.ErrInvalidInput,
			}
		}
	}
	return nil
}

func parseRaw(field, s string) (*big.Int, error) {
	raw, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &spot.InputError{Field: field, Value: s, Reason: "not an integer", Err: spot.ErrInvalidAmount}
	}
	if raw.Sign() < 0 {
		return nil, &spot.InputError{Field: field, Value: s, Reason: "must not be negative", Err: spot.ErrInvalidAmount}
	}
	return raw, nil
}

func parseOptionalRaw(field, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := parseRaw(field, s)
	if err != nil {
		return nil, err
	}
	d := decimal.NewFromBigInt(raw, 0)
	return &d, nil
}

func parseRate(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &spot.InputError{Field: field, Value: s, Reason: err.Error(), Err: spot.ErrInvalidInput}
	}
	if d.IsNegative() {
		return decimal.Zero, &spot.InputError{Field: field, Value: s, Reason: "must not be negative", Err: spot.ErrInvalidInput}
	}
	return d, nil
}
