// internal/snapshot/dto.go
package snapshot

// Формы данных REST API рынка. Все суммы и цены передаются как
// строки с целыми числами в единицах контракта.

type TokenDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	ContractAddress  string `json:"contractAddress"`
	ScalingFactor    int32  `json:"scalingFactor"`
	Decimals         int32  `json:"decimals"`
	RoundingDecimals int32  `json:"roundingDecimals"`
}

type MarketDTO struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Symbol           string   `json:"symbol"`
	BaseToken        TokenDTO `json:"baseToken"`
	QuoteToken       TokenDTO `json:"quoteToken"`
	OrderbookAddress string   `json:"orderbookAddress"`
	Aggregations     []int    `json:"aggregations"`
	LastPrice        string   `json:"lastPrice"`
	LowPrice24h      string   `json:"lowPrice24h"`
	HighPrice24h     string   `json:"highPrice24h"`

	// параметры контракта
	TokenXScalingFactor int32  `json:"tokenXScalingFactor"`
	TokenYScalingFactor int32  `json:"tokenYScalingFactor"`
	PriceScalingFactor  *int32 `json:"priceScalingFactor,omitempty"`
	BestAsk             string `json:"bestAsk"`
	BestBid             string `json:"bestBid"`
	AggressiveFee       string `json:"aggressiveFee"`
	PassiveOrderPayout  string `json:"passiveOrderPayout"`
}

type OrderbookLevelDTO struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

type OrderbookLevelsDTO struct {
	Asks []OrderbookLevelDTO `json:"asks"`
	Bids []OrderbookLevelDTO `json:"bids"`
}

type OrderbookDTO struct {
	// миллисекунды unix
	Timestamp int64              `json:"timestamp"`
	Levels    OrderbookLevelsDTO `json:"levels"`
}

// File - содержимое файла снимка: рынок и его книга ордеров
type File struct {
	Market    MarketDTO    `json:"market"`
	Orderbook OrderbookDTO `json:"orderbook"`
}
