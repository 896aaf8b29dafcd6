// pkg/spot/order_plan.go
package spot

import "github.com/shopspring/decimal"

// OrderSide - сторона ордера в книге контракта
type OrderSide string

const (
	SideBid OrderSide = "bid"
	SideAsk OrderSide = "ask"
)

// OrderPlan - параметры последующего IOC-ордера, выведенные из котировки.
// Price ограничивает исполнение худшей ценой, MaxCommission - рассчитанной комиссией.
type OrderPlan struct {
	Side          OrderSide       `json:"side"`
	Price         decimal.Decimal `json:"price"`
	Size          decimal.Decimal `json:"size"`
	MaxCommission decimal.Decimal `json:"max_commission"`
}

// PlanMarketOrder строит OrderPlan для направления direction.
// Второе значение false, если котировки нет и размещать ордер нечем.
func PlanMarketOrder(details MarketOrderDetails, direction Direction) (OrderPlan, bool) {
	switch direction {
	case DirectionBuy:
		d := details.Buy
		if d.IsZero() || !d.TokenXReceive.IsPositive() {
			return OrderPlan{}, false
		}
		return OrderPlan{
			Side:          SideBid,
			Price:         d.WorstPrice,
			Size:          d.TokenXReceive,
			MaxCommission: d.Fee,
		}, true
	case DirectionSell:
		d := details.Sell
		if d.IsZero() || !d.TokenXPay.IsPositive() {
			return OrderPlan{}, false
		}
		return OrderPlan{
			Side:          SideAsk,
			Price:         d.WorstPrice,
			Size:          d.TokenXPay,
			MaxCommission: d.Fee,
		}, true
	default:
		return OrderPlan{}, false
	}
}
