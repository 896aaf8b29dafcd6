// pkg/spot/walker.go
package spot

import "github.com/shopspring/decimal"

// WalkResult - итог жадного прохода по одной стороне книги
type WalkResult struct {
	MatchedBase  decimal.Decimal `json:"matched_base"`
	MatchedQuote decimal.Decimal `json:"matched_quote"`
	WorstPrice   decimal.Decimal `json:"worst_price"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	SlippagePct  decimal.Decimal `json:"slippage_pct"`
}

func zeroWalkResult() WalkResult {
	return WalkResult{
		MatchedBase:  decimal.Zero,
		MatchedQuote: decimal.Zero,
		WorstPrice:   decimal.Zero,
		AvgPrice:     decimal.Zero,
		SlippagePct:  decimal.Zero,
	}
}

// WalkByBaseQuantity набирает targetBaseQty базового токена с уровней в порядке их следования.
// Частичное исполнение ошибкой не считается: возвращается то, что удалось набрать.
func WalkByBaseQuantity(levels []OrderbookLevel, targetBaseQty, referencePrice decimal.Decimal) WalkResult {
	if !targetBaseQty.IsPositive() || len(levels) == 0 {
		return zeroWalkResult()
	}

	matchedBase := decimal.Zero
	matchedQuote := decimal.Zero
	worstPrice := decimal.Zero
	firstPrice := levels[0].Price
	remaining := targetBaseQty

	for _, level := range levels {
		take := decimal.Min(remaining, level.Size)
		matchedQuote = matchedQuote.Add(take.Mul(level.Price))
		matchedBase = matchedBase.Add(take)
		remaining = remaining.Sub(take)
		worstPrice = level.Price

		if !remaining.IsPositive() {
			break
		}
	}

	return finishWalk(matchedBase, matchedQuote, firstPrice, worstPrice, referencePrice)
}

// WalkByQuoteBudget тратит бюджет котируемого токена targetQuoteBudget, проходя уровни по порядку
func WalkByQuoteBudget(levels []OrderbookLevel, targetQuoteBudget, referencePrice decimal.Decimal) WalkResult {
	if !targetQuoteBudget.IsPositive() || len(levels) == 0 {
		return zeroWalkResult()
	}

	matchedBase := decimal.Zero
	matchedQuote := decimal.Zero
	worstPrice := decimal.Zero
	firstPrice := levels[0].Price
	remaining := targetQuoteBudget

	for _, level := range levels {
		levelCost := level.Size.Mul(level.Price)
		take := decimal.Min(remaining, levelCost)
		// база округляется вниз, чтобы не превысить объем уровня
		matchedBase = matchedBase.Add(DivRound(take, level.Price, divisionPrecision, RoundFloor))
		matchedQuote = matchedQuote.Add(take)
		remaining = remaining.Sub(take)
		worstPrice = level.Price

		if !remaining.IsPositive() {
			break
		}
	}

	return finishWalk(matchedBase, matchedQuote, firstPrice, worstPrice, referencePrice)
}

func finishWalk(matchedBase, matchedQuote, firstPrice, worstPrice, referencePrice decimal.Decimal) WalkResult {
	if matchedBase.IsZero() {
		return zeroWalkResult()
	}

	// средняя цена обязана лежать между первым и последним затронутым уровнем;
	// усечение базы при делении в WalkByQuoteBudget может вынести ее за границу
	// в последнем знаке точности
	lo := decimal.Min(firstPrice, worstPrice)
	hi := decimal.Max(firstPrice, worstPrice)
	avgPrice := decimal.Max(lo, decimal.Min(hi, safeDiv(matchedQuote, matchedBase)))

	return WalkResult{
		MatchedBase:  matchedBase,
		MatchedQuote: matchedQuote,
		WorstPrice:   worstPrice,
		AvgPrice:     avgPrice,
		SlippagePct:  SlippagePct(worstPrice, referencePrice),
	}
}
