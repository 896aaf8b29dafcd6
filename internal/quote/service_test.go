package quote

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/hanji-sdk/internal/logger"
	"github.com/rovshanmuradov/hanji-sdk/internal/metrics"
	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
	batches  []int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{outcomes: make(map[string]int)}
}

func (r *fakeRecorder) RecordQuote(_, _, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}

func (r *fakeRecorder) ObserveSlippage(string, float64) {}

func (r *fakeRecorder) ObserveBatch(size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, size)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func raw(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testMarket() spot.Market {
	return spot.Market{
		ID:                     "eth-usdc",
		BaseToken:              spot.Token{Symbol: "ETH", ScalingFactor: 2, Decimals: 18},
		QuoteToken:             spot.Token{Symbol: "USDC", ScalingFactor: 5, Decimals: 6},
		TokenXScalingFactor:    2,
		TokenYScalingFactor:    5,
		PriceScalingFactor:     3,
		BestAsk:                raw("1000"),
		BestBid:                raw("990"),
		AggressiveFeeRate:      dec("0.0003"),
		PassiveOrderPayoutRate: dec("0.00005"),
	}
}

func buyParams(amount string) spot.MarketDetailsParams {
	return spot.MarketDetailsParams{
		Market: testMarket(),
		Orderbook: spot.Orderbook{
			Asks: []spot.OrderbookLevel{
				{Price: dec("1.000"), Size: dec("5")},
				{Price: dec("1.010"), Size: dec("5")},
			},
			Bids: []spot.OrderbookLevel{
				{Price: dec("0.990"), Size: dec("5")},
				{Price: dec("0.980"), Size: dec("5")},
			},
		},
		InputToken: spot.InputBase,
		Direction:  spot.DirectionBuy,
		Inputs: spot.TradeInputs{
			TokenXInput: dec(amount),
			Slippage:    dec("1"),
		},
	}
}

func TestEstimate(t *testing.T) {
	rec := newFakeRecorder()
	svc := NewService(logger.Wrap(zaptest.NewLogger(t)), rec, 2)

	q, err := svc.Estimate(context.Background(), buyParams("8"))
	require.NoError(t, err)

	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "eth-usdc", q.MarketID)
	assert.True(t, q.Quoted())
	assert.Equal(t, "8.08283", q.Details.Buy.TokenYPay.String())

	require.NotNil(t, q.Plan)
	assert.Equal(t, spot.SideBid, q.Plan.Side)
	assert.Equal(t, "1.01", q.Plan.Price.String())
	assert.Equal(t, "8", q.Plan.Size.String())

	assert.Equal(t, "1", q.EstSlippage().String())
	assert.Equal(t, SeverityLow, q.Severity)
	assert.Equal(t, "Low price impact", q.Warning)

	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeQuoted])
}

func TestEstimateNoLiquidity(t *testing.T) {
	rec := newFakeRecorder()
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(logger.Wrap(zap.New(core)), rec, 1)

	params := buyParams("8")
	params.Market.BestAsk = nil

	q, err := svc.Estimate(context.Background(), params)
	require.NoError(t, err)

	assert.False(t, q.Quoted())
	assert.True(t, q.Details.Buy.IsZero())
	assert.Equal(t, SeverityNone, q.Severity)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeNoLiquidity])
	assert.Equal(t, 1, logs.FilterMessage("No liquidity").Len())
}

func TestEstimateInvalidInput(t *testing.T) {
	rec := newFakeRecorder()
	svc := NewService(logger.Wrap(zaptest.NewLogger(t)), rec, 1)

	params := buyParams("8")
	params.Inputs.TokenXInput = dec("-1")

	q, err := svc.Estimate(context.Background(), params)
	require.Error(t, err)
	assert.Nil(t, q)
	assert.ErrorIs(t, err, spot.ErrInvalidAmount)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeInvalid])
}

func TestEstimateCanceled(t *testing.T) {
	rec := newFakeRecorder()
	svc := NewService(nil, rec, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Estimate(ctx, buyParams("8"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeCanceled])
}

func TestEstimateHighImpactWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(logger.Wrap(zap.New(core)), nil, 1)

	params := buyParams("5")
	params.Orderbook.Asks = []spot.OrderbookLevel{
		{Price: dec("1.000"), Size: dec("1")},
		{Price: dec("1.100"), Size: dec("10")},
	}

	q, err := svc.Estimate(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, SeverityExtreme, q.Severity)
	assert.Equal(t, 1, logs.FilterMessage("High price impact").Len())
}

func TestEstimateBatchKeepsOrder(t *testing.T) {
	rec := newFakeRecorder()
	svc := NewService(logger.Wrap(zaptest.NewLogger(t)), rec, 2)

	amounts := []string{"1", "2", "3", "4", "5", "6"}
	params := make([]spot.MarketDetailsParams, 0, len(amounts))
	for _, a := range amounts {
		params = append(params, buyParams(a))
	}

	quotes, err := svc.EstimateBatch(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, quotes, len(amounts))

	for i, q := range quotes {
		assert.Equal(t, amounts[i], q.Details.Buy.TokenXReceive.String())
	}
	assert.Equal(t, []int{len(amounts)}, rec.batches)
	assert.Equal(t, len(amounts), rec.outcomes[metrics.OutcomeQuoted])
}

func TestEstimateBatchLogsCorrelationID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(logger.Wrap(zap.New(core)), nil, 2)

	_, err := svc.EstimateBatch(context.Background(), []spot.MarketDetailsParams{buyParams("1"), buyParams("2")})
	require.NoError(t, err)

	completed := logs.FilterMessage("Batch completed").All()
	require.Len(t, completed, 1)

	fields := completed[0].ContextMap()
	assert.Equal(t, "estimate_batch", fields["operation"])
	assert.NotEmpty(t, fields["correlation_id"])
	assert.Equal(t, int64(2), fields["count"])
	assert.Equal(t, "quote", completed[0].LoggerName)
}

func TestEstimateBatchFailsOnInvalidIntent(t *testing.T) {
	svc := NewService(logger.Wrap(zaptest.NewLogger(t)), nil, 4)

	bad := buyParams("1")
	bad.Inputs.Slippage = dec("-1")

	quotes, err := svc.EstimateBatch(context.Background(), []spot.MarketDetailsParams{buyParams("1"), bad, buyParams("2")})
	require.Error(t, err)
	assert.Nil(t, quotes)
	assert.ErrorIs(t, err, spot.ErrInvalidInput)
	assert.Contains(t, err.Error(), "intent 1")
}

func TestEstimateBatchEmpty(t *testing.T) {
	svc := NewService(nil, nil, 0)

	quotes, err := svc.EstimateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestQuoteAccessorsOnNil(t *testing.T) {
	var q *Quote
	assert.False(t, q.Quoted())
	assert.True(t, q.EstSlippage().IsZero())
	assert.True(t, q.WorstPrice().IsZero())
}
