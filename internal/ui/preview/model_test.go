package preview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/hanji-sdk/internal/logger"
	"github.com/rovshanmuradov/hanji-sdk/internal/quote"
	"github.com/rovshanmuradov/hanji-sdk/internal/snapshot"
	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testSnapshot() *snapshot.Snapshot {
	ask, bid := dec("1000"), dec("990")
	return &snapshot.Snapshot{
		Market: spot.Market{
			ID:                     "eth-usdc",
			BaseToken:              spot.Token{Symbol: "ETH", ScalingFactor: 2, Decimals: 18},
			QuoteToken:             spot.Token{Symbol: "USDC", ScalingFactor: 5, Decimals: 6},
			TokenXScalingFactor:    2,
			TokenYScalingFactor:    5,
			PriceScalingFactor:     3,
			BestAsk:                &ask,
			BestBid:                &bid,
			AggressiveFeeRate:      dec("0.0003"),
			PassiveOrderPayoutRate: dec("0.00005"),
		},
		Orderbook: spot.Orderbook{
			Asks: []spot.OrderbookLevel{{Price: dec("1.000"), Size: dec("5")}, {Price: dec("1.010"), Size: dec("5")}},
			Bids: []spot.OrderbookLevel{{Price: dec("0.990"), Size: dec("5")}, {Price: dec("0.980"), Size: dec("5")}},
		},
	}
}

func newTestModel(t *testing.T, amount string) Model {
	svc := quote.NewService(logger.Wrap(zaptest.NewLogger(t)), nil, 1)
	return New(testSnapshot(), svc, nil, Options{Amount: amount, Slippage: dec("1")})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialQuote(t *testing.T) {
	m := newTestModel(t, "8")

	require.NotNil(t, m.Quote())
	assert.NoError(t, m.Err())
	assert.Equal(t, "8.08283", m.Quote().Details.Buy.TokenYPay.String())
	assert.Contains(t, m.View(), "8.08283")
}

func TestTypingRecomputes(t *testing.T) {
	m := newTestModel(t, "")
	assert.Nil(t, m.Quote())
	assert.Contains(t, m.View(), "enter an amount")

	m = update(t, m, runes("8"))
	require.NotNil(t, m.Quote())
	assert.Equal(t, "8", m.Quote().Details.Buy.TokenXReceive.String())
}

func TestToggleDirection(t *testing.T) {
	m := newTestModel(t, "8")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, m.Quote())
	assert.Equal(t, spot.DirectionSell, m.Quote().Direction)
	assert.Equal(t, "7.83725", m.Quote().Details.Sell.TokenYReceive.String())
	assert.True(t, m.Quote().Details.Buy.IsZero())
}

func TestToggleInputToken(t *testing.T) {
	m := newTestModel(t, "5.00175")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.NotNil(t, m.Quote())
	assert.Equal(t, spot.InputQuote, m.Quote().InputToken)
	assert.Equal(t, "4.95", m.Quote().Details.Buy.TokenXReceive.String())
}

func TestToggleAutoSlippage(t *testing.T) {
	m := newTestModel(t, "8")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.NotNil(t, m.Quote())
	assert.Equal(t, "1.1", m.Quote().Details.Buy.AutoSlippage.String())
}

func TestInvalidSlippageShowsError(t *testing.T) {
	m := newTestModel(t, "8")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldSlippage, m.focus)

	m = update(t, m, runes("x"))
	require.Error(t, m.Err())
	assert.ErrorIs(t, m.Err(), spot.ErrInvalidInput)
	assert.Nil(t, m.Quote())
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, "8")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestViewWithoutSnapshot(t *testing.T) {
	m := New(nil, nil, nil, Options{})
	assert.Contains(t, m.View(), "no snapshot loaded")
}
