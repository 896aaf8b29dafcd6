package snapshot

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

func TestLoaderLoadsTestdata(t *testing.T) {
	loader := NewLoader(zaptest.NewLogger(t), 0, time.Millisecond)

	snap, err := loader.Load(context.Background(), "testdata/eth-usdc.json")
	require.NoError(t, err)

	assert.Equal(t, "testdata/eth-usdc.json", snap.Source)
	assert.Equal(t, "ETH", snap.Market.BaseToken.Symbol)
	assert.Len(t, snap.Orderbook.Asks, 2)
	assert.Len(t, snap.Orderbook.Bids, 2)

	// снимок сразу пригоден для расчета
	details, err := spot.GetMarketDetails(spot.MarketDetailsParams{
		Market:     snap.Market,
		Orderbook:  snap.Orderbook,
		InputToken: spot.InputBase,
		Direction:  spot.DirectionBuy,
		Inputs: spot.TradeInputs{
			TokenXInput: decimal.NewFromInt(8),
			Slippage:    decimal.NewFromInt(1),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "8.08283", details.Buy.TokenYPay.String())
}

func TestLoaderRetriesReadErrors(t *testing.T) {
	data, err := os.ReadFile("testdata/eth-usdc.json")
	require.NoError(t, err)

	loader := NewLoader(zaptest.NewLogger(t), 3, time.Millisecond)
	calls := 0
	loader.readFile = func(string) ([]byte, error) {
		calls++
		if calls < 3 {
			return nil, os.ErrNotExist
		}
		return data, nil
	}

	snap, err := loader.Load(context.Background(), "snapshot.json")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.NotNil(t, snap)
}

func TestLoaderGivesUpAfterMaxRetries(t *testing.T) {
	loader := NewLoader(zaptest.NewLogger(t), 2, time.Millisecond)
	calls := 0
	loader.readFile = func(string) ([]byte, error) {
		calls++
		return nil, os.ErrNotExist
	}

	_, err := loader.Load(context.Background(), "snapshot.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, 3, calls)
}

func TestLoaderDoesNotRetryDecodeErrors(t *testing.T) {
	loader := NewLoader(zaptest.NewLogger(t), 5, time.Millisecond)
	calls := 0
	loader.readFile = func(string) ([]byte, error) {
		calls++
		return []byte(`{"market": {"bestAsk": "1.5"}}`), nil
	}

	_, err := loader.Load(context.Background(), "snapshot.json")
	require.Error(t, err)
	assert.True(t, spot.IsInvalidInput(err))
	assert.Equal(t, 1, calls)
}

func TestLoaderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(zaptest.NewLogger(t), 5, 50*time.Millisecond)
	loader.readFile = func(string) ([]byte, error) {
		return nil, os.ErrNotExist
	}

	_, err := loader.Load(ctx, "snapshot.json")
	assert.Error(t, err)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)
}
