package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/hanji-sdk/internal/quote"
	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func generateTestQuotes() []*quote.Quote {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	buy := spot.DefaultBuyDetails()
	buy.WorstPrice = dec("1.01")
	buy.EstSlippage = dec("1")
	buy.TokenXReceive = dec("8")
	buy.TokenYPay = dec("8.08283")
	buy.Fee = dec("0.00283")

	sell := spot.DefaultSellDetails()
	sell.WorstPrice = dec("0.98")
	sell.EstSlippage = dec("3")
	sell.TokenXPay = dec("8")
	sell.TokenYReceive = dec("7.83725")
	sell.Fee = dec("0.00275")

	return []*quote.Quote{
		{
			ID:         "q-sell",
			CreatedAt:  base.Add(time.Minute),
			MarketID:   "eth-usdc",
			Direction:  spot.DirectionSell,
			InputToken: spot.InputBase,
			Details:    spot.MarketOrderDetails{Buy: spot.DefaultBuyDetails(), Sell: sell},
			Plan:       &spot.OrderPlan{Side: spot.SideAsk, Price: sell.WorstPrice, Size: sell.TokenXPay, MaxCommission: sell.Fee},
			Severity:   quote.SeverityModerate,
		},
		{
			ID:         "q-buy",
			CreatedAt:  base,
			MarketID:   "eth-usdc",
			Direction:  spot.DirectionBuy,
			InputToken: spot.InputBase,
			Details:    spot.MarketOrderDetails{Buy: buy, Sell: spot.DefaultSellDetails()},
			Plan:       &spot.OrderPlan{Side: spot.SideBid, Price: buy.WorstPrice, Size: buy.TokenXReceive, MaxCommission: buy.Fee},
			Severity:   quote.SeverityLow,
		},
		{
			ID:         "q-empty",
			CreatedAt:  base.Add(2 * time.Minute),
			MarketID:   "btc-usdc",
			Direction:  spot.DirectionBuy,
			InputToken: spot.InputQuote,
			Details:    spot.MarketOrderDetails{Buy: spot.DefaultBuyDetails(), Sell: spot.DefaultSellDetails()},
			Severity:   quote.SeverityNone,
		},
	}
}

func newTestExporter() *QuoteExporter {
	qe := NewQuoteExporter(zap.NewNop())
	qe.now = func() time.Time { return time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC) }
	return qe
}

func TestQuoteExportCSV(t *testing.T) {
	exporter := newTestExporter()

	outputPath, err := exporter.ExportQuotes(generateTestQuotes(), ExportOptions{
		Format:    FormatCSV,
		OutputDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to export quotes: %v", err)
	}
	assert.True(t, strings.HasSuffix(outputPath, "quotes_all_20250302_093000.csv"))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, CSVHeaders(), rows[0])
	// отсортировано по времени создания
	assert.Equal(t, "q-buy", rows[1][0])
	assert.Equal(t, "8.08283", rows[1][11])
	assert.Equal(t, "q-sell", rows[2][0])
	assert.Equal(t, "7.83725", rows[2][11])
	assert.Equal(t, "false", rows[3][16])
}

func TestQuoteExportJSON(t *testing.T) {
	exporter := newTestExporter()

	outputPath, err := exporter.ExportQuotes(generateTestQuotes(), ExportOptions{
		Format:     FormatJSON,
		OutputDir:  t.TempDir(),
		OnlyQuoted: true,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var data struct {
		QuoteCount int `json:"quote_count"`
		Summary    struct {
			QuotedCount   int    `json:"quoted_count"`
			TotalFees     string `json:"total_fees"`
			AvgSlippage   string `json:"avg_slippage"`
			WorstSeverity string `json:"worst_severity"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(content, &data))

	assert.Equal(t, 2, data.QuoteCount)
	assert.Equal(t, 2, data.Summary.QuotedCount)
	assert.Equal(t, "0.00558", data.Summary.TotalFees)
	assert.Equal(t, "2", data.Summary.AvgSlippage)
	assert.Equal(t, "moderate", data.Summary.WorstSeverity)
}

func TestQuoteExportFilters(t *testing.T) {
	exporter := newTestExporter()
	quotes := generateTestQuotes()

	filtered := exporter.filterQuotes(quotes, ExportOptions{DirectionFilter: spot.DirectionBuy})
	assert.Len(t, filtered, 2)

	filtered = exporter.filterQuotes(quotes, ExportOptions{MarketFilter: "btc-usdc"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "q-empty", filtered[0].ID)

	filtered = exporter.filterQuotes(quotes, ExportOptions{
		StartTime: time.Date(2025, 3, 1, 12, 0, 30, 0, time.UTC),
		EndTime:   time.Date(2025, 3, 1, 12, 1, 30, 0, time.UTC),
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, "q-sell", filtered[0].ID)

	_, err := exporter.ExportQuotes(quotes, ExportOptions{Format: FormatCSV, MarketFilter: "none", OutputDir: t.TempDir()})
	assert.Error(t, err)
}

func TestQuoteExportUnsupportedFormat(t *testing.T) {
	_, err := newTestExporter().ExportQuotes(generateTestQuotes(), ExportOptions{Format: "xml", OutputDir: t.TempDir()})
	assert.Error(t, err)
}

func TestGenerateFilename(t *testing.T) {
	name := newTestExporter().generateFilename(ExportOptions{
		Format:          FormatJSON,
		DirectionFilter: spot.DirectionSell,
		MarketFilter:    "0x1a2b3c4d5e6f",
	})
	assert.Equal(t, "quotes_sell_0x1a2b3c_20250302_093000.json", name)
}

func TestCalculateSummaryEmpty(t *testing.T) {
	summary := CalculateSummary(nil)
	assert.Zero(t, summary.TotalQuotes)
	assert.Equal(t, quote.SeverityNone, summary.WorstSeverity)
}
