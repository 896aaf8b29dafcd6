package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/hanji-sdk/internal/quote"
	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format          ExportFormat
	StartTime       time.Time
	EndTime         time.Time
	MarketFilter    string         // Filter by market id
	DirectionFilter spot.Direction // Filter by direction (buy/sell)
	OnlyQuoted      bool           // Skip quotes without liquidity
	OutputDir       string
}

// QuoteExporter writes computed quotes to CSV or JSON files
type QuoteExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewQuoteExporter creates a new quote exporter
func NewQuoteExporter(logger *zap.Logger) *QuoteExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteExporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// ExportQuotes exports quotes based on the provided options
func (qe *QuoteExporter) ExportQuotes(quotes []*quote.Quote, options ExportOptions) (string, error) {
	filtered := qe.filterQuotes(quotes, options)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no quotes match the export criteria")
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	if options.OutputDir == "" {
		options.OutputDir = "."
	}
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(options.OutputDir, qe.generateFilename(options))

	var err error
	switch options.Format {
	case FormatCSV:
		err = qe.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = qe.exportToJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	qe.logger.Info("Quotes exported",
		zap.String("path", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

func (qe *QuoteExporter) filterQuotes(quotes []*quote.Quote, options ExportOptions) []*quote.Quote {
	var filtered []*quote.Quote

	for _, q := range quotes {
		if q == nil {
			continue
		}
		if !options.StartTime.IsZero() && q.CreatedAt.Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && q.CreatedAt.After(options.EndTime) {
			continue
		}
		if options.MarketFilter != "" && q.MarketID != options.MarketFilter {
			continue
		}
		if options.DirectionFilter != "" && q.Direction != options.DirectionFilter {
			continue
		}
		if options.OnlyQuoted && !q.Quoted() {
			continue
		}
		filtered = append(filtered, q)
	}

	return filtered
}

// generateFilename creates a filename based on export options
func (qe *QuoteExporter) generateFilename(options ExportOptions) string {
	timestamp := qe.now().Format("20060102_150405")

	prefix := "quotes_all"
	if options.DirectionFilter != "" {
		prefix = fmt.Sprintf("quotes_%s", options.DirectionFilter)
	}
	if options.MarketFilter != "" {
		market := options.MarketFilter
		if len(market) > 8 {
			market = market[:8]
		}
		prefix += "_" + market
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

// CSVHeaders returns the column names of a quote row
func CSVHeaders() []string {
	return []string{
		"id", "created_at", "market", "direction", "input",
		"worst_price", "est_price", "est_slippage", "auto_slippage",
		"base_amount", "est_base_amount", "quote_amount", "est_quote_amount",
		"fee", "est_fee", "severity", "quoted",
	}
}

// CSVRow flattens the requested side of a quote into a CSV row
func CSVRow(q *quote.Quote) []string {
	var (
		worst, estPrice, estSlip, autoSlip decimal.Decimal
		base, estBase, quoteAmt, estQuote  decimal.Decimal
		fee, estFee                        decimal.Decimal
	)

	if q.Direction == spot.DirectionSell {
		s := q.Details.Sell
		worst, estPrice, estSlip, autoSlip = s.WorstPrice, s.EstPrice, s.EstSlippage, s.AutoSlippage
		base, estBase, quoteAmt, estQuote = s.TokenXPay, s.EstTokenXPay, s.TokenYReceive, s.EstTokenYReceive
		fee, estFee = s.Fee, s.EstFee
	} else {
		b := q.Details.Buy
		worst, estPrice, estSlip, autoSlip = b.WorstPrice, b.EstPrice, b.EstSlippage, b.AutoSlippage
		base, estBase, quoteAmt, estQuote = b.TokenXReceive, b.EstTokenXReceive, b.TokenYPay, b.EstTokenYPay
		fee, estFee = b.Fee, b.EstFee
	}

	return []string{
		q.ID,
		q.CreatedAt.Format(time.RFC3339),
		q.MarketID,
		string(q.Direction),
		string(q.InputToken),
		worst.String(),
		estPrice.String(),
		estSlip.String(),
		autoSlip.String(),
		base.String(),
		estBase.String(),
		quoteAmt.String(),
		estQuote.String(),
		fee.String(),
		estFee.String(),
		string(q.Severity),
		fmt.Sprintf("%t", q.Quoted()),
	}
}

func (qe *QuoteExporter) exportToCSV(quotes []*quote.Quote, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, q := range quotes {
		if err := writer.Write(CSVRow(q)); err != nil {
			return fmt.Errorf("failed to write quote %s: %w", q.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (qe *QuoteExporter) exportToJSON(quotes []*quote.Quote, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time      `json:"export_time"`
		QuoteCount int            `json:"quote_count"`
		Quotes     []*quote.Quote `json:"quotes"`
		Summary    ExportSummary  `json:"summary"`
	}{
		ExportTime: qe.now().UTC(),
		QuoteCount: len(quotes),
		Quotes:     quotes,
		Summary:    CalculateSummary(quotes),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportSummary contains summary statistics for exported quotes
type ExportSummary struct {
	TotalQuotes   int             `json:"total_quotes"`
	QuotedCount   int             `json:"quoted_count"`
	NoLiquidity   int             `json:"no_liquidity"`
	BuyCount      int             `json:"buy_count"`
	SellCount     int             `json:"sell_count"`
	UniqueMarkets int             `json:"unique_markets"`
	TotalFees     decimal.Decimal `json:"total_fees"`
	AvgSlippage   decimal.Decimal `json:"avg_slippage"`
	MaxSlippage   decimal.Decimal `json:"max_slippage"`
	WorstSeverity quote.Severity  `json:"worst_severity"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
}

// CalculateSummary calculates summary statistics for sorted quotes
func CalculateSummary(quotes []*quote.Quote) ExportSummary {
	summary := ExportSummary{
		TotalQuotes:   len(quotes),
		TotalFees:     decimal.Zero,
		AvgSlippage:   decimal.Zero,
		MaxSlippage:   decimal.Zero,
		WorstSeverity: quote.SeverityNone,
	}
	if len(quotes) == 0 {
		return summary
	}

	summary.StartDate = quotes[0].CreatedAt
	summary.EndDate = quotes[len(quotes)-1].CreatedAt

	markets := make(map[string]bool)
	slippageSum := decimal.Zero

	for _, q := range quotes {
		markets[q.MarketID] = true

		switch q.Direction {
		case spot.DirectionBuy:
			summary.BuyCount++
		case spot.DirectionSell:
			summary.SellCount++
		}

		if !q.Quoted() {
			summary.NoLiquidity++
			continue
		}
		summary.QuotedCount++
		summary.TotalFees = summary.TotalFees.Add(q.Plan.MaxCommission)

		slippage := q.EstSlippage()
		slippageSum = slippageSum.Add(slippage)
		summary.MaxSlippage = decimal.Max(summary.MaxSlippage, slippage)

		if q.Severity.AtLeast(summary.WorstSeverity) {
			summary.WorstSeverity = q.Severity
		}
	}

	summary.UniqueMarkets = len(markets)
	if summary.QuotedCount > 0 {
		summary.AvgSlippage = slippageSum.DivRound(decimal.NewFromInt(int64(summary.QuotedCount)), 4)
	}

	return summary
}
