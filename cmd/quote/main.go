package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rovshanmuradov/hanji-sdk/internal/config"
	"github.com/rovshanmuradov/hanji-sdk/internal/export"
	"github.com/rovshanmuradov/hanji-sdk/internal/logger"
	"github.com/rovshanmuradov/hanji-sdk/internal/metrics"
	"github.com/rovshanmuradov/hanji-sdk/internal/quote"
	"github.com/rovshanmuradov/hanji-sdk/internal/snapshot"
	"github.com/rovshanmuradov/hanji-sdk/internal/ui/component"
	"github.com/rovshanmuradov/hanji-sdk/internal/ui/style"
	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

type flags struct {
	configPath   string
	snapshotPath string
	direction    string
	input        string
	amounts      string
	slippage     string
	auto         bool
	jsonOutput   bool
	export       bool
	serve        bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config file (defaults and HANJI_* env when empty)")
	flag.StringVar(&f.snapshotPath, "snapshot", "", "Path to orderbook snapshot, overrides snapshot_path")
	flag.StringVar(&f.direction, "direction", "buy", "Order direction: buy or sell")
	flag.StringVar(&f.input, "input", "base", "Amount token: base or quote")
	flag.StringVar(&f.amounts, "amount", "", "Amount, or comma-separated amounts for a batch")
	flag.StringVar(&f.slippage, "slippage", "", "Slippage in percent, overrides default_slippage")
	flag.BoolVar(&f.auto, "auto", false, "Use auto slippage (also enabled by use_auto_slippage)")
	flag.BoolVar(&f.jsonOutput, "json", false, "Print quotes as JSON")
	flag.BoolVar(&f.export, "export", false, "Export quotes to export_dir")
	flag.BoolVar(&f.serve, "serve", false, "Serve /metrics on metrics_addr until interrupted")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := newLogger(cfg, !f.jsonOutput)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	if err := run(rootCtx, f, cfg, appLogger); err != nil {
		appLogger.LogError("Quote failed", err)
		_ = appLogger.Sync()
		os.Exit(1)
	}
}

// newLogger: pretty-консоль для человека плюс JSON-файл с ротацией
func newLogger(cfg *config.Config, console bool) (*logger.Logger, error) {
	fileLogger, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     logger.DefaultConfig().MaxSize,
		MaxAge:      logger.DefaultConfig().MaxAge,
		MaxBackups:  logger.DefaultConfig().MaxBackups,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		return nil, err
	}
	if !console {
		return fileLogger, nil
	}

	pretty, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		return nil, err
	}
	return logger.Wrap(zap.New(zapcore.NewTee(pretty.Core(), fileLogger.Core()))), nil
}

func run(ctx context.Context, f flags, cfg *config.Config, log *logger.Logger) error {
	collector := metrics.NewCollector(nil)

	var server *http.Server
	if f.serve {
		server = serveMetrics(cfg.MetricsAddr, collector, log.WithComponent("metrics"))
	}

	path := cfg.SnapshotPath
	if f.snapshotPath != "" {
		path = f.snapshotPath
	}
	if path == "" {
		return errors.New("snapshot path is required (-snapshot or snapshot_path)")
	}

	loader := snapshot.NewLoader(log.WithComponent("snapshot"), cfg.SnapshotRetries, cfg.SnapshotRetryDelay)
	snap, err := loader.Load(ctx, path)
	collector.RecordSnapshotLoad(err == nil)
	if err != nil {
		return err
	}

	marketLog := log.WithMarket(snap.Market)
	marketLog.Debug("Market ready", zap.Int("asks", len(snap.Orderbook.Asks)), zap.Int("bids", len(snap.Orderbook.Bids)))

	params, err := buildParams(f, cfg, snap)
	if err != nil {
		return err
	}

	svc := quote.NewService(log, collector, cfg.Workers)
	quotes, err := svc.EstimateBatch(ctx, params)
	if err != nil {
		return err
	}

	if f.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(quotes); err != nil {
			return fmt.Errorf("encode quotes: %w", err)
		}
	} else {
		printQuotes(snap, quotes)
	}

	if f.export {
		exporter := export.NewQuoteExporter(marketLog)
		if _, err := exporter.ExportQuotes(quotes, export.ExportOptions{
			Format:    export.ExportFormat(cfg.ExportFormat),
			OutputDir: cfg.ExportDir,
		}); err != nil {
			return err
		}
	}

	if server != nil {
		log.Info("Serving metrics until interrupted", zap.String("addr", cfg.MetricsAddr))
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}

	return nil
}

func buildParams(f flags, cfg *config.Config, snap *snapshot.Snapshot) ([]spot.MarketDetailsParams, error) {
	direction := spot.Direction(strings.ToLower(f.direction))
	input := spot.InputToken(strings.ToLower(f.input))

	slippage := cfg.Slippage()
	if f.slippage != "" {
		s, err := spot.ParseAmount(f.slippage)
		if err != nil {
			return nil, fmt.Errorf("slippage: %w", err)
		}
		slippage = s
	}

	if strings.TrimSpace(f.amounts) == "" {
		return nil, errors.New("-amount is required")
	}

	var params []spot.MarketDetailsParams
	for _, raw := range strings.Split(f.amounts, ",") {
		amount, err := spot.ParseAmount(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}

		inputs := spot.TradeInputs{Slippage: slippage, UseAutoSlippage: f.auto || cfg.UseAutoSlippage}
		if input == spot.InputQuote {
			inputs.TokenYInput = amount
		} else {
			inputs.TokenXInput = amount
		}

		params = append(params, spot.MarketDetailsParams{
			Market:     snap.Market,
			Orderbook:  snap.Orderbook,
			InputToken: input,
			Direction:  direction,
			Inputs:     inputs,
		})
	}
	return params, nil
}

func printQuotes(snap *snapshot.Snapshot, quotes []*quote.Quote) {
	base, quoteSym := snap.Market.BaseToken.Symbol, snap.Market.QuoteToken.Symbol

	for _, q := range quotes {
		fmt.Println(style.DirectionStyle(string(q.Direction)).Render(
			fmt.Sprintf("%s %s/%s (amount in %s)", strings.ToUpper(string(q.Direction)), base, quoteSym, q.InputToken)))
		fmt.Println(component.RenderQuoteTable(q, base, quoteSym))
		fmt.Println(component.RenderSeverity(q))
		if q.Plan != nil {
			fmt.Println(style.MutedStyle.Render(fmt.Sprintf("IOC %s: price %s, size %s, max commission %s",
				q.Plan.Side, q.Plan.Price, q.Plan.Size, q.Plan.MaxCommission)))
		}
		fmt.Println()
	}
}

func serveMetrics(addr string, collector *metrics.Collector, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return server
}
