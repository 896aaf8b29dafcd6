package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/hanji-sdk/internal/config"
	"github.com/rovshanmuradov/hanji-sdk/internal/logger"
	"github.com/rovshanmuradov/hanji-sdk/internal/quote"
	"github.com/rovshanmuradov/hanji-sdk/internal/snapshot"
	"github.com/rovshanmuradov/hanji-sdk/internal/ui/preview"
	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	snapshotPath := flag.String("snapshot", "", "Path to orderbook snapshot, overrides snapshot_path")
	direction := flag.String("direction", "buy", "Initial direction: buy or sell")
	amount := flag.String("amount", "", "Initial amount")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// stdout занят интерфейсом: логи идут только в буфер и spill-файл
	spillPath := filepath.Join(filepath.Dir(cfg.LogFile), "preview.log")
	buffer, err := logger.NewLogBuffer(200, spillPath, nil)
	if err != nil {
		log.Fatalf("Failed to create log buffer: %v", err)
	}
	defer buffer.Close()

	done := buffer.StartPeriodicFlush(time.Second)
	defer close(done)

	tuiLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, buffer)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	appLogger := logger.Wrap(tuiLogger)
	defer func() {
		_ = appLogger.Sync()
	}()

	path := cfg.SnapshotPath
	if *snapshotPath != "" {
		path = *snapshotPath
	}
	if path == "" {
		log.Fatal("snapshot path is required (-snapshot or snapshot_path)")
	}

	snap, err := snapshot.NewLoader(appLogger.WithComponent("snapshot"), cfg.SnapshotRetries, cfg.SnapshotRetryDelay).Load(rootCtx, path)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	svc := quote.NewService(appLogger, nil, 1)
	model := preview.New(snap, svc, buffer, preview.Options{
		Direction:       spot.Direction(*direction),
		InputToken:      spot.InputBase,
		Amount:          *amount,
		Slippage:        cfg.Slippage(),
		UseAutoSlippage: cfg.UseAutoSlippage,
	})

	program := tea.NewProgram(preview.NewSafe(model, appLogger.Logger), tea.WithAltScreen(), tea.WithContext(rootCtx))
	if _, err := program.Run(); err != nil && rootCtx.Err() == nil {
		appLogger.LogError("Preview failed", err)
		log.Fatalf("Preview failed: %v", err)
	}

	total, spilled := buffer.GetStats()
	appLogger.Info("Preview closed",
		zap.Uint64("log_entries", total),
		zap.Uint64("spilled", spilled))
}
