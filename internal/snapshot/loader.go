// internal/snapshot/loader.go
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

// Snapshot - рынок и книга ордеров, готовые для расчета котировки
type Snapshot struct {
	Market    spot.Market
	Orderbook spot.Orderbook
	Source    string
}

// Loader читает файл снимка с повторными попытками.
// Повторяются только ошибки чтения: файл может еще дописываться
// внешним процессом. Ошибки разбора и маппинга постоянные.
type Loader struct {
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
	readFile   func(string) ([]byte, error)
}

// NewLoader создает загрузчик снимков
func NewLoader(logger *zap.Logger, maxRetries int, retryDelay time.Duration) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retryDelay <= 0 {
		retryDelay = 100 * time.Millisecond
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Loader{
		logger:     logger.Named("snapshot"),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		readFile:   os.ReadFile,
	}
}

// Load читает и маппит снимок по пути path
func (l *Loader) Load(ctx context.Context, path string) (*Snapshot, error) {
	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = l.retryDelay
	backoffPolicy.MaxInterval = l.retryDelay * 10

	attempt := 0
	notify := func(err error, d time.Duration) {
		l.logger.Warn("Snapshot load retry",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", d),
			zap.Error(err))
	}

	operation := func() (*Snapshot, error) {
		attempt++
		data, err := l.readFile(path)
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		snap, err := Decode(data)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		snap.Source = path
		return snap, nil
	}

	snap, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(uint(l.maxRetries+1)),
		backoff.WithNotify(notify))
	if err != nil {
		l.logger.Error("Failed to load snapshot", zap.String("path", path), zap.Int("attempts", attempt), zap.Error(err))
		return nil, err
	}

	l.logger.Info("Snapshot loaded",
		zap.String("market", snap.Market.ID),
		zap.Int("levels", len(snap.Orderbook.Asks)+len(snap.Orderbook.Bids)))

	return snap, nil
}

// Decode разбирает JSON файла снимка и маппит его в доменные типы
func Decode(data []byte) (*Snapshot, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	market, book, err := Map(f)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Market: market, Orderbook: book}, nil
}
