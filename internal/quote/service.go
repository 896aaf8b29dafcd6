// internal/quote/service.go
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/hanji-sdk/internal/logger"
	"github.com/rovshanmuradov/hanji-sdk/internal/metrics"
	"github.com/rovshanmuradov/hanji-sdk/pkg/spot"
)

// Recorder принимает метрики расчетов
type Recorder interface {
	RecordQuote(direction, input, outcome string, duration time.Duration)
	ObserveSlippage(direction string, pct float64)
	ObserveBatch(size int)
}

type nopRecorder struct{}

func (nopRecorder) RecordQuote(string, string, string, time.Duration) {}
func (nopRecorder) ObserveSlippage(string, float64) {}
func (nopRecorder) ObserveBatch(int) {}

// Quote - результат расчета рыночного ордера с метаданными
type Quote struct {
	ID         string                  `json:"id"`
	CreatedAt  time.Time               `json:"created_at"`
	MarketID   string                  `json:"market_id"`
	Direction  spot.Direction          `json:"direction"`
	InputToken spot.InputToken         `json:"input_token"`
	Details    spot.MarketOrderDetails `json:"details"`
	Plan       *spot.OrderPlan         `json:"plan,omitempty"`
	Severity   Severity                `json:"severity"`
	Warning    string                  `json:"warning,omitempty"`
}

// Quoted сообщает, что котировка получена и ордер можно размещать
func (q *Quote) Quoted() bool {
	return q != nil && q.Plan != nil
}

// EstSlippage возвращает оценку проскальзывания для запрошенной стороны
func (q *Quote) EstSlippage() decimal.Decimal {
	if q == nil {
		return decimal.Zero
	}
	if q.Direction == spot.DirectionSell {
		return q.Details.Sell.EstSlippage
	}
	return q.Details.Buy.EstSlippage
}

// WorstPrice возвращает худшую допустимую цену запрошенной стороны
func (q *Quote) WorstPrice() decimal.Decimal {
	if q == nil {
		return decimal.Zero
	}
	if q.Direction == spot.DirectionSell {
		return q.Details.Sell.WorstPrice
	}
	return q.Details.Buy.WorstPrice
}

// Service оборачивает чистый расчетный движок логированием и метриками
type Service struct {
	log      *logger.Logger
	logger   *zap.Logger
	recorder Recorder
	workers  int
	now      func() time.Time
}

// NewService создает сервис котировок. workers ограничивает параллелизм EstimateBatch.
func NewService(log *logger.Logger, recorder Recorder, workers int) *Service {
	if log == nil {
		log = logger.Wrap(nil)
	}
	log = logger.Wrap(log.Named("quote"))
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		log:      log,
		logger:   log.Logger,
		recorder: recorder,
		workers:  workers,
		now:      time.Now,
	}
}

// Estimate считает котировку для одного намерения.
// Отсутствие ликвидности не ошибка: возвращается Quote без Plan.
func (s *Service) Estimate(ctx context.Context, params spot.MarketDetailsParams) (*Quote, error) {
	direction, input := string(params.Direction), string(params.InputToken)

	if err := ctx.Err(); err != nil {
		s.recorder.RecordQuote(direction, input, metrics.OutcomeCanceled, 0)
		return nil, err
	}

	start := time.Now()
	details, err := spot.GetMarketDetails(params)
	duration := time.Since(start)

	if err != nil {
		s.recorder.RecordQuote(direction, input, metrics.OutcomeInvalid, duration)
		s.logger.Debug("Quote rejected",
			zap.String("market", params.Market.ID),
			zap.String("direction", direction),
			zap.String("input", input),
			zap.Error(err))
		return nil, fmt.Errorf("estimate %s %s on %s: %w", direction, input, params.Market.ID, err)
	}

	q := &Quote{
		ID:         uuid.New().String(),
		CreatedAt:  s.now().UTC(),
		MarketID:   params.Market.ID,
		Direction:  params.Direction,
		InputToken: params.InputToken,
		Details:    details,
		Severity:   SeverityNone,
	}

	plan, ok := spot.PlanMarketOrder(details, params.Direction)
	if !ok {
		s.recorder.RecordQuote(direction, input, metrics.OutcomeNoLiquidity, duration)
		s.logger.Info("No liquidity",
			zap.String("quote_id", q.ID),
			zap.String("market", q.MarketID),
			zap.String("direction", direction))
		return q, nil
	}

	q.Plan = &plan
	q.Severity = GetSeverity(q.EstSlippage())
	q.Warning = q.Severity.Warning()

	s.recorder.RecordQuote(direction, input, metrics.OutcomeQuoted, duration)
	s.recorder.ObserveSlippage(direction, q.EstSlippage().InexactFloat64())

	s.logger.Debug("Quote computed",
		zap.String("quote_id", q.ID),
		zap.String("market", q.MarketID),
		zap.String("direction", direction),
		zap.String("input", input),
		zap.String("worst_price", q.WorstPrice().String()),
		zap.String("est_slippage", q.EstSlippage().String()),
		zap.Duration("duration", duration))

	if q.Severity.AtLeast(SeverityHigh) {
		s.logger.Warn("High price impact",
			zap.String("quote_id", q.ID),
			zap.String("severity", string(q.Severity)),
			zap.String("est_slippage", q.EstSlippage().String()))
	}

	return q, nil
}

// EstimateBatch считает котировки параллельно, не более workers одновременно.
// Первая ошибка отменяет оставшиеся расчеты; порядок результатов совпадает с params.
func (s *Service) EstimateBatch(ctx context.Context, params []spot.MarketDetailsParams) ([]*Quote, error) {
	opLogger, end := s.log.TrackPerformance("estimate_batch")
	defer end()

	results := make([]*Quote, len(params))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, p := range params {
		g.Go(func() error {
			q, err := s.Estimate(gctx, p)
			if err != nil {
				return fmt.Errorf("intent %d: %w", i, err)
			}
			results[i] = q
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if !errors.Is(err, context.Canceled) {
			opLogger.Warn("Batch failed", zap.Error(err))
		}
		return nil, err
	}

	s.recorder.ObserveBatch(len(params))
	opLogger.Info("Batch completed", zap.Int("count", len(results)))

	return results, nil
}
