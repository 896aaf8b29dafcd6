// internal/logger/buffer.go
package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LogEntry - одна запись в буфере
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogBuffer - потокобезопасный кольцевой буфер логов для TUI.
// Вытесняемые записи дописываются в spill-файл, если он задан.
type LogBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	maxSize int
	next    int
	count   int

	spillFile   *os.File
	spillWriter *bufio.Writer
	logger      *zap.Logger

	totalEntries   uint64
	spilledEntries uint64
}

// NewLogBuffer создает буфер на maxSize записей. Пустой spillFilePath
// отключает запись вытесненных записей на диск.
func NewLogBuffer(maxSize int, spillFilePath string, logger *zap.Logger) (*LogBuffer, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("buffer size must be positive, got %d", maxSize)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	lb := &LogBuffer{
		entries: make([]LogEntry, maxSize),
		maxSize: maxSize,
		logger:  logger,
	}

	if spillFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(spillFilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(spillFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open spill file: %w", err)
		}
		lb.spillFile = f
		lb.spillWriter = bufio.NewWriter(f)
	}

	return lb, nil
}

// Add добавляет запись; при переполнении самая старая уходит в spill-файл
func (lb *LogBuffer) Add(level, message string, fields map[string]interface{}) error {
	return lb.add(LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    fields,
	})
}

func (lb *LogBuffer) add(entry LogEntry) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	var spillErr error
	if lb.count == lb.maxSize {
		if err := lb.spill(lb.entries[lb.next]); err != nil {
			spillErr = err
		} else if lb.spillWriter != nil {
			lb.spilledEntries++
		}
	} else {
		lb.count++
	}

	lb.entries[lb.next] = entry
	lb.next = (lb.next + 1) % lb.maxSize
	lb.totalEntries++

	return spillErr
}

// Write принимает JSON-строки от zap encoder, поэтому буфер можно
// подключить как zapcore.WriteSyncer
func (lb *LogBuffer) Write(p []byte) (int, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(p, &raw); err != nil {
		// не JSON: сохраняем как есть
		if addErr := lb.Add("info", string(p), nil); addErr != nil {
			return 0, addErr
		}
		return len(p), nil
	}

	entry := LogEntry{Timestamp: time.Now()}
	if v, ok := raw["level"].(string); ok {
		entry.Level = v
	}
	if v, ok := raw["msg"].(string); ok {
		entry.Message = v
	}
	if v, ok := raw["time"].(string); ok {
		if ts, err := time.Parse("2006-01-02T15:04:05.000Z0700", v); err == nil {
			entry.Timestamp = ts
		}
	}
	delete(raw, "level")
	delete(raw, "msg")
	delete(raw, "time")
	if len(raw) > 0 {
		entry.Fields = raw
	}

	if err := lb.add(entry); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sync реализует zapcore.WriteSyncer
func (lb *LogBuffer) Sync() error {
	return lb.Flush()
}

func (lb *LogBuffer) spill(entry LogEntry) error {
	if lb.spillWriter == nil {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	if _, err := lb.spillWriter.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to spill file: %w", err)
	}
	return nil
}

// GetRecentLogs возвращает последние limit записей в хронологическом порядке.
// limit <= 0 - все записи.
func (lb *LogBuffer) GetRecentLogs(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	n := lb.count
	if limit > 0 && limit < n {
		n = limit
	}

	logs := make([]LogEntry, 0, n)
	start := (lb.next - n + lb.maxSize) % lb.maxSize
	for i := 0; i < n; i++ {
		logs = append(logs, lb.entries[(start+i)%lb.maxSize])
	}
	return logs
}

// Flush сбрасывает spill-файл на диск
func (lb *LogBuffer) Flush() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.flushLocked()
}

func (lb *LogBuffer) flushLocked() error {
	if lb.spillWriter == nil {
		return nil
	}
	if err := lb.spillWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush spill writer: %w", err)
	}
	if err := lb.spillFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync spill file: %w", err)
	}
	return nil
}

// Close дописывает оставшиеся записи в spill-файл и закрывает его
func (lb *LogBuffer) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.spillWriter == nil {
		return nil
	}

	start := (lb.next - lb.count + lb.maxSize) % lb.maxSize
	for i := 0; i < lb.count; i++ {
		if err := lb.spill(lb.entries[(start+i)%lb.maxSize]); err != nil {
			lb.logger.Error("Failed to spill entry during close", zap.Error(err))
		}
	}

	if err := lb.flushLocked(); err != nil {
		return err
	}
	if err := lb.spillFile.Close(); err != nil {
		return fmt.Errorf("failed to close spill file: %w", err)
	}
	lb.spillWriter = nil

	lb.logger.Debug("Log buffer closed",
		zap.Uint64("totalEntries", lb.totalEntries),
		zap.Uint64("spilledEntries", lb.spilledEntries))
	return nil
}

// GetStats возвращает статистику буфера
func (lb *LogBuffer) GetStats() (total, spilled uint64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.totalEntries, lb.spilledEntries
}

// StartPeriodicFlush периодически сбрасывает spill-файл до закрытия done
func (lb *LogBuffer) StartPeriodicFlush(interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := lb.Flush(); err != nil {
					lb.logger.Error("Periodic flush failed", zap.Error(err))
				}
			case <-done:
				return
			}
		}
	}()

	return done
}
