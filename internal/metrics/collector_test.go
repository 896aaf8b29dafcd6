package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordQuote(t *testing.T) {
	c := NewCollector(nil)

	c.RecordQuote("buy", "base", OutcomeQuoted, time.Millisecond)
	c.RecordQuote("buy", "base", OutcomeQuoted, time.Millisecond)
	c.RecordQuote("sell", "quote", OutcomeNoLiquidity, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.quoteCounter.WithLabelValues("buy", "base", OutcomeQuoted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.quoteCounter.WithLabelValues("sell", "quote", OutcomeNoLiquidity)))
	assert.Equal(t, 2, testutil.CollectAndCount(c.quoteDuration))
}

func TestSnapshotAndBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSnapshotLoad(true)
	c.RecordSnapshotLoad(false)
	c.RecordSnapshotLoad(false)
	c.ObserveBatch(12)
	c.ObserveSlippage("buy", 0.4)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.snapshotCounter.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.snapshotCounter.WithLabelValues("failure")))

	count, err := testutil.GatherAndCount(reg, "hanji_quote_batch_size")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReset(t *testing.T) {
	c := NewCollector(nil)
	c.RecordQuote("buy", "base", OutcomeQuoted, time.Millisecond)
	c.Reset()

	assert.Equal(t, 0, testutil.CollectAndCount(c.quoteCounter))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordQuote("buy", "base", OutcomeQuoted, time.Millisecond)
		c.ObserveSlippage("buy", 1)
		c.ObserveBatch(1)
		c.RecordSnapshotLoad(true)
	})
}

func TestHandler(t *testing.T) {
	c := NewCollector(nil)
	c.RecordQuote("sell", "base", OutcomeQuoted, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `hanji_quotes_total{direction="sell",input="base",outcome="quoted"} 1`))
}
