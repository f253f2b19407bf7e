package benchmark

import (
	"bytes"
	"testing"
	"time"

	"github.com/mwiater/ollamabench/internal/response"
	"github.com/mwiater/ollamabench/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubNow(t *testing.T) time.Time {
	t.Helper()
	fixed := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })
	return fixed
}

func record(model string, promptCount, evalCount, promptDur, evalDur int64) response.Record {
	return response.Record{
		Model:              model,
		Message:            response.Message{Role: "assistant", Content: "ok"},
		Done:               true,
		TotalDuration:      promptDur + evalDur + 10,
		LoadDuration:       10,
		PromptEvalCount:    promptCount,
		PromptEvalDuration: promptDur,
		EvalCount:          evalCount,
		EvalDuration:       evalDur,
	}
}

func TestAverageSumsFields(t *testing.T) {
	fixed := stubNow(t)
	records := []response.Record{
		record("llama3.2:1b", 10, 100, 500_000_000, 1_000_000_000),
		record("llama3.2:1b", 20, 200, 500_000_000, 2_000_000_000),
	}

	avg, ok := Average(records)
	require.True(t, ok)

	assert.Equal(t, "llama3.2:1b", avg.Model)
	assert.Equal(t, fixed, avg.CreatedAt)
	assert.Equal(t, "system", avg.Message.Role)
	assert.Equal(t, "Average stats across 2 runs", avg.Message.Content)
	assert.True(t, avg.Done)
	assert.EqualValues(t, 300, avg.EvalCount)
	assert.EqualValues(t, 3_000_000_000, avg.EvalDuration)
	assert.EqualValues(t, 30, avg.PromptEvalCount)
	assert.EqualValues(t, 1_000_000_000, avg.PromptEvalDuration)
	assert.EqualValues(t, 20, avg.LoadDuration)
	assert.EqualValues(t, 4_000_000_020, avg.TotalDuration)

	s := stats.Compute(avg)
	assert.InDelta(t, 100.0, s.ResponseRate.Value, 1e-9)
	assert.InDelta(t, 30.0, s.PromptRate.Value, 1e-9)
}

func TestAverageIsOrderIndependent(t *testing.T) {
	stubNow(t)
	a := record("m", 5, 50, 100, 1_000)
	b := record("m", 7, 70, 200, 2_000)
	c := record("m", 11, 110, 300, 3_000)

	orders := [][]response.Record{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	want, _ := Average(orders[0])
	for _, order := range orders[1:] {
		got, ok := Average(order)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	// grouping partial sums first gives the same totals
	ab, _ := Average([]response.Record{a, b})
	regrouped, _ := Average([]response.Record{ab, c})
	assert.Equal(t, want.EvalCount, regrouped.EvalCount)
	assert.Equal(t, want.EvalDuration, regrouped.EvalDuration)
	assert.Equal(t, want.PromptEvalCount, regrouped.PromptEvalCount)
	assert.Equal(t, want.TotalDuration, regrouped.TotalDuration)
}

func TestAverageSingleRecordRoundTrip(t *testing.T) {
	stubNow(t)
	rec := record("m", 50, 100, 1_000_000_000, 1_000_000_000)

	avg, ok := Average([]response.Record{rec})
	require.True(t, ok)

	assert.Equal(t, rec.TotalDuration, avg.TotalDuration)
	assert.Equal(t, rec.LoadDuration, avg.LoadDuration)
	assert.Equal(t, rec.PromptEvalCount, avg.PromptEvalCount)
	assert.Equal(t, rec.PromptEvalDuration, avg.PromptEvalDuration)
	assert.Equal(t, rec.EvalCount, avg.EvalCount)
	assert.Equal(t, rec.EvalDuration, avg.EvalDuration)
	assert.Equal(t, stats.Compute(rec), stats.Compute(avg))
	assert.Equal(t, "Average stats across 1 runs", avg.Message.Content)
}

func TestAverageEmpty(t *testing.T) {
	_, ok := Average(nil)
	assert.False(t, ok)
}

func TestReportAverage(t *testing.T) {
	stubNow(t)

	var buf bytes.Buffer
	require.NoError(t, ReportAverage(&buf, nil))
	assert.Equal(t, "No stats to average\n", buf.String())

	buf.Reset()
	records := []response.Record{
		record("m", 50, 100, 1_000_000_000, 1_000_000_000),
	}
	require.NoError(t, ReportAverage(&buf, records))
	out := buf.String()
	assert.Contains(t, out, "Average stats:")
	assert.Contains(t, out, "Prompt eval: 50.00 t/s")
	assert.Contains(t, out, "Response: 100.00 t/s")
	assert.Contains(t, out, "Total: 75.00 t/s")
}
