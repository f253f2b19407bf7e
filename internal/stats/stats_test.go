package stats

import (
	"bytes"
	"testing"

	"github.com/mwiater/ollamabench/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() response.Record {
	return response.Record{
		Model:              "llama3.2:1b",
		Done:               true,
		TotalDuration:      2_000_000_000,
		LoadDuration:       250_000_000,
		PromptEvalCount:    50,
		PromptEvalDuration: 1_000_000_000,
		EvalCount:          100,
		EvalDuration:       1_000_000_000,
	}
}

func TestComputeRates(t *testing.T) {
	s := Compute(sampleRecord())

	require.True(t, s.PromptRate.Defined)
	require.True(t, s.ResponseRate.Defined)
	require.True(t, s.TotalRate.Defined)
	assert.InDelta(t, 50.0, s.PromptRate.Value, 1e-9)
	assert.InDelta(t, 100.0, s.ResponseRate.Value, 1e-9)
	assert.InDelta(t, 75.0, s.TotalRate.Value, 1e-9)
}

func TestNanosToSeconds(t *testing.T) {
	assert.Equal(t, 0.0, NanosToSeconds(0))
	assert.InDelta(t, 1.5, NanosToSeconds(1_500_000_000), 1e-12)
	assert.InDelta(t, 0.000001, NanosToSeconds(1_000), 1e-15)
}

func TestTokensPerSecondZeroDuration(t *testing.T) {
	r := TokensPerSecond(10, 0)
	assert.False(t, r.Defined)
	assert.Equal(t, "n/a", r.String())

	assert.False(t, TokensPerSecond(10, -1).Defined)
}

func TestTokensPerSecondMonotonic(t *testing.T) {
	const duration = int64(750_000_000)
	prev := TokensPerSecond(0, duration).Value
	for count := int64(1); count <= 500; count += 7 {
		cur := TokensPerSecond(count, duration).Value
		assert.Greater(t, cur, prev, "count %d", count)
		prev = cur
	}

	const count = int64(128)
	prev = TokensPerSecond(count, 1).Value
	for d := int64(1_000); d <= 10_000_000_000; d *= 3 {
		cur := TokensPerSecond(count, d).Value
		assert.Less(t, cur, prev, "duration %d", d)
		prev = cur
	}
}

func TestComputeUndefinedWhenDurationsZero(t *testing.T) {
	rec := sampleRecord()
	rec.PromptEvalDuration = 0
	s := Compute(rec)

	assert.False(t, s.PromptRate.Defined)
	assert.True(t, s.ResponseRate.Defined)
	assert.True(t, s.TotalRate.Defined)
	assert.InDelta(t, 150.0, s.TotalRate.Value, 1e-9)
}

func TestReportContents(t *testing.T) {
	report := Report(sampleRecord())

	for _, want := range []string{
		"llama3.2:1b",
		"Prompt eval: 50.00 t/s",
		"Response: 100.00 t/s",
		"Total: 75.00 t/s",
		"Prompt tokens: 50",
		"Response tokens: 100",
		"Model load time: 0.25s",
		"Prompt eval time: 1.00s",
		"Response time: 1.00s",
		"Total time: 2.00s",
	} {
		assert.Contains(t, report, want)
	}
}

func TestReportUndefinedRate(t *testing.T) {
	rec := sampleRecord()
	rec.EvalDuration = 0
	assert.Contains(t, Report(rec), "Response: n/a")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRecord()))
	assert.Equal(t, Report(sampleRecord()), buf.String())
}
