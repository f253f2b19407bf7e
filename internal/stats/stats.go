// internal/stats/stats.go

// Package stats turns the raw duration and token fields of a response record
// into tokens-per-second rates and the human readable report printed per run.
package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/ollamabench/internal/response"
)

const nanosPerSecond = 1e9

var (
	ruleLine   = strings.Repeat("-", 52)
	modelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

// Rate is a tokens-per-second figure. Defined is false when the duration was zero.
type Rate struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// String formats the rate with two decimals, or "n/a" when undefined.
func (r Rate) String() string {
	if !r.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.2f t/s", r.Value)
}

// Stats groups the three rates derived from one record.
type Stats struct {
	PromptRate   Rate `json:"promptRate"`
	ResponseRate Rate `json:"responseRate"`
	TotalRate    Rate `json:"totalRate"`
}

// NanosToSeconds converts a nanosecond count to seconds.
func NanosToSeconds(nanos int64) float64 {
	return float64(nanos) / nanosPerSecond
}

// TokensPerSecond returns count / (durationNanos / 1e9). A non-positive duration
// yields an undefined Rate rather than a division by zero.
func TokensPerSecond(count, durationNanos int64) Rate {
	if durationNanos <= 0 {
		return Rate{}
	}
	return Rate{Value: float64(count) / NanosToSeconds(durationNanos), Defined: true}
}

// Compute derives the prompt, response and combined rates of rec.
func Compute(rec response.Record) Stats {
	return Stats{
		PromptRate:   TokensPerSecond(rec.PromptEvalCount, rec.PromptEvalDuration),
		ResponseRate: TokensPerSecond(rec.EvalCount, rec.EvalDuration),
		TotalRate: TokensPerSecond(
			rec.PromptEvalCount+rec.EvalCount,
			rec.PromptEvalDuration+rec.EvalDuration,
		),
	}
}

// Report renders the statistics block for rec.
func Report(rec response.Record) string {
	s := Compute(rec)

	var b strings.Builder
	b.WriteString("\n" + ruleLine + "\n")
	fmt.Fprintf(&b, "  %s\n", modelStyle.Render(rec.Model))
	fmt.Fprintf(&b, "\tPrompt eval: %s\n", s.PromptRate)
	fmt.Fprintf(&b, "\tResponse: %s\n", s.ResponseRate)
	fmt.Fprintf(&b, "\tTotal: %s\n", s.TotalRate)
	b.WriteString("\n  Stats:\n")
	fmt.Fprintf(&b, "\tPrompt tokens: %d\n", rec.PromptEvalCount)
	fmt.Fprintf(&b, "\tResponse tokens: %d\n", rec.EvalCount)
	fmt.Fprintf(&b, "\tModel load time: %.2fs\n", NanosToSeconds(rec.LoadDuration))
	fmt.Fprintf(&b, "\tPrompt eval time: %.2fs\n", NanosToSeconds(rec.PromptEvalDuration))
	fmt.Fprintf(&b, "\tResponse time: %.2fs\n", NanosToSeconds(rec.EvalDuration))
	fmt.Fprintf(&b, "\tTotal time: %.2fs\n", NanosToSeconds(rec.TotalDuration))
	b.WriteString(ruleLine + "\n")
	return b.String()
}

// Write prints the statistics block for rec to w.
func Write(w io.Writer, rec response.Record) error {
	_, err := io.WriteString(w, Report(rec))
	return err
}
