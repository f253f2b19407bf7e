// internal/benchmark/types.go
package benchmark

import (
	"github.com/mwiater/ollamabench/internal/metrics"
	"github.com/mwiater/ollamabench/internal/response"
	"github.com/mwiater/ollamabench/internal/stats"
)

// Plan describes one benchmark run.
type Plan struct {
	SkipModels []string
	Prompts    []string
	Verbose    bool
	Debug      bool
}

// ModelResult holds every run collected for one model.
type ModelResult struct {
	Model        string            `json:"model"`
	Runs         []response.Record `json:"runs"`
	Skipped      []SkippedPrompt   `json:"skipped,omitempty"`
	Average      *response.Record  `json:"average,omitempty"`
	AverageStats *stats.Stats      `json:"averageStats,omitempty"`
}

// SkippedPrompt is a prompt whose call produced no usable record.
type SkippedPrompt struct {
	Prompt string `json:"prompt"`
	Error  string `json:"error"`
}

// Results is the outcome of a run, keyed by model name. Models keeps the benchmark order.
type Results struct {
	Models      []string                `json:"models"`
	PromptCount int                     `json:"promptCount"`
	ByModel     map[string]*ModelResult `json:"results"`
	Summary     []metrics.ModelSummary  `json:"summary,omitempty"`
}

// finalize fills the averaged record and stats of every model and ranks the
// models that produced at least one run.
func (r *Results) finalize() {
	summaries := make([]metrics.ModelSummary, 0, len(r.Models))
	for _, model := range r.Models {
		m := r.ByModel[model]
		avg, ok := Average(m.Runs)
		if !ok {
			continue
		}
		s := stats.Compute(avg)
		m.Average = &avg
		m.AverageStats = &s
		summaries = append(summaries, metrics.Summarize(model, m.Runs, s.ResponseRate))
	}
	r.Summary = metrics.Rank(summaries)
}
