// internal/metrics/summary.go

// Package metrics compares models after a run: per-run rate distributions,
// speed relative to the fastest model and a stability label.
package metrics

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mwiater/ollamabench/internal/response"
	"github.com/mwiater/ollamabench/internal/stats"
)

// DistributionStats describes a set of per-run rates.
type DistributionStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
}

// ModelSummary ranks one model against the others in the same run.
type ModelSummary struct {
	Model         string            `json:"model"`
	Runs          int               `json:"runs"`
	ResponseRate  stats.Rate        `json:"responseRate"`
	PerRun        DistributionStats `json:"perRunResponseRate"`
	RelativeSpeed float64           `json:"relativeSpeed"`
	SpeedTier     string            `json:"speedTier"`
	Stability     string            `json:"stability"`
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

// Summarize describes the runs of one model. average is the response rate of
// the model's summed record; runs with an undefined rate are left out of the distribution.
func Summarize(model string, runs []response.Record, average stats.Rate) ModelSummary {
	values := make([]float64, 0, len(runs))
	for _, rec := range runs {
		if r := stats.Compute(rec).ResponseRate; r.Defined {
			values = append(values, r.Value)
		}
	}
	dist := distributionStats(values)
	return ModelSummary{
		Model:        model,
		Runs:         len(runs),
		ResponseRate: average,
		PerRun:       dist,
		Stability:    classifyStability(dist.StdDev, dist.Mean),
	}
}

// Rank fills the relative speed fields and orders summaries fastest first.
// Models without a defined rate sort last, keeping their input order.
func Rank(summaries []ModelSummary) []ModelSummary {
	ranked := make([]ModelSummary, len(summaries))
	copy(ranked, summaries)

	fastest := 0.0
	for _, s := range ranked {
		if s.ResponseRate.Defined && s.ResponseRate.Value > fastest {
			fastest = s.ResponseRate.Value
		}
	}
	for i := range ranked {
		if !ranked[i].ResponseRate.Defined || fastest == 0 {
			ranked[i].SpeedTier = "n/a"
			continue
		}
		ranked[i].RelativeSpeed = ranked[i].ResponseRate.Value / fastest
		ranked[i].SpeedTier = classifySpeedTier(ranked[i].RelativeSpeed)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].ResponseRate, ranked[j].ResponseRate
		if a.Defined != b.Defined {
			return a.Defined
		}
		return a.Value > b.Value
	})
	return ranked
}

// WriteTable renders ranked summaries as a bordered table.
func WriteTable(w io.Writer, ranked []ModelSummary) error {
	if len(ranked) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(ranked))
	for i, s := range ranked {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			s.Model,
			fmt.Sprintf("%d", s.Runs),
			s.ResponseRate.String(),
			fmt.Sprintf("%.2f", s.PerRun.P50),
			fmt.Sprintf("%.2f", s.PerRun.P95),
			fmt.Sprintf("%.0f%%", s.RelativeSpeed*100),
			s.SpeedTier,
			s.Stability,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "MODEL", "RUNS", "RESPONSE", "P50 T/S", "P95 T/S", "RELATIVE", "TIER", "STABILITY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// classifySpeedTier buckets a model by its throughput relative to the fastest model.
func classifySpeedTier(relative float64) string {
	switch {
	case relative >= 0.75:
		return "top"
	case relative >= 0.4:
		return "mid"
	default:
		return "slow"
	}
}

// classifyStability buckets the coefficient of variation of per-run rates.
func classifyStability(stddev, avg float64) string {
	if avg <= 0 {
		if stddev == 0 {
			return "stable"
		}
		return "unstable"
	}
	cv := stddev / avg
	switch {
	case cv < 0.1:
		return "stable"
	case cv < 0.25:
		return "moderate"
	default:
		return "unstable"
	}
}

func distributionStats(values []float64) DistributionStats {
	if len(values) == 0 {
		return DistributionStats{}
	}
	meanVal := mean(values)
	return DistributionStats{
		Count:  len(values),
		Mean:   meanVal,
		StdDev: stddev(values, meanVal),
		Min:    minValue(values),
		Max:    maxValue(values),
		P50:    percentile(values, 50),
		P95:    percentile(values, 95),
	}
}

// percentile interpolates linearly between the closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if len(sorted) == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	pos := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	weight := pos - float64(lower)
	return sorted[lower] + weight*(sorted[upper]-sorted[lower])
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation; fewer than two values give 0.
func stddev(values []float64, meanVal float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		diff := v - meanVal
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func minValue(values []float64) float64 {
	minVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
	}
	return minVal
}

func maxValue(values []float64) float64 {
	maxVal := values[0]
	for _, v := range values[1:] {
		maxVal = math.Max(maxVal, v)
	}
	return maxVal
}
