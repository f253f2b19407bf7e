package benchmark

import (
	"fmt"
	"io"
	"time"

	"github.com/mwiater/ollamabench/internal/response"
	"github.com/mwiater/ollamabench/internal/stats"
)

var now = time.Now

// Average folds records into one synthetic record whose numeric fields are the
// sums of the inputs. Feeding the result to the stats package divides summed
// tokens by summed durations, which yields the averaged rates. It returns false
// for an empty slice.
func Average(records []response.Record) (response.Record, bool) {
	if len(records) == 0 {
		return response.Record{}, false
	}

	avg := response.Record{
		Model:     records[0].Model,
		CreatedAt: now(),
		Message: response.Message{
			Role:    "system",
			Content: fmt.Sprintf("Average stats across %d runs", len(records)),
		},
		Done: true,
	}
	for _, r := range records {
		avg.TotalDuration += r.TotalDuration
		avg.LoadDuration += r.LoadDuration
		avg.PromptEvalCount += r.PromptEvalCount
		avg.PromptEvalDuration += r.PromptEvalDuration
		avg.EvalCount += r.EvalCount
		avg.EvalDuration += r.EvalDuration
	}
	return avg, true
}

// ReportAverage prints the averaged statistics block for records, or a notice
// when there is nothing to average.
func ReportAverage(w io.Writer, records []response.Record) error {
	avg, ok := Average(records)
	if !ok {
		_, err := fmt.Fprintln(w, "No stats to average")
		return err
	}
	if _, err := fmt.Fprintln(w, "Average stats:"); err != nil {
		return err
	}
	return stats.Write(w, avg)
}
