// internal/benchmark/benchmark.go

// Package benchmark runs every prompt of a prompt set against every installed
// model, one request at a time, and reports per-run and averaged throughput.
package benchmark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/ollamabench/internal/metrics"
	"github.com/mwiater/ollamabench/internal/response"
	"github.com/mwiater/ollamabench/internal/stats"
)

// Server is the inference server a benchmark run talks to.
type Server interface {
	ChatServer
	ListModels(ctx context.Context) ([]string, error)
}

var (
	warnColor = color.New(color.FgYellow)
	slugChars = regexp.MustCompile(`[^a-z0-9_]+`)
	slugDash  = regexp.MustCompile(`-+`)
)

// SelectModels returns installed without any name listed in skip, keeping order.
func SelectModels(installed, skip []string) []string {
	skipped := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		skipped[name] = struct{}{}
	}
	selected := make([]string, 0, len(installed))
	for _, name := range installed {
		if _, ok := skipped[name]; ok {
			continue
		}
		selected = append(selected, name)
	}
	return selected
}

// Execute benchmarks every selected model against every prompt in order, then
// prints the averaged statistics of each model, followed by a ranking table
// when more than one model was benchmarked. Calls that fail are reported,
// recorded as skipped and left out of the averages. When ctx is cancelled the
// run stops, averages of what was collected are still printed, and ctx's error
// is returned alongside the partial results.
func Execute(ctx context.Context, server Server, plan Plan, out io.Writer) (*Results, error) {
	installed, err := server.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	models := SelectModels(installed, plan.SkipModels)
	fmt.Fprintf(out, "Evaluating models: [%s]\n\n", strings.Join(models, ", "))
	log.Printf("Running benchmark with models: %s", strings.Join(models, ", "))

	results := &Results{
		Models:      models,
		PromptCount: len(plan.Prompts),
		ByModel:     make(map[string]*ModelResult, len(models)),
	}
	for _, model := range models {
		results.ByModel[model] = &ModelResult{Model: model, Runs: []response.Record{}}
	}

	runner := &Runner{
		Server: server,
		Out:    out,
		Debug:  plan.Debug,
		Warn: func(err error) {
			warnColor.Fprintf(out, "\nWarning: %v\n\n", err)
			log.Printf("warning: %v", err)
		},
	}

	var bar *progressLine
	if !plan.Verbose {
		bar = newProgressLine(out, len(models)*len(plan.Prompts))
	}

	runErr := run(ctx, runner, results, plan, bar, out)

	bar.interrupt()
	for _, model := range models {
		if err := ReportAverage(out, results.ByModel[model].Runs); err != nil {
			return results, err
		}
	}
	results.finalize()

	if len(results.Summary) > 1 {
		fmt.Fprintln(out, "\nSummary:")
		if err := metrics.WriteTable(out, results.Summary); err != nil {
			return results, err
		}
	}
	return results, runErr
}

func run(ctx context.Context, runner *Runner, results *Results, plan Plan, bar *progressLine, out io.Writer) error {
	for _, model := range results.Models {
		modelResult := results.ByModel[model]
		for i, prompt := range plan.Prompts {
			if err := ctx.Err(); err != nil {
				return err
			}
			if plan.Verbose {
				fmt.Fprintf(out, "\n\nBenchmarking: %s\nPrompt: %s\n", model, prompt)
			}

			rec, err := runner.Run(ctx, model, prompt, plan.Verbose)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				bar.interrupt()
				if !errors.Is(err, response.ErrEmptyResponse) {
					errorColor.Fprintf(out, "Skipping prompt %d for %s: %v\n", i+1, model, err)
				}
				log.Printf("prompt %d for model %s skipped: %v", i+1, model, err)
				modelResult.Skipped = append(modelResult.Skipped, SkippedPrompt{Prompt: prompt, Error: err.Error()})
				bar.step(model, prompt)
				continue
			}
			modelResult.Runs = append(modelResult.Runs, rec)

			if plan.Verbose {
				fmt.Fprintf(out, "\nResponse: %s\n", rec.Message.Content)
				if err := stats.Write(out, rec); err != nil {
					return err
				}
			}
			bar.step(model, prompt)
		}
	}
	return nil
}

// WriteResults writes results as indented JSON. When path is an existing
// directory, or ends in a separator, the file is named after the models and
// prompt count. It returns the file written.
func WriteResults(results *Results, path string) (string, error) {
	fileName := path
	if info, err := os.Stat(path); (err == nil && info.IsDir()) || strings.HasSuffix(path, string(os.PathSeparator)) || strings.HasSuffix(path, "/") {
		fileName = filepath.Join(path, fmt.Sprintf("%s-%d.json", Slugify(strings.Join(results.Models, "-")), results.PromptCount))
	}

	if dir := filepath.Dir(fileName); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("error creating results directory: %w", err)
		}
	}

	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("error creating result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return "", fmt.Errorf("error writing results to file: %w", err)
	}

	log.Printf("Benchmark results written to %s", fileName)
	return fileName, nil
}

// Slugify converts a string into a "slug" format,
// including replacing colons (:) with underscores (_).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "_")
	s = slugChars.ReplaceAllString(s, "-")
	s = slugDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")
	return s
}
