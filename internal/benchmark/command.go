package benchmark

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/ollama"
	"github.com/mwiater/ollamabench/internal/prompts"
)

var newServer = func(cfg *appconfig.Config) Server {
	return ollama.New(cfg)
}

// RunBenchmark is the CLI entry point for a benchmark run.
func RunBenchmark(ctx context.Context, cfg *appconfig.Config, out io.Writer) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}

	promptSet, err := prompts.Resolve(cfg.Prompts, cfg.PromptsFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nVerbose: %v\nSkip models: %v\nPrompts: %d\n", cfg.Verbose, cfg.SkipModels, len(promptSet))
	log.Printf("benchmark against %s with %d prompts (verbose=%v)", cfg.HostURL(), len(promptSet), cfg.Verbose)

	plan := Plan{
		SkipModels: cfg.SkipModels,
		Prompts:    promptSet,
		Verbose:    cfg.Verbose,
		Debug:      cfg.Debug,
	}
	results, runErr := Execute(ctx, newServer(cfg), plan, out)

	if results != nil && cfg.ExportPath != "" {
		fileName, err := WriteResults(results, cfg.ExportPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Results written to %s\n", fileName)
	}
	return runErr
}

// ListModels prints the installed models that a benchmark run would evaluate.
func ListModels(ctx context.Context, cfg *appconfig.Config, out io.Writer) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}
	installed, err := newServer(cfg).ListModels(ctx)
	if err != nil {
		return err
	}
	for _, name := range SelectModels(installed, cfg.SkipModels) {
		fmt.Fprintf(out, "- %s\n", name)
	}
	return nil
}
