// internal/cli/list.go
package ollamabench

import (
	"fmt"

	"github.com/mwiater/ollamabench/internal/benchmark"
	"github.com/mwiater/ollamabench/internal/prompts"
	"github.com/spf13/cobra"
)

// listCmd groups the subcommands that enumerate resources.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources",
}

// listModelsCmd prints the models a benchmark run would evaluate.
var listModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List installed models, minus the skip list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return benchmark.ListModels(cmd.Context(), getConfig(), cmd.OutOrStdout())
	},
}

// listPromptsCmd prints the prompt set from the config file, or the built-in one.
var listPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the prompts a benchmark run would send",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		set, err := prompts.Resolve(cfg.Prompts, cfg.PromptsFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, p := range set {
			fmt.Fprintf(out, "%3d. %s\n", i+1, p)
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(listModelsCmd)
	listCmd.AddCommand(listPromptsCmd)
	rootCmd.AddCommand(listCmd)
}
