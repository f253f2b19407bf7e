// internal/cli/benchmark.go
package ollamabench

import (
	"os"
	"os/signal"

	"github.com/mwiater/ollamabench/internal/benchmark"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// benchmarkCmd sends every prompt to every installed model that is not skipped
// and prints per-model averages.
var benchmarkCmd = &cobra.Command{
	Use:     "benchmark",
	Aliases: []string{"run"},
	Short:   "Benchmark installed Ollama models against a prompt set",
	Long: `The 'benchmark' command sends each prompt to each installed model (minus the skip list),
reads the timing metadata Ollama returns, and prints tokens per second for the prompt,
response and total phases plus an average per model.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return benchmark.RunBenchmark(ctx, getConfig(), cmd.OutOrStdout())
	},
}

func init() {
	benchmarkCmd.Flags().BoolP("verbose", "v", false, "stream each response and print per-call stats")
	benchmarkCmd.Flags().StringArrayP("prompts", "p", nil, "prompt to send (repeatable; may contain commas)")
	benchmarkCmd.Flags().String("prompts-file", "", "file with one prompt per line")
	benchmarkCmd.Flags().String("export", "", "write JSON results to this file or directory")

	_ = viper.BindPFlag("verbose", benchmarkCmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("prompts", benchmarkCmd.Flags().Lookup("prompts"))
	_ = viper.BindPFlag("promptsFile", benchmarkCmd.Flags().Lookup("prompts-file"))
	_ = viper.BindPFlag("export", benchmarkCmd.Flags().Lookup("export"))

	rootCmd.AddCommand(benchmarkCmd)
}
