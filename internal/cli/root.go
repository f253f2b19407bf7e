// internal/cli/root.go
package ollamabench

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:          "ollamabench",
	Short:        "ollamabench: token throughput benchmarks for local Ollama models",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(cmd); err != nil {
			return err
		}

		// flags > env > config file > defaults
		cfg, err := appconfig.FromViper(viper.GetViper())
		if err != nil {
			return err
		}
		currentConfig = &cfg

		logging.SetQuiet(!cfg.Debug)
		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		logging.LogEvent("config loaded from %q host=%s", cfg.ConfigPath, cfg.HostURL())
		return nil
	},
}

// SetVersionInfo records build metadata for --version.
func SetVersionInfo(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	appconfig.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")
	rootCmd.PersistentFlags().String("host", "", "Ollama host URL (default "+appconfig.DefaultHost+")")
	rootCmd.PersistentFlags().Int("timeout", 0, "per-request timeout in seconds (0 disables)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "log file path (default ollamabench.log)")
	rootCmd.PersistentFlags().StringSliceP("skip-models", "s", nil, "models to skip (repeatable or comma separated)")

	_ = viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("skipModels", rootCmd.PersistentFlags().Lookup("skip-models"))
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	viper.SetEnvPrefix("OLLAMABENCH")
	viper.AutomaticEnv()
	_ = viper.BindEnv("host", "OLLAMABENCH_HOST", "OLLAMA_HOST")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file. The default path may be absent;
// an explicit --config must exist.
func ensureConfigLoaded(cmd *cobra.Command) error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if missing && !cmd.Flags().Changed("config") {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// getConfig returns the merged configuration materialized by PersistentPreRunE.
func getConfig() *appconfig.Config {
	return currentConfig
}
