// internal/cli/show_config.go
package ollamabench

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/spf13/cobra"
)

// showConfigCmd prints the merged configuration so flag and env overrides can be checked.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags and environment variables accordingly.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		out := cmd.OutOrStdout()
		appconfig.ShowConfig(out, *cfg)
		if cfg.Debug {
			fmt.Fprintln(out)
			pp.Fprintln(out, *cfg)
		}
		return nil
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
