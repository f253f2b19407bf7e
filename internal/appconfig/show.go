package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, cfg Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	timeout := "none"
	if d := cfg.RequestTimeout(); d > 0 {
		timeout = d.String()
	}
	promptSource := "built-in defaults"
	switch {
	case cfg.PromptsFile != "":
		promptSource = cfg.PromptsFile
	case len(cfg.Prompts) > 0:
		promptSource = fmt.Sprintf("%d configured prompts", len(cfg.Prompts))
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Host:            %s\n", cfg.HostURL())
	fmt.Fprintf(out, "  Request Timeout: %s\n", timeout)
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Verbose:         %v\n", cfg.Verbose)
	fmt.Fprintf(out, "  Skip Models:     %v\n", cfg.SkipModels)
	fmt.Fprintf(out, "  Prompts:         %s\n", promptSource)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	if cfg.ExportPath != "" {
		fmt.Fprintf(out, "  Export:          %s\n", cfg.ExportPath)
	}
}
