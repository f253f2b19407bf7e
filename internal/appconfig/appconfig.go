// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultHost is the Ollama endpoint used when neither config nor OLLAMA_HOST name one.
	DefaultHost = "http://localhost:11434"
	// defaultOllamaPort is appended to host values given without a port.
	defaultOllamaPort = "11434"
	// defaultLogFile is where log lines go when the config omits logFile.
	defaultLogFile = "ollamabench.log"
)

// Config represents the top-level application configuration.
type Config struct {
	Host           string   `json:"host" mapstructure:"host"`
	TimeoutSeconds int      `json:"timeout,omitempty" mapstructure:"timeout"`
	Debug          bool     `json:"debug" mapstructure:"debug"`
	Verbose        bool     `json:"verbose" mapstructure:"verbose"`
	SkipModels     []string `json:"skipModels,omitempty" mapstructure:"skipModels"`
	Prompts        []string `json:"prompts,omitempty" mapstructure:"prompts"`
	PromptsFile    string   `json:"promptsFile,omitempty" mapstructure:"promptsFile"`
	ExportPath     string   `json:"export,omitempty" mapstructure:"export"`
	LogFile        string   `json:"logFile,omitempty" mapstructure:"logFile"`
	ConfigPath     string   `json:"-" mapstructure:"-"`
}

// SetDefaults registers the default value of every configuration key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("timeout", 0)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
	v.SetDefault("skipModels", []string{})
	v.SetDefault("prompts", []string{})
	v.SetDefault("promptsFile", "")
	v.SetDefault("export", "")
	v.SetDefault("logFile", "")
}

// FromViper materializes the merged viper state (flags > env > file > defaults) into a Config.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.TimeoutSeconds < 0 {
		return Config{}, fmt.Errorf("invalid configuration: timeout must not be negative (got %d)", cfg.TimeoutSeconds)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	cfg.SkipModels = splitList(cfg.SkipModels)
	return cfg, nil
}

// RequestTimeout returns the per-request timeout. Zero means requests never time out.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// HostURL returns the normalized base URL of the Ollama server.
func (c Config) HostURL() string {
	return NormalizeHost(c.Host)
}

// NormalizeHost turns values such as "0.0.0.0", "localhost:8080" or
// "https://ollama.example.com/" into a base URL without a trailing slash.
func NormalizeHost(raw string) string {
	host := strings.TrimSpace(raw)
	if host == "" {
		return DefaultHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
		if u, err := url.Parse(host); err == nil && u.Port() == "" {
			u.Host = net.JoinHostPort(u.Hostname(), defaultOllamaPort)
			host = u.String()
		}
	}
	return strings.TrimRight(host, "/")
}

// splitList flattens comma separated entries and drops blanks.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
