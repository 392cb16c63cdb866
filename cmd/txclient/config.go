package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	tx "github.com/gofhir/txclient"
	"github.com/gofhir/txclient/pkg/logger"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// EnvPrefix prefixes every environment variable, e.g. TXCLIENT_ENDPOINT.
const EnvPrefix = "TXCLIENT"

// Config holds CLI configuration.
type Config struct {
	Endpoint    string        `mapstructure:"endpoint"`
	Cert        string        `mapstructure:"cert"`
	Key         string        `mapstructure:"key"`
	Verbose     bool          `mapstructure:"verbose"`
	Timeout     time.Duration `mapstructure:"timeout"`
	EscapeQuery bool          `mapstructure:"escape-query"`
	LogLevel    string        `mapstructure:"log-level"`
	LogFormat   string        `mapstructure:"log-format"`
	Output      string        `mapstructure:"output"`
	Metrics     bool          `mapstructure:"metrics"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("endpoint", tx.DefaultEndpoint)
	v.SetDefault("cert", "")
	v.SetDefault("key", "")
	v.SetDefault("verbose", true)
	v.SetDefault("timeout", tx.DefaultTimeout)
	v.SetDefault("escape-query", true)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", string(logger.FormatConsole))
	v.SetDefault("output", OutputText)
	v.SetDefault("metrics", false)
	return v
}

// LoadConfig resolves configuration from flags, TXCLIENT_* variables, an
// optional config file and defaults, in that order of precedence.
// configFile may be empty; then txclient.yaml in the working directory is
// read if it exists.
func LoadConfig(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("txclient")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Cert = certOrDefault(cfg.Cert, ".")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// certOrDefault returns cert, or the default certificate in dir when cert
// is empty and that file exists.
func certOrDefault(cert, dir string) string {
	if cert != "" {
		return cert
	}
	path := filepath.Join(dir, tx.DefaultCertFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Validate checks option values that flags and env cannot type-check.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("output must be %q, %q or %q, got %q", OutputText, OutputJSON, OutputYAML, c.Output)
	}
	switch logger.Format(c.LogFormat) {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("log-format must be %q or %q, got %q", logger.FormatConsole, logger.FormatJSON, c.LogFormat)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	return nil
}

// Logger builds the process logger. It writes to stderr so that command
// output on stdout stays machine-readable.
func (c *Config) Logger() zerolog.Logger {
	level, _ := logger.ParseLevel(c.LogLevel)
	return logger.New(os.Stderr, level, logger.Format(c.LogFormat))
}

// Options converts the configuration to client options.
func (c *Config) Options(l zerolog.Logger, m *tx.Metrics) []tx.Option {
	return []tx.Option{
		tx.WithEndpoint(c.Endpoint),
		tx.WithCertificate(c.Cert, c.Key),
		tx.WithVerbose(c.Verbose),
		tx.WithTimeout(c.Timeout),
		tx.WithEscapeQuery(c.EscapeQuery),
		tx.WithLogger(l),
		tx.WithMetrics(m),
	}
}
