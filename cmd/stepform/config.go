package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/renderers/tui"
	"github.com/goliatone/go-stepform/pkg/rules"
)

const envPrefix = "STEPFORM"

// Config is the merged view of flags, STEPFORM_* environment variables and
// the optional config file, in that order of precedence.
type Config struct {
	Catalog     string        `mapstructure:"catalog"`
	PostcodeMin int           `mapstructure:"postcode-min"`
	PostcodeMax int           `mapstructure:"postcode-max"`
	Output      string        `mapstructure:"output" validate:"omitempty,oneof=json pretty form"`
	Addr        string        `mapstructure:"addr"`
	LogLevel    string        `mapstructure:"log-level" validate:"omitempty,oneof=debug info warn error"`
	SessionTTL  time.Duration `mapstructure:"session-ttl" validate:"gte=0"`
}

// PostcodeRange returns the configured override, or false when neither bound
// is set and the catalog range applies.
func (c Config) PostcodeRange() (rules.PostcodeRange, bool) {
	r := rules.PostcodeRange{Min: c.PostcodeMin, Max: c.PostcodeMax}
	if r.IsZero() {
		return r, false
	}
	return r, true
}

func bindPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("catalog", "", "rule catalog file; the built-in contact form when empty")
	flags.Int("postcode-min", 0, "lowest accepted postcode, overrides the catalog")
	flags.Int("postcode-max", 0, "highest accepted postcode, overrides the catalog")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
}

// loadConfig resolves configuration for cmd through v.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (Config, error) {
	var cfg Config

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return cfg, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	if r, ok := cfg.PostcodeRange(); ok && r.Min > r.Max {
		return cfg, fmt.Errorf("invalid config: postcode-min %d is above postcode-max %d", r.Min, r.Max)
	}
	return cfg, nil
}

func loadCatalog(cfg Config) (catalog.Catalog, error) {
	if strings.TrimSpace(cfg.Catalog) == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.Catalog)
}

func outputFormat(cfg Config) tui.OutputFormat {
	format, _ := tui.ParseOutputFormat(cfg.Output)
	return format
}

// newLogger builds a console logger on stderr; debug switches to the
// development encoder.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
