package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/shade/internal/logging"
	"github.com/roach88/shade/internal/scan"
)

// Config is the resolved configuration: flags override SHADE_* environment
// variables, which override .shade.yaml, which overrides the defaults.
type Config struct {
	Format  string     `mapstructure:"format"`
	Verbose bool       `mapstructure:"verbose"`
	Log     LogConfig  `mapstructure:"log"`
	Scan    ScanConfig `mapstructure:"scan"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ScanConfig struct {
	ImportPath string `mapstructure:"import_path"`
	Lower      bool   `mapstructure:"lower"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Format: "text",
		Log:    LogConfig{Level: "warn"},
		Scan:   ScanConfig{ImportPath: scan.DefaultImportPath},
	}
}

// flagKeys maps config keys to the flag names that override them.
var flagKeys = map[string]string{
	"format":           "format",
	"verbose":          "verbose",
	"log.level":        "log-level",
	"scan.import_path": "import-path",
	"scan.lower":       "lower",
}

// LoadConfig resolves the configuration for one command invocation. An
// explicit cfgFile must exist; otherwise .shade.yaml in the working
// directory is read when present.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".shade")
	}

	v.SetEnvPrefix("SHADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every value is in its allowed set.
func (c *Config) Validate() error {
	if !slices.Contains(ValidFormats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
	}
	if !slices.Contains(logging.Levels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of: %v", logging.Levels)
	}
	if strings.TrimSpace(c.Scan.ImportPath) == "" {
		return errors.New("scan.import_path must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("format", cfg.Format)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("scan.import_path", cfg.Scan.ImportPath)
	v.SetDefault("scan.lower", cfg.Scan.Lower)
}
