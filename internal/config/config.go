// Package config loads formfill settings from flags, FORMKIT_* environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wudi/formkit/observability"
)

const (
	ModeFull        = "full"
	ModeIncremental = "incremental"

	DefaultLogLevel = "info"
	DefaultProducer = "formkit"

	envPrefix = "FORMKIT"
)

// ErrHelp is returned when usage was requested.
var ErrHelp = pflag.ErrHelp

// Config holds the settings of one formfill run.
type Config struct {
	Input  string
	Output string
	// Values maps fully qualified field names to their new values.
	Values        map[string]string
	Mode          string
	List          bool
	Calculate     bool
	Regenerate    bool
	Compression   int
	Deterministic bool
	Producer      string
	LogLevel      string
	ConfigFile    string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Values:   map[string]string{},
		Mode:     ModeIncremental,
		Producer: DefaultProducer,
		LogLevel: DefaultLogLevel,
	}
}

// Load parses args (without the program name) and merges environment and
// config file settings. Positional arguments name the input and output
// files when the flags are absent.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()
	fs := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}
	populate(v, cfg)

	rest := fs.Args()
	if cfg.Input == "" && len(rest) > 0 {
		cfg.Input, rest = rest[0], rest[1:]
	}
	if cfg.Output == "" && len(rest) > 0 {
		cfg.Output, rest = rest[0], rest[1:]
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("config: unexpected arguments %q", rest)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("formfill", pflag.ContinueOnError)
	fs.String("config", "", "Config file (yaml, json or toml)")
	fs.StringP("input", "i", "", "PDF to fill")
	fs.StringP("output", "o", "", "Where to write the filled PDF")
	fs.StringToStringP("set", "s", nil, "Field value as name=value; repeatable")
	fs.String("mode", cfg.Mode, "Save mode: 'full' or 'incremental'")
	fs.Bool("list", false, "List the form fields and exit")
	fs.Bool("calculate", false, "Run the calculate scripts of the form after setting values")
	fs.Bool("regenerate", false, "Rebuild the appearance of every field before saving")
	fs.Int("compression", cfg.Compression, "zlib level for written streams, 0 disables")
	fs.Bool("deterministic", false, "Derive the file identifier from the content")
	fs.String("producer", cfg.Producer, "Value written to /Producer")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.SortFlags = false
	return fs
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("producer", cfg.Producer)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("compression", cfg.Compression)
}

func populate(v *viper.Viper, cfg *Config) {
	cfg.ConfigFile = v.GetString("config")
	cfg.Input = v.GetString("input")
	cfg.Output = v.GetString("output")
	for name, val := range v.GetStringMapString("set") {
		cfg.Values[name] = val
	}
	cfg.Mode = strings.ToLower(v.GetString("mode"))
	cfg.List = v.GetBool("list")
	cfg.Calculate = v.GetBool("calculate")
	cfg.Regenerate = v.GetBool("regenerate")
	cfg.Compression = v.GetInt("compression")
	cfg.Deterministic = v.GetBool("deterministic")
	cfg.Producer = v.GetString("producer")
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("an input file is required")
	}
	if !c.List && c.Output == "" {
		return errors.New("an output file is required")
	}
	if !c.List && c.Output == c.Input {
		return errors.New("output must differ from input")
	}
	if c.Mode != ModeFull && c.Mode != ModeIncremental {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeFull, ModeIncremental, c.Mode)
	}
	if c.Compression < -1 || c.Compression > 9 {
		return fmt.Errorf("compression must be between -1 and 9, got %d", c.Compression)
	}
	if _, err := observability.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// IsIncremental reports whether the output appends to the input.
func (c *Config) IsIncremental() bool { return c.Mode == ModeIncremental }

func (c *Config) String() string {
	return fmt.Sprintf("Config{Input: %s, Output: %s, Fields: %d, Mode: %s, LogLevel: %s}",
		c.Input, c.Output, len(c.Values), c.Mode, c.LogLevel)
}
