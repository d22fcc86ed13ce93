// Package config loads the bookstore settings.
//
// Sources, lowest precedence first: built-in defaults, bookstore.yaml (or
// the file given with --config), BOOKSTORE_* environment variables and
// finally flags that were set on the command line. A .env file in the
// working directory is read into the environment before anything else.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/mickamy/bookstore/internal/integrity"
	"github.com/mickamy/bookstore/internal/store"
	"github.com/mickamy/bookstore/orm"
)

const (
	// DefaultFile is looked up in the working directory when no config
	// file is given explicitly.
	DefaultFile = "bookstore.yaml"

	EnvPrefix = "BOOKSTORE_"

	OutputText = "text"
	OutputJSON = "json"
)

type Config struct {
	Driver     string `koanf:"driver"`
	DSN        string `koanf:"dsn"`
	Resolution string `koanf:"resolution"`
	Cascade    string `koanf:"cascade"`
	Output     string `koanf:"output"`
	Verbose    bool   `koanf:"verbose"`
	DebugSQL   bool   `koanf:"debug_sql"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"driver":     orm.SQLite.Name(),
		"dsn":        "",
		"resolution": string(integrity.Strict),
		"cascade":    string(integrity.Orphan),
		"output":     OutputText,
		"verbose":    false,
		"debug_sql":  false,
	}
}

// Load reads the configuration. cfgFile may be empty; flags may be nil.
// Only flags the user actually set override the other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	path, err := findFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findFile returns the file to read: the explicit path, which must exist,
// or DefaultFile when present.
func findFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile, nil
	}
	return "", nil
}

// Validate rejects unknown enum values.
func (c *Config) Validate() error {
	var errs []error
	if _, err := orm.DialectFor(c.Driver); err != nil {
		errs = append(errs, fmt.Errorf("driver: %w", err))
	}
	if _, err := integrity.ParseResolution(c.Resolution); err != nil {
		errs = append(errs, fmt.Errorf("resolution: %w", err))
	}
	if _, err := integrity.ParseCascade(c.Cascade); err != nil {
		errs = append(errs, fmt.Errorf("cascade: %w", err))
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("output: unknown format %q (want %s or %s)", c.Output, OutputText, OutputJSON))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Policy returns the integrity policy selected by the configuration.
func (c *Config) Policy() integrity.Policy {
	r, _ := integrity.ParseResolution(c.Resolution)
	cs, _ := integrity.ParseCascade(c.Cascade)
	return integrity.Policy{Resolution: r, Cascade: cs}
}

// Store returns the store settings selected by the configuration.
func (c *Config) Store() store.Config {
	return store.Config{Driver: c.Driver, DSN: c.DSN, DebugSQL: c.DebugSQL}
}
