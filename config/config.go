// Package config loads the tl configuration.
//
// Values come, by increasing priority, from built-in defaults, the optional
// tradelog.yaml file and TRADELOG_ environment variables, e.g.
// TRADELOG_DIR or TRADELOG_LOG_LEVEL.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/logging"
	"github.com/spf13/viper"
)

// FileName is the configuration file name, without extension.
const FileName = "tradelog"

// Config holds all tl configuration.
type Config struct {
	// Dir is the directory holding the ledger files.
	Dir        string         `mapstructure:"dir"`
	LedgerFile string         `mapstructure:"ledger_file"`
	LegacyFile string         `mapstructure:"legacy_file"`
	Log        logging.Config `mapstructure:"log"`
	Export     ExportConfig   `mapstructure:"export"`
}

// ExportConfig holds the SQLite export configuration.
type ExportConfig struct {
	// SQLitePath is the database file, relative paths are relative to Dir.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DefaultDir returns the default ledger directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tradelog"
	}
	return filepath.Join(home, ".tradelog")
}

func setDefaults(v *viper.Viper) {
	log := logging.DefaultConfig()
	v.SetDefault("dir", DefaultDir())
	v.SetDefault("ledger_file", tradelog.DefaultFileName)
	v.SetDefault("legacy_file", tradelog.LegacyFileName)
	v.SetDefault("log.level", log.Level)
	v.SetDefault("log.console", log.Console)
	v.SetDefault("log.file", log.File)
	v.SetDefault("log.max_size", log.MaxSize)
	v.SetDefault("log.max_backups", log.MaxBackups)
	v.SetDefault("log.max_age", log.MaxAge)
	v.SetDefault("export.sqlite_path", "trades.sqlite")
}

// Load reads the configuration.
//
// An explicit file must exist. Otherwise tradelog.yaml is searched in the
// working directory then in the default ledger directory, and its absence is
// not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TRADELOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read configuration: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("could not decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch {
	case c.Dir == "":
		return errors.New("dir is empty")
	case c.LedgerFile == "":
		return errors.New("ledger_file is empty")
	case c.LedgerFile == c.LegacyFile:
		return fmt.Errorf("ledger_file and legacy_file are both %q", c.LedgerFile)
	case filepath.Base(c.LedgerFile) != c.LedgerFile:
		return fmt.Errorf("ledger_file %q must be a plain file name", c.LedgerFile)
	}
	return nil
}

// ExportPath returns the SQLite export file path.
func (c *Config) ExportPath() string {
	if filepath.IsAbs(c.Export.SQLitePath) {
		return c.Export.SQLitePath
	}
	return filepath.Join(c.Dir, c.Export.SQLitePath)
}
