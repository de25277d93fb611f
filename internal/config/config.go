package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file created by `finsplit init`.
const FileName = "finsplit.yaml"

// Environment variables that override the file.
const (
	EnvDBPath    = "FINSPLIT_DB_PATH"
	EnvLogLevel  = "FINSPLIT_LOG_LEVEL"
	EnvLogFormat = "FINSPLIT_LOG_FORMAT"
	EnvOwner     = "FINSPLIT_OWNER"
	EnvBank      = "FINSPLIT_BANK"
)

// Config represents the top-level finsplit.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Import   ImportConfig   `yaml:"import"`
	Parser   ParserConfig   `yaml:"parser"`
}

// DatabaseConfig locates the ledger database.
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"` // relative paths resolve against the project dir
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// ImportConfig holds defaults for `finsplit import`.
type ImportConfig struct {
	Owner    string `yaml:"owner,omitempty"`
	Bank     string `yaml:"bank,omitempty" validate:"omitempty,oneof=one_c raiffeisen"`
	Dir      string `yaml:"dir" validate:"required"`
	Parallel int    `yaml:"parallel" validate:"min=1,max=32"`
}

// ParserConfig tunes the statement parsers.
type ParserConfig struct {
	MetadataRows    int    `yaml:"metadata_rows" validate:"min=0,max=200"`
	DefaultCurrency string `yaml:"default_currency" validate:"len=3,uppercase"`
}

var validate = validator.New()

// Load reads a finsplit.yaml file, fills unset fields from Default, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "finsplit.db"},
		Log:      LogConfig{Level: "info", Format: "console"},
		Import:   ImportConfig{Dir: ".", Parallel: 1},
		Parser:   ParserConfig{MetadataRows: 9, DefaultCurrency: "RUB"},
	}
}

// LoadDotEnv loads dir/.env into the process environment. A missing file is
// not an error; variables already set are kept.
func LoadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment, read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.Database.Path, EnvDBPath)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.Format, EnvLogFormat)
	set(&c.Import.Owner, EnvOwner)
	set(&c.Import.Bank, EnvBank)
}

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	var merr *multierror.Error
	for _, fe := range verrs {
		merr = multierror.Append(merr, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %w", merr)
}

// DatabasePath resolves the database path against the project dir.
func (c *Config) DatabasePath(dir string) string {
	if c.Database.Path == ":memory:" || filepath.IsAbs(c.Database.Path) {
		return c.Database.Path
	}
	return filepath.Join(dir, c.Database.Path)
}
