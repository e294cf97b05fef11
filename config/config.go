// Package config loads folio settings from an optional YAML file, a .env
// file and FOLIO_ environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "folio.yaml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// sections: FOLIO_PDF__WORD_GAP sets pdf.word_gap.
const EnvPrefix = "FOLIO_"

type importConfig struct {
	MaxChapters      int `koanf:"max_chapters" validate:"gte=1,lte=500"`
	MinReadableChars int `koanf:"min_readable_chars" validate:"gte=0"`
	WarnSizeMB       int `koanf:"warn_size_mb" validate:"gte=0"`
}

type pdfConfig struct {
	HeaderRatio   float64 `koanf:"header_ratio" validate:"gte=0,lt=0.5"`
	FooterRatio   float64 `koanf:"footer_ratio" validate:"gte=0,lt=0.5"`
	LineTolerance float64 `koanf:"line_tolerance" validate:"gt=0"`
	WordGap       float64 `koanf:"word_gap" validate:"gte=0"`
}

type s3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Region    string `koanf:"region" validate:"required"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key" validate:"required_with=AccessKey"`
	PathStyle bool   `koanf:"path_style"`
}

type batchConfig struct {
	Concurrency int `koanf:"concurrency" validate:"gte=1,lte=64"`
}

// Config is the full folio configuration.
type Config struct {
	LogLevel string       `koanf:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Import   importConfig `koanf:"import"`
	PDF      pdfConfig    `koanf:"pdf"`
	S3       s3Config     `koanf:"s3"`
	Batch    batchConfig  `koanf:"batch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Import: importConfig{
			MaxChapters:      12,
			MinReadableChars: 20,
			WarnSizeMB:       20,
		},
		PDF: pdfConfig{
			HeaderRatio:   0.10,
			FooterRatio:   0.10,
			LineTolerance: 2.5,
			WordGap:       6,
		},
		S3: s3Config{
			Region:    "us-east-1",
			PathStyle: true,
		},
		Batch: batchConfig{
			Concurrency: 4,
		},
	}
}

// Load reads configuration from path (a missing file is not an error),
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	_ = godotenv.Load()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// envKey maps FOLIO_PDF__WORD_GAP to pdf.word_gap.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks cfg against its struct tags.
func Validate(cfg Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:")
	for _, e := range errs {
		fmt.Fprintf(&sb, "\n  • %s: failed '%s' (value: %v)", e.Namespace(), e.Tag(), e.Value())
	}
	return errors.New(sb.String())
}
