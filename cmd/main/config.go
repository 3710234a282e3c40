package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/CTAG07/lexichain/pkg/markov"
	"github.com/natefinch/atomic"
)

// Config holds everything a single training and generation run needs.
type Config struct {
	CorpusPath              string `json:"corpus_path"`
	SoftLimit               int    `json:"soft_limit"`
	HardLimit               int    `json:"hard_limit"`
	Sentinel                string `json:"sentinel"`
	Seed                    uint64 `json:"seed"`
	NormalizeUnicode        bool   `json:"normalize_unicode"`
	UnicodeWords            bool   `json:"unicode_words"`
	MaxChunkSize            int    `json:"max_chunk_size"`
	DeadEndFallback         bool   `json:"dead_end_fallback"`
	LogLevel                string `json:"log_level"`
	OutputPath              string `json:"output_path"`
	DumpModel               bool   `json:"dump_model"`
	DiagnosticsDatabasePath string `json:"diagnostics_database_path"`
	HistogramPath           string `json:"histogram_path"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		CorpusPath:   "text.txt",
		SoftLimit:    markov.DefaultSoftLimit,
		HardLimit:    0,
		Sentinel:     markov.DefaultSentinel,
		Seed:         0,
		MaxChunkSize: markov.DefaultMaxChunkSize,
		LogLevel:     "info",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Defaults are still usable without the file.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Validate rejects settings the generator cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.CorpusPath == "" {
		errs = append(errs, errors.New("corpus_path must not be empty"))
	}
	if c.Sentinel == "" {
		errs = append(errs, errors.New("sentinel must not be empty"))
	}
	if c.SoftLimit < 0 {
		errs = append(errs, fmt.Errorf("soft_limit must not be negative, got %d", c.SoftLimit))
	}
	if c.HardLimit < 0 {
		errs = append(errs, fmt.Errorf("hard_limit must not be negative, got %d", c.HardLimit))
	}
	if c.MaxChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("max_chunk_size must be positive, got %d", c.MaxChunkSize))
	}
	return errors.Join(errs...)
}

// tokenizer builds the corpus tokenizer from the word class and chunk size settings.
func (c *Config) tokenizer() *markov.DefaultTokenizer {
	opts := []markov.Option{markov.WithMaxChunkSize(c.MaxChunkSize)}
	if c.UnicodeWords {
		opts = append(opts, markov.WithLexemeRegex(markov.UnicodeLexemeRegex))
	}
	return markov.NewDefaultTokenizer(opts...)
}

// logLevel maps the configured level name to a slog level, defaulting to info.
func (c *Config) logLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
