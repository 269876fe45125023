// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math"
)

// DefaultThreshold is the report threshold used when the caller supplies none.
const DefaultThreshold = 0.85

// ScoreWeights holds the tunable weights of the pairwise similarity score.
type ScoreWeights struct {
	// Title multiplies the shingle Jaccard similarity of the titles (default 1.0).
	Title float64 `json:"title" yaml:"title" mapstructure:"title"`

	// Year is added when both papers have the same publication year (default 0.05).
	Year float64 `json:"year" yaml:"year" mapstructure:"year"`

	// Venue is added when both papers have the same normalized venue (default 0.05).
	Venue float64 `json:"venue" yaml:"venue" mapstructure:"venue"`

	// Author multiplies the author overlap ratio (default 0, disabled).
	Author float64 `json:"author" yaml:"author" mapstructure:"author"`
}

// DefaultWeights returns the default score weights.
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		Title:  1.0,
		Year:   0.05,
		Venue:  0.05,
		Author: 0,
	}
}

// Validate checks that every weight is finite and within [0, 1].
func (w ScoreWeights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"title", w.Title},
		{"year", w.Year},
		{"venue", w.Venue},
		{"author", w.Author},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 || f.value > 1 {
			return fmt.Errorf("weights.%s must be between 0.0 and 1.0 (got %v)", f.name, f.value)
		}
	}
	return nil
}

// DedupConfig holds settings for the duplicate report engine.
type DedupConfig struct {
	// Threshold is the minimum score for a pair to be reported (default 0.85).
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`

	// Workers is the number of parallel normalization and scoring workers.
	// Zero uses GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// ChunkSize is the number of candidate pairs scored per work unit (default 512).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" mapstructure:"chunk_size"`

	// ShingleSize is the character n-gram length used for title shingles (default 3).
	ShingleSize int `json:"shingle_size" yaml:"shingle_size" mapstructure:"shingle_size"`

	// ExcludeDOIMatches drops pairs already known to be duplicates by DOI.
	ExcludeDOIMatches bool `json:"exclude_doi_matches" yaml:"exclude_doi_matches" mapstructure:"exclude_doi_matches"`

	// Weights configures the pairwise score.
	Weights ScoreWeights `json:"weights" yaml:"weights" mapstructure:"weights"`
}

// DefaultDedupConfig returns the default engine configuration.
func DefaultDedupConfig() DedupConfig {
	return DedupConfig{
		Threshold:   DefaultThreshold,
		Workers:     0,
		ChunkSize:   512,
		ShingleSize: 3,
		Weights:     DefaultWeights(),
	}
}

// Validate checks the configuration for out-of-range values.
func (c DedupConfig) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be between 0.0 and 1.0 (got %v)", c.Threshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative (got %d)", c.Workers)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive (got %d)", c.ChunkSize)
	}
	if c.ShingleSize < 1 || c.ShingleSize > 16 {
		return fmt.Errorf("shingle_size must be between 1 and 16 (got %d)", c.ShingleSize)
	}
	return c.Weights.Validate()
}

// LibraryConfig holds settings for the SQLite record store.
type LibraryConfig struct {
	// DBPath is the path of the library database file.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format selects "console" or "json" output.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// ServeConfig holds settings for the HTTP report endpoint.
type ServeConfig struct {
	Host string `json:"host" yaml:"host" mapstructure:"host"`
	Port int    `json:"port" yaml:"port" mapstructure:"port"`
}

// Config groups all configuration sections.
type Config struct {
	Dedup   DedupConfig   `json:"dedup" yaml:"dedup" mapstructure:"dedup"`
	Library LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Serve   ServeConfig   `json:"serve" yaml:"serve" mapstructure:"serve"`
}
