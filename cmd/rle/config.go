// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

func setDefaults() {
	d := types.DefaultDedupConfig()
	viper.SetDefault("dedup.threshold", d.Threshold)
	viper.SetDefault("dedup.workers", d.Workers)
	viper.SetDefault("dedup.chunk_size", d.ChunkSize)
	viper.SetDefault("dedup.shingle_size", d.ShingleSize)
	viper.SetDefault("dedup.exclude_doi_matches", d.ExcludeDOIMatches)
	viper.SetDefault("dedup.weights.title", d.Weights.Title)
	viper.SetDefault("dedup.weights.year", d.Weights.Year)
	viper.SetDefault("dedup.weights.venue", d.Weights.Venue)
	viper.SetDefault("dedup.weights.author", d.Weights.Author)

	viper.SetDefault("library.db_path", "library/library.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("serve.host", "127.0.0.1")
	viper.SetDefault("serve.port", 8085)
}

// loadConfig merges defaults, the config file, RLE_* variables and bound
// flags, then validates the result.
func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Dedup.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid dedup config: %w", err)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return types.Config{}, fmt.Errorf("invalid serve config: port must be between 0 and 65535 (got %d)", c.Serve.Port)
	}
	return c, nil
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}
