// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rle CLI: duplicate reports over
// a research paper library, plus the commands that populate the library.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/georgegian2018/research-library-engine/internal/logging"
	"github.com/georgegian2018/research-library-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the merged configuration, loaded before every command runs.
	cfg types.Config

	// logger writes to stderr so report output on stdout stays clean.
	logger = zerolog.Nop()
)

// rootCmd is the base command for the rle CLI.
var rootCmd = &cobra.Command{
	Use:   "rle",
	Short: "Research library engine: find possible duplicate papers",
	Long: `rle keeps a local library of research paper records and reports pairs of
records that likely describe the same work. Records come from the library
database or straight from YAML, JSON, or Parquet files.

Configuration is read from rle.yaml (current directory or ~/.config/rle/),
then RLE_* environment variables (a .env file is honored), then flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotEnv(".env"); err != nil {
			return err
		}

		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Log.Format, cfg.Log.Level)
		if err != nil {
			return err
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("path", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rle.yaml or ~/.config/rle/rle.yaml)")
	rootCmd.PersistentFlags().String("db", "", "library database path (default library/library.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")

	mustBind("library.db_path", rootCmd.PersistentFlags().Lookup("db"))
	mustBind("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBind("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rle")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rle"))
		}
	}

	viper.SetEnvPrefix("RLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

// loadDotEnv exports the variables in path. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
