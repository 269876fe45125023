// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/georgegian2018/research-library-engine/internal/corpus"
	"github.com/georgegian2018/research-library-engine/internal/dedup"
	"github.com/georgegian2018/research-library-engine/internal/library"
	"github.com/georgegian2018/research-library-engine/pkg/types"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Report possible duplicate papers",
	Long: `Dedup scores pairs of papers that share a DOI, a publication year, or a
distinctive title word, and lists every pair scoring at or above the
threshold, highest score first. Pairs with the same normalized DOI always
score 1.0.

Records come from the library database, optionally scoped to a project, or
from --input files (YAML directory, .json, .jsonl, .yaml, .parquet).`,
	Args: cobra.NoArgs,
	RunE: runDedup,
}

func runDedup(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	inputs, _ := cmd.Flags().GetStringSlice("input")
	groups, _ := cmd.Flags().GetBool("groups")
	format, _ := cmd.Flags().GetString("format")
	runMetadata, _ := cmd.Flags().GetBool("run-metadata")

	switch format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}
	if project != "" && len(inputs) > 0 {
		return fmt.Errorf("--project and --input cannot be combined")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := loadRecords(ctx, inputs, project)
	if err != nil {
		return err
	}

	report, err := dedup.Run(ctx, records, dedup.Options{
		DedupConfig: cfg.Dedup,
		Groups:      groups,
		RunMetadata: runMetadata,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return dedup.FormatJSON(report, out)
	case "yaml":
		return dedup.FormatYAML(report, out)
	default:
		dedup.FormatTable(report, out)
		return nil
	}
}

// loadRecords reads the snapshot from input files when given, otherwise
// from the library database.
func loadRecords(ctx context.Context, inputs []string, project string) ([]types.Record, error) {
	if len(inputs) > 0 {
		records, err := corpus.LoadAll(inputs...)
		if err != nil {
			return nil, err
		}
		logger.Debug().Strs("inputs", inputs).Int("records", len(records)).Msg("loaded records from files")
		return records, nil
	}

	store, err := library.NewStore(cfg.Library)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	records, err := store.ListRecords(ctx, library.ListOptions{Project: project})
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("db", cfg.Library.DBPath).Str("project", project).Int("records", len(records)).Msg("loaded records from library")
	return records, nil
}

func init() {
	dedupCmd.Flags().Float64("threshold", types.DefaultThreshold, "minimum score for a pair to be reported, in [0, 1]")
	dedupCmd.Flags().String("project", "", "limit the report to papers in this project")
	dedupCmd.Flags().StringSlice("input", nil, "read records from these files or directories instead of the library")
	dedupCmd.Flags().Bool("groups", false, "also fold pairs into duplicate groups")
	dedupCmd.Flags().Bool("exclude-doi", false, "omit pairs that already share a DOI")
	dedupCmd.Flags().Bool("run-metadata", false, "include the run ID and elapsed time in the report")
	dedupCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	dedupCmd.Flags().Int("workers", 0, "parallel scoring workers (0 = number of CPUs)")

	mustBind("dedup.threshold", dedupCmd.Flags().Lookup("threshold"))
	mustBind("dedup.exclude_doi_matches", dedupCmd.Flags().Lookup("exclude-doi"))
	mustBind("dedup.workers", dedupCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(dedupCmd)
}
