// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/georgegian2018/research-library-engine/internal/corpus"
	"github.com/georgegian2018/research-library-engine/internal/library"
)

var importCmd = &cobra.Command{
	Use:   "import PATH...",
	Short: "Import paper records into the library",
	Long: `Import loads records from YAML metadata directories, .yaml, .json,
.jsonl, or .parquet files and upserts them into the library database.
Existing papers with the same ID are replaced.

With --project, the imported papers are also added to that project, which
is created if it does not exist.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")

	records, err := corpus.LoadAll(args...)
	if err != nil {
		return err
	}

	store, err := library.NewStore(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	n, err := store.UpsertPapers(ctx, records)
	if err != nil {
		return err
	}

	if project != "" {
		if _, err := store.CreateProject(ctx, project, ""); err != nil && !errors.Is(err, library.ErrProjectExists) {
			return err
		}
		ids := make([]string, len(records))
		for i, r := range records {
			ids[i] = r.ID
		}
		if err := store.AddPaperToProject(ctx, project, ids...); err != nil {
			return err
		}
	}

	logger.Info().Int("records", n).Str("project", project).Msg("import complete")
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records\n", n)
	return nil
}

func init() {
	importCmd.Flags().String("project", "", "add imported papers to this project")
	rootCmd.AddCommand(importCmd)
}
