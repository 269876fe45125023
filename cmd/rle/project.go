// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/georgegian2018/research-library-engine/internal/library"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects (create, add, list)",
	Long: `Project groups papers into named collections. A duplicate report can be
limited to one project with rle dedup --project.`,
}

// --- create subcommand ---

var projectCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create an empty project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		store, err := library.NewStore(cfg.Library)
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.CreateProject(context.Background(), args[0], description)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created project %s\n", p.Name)
		return nil
	},
}

// --- add subcommand ---

var projectAddCmd = &cobra.Command{
	Use:   "add NAME PAPER_ID...",
	Short: "Add papers to a project",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := library.NewStore(cfg.Library)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.AddPaperToProject(context.Background(), args[0], args[1:]...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %d papers to %s\n", len(args)-1, args[0])
		return nil
	},
}

// --- list subcommand ---

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with paper counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		store, err := library.NewStore(cfg.Library)
		if err != nil {
			return err
		}
		defer store.Close()

		projects, err := store.ListProjects(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(projects)
		}

		if len(projects) == 0 {
			fmt.Fprintln(out, "No projects.")
			return nil
		}
		fmt.Fprintf(out, "%-30s  %-6s  %s\n", "Name", "Papers", "Description")
		fmt.Fprintln(out, strings.Repeat("-", 70))
		for _, p := range projects {
			fmt.Fprintf(out, "%-30s  %-6d  %s\n", p.Name, p.Papers, p.Description)
		}
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().String("description", "", "project description")
	projectListCmd.Flags().Bool("json", false, "output projects as JSON")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)

	rootCmd.AddCommand(projectCmd)
}
