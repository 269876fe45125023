// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"go.yaml.in/yaml/v3"
)

var (
	highScore   = color.New(color.FgRed, color.Bold)
	mediumScore = color.New(color.FgYellow)
)

// FormatTable writes the report as a human-readable table to w.
func FormatTable(r Report, w io.Writer) {
	if len(r.Rows) == 0 {
		fmt.Fprintln(w, "No possible duplicates found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-6s  %-40s       %-40s  %s\n",
		"Rank", "Score", "Paper 1", "Paper 2", "IDs")
	fmt.Fprintln(w, strings.Repeat("-", 125))

	for i, row := range r.Rows {
		fmt.Fprintf(w, "%-4d  %s  %-40s  <->  %-40s  %s, %s\n",
			i+1, scoreString(row.Score), truncate(row.Paper1Title, 40), truncate(row.Paper2Title, 40),
			row.Paper1ID, row.Paper2ID)
	}

	fmt.Fprintf(w, "\n%d possible duplicate pairs (threshold %.2f, %d candidates, %d records)\n",
		len(r.Rows), r.Threshold, r.Stats.Candidates, r.Stats.Records)

	if len(r.Groups) > 0 {
		fmt.Fprintf(w, "\n%d duplicate groups:\n", len(r.Groups))
		for _, g := range r.Groups {
			fmt.Fprintf(w, "  %s  %s\n", scoreString(g.MaxScore), strings.Join(g.PaperIDs, ", "))
		}
	}
}

// scoreString pads the score before coloring so ANSI codes do not break
// column alignment.
func scoreString(score float64) string {
	s := fmt.Sprintf("%-6.3f", score)
	switch {
	case score >= 0.95:
		return highScore.Sprint(s)
	case score >= 0.85:
		return mediumScore.Sprint(s)
	default:
		return s
	}
}

// FormatJSON writes the report as indented JSON to w.
func FormatJSON(r Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// FormatYAML writes the report as YAML to w.
func FormatYAML(r Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
