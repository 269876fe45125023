// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"fmt"
	"math"
	"sort"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

// ReportOptions controls which scored pairs become report rows.
type ReportOptions struct {
	// Threshold is the inclusive minimum score, in [0, 1].
	Threshold float64

	// ExcludeDOIMatches drops pairs decided by an exact DOI match.
	ExcludeDOIMatches bool
}

// ValidateThreshold returns an error wrapping ErrInvalidArgument if t is
// not a finite number within [0, 1]. It never clamps.
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: threshold must be a finite number (got %v)", ErrInvalidArgument, t)
	}
	if t < 0 || t > 1 {
		return fmt.Errorf("%w: threshold must be between 0 and 1 (got %v)", ErrInvalidArgument, t)
	}
	return nil
}

// BuildReport filters scored pairs by threshold, drops repeated unordered
// pairs, and sorts by descending score with ties broken by ascending
// (Paper1ID, Paper2ID). An empty result is an empty, non-nil slice.
func BuildReport(records []NormalizedRecord, pairs []CandidatePair, opts ReportOptions) ([]types.ReportRow, error) {
	if err := ValidateThreshold(opts.Threshold); err != nil {
		return nil, err
	}

	rows := make([]types.ReportRow, 0)
	seen := make(map[[2]string]struct{}, len(pairs))
	for _, p := range pairs {
		if p.Score < opts.Threshold {
			continue
		}
		if opts.ExcludeDOIMatches && p.DOIMatch {
			continue
		}
		a, b := records[p.A], records[p.B]
		if a.ID == b.ID {
			continue
		}
		if b.ID < a.ID {
			a, b = b, a
		}
		key := [2]string{a.ID, b.ID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rows = append(rows, types.ReportRow{
			Score:       p.Score,
			Paper1ID:    a.ID,
			Paper1Title: a.Title,
			Paper2ID:    b.ID,
			Paper2Title: b.Title,
			DOIMatch:    p.DOIMatch,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if rows[i].Paper1ID != rows[j].Paper1ID {
			return rows[i].Paper1ID < rows[j].Paper1ID
		}
		return rows[i].Paper2ID < rows[j].Paper2ID
	})
	return rows, nil
}
