// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"math"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

// Scorer computes the composite similarity of two normalized records.
type Scorer struct {
	Weights types.ScoreWeights
}

// NewScorer returns a Scorer with the given weights.
func NewScorer(w types.ScoreWeights) Scorer {
	return Scorer{Weights: w}
}

// Score returns the similarity of a and b in [0, 1] and whether it was
// decided by an exact DOI match. Score(a, b) == Score(b, a).
func (s Scorer) Score(a, b NormalizedRecord) (float64, bool) {
	if a.DOI != "" && a.DOI == b.DOI {
		return 1.0, true
	}

	score := s.Weights.Title * jaccard(a.Shingles, b.Shingles)
	if a.Year > 0 && a.Year == b.Year {
		score += s.Weights.Year
	}
	if a.Venue != "" && a.Venue == b.Venue {
		score += s.Weights.Venue
	}
	if s.Weights.Author > 0 {
		score += s.Weights.Author * authorOverlap(a.Authors, b.Authors)
	}
	return math.Max(0, math.Min(1.0, score)), false
}

// jaccard returns |a ∩ b| / |a ∪ b|. Two empty sets are not similar: the
// result is 0 whenever either set is empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// authorOverlap returns |a ∩ b| / max(|a|, |b|), or 0 if either is empty.
func authorOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	return float64(inter) / float64(max(len(a), len(b)))
}
