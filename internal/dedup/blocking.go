// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"sort"
	"strconv"
)

// Blocking dimensions. A record joins one bucket per dimension it has a
// value for; the dimensions are independent, not a composite key.
const (
	DimensionDOI   = "doi"
	DimensionYear  = "year"
	DimensionToken = "token"
)

// BlockKey identifies one blocking bucket.
type BlockKey struct {
	Dimension string
	Value     string
}

// stopwords are skipped when choosing the title token key. Single-character
// tokens are skipped as well.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "how": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "over": {},
	"than": {}, "that": {}, "the": {}, "their": {}, "this": {}, "to": {},
	"towards": {}, "toward": {}, "under": {}, "using": {}, "via": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "why": {}, "with": {},
	"without": {}, "we": {}, "you": {}, "your": {},
}

func isStopword(token string) bool {
	if len([]rune(token)) < 2 {
		return true
	}
	_, ok := stopwords[token]
	return ok
}

// blockKeys derives the bucket memberships of a normalized record.
func blockKeys(n NormalizedRecord) []BlockKey {
	var keys []BlockKey
	if n.DOI != "" {
		keys = append(keys, BlockKey{DimensionDOI, n.DOI})
	}
	if n.Year > 0 {
		keys = append(keys, BlockKey{DimensionYear, strconv.Itoa(n.Year)})
	}
	if tok := smallestToken(n.Tokens); tok != "" {
		keys = append(keys, BlockKey{DimensionToken, tok})
	}
	return keys
}

// smallestToken returns the lexicographically smallest non-stopword token,
// or "" if there is none.
func smallestToken(tokens map[string]struct{}) string {
	best := ""
	for tok := range tokens {
		if isStopword(tok) {
			continue
		}
		if best == "" || tok < best {
			best = tok
		}
	}
	return best
}

// CandidatePair is an unordered pair of records selected for scoring.
// A and B index the run's record slice; records[A].ID < records[B].ID.
type CandidatePair struct {
	A, B     int
	Score    float64
	DOIMatch bool
}

// Index maps blocking keys to the records that carry them.
type Index struct {
	records []NormalizedRecord
	buckets map[BlockKey][]int
}

// BuildIndex places every record into the bucket of each of its keys.
func BuildIndex(records []NormalizedRecord) *Index {
	idx := &Index{
		records: records,
		buckets: make(map[BlockKey][]int),
	}
	for i, r := range records {
		for _, k := range r.Keys {
			idx.buckets[k] = append(idx.buckets[k], i)
		}
	}
	return idx
}

// Buckets returns the number of buckets with at least two members.
func (idx *Index) Buckets() int {
	n := 0
	for _, members := range idx.buckets {
		if len(members) >= 2 {
			n++
		}
	}
	return n
}

// Members returns the record indices in the bucket for k.
func (idx *Index) Members(k BlockKey) []int {
	return idx.buckets[k]
}

// Candidates emits every pair that shares at least one bucket. A pair that
// co-occurs in several buckets is returned once. The result is sorted by
// (A.ID, B.ID).
func (idx *Index) Candidates() []CandidatePair {
	keys := make([]BlockKey, 0, len(idx.buckets))
	for k, members := range idx.buckets {
		if len(members) >= 2 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Dimension != keys[j].Dimension {
			return keys[i].Dimension < keys[j].Dimension
		}
		return keys[i].Value < keys[j].Value
	})

	seen := make(map[[2]int]struct{})
	var pairs []CandidatePair
	for _, k := range keys {
		members := idx.buckets[k]
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				if a == b || idx.records[a].ID == idx.records[b].ID {
					continue
				}
				if idx.records[b].ID < idx.records[a].ID {
					a, b = b, a
				}
				key := [2]int{a, b}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				pairs = append(pairs, CandidatePair{A: a, B: b})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := idx.records[pairs[i].A].ID, idx.records[pairs[j].A].ID
		if ai != aj {
			return ai < aj
		}
		return idx.records[pairs[i].B].ID < idx.records[pairs[j].B].ID
	})
	return pairs
}
