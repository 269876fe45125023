// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup finds bibliographic records that likely describe the same
// work. A run normalizes a snapshot of records, groups them into blocking
// buckets, scores every pair that shares a bucket, and returns the pairs
// above a threshold as an ordered report.
//
// Normalization and scoring are pure and run on a bounded worker pool; the
// report order is established by a final sort, so results do not depend on
// scheduling. A run holds no state beyond its own working set.
package dedup

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/georgegian2018/research-library-engine/pkg/types"
)

const defaultChunkSize = 512

// Options configures a report run.
type Options struct {
	types.DedupConfig

	// Groups additionally folds the report rows into duplicate groups.
	Groups bool

	// RunMetadata stamps the report with its run ID and elapsed time.
	// Without it, identical inputs give byte-identical reports.
	RunMetadata bool

	// Logger receives the run summary and warnings. The zero value discards.
	Logger zerolog.Logger
}

// Stats summarizes the work done by a run.
type Stats struct {
	Records    int           `json:"records" yaml:"records"`
	Skipped    int           `json:"skipped" yaml:"skipped"`
	Degraded   int           `json:"degraded" yaml:"degraded"`
	Buckets    int           `json:"buckets" yaml:"buckets"`
	Candidates int           `json:"candidates" yaml:"candidates"`
	Rows       int           `json:"rows" yaml:"rows"`
	Elapsed    time.Duration `json:"elapsed_ns,omitempty" yaml:"elapsed_ns,omitempty"`
}

// Report is the result of one run.
type Report struct {
	RunID     string                 `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Threshold float64                `json:"threshold" yaml:"threshold"`
	Rows      []types.ReportRow      `json:"rows" yaml:"rows"`
	Groups    []types.DuplicateGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
	Stats     Stats                  `json:"stats" yaml:"stats"`
}

// Run builds the duplicate report for records. Invalid options fail before
// any work is done. Zero or one usable record yields an empty report. If
// ctx is cancelled, Run abandons the remaining chunks and returns ctx.Err()
// with no partial report.
func Run(ctx context.Context, records []types.Record, opts Options) (Report, error) {
	start := time.Now()

	if err := ValidateThreshold(opts.Threshold); err != nil {
		return Report{}, err
	}
	if err := opts.Weights.Validate(); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if opts.Workers < 0 {
		return Report{}, fmt.Errorf("%w: workers cannot be negative (got %d)", ErrInvalidArgument, opts.Workers)
	}

	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	shingleSize := opts.ShingleSize
	if shingleSize <= 0 {
		shingleSize = defaultShingleSize
	}

	log := opts.Logger
	runID := uuid.NewString()
	report := Report{
		Threshold: opts.Threshold,
		Rows:      []types.ReportRow{},
	}
	stamp := func() time.Duration {
		elapsed := time.Since(start)
		if opts.RunMetadata {
			report.RunID = runID
			report.Stats.Elapsed = elapsed
		}
		return elapsed
	}

	usable, skipped := uniqueRecords(records, log)
	report.Stats.Records = len(usable)
	report.Stats.Skipped = skipped

	if len(usable) < 2 {
		stamp()
		log.Info().Str("run_id", runID).Int("records", len(usable)).Msg("dedup: corpus too small, empty report")
		return report, nil
	}

	normalized, err := normalizeAll(ctx, usable, shingleSize, workers, chunkSize)
	if err != nil {
		return Report{}, err
	}
	for _, n := range normalized {
		if len(n.Degraded) > 0 {
			report.Stats.Degraded++
			log.Warn().Str("id", n.ID).Strs("fields", n.Degraded).Msg("dedup: malformed fields treated as empty")
		}
	}

	idx := BuildIndex(normalized)
	pairs := idx.Candidates()
	report.Stats.Buckets = idx.Buckets()
	report.Stats.Candidates = len(pairs)

	if err := scoreAll(ctx, normalized, pairs, NewScorer(opts.Weights), workers, chunkSize); err != nil {
		return Report{}, err
	}

	rows, err := BuildReport(normalized, pairs, ReportOptions{
		Threshold:         opts.Threshold,
		ExcludeDOIMatches: opts.ExcludeDOIMatches,
	})
	if err != nil {
		return Report{}, err
	}
	report.Rows = rows
	report.Stats.Rows = len(rows)
	if opts.Groups {
		report.Groups = Group(rows)
	}
	elapsed := stamp()

	log.Info().
		Str("run_id", runID).
		Float64("threshold", opts.Threshold).
		Int("records", report.Stats.Records).
		Int("buckets", report.Stats.Buckets).
		Int("candidates", report.Stats.Candidates).
		Int("rows", report.Stats.Rows).
		Dur("elapsed", elapsed).
		Msg("dedup: report built")

	return report, nil
}

// uniqueRecords drops records with an empty ID and every repeat of an ID
// after its first occurrence.
func uniqueRecords(records []types.Record, log zerolog.Logger) ([]types.Record, int) {
	seen := make(map[string]struct{}, len(records))
	out := make([]types.Record, 0, len(records))
	skipped := 0
	for _, r := range records {
		if r.ID == "" {
			log.Warn().Str("title", r.Title).Msg("dedup: skipping record with empty id")
			skipped++
			continue
		}
		if _, dup := seen[r.ID]; dup {
			log.Warn().Str("id", r.ID).Msg("dedup: skipping repeated record id")
			skipped++
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out, skipped
}

// normalizeAll normalizes records in parallel chunks. Each chunk writes to
// its own range of the result slice.
func normalizeAll(ctx context.Context, records []types.Record, shingleSize, workers, chunkSize int) ([]NormalizedRecord, error) {
	out := make([]NormalizedRecord, len(records))
	err := forEachChunk(ctx, len(records), workers, chunkSize, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = Normalize(records[i], shingleSize)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scoreAll scores pairs in place, in parallel chunks.
func scoreAll(ctx context.Context, records []NormalizedRecord, pairs []CandidatePair, scorer Scorer, workers, chunkSize int) error {
	return forEachChunk(ctx, len(pairs), workers, chunkSize, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p := &pairs[i]
			p.Score, p.DOIMatch = scorer.Score(records[p.A], records[p.B])
		}
	})
}

// forEachChunk splits [0, n) into chunks and runs fn on each with at most
// workers goroutines. Cancellation is checked between chunks; a chunk in
// progress always finishes. A panic in fn is returned as an error wrapping
// ErrInternalScoring.
func forEachChunk(ctx context.Context, n, workers, chunkSize int, fn func(lo, hi int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += chunkSize {
		if err := gctx.Err(); err != nil {
			break
		}
		lo, hi := lo, min(lo+chunkSize, n)
		g.Go(func() (err error) {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: chunk [%d,%d): %v", ErrInternalScoring, lo, hi, r)
				}
			}()
			fn(lo, hi)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
