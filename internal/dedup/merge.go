package dedup

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sowhat82/mockexamify/internal/types"
)

// MergeOptions controls how a batch is merged into a pool.
type MergeOptions struct {
	// SkipDuplicates excludes exact duplicates from the merge. When false,
	// duplicates are merged anyway and only counted in the report.
	// Default: true
	SkipDuplicates bool

	// BatchID is stamped on every merged question for provenance. When
	// empty, a fresh UUID is generated.
	BatchID string

	// Now overrides the ingestion-timestamp clock. Nil means time.Now.
	Now func() time.Time
}

// DefaultMergeOptions returns the options used by a normal merge.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{SkipDuplicates: true}
}

// MergeReport describes the outcome of a merge for the operator.
type MergeReport struct {
	PoolName          string
	TotalQuestions    int
	Added             int
	SkippedDuplicates int
	// Merged is the resulting pool: existing questions followed by the
	// admitted new ones, in input order.
	Merged []types.Question
	// DuplicateDetails holds one short human-readable line per skipped
	// question, suitable for display.
	DuplicateDetails []string
}

// MergeQuestionsToPool merges newQuestions into the existing pool under
// poolName. Exact duplicates are detected first and (by default) skipped;
// each surviving question gets provenance metadata stamped before it is
// appended. Validation and similarity scanning are separate capabilities
// callers run around this step.
//
// The merge treats the pool as a value: it reads, transforms, and returns
// it. Persisting the result, and its atomicity, is the caller's concern.
func MergeQuestionsToPool(poolName string, newQuestions, existingPool []types.Question, opts MergeOptions) MergeReport {
	unique, dups := DetectExactDuplicates(newQuestions, existingPool)

	admitted := unique
	if !opts.SkipDuplicates {
		// Keep batch order when duplicates are merged anyway.
		admitted = newQuestions
		dups = nil
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	batchID := opts.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	merged := make([]types.Question, 0, len(existingPool)+len(admitted))
	merged = append(merged, existingPool...)
	for _, q := range admitted {
		stampProvenance(&q, poolName, batchID, now())
		merged = append(merged, q)
	}

	details := make([]string, 0, len(dups))
	for _, q := range dups {
		details = append(details, fmt.Sprintf("%s (exact content match)", q.Preview(60)))
	}

	return MergeReport{
		PoolName:          poolName,
		TotalQuestions:    len(merged),
		Added:             len(admitted),
		SkippedDuplicates: len(dups),
		Merged:            merged,
		DuplicateDetails:  details,
	}
}

// stampProvenance fills in the metadata a question carries once admitted
// to a pool. The ID is only assigned when missing so re-ingested exports
// keep their identity.
func stampProvenance(q *types.Question, poolName, batchID string, at time.Time) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Pool = poolName
	q.BatchID = batchID
	q.IngestedAt = at.UTC()
	q.ContentHash = q.Hash()
}
