package dedup

import (
	"time"

	"github.com/sowhat82/mockexamify/internal/types"
)

// PoolStats summarizes a pool for the operator.
type PoolStats struct {
	TotalQuestions int
	// DistinctHashes counts unique content hashes. A value below
	// TotalQuestions means duplicates slipped into the pool.
	DistinctHashes int
	Topics         map[string]int
	Difficulties   map[string]int
	// EarliestIngested and LatestIngested are zero when no question
	// carries an ingestion timestamp.
	EarliestIngested time.Time
	LatestIngested   time.Time
}

// GetPoolStatistics computes summary statistics over a pool.
func GetPoolStatistics(questions []types.Question) PoolStats {
	stats := PoolStats{
		TotalQuestions: len(questions),
		Topics:         make(map[string]int),
		Difficulties:   make(map[string]int),
	}

	hashes := make(map[string]struct{}, len(questions))
	for i := range questions {
		q := &questions[i]
		hashes[q.Hash()] = struct{}{}

		for _, topic := range q.Topics {
			stats.Topics[topic]++
		}
		if q.Difficulty != types.DifficultyUnspecified {
			stats.Difficulties[string(q.Difficulty)]++
		}

		if q.IngestedAt.IsZero() {
			continue
		}
		if stats.EarliestIngested.IsZero() || q.IngestedAt.Before(stats.EarliestIngested) {
			stats.EarliestIngested = q.IngestedAt
		}
		if q.IngestedAt.After(stats.LatestIngested) {
			stats.LatestIngested = q.IngestedAt
		}
	}
	stats.DistinctHashes = len(hashes)

	return stats
}
