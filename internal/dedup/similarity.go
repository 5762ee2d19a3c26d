package dedup

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"

	"github.com/sowhat82/mockexamify/internal/ai"
	"github.com/sowhat82/mockexamify/internal/types"
)

// Scorer is the external text-scoring capability the similarity detector
// depends on. Production code uses *ai.Client; tests stub it.
type Scorer interface {
	// ScoreSimilarity rates how likely a and b test the same concept,
	// returning a score in [0.0, 1.0]. Rate-limit errors must satisfy
	// ai.IsRateLimit; other errors are treated as a non-match.
	ScoreSimilarity(ctx context.Context, a, b types.Question) (float64, error)
}

// SimilarityMatch pairs a candidate question with an existing question it
// resembles. Produced only during merge-time review and discarded after
// the merge decision; never persisted.
type SimilarityMatch struct {
	Candidate types.Question
	Existing  types.Question
	Score     float64
}

// Detector finds semantic duplicates by scoring candidate pairs through
// an AI model. Exact duplicates should be removed first; this detector
// is for rewordings the hash cannot catch.
type Detector struct {
	scorer Scorer
	pacer  ai.Pacer
	config Config
}

// NewDetector creates a similarity detector with the given scorer and
// configuration.
func NewDetector(scorer Scorer, config Config) (*Detector, error) {
	if scorer == nil {
		return nil, fmt.Errorf("scorer is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Detector{
		scorer: scorer,
		pacer:  ai.NewPacer(config.PacingInterval),
		config: config,
	}, nil
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.config
}

// DetectSimilarQuestions scores candidate against the existing pool and
// returns the pairs at or above threshold, sorted by descending score.
//
// Pools larger than the configured sample cap are sampled uniformly at
// random. Scoring failures degrade per pair: an unparseable response
// scores 0.0, other call failures are logged and treated as a non-match.
// A rate-limit error aborts the whole scan and is returned to the caller,
// since every subsequent call would likely fail the same way.
func (d *Detector) DetectSimilarQuestions(ctx context.Context, candidate types.Question, existing []types.Question, threshold float64) ([]SimilarityMatch, error) {
	if threshold < 0.0 || threshold > 1.0 {
		return nil, fmt.Errorf("threshold must be between 0.0 and 1.0 (got %.2f)", threshold)
	}
	if len(candidate.Text) < d.config.MinTextLength {
		log.Printf("[DEDUP] Skipping similarity scan for short text (len=%d, min=%d): %s",
			len(candidate.Text), d.config.MinTextLength, candidate.Preview(60))
		return nil, nil
	}

	pool := sampleQuestions(existing, d.config.SampleCap)
	if len(pool) < len(existing) {
		log.Printf("[DEDUP] Sampling %d of %d existing questions for comparison",
			len(pool), len(existing))
	}

	var matches []SimilarityMatch
	for i := range pool {
		if err := d.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("similarity scan cancelled: %w", err)
		}

		score, err := d.scorer.ScoreSimilarity(ctx, candidate, pool[i])
		if err != nil {
			if ai.IsRateLimit(err) {
				// A rate limit poisons the rest of the scan; stop now
				// instead of burning latency on calls that will also fail.
				return nil, fmt.Errorf("similarity scan aborted after %d of %d comparisons: %w",
					i+1, len(pool), err)
			}
			log.Printf("[DEDUP] Scoring failed for %q vs %q: %v (treating as non-match)",
				candidate.Preview(40), pool[i].Preview(40), err)
			continue
		}

		if score >= threshold {
			matches = append(matches, SimilarityMatch{
				Candidate: candidate,
				Existing:  pool[i],
				Score:     score,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// sampleQuestions returns up to max questions drawn uniformly at random.
// When the input already fits, it is returned as-is, in order.
func sampleQuestions(questions []types.Question, max int) []types.Question {
	if len(questions) <= max {
		return questions
	}
	idx := rand.Perm(len(questions))[:max]
	sort.Ints(idx)
	sample := make([]types.Question, 0, max)
	for _, i := range idx {
		sample = append(sample, questions[i])
	}
	return sample
}
