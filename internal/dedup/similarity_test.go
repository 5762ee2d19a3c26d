package dedup

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowhat82/mockexamify/internal/types"
)

// stubScorer scores every pair through a caller-supplied function and
// counts invocations.
type stubScorer struct {
	calls int
	score func(call int, existing types.Question) (float64, error)
}

func (s *stubScorer) ScoreSimilarity(_ context.Context, _, existing types.Question) (float64, error) {
	s.calls++
	return s.score(s.calls, existing)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PacingInterval = 0
	return cfg
}

func newTestDetector(t *testing.T, scorer Scorer, cfg Config) *Detector {
	t.Helper()
	d, err := NewDetector(scorer, cfg)
	require.NoError(t, err)
	return d
}

func pool(n int) []types.Question {
	qs := make([]types.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, question(fmt.Sprintf("Existing question %d about networking?", i)))
	}
	return qs
}

func TestDetectSimilarQuestions_ThresholdBoundary(t *testing.T) {
	candidate := question("What does TCP stand for?")
	existing := pool(1)

	t.Run("score at threshold is a match", func(t *testing.T) {
		scorer := &stubScorer{score: func(int, types.Question) (float64, error) { return 0.90, nil }}
		d := newTestDetector(t, scorer, testConfig())

		matches, err := d.DetectSimilarQuestions(context.Background(), candidate, existing, 0.90)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, 0.90, matches[0].Score)
	})

	t.Run("score below threshold is not", func(t *testing.T) {
		scorer := &stubScorer{score: func(int, types.Question) (float64, error) { return 0.89, nil }}
		d := newTestDetector(t, scorer, testConfig())

		matches, err := d.DetectSimilarQuestions(context.Background(), candidate, existing, 0.90)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestDetectSimilarQuestions_RateLimitAborts(t *testing.T) {
	scorer := &stubScorer{score: func(call int, _ types.Question) (float64, error) {
		if call == 3 {
			return 0, errors.New("api error: 429 Too Many Requests")
		}
		return 0.95, nil
	}}
	d := newTestDetector(t, scorer, testConfig())

	matches, err := d.DetectSimilarQuestions(context.Background(), question("What is routing?"), pool(10), 0.90)
	require.Error(t, err)
	assert.Nil(t, matches)
	assert.Equal(t, 3, scorer.calls, "scan stops at the rate-limited call")
	assert.Contains(t, err.Error(), "429")
}

func TestDetectSimilarQuestions_OtherErrorsContinue(t *testing.T) {
	scorer := &stubScorer{score: func(call int, _ types.Question) (float64, error) {
		if call == 2 {
			return 0, errors.New("connection refused")
		}
		return 0.95, nil
	}}
	d := newTestDetector(t, scorer, testConfig())

	matches, err := d.DetectSimilarQuestions(context.Background(), question("What is routing?"), pool(5), 0.90)
	require.NoError(t, err, "non-rate-limit failures degrade to non-matches")
	assert.Equal(t, 5, scorer.calls)
	assert.Len(t, matches, 4)
}

func TestDetectSimilarQuestions_SortedDescending(t *testing.T) {
	scores := []float64{0.91, 0.99, 0.95}
	scorer := &stubScorer{score: func(call int, _ types.Question) (float64, error) {
		return scores[call-1], nil
	}}
	d := newTestDetector(t, scorer, testConfig())

	matches, err := d.DetectSimilarQuestions(context.Background(), question("What is routing?"), pool(3), 0.90)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, 0.99, matches[0].Score)
	assert.Equal(t, 0.95, matches[1].Score)
	assert.Equal(t, 0.91, matches[2].Score)
}

func TestDetectSimilarQuestions_SampleCap(t *testing.T) {
	scorer := &stubScorer{score: func(int, types.Question) (float64, error) { return 0.1, nil }}
	cfg := testConfig()
	cfg.SampleCap = 50
	d := newTestDetector(t, scorer, cfg)

	_, err := d.DetectSimilarQuestions(context.Background(), question("What is routing?"), pool(120), 0.90)
	require.NoError(t, err)
	assert.Equal(t, 50, scorer.calls, "oversized pools are sampled down to the cap")
}

func TestDetectSimilarQuestions_ShortTextSkipped(t *testing.T) {
	scorer := &stubScorer{score: func(int, types.Question) (float64, error) { return 1.0, nil }}
	d := newTestDetector(t, scorer, testConfig())

	matches, err := d.DetectSimilarQuestions(context.Background(), question("Why?"), pool(5), 0.90)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Zero(t, scorer.calls)
}

func TestDetectSimilarQuestions_InvalidThreshold(t *testing.T) {
	scorer := &stubScorer{score: func(int, types.Question) (float64, error) { return 0, nil }}
	d := newTestDetector(t, scorer, testConfig())

	_, err := d.DetectSimilarQuestions(context.Background(), question("What is routing?"), pool(1), 1.5)
	assert.Error(t, err)
}

func TestNewDetector_Validation(t *testing.T) {
	_, err := NewDetector(nil, testConfig())
	assert.Error(t, err, "scorer is required")

	cfg := testConfig()
	cfg.ReviewThreshold = 2.0
	_, err = NewDetector(&stubScorer{score: func(int, types.Question) (float64, error) { return 0, nil }}, cfg)
	assert.Error(t, err)
}

func TestDetectSimilarQuestions_ContextCancelled(t *testing.T) {
	scorer := &stubScorer{score: func(int, types.Question) (float64, error) { return 0, nil }}
	cfg := testConfig()
	cfg.PacingInterval = 1 // any positive interval routes through the limiter
	d := newTestDetector(t, scorer, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.DetectSimilarQuestions(ctx, question("What is routing?"), pool(5), 0.90)
	assert.Error(t, err)
}
