// Package types defines the canonical question record shared by every
// subsystem. External record shapes (upload rows, store rows, JSON payloads)
// are normalized onto Question at the ingestion boundary; core packages
// never operate on raw maps.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Difficulty is the coarse difficulty label attached to a question.
type Difficulty string

const (
	DifficultyUnspecified Difficulty = ""
	DifficultyEasy        Difficulty = "easy"
	DifficultyMedium      Difficulty = "medium"
	DifficultyHard        Difficulty = "hard"
)

// ParseDifficulty maps free-form difficulty labels onto the enum.
// Unknown labels collapse to DifficultyUnspecified rather than erroring;
// difficulty is advisory metadata, not a gate.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "beginner", "basic":
		return DifficultyEasy
	case "medium", "intermediate", "moderate":
		return DifficultyMedium
	case "hard", "difficult", "advanced", "expert":
		return DifficultyHard
	default:
		return DifficultyUnspecified
	}
}

// Question is the canonical exam question record.
//
// Invariants for a question admitted to a pool:
//   - Text is non-empty
//   - 2 <= len(Choices) <= 6, none empty
//   - 0 <= CorrectIndex < len(Choices)
//
// Explanation, Scenario, Topics, and Difficulty are optional. Pool,
// IngestedAt, ContentHash, and BatchID are provenance stamped by the merge
// engine, not supplied by uploads.
type Question struct {
	ID           string     `json:"id,omitempty" yaml:"id,omitempty"`
	Text         string     `json:"question_text" yaml:"question_text"`
	Choices      []string   `json:"choices" yaml:"choices"`
	CorrectIndex int        `json:"correct_index" yaml:"correct_index"`
	Explanation  string     `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Scenario     string     `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	Topics       []string   `json:"topics,omitempty" yaml:"topics,omitempty"`
	Difficulty   Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`

	// Provenance metadata, stamped at merge time.
	Pool        string    `json:"pool,omitempty" yaml:"pool,omitempty"`
	IngestedAt  time.Time `json:"ingested_at,omitempty" yaml:"ingested_at,omitempty"`
	ContentHash string    `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
	BatchID     string    `json:"batch_id,omitempty" yaml:"batch_id,omitempty"`
}

// MaxChoices is the largest choice count a question may carry.
const MaxChoices = 6

// MinChoices is the smallest choice count a question may carry.
const MinChoices = 2

// Validate checks the admission invariants. Questions entering a pool must
// pass; the validator package produces findings for the same conditions
// instead of errors, so this is only used where a malformed record is a
// programming error rather than operator input.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text cannot be empty")
	}
	if len(q.Choices) < MinChoices {
		return fmt.Errorf("question must have at least %d choices (got %d)", MinChoices, len(q.Choices))
	}
	if len(q.Choices) > MaxChoices {
		return fmt.Errorf("question must have at most %d choices (got %d)", MaxChoices, len(q.Choices))
	}
	for i, c := range q.Choices {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("choice %d is empty", i)
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return fmt.Errorf("correct index %d out of range [0, %d)", q.CorrectIndex, len(q.Choices))
	}
	return nil
}

// Hash returns the content hash used for exact-duplicate detection.
//
// The digest is computed from the case-normalized, whitespace-collapsed
// question text concatenated with the sorted, normalized choice texts.
// Choice ordering is deliberately irrelevant: the same question uploaded
// with shuffled choices hashes identically. Question text ordering is not
// normalized beyond whitespace and case.
func (q *Question) Hash() string {
	parts := make([]string, 0, len(q.Choices)+1)
	parts = append(parts, normalizeForHash(q.Text))

	choices := make([]string, len(q.Choices))
	for i, c := range q.Choices {
		choices[i] = normalizeForHash(c)
	}
	sort.Strings(choices)
	parts = append(parts, choices...)

	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// normalizeForHash lowercases and collapses all whitespace runs to a single
// space so that surface formatting differences never defeat dedup.
func normalizeForHash(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Preview returns a truncated single-line rendering of the question text,
// suitable for operator-facing duplicate reports.
func (q *Question) Preview(maxLen int) string {
	text := strings.Join(strings.Fields(q.Text), " ")
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}
