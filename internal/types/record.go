package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FromRecord maps an external question record onto the canonical Question.
//
// This is the single normalization step for every accepted external shape.
// Upstream sources disagree on field names and encodings, so FromRecord
// accepts the known aliases:
//
//   - question text: "question_text" or "question"
//   - choices: "choices" or "options"; a native sequence, or a JSON-encoded
//     string form of one (store rows often round-trip choices as a JSON
//     string column)
//   - correct index: "correct_index" or "correct_answer"; a number, a
//     numeric string, or a single choice letter ("A".."F", case-insensitive)
//   - optional: "explanation", "scenario" (or "context"), "topics"/"tags",
//     "difficulty", "id"
//
// FromRecord does NOT enforce the admission invariants; a structurally
// broken record still normalizes so the validator can report findings on it.
// Only records whose shape cannot be interpreted at all return an error.
func FromRecord(rec map[string]any) (Question, error) {
	if rec == nil {
		return Question{}, fmt.Errorf("record is nil")
	}

	var q Question

	q.Text = firstString(rec, "question_text", "question")
	q.Explanation = firstString(rec, "explanation")
	q.Scenario = firstString(rec, "scenario", "context")
	q.Difficulty = ParseDifficulty(firstString(rec, "difficulty"))
	q.ID = firstString(rec, "id")
	q.Pool = firstString(rec, "pool", "pool_name")
	q.ContentHash = firstString(rec, "content_hash")
	q.BatchID = firstString(rec, "batch_id")

	if raw, ok := firstValue(rec, "choices", "options"); ok {
		choices, err := coerceChoices(raw)
		if err != nil {
			return Question{}, fmt.Errorf("choices: %w", err)
		}
		q.Choices = choices
	}

	if raw, ok := firstValue(rec, "correct_index", "correct_answer"); ok {
		idx, err := coerceIndex(raw)
		if err != nil {
			return Question{}, fmt.Errorf("correct answer: %w", err)
		}
		q.CorrectIndex = idx
	} else {
		// Missing entirely. Use a sentinel the validator will flag as out
		// of range rather than silently pointing at choice 0.
		q.CorrectIndex = -1
	}

	if raw, ok := firstValue(rec, "topics", "tags"); ok {
		q.Topics = coerceStringSlice(raw)
	}

	if ts := firstString(rec, "ingested_at", "created_at"); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			q.IngestedAt = t
		}
	}

	return q, nil
}

// ToRecord renders the canonical question back into the plain-map record
// shape the persistence layer exchanges.
func (q *Question) ToRecord() map[string]any {
	rec := map[string]any{
		"question_text": q.Text,
		"choices":       append([]string(nil), q.Choices...),
		"correct_index": q.CorrectIndex,
	}
	if q.ID != "" {
		rec["id"] = q.ID
	}
	if q.Explanation != "" {
		rec["explanation"] = q.Explanation
	}
	if q.Scenario != "" {
		rec["scenario"] = q.Scenario
	}
	if len(q.Topics) > 0 {
		rec["topics"] = append([]string(nil), q.Topics...)
	}
	if q.Difficulty != DifficultyUnspecified {
		rec["difficulty"] = string(q.Difficulty)
	}
	if q.Pool != "" {
		rec["pool"] = q.Pool
	}
	if !q.IngestedAt.IsZero() {
		rec["ingested_at"] = q.IngestedAt.Format(time.RFC3339)
	}
	if q.ContentHash != "" {
		rec["content_hash"] = q.ContentHash
	}
	if q.BatchID != "" {
		rec["batch_id"] = q.BatchID
	}
	return rec
}

// FromRecords normalizes a batch, collecting per-record errors instead of
// failing the whole batch on the first bad row.
func FromRecords(recs []map[string]any) ([]Question, []error) {
	questions := make([]Question, 0, len(recs))
	var errs []error
	for i, rec := range recs {
		q, err := FromRecord(rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		questions = append(questions, q)
	}
	return questions, errs
}

func firstValue(rec map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func firstString(rec map[string]any, keys ...string) string {
	v, ok := firstValue(rec, keys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// coerceChoices accepts a native sequence or a JSON-encoded string form.
func coerceChoices(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				s = fmt.Sprintf("%v", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		var decoded []string
		if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
			return nil, fmt.Errorf("string form is not a JSON array: %w", err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", raw)
	}
}

// coerceIndex accepts a number, a numeric string, or a choice letter.
func coerceIndex(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return -1, nil
		}
		if n, err := strconv.Atoi(trimmed); err == nil {
			return n, nil
		}
		// Single choice letter: A=0, B=1, ...
		upper := strings.ToUpper(trimmed)
		if len(upper) == 1 && upper[0] >= 'A' && upper[0] <= 'F' {
			return int(upper[0] - 'A'), nil
		}
		return 0, fmt.Errorf("cannot interpret %q as an index", v)
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

func coerceStringSlice(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}
