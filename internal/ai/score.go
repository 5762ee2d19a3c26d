package ai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sowhat82/mockexamify/internal/types"
)

// scoreMaxTokens keeps similarity responses short: the prompt asks for a
// single float literal and nothing else.
const scoreMaxTokens = 16

// floatLiteralRegex extracts a bare float token from a response that
// ignored the "number only" instruction (e.g. "Similarity: 0.85").
var floatLiteralRegex = regexp.MustCompile(`\d*\.\d+|\d+`)

// ParseScore parses a similarity score from raw model output.
//
// The primary path is a strict float-literal parse of the trimmed text. If
// the model wrapped the number in words, the first float token is used as a
// fallback. Anything outside [0.0, 1.0], or with no number at all, fails.
// Failure is reported, never raised: the caller records 0.0 and continues.
func ParseScore(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}

	if score, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return validScore(score)
	}

	if token := floatLiteralRegex.FindString(trimmed); token != "" {
		if score, err := strconv.ParseFloat(token, 64); err == nil {
			return validScore(score)
		}
	}

	return 0, false
}

func validScore(score float64) (float64, bool) {
	if score < 0.0 || score > 1.0 {
		return 0, false
	}
	return score, true
}

// ScoreSimilarity asks the model for a single similarity score between two
// questions. It makes exactly one attempt: rate limits must surface
// immediately (satisfying IsRateLimit) so a batch scan can abort early.
//
// A response that cannot be parsed as a score returns (0, nil); an
// unparseable response is a local fluke, not a reason to fail the scan.
func (c *Client) ScoreSimilarity(ctx context.Context, a, b types.Question) (float64, error) {
	prompt := buildSimilarityPrompt(a, b)

	responseText, err := c.Complete(ctx, prompt, "similarity_score", scoreMaxTokens)
	if err != nil {
		return 0, err
	}

	score, ok := ParseScore(responseText)
	if !ok {
		fmt.Printf("[SCORE] unparseable similarity response %q, recording 0.0\n", truncateString(responseText, 80))
		return 0, nil
	}
	return score, nil
}

// buildSimilarityPrompt renders the pairwise comparison prompt. The
// expected response is a single float literal between 0.0 and 1.0; that
// format is part of the contract with the provider.
func buildSimilarityPrompt(a, b types.Question) string {
	return fmt.Sprintf(`You are comparing two multiple-choice exam questions for semantic similarity.

QUESTION 1:
%s
Choices: %s

QUESTION 2:
%s
Choices: %s

TASK:
Rate how likely these two questions test the SAME concept, even if the wording differs.

SCORING GUIDE:
- 1.0: identical question, possibly reworded
- 0.9-0.99: same concept and same answer, different surface wording
- 0.7-0.89: closely related concept, different emphasis
- 0.4-0.69: same topic area, different concept
- 0.0-0.39: unrelated

IMPORTANT: Respond with ONLY a single number between 0.0 and 1.0. No words, no explanation.`,
		a.Text, strings.Join(a.Choices, " | "),
		b.Text, strings.Join(b.Choices, " | "))
}

// truncateString truncates a string to maxLen characters for log output.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
