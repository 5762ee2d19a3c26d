package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sowhat82/mockexamify/internal/types"
)

const explanationMaxTokens = 1024

// RegenerateExplanation asks the model to write a replacement explanation
// for a question whose existing explanation was flagged by the validator
// (self-contradiction, answer mismatch, or too short).
//
// Unlike similarity scoring this uses the retry path: a one-off repair run
// would rather wait out a rate limit than abort.
func (c *Client) RegenerateExplanation(ctx context.Context, q types.Question) (string, error) {
	if err := q.Validate(); err != nil {
		return "", fmt.Errorf("cannot regenerate explanation for invalid question: %w", err)
	}

	prompt := buildExplanationPrompt(q)

	responseText, err := c.CompleteWithRetry(ctx, prompt, "regenerate_explanation", explanationMaxTokens)
	if err != nil {
		return "", fmt.Errorf("explanation regeneration failed: %w", err)
	}

	explanation := strings.TrimSpace(responseText)
	if explanation == "" {
		return "", fmt.Errorf("model returned an empty explanation")
	}
	return explanation, nil
}

func buildExplanationPrompt(q types.Question) string {
	var choices strings.Builder
	for i, c := range q.Choices {
		fmt.Fprintf(&choices, "%c. %s\n", 'A'+byte(i), c)
	}

	scenario := ""
	if q.Scenario != "" {
		scenario = fmt.Sprintf("\nSCENARIO:\n%s\n", q.Scenario)
	}

	return fmt.Sprintf(`You are writing the answer explanation for a multiple-choice exam question.
%s
QUESTION:
%s

CHOICES:
%sCORRECT ANSWER: %c

TASK:
Write a clear explanation of why choice %c is correct and, briefly, why the
other choices are wrong. 2-4 sentences. Do not hedge, do not question the
stated answer, and do not mention that you are an AI.

Respond with ONLY the explanation text.`,
		scenario, q.Text, choices.String(), 'A'+byte(q.CorrectIndex), 'A'+byte(q.CorrectIndex))
}
