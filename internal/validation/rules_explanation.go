package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sowhat82/mockexamify/internal/types"
)

// hedgingPhrases indicate the explanation's author doubted their own answer.
// An explanation that argues with itself is worse than no explanation: it
// teaches the learner the wrong thing with confidence.
var hedgingPhrases = []string{
	"does not match",
	"doesn't match",
	"does not correspond",
	"the answer should be",
	"the stated answer",
	"may be incorrect",
	"might be incorrect",
	"appears to be incorrect",
	"unclear which",
	"ambiguous",
	"not sure",
	"however, the correct",
	"contradicts",
}

// SelfContradictionRule flags explanations containing hedging or
// self-contradiction language.
type SelfContradictionRule struct{}

func (SelfContradictionRule) Name() string { return "explanation_self_contradiction" }

func (r SelfContradictionRule) Check(q types.Question) []Finding {
	if q.Explanation == "" {
		return nil
	}
	lower := strings.ToLower(q.Explanation)
	for _, phrase := range hedgingPhrases {
		if strings.Contains(lower, phrase) {
			return []Finding{{
				Severity:   SeverityCritical,
				Rule:       r.Name(),
				Message:    fmt.Sprintf("explanation hedges or contradicts itself (%q)", phrase),
				QuestionID: q.ID,
			}}
		}
	}
	return nil
}

// answerLetterRegex extracts an explicit correct-choice letter from
// explanation text, e.g. "The correct answer is (B)" or "Answer: C".
var answerLetterRegex = regexp.MustCompile(`(?i)(?:correct\s+answer|answer)\s*(?:is|:)\s*\(?\s*([A-F])\s*[).\s]`)

// AnswerMismatchRule flags explanations that name a correct-choice letter
// disagreeing with the question's stored answer index.
type AnswerMismatchRule struct{}

func (AnswerMismatchRule) Name() string { return "explanation_answer_mismatch" }

func (r AnswerMismatchRule) Check(q types.Question) []Finding {
	if q.Explanation == "" || len(q.Choices) == 0 {
		return nil
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		// AnswerBoundsRule owns this case.
		return nil
	}

	m := answerLetterRegex.FindStringSubmatch(q.Explanation + " ")
	if m == nil {
		return nil
	}
	named := int(strings.ToUpper(m[1])[0] - 'A')
	if named == q.CorrectIndex {
		return nil
	}
	return []Finding{{
		Severity: SeverityCritical,
		Rule:     r.Name(),
		Message: fmt.Sprintf("explanation names answer %c but stored correct index is %d (%c)",
			'A'+byte(named), q.CorrectIndex, 'A'+byte(q.CorrectIndex)),
		QuestionID: q.ID,
	}}
}

const minExplanationLength = 50

// ShortExplanationRule warns when the explanation is under 50 characters.
// Non-blocking outside strict mode.
type ShortExplanationRule struct{}

func (ShortExplanationRule) Name() string { return "explanation_too_short" }

func (r ShortExplanationRule) Check(q types.Question) []Finding {
	if q.Explanation == "" {
		return nil
	}
	if len(strings.TrimSpace(q.Explanation)) < minExplanationLength {
		return []Finding{{
			Severity:   SeverityWarning,
			Rule:       r.Name(),
			Message:    fmt.Sprintf("explanation is under %d characters", minExplanationLength),
			QuestionID: q.ID,
		}}
	}
	return nil
}
