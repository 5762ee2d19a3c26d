package validation

import (
	"fmt"
	"strings"

	"github.com/sowhat82/mockexamify/internal/types"
)

// TextPresenceRule requires non-empty question text.
type TextPresenceRule struct{}

func (TextPresenceRule) Name() string { return "text_presence" }

func (r TextPresenceRule) Check(q types.Question) []Finding {
	if strings.TrimSpace(q.Text) == "" {
		return []Finding{{
			Severity:   SeverityCritical,
			Rule:       r.Name(),
			Message:    "question text is missing",
			QuestionID: q.ID,
		}}
	}
	return nil
}

// ChoiceArityRule requires a usable choice set: present, at least two
// entries, none blank. The normalization boundary already decoded
// JSON-string choice columns into a native slice, so an empty slice here
// means the record genuinely had no parseable choices.
type ChoiceArityRule struct{}

func (ChoiceArityRule) Name() string { return "choice_arity" }

func (r ChoiceArityRule) Check(q types.Question) []Finding {
	var findings []Finding
	if len(q.Choices) == 0 {
		return []Finding{{
			Severity:   SeverityCritical,
			Rule:       r.Name(),
			Message:    "question has no choices",
			QuestionID: q.ID,
		}}
	}
	if len(q.Choices) < types.MinChoices {
		findings = append(findings, Finding{
			Severity:   SeverityCritical,
			Rule:       r.Name(),
			Message:    fmt.Sprintf("question has %d choices, need at least %d", len(q.Choices), types.MinChoices),
			QuestionID: q.ID,
		})
	}
	if len(q.Choices) > types.MaxChoices {
		findings = append(findings, Finding{
			Severity:   SeverityWarning,
			Rule:       r.Name(),
			Message:    fmt.Sprintf("question has %d choices, expected at most %d", len(q.Choices), types.MaxChoices),
			QuestionID: q.ID,
		})
	}
	for i, c := range q.Choices {
		if strings.TrimSpace(c) == "" {
			findings = append(findings, Finding{
				Severity:   SeverityCritical,
				Rule:       r.Name(),
				Message:    fmt.Sprintf("choice %d is blank", i),
				QuestionID: q.ID,
			})
		}
	}
	return findings
}

// AnswerBoundsRule requires the correct-answer index to be an in-range
// integer. A record that arrived with no answer at all normalizes to -1 and
// is reported here.
type AnswerBoundsRule struct{}

func (AnswerBoundsRule) Name() string { return "answer_bounds" }

func (r AnswerBoundsRule) Check(q types.Question) []Finding {
	if len(q.Choices) == 0 {
		// ChoiceArityRule already reported; without choices there is no
		// range to check against.
		return nil
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return []Finding{{
			Severity:   SeverityCritical,
			Rule:       r.Name(),
			Message:    fmt.Sprintf("correct answer index %d is out of range [0, %d)", q.CorrectIndex, len(q.Choices)),
			QuestionID: q.ID,
		}}
	}
	return nil
}
