package validation

import (
	"regexp"
	"strings"

	"github.com/sowhat82/mockexamify/internal/types"
)

// Pre-compiled patterns shared by the content heuristics. Compiling per
// check would dominate batch validation time.
var (
	digitRegex = regexp.MustCompile(`\d`)

	// Enumerated statement markers: "1.", "(2)", "i.", "a)", "I.", bullets.
	statementMarkerRegex = regexp.MustCompile(`(?mi)(?:^|\n)\s*(?:\(?\d+[.)]|\(?[ivx]+[.)]|\(?[a-e][.)]|[-•*]\s)`)

	// Structural delimiters that usually introduce referenced context.
	contextDelimiterRegex = regexp.MustCompile(`[:;\n•]|(?:\s-\s)`)

	// Honorific or two-capitalized-words sequences that look like a named
	// individual ("Mr Tan", "Alice Wong").
	namedPersonRegex = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr|Mdm)\.?\s+[A-Z][a-z]+|\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
)

const shortQuestionLength = 200

// dataReferencePhrases point at tabular or numeric data the question is
// expected to embed.
var dataReferencePhrases = []string{
	"given the following",
	"using the following",
}

// MissingDataRule flags questions that say "given the following ..." but
// contain no numeric data and are too short to plausibly include any. This
// indicates a question whose data table was lost during extraction.
type MissingDataRule struct{}

func (MissingDataRule) Name() string { return "missing_data" }

func (r MissingDataRule) Check(q types.Question) []Finding {
	lower := strings.ToLower(q.Text)
	for _, phrase := range dataReferencePhrases {
		if strings.Contains(lower, phrase) &&
			!digitRegex.MatchString(q.Text) &&
			len(q.Text) < shortQuestionLength {
			return []Finding{{
				Severity:   SeverityCritical,
				Rule:       r.Name(),
				Message:    "question references data (\"" + phrase + "\") but contains none",
				QuestionID: q.ID,
			}}
		}
	}
	return nil
}

// MissingStatementsRule flags "evaluate/consider the following statements"
// questions with no enumerated statement list.
type MissingStatementsRule struct{}

func (MissingStatementsRule) Name() string { return "missing_statements" }

var statementPhraseRegex = regexp.MustCompile(`(?i)(?:evaluate|consider)\s+the\s+following\s+statements?`)

func (r MissingStatementsRule) Check(q types.Question) []Finding {
	if statementPhraseRegex.MatchString(q.Text) && !statementMarkerRegex.MatchString(q.Text) {
		return []Finding{{
			Severity:   SeverityCritical,
			Rule:       r.Name(),
			Message:    "question asks to evaluate statements but lists none",
			QuestionID: q.ID,
		}}
	}
	return nil
}

// MissingContextRule flags short "based on the following" questions with no
// structural delimiter introducing the referenced material.
type MissingContextRule struct{}

func (MissingContextRule) Name() string { return "missing_context" }

func (r MissingContextRule) Check(q types.Question) []Finding {
	lower := strings.ToLower(q.Text)
	if strings.Contains(lower, "based on the following") &&
		len(q.Text) < shortQuestionLength &&
		!contextDelimiterRegex.MatchString(q.Text) {
		return []Finding{{
			Severity:   SeverityCritical,
			Rule:       r.Name(),
			Message:    "question references context (\"based on the following\") that is not included",
			QuestionID: q.ID,
		}}
	}
	return nil
}

// violationPhrases signal a regulatory case-study question.
var violationPhrases = []string{
	"contravened",
	"contravention",
	"guilty of",
	"in breach of",
	"violated",
	"violation of",
}

const minScenarioLength = 50

// StrippedCaseStudyRule flags questions about a named individual's
// regulatory conduct that arrive with no substantial scenario text. These
// are case-study questions whose case study was stripped during upload.
type StrippedCaseStudyRule struct{}

func (StrippedCaseStudyRule) Name() string { return "stripped_case_study" }

func (r StrippedCaseStudyRule) Check(q types.Question) []Finding {
	lower := strings.ToLower(q.Text)
	hasViolation := false
	for _, phrase := range violationPhrases {
		if strings.Contains(lower, phrase) {
			hasViolation = true
			break
		}
	}
	if !hasViolation || !namedPersonRegex.MatchString(q.Text) {
		return nil
	}
	if len(strings.TrimSpace(q.Scenario)) >= minScenarioLength {
		return nil
	}
	// The question text itself may embed the scenario; a long question is
	// given the benefit of the doubt.
	if len(q.Text) >= shortQuestionLength {
		return nil
	}
	return []Finding{{
		Severity:   SeverityCritical,
		Rule:       r.Name(),
		Message:    "case-study question about a named individual has no accompanying scenario",
		QuestionID: q.ID,
	}}
}
