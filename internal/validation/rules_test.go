package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowhat82/mockexamify/internal/types"
)

func wellFormed() types.Question {
	return types.Question{
		ID:           "q-1",
		Text:         "Which protocol operates at the transport layer of the OSI model?",
		Choices:      []string{"TCP", "IP", "Ethernet", "HTTP"},
		CorrectIndex: 0,
		Explanation:  "TCP provides reliable, ordered delivery and sits at layer 4 of the OSI model.",
	}
}

func TestStructuralRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*types.Question)
		rule     Rule
		wantHit  bool
		severity Severity
	}{
		{
			name:    "well-formed passes text presence",
			mutate:  func(q *types.Question) {},
			rule:    TextPresenceRule{},
			wantHit: false,
		},
		{
			name:     "blank text",
			mutate:   func(q *types.Question) { q.Text = "   " },
			rule:     TextPresenceRule{},
			wantHit:  true,
			severity: SeverityCritical,
		},
		{
			name:     "no choices",
			mutate:   func(q *types.Question) { q.Choices = nil },
			rule:     ChoiceArityRule{},
			wantHit:  true,
			severity: SeverityCritical,
		},
		{
			name:     "single choice",
			mutate:   func(q *types.Question) { q.Choices = []string{"TCP"} },
			rule:     ChoiceArityRule{},
			wantHit:  true,
			severity: SeverityCritical,
		},
		{
			name: "seven choices warns",
			mutate: func(q *types.Question) {
				q.Choices = []string{"a", "b", "c", "d", "e", "f", "g"}
			},
			rule:     ChoiceArityRule{},
			wantHit:  true,
			severity: SeverityWarning,
		},
		{
			name:     "blank choice",
			mutate:   func(q *types.Question) { q.Choices[2] = "" },
			rule:     ChoiceArityRule{},
			wantHit:  true,
			severity: SeverityCritical,
		},
		{
			name:     "index equals len(choices)",
			mutate:   func(q *types.Question) { q.CorrectIndex = 4 },
			rule:     AnswerBoundsRule{},
			wantHit:  true,
			severity: SeverityCritical,
		},
		{
			name:     "negative index",
			mutate:   func(q *types.Question) { q.CorrectIndex = -1 },
			rule:     AnswerBoundsRule{},
			wantHit:  true,
			severity: SeverityCritical,
		},
		{
			name:    "in-range index passes bounds",
			mutate:  func(q *types.Question) { q.CorrectIndex = 3 },
			rule:    AnswerBoundsRule{},
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := wellFormed()
			tt.mutate(&q)
			findings := tt.rule.Check(q)
			if !tt.wantHit {
				assert.Empty(t, findings)
				return
			}
			require.NotEmpty(t, findings)
			assert.Equal(t, tt.severity, findings[0].Severity)
			assert.Equal(t, tt.rule.Name(), findings[0].Rule)
			assert.Equal(t, q.ID, findings[0].QuestionID)
		})
	}
}

func TestAnswerBoundsRule_MessageNamesIndex(t *testing.T) {
	q := wellFormed()
	q.CorrectIndex = len(q.Choices) // == 4, one past the end

	findings := AnswerBoundsRule{}.Check(q)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "index 4")
}

func TestMissingDataRule(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantHit bool
	}{
		{
			name:    "references data with no numbers and short text",
			text:    "Given the following portfolio, compute the expected return.",
			wantHit: true,
		},
		{
			name:    "references data but numbers are present",
			text:    "Given the following returns: 5%, 7%, 3%, compute the mean.",
			wantHit: false,
		},
		{
			name: "references data, no digits, but long enough to embed it",
			text: "Using the following scenario about an investor whose portfolio holds " +
				"equal weights of domestic equities, foreign bonds, commodities and cash, " +
				"and who rebalances quarterly regardless of market conditions, decide which " +
				"statement best describes the strategy.",
			wantHit: false,
		},
		{
			name:    "no data reference at all",
			text:    "What is duration?",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := wellFormed()
			q.Text = tt.text
			findings := MissingDataRule{}.Check(q)
			assert.Equal(t, tt.wantHit, len(findings) == 1, "findings: %v", findings)
		})
	}
}

func TestMissingStatementsRule(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantHit bool
	}{
		{
			name:    "statements phrase with no list",
			text:    "Evaluate the following statements and pick the correct combination.",
			wantHit: true,
		},
		{
			name:    "numbered statements present",
			text:    "Consider the following statements:\n1. Bonds carry duration risk.\n2. Equities do not.",
			wantHit: false,
		},
		{
			name:    "roman numeral statements present",
			text:    "Consider the following statements:\ni. First claim.\nii. Second claim.",
			wantHit: false,
		},
		{
			name:    "no statements phrase",
			text:    "Which statement about bonds is true?",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := wellFormed()
			q.Text = tt.text
			findings := MissingStatementsRule{}.Check(q)
			assert.Equal(t, tt.wantHit, len(findings) == 1, "findings: %v", findings)
		})
	}
}

func TestMissingContextRule(t *testing.T) {
	q := wellFormed()
	q.Text = "Based on the following, which action should the adviser take?"
	findings := MissingContextRule{}.Check(q)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityCritical, findings[0].Severity)

	// A colon introducing the context clears the rule.
	q.Text = "Based on the following: the client is 64 and risk-averse. Which action should the adviser take?"
	assert.Empty(t, MissingContextRule{}.Check(q))
}

func TestStrippedCaseStudyRule(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		scenario string
		wantHit  bool
	}{
		{
			name:    "named individual, violation language, no scenario",
			text:    "Has Mr Tan contravened the disclosure requirements?",
			wantHit: true,
		},
		{
			name:     "same question with substantial scenario attached",
			text:     "Has Mr Tan contravened the disclosure requirements?",
			scenario: "Mr Tan sold a structured product to a retail client without providing the product highlights sheet.",
			wantHit:  false,
		},
		{
			name:    "violation language but no named individual",
			text:    "Which of these acts would be a violation of the advertising rules?",
			wantHit: false,
		},
		{
			name:    "named individual but no violation language",
			text:    "Alice Wong manages a balanced fund. What is her benchmark?",
			wantHit: false,
		},
		{
			name: "long question embeds its own case study",
			text: "Mr Tan, a licensed representative, recommended a capital-protected note to Mdm Lee, " +
				"an elderly client with no investment experience, without assessing her risk profile or " +
				"explaining the product's lock-in period, and she later complained she was guilty of nothing " +
				"but trusting his advice. Has Mr Tan contravened the fair dealing guidelines?",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := wellFormed()
			q.Text = tt.text
			q.Scenario = tt.scenario
			findings := StrippedCaseStudyRule{}.Check(q)
			assert.Equal(t, tt.wantHit, len(findings) == 1, "findings: %v", findings)
		})
	}
}

func TestSelfContradictionRule(t *testing.T) {
	q := wellFormed()
	q.Explanation = "The stated answer does not match the calculation shown above."
	findings := SelfContradictionRule{}.Check(q)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityCritical, findings[0].Severity)

	q.Explanation = "TCP is the only transport-layer protocol among the options."
	assert.Empty(t, SelfContradictionRule{}.Check(q))

	q.Explanation = ""
	assert.Empty(t, SelfContradictionRule{}.Check(q))
}

func TestAnswerMismatchRule(t *testing.T) {
	tests := []struct {
		name        string
		explanation string
		correct     int
		wantHit     bool
	}{
		{
			name:        "explanation agrees with stored index",
			explanation: "The correct answer is A because TCP is a transport protocol.",
			correct:     0,
			wantHit:     false,
		},
		{
			name:        "explanation names a different letter",
			explanation: "The correct answer is C because Ethernet frames carry the payload.",
			correct:     0,
			wantHit:     true,
		},
		{
			name:        "answer colon form disagrees",
			explanation: "Answer: B. IP handles addressing.",
			correct:     0,
			wantHit:     true,
		},
		{
			name:        "no letter named",
			explanation: "TCP provides reliable delivery.",
			correct:     0,
			wantHit:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := wellFormed()
			q.Explanation = tt.explanation
			q.CorrectIndex = tt.correct
			findings := AnswerMismatchRule{}.Check(q)
			assert.Equal(t, tt.wantHit, len(findings) == 1, "findings: %v", findings)
			if tt.wantHit {
				assert.Equal(t, SeverityCritical, findings[0].Severity)
			}
		})
	}
}

func TestShortExplanationRule(t *testing.T) {
	q := wellFormed()
	q.Explanation = "Because TCP."
	findings := ShortExplanationRule{}.Check(q)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)

	q.Explanation = ""
	assert.Empty(t, ShortExplanationRule{}.Check(q), "missing explanation is not the same as a short one")
}
