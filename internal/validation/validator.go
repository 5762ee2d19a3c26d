package validation

import (
	"github.com/sowhat82/mockexamify/internal/types"
)

// Validator runs an ordered rule set over questions. Zero value is not
// usable; construct with New or NewWithRules.
type Validator struct {
	rules []Rule
}

// DefaultRules returns the standard rule set: structural checks first, then
// content heuristics, then explanation checks. Order only affects finding
// order in reports; every rule always runs.
func DefaultRules() []Rule {
	return []Rule{
		TextPresenceRule{},
		ChoiceArityRule{},
		AnswerBoundsRule{},
		MissingDataRule{},
		MissingStatementsRule{},
		MissingContextRule{},
		StrippedCaseStudyRule{},
		SelfContradictionRule{},
		AnswerMismatchRule{},
		ShortExplanationRule{},
	}
}

// New creates a validator with the default rule set.
func New() *Validator {
	return NewWithRules(DefaultRules())
}

// NewWithRules creates a validator with a custom rule set. Useful for
// one-off audits that run a subset, or for tests exercising single rules.
func NewWithRules(rules []Rule) *Validator {
	return &Validator{rules: rules}
}

// Rules returns the rule set. The slice is shared; callers must not mutate.
func (v *Validator) Rules() []Rule {
	return v.rules
}

// ValidateQuestion runs every rule over one question. The question is valid
// when no critical finding was produced; warnings alone do not invalidate.
func (v *Validator) ValidateQuestion(q types.Question) (bool, []Finding) {
	var findings []Finding
	for _, rule := range v.rules {
		findings = append(findings, rule.Check(q)...)
	}
	return !HasCritical(findings), findings
}

// Rejected pairs a rejected question with the findings that rejected it.
type Rejected struct {
	Question types.Question `json:"question"`
	Findings []Finding      `json:"findings"`
}

// ValidateBatch partitions questions into accepted and rejected.
//
// In strict mode any finding, including warnings, rejects the question.
// Outside strict mode only critical findings reject. This is the two-tier
// quality gate: automated ingestion runs permissive, one-off audits run
// strict.
func (v *Validator) ValidateBatch(questions []types.Question, strict bool) (valid []types.Question, rejected []Rejected) {
	for _, q := range questions {
		ok, findings := v.ValidateQuestion(q)
		blocked := !ok || (strict && len(findings) > 0)
		if blocked {
			rejected = append(rejected, Rejected{Question: q, Findings: findings})
			continue
		}
		valid = append(valid, q)
	}
	return valid, rejected
}
