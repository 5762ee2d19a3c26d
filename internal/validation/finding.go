// Package validation checks structural and content integrity of exam
// questions before they enter a pool.
//
// The validator is a registry of small, independently testable rules. Each
// rule examines one aspect of a question and reports findings; rules never
// mutate the question and never return errors. Structural rules catch
// records that are unusable outright (missing choices, out-of-range answer
// index). Content rules are pattern-based heuristics that flag questions
// which reference material they do not actually contain, or explanations
// that contradict the stored answer. Heuristics will misfire occasionally;
// findings gate merging, they do not delete anything.
package validation

import (
	"fmt"

	"github.com/sowhat82/mockexamify/internal/types"
)

// Severity grades a finding.
type Severity string

const (
	// SeverityCritical marks a question unusable. Critical findings block
	// merging in every validation mode.
	SeverityCritical Severity = "CRITICAL"

	// SeverityWarning marks a quality concern that blocks only in strict
	// mode.
	SeverityWarning Severity = "WARNING"
)

// Finding is one validation result. Findings reference the offending
// question but never mutate it.
type Finding struct {
	Severity   Severity `json:"severity"`
	Rule       string   `json:"rule"`
	Message    string   `json:"message"`
	QuestionID string   `json:"question_id,omitempty"`
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Rule, f.Message)
}

// Rule is a single validation predicate. Implementations must be pure
// functions of the question.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check examines the question and returns zero or more findings.
	Check(q types.Question) []Finding
}

// HasCritical reports whether any finding in the slice is critical.
func HasCritical(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
