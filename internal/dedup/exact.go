package dedup

import (
	"github.com/sowhat82/mockexamify/internal/types"
)

// DetectExactDuplicates partitions newQuestions into questions not yet
// present and questions whose content hash collides with the existing
// pool or with an earlier question in the same batch.
//
// Both outputs preserve the relative order of newQuestions, and every
// input question lands in exactly one of them. Matching is exact after
// normalization (case, whitespace, choice order); semantic matching is
// the similarity detector's job.
func DetectExactDuplicates(newQuestions, existing []types.Question) (unique, duplicates []types.Question) {
	unique = make([]types.Question, 0, len(newQuestions))
	duplicates = make([]types.Question, 0)

	seen := make(map[string]struct{}, len(existing)+len(newQuestions))
	for i := range existing {
		seen[existing[i].Hash()] = struct{}{}
	}

	for _, q := range newQuestions {
		h := q.Hash()
		if _, dup := seen[h]; dup {
			duplicates = append(duplicates, q)
			continue
		}
		// Later questions in the same batch dedup against this one too.
		seen[h] = struct{}{}
		unique = append(unique, q)
	}

	return unique, duplicates
}
