// Package storage defines the persistence interface for question pools.
package storage

import (
	"context"
	"time"

	"github.com/sowhat82/mockexamify/internal/types"
)

// ImportRecord is the audit entry written after each merge, so operators
// can answer "when did these questions arrive and from where".
type ImportRecord struct {
	ID         string
	Pool       string
	Source     string
	Added      int
	Skipped    int
	ImportedAt time.Time
}

// Storage is the interface for question-pool persistence backends.
//
// The dedup and validation packages never touch storage; they operate on
// question values. Only the CLI wires a Storage in, loading a pool before
// a merge and saving the merged result after.
type Storage interface {
	// SavePool replaces the stored contents of a pool with the given
	// questions, creating the pool if it does not exist. Order is
	// preserved.
	SavePool(ctx context.Context, name string, questions []types.Question) error

	// LoadPool returns the questions of a pool in stored order. A pool
	// that was never saved returns an empty slice, not an error.
	LoadPool(ctx context.Context, name string) ([]types.Question, error)

	// ListPools returns the names of all pools, sorted.
	ListPools(ctx context.Context) ([]string, error)

	// AppendQuestions appends questions to a pool without touching the
	// existing rows.
	AppendQuestions(ctx context.Context, name string, questions []types.Question) error

	// RecordImport writes an import audit entry.
	RecordImport(ctx context.Context, rec ImportRecord) error

	// ListImports returns the audit entries for a pool, newest first.
	ListImports(ctx context.Context, pool string) ([]ImportRecord, error)

	// Close releases the backend's resources.
	Close() error
}
