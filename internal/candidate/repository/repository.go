package repository

import (
	"context"

	"github.com/codegrapher/graphers/internal/candidate"
)

// CollectionName is the Mongo collection holding candidate records.
const CollectionName = "candidate_collection"

// Repository is implemented by MongoRepo and MemoryRepo.
type Repository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, c *candidate.Candidate) (*candidate.Candidate, error)
	Get(ctx context.Context, id string) (*candidate.Candidate, error)
	List(ctx context.Context, q candidate.Query) ([]*candidate.Candidate, error)
	Update(ctx context.Context, id string, p candidate.Patch) (*candidate.Candidate, error)
	Delete(ctx context.Context, id string) error
	// Stream calls fn with consecutive batches of at most batchSize records,
	// in insertion order, until the collection is exhausted or fn fails. The
	// slice is reused between calls.
	Stream(ctx context.Context, batchSize int, fn func([]candidate.Candidate) error) error
}
