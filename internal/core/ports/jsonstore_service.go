package ports

import (
	"context"

	"github.com/sups/practice-server/internal/core/domain"
)

// JSONStoreService is a rule-free JSON tree addressed by path segments. The
// first segment names a collection; deeper segments walk nested objects and
// array indexes. Operations on a path that does not exist return a nil value
// and a nil error.
type JSONStoreService interface {
	Get(ctx context.Context, path []string) (any, error)
	// Create stores body under a fresh id below path, creating missing
	// objects on the way.
	Create(ctx context.Context, path []string, body domain.Document) (domain.Document, error)
	Replace(ctx context.Context, path []string, body any) (any, error)
	Merge(ctx context.Context, path []string, body domain.Document) (any, error)
	Delete(ctx context.Context, path []string) (any, error)
}
