package ports

import (
	"context"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/query"
)

// ReadInput addresses a read. ID is empty for list reads.
type ReadInput struct {
	Actor      domain.Actor
	Collection string
	ID         string
	Params     query.Params
}

// WriteInput addresses a create, replace, merge or delete.
type WriteInput struct {
	Actor      domain.Actor
	Collection string
	ID         string
	Payload    domain.Document
}

// DataService exposes the general namespace through the rule engine.
type DataService interface {
	Collections(ctx context.Context) []string
	// Read returns a domain.Document, a []domain.Document or an int (count).
	Read(ctx context.Context, in ReadInput) (any, error)
	Create(ctx context.Context, in WriteInput) (domain.Document, error)
	Replace(ctx context.Context, in WriteInput) (domain.Document, error)
	Merge(ctx context.Context, in WriteInput) (domain.Document, error)
	Delete(ctx context.Context, in WriteInput) (domain.Deletion, error)
}
