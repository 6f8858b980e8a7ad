package ports

import "github.com/sups/practice-server/internal/core/domain"

// DocumentStore is the in-memory document store contract. Every returned
// document is a deep copy; callers may mutate results freely.
type DocumentStore interface {
	// Collections returns the collection names in creation order.
	Collections() []string
	// List returns every record of collection, each annotated with its _id.
	List(collection string) ([]domain.Document, error)
	Get(collection, id string) (domain.Document, error)
	// Add stores payload under a fresh identifier, creating the collection
	// when absent.
	Add(collection string, payload domain.Document) (domain.Document, error)
	// Set replaces the record, keeping its _id, _createdOn and _ownerId.
	Set(collection, id string, payload domain.Document) (domain.Document, error)
	// Merge shallow-merges payload onto the record.
	Merge(collection, id string, payload domain.Document) (domain.Document, error)
	Delete(collection, id string) (domain.Deletion, error)
	// Query returns the records whose fields equal every key of filter
	// (strings compared case-insensitively).
	Query(collection string, filter domain.Document) ([]domain.Document, error)
}

// Seed maps collection name to record id to record.
type Seed map[string]map[string]domain.Document
