package query

import (
	"fmt"
	"strings"

	"github.com/sups/practice-server/internal/core/domain"
)

// Relation is one `alias=localField:foreignCollection` entry of load.
type Relation struct {
	Alias      string
	LocalField string
	Collection string
}

// Resolver fetches a related record.
type Resolver func(collection, id string) (domain.Document, error)

// ParseLoad decodes a comma-separated list of relations.
func ParseLoad(s string) ([]Relation, error) {
	var out []Relation
	for _, item := range splitList(s) {
		alias, target, ok := strings.Cut(item, "=")
		if !ok {
			return nil, domain.RequestErr(fmt.Sprintf("Invalid load expression %q", item))
		}
		local, collection, ok := strings.Cut(target, ":")
		if !ok || alias == "" || local == "" || collection == "" {
			return nil, domain.RequestErr(fmt.Sprintf("Invalid load expression %q", item))
		}
		out = append(out, Relation{Alias: alias, LocalField: local, Collection: collection})
	}
	return out, nil
}

// attach resolves rel for doc and stores the related record, minus any hashed
// secret, under rel.Alias.
func attach(doc domain.Document, rel Relation, resolve Resolver) error {
	id, _ := doc[rel.LocalField].(string)
	if id == "" {
		return domain.NotFound(fmt.Sprintf("Entry does not exist: %v", doc[rel.LocalField]))
	}
	related, err := resolve(rel.Collection, id)
	if err != nil {
		return fmt.Errorf("load %s: %w", rel.Alias, err)
	}
	delete(related, domain.FieldHashedPassword)
	doc[rel.Alias] = related
	return nil
}
