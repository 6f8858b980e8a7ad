package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

// SeedLoader imports every collection of a database as general namespace
// seed data. Documents are converted to the JSON value model: numbers become
// float64, dates become epoch milliseconds and ObjectIDs become hex strings.
type SeedLoader struct {
	db *mongo.Database
}

func NewSeedLoader(db *mongo.Database) *SeedLoader {
	return &SeedLoader{db: db}
}

// Load reads all non-system collections.
func (l *SeedLoader) Load(ctx context.Context) (ports.Seed, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	names, err := l.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongo list collections: %w", err)
	}

	seed := ports.Seed{}
	for _, name := range names {
		if strings.HasPrefix(name, "system.") {
			continue
		}
		cursor, err := l.db.Collection(name).Find(ctx, bson.D{})
		if err != nil {
			return nil, fmt.Errorf("mongo find %s: %w", name, err)
		}
		var raw []bson.M
		if err := cursor.All(ctx, &raw); err != nil {
			return nil, fmt.Errorf("mongo decode %s: %w", name, err)
		}
		records, err := ToRecords(raw)
		if err != nil {
			return nil, fmt.Errorf("mongo %s: %w", name, err)
		}
		seed[name] = records
	}
	return seed, nil
}

// ToRecords keys each document by its _id.
func ToRecords(raw []bson.M) (map[string]domain.Document, error) {
	records := make(map[string]domain.Document, len(raw))
	for _, m := range raw {
		doc, _ := convert(m).(map[string]any)
		id, ok := doc[domain.FieldID].(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("document without usable _id: %v", m[domain.FieldID])
		}
		delete(doc, domain.FieldID)
		records[id] = doc
	}
	return records, nil
}

func convert(v any) any {
	switch t := v.(type) {
	case bson.M:
		return convertMap(t)
	case map[string]any:
		return convertMap(t)
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = convert(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = convert(item)
		}
		return out
	case []any:
		return convert(bson.A(t))
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return float64(t)
	case primitive.Decimal128:
		return t.String()
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func convertMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = convert(v)
	}
	return out
}
