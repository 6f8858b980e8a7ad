// Package store holds the in-memory document store.
//
// The store guards its maps with a read/write mutex taken per single map
// operation. Set, Merge and Delete read the existing record and write the new
// one under separate lock acquisitions, so a concurrent writer may interleave
// between the two steps; callers get last-writer-wins for the same record.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

type collection struct {
	order   []string
	records map[string]domain.Document
}

func newCollection() *collection {
	return &collection{records: make(map[string]domain.Document)}
}

func (c *collection) put(id string, doc domain.Document) {
	if _, ok := c.records[id]; !ok {
		c.order = append(c.order, id)
	}
	c.records[id] = doc
}

func (c *collection) remove(id string) {
	delete(c.records, id)
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			return
		}
	}
}

// MemoryStore implements ports.DocumentStore on nested maps.
type MemoryStore struct {
	mu          sync.RWMutex
	names       []string
	collections map[string]*collection
	now         func() time.Time
	newID       func() string
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the time source used for system timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) { s.newID = gen }
}

var _ ports.DocumentStore = (*MemoryStore)(nil)

// New returns a store populated with seed. Seed records are stored as given,
// system fields included, in identifier order.
func New(seed ports.Seed, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		collections: make(map[string]*collection),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, name := range sortedKeys(seed) {
		col := s.ensure(name)
		records := seed[name]
		for _, id := range sortedKeys(records) {
			doc := records[id].Clone()
			delete(doc, domain.FieldID)
			col.put(id, doc)
		}
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ensure must be called with mu held for writing, or before the store is shared.
func (s *MemoryStore) ensure(name string) *collection {
	col, ok := s.collections[name]
	if !ok {
		col = newCollection()
		s.collections[name] = col
		s.names = append(s.names, name)
	}
	return col
}

func (s *MemoryStore) millis() int64 {
	return s.now().UnixMilli()
}

func withID(doc domain.Document, id string) domain.Document {
	out := doc.Clone()
	out[domain.FieldID] = id
	return out
}

func collectionMissing(name string) error {
	return domain.NotFound("Collection does not exist: " + name)
}

func entryMissing(id string) error {
	return domain.NotFound("Entry does not exist: " + id)
}

func (s *MemoryStore) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *MemoryStore) List(name string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok {
		return nil, collectionMissing(name)
	}
	out := make([]domain.Document, 0, len(col.order))
	for _, id := range col.order {
		out = append(out, withID(col.records[id], id))
	}
	return out, nil
}

func (s *MemoryStore) Get(name, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(name, id)
}

func (s *MemoryStore) getLocked(name, id string) (domain.Document, error) {
	col, ok := s.collections[name]
	if !ok {
		return nil, collectionMissing(name)
	}
	rec, ok := col.records[id]
	if !ok {
		return nil, entryMissing(id)
	}
	return withID(rec, id), nil
}

// assignClean copies every non-system field of src onto dst.
func assignClean(dst, src domain.Document) domain.Document {
	for k, v := range src {
		if domain.IsSystemField(k) {
			continue
		}
		dst[k] = domain.CloneValue(v)
	}
	return dst
}

func (s *MemoryStore) Add(name string, payload domain.Document) (domain.Document, error) {
	record := domain.Document{}
	if owner, ok := payload[domain.FieldOwnerID]; ok {
		record[domain.FieldOwnerID] = domain.CloneValue(owner)
	}
	assignClean(record, payload)
	record[domain.FieldCreatedOn] = s.millis()

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.ensure(name)
	id := s.newID()
	for {
		if _, taken := col.records[id]; !taken {
			break
		}
		id = s.newID()
	}
	col.put(id, record)
	return withID(record, id), nil
}

func (s *MemoryStore) Set(name, id string, payload domain.Document) (domain.Document, error) {
	existing, err := s.Get(name, id)
	if err != nil {
		return nil, err
	}

	record := assignClean(domain.Document{}, payload)
	for _, f := range []string{domain.FieldCreatedOn, domain.FieldOwnerID} {
		if v, ok := existing[f]; ok {
			record[f] = v
		}
	}
	record[domain.FieldUpdatedOn] = s.millis()

	return s.write(name, id, record)
}

func (s *MemoryStore) Merge(name, id string, payload domain.Document) (domain.Document, error) {
	existing, err := s.Get(name, id)
	if err != nil {
		return nil, err
	}

	delete(existing, domain.FieldID)
	record := assignClean(existing, payload)
	record[domain.FieldUpdatedOn] = s.millis()

	return s.write(name, id, record)
}

// write stores record if the target still exists.
func (s *MemoryStore) write(name, id string, record domain.Document) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		return nil, collectionMissing(name)
	}
	if _, ok := col.records[id]; !ok {
		return nil, entryMissing(id)
	}
	col.put(id, record)
	return withID(record, id), nil
}

func (s *MemoryStore) Delete(name, id string) (domain.Deletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		return domain.Deletion{}, collectionMissing(name)
	}
	if _, ok := col.records[id]; !ok {
		return domain.Deletion{}, entryMissing(id)
	}
	col.remove(id)
	return domain.Deletion{DeletedOn: s.millis()}, nil
}

func (s *MemoryStore) Query(name string, filter domain.Document) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok {
		return nil, collectionMissing(name)
	}
	out := []domain.Document{}
	for _, id := range col.order {
		rec := col.records[id]
		if matches(rec, id, filter) {
			out = append(out, withID(rec, id))
		}
	}
	return out, nil
}

func matches(rec domain.Document, id string, filter domain.Document) bool {
	for k, want := range filter {
		var got any
		var ok bool
		if k == domain.FieldID {
			got, ok = id, true
		} else {
			got, ok = rec[k]
		}
		if !ok {
			return false
		}
		ws, wantStr := want.(string)
		gs, gotStr := got.(string)
		if wantStr && gotStr {
			if !strings.EqualFold(ws, gs) {
				return false
			}
			continue
		}
		if !domain.LooseEqual(want, got) {
			return false
		}
	}
	return true
}
