package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

// JSONStoreService keeps a free-form JSON tree in memory. Nothing here is
// authorized; it backs quick prototypes that need no users.
type JSONStoreService struct {
	mu    sync.RWMutex
	root  map[string]any
	newID func() string
	log   zerolog.Logger
}

var _ ports.JSONStoreService = (*JSONStoreService)(nil)

// NewJSONStoreService copies tree into a new store.
func NewJSONStoreService(tree map[string]any, log zerolog.Logger) *JSONStoreService {
	root, _ := domain.CloneValue(tree).(map[string]any)
	if root == nil {
		root = map[string]any{}
	}
	return &JSONStoreService{root: root, newID: uuid.NewString, log: log}
}

func (s *JSONStoreService) Get(_ context.Context, path []string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := walk(s.root, path)
	if !ok {
		return nil, nil
	}
	return domain.CloneValue(v), nil
}

func (s *JSONStoreService) Create(_ context.Context, path []string, body domain.Document) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.root
	for _, key := range path {
		next, ok := node[key]
		if !ok {
			m := map[string]any{}
			node[key] = m
			node = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return nil, domain.RequestErr(fmt.Sprintf("Cannot add records under %q", strings.Join(path, "/")))
		}
		node = m
	}

	id := s.newID()
	record, _ := plain(body).(map[string]any)
	record[domain.FieldID] = id
	node[id] = record

	s.log.Info().Str("path", strings.Join(path, "/")).Str("id", id).Msg("jsonstore entry created")
	return domain.Document(domain.CloneValue(record).(map[string]any)), nil
}

func (s *JSONStoreService) Replace(_ context.Context, path []string, body any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, key, ok := s.locate(path)
	if !ok {
		return nil, nil
	}
	if _, ok := child(parent, key); !ok {
		return nil, nil
	}
	setChild(parent, key, plain(body))

	s.log.Info().Str("path", strings.Join(path, "/")).Msg("jsonstore entry replaced")
	return plain(body), nil
}

func (s *JSONStoreService) Merge(_ context.Context, path []string, body domain.Document) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := walk(s.root, path)
	if !ok {
		return nil, nil
	}
	target, ok := v.(map[string]any)
	if !ok {
		return nil, domain.RequestErr(fmt.Sprintf("Cannot merge into %q", strings.Join(path, "/")))
	}
	for k, val := range body {
		target[k] = plain(val)
	}

	s.log.Info().Str("path", strings.Join(path, "/")).Msg("jsonstore entry merged")
	return domain.CloneValue(target), nil
}

func (s *JSONStoreService) Delete(_ context.Context, path []string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, key, ok := s.locate(path)
	if !ok {
		return nil, nil
	}
	v, ok := child(parent, key)
	if !ok {
		return nil, nil
	}
	switch p := parent.(type) {
	case map[string]any:
		delete(p, key)
	case []any:
		i, _ := strconv.Atoi(key)
		p[i] = nil
	}

	s.log.Info().Str("path", strings.Join(path, "/")).Msg("jsonstore entry deleted")
	return v, nil
}

// locate resolves the container holding the last segment of path.
func (s *JSONStoreService) locate(path []string) (parent any, key string, ok bool) {
	if len(path) == 0 {
		return nil, "", false
	}
	parent, ok = walk(s.root, path[:len(path)-1])
	return parent, path[len(path)-1], ok
}

func walk(root map[string]any, path []string) (any, bool) {
	var node any = root
	for _, key := range path {
		next, ok := child(node, key)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

func child(node any, key string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[key]
		return v, ok
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(n) {
			return nil, false
		}
		return n[i], true
	}
	return nil, false
}

func setChild(node any, key string, v any) {
	switch n := node.(type) {
	case map[string]any:
		n[key] = v
	case []any:
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(n) {
			n[i] = v
		}
	}
}

// plain deep-copies v, storing documents as ordinary maps so the tree walks
// one object type.
func plain(v any) any {
	switch t := v.(type) {
	case domain.Document:
		return plain(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	}
	return v
}
