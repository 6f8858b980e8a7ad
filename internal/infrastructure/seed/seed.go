// Package seed builds the initial contents of the general and protected
// namespaces and of the JSON store from embedded defaults or from files on
// disk.
package seed

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
)

//go:embed data/general.json data/protected.json
var defaults embed.FS

// General returns the general namespace seed. With an empty dir the embedded
// movies, reviews and comments are used; otherwise every <collection>.json
// file in dir becomes one collection.
func General(dir string) (ports.Seed, error) {
	if dir == "" {
		return decodeEmbedded("data/general.json")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed dir: %w", err)
	}
	seed := ports.Seed{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		var records map[string]domain.Document
		if err := decode(raw, &records); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if records == nil {
			records = map[string]domain.Document{}
		}
		seed[strings.TrimSuffix(entry.Name(), ".json")] = records
	}
	return seed, nil
}

// Tree returns the initial /jsonstore tree: every <name>.json object in dir
// becomes the top-level key name. An empty dir yields an empty tree.
func Tree(dir string) (map[string]any, error) {
	tree := map[string]any{}
	if dir == "" {
		return tree, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read jsonstore dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read jsonstore file: %w", err)
		}
		content := map[string]any{}
		if err := decode(raw, &content); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		tree[strings.TrimSuffix(entry.Name(), ".json")] = content
	}
	return tree, nil
}

// Protected returns the protected namespace seed from path, or the embedded
// users when path is empty. A user carrying a plaintext password gets it
// replaced by its hash.
func Protected(path string, hasher ports.PasswordHasher) (ports.Seed, error) {
	var (
		seed ports.Seed
		err  error
	)
	if path == "" {
		seed, err = decodeEmbedded("data/protected.json")
	} else {
		var raw []byte
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read protected seed: %w", err)
		}
		if err = decode(raw, &seed); err != nil {
			err = fmt.Errorf("%s: %w", path, err)
		}
	}
	if err != nil {
		return nil, err
	}
	if seed == nil {
		seed = ports.Seed{}
	}
	if seed[domain.CollectionSessions] == nil {
		seed[domain.CollectionSessions] = map[string]domain.Document{}
	}

	users := seed[domain.CollectionUsers]
	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		user := users[id]
		password, ok := user["password"].(string)
		if !ok {
			continue
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("hash seed password of %s: %w", id, err)
		}
		delete(user, "password")
		user[domain.FieldHashedPassword] = hash
	}
	return seed, nil
}

func decodeEmbedded(name string) (ports.Seed, error) {
	raw, err := defaults.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var seed ports.Seed
	if err := decode(raw, &seed); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return seed, nil
}

func decode(raw []byte, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
