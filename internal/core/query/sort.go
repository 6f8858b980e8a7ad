package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sups/practice-server/internal/core/domain"
)

// SortKey is one entry of a sortBy list.
type SortKey struct {
	Field string
	Desc  bool
}

// ParseSort decodes "field[ desc],field2[ desc]". Any second token marks the
// key descending.
func ParseSort(s string) []SortKey {
	var keys []SortKey
	for _, item := range splitList(s) {
		parts := strings.Fields(item)
		if len(parts) == 0 {
			continue
		}
		keys = append(keys, SortKey{Field: parts[0], Desc: len(parts) > 1})
	}
	return keys
}

// Sort orders docs by keys. The last key is applied first with a stable sort,
// so the first key dominates. Two numbers compare numerically; anything else
// compares as text under locale collation.
func Sort(docs []domain.Document, keys []SortKey) {
	col := collate.New(language.English)
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		sort.SliceStable(docs, func(a, b int) bool {
			c := compareField(col, docs[a][key.Field], docs[b][key.Field])
			if key.Desc {
				return c > 0
			}
			return c < 0
		})
	}
}

func compareField(col *collate.Collator, a, b any) int {
	x, okA := domain.ToNumber(a)
	y, okB := domain.ToNumber(b)
	if okA && okB {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return col.CompareString(domain.String(a), domain.String(b))
}
