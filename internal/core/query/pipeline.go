package query

import (
	"github.com/sups/practice-server/internal/core/domain"
)

// Pipeline runs the list-read stages. Resolve serves the load stage.
type Pipeline struct {
	Resolve Resolver
}

// NewPipeline returns a Pipeline that loads relations through resolve.
func NewPipeline(resolve Resolver) *Pipeline {
	return &Pipeline{Resolve: resolve}
}

// Run applies filter, sort, offset, page size, distinct, count, select and
// load to docs in that fixed order. The result is []domain.Document, or an
// int when count is requested. docs is consumed; pass copies.
func (p *Pipeline) Run(docs []domain.Document, params Params) (any, error) {
	out, _, err := p.RunTracked(docs, params)
	return out, err
}

// RunTracked is Run that also returns the selected records as they were before
// select, aligned with the result. sources is nil for counts.
func (p *Pipeline) RunTracked(docs []domain.Document, params Params) (result any, sources []domain.Document, err error) {
	if params.Where != "" {
		pred, err := ParseWhere(params.Where)
		if err != nil {
			return nil, nil, err
		}
		filtered := make([]domain.Document, 0, len(docs))
		for _, d := range docs {
			if pred(d) {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}

	if params.SortBy != "" {
		Sort(docs, ParseSort(params.SortBy))
	}

	if params.Offset != "" {
		docs = docs[min(params.offset(), len(docs)):]
	}
	if params.PageSize != "" {
		docs = docs[:min(params.pageSize(), len(docs))]
	}

	if params.Distinct != "" {
		docs = Distinct(docs, splitList(params.Distinct))
	}

	if params.Count != "" {
		return len(docs), nil, nil
	}

	sources = docs
	if params.Select != "" {
		fields := splitList(params.Select)
		shaped := make([]domain.Document, len(docs))
		for i, d := range docs {
			shaped[i] = Project(d, fields)
		}
		docs = shaped
	}

	if params.Load != "" {
		if err := p.load(docs, params.Load); err != nil {
			return nil, nil, err
		}
	}
	return docs, sources, nil
}

// Shape applies the stages that make sense for a single record: select and
// load.
func (p *Pipeline) Shape(doc domain.Document, params Params) (domain.Document, error) {
	if params.Select != "" {
		doc = Project(doc, splitList(params.Select))
	}
	if params.Load != "" {
		if err := p.load([]domain.Document{doc}, params.Load); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (p *Pipeline) load(docs []domain.Document, raw string) error {
	relations, err := ParseLoad(raw)
	if err != nil {
		return err
	}
	for _, rel := range relations {
		for _, d := range docs {
			if err := attach(d, rel, p.Resolve); err != nil {
				return err
			}
		}
	}
	return nil
}

// Distinct keeps the first record seen for each combination of fields.
func Distinct(docs []domain.Document, fields []string) []domain.Document {
	seen := make(map[string]struct{}, len(docs))
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		key := ""
		for i, f := range fields {
			if i > 0 {
				key += "::"
			}
			key += domain.String(d[f])
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Project keeps only fields; missing fields are omitted.
func Project(doc domain.Document, fields []string) domain.Document {
	out := make(domain.Document, len(fields))
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
