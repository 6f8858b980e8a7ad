package service

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog"

	"github.com/sups/practice-server/internal/core/domain"
	"github.com/sups/practice-server/internal/core/ports"
	"github.com/sups/practice-server/internal/core/query"
	"github.com/sups/practice-server/internal/core/rules"
)

// unknownCollection labels metrics for collections the store does not hold,
// keeping request paths out of label values.
const unknownCollection = "unknown"

// DataService serves the general namespace. Every operation is authorized by
// the rule engine; reads run the query pipeline first.
type DataService struct {
	store     ports.DocumentStore
	protected ports.DocumentStore
	engine    *rules.Engine
	pipeline  *query.Pipeline
	metrics   ports.Metrics
	log       zerolog.Logger
}

var _ ports.DataService = (*DataService)(nil)

// NewDataService wires a DataService. protected backs relation loads that
// target the users collection.
func NewDataService(store, protected ports.DocumentStore, engine *rules.Engine, m ports.Metrics, log zerolog.Logger) *DataService {
	if m == nil {
		m = ports.NopMetrics{}
	}
	s := &DataService{store: store, protected: protected, engine: engine, metrics: m, log: log}
	s.pipeline = query.NewPipeline(s.resolve)
	return s
}

func (s *DataService) resolve(collection, id string) (domain.Document, error) {
	if collection == domain.CollectionUsers && s.protected != nil {
		user, err := s.protected.Get(collection, id)
		if err != nil {
			return nil, err
		}
		return domain.PublicUser(user), nil
	}
	return s.store.Get(collection, id)
}

func (s *DataService) Collections(_ context.Context) []string {
	return s.store.Collections()
}

// Read returns one record, a list, or a count for list reads with count set.
func (s *DataService) Read(_ context.Context, in ports.ReadInput) (any, error) {
	var result, source any
	if in.ID == "" {
		docs, err := s.store.List(in.Collection)
		if err != nil {
			s.observe(in.Collection, "list", err)
			return nil, err
		}
		s.observe(in.Collection, "list", nil)
		out, sources, err := s.pipeline.RunTracked(docs, in.Params)
		if err != nil {
			return nil, err
		}
		result = out
		if sources != nil {
			source = sources
		}
	} else {
		doc, err := s.store.Get(in.Collection, in.ID)
		if err != nil {
			s.observe(in.Collection, "get", err)
			return nil, err
		}
		s.observe(in.Collection, "get", nil)
		source = doc.Clone()
		if result, err = s.pipeline.Shape(doc, in.Params); err != nil {
			return nil, err
		}
	}

	if err := s.authorize(rules.Request{
		Action:     rules.ActionRead,
		Collection: in.Collection,
		Actor:      in.Actor,
		Data:       result,
		Source:     source,
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *DataService) Create(_ context.Context, in ports.WriteInput) (domain.Document, error) {
	if in.ID != "" {
		return nil, domain.RequestErr("Use PUT to update records")
	}
	payload := in.Payload
	if payload == nil {
		payload = domain.Document{}
	}
	if err := s.authorize(rules.Request{
		Action:     rules.ActionCreate,
		Collection: in.Collection,
		Actor:      in.Actor,
		NewData:    payload,
	}); err != nil {
		return nil, err
	}

	delete(payload, domain.FieldOwnerID)
	if in.Actor.Authenticated() {
		payload[domain.FieldOwnerID] = in.Actor.ID()
	}
	created, err := s.store.Add(in.Collection, payload)
	s.observe(in.Collection, "add", err)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("collection", in.Collection).Str("id", created.ID()).Str("user_id", in.Actor.ID()).Msg("record created")
	return created, nil
}

func (s *DataService) Replace(_ context.Context, in ports.WriteInput) (domain.Document, error) {
	if err := s.prepareWrite(rules.ActionUpdate, &in); err != nil {
		return nil, err
	}
	updated, err := s.store.Set(in.Collection, in.ID, in.Payload)
	s.observe(in.Collection, "set", err)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("collection", in.Collection).Str("id", in.ID).Str("user_id", in.Actor.ID()).Msg("record replaced")
	return updated, nil
}

func (s *DataService) Merge(_ context.Context, in ports.WriteInput) (domain.Document, error) {
	if err := s.prepareWrite(rules.ActionUpdate, &in); err != nil {
		return nil, err
	}
	updated, err := s.store.Merge(in.Collection, in.ID, in.Payload)
	s.observe(in.Collection, "merge", err)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("collection", in.Collection).Str("id", in.ID).Str("user_id", in.Actor.ID()).Msg("record merged")
	return updated, nil
}

func (s *DataService) Delete(_ context.Context, in ports.WriteInput) (domain.Deletion, error) {
	in.Payload = nil
	if err := s.prepareWrite(rules.ActionDelete, &in); err != nil {
		return domain.Deletion{}, err
	}
	deletion, err := s.store.Delete(in.Collection, in.ID)
	s.observe(in.Collection, "delete", err)
	if err != nil {
		return domain.Deletion{}, err
	}
	s.log.Info().Str("collection", in.Collection).Str("id", in.ID).Str("user_id", in.Actor.ID()).Msg("record deleted")
	return deletion, nil
}

// prepareWrite loads the target record and authorizes the write against it.
// The payload of updates is redacted in place.
func (s *DataService) prepareWrite(action rules.Action, in *ports.WriteInput) error {
	if in.ID == "" {
		return domain.RequestErr("Missing entry ID")
	}
	existing, err := s.store.Get(in.Collection, in.ID)
	s.observe(in.Collection, "get", err)
	if err != nil {
		return err
	}
	if action != rules.ActionDelete && in.Payload == nil {
		in.Payload = domain.Document{}
	}
	return s.authorize(rules.Request{
		Action:     action,
		Collection: in.Collection,
		Actor:      in.Actor,
		Data:       existing,
		NewData:    in.Payload,
	})
}

func (s *DataService) authorize(req rules.Request) error {
	decision, err := s.engine.CanAccess(req)
	if err != nil {
		s.metrics.AccessDenied(s.label(req.Collection), string(req.Action), errorKind(err))
		s.log.Warn().Err(err).
			Str("collection", req.Collection).
			Str("action", string(req.Action)).
			Str("user_id", req.Actor.ID()).
			Bool("admin", req.Actor.Admin).
			Msg("access denied")
		return err
	}
	if n := len(decision.Redactions); n > 0 {
		s.metrics.FieldsRedacted(s.label(req.Collection), string(req.Action), n)
		fields := make([]string, 0, n)
		for _, r := range decision.Redactions {
			fields = append(fields, r.Field)
		}
		s.log.Debug().
			Str("collection", req.Collection).
			Str("action", string(req.Action)).
			Strs("fields", fields).
			Msg("fields redacted")
	}
	return nil
}

func (s *DataService) observe(collection, op string, err error) {
	s.metrics.StoreOperation(s.label(collection), op, errorKind(err))
}

func (s *DataService) label(collection string) string {
	if slices.Contains(s.store.Collections(), collection) {
		return collection
	}
	return unknownCollection
}

// errorKind is a low-cardinality label for err.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrRequest):
		return "request"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrAuthorization):
		return "unauthorized"
	case errors.Is(err, domain.ErrCredential):
		return "forbidden"
	}
	return "error"
}
