package rules

import (
	"github.com/sups/practice-server/internal/core/domain"
)

// Request describes one access decision.
//
// Data is the existing state: nil for creates, a domain.Document for point
// operations, a []domain.Document for list reads or an int for counts.
// NewData is the inbound payload for creates and updates. Both are redacted in
// place.
//
// Source, when set, is the stored form of Data before select and load shaped
// it: rules are resolved and evaluated against Source while fields are still
// removed from Data. For list reads it is a []domain.Document aligned with
// Data.
type Request struct {
	Action     Action
	Collection string
	Actor      domain.Actor
	Data       any
	Source     any
	NewData    domain.Document
}

// Redaction records a field removed by a field rule.
type Redaction struct {
	RecordID string
	Field    string
}

// Decision is the outcome of an allowed request.
type Decision struct {
	Redactions []Redaction
}

// Engine evaluates requests against a Table.
type Engine struct {
	table  *Table
	lookup Lookup
}

// NewEngine returns an Engine over table. lookup serves get() inside
// expressions.
func NewEngine(table *Table, lookup Lookup) *Engine {
	return &Engine{table: table, lookup: lookup}
}

// CanAccess authorizes req and applies field redaction.
//
// The top-level rule denies with an authorization error when a role list needs
// a signed-in actor and there is none, and with a credential error when the
// rule evaluates falsy. Admin actors bypass both but are still redacted.
func (e *Engine) CanAccess(req Request) (Decision, error) {
	src := req.Source
	if src == nil {
		src = req.Data
	}
	record, _ := src.(domain.Document)
	rule, checks := e.table.resolve(req.Action, req.Collection, record)

	ev := e.env(req, src)
	ok, err := e.check(rule, req.Actor, src, ev, true)
	if err != nil {
		return Decision{}, err
	}
	if !ok && !req.Actor.Admin {
		return Decision{}, domain.Forbidden("")
	}

	var d Decision
	switch data := req.Data.(type) {
	case []domain.Document:
		if req.Action != ActionRead {
			break
		}
		sources, _ := src.([]domain.Document)
		for i, doc := range data {
			basis := doc
			if len(sources) == len(data) {
				basis = sources[i]
			}
			checks := e.table.fieldRules(req.Action, req.Collection, basis)
			if err := e.redact(&d, req, checks, basis, doc); err != nil {
				return Decision{}, err
			}
		}
	default:
		shaped, _ := req.Data.(domain.Document)
		if err := e.redact(&d, req, checks, record, shaped); err != nil {
			return Decision{}, err
		}
	}
	return d, nil
}

func (e *Engine) env(req Request, data any) *env {
	ev := &env{data: data, newData: req.NewData, lookup: e.lookup}
	if req.Actor.User != nil {
		ev.user = req.Actor.User
	}
	if doc, ok := data.(domain.Document); ok && doc == nil {
		ev.data = nil
	}
	return ev
}

// redact evaluates field checks against record and removes the fields whose
// predicate is falsy: from NewData on create and update, from shaped on read.
func (e *Engine) redact(d *Decision, req Request, checks []fieldCheck, record, shaped domain.Document) error {
	if len(checks) == 0 {
		return nil
	}
	var target domain.Document
	switch req.Action {
	case ActionCreate, ActionUpdate:
		target = req.NewData
	case ActionRead:
		target = shaped
	}
	var data any
	if record != nil {
		data = record
	}
	ev := e.env(req, data)
	for _, c := range checks {
		ok, err := e.check(c.rule, req.Actor, data, ev, false)
		if err != nil {
			return err
		}
		if ok || target == nil {
			continue
		}
		if _, present := target[c.field]; present {
			delete(target, c.field)
			d.Redactions = append(d.Redactions, Redaction{RecordID: record.ID(), Field: c.field})
		}
	}
	return nil
}

// check evaluates one rule. strict selects the top-level role semantics, where
// a role list needing a signed-in actor fails the request outright.
func (e *Engine) check(rule Rule, actor domain.Actor, data any, ev *env, strict bool) (bool, error) {
	switch r := rule.(type) {
	case Literal:
		return bool(r), nil
	case RoleList:
		return checkRoles(r, actor, data, strict)
	case *Expression:
		v, err := r.root.eval(ev)
		if err != nil {
			return false, err
		}
		return domain.Truthy(v), nil
	}
	return true, nil
}

func checkRoles(roles RoleList, actor domain.Actor, data any, strict bool) (bool, error) {
	switch {
	case roles.has(RoleGuest):
		return true, nil
	case !actor.Authenticated() && !actor.Admin:
		if strict {
			return false, domain.Unauthorized("")
		}
		return false, nil
	case roles.has(RoleUser) && actor.Authenticated():
		return true, nil
	case roles.has(RoleOwner) && actor.Authenticated():
		record, _ := data.(domain.Document)
		return record != nil && record.OwnerID() != "" && record.OwnerID() == actor.ID(), nil
	}
	return false, nil
}
