// Package rules is the declarative access-control layer for the general
// namespace.
//
// A rules table maps a collection name to action predicates (".create",
// ".read", ".update", ".delete"), to per-field predicates under the "*" key,
// and to record-specific overrides keyed by record id. The reserved top-level
// "*" entry holds system-wide action defaults. Predicates are booleans, role
// lists or expressions, compiled once when the table is parsed.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sups/practice-server/internal/core/domain"
)

// Action is the access token an inbound verb maps to.
type Action string

const (
	ActionCreate Action = ".create"
	ActionRead   Action = ".read"
	ActionUpdate Action = ".update"
	ActionDelete Action = ".delete"
)

// Wildcard is the reserved key for global defaults and collection-wide field
// rules.
const Wildcard = "*"

var actions = map[string]Action{
	string(ActionCreate): ActionCreate,
	string(ActionRead):   ActionRead,
	string(ActionUpdate): ActionUpdate,
	string(ActionDelete): ActionDelete,
}

// Role tokens understood by role-list rules.
const (
	RoleGuest = "Guest"
	RoleUser  = "User"
	RoleOwner = "Owner"
)

// Rule is one predicate: a Literal, a RoleList or an *Expression.
type Rule interface {
	rule()
}

// Literal allows or denies unconditionally.
type Literal bool

// RoleList passes when the actor holds one of the listed roles.
type RoleList []string

// Expression is a compiled predicate over user, data and newData.
type Expression struct {
	Source string
	root   node
}

func (Literal) rule()     {}
func (RoleList) rule()    {}
func (*Expression) rule() {}

// Compile parses src into an Expression.
func Compile(src string) (*Expression, error) {
	root, err := compile(src)
	if err != nil {
		return nil, err
	}
	return &Expression{Source: src, root: root}, nil
}

func (r RoleList) has(role string) bool {
	for _, v := range r {
		if v == role {
			return true
		}
	}
	return false
}

// FieldRule holds the per-action predicates of one field.
type FieldRule struct {
	Field   string
	Actions map[Action]Rule
}

// scope is the set of rules defined at one level: a collection or a record.
type scope struct {
	actions map[Action]Rule
	fields  []FieldRule
}

type collectionRules struct {
	scope
	records map[string]*scope
}

// Table is a parsed, immutable rules configuration.
type Table struct {
	global      map[Action]Rule
	collections map[string]*collectionRules
}

// baseline is merged under any configured global defaults.
func baseline() map[Action]Rule {
	return map[Action]Rule{
		ActionCreate: RoleList{RoleUser},
		ActionUpdate: RoleList{RoleOwner},
		ActionDelete: RoleList{RoleOwner},
	}
}

// Parse builds a Table from a decoded configuration document.
func Parse(raw map[string]any) (*Table, error) {
	t := &Table{
		global:      baseline(),
		collections: make(map[string]*collectionRules),
	}
	for _, name := range sortedKeys(raw) {
		entries, ok := asMap(raw[name])
		if !ok {
			return nil, fmt.Errorf("rules %q: expected a mapping, got %T", name, raw[name])
		}
		if name == Wildcard {
			for key, value := range entries {
				action, ok := actions[key]
				if !ok {
					return nil, fmt.Errorf("rules %q: global defaults accept only actions, got %q", name, key)
				}
				r, err := parseRule(value)
				if err != nil {
					return nil, fmt.Errorf("rules %s%s: %w", name, key, err)
				}
				if r != nil {
					t.global[action] = r
				}
			}
			continue
		}
		col, err := parseCollection(name, entries)
		if err != nil {
			return nil, err
		}
		t.collections[name] = col
	}
	return t, nil
}

func parseCollection(name string, entries map[string]any) (*collectionRules, error) {
	col := &collectionRules{records: make(map[string]*scope)}
	col.actions = make(map[Action]Rule)
	for _, key := range sortedKeys(entries) {
		value := entries[key]
		switch {
		case strings.HasPrefix(key, "."):
			if err := setAction(col.actions, key, value); err != nil {
				return nil, fmt.Errorf("rules %s%s: %w", name, key, err)
			}
		case key == Wildcard:
			fields, err := parseFields(name+"."+Wildcard, value)
			if err != nil {
				return nil, err
			}
			col.fields = fields
		default:
			record, ok := asMap(value)
			if !ok {
				return nil, fmt.Errorf("rules %s.%s: expected a mapping, got %T", name, key, value)
			}
			sc, err := parseRecord(name+"."+key, record)
			if err != nil {
				return nil, err
			}
			col.records[key] = sc
		}
	}
	return col, nil
}

// parseRecord reads a record override: action keys plus field keys.
func parseRecord(path string, entries map[string]any) (*scope, error) {
	sc := &scope{actions: make(map[Action]Rule)}
	fieldEntries := make(map[string]any)
	for key, value := range entries {
		if strings.HasPrefix(key, ".") {
			if err := setAction(sc.actions, key, value); err != nil {
				return nil, fmt.Errorf("rules %s%s: %w", path, key, err)
			}
			continue
		}
		fieldEntries[key] = value
	}
	fields, err := parseFields(path, fieldEntries)
	if err != nil {
		return nil, err
	}
	sc.fields = fields
	return sc, nil
}

func parseFields(path string, value any) ([]FieldRule, error) {
	entries, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("rules %s: expected a mapping, got %T", path, value)
	}
	var fields []FieldRule
	for _, field := range sortedKeys(entries) {
		perAction, ok := asMap(entries[field])
		if !ok {
			return nil, fmt.Errorf("rules %s.%s: expected a mapping of actions, got %T", path, field, entries[field])
		}
		fr := FieldRule{Field: field, Actions: make(map[Action]Rule)}
		for key, v := range perAction {
			if err := setAction(fr.Actions, key, v); err != nil {
				return nil, fmt.Errorf("rules %s.%s%s: %w", path, field, key, err)
			}
		}
		fields = append(fields, fr)
	}
	return fields, nil
}

func setAction(dst map[Action]Rule, key string, value any) error {
	action, ok := actions[key]
	if !ok {
		return fmt.Errorf("unknown action %q", key)
	}
	r, err := parseRule(value)
	if err != nil {
		return err
	}
	if r != nil {
		dst[action] = r
	}
	return nil
}

// parseRule converts a decoded value into a Rule. Empty strings and empty role
// lists count as undefined and yield a nil Rule.
func parseRule(value any) (Rule, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return Literal(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return Compile(v)
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		roles := make(RoleList, 0, len(v))
		for _, item := range v {
			role, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("role list entries must be strings, got %T", item)
			}
			roles = append(roles, role)
		}
		return roles, nil
	case []string:
		if len(v) == 0 {
			return nil, nil
		}
		return RoleList(v), nil
	}
	return nil, fmt.Errorf("unsupported rule value %T", value)
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resolve walks the cascade for action: global default, collection default,
// then the record override for record. Field rules of the collection and of
// the record are concatenated, keeping only those defining action.
func (t *Table) resolve(action Action, collection string, record map[string]any) (Rule, []fieldCheck) {
	current, ok := t.global[action]
	if !ok {
		current = Literal(true)
	}
	col, ok := t.collections[collection]
	if !ok {
		return current, nil
	}
	if r, ok := col.actions[action]; ok {
		current = r
	}
	checks := fieldChecks(col.fields, action)

	if id, ok := record[domain.FieldID].(string); ok {
		if sc, ok := col.records[id]; ok {
			if r, ok := sc.actions[action]; ok {
				current = r
			}
			checks = append(checks, fieldChecks(sc.fields, action)...)
		}
	}
	return current, checks
}

// fieldRules resolves only the field checks for a record.
func (t *Table) fieldRules(action Action, collection string, record map[string]any) []fieldCheck {
	_, checks := t.resolve(action, collection, record)
	return checks
}

type fieldCheck struct {
	field string
	rule  Rule
}

func fieldChecks(fields []FieldRule, action Action) []fieldCheck {
	var out []fieldCheck
	for _, f := range fields {
		if r, ok := f.Actions[action]; ok {
			out = append(out, fieldCheck{field: f.Field, rule: r})
		}
	}
	return out
}

// Collections lists the collections that carry rules.
func (t *Table) Collections() []string {
	out := make([]string, 0, len(t.collections))
	for name := range t.collections {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
