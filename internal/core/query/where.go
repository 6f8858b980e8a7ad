package query

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/sups/practice-server/internal/core/domain"
)

// ErrWhereSyntax is the message reported for any malformed where clause.
const ErrWhereSyntax = "Could not parse WHERE clause, check your syntax."

// Predicate reports whether a record satisfies a filter.
type Predicate func(domain.Document) bool

var (
	clausePattern = regexp.MustCompile(`(?i)^(.+?)(<=|<|>=|>|=| like | in )(.+?)$`)
	andPattern    = regexp.MustCompile(`(?i) and `)
	orPattern     = regexp.MustCompile(`(?i) or `)
	inListPattern = regexp.MustCompile(`\((.+?)\)`)
)

// ParseWhere compiles a where expression. Clauses are joined uniformly by AND
// or by OR. When both appear the string is split on AND only and the OR stays
// inside a clause; mixed connectives are not supported.
func ParseWhere(expr string) (Predicate, error) {
	expr = strings.TrimSpace(expr)
	clauses := []string{expr}
	disjunction := false
	switch {
	case andPattern.MatchString(expr):
		clauses = andPattern.Split(expr, -1)
	case orPattern.MatchString(expr):
		clauses = orPattern.Split(expr, -1)
		disjunction = true
	}

	checks := make([]Predicate, 0, len(clauses))
	for _, clause := range clauses {
		check, err := parseClause(clause)
		if err != nil {
			return nil, domain.RequestErr(ErrWhereSyntax)
		}
		checks = append(checks, check)
	}

	if disjunction {
		return func(r domain.Document) bool {
			for _, c := range checks {
				if c(r) {
					return true
				}
			}
			return false
		}, nil
	}
	return func(r domain.Document) bool {
		for _, c := range checks {
			if !c(r) {
				return false
			}
		}
		return true
	}, nil
}

func parseClause(clause string) (Predicate, error) {
	m := clausePattern.FindStringSubmatch(strings.TrimSpace(clause))
	if m == nil {
		return nil, errSyntax
	}
	prop := strings.TrimSpace(m[1])
	op := strings.ToLower(m[2])
	raw := strings.TrimSpace(m[3])

	if op == " in " {
		list, err := parseList(raw)
		if err != nil {
			return nil, err
		}
		return func(r domain.Document) bool {
			got := r[prop]
			for _, item := range list {
				if domain.StrictEqual(got, item) {
					return true
				}
			}
			return false
		}, nil
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}

	switch op {
	case "=":
		return func(r domain.Document) bool { return domain.LooseEqual(r[prop], value) }, nil
	case " like ":
		needle, ok := value.(string)
		if !ok {
			return nil, errSyntax
		}
		needle = strings.ToLower(needle)
		return func(r domain.Document) bool {
			s, ok := r[prop].(string)
			return ok && strings.Contains(strings.ToLower(s), needle)
		}, nil
	default:
		return func(r domain.Document) bool {
			c, ok := domain.Compare(r[prop], value)
			if !ok {
				return false
			}
			switch op {
			case "<":
				return c < 0
			case "<=":
				return c <= 0
			case ">":
				return c > 0
			default:
				return c >= 0
			}
		}, nil
	}
}

// parseList decodes `("a", "b")` or `["a", "b"]`.
func parseList(raw string) ([]any, error) {
	body := raw
	if !strings.HasPrefix(raw, "[") {
		m := inListPattern.FindStringSubmatch(raw)
		if m == nil {
			return nil, errSyntax
		}
		body = "[" + m[1] + "]"
	}
	var list []any
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		return nil, err
	}
	return list, nil
}

var errSyntax = domain.RequestErr(ErrWhereSyntax)
