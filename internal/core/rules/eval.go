package rules

import (
	"strconv"
	"strings"

	"github.com/sups/practice-server/internal/core/domain"
)

// Lookup fetches a record from the general namespace for get().
type Lookup func(collection, id string) (domain.Document, error)

// env is the binding record an expression is evaluated against.
type env struct {
	user    any
	data    any
	newData domain.Document
	lookup  Lookup
}

type node interface {
	eval(e *env) (any, error)
}

type literalNode struct{ v any }

func (n *literalNode) eval(*env) (any, error) { return n.v, nil }

type identNode struct{ name string }

func (n *identNode) eval(e *env) (any, error) {
	switch n.name {
	case bindUser:
		return e.user, nil
	case bindData:
		return e.data, nil
	default:
		if e.newData == nil {
			return nil, nil
		}
		return e.newData, nil
	}
}

type memberNode struct {
	obj  node
	prop node
}

func (n *memberNode) eval(e *env) (any, error) {
	obj, err := n.obj.eval(e)
	if err != nil {
		return nil, err
	}
	key, err := n.prop.eval(e)
	if err != nil {
		return nil, err
	}
	return property(obj, key), nil
}

// property reads obj[key]. Anything that is not a map or list yields nil.
func property(obj, key any) any {
	name := domain.String(key)
	switch t := obj.(type) {
	case domain.Document:
		return t[name]
	case map[string]any:
		return t[name]
	case string:
		if name == "length" {
			return float64(len(t))
		}
	case []any:
		return listProperty(len(t), name, func(i int) any { return t[i] })
	case []domain.Document:
		return listProperty(len(t), name, func(i int) any { return t[i] })
	}
	return nil
}

func listProperty(n int, name string, at func(int) any) any {
	if name == "length" {
		return float64(n)
	}
	i, err := strconv.Atoi(name)
	if err != nil || i < 0 || i >= n {
		return nil
	}
	return at(i)
}

type callNode struct {
	fn   string
	args []node
}

func (n *callNode) eval(e *env) (any, error) {
	args := make([]any, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(e)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	switch n.fn {
	case "isOwner":
		return isOwner(args[0], args[1]), nil
	default:
		collection, _ := args[0].(string)
		id, ok := args[1].(string)
		if !ok || e.lookup == nil {
			return nil, nil
		}
		doc, err := e.lookup(collection, id)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
}

// isOwner reports whether record was created by user.
func isOwner(user, record any) bool {
	id := property(user, domain.FieldID)
	if id == nil {
		return false
	}
	return domain.LooseEqual(id, property(record, domain.FieldOwnerID))
}

type unaryNode struct {
	op string
	x  node
}

func (n *unaryNode) eval(e *env) (any, error) {
	v, err := n.x.eval(e)
	if err != nil {
		return nil, err
	}
	if n.op == "!" {
		return !domain.Truthy(v), nil
	}
	f, ok := domain.ToNumber(v)
	if !ok {
		return nil, nil
	}
	return -f, nil
}

type logicalNode struct {
	op          string
	left, right node
}

func (n *logicalNode) eval(e *env) (any, error) {
	l, err := n.left.eval(e)
	if err != nil {
		return nil, err
	}
	if domain.Truthy(l) == (n.op == "||") {
		return l, nil
	}
	return n.right.eval(e)
}

type binaryNode struct {
	op          string
	left, right node
}

func (n *binaryNode) eval(e *env) (any, error) {
	l, err := n.left.eval(e)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(e)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "==":
		return domain.LooseEqual(l, r), nil
	case "!=":
		return !domain.LooseEqual(l, r), nil
	case "===":
		return domain.StrictEqual(l, r), nil
	case "!==":
		return !domain.StrictEqual(l, r), nil
	}
	c, ok := domain.Compare(l, r)
	if !ok {
		return false, nil
	}
	switch n.op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	default:
		return c >= 0, nil
	}
}

// assignNode writes into newData and evaluates to the assigned value.
type assignNode struct {
	path  []string
	value node
}

func (n *assignNode) eval(e *env) (any, error) {
	v, err := n.value.eval(e)
	if err != nil {
		return nil, err
	}
	target := n.pathString()
	if e.newData == nil {
		return nil, domain.RequestErr("Cannot assign " + target + " without a request body")
	}
	m := map[string]any(e.newData)
	for _, name := range n.path[:len(n.path)-1] {
		switch next := m[name].(type) {
		case map[string]any:
			m = next
		case domain.Document:
			m = next
		case nil:
			child := map[string]any{}
			m[name] = child
			m = child
		default:
			return nil, domain.RequestErr("Cannot assign " + target)
		}
	}
	m[n.path[len(n.path)-1]] = domain.CloneValue(v)
	return v, nil
}

func (n *assignNode) pathString() string {
	return bindNewData + "." + strings.Join(n.path, ".")
}
