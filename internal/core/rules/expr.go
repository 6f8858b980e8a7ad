package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SyntaxError reports a rule expression that does not compile.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expression %q: %s at offset %d", e.Expr, e.Msg, e.Pos)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Longest operators first so "===" wins over "==" and "=".
var punctuators = []string{
	"===", "!==",
	"==", "!=", "<=", ">=", "&&", "||",
	"=", "<", ">", "!", "(", ")", "[", "]", ".", ",", "-",
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '_' || c == '$' || unicode.IsLetter(c):
			start := i
			for i < len(src) && isIdentPart(rune(src[i])) {
				i++
			}
			toks = append(toks, token{tokIdent, src[start:i], start})
		case unicode.IsDigit(c):
			start := i
			for i < len(src) && (unicode.IsDigit(rune(src[i])) || src[i] == '.') {
				i++
			}
			toks = append(toks, token{tokNumber, src[start:i], start})
		case c == '\'' || c == '"':
			start := i
			var b strings.Builder
			i++
			for i < len(src) && rune(src[i]) != c {
				if src[i] == '\\' && i+1 < len(src) {
					i++
				}
				b.WriteByte(src[i])
				i++
			}
			if i >= len(src) {
				return nil, &SyntaxError{Expr: src, Pos: start, Msg: "unterminated string"}
			}
			i++
			toks = append(toks, token{tokString, b.String(), start})
		default:
			matched := false
			for _, p := range punctuators {
				if strings.HasPrefix(src[i:], p) {
					toks = append(toks, token{tokPunct, p, i})
					i += len(p)
					matched = true
					break
				}
			}
			if !matched {
				return nil, &SyntaxError{Expr: src, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
			}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func isIdentPart(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

// Roots an expression may reference.
const (
	bindUser    = "user"
	bindData    = "data"
	bindNewData = "newData"
)

var builtins = map[string]int{
	"get":     2,
	"isOwner": 2,
}

type parser struct {
	src  string
	toks []token
	pos  int
}

// compile parses src into an evaluable tree.
func compile(src string) (node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	n, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) accept(ops ...string) (string, bool) {
	tok := p.peek()
	if tok.kind != tokPunct {
		return "", false
	}
	for _, op := range ops {
		if tok.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) expect(op string) error {
	if _, ok := p.accept(op); !ok {
		tok := p.peek()
		return p.errorf(tok, "expected %q", op)
	}
	return nil
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Expr: p.src, Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

// assignment := or ( "=" assignment )?
func (p *parser) assignment() (node, error) {
	start := p.peek()
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept("="); !ok {
		return left, nil
	}
	path, ok := assignPath(left)
	if !ok {
		return nil, p.errorf(start, "only newData fields can be assigned")
	}
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &assignNode{path: path, value: value}, nil
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept("||"); !ok {
			return left, nil
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "||", left: left, right: right}
	}
}

func (p *parser) and() (node, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept("&&"); !ok {
			return left, nil
		}
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "&&", left: left, right: right}
	}
}

func (p *parser) equality() (node, error) {
	left, err := p.relational()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.accept("===", "!==", "==", "!=")
		if !ok {
			return left, nil
		}
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) relational() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.accept("<=", ">=", "<", ">")
		if !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	if op, ok := p.accept("!", "-"); ok {
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, x: x}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.peek().kind == tokPunct && p.peek().text == ".":
			p.next()
			tok := p.next()
			if tok.kind != tokIdent {
				return nil, p.errorf(tok, "expected property name")
			}
			n = &memberNode{obj: n, prop: &literalNode{v: tok.text}}
		case p.peek().kind == tokPunct && p.peek().text == "[":
			p.next()
			key, err := p.assignment()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			n = &memberNode{obj: n, prop: key}
		default:
			return n, nil
		}
	}
}

func (p *parser) primary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid number %q", tok.text)
		}
		return &literalNode{v: f}, nil
	case tokString:
		return &literalNode{v: tok.text}, nil
	case tokIdent:
		switch tok.text {
		case "true":
			return &literalNode{v: true}, nil
		case "false":
			return &literalNode{v: false}, nil
		case "null", "undefined":
			return &literalNode{v: nil}, nil
		case bindUser, bindData, bindNewData:
			return &identNode{name: tok.text}, nil
		}
		if arity, ok := builtins[tok.text]; ok {
			return p.call(tok, arity)
		}
		return nil, p.errorf(tok, "unknown identifier %q", tok.text)
	case tokPunct:
		if tok.text == "(" {
			n, err := p.assignment()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return n, nil
		}
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}
	return nil, p.errorf(tok, "unexpected end of expression")
}

func (p *parser) call(name token, arity int) (node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []node
	if _, ok := p.accept(")"); !ok {
		for {
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.accept(","); ok {
				continue
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			break
		}
	}
	if len(args) != arity {
		return nil, p.errorf(name, "%s takes %d arguments, got %d", name.text, arity, len(args))
	}
	return &callNode{fn: name.text, args: args}, nil
}

// assignPath returns the field path of newData.a.b style targets.
func assignPath(n node) ([]string, bool) {
	var path []string
	for {
		switch t := n.(type) {
		case *memberNode:
			lit, ok := t.prop.(*literalNode)
			if !ok {
				return nil, false
			}
			name, ok := lit.v.(string)
			if !ok {
				return nil, false
			}
			path = append([]string{name}, path...)
			n = t.obj
		case *identNode:
			return path, t.name == bindNewData && len(path) > 0
		default:
			return nil, false
		}
	}
}
