package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// The formula language is deliberately tiny: numbers, scale identifiers,
// + - * /, unary sign, and parentheses. There is no function call, member
// access, or any other construct that could reach outside the score map.
//
//	expr    := term { ("+" | "-") term }
//	term    := unary { ("*" | "/") unary }
//	unary   := ("+" | "-") unary | primary
//	primary := number | ident | "(" expr ")"

const (
	maxExpressionLen   = 1024
	maxExpressionDepth = 64
)

// ─── LEXER ────────────────────────────────────────────────────────────────────

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			// Optional exponent: 1e3, 2.5E-2.
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					for j < len(src) && isDigit(src[j]) {
						j++
					}
					i = j
				}
			}
			text := src[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid number %q at offset %d", ErrExpressionSyntax, text, start)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: v, pos: start})
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrExpressionSyntax, c, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

// ─── AST ──────────────────────────────────────────────────────────────────────

type node interface {
	eval(scores map[string]float64) (float64, error)
	collect(idents map[string]struct{})
}

type numberNode struct{ v float64 }

func (n numberNode) eval(map[string]float64) (float64, error) { return n.v, nil }
func (numberNode) collect(map[string]struct{}) {}

type identNode struct{ name string }

func (n identNode) eval(scores map[string]float64) (float64, error) {
	v, ok := scores[n.name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUndeclaredScale, n.name)
	}
	return v, nil
}

func (n identNode) collect(idents map[string]struct{}) { idents[n.name] = struct{}{} }

type negNode struct{ x node }

func (n negNode) eval(scores map[string]float64) (float64, error) {
	v, err := n.x.eval(scores)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (n negNode) collect(idents map[string]struct{}) { n.x.collect(idents) }

type binaryNode struct {
	op   byte
	l, r node
}

func (n binaryNode) eval(scores map[string]float64) (float64, error) {
	l, err := n.l.eval(scores)
	if err != nil {
		return 0, err
	}
	r, err := n.r.eval(scores)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return l / r, nil
	}
	return 0, fmt.Errorf("%w: unknown operator %q", ErrExpressionSyntax, n.op)
}

func (n binaryNode) collect(idents map[string]struct{}) {
	n.l.collect(idents)
	n.r.collect(idents)
}

// ─── PARSER ───────────────────────────────────────────────────────────────────

type parser struct {
	toks  []token
	pos   int
	depth int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxExpressionDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrExpressionSyntax, maxExpressionDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseExpr() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: t.text[0], l: left, r: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: t.text[0], l: left, r: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "+" || t.text == "-") {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negNode{x: x}, nil
		}
		return x, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return numberNode{v: t.num}, nil
	case tokIdent:
		return identNode{name: t.text}, nil
	case tokLParen:
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' at offset %d", ErrExpressionSyntax, closing.pos)
		}
		return x, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrExpressionSyntax)
	default:
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrExpressionSyntax, t.text, t.pos)
	}
}

// ─── COMPILED EXPRESSIONS ─────────────────────────────────────────────────────

// Expression is a compiled formula. It is immutable and safe for concurrent
// use.
type Expression struct {
	source string
	root   node
	idents []string
}

// CompileExpression parses src into an Expression. Syntax errors wrap
// ErrExpressionSyntax.
func CompileExpression(src string) (Expression, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return Expression{}, fmt.Errorf("%w: empty expression", ErrExpressionSyntax)
	}
	if len(src) > maxExpressionLen {
		return Expression{}, fmt.Errorf("%w: expression longer than %d bytes", ErrExpressionSyntax, maxExpressionLen)
	}

	toks, err := tokenize(src)
	if err != nil {
		return Expression{}, err
	}

	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return Expression{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return Expression{}, fmt.Errorf("%w: unexpected %q at offset %d", ErrExpressionSyntax, t.text, t.pos)
	}

	set := make(map[string]struct{})
	root.collect(set)
	idents := make([]string, 0, len(set))
	for name := range set {
		idents = append(idents, name)
	}
	sort.Strings(idents)

	return Expression{source: src, root: root, idents: idents}, nil
}

// String returns the source text.
func (e Expression) String() string { return e.source }

// Identifiers returns the sorted, de-duplicated scale keys the expression
// references.
func (e Expression) Identifiers() []string {
	out := make([]string, len(e.idents))
	copy(out, e.idents)
	return out
}

// Eval computes the expression against scores. Referencing a key missing from
// scores wraps ErrUndeclaredScale; dividing by zero returns ErrDivisionByZero.
func (e Expression) Eval(scores map[string]float64) (float64, error) {
	if e.root == nil {
		return 0, fmt.Errorf("%w: expression not compiled", ErrExpressionSyntax)
	}
	v, err := e.root.eval(scores)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFiniteResult
	}
	return v, nil
}
