package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// timeNow is the evaluator's clock. Swapped in tests to pin age().
var timeNow = time.Now

// Evaluate parses and evaluates a formula against a flat namespace of
// named values. The grammar covers arithmetic (+ - * /, with + meaning
// concatenation when either operand is non-numeric), comparisons,
// parentheses, numeric and quoted string literals, bare identifiers
// resolved against the namespace, and one builtin call, age(x).
//
// Evaluate is pure: it sees nothing beyond the formula and the namespace.
// Every parse or evaluation failure comes back as an error, never a panic.
func Evaluate(formula string, namespace map[string]any) (result any, err error) {
	toks, err := lex(formula)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q", p.peek().text)
	}
	return node.eval(namespace)
}

// --- lexer ---

type tokKind int

const (
	tokEOF tokKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp     // + - * / ( ) ,
	tokCmp    // == != < <= > >=
)

type token struct {
	kind tokKind
	text string
	num  float64
}

func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r >= '0' && r <= '9' || r == '.' && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9':
			j := i
			for j < len(runes) && (runes[j] >= '0' && runes[j] <= '9' || runes[j] == '.') {
				j++
			}
			text := string(runes[i:j])
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q", text)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: n})
			i = j

		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			var sb strings.Builder
			for j < len(runes) && runes[j] != quote {
				if runes[j] == '\\' && j+1 < len(runes) {
					j++
				}
				sb.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated string")
			}
			toks = append(toks, token{kind: tokString, text: sb.String()})
			i = j + 1

		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[i:j])})
			i = j

		case r == '=' || r == '!' || r == '<' || r == '>':
			if i+1 < len(runes) && runes[i+1] == '=' {
				toks = append(toks, token{kind: tokCmp, text: string(runes[i : i+2])})
				i += 2
				break
			}
			if r == '=' || r == '!' {
				return nil, fmt.Errorf("unexpected %q", string(r))
			}
			toks = append(toks, token{kind: tokCmp, text: string(r)})
			i++

		case strings.ContainsRune("+-*/(),", r):
			toks = append(toks, token{kind: tokOp, text: string(r)})
			i++

		default:
			return nil, fmt.Errorf("unexpected character %q", string(r))
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

// --- parser ---
//
// Precedence, lowest first: comparison, additive, multiplicative, unary.

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (node, error) {
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokCmp {
		op := p.next().text
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "+" || p.peek().text == "-") {
		op := p.next().text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "*" || p.peek().text == "/") {
		op := p.next().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokOp && p.peek().text == "-" {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &literalNode{value: t.num}, nil

	case tokString:
		return &literalNode{value: t.text}, nil

	case tokIdent:
		if p.peek().kind == tokOp && p.peek().text == "(" {
			p.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &callNode{name: t.text, args: args}, nil
		}
		return &identNode{name: t.text}, nil

	case tokOp:
		if t.text == "(" {
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if c := p.next(); c.kind != tokOp || c.text != ")" {
				return nil, fmt.Errorf("missing closing parenthesis")
			}
			return inner, nil
		}
		return nil, fmt.Errorf("unexpected %q", t.text)

	case tokEOF:
		return nil, fmt.Errorf("unexpected end of formula")
	}
	return nil, fmt.Errorf("unexpected %q", t.text)
}

func (p *parser) parseArgs() ([]node, error) {
	var args []node
	if p.peek().kind == tokOp && p.peek().text == ")" {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		t := p.next()
		if t.kind == tokOp && t.text == ")" {
			return args, nil
		}
		if t.kind != tokOp || t.text != "," {
			return nil, fmt.Errorf("expected , or ) in argument list")
		}
	}
}

// --- evaluation ---

type node interface {
	eval(ns map[string]any) (any, error)
}

type literalNode struct{ value any }

func (n *literalNode) eval(map[string]any) (any, error) { return n.value, nil }

type identNode struct{ name string }

func (n *identNode) eval(ns map[string]any) (any, error) {
	v, ok := ns[n.name]
	if !ok {
		return nil, fmt.Errorf("unknown identifier %q", n.name)
	}
	return v, nil
}

type unaryNode struct{ operand node }

func (n *unaryNode) eval(ns map[string]any) (any, error) {
	v, err := n.operand.eval(ns)
	if err != nil {
		return nil, err
	}
	f, ok := toNumber(v)
	if !ok {
		return nil, fmt.Errorf("cannot negate %v", v)
	}
	return -f, nil
}

type callNode struct {
	name string
	args []node
}

func (n *callNode) eval(ns map[string]any) (any, error) {
	if n.name != "age" {
		return nil, fmt.Errorf("unknown function %q", n.name)
	}
	if len(n.args) != 1 {
		return nil, fmt.Errorf("age expects 1 argument, got %d", len(n.args))
	}
	v, err := n.args[0].eval(ns)
	if err != nil {
		return nil, err
	}
	return ageYears(v), nil
}

type binaryNode struct {
	op          string
	left, right node
}

func (n *binaryNode) eval(ns map[string]any) (any, error) {
	left, err := n.left.eval(ns)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(ns)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "+":
		return opAdd(left, right)
	case "-", "*", "/":
		return opArith(n.op, left, right)
	case "==":
		return looseEqual(left, right), nil
	case "!=":
		return !looseEqual(left, right), nil
	case "<", "<=", ">", ">=":
		return opCompare(n.op, left, right)
	}
	return nil, fmt.Errorf("unknown operator %q", n.op)
}

// opAdd sums two numbers, or concatenates when either operand is a string.
func opAdd(a, b any) (any, error) {
	if _, isStr := a.(string); !isStr {
		if _, isStr := b.(string); !isStr {
			af, aok := toNumber(a)
			bf, bok := toNumber(b)
			if aok && bok {
				return af + bf, nil
			}
		}
	}
	if a == nil || b == nil {
		return nil, fmt.Errorf("cannot apply + to missing value")
	}
	return Stringify(a) + Stringify(b), nil
}

func opArith(op string, a, b any) (any, error) {
	af, aok := toNumber(a)
	bf, bok := toNumber(b)
	if !aok || !bok {
		return nil, fmt.Errorf("%s requires numeric operands", op)
	}
	switch op {
	case "-":
		return af - bf, nil
	case "*":
		return af * bf, nil
	default:
		if bf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return af / bf, nil
	}
}

func opCompare(op string, a, b any) (any, error) {
	af, aok := toNumber(a)
	bf, bok := toNumber(b)
	if aok && bok {
		switch op {
		case "<":
			return af < bf, nil
		case "<=":
			return af <= bf, nil
		case ">":
			return af > bf, nil
		default:
			return af >= bf, nil
		}
	}
	as, aok2 := a.(string)
	bs, bok2 := b.(string)
	if aok2 && bok2 {
		switch op {
		case "<":
			return as < bs, nil
		case "<=":
			return as <= bs, nil
		case ">":
			return as > bs, nil
		default:
			return as >= bs, nil
		}
	}
	return nil, fmt.Errorf("%s requires comparable operands", op)
}

// looseEqual compares numerically when both sides coerce to numbers, so
// "3" == 3 holds the way it does for values coming off input widgets.
func looseEqual(a, b any) bool {
	af, aok := toNumber(a)
	bf, bok := toNumber(b)
	if aok && bok {
		return af == bf
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	return false
}

// toNumber coerces a scalar to float64. Numeric strings count: values read
// from number inputs arrive as strings.
func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ageYears interprets a value as a calendar date and returns the whole
// years elapsed to now. Unparsable input yields 0 rather than an error.
// The result tracks the wall clock, so it is not reproducible over time.
func ageYears(v any) float64 {
	d, ok := parseDate(v)
	if !ok {
		return 0
	}
	now := timeNow()
	years := now.Year() - d.Year()
	if now.Month() < d.Month() || (now.Month() == d.Month() && now.Day() < d.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return float64(years)
}

func parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, d); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
