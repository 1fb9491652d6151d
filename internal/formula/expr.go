package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cellgraph/spreadsheet/internal/position"
)

// token is a single lexical unit: an operator/paren literal, a numeric
// literal, or a cell-reference literal (e.g. "A1").
type token string

const (
	tokenAdd  token = "+"
	tokenSub  token = "-"
	tokenMul  token = "*"
	tokenDiv  token = "/"
	tokenLPar token = "("
	tokenRPar token = ")"
)

var runeMap = map[rune]token{
	'+': tokenAdd,
	'-': tokenSub,
	'*': tokenMul,
	'/': tokenDiv,
	'(': tokenLPar,
	')': tokenRPar,
}

// tokenize splits expr into tokens, returning a wrapped ErrFormulaParse
// on any unexpected character.
func tokenize(expr string) ([]token, error) {
	runes := []rune(expr)
	var tokens []token
	for i := 0; i < len(runes); i++ {
		if runes[i] == ' ' {
			continue
		}
		switch {
		case between(runes[i], '0', '9'):
			start := i
			for i < len(runes) && (between(runes[i], '0', '9') || runes[i] == '.') {
				i++
			}
			tokens = append(tokens, token(runes[start:i]))
			i--
		case between(runes[i], 'A', 'Z') || between(runes[i], 'a', 'z'):
			start := i
			for i < len(runes) && (between(runes[i], '0', '9') || between(runes[i], 'A', 'Z') || between(runes[i], 'a', 'z')) {
				i++
			}
			tokens = append(tokens, token(runes[start:i]))
			i--
		default:
			if tok, ok := runeMap[runes[i]]; ok {
				tokens = append(tokens, tok)
			} else {
				return nil, fmt.Errorf("%w: unexpected character %q", ErrFormulaParse, runes[i])
			}
		}
	}
	return tokens, nil
}

func between(r, lo, hi rune) bool { return lo <= r && r <= hi }

// expr is the parse-tree interface. Modeled after the ast package's
// marker-method idiom, same as the teacher's Expr.
type expr interface {
	isExpr()
}

type unaryExpr struct {
	x  expr
	op token
}

type binaryExpr struct {
	x, y expr
	op   token
}

type constExpr struct {
	value float64
}

type cellRefExpr struct {
	ref position.Position
}

func (unaryExpr) isExpr()   {}
func (binaryExpr) isExpr()  {}
func (constExpr) isExpr()   {}
func (cellRefExpr) isExpr() {}

// parseExpr parses a full expression: addition/subtraction binding
// loosest, multiplication/division next, then unary minus, then primaries.
func parseExpr(tokens []token) (expr, []token, error) {
	return parseTerm(tokens)
}

func parseTerm(tokens []token) (expr, []token, error) {
	ops := map[token]struct{}{tokenAdd: {}, tokenSub: {}}
	return parseBinExpr(tokens, ops, parseFactor)
}

func parseFactor(tokens []token) (expr, []token, error) {
	ops := map[token]struct{}{tokenMul: {}, tokenDiv: {}}
	return parseBinExpr(tokens, ops, parseUnary)
}

func parseBinExpr(tokens []token, validOps map[token]struct{}, next func([]token) (expr, []token, error)) (expr, []token, error) {
	x, rest, err := next(tokens)
	if err != nil {
		return nil, nil, err
	}
	for len(rest) > 0 {
		op := rest[0]
		if _, ok := validOps[op]; !ok {
			break
		}
		var y expr
		y, rest, err = next(rest[1:])
		if err != nil {
			return nil, nil, err
		}
		x = binaryExpr{x: x, op: op, y: y}
	}
	return x, rest, nil
}

func parseUnary(tokens []token) (expr, []token, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("%w: expected a term; found nothing", ErrFormulaParse)
	}
	if tokens[0] == tokenSub {
		x, rest, err := parseUnary(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		if c, ok := x.(constExpr); ok { // fold constant negation, shortens the tree
			return constExpr{value: -c.value}, rest, nil
		}
		return unaryExpr{x: x, op: tokenSub}, rest, nil
	}
	return parsePrimary(tokens)
}

func parsePrimary(tokens []token) (expr, []token, error) {
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("%w: expected a term; found nothing", ErrFormulaParse)
	}
	head := tokens[0]
	if head == tokenLPar {
		inner, rest, err := parseExpr(tokens[1:])
		if err != nil {
			return nil, nil, err
		}
		if len(rest) == 0 || rest[0] != tokenRPar {
			return nil, nil, fmt.Errorf("%w: expected ')'", ErrFormulaParse)
		}
		return inner, rest[1:], nil
	}
	if pos, err := position.FromString(string(head)); err == nil {
		return cellRefExpr{ref: pos}, tokens[1:], nil
	}
	if val, err := strconv.ParseFloat(string(head), 64); err == nil {
		return constExpr{value: val}, tokens[1:], nil
	}
	return nil, nil, fmt.Errorf("%w: unexpected token %q", ErrFormulaParse, head)
}

// collectRefs walks the tree collecting every cell reference, in
// left-to-right evaluation order; duplicates are left in place for the
// caller to sort/dedupe.
func collectRefs(e expr) []position.Position {
	switch e := e.(type) {
	case binaryExpr:
		return append(collectRefs(e.x), collectRefs(e.y)...)
	case unaryExpr:
		return collectRefs(e.x)
	case cellRefExpr:
		return []position.Position{e.ref}
	case constExpr:
		return nil
	}
	return nil
}

// evalExpr evaluates e against reader, short-circuiting on the first
// FormulaError encountered (errors propagate as values, per spec.md §7).
func evalExpr(e expr, reader CellReader) (float64, *FormulaError) {
	switch e := e.(type) {
	case constExpr:
		return e.value, nil
	case cellRefExpr:
		return reader.CellNumericValue(e.ref)
	case unaryExpr:
		x, ferr := evalExpr(e.x, reader)
		if ferr != nil {
			return 0, ferr
		}
		return -x, nil
	case binaryExpr:
		x, ferr := evalExpr(e.x, reader)
		if ferr != nil {
			return 0, ferr
		}
		y, ferr := evalExpr(e.y, reader)
		if ferr != nil {
			return 0, ferr
		}
		switch e.op {
		case tokenAdd:
			return x + y, nil
		case tokenSub:
			return x - y, nil
		case tokenMul:
			return x * y, nil
		case tokenDiv:
			if y == 0 {
				return 0, &FormulaError{Code: ErrDiv0}
			}
			return x / y, nil
		}
	}
	return 0, &FormulaError{Code: ErrValue}
}

// printExpr renders e back into its canonical textual form.
func printExpr(e expr) string {
	var b strings.Builder
	writeExpr(&b, e, 0)
	return b.String()
}

// writeExpr writes e, parenthesizing only where required by precedence.
// parentPrec is the precedence of the enclosing operator (0 = none).
func writeExpr(b *strings.Builder, e expr, parentPrec int) {
	switch e := e.(type) {
	case constExpr:
		b.WriteString(formatNumber(e.value))
	case cellRefExpr:
		b.WriteString(e.ref.String())
	case unaryExpr:
		b.WriteString(string(e.op))
		writeExpr(b, e.x, 3)
	case binaryExpr:
		prec := precedence(e.op)
		needParens := prec < parentPrec
		if needParens {
			b.WriteByte('(')
		}
		writeExpr(b, e.x, prec)
		b.WriteString(string(e.op))
		writeExpr(b, e.y, prec+1)
		if needParens {
			b.WriteByte(')')
		}
	}
}

func precedence(op token) int {
	switch op {
	case tokenAdd, tokenSub:
		return 1
	case tokenMul, tokenDiv:
		return 2
	}
	return 0
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
