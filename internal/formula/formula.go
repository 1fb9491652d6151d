// Package formula is the external collaborator spec.md §6 describes: a
// factory that parses a cell's formula text into an object exposing a
// canonical expression, the sorted list of referenced positions, and an
// Evaluate operation returning a number or a value-class FormulaError.
//
// The tokenizer and recursive-descent parser are grounded on the
// teacher's internal/expr.go (same term/factor/unary/primary grammar),
// generalized from int-only arithmetic to float64 with the
// error-as-value propagation the distilled-from C++ original's
// formula.cpp/cell.cpp implement.
package formula

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cellgraph/spreadsheet/internal/position"
)

// ErrFormulaParse wraps every syntax error ParseFormula returns.
var ErrFormulaParse = errors.New("formula parse error")

// FormulaParseError reports that expr could not be parsed as a
// formula, carrying the offending expression text so a caller can
// report it without re-parsing the error string. Mirrors the shape of
// InvalidPositionError and CircularDependencyError, which likewise
// carry the offending input as a struct field.
type FormulaParseError struct {
	Expr   string
	Reason string
}

func (e *FormulaParseError) Error() string {
	return fmt.Sprintf("%v: %q: %s", ErrFormulaParse, e.Expr, e.Reason)
}

func (e *FormulaParseError) Unwrap() error { return ErrFormulaParse }

// ErrorCode distinguishes the evaluation-time error categories spec.md
// §6 names.
type ErrorCode uint8

const (
	ErrRef   ErrorCode = iota + 1 // #REF! - reference out of range or to a cleared cell
	ErrValue                      // #VALUE! - non-numeric operand
	ErrDiv0                       // #DIV/0! - division by zero
)

func (c ErrorCode) String() string {
	switch c {
	case ErrRef:
		return "#REF!"
	case ErrValue:
		return "#VALUE!"
	case ErrDiv0:
		return "#DIV/0!"
	default:
		return "#ERROR!"
	}
}

// FormulaError is a value-class evaluation failure. It is never
// returned as a Go error from Evaluate; it is the evaluated value
// itself, and propagates through formulas that reference an erroring cell.
type FormulaError struct {
	Code ErrorCode
}

func (e *FormulaError) Error() string { return e.Code.String() }

// String renders the error's short tag form, used by Sheet.PrintValues.
func (e *FormulaError) String() string { return e.Code.String() }

// CellReader is the read-only sheet view Evaluate consumes to resolve
// cell references to numeric operands.
type CellReader interface {
	// CellNumericValue resolves pos to a float64 operand. If pos names an
	// absent cell (never set, or cleared), it returns a #REF! error. If
	// the cell holds non-numeric text, it returns a #VALUE! error. If the
	// cell itself holds a FormulaError, that same error is returned.
	CellNumericValue(pos position.Position) (float64, *FormulaError)
}

// Formula is a parsed formula, returned by ParseFormula.
type Formula interface {
	// GetExpression returns the canonical printed form of the parsed
	// expression (without the leading '=').
	GetExpression() string
	// GetReferencedCells returns the sorted list of positions named by
	// the formula. May contain duplicates; callers dedupe.
	GetReferencedCells() []position.Position
	// Evaluate computes the formula's value against reader.
	Evaluate(reader CellReader) (float64, *FormulaError)
}

// ParseFormula parses expr (the text following the leading '=') into a
// Formula, or a *FormulaParseError wrapping ErrFormulaParse.
func ParseFormula(expr string) (Formula, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, &FormulaParseError{Expr: expr, Reason: unwrapReason(err)}
	}
	ast, rest, err := parseExpr(tokens)
	if err != nil {
		return nil, &FormulaParseError{Expr: expr, Reason: unwrapReason(err)}
	}
	if len(rest) != 0 {
		return nil, &FormulaParseError{Expr: expr, Reason: fmt.Sprintf("unexpected trailing input at %q", rest[0])}
	}
	return &parsedFormula{ast: ast}, nil
}

// unwrapReason strips the leading "%w: " ErrFormulaParse prefix the
// internal tokenizer/parser helpers attach, so FormulaParseError.Error
// doesn't repeat it.
func unwrapReason(err error) string {
	return strings.TrimPrefix(err.Error(), ErrFormulaParse.Error()+": ")
}

type parsedFormula struct {
	ast expr
}

func (f *parsedFormula) GetExpression() string { return printExpr(f.ast) }

func (f *parsedFormula) GetReferencedCells() []position.Position {
	refs := collectRefs(f.ast)
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Row != refs[j].Row {
			return refs[i].Row < refs[j].Row
		}
		return refs[i].Col < refs[j].Col
	})
	return refs
}

func (f *parsedFormula) Evaluate(reader CellReader) (float64, *FormulaError) {
	return evalExpr(f.ast, reader)
}
