// Package cell implements a single spreadsheet cell: its content
// variant (empty, text, or formula), its referenced-set, and its
// memoized value. This is C3 in spec.md §2.
//
// A Cell never stores a back-reference to its owning sheet. Per
// spec.md §9's design note, the sheet is instead passed into every
// operation as a non-owning Host handle, so a Cell's lifetime is never
// entangled with its sheet's.
package cell

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cellgraph/spreadsheet/internal/formula"
	"github.com/cellgraph/spreadsheet/internal/position"
)

// ErrCircularDependency is wrapped by every CircularDependencyError.
var ErrCircularDependency = errors.New("circular dependency")

// CircularDependencyError reports that accepting a candidate formula
// text at a position would introduce a cycle. Text preserved for the
// caller's error message, mirroring the original_source cell.cpp
// message shape ("Found circular at <pos> with formula <text>").
type CircularDependencyError struct {
	Pos  position.Position
	Text string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("%v: found circular dependency at %s with formula %q", ErrCircularDependency, e.Pos, e.Text)
}

func (e *CircularDependencyError) Unwrap() error { return ErrCircularDependency }

// Host is the non-owning handle a Cell uses to mutate the shared
// dependency graph, resolve other cells' cached values during
// invalidation, and supply a formula.CellReader view during evaluation.
type Host interface {
	formula.CellReader

	Adjacency(p position.Position) []position.Position
	Dependency(p position.Position) []position.Position
	AddAdjacency(src, dst position.Position)
	RemoveAdjacency(src, dst position.Position)
	AddDependency(dst, src position.Position)
	RemoveDependency(dst, src position.Position)

	// Lookup returns the cell at p, if one has been created there.
	Lookup(p position.Position) (*Cell, bool)
}

// Kind tags a Cell's content variant.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindFormula
)

// ValueKind tags the result of GetValue.
type ValueKind uint8

const (
	ValueText ValueKind = iota
	ValueNumber
	ValueError
)

// Value is the computed, displayable result of a cell: a number, a
// string, or a FormulaError — spec.md §3's Cell content value union.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
	Err    *formula.FormulaError
}

// String renders v per the printing grammar of spec.md §6: numbers
// with the host formatter's default decimal form, strings verbatim,
// errors as their tag.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return formatNumber(v.Number)
	case ValueError:
		return v.Err.String()
	default:
		return v.Text
	}
}

// Cell holds one grid element's content, referenced-set, and memoized value.
type Cell struct {
	pos position.Position

	kind    Kind
	text    string          // raw stored text for KindText
	formula formula.Formula // parsed formula for KindFormula

	referenced []position.Position // accepted referenced-set

	cache    *Value
	hasCache bool
}

// New constructs an empty cell anchored at pos.
func New(pos position.Position) *Cell {
	return &Cell{pos: pos}
}

// Pos returns the cell's position.
func (c *Cell) Pos() position.Position { return c.pos }

// GetText returns the stored text: empty for Empty, the raw string for
// Text, or "=" + canonical-expression for Formula.
func (c *Cell) GetText() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindFormula:
		return "=" + c.formula.GetExpression()
	default:
		return ""
	}
}

// GetReferencedCells returns the cell's current referenced-set, in the
// order the formula parser produced it (deduplicated per spec.md §4.3).
func (c *Cell) GetReferencedCells() []position.Position {
	return dedupe(c.referenced)
}

// IsReferenced reports whether any other cell currently names this one
// in its referenced-set. Carried forward from the original_source
// cell.h/cell.cpp IsReferenced(), per SPEC_FULL.md §4.
func (c *Cell) IsReferenced(host Host) bool {
	return len(host.Dependency(c.pos)) > 0
}

// GetValue returns the cell's memoized value, computing and caching it
// on a miss.
func (c *Cell) GetValue(host Host) Value {
	if c.hasCache {
		return *c.cache
	}
	v := c.compute(host)
	c.cache = &v
	c.hasCache = true
	return v
}

func (c *Cell) compute(host Host) Value {
	switch c.kind {
	case KindText:
		return Value{Kind: ValueText, Text: displayText(c.text)}
	case KindFormula:
		num, ferr := c.formula.Evaluate(host)
		if ferr != nil {
			return Value{Kind: ValueError, Err: ferr}
		}
		return Value{Kind: ValueNumber, Number: num}
	default:
		return Value{Kind: ValueText, Text: ""}
	}
}

// Set parses text and, if accepted, replaces the cell's content,
// referenced-set, and graph edges, then invalidates dependents'
// caches. Rejections (circular dependency, parse failure) leave all
// state — including the graph and every cache — untouched.
func (c *Cell) Set(text string, host Host) error {
	if text == c.GetText() {
		return nil // idempotent, per spec.md §4.3 step 1
	}

	if len(text) > 1 && text[0] == '=' {
		f, err := formula.ParseFormula(text[1:])
		if err != nil {
			return err
		}
		candidate := dedupe(f.GetReferencedCells())
		if err := c.checkCycle(candidate, text, host); err != nil {
			return err
		}
		c.replace(KindFormula, "", f, candidate, host)
		return nil
	}

	c.replace(KindText, text, nil, nil, host)
	return nil
}

// Clear replaces the cell's content with Empty, clearing its
// referenced-set, graph edges, and own cache, and invalidates dependents.
func (c *Cell) Clear(host Host) {
	c.replace(KindEmpty, "", nil, nil, host)
}

// replace swaps in new content/referenced-set, updates the graph, and
// runs transitive cache invalidation. Called only after any cycle
// check has already accepted the candidate.
func (c *Cell) replace(kind Kind, text string, f formula.Formula, referenced []position.Position, host Host) {
	c.updateGraph(referenced, host)
	c.kind = kind
	c.text = text
	c.formula = f
	c.referenced = referenced
	c.cache = nil
	c.hasCache = false
	invalidateDependents(c.pos, host)
}

// updateGraph removes the cell's previous outgoing edges, staged into a
// slice first so removal doesn't disturb iteration (spec.md §4.3.2),
// then adds edges for the new referenced-set.
func (c *Cell) updateGraph(newReferenced []position.Position, host Host) {
	removing := append([]position.Position(nil), host.Adjacency(c.pos)...)
	for _, q := range removing {
		host.RemoveDependency(q, c.pos)
		host.RemoveAdjacency(c.pos, q)
	}
	for _, q := range dedupe(newReferenced) {
		host.AddAdjacency(c.pos, q)
		host.AddDependency(q, c.pos)
	}
}

// checkCycle implements spec.md §4.3.1's symmetric formulation: the
// edit is rejected iff some position in candidate can already reach
// (via adjacency) some position in the backward-closure of c's
// position (c itself, plus everything that transitively depends on
// it). This is the authoritative algorithm spec.md gives; see
// SPEC_FULL.md §4 for why it supersedes the original_source's
// two-phase check literally.
func (c *Cell) checkCycle(candidate []position.Position, text string, host Host) error {
	for _, q := range candidate {
		if q == c.pos {
			return &CircularDependencyError{Pos: c.pos, Text: text}
		}
	}

	backward := map[position.Position]struct{}{c.pos: {}}
	stack := append([]position.Position(nil), host.Dependency(c.pos)...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := backward[p]; seen {
			continue
		}
		backward[p] = struct{}{}
		stack = append(stack, host.Dependency(p)...)
	}

	visited := make(map[position.Position]struct{})
	stack = append([]position.Position(nil), candidate...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, in := backward[p]; in {
			return &CircularDependencyError{Pos: c.pos, Text: text}
		}
		if _, seen := visited[p]; seen {
			continue
		}
		visited[p] = struct{}{}
		stack = append(stack, host.Adjacency(p)...)
	}
	return nil
}

// invalidateDependents clears the cached value of every position
// transitively reachable from pos via dependency (backward) edges,
// pruning a branch as soon as it finds an already-empty cache — per
// spec.md §4.3.3's inductive invariant.
func invalidateDependents(pos position.Position, host Host) {
	stack := append([]position.Position(nil), host.Dependency(pos)...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cell, ok := host.Lookup(p)
		if !ok || !cell.hasCache {
			continue
		}
		cell.cache = nil
		cell.hasCache = false
		stack = append(stack, host.Dependency(p)...)
	}
}

func dedupe(positions []position.Position) []position.Position {
	if len(positions) == 0 {
		return nil
	}
	seen := make(map[position.Position]struct{}, len(positions))
	out := make([]position.Position, 0, len(positions))
	for _, p := range positions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func displayText(text string) string {
	if len(text) > 0 && text[0] == '\'' {
		return text[1:]
	}
	return text
}
