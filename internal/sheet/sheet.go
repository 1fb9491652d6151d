// Package sheet implements C4 from spec.md §2: the grid. It owns the
// cells and the dependency graph, dispatches edits, enforces
// acyclicity via the cell package, and exposes the printing and
// bounding-size operations.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/cellgraph/spreadsheet/internal/cell"
	"github.com/cellgraph/spreadsheet/internal/formula"
	"github.com/cellgraph/spreadsheet/internal/graph"
	"github.com/cellgraph/spreadsheet/internal/position"
)

// ErrInvalidPosition is wrapped by every InvalidPositionError.
var ErrInvalidPosition = errors.New("invalid position")

// InvalidPositionError reports that an operation was given a position
// outside the addressable grid.
type InvalidPositionError struct {
	Pos position.Position
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidPosition, e.Pos)
}

func (e *InvalidPositionError) Unwrap() error { return ErrInvalidPosition }

// Sheet is a sparse grid of cells plus the dependency graph linking them.
type Sheet struct {
	id    uuid.UUID
	cells map[position.Position]*cell.Cell
	graph *graph.Graph
	size  position.Size
}

// New returns an empty sheet, tagged with a fresh identity. The id is
// surface-level bookkeeping for outer shims (CLI, xlsx export) that
// need to name a sheet; the evaluation core never reads it.
func New() *Sheet {
	return &Sheet{
		id:    uuid.New(),
		cells: make(map[position.Position]*cell.Cell),
		graph: graph.New(),
	}
}

// ID returns the sheet's identity.
func (s *Sheet) ID() uuid.UUID { return s.id }

// SetCell validates pos, materializes a cell there if absent, and
// delegates to Cell.Set. The printable size only grows after the
// delegate accepts the edit — a rejection leaves GetPrintableSize
// unchanged even though an empty cell may now occupy pos.
func (s *Sheet) SetCell(pos position.Position, text string) error {
	if !pos.IsValid() {
		return &InvalidPositionError{Pos: pos}
	}
	c, ok := s.cells[pos]
	if !ok {
		c = cell.New(pos)
		s.cells[pos] = c
	}
	if err := c.Set(text, s); err != nil {
		return err
	}
	s.size = s.size.Grow(pos)
	return nil
}

// GetCell returns the cell at pos, or nil if pos has never been written.
func (s *Sheet) GetCell(pos position.Position) (*cell.Cell, error) {
	if !pos.IsValid() {
		return nil, &InvalidPositionError{Pos: pos}
	}
	return s.cells[pos], nil
}

// ClearCell removes the cell at pos, after clearing its outgoing
// edges and invalidating its dependents via Cell.Clear, then
// recomputes the tight printable rectangle.
func (s *Sheet) ClearCell(pos position.Position) error {
	if !pos.IsValid() {
		return &InvalidPositionError{Pos: pos}
	}
	if c, ok := s.cells[pos]; ok {
		c.Clear(s)
		delete(s.cells, pos)
	}
	s.shrinkPrintableSize()
	return nil
}

// GetValue returns the computed value of the cell at pos, or the empty
// text value if pos is unset.
func (s *Sheet) GetValue(pos position.Position) cell.Value {
	c, ok := s.cells[pos]
	if !ok {
		return cell.Value{Kind: cell.ValueText}
	}
	return c.GetValue(s)
}

// GetPrintableSize returns the cached tight bounding rectangle.
func (s *Sheet) GetPrintableSize() position.Size { return s.size }

func (s *Sheet) shrinkPrintableSize() {
	var sz position.Size
	for pos, c := range s.cells {
		if c.GetText() == "" {
			continue // e.g. a cell materialized by a rejected SetCell
		}
		sz = sz.Grow(pos)
	}
	s.size = sz
}

// PrintValues writes each cell's computed value, rows separated by
// '\n', cells within a row separated by '\t'.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.printEach(w, func(c *cell.Cell) string {
		return c.GetValue(s).String()
	})
}

// PrintTexts writes each cell's stored text, using the same grammar as
// PrintValues.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.printEach(w, func(c *cell.Cell) string {
		return c.GetText()
	})
}

func (s *Sheet) printEach(w io.Writer, render func(*cell.Cell) string) error {
	for row := 0; row < s.size.Rows; row++ {
		for col := 0; col < s.size.Cols; col++ {
			if col != 0 {
				if _, err := io.WriteString(w, "\t"); err != nil {
					return err
				}
			}
			if c, ok := s.cells[position.New(row, col)]; ok {
				if _, err := io.WriteString(w, render(c)); err != nil {
					return err
				}
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// --- cell.Host implementation -----------------------------------------

func (s *Sheet) Adjacency(p position.Position) []position.Position  { return s.graph.Adjacency(p) }
func (s *Sheet) Dependency(p position.Position) []position.Position { return s.graph.Dependency(p) }
func (s *Sheet) AddAdjacency(src, dst position.Position)            { s.graph.AddAdjacency(src, dst) }
func (s *Sheet) RemoveAdjacency(src, dst position.Position)         { s.graph.RemoveAdjacency(src, dst) }
func (s *Sheet) AddDependency(dst, src position.Position)           { s.graph.AddDependency(dst, src) }
func (s *Sheet) RemoveDependency(dst, src position.Position)        { s.graph.RemoveDependency(dst, src) }

func (s *Sheet) Lookup(p position.Position) (*cell.Cell, bool) {
	c, ok := s.cells[p]
	return c, ok
}

// CellNumericValue satisfies formula.CellReader: it resolves a
// referenced position to a numeric operand, or to the FormulaError
// category spec.md §6 calls for (absent cell -> #REF!, non-numeric
// text -> #VALUE!, referenced error propagates unchanged).
func (s *Sheet) CellNumericValue(pos position.Position) (float64, *formula.FormulaError) {
	c, ok := s.cells[pos]
	if !ok {
		return 0, &formula.FormulaError{Code: formula.ErrRef}
	}
	v := c.GetValue(s)
	switch v.Kind {
	case cell.ValueNumber:
		return v.Number, nil
	case cell.ValueError:
		return 0, v.Err
	default:
		n, err := strconv.ParseFloat(v.Text, 64)
		if err != nil {
			return 0, &formula.FormulaError{Code: formula.ErrValue}
		}
		return n, nil
	}
}

// sortedPositions returns every populated position in row-major order;
// it backs Cells.
func (s *Sheet) sortedPositions() []position.Position {
	out := make([]position.Position, 0, len(s.cells))
	for p := range s.cells {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Cells returns every populated position in row-major order together
// with its cell, for callers that need to walk the sparse grid. The
// xlsx exporter and the CLI table renderer do not use it; they walk the
// printable rectangle through GetCell/GetValue.
func (s *Sheet) Cells() []PositionedCell {
	positions := s.sortedPositions()
	out := make([]PositionedCell, 0, len(positions))
	for _, p := range positions {
		out = append(out, PositionedCell{Pos: p, Cell: s.cells[p]})
	}
	return out
}

// PositionedCell pairs a position with the cell found there.
type PositionedCell struct {
	Pos  position.Position
	Cell *cell.Cell
}
