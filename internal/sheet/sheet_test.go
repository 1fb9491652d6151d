package sheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellgraph/spreadsheet/internal/cell"
	"github.com/cellgraph/spreadsheet/internal/position"
)

func a1(t *testing.T, s string) position.Position {
	t.Helper()
	p, err := position.FromString(s)
	require.NoError(t, err)
	return p
}

// Scenario 1 (spec.md §8): text escaping.
func TestSheet_textEscaping(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "'apple"))

	c, err := s.GetCell(a1(t, "A1"))
	require.NoError(t, err)
	assert.Equal(t, "'apple", c.GetText())
	assert.Equal(t, "apple", s.GetValue(a1(t, "A1")).String())
	assert.Equal(t, position.Size{Rows: 1, Cols: 1}, s.GetPrintableSize())
}

// Scenario 2: simple formula, then invalidation on antecedent change.
func TestSheet_simpleFormula(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "1"))
	require.NoError(t, s.SetCell(a1(t, "B1"), "2"))
	require.NoError(t, s.SetCell(a1(t, "C1"), "=A1+B1"))

	assert.Equal(t, 3.0, s.GetValue(a1(t, "C1")).Number)

	require.NoError(t, s.SetCell(a1(t, "A1"), "5"))
	assert.Equal(t, 7.0, s.GetValue(a1(t, "C1")).Number)
}

// Scenario 3: self-reference rejected.
func TestSheet_selfReferenceRejected(t *testing.T) {
	s := New()
	err := s.SetCell(a1(t, "A1"), "=A1")
	assert.ErrorIs(t, err, cell.ErrCircularDependency)

	c, err := s.GetCell(a1(t, "A1"))
	require.NoError(t, err)
	assert.Equal(t, "", c.GetText())
	assert.Equal(t, position.Size{}, s.GetPrintableSize())
}

// Scenario 4: indirect cycle rejected.
func TestSheet_indirectCycleRejected(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "=B1"))
	require.NoError(t, s.SetCell(a1(t, "B1"), "=C1"))

	err := s.SetCell(a1(t, "C1"), "=A1")
	assert.ErrorIs(t, err, cell.ErrCircularDependency)

	a1Cell, _ := s.GetCell(a1(t, "A1"))
	b1Cell, _ := s.GetCell(a1(t, "B1"))
	assert.Equal(t, "=B1", a1Cell.GetText())
	assert.Equal(t, "=C1", b1Cell.GetText())
}

// Scenario 5: clearing a cell with dependents surfaces a FormulaError.
func TestSheet_clearWithDependents(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "1"))
	require.NoError(t, s.SetCell(a1(t, "B1"), "=A1+1"))
	assert.Equal(t, 2.0, s.GetValue(a1(t, "B1")).Number)

	require.NoError(t, s.ClearCell(a1(t, "A1")))
	assert.Equal(t, cell.ValueError, s.GetValue(a1(t, "B1")).Kind, "expected a FormulaError, not 2")
}

// Scenario 6: printable size grows and shrinks.
func TestSheet_printableShrink(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "1"))
	require.NoError(t, s.SetCell(a1(t, "C3"), "1"))
	assert.Equal(t, position.Size{Rows: 3, Cols: 3}, s.GetPrintableSize())

	require.NoError(t, s.ClearCell(a1(t, "C3")))
	assert.Equal(t, position.Size{Rows: 1, Cols: 1}, s.GetPrintableSize())
}

func TestSheet_invalidPositionErrors(t *testing.T) {
	s := New()
	invalid := position.New(-1, -1)

	_, err := s.GetCell(invalid)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	err = s.SetCell(invalid, "1")
	assert.ErrorIs(t, err, ErrInvalidPosition)

	err = s.ClearCell(invalid)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestSheet_getUnsetCellIsNilNotError(t *testing.T) {
	s := New()
	c, err := s.GetCell(a1(t, "Z99"))
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestSheet_printValuesAndTexts(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "1"))
	require.NoError(t, s.SetCell(a1(t, "B1"), "=A1+1"))

	var values strings.Builder
	require.NoError(t, s.PrintValues(&values))
	assert.Equal(t, "1\t2\n", values.String())

	var texts strings.Builder
	require.NoError(t, s.PrintTexts(&texts))
	assert.Equal(t, "1\t=A1+1\n", texts.String())
}

func TestSheet_printSkipsEmptyCells(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "x"))
	require.NoError(t, s.SetCell(a1(t, "C1"), "y"))

	var out strings.Builder
	require.NoError(t, s.PrintValues(&out))
	assert.Equal(t, "x\t\ty\n", out.String())
}

func TestSheet_idempotentSetLeavesPrintableSizeAndCacheUnchanged(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "1"))
	require.NoError(t, s.SetCell(a1(t, "B1"), "=A1+1"))
	_ = s.GetValue(a1(t, "B1"))

	sizeBefore := s.GetPrintableSize()
	c, _ := s.GetCell(a1(t, "A1"))
	require.NoError(t, s.SetCell(a1(t, "A1"), c.GetText()))
	assert.Equal(t, sizeBefore, s.GetPrintableSize())
}

func TestSheet_fibonacci(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "0"))
	require.NoError(t, s.SetCell(a1(t, "A2"), "1"))
	for i := 3; i < 15; i++ {
		cellAddr := positionAt(t, i)
		prev1 := positionAt(t, i-1)
		prev2 := positionAt(t, i-2)
		require.NoError(t, s.SetCell(cellAddr, "="+prev2.String()+"+"+prev1.String()))
	}
	assert.Equal(t, 233.0, s.GetValue(positionAt(t, 14)).Number)
}

func positionAt(t *testing.T, row int) position.Position {
	t.Helper()
	return position.New(row-1, 0)
}
