package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellgraph/spreadsheet/internal/position"
)

// assertMirror checks spec.md §8's mirror invariant across every
// position the graph currently mentions.
func assertMirror(t *testing.T, s *Sheet) {
	t.Helper()
	seen := make(map[position.Position]struct{})
	for p := range s.cells {
		seen[p] = struct{}{}
	}
	for p := range seen {
		for _, q := range s.Adjacency(p) {
			assert.Contains(t, s.Dependency(q), p, "mirror: %v in adj[%v] but not dep[%v]", q, p, q)
		}
		for _, q := range s.Dependency(p) {
			assert.Contains(t, s.Adjacency(q), p, "mirror: %v in dep[%v] but not adj[%v]", q, p, q)
		}
	}
}

func TestInvariant_mirror(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "1"))
	require.NoError(t, s.SetCell(a1(t, "B1"), "=A1"))
	require.NoError(t, s.SetCell(a1(t, "C1"), "=A1+B1"))
	assertMirror(t, s)

	require.NoError(t, s.SetCell(a1(t, "B1"), "2")) // drop B1's reference to A1
	assertMirror(t, s)

	require.NoError(t, s.ClearCell(a1(t, "C1")))
	assertMirror(t, s)
}

func TestInvariant_contentGraphConsistency(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "1"))
	require.NoError(t, s.SetCell(a1(t, "B1"), "1"))
	require.NoError(t, s.SetCell(a1(t, "C1"), "=A1+B1+A1"))

	c, err := s.GetCell(a1(t, "C1"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []position.Position{a1(t, "A1"), a1(t, "B1")}, c.GetReferencedCells())
	assert.ElementsMatch(t, c.GetReferencedCells(), s.Adjacency(a1(t, "C1")))
}

func TestInvariant_roundTripText(t *testing.T) {
	s := New()
	require.NoError(t, s.SetCell(a1(t, "A1"), "'escaped"))
	c, _ := s.GetCell(a1(t, "A1"))
	assert.Equal(t, "'escaped", c.GetText())

	require.NoError(t, s.SetCell(a1(t, "B1"), "=A1+1"))
	c, _ = s.GetCell(a1(t, "B1"))
	assert.Equal(t, "=A1+1", c.GetText())
}

func TestInvariant_printableTightness(t *testing.T) {
	s := New()
	assert.Equal(t, position.Size{}, s.GetPrintableSize())

	require.NoError(t, s.SetCell(a1(t, "B2"), "x"))
	sz := s.GetPrintableSize()
	assert.Equal(t, position.Size{Rows: 2, Cols: 2}, sz)

	// row sz.Rows-1 and col sz.Cols-1 must each contain a non-empty cell.
	foundRow, foundCol := false, false
	for p := range s.cells {
		if p.Row == sz.Rows-1 {
			foundRow = true
		}
		if p.Col == sz.Cols-1 {
			foundCol = true
		}
	}
	assert.True(t, foundRow)
	assert.True(t, foundCol)
}
