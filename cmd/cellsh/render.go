package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cellgraph/spreadsheet/internal/cell"
	"github.com/cellgraph/spreadsheet/internal/position"
	"github.com/cellgraph/spreadsheet/internal/sheet"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable lays out s's printable rectangle as a lipgloss-styled
// grid, column letters and row numbers along the edges.
func renderTable(s *sheet.Sheet) string {
	size := s.GetPrintableSize()
	if size.Rows == 0 || size.Cols == 0 {
		return headerStyle.Render("(empty sheet)")
	}

	var b strings.Builder
	b.WriteString(cellStyle.Render(" "))
	for col := 0; col < size.Cols; col++ {
		b.WriteString(cellStyle.Render(headerStyle.Render(columnLabel(col))))
	}
	b.WriteString("\n")

	for row := 0; row < size.Rows; row++ {
		b.WriteString(cellStyle.Render(headerStyle.Render(strconv.Itoa(row + 1))))
		for col := 0; col < size.Cols; col++ {
			v := s.GetValue(position.New(row, col))
			b.WriteString(cellStyle.Render(renderValue(v)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// columnLabel returns just the base-26 column letters of position
// (row 0, col), stripping the row-1 suffix String() always appends.
func columnLabel(col int) string {
	return strings.TrimSuffix(position.New(0, col).String(), "1")
}

func renderValue(v cell.Value) string {
	switch v.Kind {
	case cell.ValueNumber:
		return numberStyle.Render(v.String())
	case cell.ValueError:
		return errorStyle.Render(v.String())
	default:
		return v.String()
	}
}
