// Package exportxlsx is a thin outer shim around the evaluation core:
// it writes a sheet's printable rectangle out as a single-worksheet
// .xlsx workbook. This is the "persistence" concern spec.md §1
// explicitly excludes from the core, given a concrete home per
// SPEC_FULL.md §3 — grounded on the pack's own xuri/excelize checkout
// (_examples/OmniMCP-AI-excelize) and go-mizu-mizu/blueprints/spreadsheet,
// whose go.mod lists xuri/excelize/v2 for the same spreadsheet-export role.
package exportxlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cellgraph/spreadsheet/internal/cell"
	"github.com/cellgraph/spreadsheet/internal/position"
)

const defaultSheetName = "Sheet1"

// Source is the read surface exportxlsx needs from a sheet.
type Source interface {
	GetPrintableSize() position.Size
	GetCell(pos position.Position) (*cell.Cell, error)
	GetValue(pos position.Position) cell.Value
}

// Write renders src's printable rectangle into a new xlsx file at path.
// Numeric cells are written as numbers, text cells as strings, and
// FormulaError cells as their tag string (e.g. "#DIV/0!") — the same
// values PrintValues would emit, just routed through excelize instead
// of a tab-separated writer.
func Write(src Source, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), defaultSheetName); err != nil {
		return fmt.Errorf("exportxlsx: rename default sheet: %w", err)
	}

	size := src.GetPrintableSize()
	for row := 0; row < size.Rows; row++ {
		for col := 0; col < size.Cols; col++ {
			pos := position.New(row, col)
			c, err := src.GetCell(pos)
			if err != nil {
				return fmt.Errorf("exportxlsx: %w", err)
			}
			if c == nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return fmt.Errorf("exportxlsx: %w", err)
			}
			if err := writeCell(f, axis, src.GetValue(pos)); err != nil {
				return fmt.Errorf("exportxlsx: %s: %w", axis, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("exportxlsx: save %s: %w", path, err)
	}
	return nil
}

func writeCell(f *excelize.File, axis string, v cell.Value) error {
	switch v.Kind {
	case cell.ValueNumber:
		return f.SetCellFloat(defaultSheetName, axis, v.Number, -1, 64)
	case cell.ValueError:
		return f.SetCellStr(defaultSheetName, axis, v.Err.String())
	default:
		if v.Text == "" {
			return nil
		}
		return f.SetCellStr(defaultSheetName, axis, v.Text)
	}
}
