package parser

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
)

// ReadXLSX decodes the first sheet of an xlsx workbook. Cells keep their
// stored type: numbers (including date serials) stay numeric, ISO date cells
// become dates and everything else is text.
func ReadXLSX(r io.Reader) (grid.Grid, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	g := make(grid.Grid, len(rows))
	for i, raw := range rows {
		row := make(grid.Row, len(raw))
		for j, value := range raw {
			if value == "" {
				row[j] = grid.Empty()
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("invalid cell at row %d col %d: %w", i+1, j+1, err)
			}
			typ, err := f.GetCellType(sheet, axis)
			if err != nil {
				return nil, fmt.Errorf("failed to read type of %s: %w", axis, err)
			}
			row[j] = typedCell(typ, value)
		}
		g[i] = row
	}

	return g, nil
}

// typedCell converts a raw cell value according to its stored type
func typedCell(typ excelize.CellType, value string) grid.Cell {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeFormula:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return grid.Number(f)
		}
		return grid.Text(value)
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, value); err == nil {
				return grid.Date(t)
			}
		}
		return grid.Text(value)
	default:
		return grid.Text(value)
	}
}
