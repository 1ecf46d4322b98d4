// Package grid holds the decoded spreadsheet as rows of scalar cells.
// Rows may be ragged; reading past the end of a row yields an empty cell.
package grid

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the scalar type held by a Cell
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
)

// Cell is a single scalar value decoded from a workbook
type Cell struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// Text creates a text cell. Cleaning turns blank text into an empty cell.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Number creates a numeric cell
func Number(f float64) Cell {
	return Cell{kind: KindNumber, num: f}
}

// Date creates a date cell
func Date(t time.Time) Cell {
	return Cell{kind: KindDate, date: t}
}

// Empty returns the absent cell
func Empty() Cell {
	return Cell{}
}

// Kind returns the scalar type of the cell
func (c Cell) Kind() Kind {
	return c.kind
}

// IsEmpty reports whether the cell is absent
func (c Cell) IsEmpty() bool {
	return c.kind == KindEmpty
}

// Float returns the numeric value for number cells
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Time returns the value for date cells
func (c Cell) Time() (time.Time, bool) {
	if c.kind != KindDate {
		return time.Time{}, false
	}
	return c.date, true
}

// String renders the cell the way it reads in the sheet.
// Numbers use the shortest exact decimal form, dates use YYYY-MM-DD.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindDate:
		return c.date.Format("2006-01-02")
	default:
		return ""
	}
}

// Row is an ordered, possibly short, sequence of cells
type Row []Cell

// At returns the cell at index i, or an empty cell when i is out of range
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Empty()
	}
	return r[i]
}

// Texts returns the string form of every cell in the row
func (r Row) Texts() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

// Grid is the full sheet in statement order
type Grid []Row

// At returns row i, or nil when i is out of range
func (g Grid) At(i int) Row {
	if i < 0 || i >= len(g) {
		return nil
	}
	return g[i]
}

// FromStrings builds a grid of text cells. Empty strings become empty cells.
func FromStrings(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, raw := range rows {
		row := make(Row, len(raw))
		for j, s := range raw {
			if s == "" {
				row[j] = Empty()
				continue
			}
			row[j] = Text(s)
		}
		g[i] = row
	}
	return g
}

// Clean returns a copy of the grid with text trimmed and blank text collapsed
// to empty cells. Non-text scalars pass through unchanged. Clean is idempotent.
func Clean(g Grid) Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		cleaned := make(Row, len(row))
		for j, c := range row {
			cleaned[j] = cleanCell(c)
		}
		out[i] = cleaned
	}
	return out
}

func cleanCell(c Cell) Cell {
	if c.kind != KindText {
		return c
	}
	trimmed := strings.TrimSpace(c.text)
	if trimmed == "" {
		return Empty()
	}
	return Text(trimmed)
}

// JoinText concatenates every non-empty cell of the grid, space separated.
// It is used for whole-document keyword sniffing.
func JoinText(g Grid) string {
	var b strings.Builder
	for _, row := range g {
		for _, c := range row {
			if c.IsEmpty() {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(c.String())
		}
	}
	return b.String()
}
