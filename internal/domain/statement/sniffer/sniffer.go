// Package sniffer locates the header row inside an unstructured statement
// grid and resolves its columns against the canonical schema.
package sniffer

import (
	"errors"
	"strings"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/schema"
)

var (
	ErrHeaderNotFound    = errors.New("header row not found")
	ErrDateColumnMissing = errors.New("date column not found in header row")
)

// headerKeywords mark a row as the column header when any cell contains one
var headerKeywords = []string{"txn", "debit", "credit", "balance", "narration"}

// fallbackRows are probed in order when no row carries a header keyword
var fallbackRows = []int{0, 1, 2, 3}

// Frame is the minimum structure needed to read transactions
type Frame struct {
	HeaderRow int
	Columns   schema.ColumnMap
}

// LocateHeader returns the index of the header row.
// The first row holding a header keyword wins; otherwise the first of rows 0-3
// whose cells resolve a date column.
func LocateHeader(g grid.Grid) (int, error) {
	for i, row := range g {
		if hasHeaderKeyword(row) {
			return i, nil
		}
	}

	for _, i := range fallbackRows {
		row := g.At(i)
		if row == nil {
			continue
		}
		if ResolveColumns(row).Has(schema.Date) {
			return i, nil
		}
	}

	return -1, ErrHeaderNotFound
}

func hasHeaderKeyword(row grid.Row) bool {
	for _, c := range row {
		if c.IsEmpty() {
			continue
		}
		text := strings.ToLower(c.String())
		for _, kw := range headerKeywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}

// ResolveColumns maps canonical keys to column indices for a header row.
//
// Any cell containing "date" or "dt" claims the date key if it is unbound.
// Independently, keys are tried in alias-table order and the first key with a
// matching alias that is still unbound takes the column. A key is never
// rebound once set, so an early generic header (for example "Value Date"
// before "Txn Date") keeps the date key.
func ResolveColumns(header grid.Row) schema.ColumnMap {
	cols := schema.ColumnMap{}
	aliases := schema.Aliases()

	for idx, c := range header {
		if c.IsEmpty() {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(c.String()))
		if text == "" {
			continue
		}

		if strings.Contains(text, "date") || strings.Contains(text, "dt") {
			cols.Bind(schema.Date, idx)
		}

		for _, a := range aliases {
			if !matchesAny(text, a.Aliases) {
				continue
			}
			if cols.Bind(a.Key, idx) {
				break
			}
		}
	}

	return cols
}

// matchesAny reports whether text equals or contains any alias
func matchesAny(text string, aliases []string) bool {
	for _, alias := range aliases {
		alias = strings.ToLower(alias)
		if text == alias || strings.Contains(text, alias) {
			return true
		}
	}
	return false
}

// Sniff locates the header row and resolves its columns.
// It fails with ErrDateColumnMissing when the header carries no date column.
func Sniff(g grid.Grid) (Frame, error) {
	idx, err := LocateHeader(g)
	if err != nil {
		return Frame{}, err
	}

	cols := ResolveColumns(g[idx])
	if !cols.Has(schema.Date) {
		return Frame{}, ErrDateColumnMissing
	}

	return Frame{HeaderRow: idx, Columns: cols}, nil
}
