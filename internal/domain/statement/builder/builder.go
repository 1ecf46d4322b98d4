// Package builder turns data rows into validated transactions.
package builder

import (
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/normalizer"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/schema"
)

// Build walks every row after headerRow in order and returns the rows that
// form valid transactions. Defective rows are skipped and counted in the
// returned diagnostics; they never fail the statement.
func Build(g grid.Grid, headerRow int, cols schema.ColumnMap) ([]model.Transaction, model.Diagnostics) {
	diag := model.NewDiagnostics()
	txs := make([]model.Transaction, 0, max(len(g)-headerRow-1, 0))

	for i := headerRow + 1; i < len(g); i++ {
		diag.RowsScanned++

		tx, reason, ok := buildRow(g[i], cols)
		if !ok {
			diag.Drop(reason)
			continue
		}

		txs = append(txs, tx)
		diag.Kept++
	}

	return txs, diag
}

// cell reads the mapped column of a row; unmapped keys read as empty
func cell(row grid.Row, cols schema.ColumnMap, key schema.Key) grid.Cell {
	idx, ok := cols.Get(key)
	if !ok {
		return grid.Empty()
	}
	return row.At(idx)
}

func textOr(c grid.Cell, fallback string) string {
	if s, ok := normalizer.Text(c); ok {
		return s
	}
	return fallback
}

func buildRow(row grid.Row, cols schema.ColumnMap) (model.Transaction, model.DropReason, bool) {
	if len(row) == 0 || isBlank(row) {
		return model.Transaction{}, model.DropEmptyRow, false
	}

	date, _ := normalizer.Date(cell(row, cols, schema.Date))

	withdrawal := normalizer.Money(cell(row, cols, schema.Withdrawal))
	deposit := normalizer.Money(cell(row, cols, schema.Deposit))

	amount, direction := deposit, model.Deposit
	if withdrawal.IsPositive() {
		amount, direction = withdrawal, model.Withdrawal
	}

	valueDate, ok := normalizer.Date(cell(row, cols, schema.ValueDate))
	if !ok {
		valueDate = date
	}

	desc, _ := normalizer.Text(cell(row, cols, schema.Narration))

	tx := model.Transaction{
		Date:          date,
		ValueDate:     valueDate,
		TransactionNo: textOr(cell(row, cols, schema.TransactionNumber), model.NotAvailable),
		Desc:          desc,
		RefNo:         textOr(cell(row, cols, schema.RefNo), model.NotAvailable),
		Amount:        amount,
		Type:          direction,
		Balance:       normalizer.Money(cell(row, cols, schema.Balance)),
	}
	if !tx.Valid() {
		return model.Transaction{}, dropReason(tx), false
	}

	return tx, "", true
}

// dropReason names the first check an invalid transaction fails
func dropReason(tx model.Transaction) model.DropReason {
	switch {
	case !tx.Date.IsValid():
		return model.DropInvalidDate
	case !tx.Amount.IsPositive():
		return model.DropZeroAmount
	default:
		return model.DropMissingDescription
	}
}

// isBlank reports a row whose cells are all absent, as blank spreadsheet rows decode
func isBlank(row grid.Row) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
