// Package export writes normalized transactions in flat formats.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
)

// Row is the CSV shape of a transaction
type Row struct {
	Date          string `csv:"date"`
	ValueDate     string `csv:"value_date"`
	TransactionNo string `csv:"transaction_no"`
	Desc          string `csv:"desc"`
	RefNo         string `csv:"ref_no"`
	Amount        string `csv:"amount"`
	Type          string `csv:"type"`
	Balance       string `csv:"balance"`
}

// Rows converts transactions to CSV rows, keeping statement order
func Rows(txs []model.Transaction) []*Row {
	rows := make([]*Row, len(txs))
	for i, tx := range txs {
		rows[i] = &Row{
			Date:          tx.Date.String(),
			ValueDate:     tx.ValueDate.String(),
			TransactionNo: tx.TransactionNo,
			Desc:          tx.Desc,
			RefNo:         tx.RefNo,
			Amount:        tx.Amount.StringFixed(2),
			Type:          string(tx.Type),
			Balance:       tx.Balance.StringFixed(2),
		}
	}
	return rows
}

// WriteCSV writes the transactions with a header line
func WriteCSV(w io.Writer, txs []model.Transaction) error {
	if err := gocsv.Marshal(Rows(txs), w); err != nil {
		return fmt.Errorf("failed to write transactions: %w", err)
	}
	return nil
}
