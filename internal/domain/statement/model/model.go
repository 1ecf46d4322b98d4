// Package model defines the normalized statement record.
package model

import (
	"encoding/json"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-processor/pkg/money"
)

// NotAvailable fills optional transaction identifiers missing from the sheet
const NotAvailable = "N/A"

// Direction says which column an amount was read from
type Direction string

const (
	Withdrawal Direction = "withdrawal"
	Deposit    Direction = "deposit"
)

// Metadata is the statement header information extracted from preamble rows.
// Every field except BankName is best effort and may be empty.
type Metadata struct {
	AccountNumber      string      `json:"account_number"`
	AccountHolderName  string      `json:"account_holder_name"`
	BankName           string      `json:"bank_name"`
	IFSC               string      `json:"ifsc"`
	BranchName         string      `json:"branch_name"`
	BranchCity         string      `json:"branch_city"`
	BranchState        string      `json:"branch_state"`
	StatementFrom      *civil.Date `json:"statement_from,omitempty"`
	StatementTo        *civil.Date `json:"statement_to,omitempty"`
	JointAccountHolder string      `json:"joint_account_holder,omitempty"`
	MICRCode           string      `json:"micr_code,omitempty"`
}

// SetPeriod records the statement period
func (m *Metadata) SetPeriod(from, to civil.Date) {
	m.StatementFrom = &from
	m.StatementTo = &to
}

// Transaction is one validated statement line
type Transaction struct {
	Date          civil.Date      `json:"date"`
	ValueDate     civil.Date      `json:"value_date"`
	TransactionNo string          `json:"transaction_no"`
	Desc          string          `json:"desc"`
	RefNo         string          `json:"ref_no"`
	Amount        decimal.Decimal `json:"amount"`
	Type          Direction       `json:"type"`
	Balance       decimal.Decimal `json:"balance"`
}

// MarshalJSON writes amount and balance as JSON numbers
func (t Transaction) MarshalJSON() ([]byte, error) {
	type wire struct {
		Date          civil.Date  `json:"date"`
		ValueDate     civil.Date  `json:"value_date"`
		TransactionNo string      `json:"transaction_no"`
		Desc          string      `json:"desc"`
		RefNo         string      `json:"ref_no"`
		Amount        json.Number `json:"amount"`
		Type          Direction   `json:"type"`
		Balance       json.Number `json:"balance"`
	}
	return json.Marshal(wire{
		Date:          t.Date,
		ValueDate:     t.ValueDate,
		TransactionNo: t.TransactionNo,
		Desc:          t.Desc,
		RefNo:         t.RefNo,
		Amount:        json.Number(t.Amount.String()),
		Type:          t.Type,
		Balance:       json.Number(t.Balance.String()),
	})
}

// Valid reports whether the transaction may be emitted
func (t Transaction) Valid() bool {
	return t.Date.IsValid() &&
		t.Desc != "" &&
		t.Amount.IsPositive() &&
		(t.Type == Withdrawal || t.Type == Deposit)
}

// DropReason names why a data row produced no transaction
type DropReason string

const (
	DropEmptyRow           DropReason = "empty_row"
	DropInvalidDate        DropReason = "invalid_date"
	DropZeroAmount         DropReason = "zero_amount"
	DropMissingDescription DropReason = "missing_description"
)

// Diagnostics counts how data rows were handled
type Diagnostics struct {
	RowsScanned int                `json:"rows_scanned"`
	Kept        int                `json:"kept"`
	Dropped     map[DropReason]int `json:"dropped"`
}

// NewDiagnostics returns zeroed diagnostics
func NewDiagnostics() Diagnostics {
	return Diagnostics{Dropped: map[DropReason]int{}}
}

// Drop records a dropped row
func (d *Diagnostics) Drop(reason DropReason) {
	if d.Dropped == nil {
		d.Dropped = map[DropReason]int{}
	}
	d.Dropped[reason]++
}

// DroppedTotal is the number of rows dropped for any reason
func (d Diagnostics) DroppedTotal() int {
	total := 0
	for _, n := range d.Dropped {
		total += n
	}
	return total
}

// Result is the normalized statement
type Result struct {
	Meta         Metadata      `json:"meta"`
	Transactions []Transaction `json:"data"`
	Diagnostics  Diagnostics   `json:"diagnostics"`
}

// Summary aggregates the transactions of a statement
type Summary struct {
	Count          int             `json:"count"`
	Withdrawals    int             `json:"withdrawals"`
	Deposits       int             `json:"deposits"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	TotalDeposited decimal.Decimal `json:"total_deposited"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// Net is deposits minus withdrawals
func (s Summary) Net() decimal.Decimal {
	return s.TotalDeposited.Sub(s.TotalWithdrawn)
}

// Summary totals the transactions in statement order.
// Totals are summed in paise; the opening balance is backed out of the first
// transaction.
func (r *Result) Summary() Summary {
	s := Summary{
		Count:          len(r.Transactions),
		OpeningBalance: decimal.Zero,
		ClosingBalance: decimal.Zero,
	}
	var withdrawn, deposited []decimal.Decimal
	for _, tx := range r.Transactions {
		switch tx.Type {
		case Withdrawal:
			s.Withdrawals++
			withdrawn = append(withdrawn, tx.Amount)
		case Deposit:
			s.Deposits++
			deposited = append(deposited, tx.Amount)
		}
	}
	s.TotalWithdrawn = money.Sum(money.INR, withdrawn...).ToDecimal()
	s.TotalDeposited = money.Sum(money.INR, deposited...).ToDecimal()

	if n := len(r.Transactions); n > 0 {
		first := r.Transactions[0]
		if first.Type == Withdrawal {
			s.OpeningBalance = first.Balance.Add(first.Amount)
		} else {
			s.OpeningBalance = first.Balance.Sub(first.Amount)
		}
		s.ClosingBalance = r.Transactions[n-1].Balance
	}
	return s
}
