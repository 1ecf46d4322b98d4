package model

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(dir Direction, amount, balance string) Transaction {
	d := civil.Date{Year: 2025, Month: time.March, Day: 27}
	return Transaction{
		Date:          d,
		ValueDate:     d,
		TransactionNo: NotAvailable,
		Desc:          "ATM WDL",
		RefNo:         NotAvailable,
		Amount:        decimal.RequireFromString(amount),
		Type:          dir,
		Balance:       decimal.RequireFromString(balance),
	}
}

func TestTransaction_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(tx(Withdrawal, "500", "1000"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"date": "2025-03-27",
		"value_date": "2025-03-27",
		"transaction_no": "N/A",
		"desc": "ATM WDL",
		"ref_no": "N/A",
		"amount": 500,
		"type": "withdrawal",
		"balance": 1000
	}`, string(b))
}

func TestTransaction_Valid(t *testing.T) {
	ok := tx(Deposit, "1.5", "0")
	assert.True(t, ok.Valid(), "zero balance is allowed")

	noDesc := ok
	noDesc.Desc = ""
	assert.False(t, noDesc.Valid())

	zero := tx(Deposit, "0", "10")
	assert.False(t, zero.Valid())

	noDate := ok
	noDate.Date = civil.Date{}
	assert.False(t, noDate.Valid())
}

func TestMetadata_JSONOmitsOptionalFields(t *testing.T) {
	m := Metadata{BankName: "HDFC"}
	b, err := json.Marshal(m)
	require.NoError(t, err)

	assert.NotContains(t, string(b), "statement_from")
	assert.NotContains(t, string(b), "micr_code")
	assert.Contains(t, string(b), `"account_number":""`)

	m.SetPeriod(civil.Date{Year: 2024, Month: 4, Day: 1}, civil.Date{Year: 2025, Month: 3, Day: 31})
	b, err = json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"statement_from":"2024-04-01"`)
	assert.Contains(t, string(b), `"statement_to":"2025-03-31"`)
}

func TestResult_Summary(t *testing.T) {
	r := &Result{Transactions: []Transaction{
		tx(Withdrawal, "500", "1000"),
		tx(Deposit, "250.50", "1250.50"),
		tx(Withdrawal, "50", "1200.50"),
	}}

	s := r.Summary()
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2, s.Withdrawals)
	assert.Equal(t, 1, s.Deposits)
	assert.True(t, decimal.RequireFromString("550").Equal(s.TotalWithdrawn))
	assert.True(t, decimal.RequireFromString("250.50").Equal(s.TotalDeposited))
	assert.True(t, decimal.RequireFromString("1500").Equal(s.OpeningBalance))
	assert.True(t, decimal.RequireFromString("1200.50").Equal(s.ClosingBalance))
	assert.True(t, decimal.RequireFromString("-299.50").Equal(s.Net()))
}

func TestResult_SummaryEmpty(t *testing.T) {
	s := (&Result{}).Summary()
	assert.Zero(t, s.Count)
	assert.True(t, s.OpeningBalance.IsZero())
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	d.Drop(DropInvalidDate)
	d.Drop(DropInvalidDate)
	d.Drop(DropZeroAmount)

	assert.Equal(t, 2, d.Dropped[DropInvalidDate])
	assert.Equal(t, 3, d.DroppedTotal())
}

func TestResult_SummaryTotalsInPaise(t *testing.T) {
	r := &Result{Transactions: []Transaction{
		tx(Deposit, "0.105", "0.105"),
		tx(Deposit, "0.105", "0.21"),
	}}

	s := r.Summary()
	assert.True(t, decimal.RequireFromString("0.22").Equal(s.TotalDeposited), s.TotalDeposited.String())
	assert.True(t, s.TotalWithdrawn.IsZero())
}
