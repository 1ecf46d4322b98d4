package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/schema"
)

func row(cells ...string) grid.Row {
	return grid.FromStrings([][]string{cells})[0]
}

func TestLocateHeader_Keyword(t *testing.T) {
	g := grid.Grid{
		row("HDFC BANK Ltd."),
		row("Account No : 50100012345678"),
		row(),
		row("Date", "Narration", "Chq./Ref.No.", "Withdrawal Amt.", "Deposit Amt.", "Closing Balance"),
		row("01/04/24", "UPI-PAYMENT", "0000", "100.00", "", "900.00"),
	}

	idx, err := LocateHeader(g)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestLocateHeader_KeywordCaseInsensitive(t *testing.T) {
	g := grid.Grid{row("statement"), row("TXN DATE", "PARTICULARS")}

	idx, err := LocateHeader(g)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestLocateHeader_FallbackToDateColumn(t *testing.T) {
	g := grid.Grid{
		row("Account statement"),
		row("Posting Date", "Remarks", "Amount"),
		row("27/03/2025", "ATM", "500"),
	}

	idx, err := LocateHeader(g)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestLocateHeader_FallbackOnlyProbesFirstFourRows(t *testing.T) {
	g := grid.Grid{row("a"), row("b"), row("c"), row("d"), row("Date", "Particulars")}

	_, err := LocateHeader(g)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
}

func TestLocateHeader_NotFound(t *testing.T) {
	tests := []struct {
		name string
		g    grid.Grid
	}{
		{"empty grid", grid.Grid{}},
		{"no keywords", grid.Grid{row("foo", "bar"), row("1", "2")}},
		{"blank rows", grid.Grid{{}, {grid.Empty()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LocateHeader(tt.g)
			assert.ErrorIs(t, err, ErrHeaderNotFound)
		})
	}
}

func TestResolveColumns(t *testing.T) {
	cols := ResolveColumns(row("Date", "Narration", "Chq./Ref.No.", "Value Dt", "Withdrawal Amt.", "Deposit Amt.", "Closing Balance"))

	want := schema.ColumnMap{
		schema.Date:       0,
		schema.Narration:  1,
		schema.RefNo:      2,
		schema.Withdrawal: 4,
		schema.Deposit:    5,
		schema.Balance:    6,
	}
	assert.Equal(t, want, cols)
}

func TestResolveColumns_FirstColumnWins(t *testing.T) {
	cols := ResolveColumns(row("Value Date", "Txn Date", "Description", "Debit", "Credit", "Balance"))

	idx, ok := cols.Get(schema.Date)
	require.True(t, ok)
	assert.Equal(t, 0, idx, "an earlier generic date column keeps the date key")

	idx, ok = cols.Get(schema.ValueDate)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestResolveColumns_SecondDateColumnBecomesValueDate(t *testing.T) {
	cols := ResolveColumns(row("Txn Date", "Value Date", "Description"))

	assert.Equal(t, 0, cols[schema.Date])
	assert.Equal(t, 1, cols[schema.ValueDate])
	assert.Equal(t, 2, cols[schema.Narration])
}

func TestResolveColumns_ContainmentMatch(t *testing.T) {
	cols := ResolveColumns(row("Tran Date", "Transaction Remarks", "Withdrawal Amount (INR )", "Deposit Amount (INR )", "Balance (INR )"))

	assert.Equal(t, 0, cols[schema.Date])
	assert.Equal(t, 1, cols[schema.Narration])
	assert.Equal(t, 2, cols[schema.Withdrawal])
	assert.Equal(t, 3, cols[schema.Deposit])
	assert.Equal(t, 4, cols[schema.Balance])
}

func TestResolveColumns_EachKeyHasOneIndex(t *testing.T) {
	cols := ResolveColumns(row("Balance", "Narration", "Balance", "Narration"))

	assert.Equal(t, 0, cols[schema.Balance])
	assert.Equal(t, 1, cols[schema.Narration])
	assert.Len(t, cols, 2)
}

func TestResolveColumns_SkipsEmptyCells(t *testing.T) {
	header := grid.Row{grid.Empty(), grid.Text("Date"), grid.Number(7)}

	cols := ResolveColumns(header)
	assert.Equal(t, schema.ColumnMap{schema.Date: 1}, cols)
}

func TestSniff(t *testing.T) {
	t.Run("resolves frame", func(t *testing.T) {
		g := grid.Grid{row("Date", "Narration", "Withdrawal", "Deposit", "Balance")}

		frame, err := Sniff(g)
		require.NoError(t, err)
		assert.Equal(t, 0, frame.HeaderRow)
		assert.Equal(t, 4, frame.Columns[schema.Balance])
	})

	t.Run("header without date column", func(t *testing.T) {
		g := grid.Grid{row("Narration", "Debit", "Credit", "Balance")}

		_, err := Sniff(g)
		assert.ErrorIs(t, err, ErrDateColumnMissing)
	})

	t.Run("no header", func(t *testing.T) {
		_, err := Sniff(grid.Grid{row("nothing here")})
		assert.ErrorIs(t, err, ErrHeaderNotFound)
	})
}
