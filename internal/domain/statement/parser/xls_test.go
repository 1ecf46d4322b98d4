package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/processor"
)

// iob_legacy.xls is a BIFF8 workbook whose dates are RK cells on built-in
// format 14 and whose amounts use the custom format "#,##0.00", stored as
// NUMBER, RK, MULRK and FORMULA records
func readLegacyFixture(t *testing.T) grid.Grid {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "iob_legacy.xls"))
	require.NoError(t, err)

	g, err := Decode(data, "statement.xls")
	require.NoError(t, err)
	return g
}

func TestReadGrid_LegacyXLS(t *testing.T) {
	g := readLegacyFixture(t)
	require.Len(t, g, 6)

	assert.Equal(t, "INDIAN OVERSEAS BANK", g[0].At(0).String())
	assert.Equal(t, "Narration", g[2].At(1).String())
	assert.Equal(t, "ATM WDL", g[3].At(1).String())
	assert.True(t, g[3].At(3).IsEmpty())

	tests := []struct {
		name     string
		row, col int
		want     float64
	}{
		{"date on built-in format", 3, 0, 45743},
		{"number record", 3, 2, 500},
		{"rk hundredths on custom format", 3, 4, 1000.25},
		{"mulrk integer", 4, 3, 25000},
		{"mulrk hundredths", 4, 4, 26000.25},
		{"plain number", 5, 3, 12.5},
		{"formula result", 5, 4, 26012.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := g[tt.row].At(tt.col)
			got, ok := c.Float()
			require.True(t, ok, "cell %d,%d decoded as %q", tt.row, tt.col, c.String())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadGrid_LegacyXLSThroughEngine(t *testing.T) {
	res, err := processor.Process("iob", readLegacyFixture(t))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 3)

	want := []struct {
		date, desc, amount, balance string
		typ                         model.Direction
	}{
		{"2025-03-27", "ATM WDL", "500", "1000.25", model.Withdrawal},
		{"2025-03-28", "SALARY", "25000", "26000.25", model.Deposit},
		{"2025-03-29", "INTEREST", "12.5", "26012.75", model.Deposit},
	}
	for i, w := range want {
		tx := res.Transactions[i]
		assert.Equal(t, w.date, tx.Date.String())
		assert.Equal(t, w.desc, tx.Desc)
		assert.Equal(t, w.amount, tx.Amount.String())
		assert.Equal(t, w.balance, tx.Balance.String())
		assert.Equal(t, w.typ, tx.Type)
	}
	assert.Zero(t, res.Diagnostics.Dropped[model.DropInvalidDate])
}

func TestDecodeRK(t *testing.T) {
	tests := []struct {
		name string
		rk   uint32
		want float64
	}{
		{"integer", 45743<<2 | 0x02, 45743},
		{"integer hundredths", 100025<<2 | 0x03, 1000.25},
		{"negative integer", uint32(int32(-5)<<2) | 0x02, -5},
		{"double", 0x3FF80000, 1.5},
		{"double hundredths", 0x3FF80000 | 0x01, 0.015},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, decodeRK(tt.rk), 1e-12)
		})
	}
}

func TestDecodeString(t *testing.T) {
	assert.Equal(t, "SALARY", decodeString([]byte{6, 0, 0, 'S', 'A', 'L', 'A', 'R', 'Y'}))
	assert.Equal(t, "₹10", decodeString([]byte{3, 0, 1, 0xB9, 0x20, '1', 0, '0', 0}))
	assert.Empty(t, decodeString([]byte{1}))
}

func TestOverlayGrowsRows(t *testing.T) {
	g := grid.Grid{{grid.Text("a")}}
	g = overlay(g, map[cellRef]grid.Cell{{row: 2, col: 3}: grid.Number(7)})

	require.Len(t, g, 3)
	require.Len(t, g[2], 4)
	v, ok := g[2].At(3).Float()
	require.True(t, ok)
	assert.Equal(t, 7.0, v)
	assert.Equal(t, "a", g[0].At(0).String())
}
