package bank

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
)

func TestParse(t *testing.T) {
	tests := []struct {
		selector string
		want     ID
		display  string
	}{
		{"hdfc", HDFC, "HDFC"},
		{"  HDFC ", HDFC, "HDFC"},
		{"hdfc_bank", HDFC, "HDFC BANK"},
		{"bob", BOB, "BOB"},
		{"Bank_of_Baroda", BOB, "BANK OF BARODA"},
		{"bank of baroda", BOB, "BANK OF BARODA"},
		{"iob", IOB, "IOB"},
		{"indian_overseas_bank", IOB, "INDIAN OVERSEAS BANK"},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sel, err := Parse(tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.ID)
			assert.Equal(t, tt.display, sel.DisplayName())
		})
	}
}

func TestParse_Unsupported(t *testing.T) {
	tests := []struct {
		selector   string
		suggestion string
	}{
		{"sbi_bank_of_india_xyz", ""},
		{"xyz", ""},
		{"hdfcc", "hdfc"},
		{"barod", "baroda"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			_, err := Parse(tt.selector)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedBank)

			var ube *UnsupportedBankError
			require.True(t, errors.As(err, &ube))
			assert.Equal(t, tt.selector, ube.Selector)
			assert.Equal(t, tt.suggestion, ube.Suggestion)
		})
	}
}

func TestUnsupportedBankError_Message(t *testing.T) {
	err := &UnsupportedBankError{Selector: "hdfcc", Suggestion: "hdfc"}
	assert.Equal(t, `unsupported bank selected: "hdfcc" (did you mean "hdfc"?)`, err.Error())
}

func TestDetect(t *testing.T) {
	g := grid.Grid{
		{grid.Text("Bank of Baroda"), grid.Text("IFSC"), grid.Text("BARB0UDHNAX")},
		{grid.Text("NEFT-HDFC0000001-SALARY")},
	}

	assert.Equal(t, []ID{HDFC, BOB}, Detect(g))
	assert.Empty(t, Detect(grid.Grid{{grid.Text("plain text")}}))
}

func TestCheckContent(t *testing.T) {
	hdfc := grid.Grid{{grid.Text("HDFC BANK Ltd.")}, {grid.Text("Statement of account")}}

	assert.NoError(t, CheckContent(HDFC, hdfc))

	err := CheckContent(IOB, hdfc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBankMismatch)

	var me *MismatchError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, IOB, me.Selected)
	assert.Equal(t, []ID{HDFC}, me.Detected)

	t.Run("other banks mentioned in narrations are tolerated", func(t *testing.T) {
		bob := grid.Grid{{grid.Text("BARB0UDHNAX")}, {grid.Text("IMPS/HDFC/transfer")}}
		assert.NoError(t, CheckContent(BOB, bob))
	})

	t.Run("no markers", func(t *testing.T) {
		assert.ErrorIs(t, CheckContent(BOB, grid.Grid{}), ErrBankMismatch)
	})
}
