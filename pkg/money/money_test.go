package money

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewFromDecimal(t *testing.T) {
	tests := []struct {
		in    string
		minor int64
	}{
		{"1234.56", 123456},
		{"0.005", 1},
		{"-0.005", -1},
		{"500", 50000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := NewFromDecimal(decimal.RequireFromString(tt.in), INR)
			assert.Equal(t, tt.minor, m.m.Amount())
			assert.Equal(t, INR, m.m.Currency().Code)
		})
	}
}

func TestNewFromDecimal_UnknownCurrencyFallsBackToINR(t *testing.T) {
	m := NewFromDecimal(decimal.NewFromInt(1), "XXX-NOPE")
	assert.Equal(t, INR, m.m.Currency().Code)
}

func TestSum(t *testing.T) {
	faker := gofakeit.New(11)

	var amounts []decimal.Decimal
	want := decimal.Zero
	for i := 0; i < 100; i++ {
		d := decimal.NewFromFloat(faker.Price(0, 50000)).Round(2)
		amounts = append(amounts, d)
		want = want.Add(d)
	}

	got := Sum(INR, amounts...)
	assert.True(t, want.Equal(got.ToDecimal()), "got %s want %s", got.ToDecimal(), want)
}

func TestSum_RoundsEachAmountToPaise(t *testing.T) {
	got := Sum(INR, decimal.RequireFromString("0.005"), decimal.RequireFromString("0.005"))
	assert.True(t, decimal.RequireFromString("0.02").Equal(got.ToDecimal()))
	assert.True(t, Sum(INR).ToDecimal().IsZero())
}

func TestDisplay(t *testing.T) {
	assert.Contains(t, New(100050, INR).Display(), "1,000.50")
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	_, err := New(1, INR).Add(New(1, "USD"))
	assert.Error(t, err)
}
