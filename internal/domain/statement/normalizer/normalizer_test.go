package normalizer

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
)

func TestDate(t *testing.T) {
	want := civil.Date{Year: 2025, Month: time.March, Day: 27}

	tests := []struct {
		name string
		cell grid.Cell
		want civil.Date
		ok   bool
	}{
		{"written month", grid.Text("27-Mar-2025"), want, true},
		{"day first slash", grid.Text("27/03/2025"), want, true},
		{"day first dash", grid.Text("27-03-2025"), want, true},
		{"serial number", grid.Number(45743), want, true},
		{"serial with time fraction", grid.Number(45743.75), want, true},
		{"serial as text", grid.Text("45743"), want, true},
		{"iso", grid.Text("2025-03-27"), want, true},
		{"spaced month", grid.Text("27 Mar 2025"), want, true},
		{"two digit year", grid.Text("27/03/25"), want, true},
		{"short day and month", grid.Text("1/4/24"), civil.Date{Year: 2024, Month: time.April, Day: 1}, true},
		{"textual month in split", grid.Text("27/mar/2025"), want, true},
		{"date cell", grid.Date(time.Date(2025, 3, 27, 0, 0, 0, 0, time.UTC)), want, true},
		{"serial epoch check", grid.Number(30001), civil.Date{Year: 1982, Month: time.February, Day: 19}, true},
		{"small number", grid.Number(500), civil.Date{}, false},
		{"small number text", grid.Text("1000"), civil.Date{}, false},
		{"empty", grid.Empty(), civil.Date{}, false},
		{"garbage", grid.Text("opening balance"), civil.Date{}, false},
		{"invalid day", grid.Text("31/02/2025"), civil.Date{}, false},
		{"invalid month", grid.Text("12/13/2025"), civil.Date{}, false},
		{"too many parts", grid.Text("27/03/2025/1"), civil.Date{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDate_EquivalentForms(t *testing.T) {
	a, _ := Date(grid.Text("27-Mar-2025"))
	b, _ := Date(grid.Text("27/03/2025"))
	c, _ := Date(grid.Number(45743))

	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestMoney(t *testing.T) {
	tests := []struct {
		name string
		cell grid.Cell
		want string
	}{
		{"absent", grid.Empty(), "0"},
		{"thousands separator", grid.Text("1,234.50"), "1234.5"},
		{"parenthesised negative", grid.Text("(500.00)"), "500"},
		{"minus sign", grid.Text("-250.75"), "250.75"},
		{"currency prefix", grid.Text("INR 12,00,000.00"), "1200000"},
		{"rupee symbol", grid.Text("₹ 99.99"), "99.99"},
		{"trailing Dr", grid.Text("1,000.00 Dr"), "1000"},
		{"unparseable", grid.Text("n/a"), "0"},
		{"lone minus", grid.Text("-"), "0"},
		{"number cell", grid.Number(-42.5), "42.5"},
		{"double dot", grid.Text("12.5.3"), "12.5"},
		{"leading dot", grid.Text(".5"), "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money(tt.cell)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestMoney_NeverNegative(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 200; i++ {
		v := faker.Float64Range(-1_000_000, 1_000_000)
		text := faker.RandomString([]string{"", "-", "(", "Rs. "}) + decimal.NewFromFloat(v).StringFixed(2)

		assert.False(t, Money(grid.Text(text)).IsNegative(), text)
		assert.False(t, Money(grid.Number(v)).IsNegative())
	}
}

func TestText(t *testing.T) {
	s, ok := Text(grid.Text("  UPI-123  "))
	assert.True(t, ok)
	assert.Equal(t, "UPI-123", s)

	_, ok = Text(grid.Empty())
	assert.False(t, ok)

	s, ok = Text(grid.Number(12))
	assert.True(t, ok)
	assert.Equal(t, "12", s)
}
