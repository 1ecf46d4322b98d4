package normalizer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
)

var (
	nonNumericRe = regexp.MustCompile(`[^\d.\-]`)
	// leadingNumberRe takes the longest numeric prefix, so "12.5.3" reads as 12.5
	leadingNumberRe = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// Money normalizes a cell into a non-negative amount.
// Absent, empty or unparseable cells yield zero. The sign of the numeral is
// dropped; direction comes from the column the amount was read from.
func Money(c grid.Cell) decimal.Decimal {
	switch c.Kind() {
	case grid.KindNumber:
		f, _ := c.Float()
		d := decimal.NewFromFloat(f)
		return d.Abs()
	case grid.KindText:
		return ParseMoney(c.String())
	default:
		return decimal.Zero
	}
}

// ParseMoney applies the text rules of Money to s
func ParseMoney(s string) decimal.Decimal {
	s = strings.ReplaceAll(s, ",", "")
	s = nonNumericRe.ReplaceAllString(s, "")

	num := leadingNumberRe.FindString(s)
	if num == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// Text returns the trimmed string form of a cell and whether it is non-empty
func Text(c grid.Cell) (string, bool) {
	if c.IsEmpty() {
		return "", false
	}
	s := strings.TrimSpace(c.String())
	return s, s != ""
}
