package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
)

// IOB preambles are free-text lines; the holder name sits on the line after
// the account number.
var iobRules = ruleSet{
	rules: []Rule{
		iobAccountNumber,
		iobHolder,
		iobIFSC,
		iobBranch,
		placeRule,
		iobPeriod,
	},
}

var (
	iobAccountNoRe = regexp.MustCompile(`(?i)account\s+number\s*[:\-]?\s*(\d{10,})`)
	iobIFSCRe      = regexp.MustCompile(`(?i)ifsc\s*code\s*[:\-]?\s*([A-Z]{4}0[A-Z0-9]{6})`)
	iobHolderRe    = regexp.MustCompile(`(?i)^(?:account\s+holder|customer)\s*name\s*[:\-]`)
)

func iobAccountNumber(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	m := iobAccountNoRe.FindStringSubmatch(c.Text)
	if m == nil {
		return meta, false
	}
	meta.AccountNumber = m[1]

	if meta.AccountHolderName == "" {
		if name := holderAfter(c); name != "" {
			meta.AccountHolderName = strings.ToUpper(name)
		}
	}
	return meta, true
}

// holderAfter takes the first cell of the next non-empty preamble row when it
// reads like a name rather than another labelled field
func holderAfter(c Cursor) string {
	for i := c.Row + 1; i < len(c.Rows); i++ {
		next := Cursor{Rows: c.Rows, Row: i, Col: -1}
		v := next.NextValue()
		if v == "" {
			continue
		}
		if strings.ContainsAny(v, ":0123456789") {
			return ""
		}
		return v
	}
	return ""
}

// iobHolder reads an explicitly labelled holder name
func iobHolder(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !iobHolderRe.MatchString(c.Text) {
		return meta, false
	}
	v := afterColon(c.Text)
	if v == "" {
		v = c.NextValue()
	}
	if v != "" {
		meta.AccountHolderName = strings.ToUpper(v)
	}
	return meta, true
}

func iobIFSC(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "ifsc") {
		return meta, false
	}
	if m := iobIFSCRe.FindStringSubmatch(c.Text); m != nil {
		meta.IFSC = strings.ToUpper(m[1])
	}
	return meta, true
}

func iobBranch(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.HasPrefix(c.Lower, "branch") {
		return meta, false
	}
	if v := afterColon(c.Text); v != "" {
		meta.BranchName = strings.ToUpper(v)
	}
	return meta, true
}

func iobPeriod(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "statement for the period") {
		return meta, false
	}
	return withPeriod(c.Text, meta), true
}
