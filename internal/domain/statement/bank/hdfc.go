package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
)

// HDFC preambles put each field in its own cell as "Label : value".
// Only the first recognising rule applies to a cell; "Statement From" must not
// be read as a state line.
var hdfcRules = ruleSet{
	firstMatchOnly: true,
	rules: []Rule{
		hdfcHolder,
		hdfcAccountNumber,
		hdfcIFSC,
		hdfcBranch,
		hdfcPeriod,
		hdfcCity,
		hdfcState,
	},
}

var (
	honorificRe     = regexp.MustCompile(`(?i)^(mrs|mr|ms|m/s)\b\.?\s*`)
	hdfcAccountNoRe = regexp.MustCompile(`(?i)account\s+(?:no\.?|number)\s*[:\-]?\s*(\d{10,})`)
	hdfcIFSCRe      = regexp.MustCompile(`(?i)ifsc(?:\s*code)?\s*[:\-]?\s*([A-Z]{4}0[A-Z0-9]{6})`)
)

func hdfcHolder(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	loc := honorificRe.FindStringIndex(c.Text)
	if loc == nil {
		return meta, false
	}
	if name := strings.TrimSpace(c.Text[loc[1]:]); name != "" {
		meta.AccountHolderName = name
	}
	return meta, true
}

func hdfcAccountNumber(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "account number") && !strings.Contains(c.Lower, "account no") {
		return meta, false
	}
	if m := hdfcAccountNoRe.FindStringSubmatch(c.Text); m != nil {
		meta.AccountNumber = m[1]
	}
	return meta, true
}

func hdfcIFSC(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "ifsc") {
		return meta, false
	}
	if m := hdfcIFSCRe.FindStringSubmatch(c.Text); m != nil {
		meta.IFSC = strings.ToUpper(m[1])
	}
	return meta, true
}

func hdfcBranch(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "branch") {
		return meta, false
	}
	if v := afterColon(c.Text); v != "" {
		meta.BranchName = v
	}
	return meta, true
}

func hdfcPeriod(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.HasPrefix(c.Lower, "statement") {
		return meta, false
	}
	return withPeriod(c.Text, meta), true
}

func hdfcCity(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.HasPrefix(c.Lower, "city") {
		return meta, false
	}
	if v := afterColon(c.Text); v != "" {
		meta.BranchCity = v
	}
	return meta, true
}

func hdfcState(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.HasPrefix(c.Lower, "state") {
		return meta, false
	}
	if v := afterColon(c.Text); v != "" {
		meta.BranchState = v
	}
	return meta, true
}
