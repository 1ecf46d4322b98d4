package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
)

// BOB exports place values at fixed columns relative to their labels
const (
	bobAccountNumberCol = 22
	bobBranchNameCol    = 5
	bobIFSCOffset       = 4
	bobMICROffset       = 5
)

var bobRules = ruleSet{
	rules: []Rule{
		bobHolder,
		bobJointHolder,
		bobAccountNumber,
		bobIFSC,
		bobBranchName,
		bobMICR,
		bobPeriod,
		placeRule,
	},
}

var accountDigitsRe = regexp.MustCompile(`\d{9,}`)

func bobHolder(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(collapseSpaces(c.Text), "main account holder name") {
		return meta, false
	}
	v := afterColon(c.Text)
	if v == "" {
		v = c.NextValue()
	}
	if v != "" {
		meta.AccountHolderName = v
	}
	return meta, true
}

func bobJointHolder(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(collapseSpaces(c.Text), "joint account holder name") {
		return meta, false
	}
	if meta.JointAccountHolder == "" {
		meta.JointAccountHolder = afterColon(c.Text)
	}
	return meta, true
}

func bobAccountNumber(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "account no") {
		return meta, false
	}
	if v := accountDigitsRe.FindString(c.At(bobAccountNumberCol)); v != "" {
		meta.AccountNumber = v
		return meta, true
	}
	if v := accountDigitsRe.FindString(c.NextValue()); v != "" {
		meta.AccountNumber = v
	}
	return meta, true
}

func bobIFSC(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "ifsc") {
		return meta, false
	}
	if v := ifscCodeRe.FindString(c.Offset(bobIFSCOffset)); v != "" {
		meta.IFSC = strings.ToUpper(v)
	}
	return meta, true
}

func bobBranchName(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "branch name") {
		return meta, false
	}
	if v := c.At(bobBranchNameCol); v != "" && bobBranchNameCol != c.Col {
		meta.BranchName = v
	}
	return meta, true
}

func bobMICR(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "micr") {
		return meta, false
	}
	if v := c.Offset(bobMICROffset); v != "" {
		meta.MICRCode = v
	}
	return meta, true
}

func bobPeriod(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	if !strings.Contains(c.Lower, "statement period") && !strings.Contains(c.Lower, "statement of transactions") {
		return meta, false
	}
	return withPeriod(c.Text, meta), true
}
