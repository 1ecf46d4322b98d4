// Package bank identifies the issuing bank of a statement and extracts its
// preamble metadata with per-bank rules.
package bank

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	ErrUnsupportedBank = errors.New("unsupported bank selected")
	ErrBankMismatch    = errors.New("the uploaded document does not appear to match the selected bank")
)

// ID is a supported bank profile
type ID string

const (
	HDFC ID = "hdfc"
	BOB  ID = "bob"
	IOB  ID = "iob"
)

// Supported lists the bank profiles in detection order
func Supported() []ID {
	return []ID{HDFC, BOB, IOB}
}

// selectors maps accepted selector spellings to profiles
var selectors = map[string]ID{
	"hdfc":                 HDFC,
	"hdfc_bank":            HDFC,
	"bob":                  BOB,
	"baroda":               BOB,
	"bank_of_baroda":       BOB,
	"iob":                  IOB,
	"indian_overseas_bank": IOB,
}

// Selection is a validated bank selector
type Selection struct {
	ID       ID
	Selector string
}

// DisplayName is the selector with underscores replaced by spaces, upper-cased
func (s Selection) DisplayName() string {
	return DisplayName(s.Selector)
}

// DisplayName renders a raw selector as a bank name
func DisplayName(selector string) string {
	return strings.ToUpper(strings.Join(strings.Split(strings.TrimSpace(selector), "_"), " "))
}

// UnsupportedBankError reports a selector outside the supported set
type UnsupportedBankError struct {
	Selector   string
	Suggestion string
}

func (e *UnsupportedBankError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %q (did you mean %q?)", ErrUnsupportedBank, e.Selector, e.Suggestion)
	}
	return fmt.Sprintf("%s: %q", ErrUnsupportedBank, e.Selector)
}

func (e *UnsupportedBankError) Unwrap() error {
	return ErrUnsupportedBank
}

// Parse validates a bank selector. Matching is case-insensitive and ignores
// surrounding whitespace.
func Parse(selector string) (Selection, error) {
	key := strings.ToLower(strings.TrimSpace(selector))
	key = strings.Join(strings.Fields(key), "_")

	id, ok := selectors[key]
	if !ok {
		return Selection{}, &UnsupportedBankError{Selector: selector, Suggestion: suggest(key)}
	}
	return Selection{ID: id, Selector: strings.TrimSpace(selector)}, nil
}

// maxSuggestDistance bounds how far a typo may be from a known selector
const maxSuggestDistance = 2

// suggest returns the closest known selector, or "" when nothing is close.
// Abbreviations that are a subsequence of a selector win over typos.
func suggest(key string) string {
	if len(key) < 2 {
		return ""
	}

	candidates := make([]string, 0, len(selectors))
	for k := range selectors {
		candidates = append(candidates, k)
	}
	sort.Strings(candidates)

	if ranks := fuzzy.RankFindFold(key, candidates); len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(key, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
