package bank

import (
	"fmt"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
)

// markers are lower-case phrases that identify a bank in statement text
var markers = []struct {
	bank   ID
	phrase string
}{
	{HDFC, "hdfc"},
	{BOB, "barb"},
	{BOB, "bank of baroda"},
	{IOB, "iob"},
	{IOB, "indian overseas"},
}

var markerMatcher = func() *ahocorasick.Matcher {
	patterns := make([]string, len(markers))
	for i, m := range markers {
		patterns[i] = m.phrase
	}
	return ahocorasick.NewStringMatcher(patterns)
}()

// Detect returns the banks whose markers appear anywhere in the grid,
// in Supported order
func Detect(g grid.Grid) []ID {
	content := strings.ToLower(grid.JoinText(g))

	seen := map[ID]bool{}
	for _, idx := range markerMatcher.Match([]byte(content)) {
		seen[markers[idx].bank] = true
	}

	var found []ID
	for _, id := range Supported() {
		if seen[id] {
			found = append(found, id)
		}
	}
	return found
}

// MismatchError reports a statement that does not mention the selected bank
type MismatchError struct {
	Selected ID
	Detected []ID
}

func (e *MismatchError) Error() string {
	if len(e.Detected) == 0 {
		return fmt.Sprintf("%s: selected %s, no bank markers found", ErrBankMismatch, e.Selected)
	}
	return fmt.Sprintf("%s: selected %s, found %v", ErrBankMismatch, e.Selected, e.Detected)
}

func (e *MismatchError) Unwrap() error {
	return ErrBankMismatch
}

// CheckContent fails with ErrBankMismatch when the grid carries none of the
// selected bank's markers. Mentions of other banks (a transfer narration, say)
// are tolerated as long as the selected bank is present.
func CheckContent(id ID, g grid.Grid) error {
	detected := Detect(g)
	for _, d := range detected {
		if d == id {
			return nil
		}
	}
	return &MismatchError{Selected: id, Detected: detected}
}
