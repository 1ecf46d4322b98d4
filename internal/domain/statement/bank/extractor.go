package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/normalizer"
)

// Extractor fills statement metadata from the preamble rows of one bank's layout
type Extractor interface {
	Extract(preamble grid.Grid, meta model.Metadata) model.Metadata
}

// Cursor points at one non-empty preamble cell
type Cursor struct {
	Rows  grid.Grid
	Row   int
	Col   int
	Text  string
	Lower string
}

// Cells returns the row the cursor is on
func (c Cursor) Cells() grid.Row {
	return c.Rows.At(c.Row)
}

// At returns the trimmed text of column i on the cursor's row
func (c Cursor) At(i int) string {
	return strings.TrimSpace(c.Cells().At(i).String())
}

// Offset returns the trimmed text n columns right of the cursor
func (c Cursor) Offset(n int) string {
	return c.At(c.Col + n)
}

// NextValue returns the first non-empty cell right of the cursor on the same row
func (c Cursor) NextValue() string {
	row := c.Cells()
	for i := c.Col + 1; i < len(row); i++ {
		if s := strings.TrimSpace(row[i].String()); s != "" {
			return s
		}
	}
	return ""
}

// Rule inspects one cell and returns the updated metadata. The bool reports
// whether the rule recognised the cell, whether or not a field changed.
type Rule func(c Cursor, meta model.Metadata) (model.Metadata, bool)

// ruleSet applies its rules to every non-empty preamble cell.
// With firstMatchOnly the first recognising rule ends the cell.
type ruleSet struct {
	rules          []Rule
	firstMatchOnly bool
}

func (rs ruleSet) Extract(preamble grid.Grid, meta model.Metadata) model.Metadata {
	for i, row := range preamble {
		for j, cell := range row {
			text, ok := normalizer.Text(cell)
			if !ok {
				continue
			}
			cur := Cursor{Rows: preamble, Row: i, Col: j, Text: text, Lower: strings.ToLower(text)}
			for _, rule := range rs.rules {
				var hit bool
				meta, hit = rule(cur, meta)
				if hit && rs.firstMatchOnly {
					break
				}
			}
		}
	}
	return meta
}

var extractors = map[ID]Extractor{
	HDFC: hdfcRules,
	BOB:  bobRules,
	IOB:  iobRules,
}

// ExtractorFor returns the extractor of a bank profile
func ExtractorFor(id ID) Extractor {
	if ex, ok := extractors[id]; ok {
		return ex
	}
	return ruleSet{}
}

// ExtractMetadata seeds the bank name from the selection and runs the bank's
// extractor over the preamble
func ExtractMetadata(sel Selection, preamble grid.Grid) model.Metadata {
	meta := model.Metadata{BankName: sel.DisplayName()}
	return ExtractorFor(sel.ID).Extract(preamble, meta)
}

var (
	periodDateRe = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	ifscCodeRe   = regexp.MustCompile(`(?i)[A-Z]{4}0[A-Z0-9]{6}`)
	spacesRe     = regexp.MustCompile(`\s+`)
)

// afterColon returns the trimmed text after the first colon
func afterColon(s string) string {
	_, v, ok := strings.Cut(s, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// collapseSpaces lower-cases s and folds whitespace runs to one space
func collapseSpaces(s string) string {
	return spacesRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// withPeriod sets the statement period when text holds exactly two dd/mm/yyyy dates
func withPeriod(text string, meta model.Metadata) model.Metadata {
	dates := periodDateRe.FindAllString(text, -1)
	if len(dates) != 2 {
		return meta
	}
	from, ok := normalizer.ParseDate(dates[0])
	if !ok {
		return meta
	}
	to, ok := normalizer.ParseDate(dates[1])
	if !ok {
		return meta
	}
	meta.SetPeriod(from, to)
	return meta
}

// place is a branch location recognised in address lines
type place struct {
	keyword string
	city    string
	state   string
}

var places = []place{
	{"surat", "SURAT", "GUJARAT"},
	{"udhna", "SURAT", "GUJARAT"},
	{"ahmedabad", "AHMEDABAD", "GUJARAT"},
	{"vadodara", "VADODARA", "GUJARAT"},
	{"mumbai", "MUMBAI", "MAHARASHTRA"},
	{"pune", "PUNE", "MAHARASHTRA"},
	{"new delhi", "NEW DELHI", "DELHI"},
	{"delhi", "DELHI", "DELHI"},
	{"chennai", "CHENNAI", "TAMIL NADU"},
	{"bengaluru", "BENGALURU", "KARNATAKA"},
	{"bangalore", "BENGALURU", "KARNATAKA"},
	{"kolkata", "KOLKATA", "WEST BENGAL"},
	{"hyderabad", "HYDERABAD", "TELANGANA"},
	{"jaipur", "JAIPUR", "RAJASTHAN"},
}

// placeRule infers branch city and state from a known locality.
// It only fills fields that are still empty.
func placeRule(c Cursor, meta model.Metadata) (model.Metadata, bool) {
	for _, p := range places {
		if !strings.Contains(c.Lower, p.keyword) {
			continue
		}
		if meta.BranchCity == "" {
			meta.BranchCity = p.city
		}
		if meta.BranchState == "" {
			meta.BranchState = p.state
		}
		return meta, true
	}
	return meta, false
}
