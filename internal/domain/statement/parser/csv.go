package parser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
)

const utf8BOM = "\xef\xbb\xbf"

var candidateDelimiters = []rune{',', ';', '\t', '|'}

// ReadCSV decodes a delimited text export. The delimiter is the candidate
// that occurs most often in the first non-blank line.
func ReadCSV(r io.Reader) (grid.Grid, error) {
	br := bufio.NewReader(r)
	if bom, _ := br.Peek(len(utf8BOM)); string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}
	head, _ := br.Peek(4096)

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(string(head))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return trimTrailingBlank(grid.FromStrings(records)), nil
}

func detectDelimiter(head string) rune {
	var line string
	for _, l := range strings.Split(head, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
