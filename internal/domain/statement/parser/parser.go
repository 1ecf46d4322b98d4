// Package parser decodes statement workbooks (xlsx, legacy xls and csv) into
// a grid of scalar cells. Only the first sheet is read and blank rows are kept
// so that row positions match the source.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
)

var (
	ErrUnknownFormat = errors.New("unsupported statement format")
	ErrEmptyWorkbook = errors.New("workbook has no rows")
)

// Format is a workbook encoding
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// AllowedExtensions are the file extensions accepted for upload
var AllowedExtensions = []string{".xls", ".xlsx", ".csv"}

// IsAllowedExtension reports whether name carries an accepted extension
func IsAllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// DetectFormat sniffs the leading bytes of a file. Binary signatures win over
// the file name; plain text is accepted as csv only when the name says so.
func DetectFormat(head []byte, name string) (Format, error) {
	switch {
	case bytes.HasPrefix(head, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(head, oleMagic):
		return FormatXLS, nil
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ReadGrid decodes a whole workbook from r. name is only used to recognise
// csv files, which carry no signature.
func ReadGrid(r io.Reader, name string) (grid.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return Decode(data, name)
}

// Decode decodes workbook bytes
func Decode(data []byte, name string) (grid.Grid, error) {
	format, err := DetectFormat(data, name)
	if err != nil {
		return nil, err
	}

	var g grid.Grid
	switch format {
	case FormatXLSX:
		g, err = ReadXLSX(bytes.NewReader(data))
	case FormatXLS:
		g, err = ReadXLS(bytes.NewReader(data))
	case FormatCSV:
		g, err = ReadCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}

	if len(g) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return g, nil
}
