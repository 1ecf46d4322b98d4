package parser

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"

	"github.com/extrame/ole2"
	"github.com/extrame/xls"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
)

// BIFF record identifiers read directly from the workbook stream
const (
	recordEOF        = 0x000A
	recordFormula    = 0x0006
	recordBoundSheet = 0x0085
	recordMulRK      = 0x00BD
	recordNumber     = 0x0203
	recordString     = 0x0207
	recordRK         = 0x027E
)

type cellRef struct {
	row, col int
}

// ReadXLS decodes the first sheet of a legacy BIFF workbook.
//
// Text cells come from the xls decoder. It renders RK numbers with a date or
// custom number format as truncated dates and timestamps, so every numeric
// cell is read again from the raw NUMBER, RK, MULRK and FORMULA records and
// laid over the decoded text.
func ReadXLS(r io.ReadSeeker) (grid.Grid, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error opening XLS file: %w", err)
	}

	if wb.NumSheets() == 0 {
		return nil, ErrEmptyWorkbook
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyWorkbook
	}

	maxRow := int(sheet.MaxRow)
	g := make(grid.Grid, 0, maxRow+1)
	for i := 0; i <= maxRow; i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			g = append(g, grid.Row{})
			continue
		}

		cells := make(grid.Row, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			if v := row.Col(j); v != "" {
				cells[j] = grid.Text(v)
			}
		}
		g = append(g, cells)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error rewinding XLS file: %w", err)
	}
	stream, err := workbookStream(r)
	if err != nil {
		return nil, err
	}
	values, err := readFirstSheetValues(stream)
	if err != nil {
		return nil, err
	}

	return trimTrailingBlank(overlay(g, values)), nil
}

// sheetRow returns nil for rows absent from the sheet. The decoder
// dereferences the missing row itself, so that panic is contained here.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// workbookStream opens the BIFF stream inside the OLE2 container
func workbookStream(r io.ReadSeeker) (io.ReadSeeker, error) {
	doc, err := ole2.Open(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error opening XLS container: %w", err)
	}
	dir, err := doc.ListDir()
	if err != nil {
		return nil, fmt.Errorf("error listing XLS container: %w", err)
	}

	var book, root *ole2.File
	for _, f := range dir {
		switch f.Name() {
		case "Workbook", "Book":
			book = f
		case "Root Entry":
			root = f
		}
	}
	if book == nil || root == nil {
		return nil, ErrEmptyWorkbook
	}
	return doc.OpenFile(book, root), nil
}

func readRecord(r io.Reader) (uint16, []byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return 0, nil, err
	}
	data := make([]byte, binary.LittleEndian.Uint16(head[2:]))
	if _, err := io.ReadFull(r, data); err != nil {
		return 0, nil, err
	}
	return binary.LittleEndian.Uint16(head[:]), data, nil
}

// readFirstSheetValues returns the typed value of every numeric or formula
// cell on the first sheet, keyed by position
func readFirstSheetValues(r io.ReadSeeker) (map[cellRef]grid.Cell, error) {
	offset := -1
	for offset < 0 {
		id, data, err := readRecord(r)
		if err != nil {
			return nil, fmt.Errorf("error reading XLS globals: %w", err)
		}
		switch {
		case id == recordBoundSheet && len(data) >= 4:
			offset = int(binary.LittleEndian.Uint32(data))
		case id == recordEOF:
			return nil, ErrEmptyWorkbook
		}
	}

	if _, err := r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking XLS sheet: %w", err)
	}

	values := map[cellRef]grid.Cell{}
	var pending *cellRef
	for {
		id, data, err := readRecord(r)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return values, nil
		}
		if err != nil {
			return nil, fmt.Errorf("error reading XLS sheet: %w", err)
		}

		switch id {
		case recordEOF:
			return values, nil
		case recordNumber:
			if len(data) >= 14 {
				values[refOf(data)] = grid.Number(math.Float64frombits(binary.LittleEndian.Uint64(data[6:])))
			}
		case recordRK:
			if len(data) >= 10 {
				values[refOf(data)] = grid.Number(decodeRK(binary.LittleEndian.Uint32(data[6:])))
			}
		case recordMulRK:
			if len(data) < 6 {
				continue
			}
			ref := refOf(data)
			for i, p := 0, 4; p+6 <= len(data)-2; i, p = i+1, p+6 {
				values[cellRef{row: ref.row, col: ref.col + i}] = grid.Number(decodeRK(binary.LittleEndian.Uint32(data[p+2:])))
			}
		case recordFormula:
			if len(data) < 14 {
				continue
			}
			ref := refOf(data)
			result := data[6:14]
			if result[6] != 0xFF || result[7] != 0xFF {
				values[ref] = grid.Number(math.Float64frombits(binary.LittleEndian.Uint64(result)))
				continue
			}
			switch result[0] {
			case 0:
				// the text result follows in a STRING record
				pending = &ref
			case 1:
				values[ref] = grid.Text("FALSE")
				if result[2] != 0 {
					values[ref] = grid.Text("TRUE")
				}
			default:
				values[ref] = grid.Empty()
			}
		case recordString:
			if pending != nil {
				values[*pending] = grid.Text(decodeString(data))
				pending = nil
			}
		}
	}
}

func refOf(data []byte) cellRef {
	return cellRef{
		row: int(binary.LittleEndian.Uint16(data[0:])),
		col: int(binary.LittleEndian.Uint16(data[2:])),
	}
}

// decodeRK expands the 30-bit RK encoding: bit 1 selects a signed integer
// over the top of an IEEE double, bit 0 divides by 100
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

// decodeString reads a BIFF8 unicode string: length, flags, then Latin-1 or
// UTF-16LE characters
func decodeString(data []byte) string {
	if len(data) < 3 {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(data))
	chars := data[3:]
	if data[2]&0x01 == 0 {
		runes := make([]rune, 0, n)
		for i := 0; i < n && i < len(chars); i++ {
			runes = append(runes, rune(chars[i]))
		}
		return string(runes)
	}
	units := make([]uint16, 0, n)
	for i := 0; i < n && 2*i+1 < len(chars); i++ {
		units = append(units, binary.LittleEndian.Uint16(chars[2*i:]))
	}
	return string(utf16.Decode(units))
}

// overlay writes values into g, growing rows as needed
func overlay(g grid.Grid, values map[cellRef]grid.Cell) grid.Grid {
	for ref, c := range values {
		for len(g) <= ref.row {
			g = append(g, grid.Row{})
		}
		row := g[ref.row]
		if len(row) <= ref.col {
			row = append(row, make(grid.Row, ref.col-len(row)+1)...)
		}
		row[ref.col] = c
		g[ref.row] = row
	}
	return g
}

// trimTrailingBlank drops blank rows after the last populated one
func trimTrailingBlank(g grid.Grid) grid.Grid {
	end := len(g)
	for end > 0 && blank(g[end-1]) {
		end--
	}
	return g[:end]
}

func blank(row grid.Row) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
