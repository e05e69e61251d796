package fetcher

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet is one worksheet as string rows. The first row is the header.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"-"`
}

// Header returns the first row, or nil for an empty sheet.
func (s Sheet) Header() []string {
	if len(s.Rows) == 0 {
		return nil
	}
	return s.Rows[0]
}

// DataRows returns the number of rows below the header.
func (s Sheet) DataRows() int {
	return max(len(s.Rows)-1, 0)
}

// Workbook is every worksheet of a file in workbook order.
type Workbook struct {
	Sheets []Sheet
}

// Names returns the sheet names in workbook order.
func (w *Workbook) Names() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the sheet with the given name, case-insensitively.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Sheet{}, false
}

// ParseXLSX parses workbook bytes.
func ParseXLSX(data []byte) (*Workbook, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}
	return fromFile(f), nil
}

// ReadXLSX reads a workbook from disk.
func ReadXLSX(path string) (*Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	return fromFile(f), nil
}

func fromFile(f *xlsx.File) *Workbook {
	wb := &Workbook{Sheets: make([]Sheet, 0, len(f.Sheets))}
	for _, sh := range f.Sheets {
		s := Sheet{Name: sh.Name, Rows: make([][]string, 0, len(sh.Rows))}
		for _, row := range sh.Rows {
			if row == nil {
				s.Rows = append(s.Rows, nil)
				continue
			}
			s.Rows = append(s.Rows, rowToStrings(row, f.Date1904))
		}
		wb.Sheets = append(wb.Sheets, s)
	}
	return wb
}

// dateLayout is how date-formatted cells are written out.
const dateLayout = "2006-01-02"

// rowToStrings keeps numeric cells as their stored value so percentages and
// decimals are not rounded by the cell's display format. Date-formatted
// cells hold day serials and become calendar dates instead.
func rowToStrings(row *xlsx.Row, date1904 bool) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		if cell.IsTime() {
			if t, err := cell.GetTime(date1904); err == nil {
				cells[j] = t.Format(dateLayout)
				continue
			}
		}
		if cell.Type() == xlsx.CellTypeNumeric {
			cells[j] = cell.Value
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}
