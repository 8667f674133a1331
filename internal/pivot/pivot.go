// Package pivot summarizes a spreadsheet by grouping rows on one column and
// summing another.
package pivot

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Default column names and file paths of the sales summary.
const (
	DefaultGroupColumn = "Region"
	DefaultSumColumn   = "Amount"
	DefaultInput       = "sale_data.xlsx"
	DefaultOutput      = "summary_report.xlsx"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrInvalidAmount  = errors.New("invalid amount")
)

// Options selects the columns of a summary, matched case-sensitively
// against the header row after trimming spaces.
type Options struct {
	GroupBy string
	Sum     string
}

func (o Options) withDefaults() Options {
	if o.GroupBy == "" {
		o.GroupBy = DefaultGroupColumn
	}
	if o.Sum == "" {
		o.Sum = DefaultSumColumn
	}
	return o
}

// Group is one summary line.
type Group struct {
	Key   string
	Total decimal.Decimal
}

// Summary holds the groups in ascending key order.
type Summary struct {
	GroupBy string
	Sum     string
	Groups  []Group
	Rows    int
}

// Read summarizes the first sheet of the workbook in r.
func Read(r io.Reader, opts Options) (Summary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Summary{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return Summary{}, fmt.Errorf("read rows: %w", err)
	}
	return Summarize(rows, opts)
}

// Summarize groups data rows (rows[1:]) by the key column and sorts the
// groups by key. Rows with an empty key are skipped and empty amounts count
// as zero.
func Summarize(rows [][]string, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	s := Summary{GroupBy: opts.GroupBy, Sum: opts.Sum}
	if len(rows) == 0 {
		return s, fmt.Errorf("%w: %q (empty sheet)", ErrColumnNotFound, opts.GroupBy)
	}

	keyCol, err := column(rows[0], opts.GroupBy)
	if err != nil {
		return s, err
	}
	sumCol, err := column(rows[0], opts.Sum)
	if err != nil {
		return s, err
	}

	index := make(map[string]int)
	for i, row := range rows[1:] {
		key := strings.TrimSpace(at(row, keyCol))
		if key == "" {
			continue
		}
		amount := decimal.Zero
		if v := strings.TrimSpace(at(row, sumCol)); v != "" {
			amount, err = decimal.NewFromString(v)
			if err != nil {
				return s, fmt.Errorf("%w: row %d: %q", ErrInvalidAmount, i+2, v)
			}
		}

		s.Rows++
		pos, ok := index[key]
		if !ok {
			pos = len(s.Groups)
			index[key] = pos
			s.Groups = append(s.Groups, Group{Key: key, Total: decimal.Zero})
		}
		s.Groups[pos].Total = s.Groups[pos].Total.Add(amount)
	}
	slices.SortStableFunc(s.Groups, func(a, b Group) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return s, nil
}

func column(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

func at(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Workbook renders the summary as a two-column sheet. The caller must Close it.
func (s Summary) Workbook() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []any{s.GroupBy, s.Sum}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, g := range s.Groups {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStr(sheet, cell, g.Key); err != nil {
			f.Close()
			return nil, fmt.Errorf("write %s: %w", g.Key, err)
		}
		if err := setDecimal(f, sheet, 2, i+2, g.Total); err != nil {
			f.Close()
			return nil, fmt.Errorf("write %s total: %w", g.Key, err)
		}
	}
	return f, nil
}

// setDecimal writes d as a numeric cell carrying exactly the decimal places
// of d, so a sum like 0.1 + 0.2 is stored as 0.3.
func setDecimal(f *excelize.File, sheet string, col, row int, d decimal.Decimal) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	places := 0
	if _, frac, ok := strings.Cut(d.String(), "."); ok {
		places = len(frac)
	}
	return f.SetCellFloat(sheet, cell, d.InexactFloat64(), places, 64)
}
