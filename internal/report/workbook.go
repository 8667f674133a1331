package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Fill colors.
const (
	FillHeaderGreen = "2E7D32"
	FillHeaderBlue  = "1565C0"
	FillProfit      = "C8E6C9"
	FillBreakEven   = "FFF9C4"
	FillLoss        = "FFCDD2"
)

const currencyFormat = `"$"#,##0`

type cellKind int

const (
	kindHeader cellKind = iota
	kindText
	kindCenter
	kindCurrency
	kindNumber
	kindTitle
	kindBold
	kindGroupHeader
)

type styleKey struct {
	kind cellKind
	fill string
}

// styles creates excelize styles on first use and caches their IDs.
type styles struct {
	f     *excelize.File
	cache map[styleKey]int
}

func newStyles(f *excelize.File) *styles {
	return &styles{f: f, cache: make(map[styleKey]int)}
}

func (s *styles) get(kind cellKind, fill string) (int, error) {
	key := styleKey{kind: kind, fill: fill}
	if id, ok := s.cache[key]; ok {
		return id, nil
	}

	st := &excelize.Style{}
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	switch kind {
	case kindHeader:
		st.Font = &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11}
		st.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
		st.Border = thin
	case kindText:
		st.Alignment = &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true}
		st.Border = thin
	case kindCenter:
		st.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
		st.Border = thin
	case kindCurrency:
		format := currencyFormat
		st.CustomNumFmt = &format
		st.Border = thin
	case kindNumber:
		st.Border = thin
	case kindTitle:
		st.Font = &excelize.Font{Bold: true, Size: 14}
	case kindBold:
		st.Font = &excelize.Font{Bold: true}
	case kindGroupHeader:
		st.Font = &excelize.Font{Bold: true, Size: 12}
	}
	if fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}}
	}

	id, err := s.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	s.cache[key] = id
	return id, nil
}

// sheet writes cells to one worksheet and keeps the first error, so rendering
// code can stay linear and check once at the end.
type sheet struct {
	f    *excelize.File
	st   *styles
	name string
	err  error
}

func (s *sheet) set(col, row int, value any) {
	s.setStyled(col, row, value, -1, "")
}

func (s *sheet) setStyled(col, row int, value any, kind cellKind, fill string) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellValue(s.name, cell, value); err != nil {
		s.err = fmt.Errorf("set %s!%s: %w", s.name, cell, err)
		return
	}
	if kind < 0 {
		return
	}
	id, err := s.st.get(kind, fill)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellStyle(s.name, cell, cell, id); err != nil {
		s.err = fmt.Errorf("style %s!%s: %w", s.name, cell, err)
	}
}

func (s *sheet) header(row int, titles []string, fill string) {
	for i, title := range titles {
		s.setStyled(i+1, row, title, kindHeader, fill)
	}
}

func (s *sheet) widths(cols []string, widths []float64) {
	for i, col := range cols {
		if s.err != nil {
			return
		}
		if err := s.f.SetColWidth(s.name, col, col, widths[i]); err != nil {
			s.err = fmt.Errorf("width %s!%s: %w", s.name, col, err)
		}
	}
}

// newWorkbook returns a file whose sheets are named in order. The default
// sheet is renamed to the first name.
func newWorkbook(names ...string) (*excelize.File, *styles, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), names[0]); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range names[1:] {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, newStyles(f), nil
}
