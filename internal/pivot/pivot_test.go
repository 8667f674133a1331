package pivot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func salesWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestRead_GroupsSortedByKey(t *testing.T) {
	buf := salesWorkbook(t, [][]any{
		{"Date", "Region", "Amount"},
		{"2024-01-01", "West", 100.10},
		{"2024-01-02", "East", 50},
		{"2024-01-03", "West", 0.20},
		{"2024-01-04", "North", 7},
		{"2024-01-05", "East", 25.5},
	})

	s, err := Read(buf, Options{})
	require.NoError(t, err)

	require.Len(t, s.Groups, 3)
	assert.Equal(t, "East", s.Groups[0].Key)
	assert.Equal(t, "75.5", s.Groups[0].Total.String())
	assert.Equal(t, "North", s.Groups[1].Key)
	assert.Equal(t, "7", s.Groups[1].Total.String())
	assert.Equal(t, "West", s.Groups[2].Key)
	assert.Equal(t, "100.3", s.Groups[2].Total.String())
	assert.Equal(t, 5, s.Rows)
}

func TestSummarize_CustomColumns(t *testing.T) {
	rows := [][]string{
		{"Station", " Qty "},
		{"Workbench", "2"},
		{"", "9"},
		{"Gunsmith", ""},
		{"Workbench", "3"},
	}
	s, err := Summarize(rows, Options{GroupBy: "Station", Sum: "Qty"})
	require.NoError(t, err)

	require.Len(t, s.Groups, 2)
	assert.Equal(t, "Gunsmith", s.Groups[0].Key)
	assert.True(t, s.Groups[0].Total.IsZero())
	assert.Equal(t, "Workbench", s.Groups[1].Key)
	assert.Equal(t, "5", s.Groups[1].Total.String())
	assert.Equal(t, 3, s.Rows, "rows without a key are skipped")
}

func TestSummarize_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want error
	}{
		{"empty sheet", nil, ErrColumnNotFound},
		{"missing group column", [][]string{{"Amount"}}, ErrColumnNotFound},
		{"missing sum column", [][]string{{"Region"}}, ErrColumnNotFound},
		{"non-numeric amount", [][]string{{"Region", "Amount"}, {"West", "lots"}}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Summarize(tt.rows, Options{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSummarize_InvalidAmountNamesRow(t *testing.T) {
	_, err := Summarize([][]string{{"Region", "Amount"}, {"West", "1"}, {"East", "x"}}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestSummary_Workbook(t *testing.T) {
	s, err := Summarize([][]string{
		{"Region", "Amount"},
		{"West", "10"},
		{"East", "2.5"},
		{"North", "0.1"},
		{"North", "0.2"},
	}, Options{})
	require.NoError(t, err)

	f, err := s.Workbook()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Region", "Amount"}, {"East", "2.5"}, {"North", "0.3"}, {"West", "10"}}, rows)
}

func TestSummarize_SortsUnorderedKeys(t *testing.T) {
	s, err := Summarize([][]string{
		{"Region", "Amount"},
		{"West", "1"},
		{"East", "2"},
		{"North", "3"},
	}, Options{})
	require.NoError(t, err)

	keys := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"East", "North", "West"}, keys)
	assert.Equal(t, "3", s.Groups[1].Total.String())
}
