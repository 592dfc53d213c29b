package testutil

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/David1r20/painel-educacional/internal/gradebook"
)

// CompactLayout is a two-session gradebook with the result columns
// right after the blocks.
func CompactLayout() gradebook.Layout {
	return gradebook.Layout{
		MarkerLabel:       "Pre-Class",
		FeedbackColumn:    0,
		RoomColumn:        1,
		NumberColumn:      2,
		NameColumn:        3,
		FirstBlockColumn:  4,
		BlockWidth:        5,
		ExamAverageColumn: 14,
		FinalGradeColumn:  15,
		StatusColumn:      16,
		HeaderScanRows:    10,
	}
}

// ClassRows is a class of two in CompactLayout. Ana is always present
// with homework done, Bruno always absent without homework.
func ClassRows() [][]string {
	return [][]string{
		{"", "", "", "", "11/02/2025", "", "", "", "", "18/02/2025", "", "", "", "", "", "", ""},
		{"Feedback", "Sala", "Nº", "Nome", "Pre-Class", "Presença", "Homework", "Participação", "Comportamento",
			"Pre-Class", "Presença", "Homework", "Participação", "Comportamento", "Média", "Nota Final", "Situação"},
		{"", "7A", "1", "Ana Souza", "", "P", "√", ":-D", "", "", "P", "√", ":-D", "", "8", "8.5", "Aprovado"},
		{"", "7A", "2", "Bruno Lima", "", "A", "N", ":-&", "", "", "A", "N", ":-&", "", "3", "4", "Reprovado"},
	}
}

// ClassCSV encodes ClassRows as CSV.
func ClassCSV(t testing.TB) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll(ClassRows()))
	return buf.Bytes()
}

// ClassWorkbook encodes ClassRows as an XLSX workbook with a single sheet.
func ClassWorkbook(t testing.TB) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range ClassRows() {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStr(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
