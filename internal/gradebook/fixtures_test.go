package gradebook

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixtureStudent struct {
	name   string
	exam   string
	grade  string
	status string
	blocks [][5]string
}

func block(presence, homework, participation string) [5]string {
	return [5]string{"", presence, homework, participation, ""}
}

// classFixture is a small class: one student per quadrant, a row without
// a name and a student without any recorded session.
func classFixture() ([]string, []fixtureStudent) {
	dates := []string{"11-fev-2025", "18-fev.-2025", ""}
	students := []fixtureStudent{
		{name: "Ana Souza", exam: "8", grade: "8,5", status: "Aprovado", blocks: [][5]string{
			block("P", "√", ":-D"), block("P", "√", ":-D"), block("P", "+/-", ":-/"),
		}},
		{name: "Bruno Lima", exam: "3,5", grade: "4", status: "Reprovado", blocks: [][5]string{
			block("A", "N", ":-&"), block("A", "N", ":-&"), block("A", "N", ":-&"),
		}},
		{name: "Carla Dias", exam: "7", grade: "7", status: "Aprovado", blocks: [][5]string{
			block("P", "N", ":-/"), block("P", "N", ":-/"), block("1/2", "N", ":-/"),
		}},
		{name: "", grade: "10"},
		{name: "Davi Rocha", exam: "SR", grade: "6", status: "Recuperação", blocks: [][5]string{
			block("A", "√", ":-D"), block("A", "√", ":-D"), block("A", "√", ":-D"),
		}},
		{name: "Eva Torres", grade: "abc", status: "Transferido"},
	}
	return dates, students
}

// buildGrid lays the fixture out the way the school workbook does: a
// title row, the date row, the label row and then one row per student.
func buildGrid(dates []string, students []fixtureStudent) Grid {
	layout := DefaultLayout()
	width := layout.StatusColumn + 1

	title := make([]string, width)
	title[0] = "Diário de Classe 2025"

	dateRow := make([]string, width)
	labelRow := make([]string, width)
	copy(labelRow, []string{"Feedback", "Sala", "Nº", "Nome Completo"})
	for i, d := range dates {
		col := layout.FirstBlockColumn + i*layout.BlockWidth
		dateRow[col] = d
		copy(labelRow[col:], []string{"Pre-Class", "Presença", "Homework", "Participação", "Comportamento"})
	}
	labelRow[layout.ExamAverageColumn] = "Média Provas"
	labelRow[layout.FinalGradeColumn] = "Nota Final"
	labelRow[layout.StatusColumn] = "Situação Final"

	g := Grid{title, dateRow, labelRow}
	for i, s := range students {
		row := make([]string, width)
		row[layout.RoomColumn] = "7A"
		row[layout.NumberColumn] = strconv.Itoa(i + 1)
		row[layout.NameColumn] = s.name
		for j, b := range s.blocks {
			copy(row[layout.FirstBlockColumn+j*layout.BlockWidth:], b[:])
		}
		row[layout.ExamAverageColumn] = s.exam
		row[layout.FinalGradeColumn] = s.grade
		row[layout.StatusColumn] = s.status
		g = append(g, row)
	}
	return g
}

func csvBytes(t *testing.T, g Grid, comma rune) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = comma
	require.NoError(t, w.WriteAll(g))
	return buf.Bytes()
}

func xlsxBytes(t *testing.T, g Grid, cellValue func(r, c int, v string) interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range g {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			var value interface{} = v
			if cellValue != nil {
				value = cellValue(r, c, v)
			}
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
