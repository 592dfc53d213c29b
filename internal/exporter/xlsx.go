package exporter

import (
	"fmt"
	"io"

	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

// RiskHeaders are the columns of the call list workbook.
var RiskHeaders = []string{"Aluno", "Nota Final", "Presença", "Homework", "Situação Final"}

// WriteRiskXLSX writes the call list as a single-sheet workbook named
// after the category. Scores are stored as numbers with a percent format.
func WriteRiskXLSX(out io.Writer, list domain.RiskList) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(list.Category)
	if sheet == "" {
		sheet = "risk"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{list.Category.Color()}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	percentStyle, err := f.NewStyle(&excelize.Style{NumFmt: 9}) // 0%
	if err != nil {
		return fmt.Errorf("failed to create percent style: %w", err)
	}
	gradeStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return fmt.Errorf("failed to create grade style: %w", err)
	}

	headers := make([]interface{}, len(RiskHeaders))
	for i, h := range RiskHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	for i, e := range list.Entries {
		row := i + 2
		values := []interface{}{e.Student, e.FinalGrade, nullCell(e.Presence), nullCell(e.Homework), e.FinalStatus}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	if n := len(list.Entries); n > 0 {
		last := n + 1
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("B%d", last), gradeStyle); err != nil {
			return fmt.Errorf("failed to style grades: %w", err)
		}
		if err := f.SetCellStyle(sheet, "C2", fmt.Sprintf("D%d", last), percentStyle); err != nil {
			return fmt.Errorf("failed to style scores: %w", err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "E", 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// nullCell leaves missing scores as empty cells.
func nullCell(v null.Float64) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
