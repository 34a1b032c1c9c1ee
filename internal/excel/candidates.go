package excel

import (
	"bytes"
	"fmt"
	"strings"

	"evalboard/internal/domain"

	"github.com/xuri/excelize/v2"
)

// CandidateHeader is the import/export column layout. Import files must use
// these headers; export mirrors them so an exported sheet re-imports cleanly.
var CandidateHeader = []string{
	"기관명(성명)",
	"소속(부서)",
	"직책(직급)",
	"구분",
	"세부구분",
	"설명",
}

var candidateColumnWidths = []float64{25, 20, 15, 15, 15, 40}

// GenerateCandidateTemplate builds an empty import template workbook.
func GenerateCandidateTemplate() ([]byte, error) {
	return generateCandidateSheet(nil)
}

// GenerateCandidateExport builds a workbook mirroring the candidate roster.
func GenerateCandidateExport(candidates []*domain.Candidate) ([]byte, error) {
	return generateCandidateSheet(candidates)
}

func generateCandidateSheet(candidates []*domain.Candidate) ([]byte, error) {
	f := excelize.NewFile()
	// Don't defer Close() before WriteTo; the file must stay open.

	sheetName := "후보 목록"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	for col, header := range CandidateHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}
	for col, width := range candidateColumnWidths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		_ = f.SetColWidth(sheetName, name, name, width)
	}

	for i, c := range candidates {
		row := i + 2
		values := []any{c.Name, c.Department, c.Position, c.Category, c.SubCategory, c.Description}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseCandidateImport reads an uploaded workbook into candidate rows.
// Rows with an empty name column are skipped. Column order follows
// CandidateHeader; the header row itself is skipped when present.
func ParseCandidateImport(data []byte) ([]*domain.Candidate, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	candidates := []*domain.Candidate{}
	for i, row := range rows {
		if i == 0 && isCandidateHeaderRow(row) {
			continue
		}
		name := cellAt(row, 0)
		if name == "" {
			continue
		}
		candidates = append(candidates, &domain.Candidate{
			Name:        name,
			Department:  cellAt(row, 1),
			Position:    cellAt(row, 2),
			Category:    cellAt(row, 3),
			SubCategory: cellAt(row, 4),
			Description: cellAt(row, 5),
			IsActive:    true,
		})
	}
	return candidates, nil
}

func isCandidateHeaderRow(row []string) bool {
	return len(row) > 0 && strings.TrimSpace(row[0]) == CandidateHeader[0]
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func newHeaderStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}
