package excel

import (
	"bytes"
	"fmt"

	"evalboard/internal/scoring"

	"github.com/xuri/excelize/v2"
)

// ResultsHeader is the ranked-results export layout.
var ResultsHeader = []string{
	"순위",
	"기관명(성명)",
	"소속(부서)",
	"총점",
	"평균",
	"만점",
	"백분율(%)",
	"평가위원 수",
	"완료 수",
	"판정",
}

var resultsColumnWidths = []float64{8, 25, 20, 10, 10, 10, 12, 12, 10, 10}

// GenerateResultsExport builds the ranked results workbook. The pass/fail
// column uses the same threshold the results endpoint reports.
func GenerateResultsExport(results []scoring.CandidateResult, thresholdPercent float64) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "평가 결과"
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

	for col, header := range ResultsHeader {
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
	for col, width := range resultsColumnWidths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		_ = f.SetColWidth(sheetName, name, name, width)
	}

	for i, r := range results {
		row := i + 2
		verdict := "탈락"
		if r.Percentage >= thresholdPercent {
			verdict = "통과"
		}
		values := []any{
			r.Rank,
			r.Name,
			r.Department,
			r.TotalScore,
			r.AverageScore,
			r.MaxPossible,
			scoring.RoundPercent(r.Percentage),
			r.EvaluatorCount,
			r.CompletedCount,
			verdict,
		}
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
