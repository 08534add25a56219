package analysis

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/stablab/stats"
)

var workbookHeaders = []string{"m", "tau", "dev", "ci_lower", "ci_upper", "edf", "alpha", "noise", "neff"}

// WriteWorkbook writes one sheet per estimator plus a summary sheet to an
// .xlsx file at path. Undefined values are left blank.
func WriteWorkbook(path string, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("analysis: workbook: %w", err)
	}
	if err := writeRows(f, summary, []string{"estimator", "points", "min_dev", "max_dev", "slope"}, summaryRows(r)); err != nil {
		return err
	}

	for _, k := range r.Order {
		res := r.Results[k]
		if res == nil {
			continue
		}
		sheet := string(k)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("analysis: workbook: %w", err)
		}
		rows := make([][]any, res.Len())
		for i := range rows {
			rows[i] = []any{
				res.M[i], cell(res.Tau[i]), cell(res.Dev[i]),
				cell(res.CI[i][0]), cell(res.CI[i][1]), cell(res.EDF[i]),
				cell(res.Alpha[i]), stats.NoiseName(res.Alpha[i]), res.Neff[i],
			}
		}
		if err := writeRows(f, sheet, workbookHeaders, rows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("analysis: workbook: %w", err)
	}
	return nil
}

func summaryRows(r *Report) [][]any {
	var rows [][]any
	for _, s := range r.Summaries() {
		rows = append(rows, []any{string(s.Kind), s.Points, cell(s.MinDev), cell(s.MaxDev), cell(s.Slope)})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		name, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, name, h); err != nil {
			return fmt.Errorf("analysis: workbook: %w", err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			name, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, name, v); err != nil {
				return fmt.Errorf("analysis: workbook: %w", err)
			}
		}
	}
	return nil
}

// cell maps non-finite values to nil so they are skipped.
func cell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
