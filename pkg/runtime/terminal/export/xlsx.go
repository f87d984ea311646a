package export

import (
	"fmt"
	"io"
	"math"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const (
	jobsSheet    = "Jobs"
	summarySheet = "Summary"
)

var jobColumns = []any{
	"WO #", "Client", "Trade", "NTE", "Total Cost", "Profit Ratio", "Status", "Count", "Reason",
}

// XLSXWriter writes a commission report as a workbook with a summary sheet and
// one row per eligible job.
type XLSXWriter struct{}

func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

func (x *XLSXWriter) Write(w io.Writer, report *domain.CommissionReport) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(jobsSheet); err != nil {
		return fmt.Errorf("failed to create jobs sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	start, end := report.Month.Window()
	summary := [][]any{
		{"Month", report.Month.String()},
		{"Period start", start.Format("2006-01-02")},
		{"Period end", end.Format("2006-01-02")},
		{"Jobs", report.Stats.Total},
		{"Qualified", report.Stats.Qualified},
		{"Partial", report.Stats.Partial},
		{"Reassigned", report.Stats.Reassigned},
		{"Excluded", report.Stats.Excluded},
		{"Total count", report.TotalCount},
		{"Rate", report.CommissionRate},
		{"Commission", report.TotalCommission},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}

	if err := f.SetSheetRow(jobsSheet, "A1", &jobColumns); err != nil {
		return fmt.Errorf("failed to write jobs header: %w", err)
	}
	if err := f.SetCellStyle(jobsSheet, "A1", "I1", bold); err != nil {
		return fmt.Errorf("failed to style jobs header: %w", err)
	}
	for i, job := range report.Jobs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			job.WONumber, job.Client, job.Trade, job.NTE, job.TotalCost,
			profitCell(job.ProfitRatio), string(job.Qualification), job.CountValue, job.Reason,
		}
		if err := f.SetSheetRow(jobsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write job %s: %w", job.WONumber, err)
		}
	}
	if err := f.SetColWidth(jobsSheet, "B", "B", 28); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(jobsSheet, "I", "I", 36); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// profitCell keeps infinite ratios readable; spreadsheets have no infinity.
func profitCell(ratio float64) any {
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return "∞"
	}
	return ratio
}
