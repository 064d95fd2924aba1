package revenueforecast

import (
	"fmt"
	"sort"

	"AgencyPulseSaas/api/forecast/engine"

	"github.com/xuri/excelize/v2"
)

// buildForecastWorkbook lays the forecast document out across four sheets:
// projections, per-source detail, the weekly timeline and the monthly trend.
func buildForecastWorkbook(doc engine.Document) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeProjectionsSheet(f, doc.Projections); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSourcesSheet(f, doc.Sources); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeWeeklySheet(f, doc.WeeklyTimeline); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeMonthlySheet(f, doc.MonthlyRevenue); err != nil {
		f.Close()
		return nil, err
	}

	_ = f.DeleteSheet("Sheet1")
	return f, nil
}

func writeProjectionsSheet(f *excelize.File, p engine.Projections) error {
	const sheet = "Projections"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"", "30 Days", "60 Days", "90 Days"},
		{"Inflow", p.Inflow.D30, p.Inflow.D60, p.Inflow.D90},
		{"Outflow", p.Outflow.D30, p.Outflow.D60, p.Outflow.D90},
		{"Net", p.Net.D30, p.Net.D60, p.Net.D90},
	}
	return writeRows(f, sheet, rows)
}

func writeSourcesSheet(f *excelize.File, s engine.Sources) error {
	const sheet = "Sources"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Source", "30 Days", "60 Days", "90 Days", "Total", "Count"},
		{"Invoices", s.Invoices.Forecast.D30, s.Invoices.Forecast.D60, s.Invoices.Forecast.D90, s.Invoices.Forecast.Total, s.Invoices.Count},
		{"Pipeline", s.Pipeline.Forecast.D30, s.Pipeline.Forecast.D60, s.Pipeline.Forecast.D90, s.Pipeline.Forecast.Total, s.Pipeline.Count},
		{"Proposals", s.Proposals.Forecast.D30, s.Proposals.Forecast.D60, s.Proposals.Forecast.D90, s.Proposals.Forecast.Total, s.Proposals.Count},
		{"Contracts", s.Contracts.Forecast.D30, s.Contracts.Forecast.D60, s.Contracts.Forecast.D90, s.Contracts.Forecast.Total, s.Contracts.Count},
		{"Expenses", s.Expenses.Forecast.D30, s.Expenses.Forecast.D60, s.Expenses.Forecast.D90, s.Expenses.Forecast.Total, ""},
	}
	rows = append(rows, []interface{}{})
	rows = append(rows, []interface{}{"Avg Monthly Expenses", s.Expenses.AvgMonthly})
	rows = append(rows, []interface{}{})
	rows = append(rows, []interface{}{"Expense Category", "Monthly Amount"})
	for _, cat := range sortedCategories(s.Expenses.ByCategory) {
		rows = append(rows, []interface{}{cat, s.Expenses.ByCategory[cat]})
	}
	return writeRows(f, sheet, rows)
}

func writeWeeklySheet(f *excelize.File, weeks []engine.WeekEntry) error {
	const sheet = "Weekly Timeline"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Week", "Week Start", "Inflow", "Outflow", "Net", "Cumulative"},
	}
	for _, wk := range weeks {
		rows = append(rows, []interface{}{wk.Week, wk.WeekStart, wk.Inflow, wk.Outflow, wk.Net, wk.Cumulative})
	}
	return writeRows(f, sheet, rows)
}

func writeMonthlySheet(f *excelize.File, months []engine.MonthEntry) error {
	const sheet = "Monthly Trend"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Month", "Revenue", "Expenses"},
	}
	for _, m := range months {
		rows = append(rows, []interface{}{m.Month, m.Revenue, m.Expenses})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func sortedCategories(byCategory map[string]float64) []string {
	cats := make([]string, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}
