// Package report aggregates shifts into payroll summaries and renders
// them as CSV for export.
package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/parser"
)

// Row is one shift joined with its employee, inside the report range.
type Row struct {
	EmployeeName string
	Role         string
	Date         string
	ClockIn      string
	ClockOut     string
	TotalHours   float64
	EarnedWage   float64
}

// EmployeeTotal is the per-employee rollup for the range.
type EmployeeTotal struct {
	EmployeeID   string
	EmployeeName string
	Role         string
	ShiftCount   int
	TotalHours   float64
	TotalWage    float64
}

// Report is the payroll summary for one date range.
type Report struct {
	Range      parser.Range
	Rows       []Row
	Totals     []EmployeeTotal
	GrandHours float64
	GrandWage  float64
}

// Build computes the payroll report for the shifts inside the range.
// Shifts whose employee no longer exists are skipped; the integrity
// check reports those separately.
func Build(state model.AppState, rng parser.Range) Report {
	rep := Report{Range: rng}
	byEmployee := make(map[string]*EmployeeTotal)

	for _, sh := range state.Shifts {
		if !rng.Contains(sh.Date) {
			continue
		}
		emp, ok := state.Employee(sh.EmployeeID)
		if !ok {
			continue
		}

		rep.Rows = append(rep.Rows, Row{
			EmployeeName: emp.Name,
			Role:         emp.Role,
			Date:         sh.Date,
			ClockIn:      sh.ClockIn,
			ClockOut:     sh.ClockOut,
			TotalHours:   sh.TotalHours,
			EarnedWage:   sh.EarnedWage,
		})

		tot, ok := byEmployee[emp.ID]
		if !ok {
			tot = &EmployeeTotal{EmployeeID: emp.ID, EmployeeName: emp.Name, Role: emp.Role}
			byEmployee[emp.ID] = tot
		}
		tot.ShiftCount++
		tot.TotalHours = model.Round2(tot.TotalHours + sh.TotalHours)
		tot.TotalWage = model.Round2(tot.TotalWage + sh.EarnedWage)
	}

	sort.Slice(rep.Rows, func(i, j int) bool {
		if rep.Rows[i].Date != rep.Rows[j].Date {
			return rep.Rows[i].Date < rep.Rows[j].Date
		}
		return rep.Rows[i].EmployeeName < rep.Rows[j].EmployeeName
	})

	for _, tot := range byEmployee {
		rep.Totals = append(rep.Totals, *tot)
		rep.GrandHours = model.Round2(rep.GrandHours + tot.TotalHours)
		rep.GrandWage = model.Round2(rep.GrandWage + tot.TotalWage)
	}
	sort.Slice(rep.Totals, func(i, j int) bool {
		return rep.Totals[i].EmployeeName < rep.Totals[j].EmployeeName
	})

	return rep
}

// csvHeader matches the export format the app has always produced.
var csvHeader = []string{"Employee", "Role", "Date", "Clock In", "Clock Out", "Hours", "Wage"}

// WriteCSV renders the report's shift rows as CSV.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.NewSystemErrorWithOp("export", "could not write csv", err)
	}
	for _, row := range r.Rows {
		record := []string{
			row.EmployeeName,
			row.Role,
			row.Date,
			row.ClockIn,
			row.ClockOut,
			formatAmount(row.TotalHours),
			formatAmount(row.EarnedWage),
		}
		if err := cw.Write(record); err != nil {
			return errors.NewSystemErrorWithOp("export", "could not write csv", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewSystemErrorWithOp("export", "could not write csv", err)
	}
	return nil
}

// formatAmount renders hours and currency with two decimals.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
