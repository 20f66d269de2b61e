package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/parser"
)

func marchRange() parser.Range {
	return parser.Range{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func sampleState() model.AppState {
	return model.AppState{
		Employees: []model.Employee{
			{ID: "e1", Name: "Alex Rivera", Role: "Team Lead", HourlyRate: 25},
			{ID: "e2", Name: "Jordan Smith", Role: "Staff", HourlyRate: 18},
		},
		Shifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2025-03-03", ClockIn: "09:00", ClockOut: "17:00", TotalHours: 8, EarnedWage: 200},
			{ID: "s2", EmployeeID: "e2", Date: "2025-03-03", ClockIn: "10:00", ClockOut: "14:30", TotalHours: 4.5, EarnedWage: 81},
			{ID: "s3", EmployeeID: "e1", Date: "2025-03-10", ClockIn: "22:00", ClockOut: "02:00", TotalHours: 4, EarnedWage: 100},
			// Outside the range.
			{ID: "s4", EmployeeID: "e1", Date: "2025-02-28", ClockIn: "09:00", ClockOut: "17:00", TotalHours: 8, EarnedWage: 200},
		},
	}
}

func TestBuildAggregates(t *testing.T) {
	rep := Build(sampleState(), marchRange())

	require.Len(t, rep.Rows, 3)
	require.Len(t, rep.Totals, 2)

	// Totals are sorted by name: Alex first.
	alex := rep.Totals[0]
	assert.Equal(t, "Alex Rivera", alex.EmployeeName)
	assert.Equal(t, 2, alex.ShiftCount)
	assert.EqualValues(t, 12, alex.TotalHours)
	assert.EqualValues(t, 300, alex.TotalWage)

	jordan := rep.Totals[1]
	assert.Equal(t, 1, jordan.ShiftCount)
	assert.EqualValues(t, 81, jordan.TotalWage)

	assert.EqualValues(t, 16.5, rep.GrandHours)
	assert.EqualValues(t, 381, rep.GrandWage)
}

func TestBuildRowOrder(t *testing.T) {
	rep := Build(sampleState(), marchRange())

	// Rows sort by date, then employee name.
	assert.Equal(t, "2025-03-03", rep.Rows[0].Date)
	assert.Equal(t, "Alex Rivera", rep.Rows[0].EmployeeName)
	assert.Equal(t, "Jordan Smith", rep.Rows[1].EmployeeName)
	assert.Equal(t, "2025-03-10", rep.Rows[2].Date)
}

func TestBuildSkipsOrphanShifts(t *testing.T) {
	state := sampleState()
	state.Shifts = append(state.Shifts, model.Shift{
		ID: "s5", EmployeeID: "gone", Date: "2025-03-05", TotalHours: 8, EarnedWage: 160,
	})

	rep := Build(state, marchRange())
	assert.Len(t, rep.Rows, 3)
	assert.EqualValues(t, 381, rep.GrandWage)
}

func TestBuildEmptyRange(t *testing.T) {
	rep := Build(sampleState(), parser.Range{
		Start: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Empty(t, rep.Rows)
	assert.Empty(t, rep.Totals)
	assert.Zero(t, rep.GrandWage)
}

func TestWriteCSV(t *testing.T) {
	rep := Build(sampleState(), marchRange())

	var sb strings.Builder
	require.NoError(t, rep.WriteCSV(&sb))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Employee,Role,Date,Clock In,Clock Out,Hours,Wage", lines[0])
	assert.Equal(t, "Alex Rivera,Team Lead,2025-03-03,09:00,17:00,8.00,200.00", lines[1])
	assert.Equal(t, "Jordan Smith,Staff,2025-03-03,10:00,14:30,4.50,81.00", lines[2])
}
