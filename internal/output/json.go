package output

import (
	"time"

	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/report"
	"github.com/wagetrack/wagetrack/internal/sync"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// EmployeeOutput represents an employee in JSON output.
type EmployeeOutput struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
	Emoji      string  `json:"emoji,omitempty"`
}

// ShiftOutput represents a shift in JSON output.
type ShiftOutput struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	ClockIn      string  `json:"clock_in"`
	ClockOut     string  `json:"clock_out,omitempty"`
	TotalHours   float64 `json:"total_hours"`
	EarnedWage   float64 `json:"earned_wage"`
	Open         bool    `json:"open"`
}

// NewEmployeeOutput creates an EmployeeOutput from an Employee.
func NewEmployeeOutput(e model.Employee) *EmployeeOutput {
	return &EmployeeOutput{
		ID:         e.ID,
		Name:       e.Name,
		Role:       e.Role,
		HourlyRate: e.HourlyRate,
		Emoji:      e.Emoji,
	}
}

// NewShiftOutput creates a ShiftOutput, resolving the employee name.
func NewShiftOutput(state model.AppState, s model.Shift) *ShiftOutput {
	out := &ShiftOutput{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Date:       s.Date,
		ClockIn:    s.ClockIn,
		ClockOut:   s.ClockOut,
		TotalHours: s.TotalHours,
		EarnedWage: s.EarnedWage,
		Open:       s.IsOpen(),
	}
	if emp, ok := state.Employee(s.EmployeeID); ok {
		out.EmployeeName = emp.Name
	}
	return out
}

// EmployeesResponse represents the roster list output in JSON.
type EmployeesResponse struct {
	Employees []*EmployeeOutput `json:"employees"`
	Count     int               `json:"count"`
}

// ShiftsResponse represents the shift list output in JSON.
type ShiftsResponse struct {
	Shifts []*ShiftOutput `json:"shifts"`
	Count  int            `json:"count"`
}

// SyncStatusResponse represents the sync status output in JSON.
type SyncStatusResponse struct {
	Account      string `json:"account,omitempty"`
	State        string `json:"state"`
	Dirty        bool   `json:"dirty"`
	LocalVersion int64  `json:"local_version"`
	LastSyncedAt string `json:"last_synced_at,omitempty"`
	LastError    string `json:"last_error,omitempty"`
}

// ReportResponse represents the payroll report output in JSON.
type ReportResponse struct {
	Start      string                 `json:"start"`
	End        string                 `json:"end"`
	Totals     []report.EmployeeTotal `json:"totals"`
	GrandHours float64                `json:"grand_hours"`
	GrandWage  float64                `json:"grand_wage"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PrintEmployees outputs the roster in JSON format.
func (j *JSONFormatter) PrintEmployees(employees []model.Employee) error {
	outputs := make([]*EmployeeOutput, len(employees))
	for i, e := range employees {
		outputs[i] = NewEmployeeOutput(e)
	}
	return j.JSON(EmployeesResponse{Employees: outputs, Count: len(outputs)})
}

// PrintShifts outputs shifts in JSON format.
func (j *JSONFormatter) PrintShifts(state model.AppState, shifts []model.Shift) error {
	outputs := make([]*ShiftOutput, len(shifts))
	for i, s := range shifts {
		outputs[i] = NewShiftOutput(state, s)
	}
	return j.JSON(ShiftsResponse{Shifts: outputs, Count: len(outputs)})
}

// PrintSyncStatus outputs the sync status in JSON format.
func (j *JSONFormatter) PrintSyncStatus(st sync.Status) error {
	resp := SyncStatusResponse{
		Account:      st.Account,
		State:        st.State.String(),
		Dirty:        st.Dirty,
		LocalVersion: st.LocalVersion,
		LastError:    st.LastError,
	}
	if !st.LastSyncedAt.IsZero() {
		resp.LastSyncedAt = st.LastSyncedAt.Format(time.RFC3339)
	}
	return j.JSON(resp)
}

// PrintReport outputs the payroll report in JSON format.
func (j *JSONFormatter) PrintReport(rep report.Report) error {
	return j.JSON(ReportResponse{
		Start:      rep.Range.Start.Format("2006-01-02"),
		End:        rep.Range.End.AddDate(0, 0, -1).Format("2006-01-02"),
		Totals:     rep.Totals,
		GrandHours: rep.GrandHours,
		GrandWage:  rep.GrandWage,
	})
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message string) error {
	return j.JSON(ErrorResponse{Status: status, Error: errMsg, Message: message})
}
