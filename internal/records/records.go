// Package records implements in-memory CRUD over an account's AppState.
//
// Every operation validates its input, then returns a new AppState value
// built from a clone of the input state. The caller decides what to do
// with the result; nothing here persists or syncs.
package records

import (
	"time"

	"github.com/google/uuid"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/validate"
)

// timeNow is a test seam for clock control.
var timeNow = time.Now

// EmployeeInput carries the fields of an employee create or update.
type EmployeeInput struct {
	Name       string
	Role       string
	HourlyRate float64
	Emoji      string
}

func (in *EmployeeInput) validate() error {
	if err := validate.EmployeeName(in.Name); err != nil {
		return err
	}
	if err := validate.Role(in.Role); err != nil {
		return err
	}
	return validate.HourlyRate(in.HourlyRate)
}

// ShiftInput carries the fields of a shift create or update.
type ShiftInput struct {
	EmployeeID string
	Date       string
	ClockIn    string
	ClockOut   string
}

func (in *ShiftInput) validate() error {
	if err := validate.ShiftDate(in.Date); err != nil {
		return err
	}
	if err := validate.TimeOfDay(in.ClockIn); err != nil {
		return err
	}
	if in.ClockOut != "" {
		if err := validate.TimeOfDay(in.ClockOut); err != nil {
			return err
		}
	}
	return nil
}

// AddEmployee appends a new employee to the roster.
func AddEmployee(state model.AppState, in EmployeeInput) (model.AppState, model.Employee, error) {
	in.Name = validate.SanitizeName(in.Name)
	in.Role = validate.SanitizeName(in.Role)
	if err := in.validate(); err != nil {
		return state, model.Employee{}, err
	}
	if len(state.Employees) >= model.MaxEmployees {
		return state, model.Employee{}, errors.ErrEmployeeLimit
	}

	id, err := uuid.NewV7()
	if err != nil {
		return state, model.Employee{}, err
	}

	emp := model.NewEmployee(id.String(), in.Name, in.Role, in.HourlyRate, in.Emoji)

	next := state.Clone()
	next.Employees = append(next.Employees, emp)
	next.UpdatedAt = timeNow()
	return next, emp, nil
}

// UpdateEmployee replaces the editable fields of an existing employee.
// Shifts already logged keep the wage computed at their creation time.
func UpdateEmployee(state model.AppState, id string, in EmployeeInput) (model.AppState, error) {
	in.Name = validate.SanitizeName(in.Name)
	in.Role = validate.SanitizeName(in.Role)
	if err := in.validate(); err != nil {
		return state, err
	}

	next := state.Clone()
	for i := range next.Employees {
		if next.Employees[i].ID == id {
			next.Employees[i].Name = in.Name
			next.Employees[i].Role = in.Role
			next.Employees[i].HourlyRate = in.HourlyRate
			if in.Emoji != "" {
				next.Employees[i].Emoji = in.Emoji
			}
			next.UpdatedAt = timeNow()
			return next, nil
		}
	}
	return state, errors.Wrapf(errors.ErrEmployeeNotFound, "employee %s", id)
}

// DeleteEmployee removes an employee and every shift that references
// them, in one step. No orphan shifts survive.
func DeleteEmployee(state model.AppState, id string) (model.AppState, error) {
	if _, ok := state.Employee(id); !ok {
		return state, errors.Wrapf(errors.ErrEmployeeNotFound, "employee %s", id)
	}

	next := state.Clone()
	employees := next.Employees[:0]
	for _, e := range next.Employees {
		if e.ID != id {
			employees = append(employees, e)
		}
	}
	next.Employees = employees

	shifts := next.Shifts[:0]
	for _, s := range next.Shifts {
		if s.EmployeeID != id {
			shifts = append(shifts, s)
		}
	}
	next.Shifts = shifts
	next.UpdatedAt = timeNow()
	return next, nil
}

// AddShift logs a new shift for an employee. Hours and wage are
// computed here, against the employee's current rate, and frozen.
func AddShift(state model.AppState, in ShiftInput) (model.AppState, model.Shift, error) {
	if err := in.validate(); err != nil {
		return state, model.Shift{}, err
	}
	emp, ok := state.Employee(in.EmployeeID)
	if !ok {
		return state, model.Shift{}, errors.Wrapf(errors.ErrEmployeeNotFound, "employee %s", in.EmployeeID)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return state, model.Shift{}, err
	}

	shift, err := buildShift(id.String(), emp, in)
	if err != nil {
		return state, model.Shift{}, err
	}

	next := state.Clone()
	next.Shifts = append(next.Shifts, shift)
	next.UpdatedAt = timeNow()
	return next, shift, nil
}

// UpdateShift replaces an existing shift's fields and recomputes hours
// and wage from the referenced employee's current rate.
func UpdateShift(state model.AppState, id string, in ShiftInput) (model.AppState, error) {
	if err := in.validate(); err != nil {
		return state, err
	}
	if _, ok := state.Shift(id); !ok {
		return state, errors.Wrapf(errors.ErrShiftNotFound, "shift %s", id)
	}
	emp, ok := state.Employee(in.EmployeeID)
	if !ok {
		return state, errors.Wrapf(errors.ErrEmployeeNotFound, "employee %s", in.EmployeeID)
	}

	shift, err := buildShift(id, emp, in)
	if err != nil {
		return state, err
	}

	next := state.Clone()
	for i := range next.Shifts {
		if next.Shifts[i].ID == id {
			next.Shifts[i] = shift
			break
		}
	}
	next.UpdatedAt = timeNow()
	return next, nil
}

// DeleteShift removes a single shift entry.
func DeleteShift(state model.AppState, id string) (model.AppState, error) {
	if _, ok := state.Shift(id); !ok {
		return state, errors.Wrapf(errors.ErrShiftNotFound, "shift %s", id)
	}

	next := state.Clone()
	shifts := next.Shifts[:0]
	for _, s := range next.Shifts {
		if s.ID != id {
			shifts = append(shifts, s)
		}
	}
	next.Shifts = shifts
	next.UpdatedAt = timeNow()
	return next, nil
}

// buildShift assembles a shift with computed hours and wage. An open
// shift (no clock-out) has zero hours and wage until it is closed.
func buildShift(id string, emp model.Employee, in ShiftInput) (model.Shift, error) {
	shift := model.Shift{
		ID:         id,
		EmployeeID: emp.ID,
		Date:       in.Date,
		ClockIn:    in.ClockIn,
		ClockOut:   in.ClockOut,
	}
	if in.ClockOut != "" {
		hours, err := model.HoursBetween(in.ClockIn, in.ClockOut)
		if err != nil {
			return model.Shift{}, errors.NewUserErrorWithField("time", in.ClockOut,
				"Invalid clock time", "Use 24-hour HH:MM")
		}
		shift.TotalHours = hours
		shift.EarnedWage = model.Round2(hours * emp.HourlyRate)
	}
	return shift, nil
}

// CheckIntegrity verifies the foreign-key invariant: every shift must
// reference a live employee. Returns the ids of any orphaned shifts.
func CheckIntegrity(state model.AppState) []string {
	var orphans []string
	for _, s := range state.Shifts {
		if _, ok := state.Employee(s.EmployeeID); !ok {
			orphans = append(orphans, s.ID)
		}
	}
	return orphans
}
