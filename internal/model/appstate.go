package model

import "time"

// AppState is the aggregate state owned by one account: the employee
// roster and the shift log, plus the version counter and timestamp the
// sync protocol arbitrates with.
//
// Version is bumped only by the remote store when it accepts a push.
// UpdatedAt is stamped by whichever side last accepted a write and is
// the tiebreak when two copies carry the same version.
type AppState struct {
	Employees []Employee `json:"employees"`
	Shifts    []Shift    `json:"shifts"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int64      `json:"version"`
}

// Clone returns a deep copy of the state. Record store mutations always
// operate on a clone so the caller's copy is never touched.
func (s AppState) Clone() AppState {
	out := AppState{
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
	}
	if s.Employees != nil {
		out.Employees = make([]Employee, len(s.Employees))
		copy(out.Employees, s.Employees)
	}
	if s.Shifts != nil {
		out.Shifts = make([]Shift, len(s.Shifts))
		copy(out.Shifts, s.Shifts)
	}
	return out
}

// Employee returns the employee with the given id, if present.
func (s *AppState) Employee(id string) (Employee, bool) {
	for _, e := range s.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

// Shift returns the shift with the given id, if present.
func (s *AppState) Shift(id string) (Shift, bool) {
	for _, sh := range s.Shifts {
		if sh.ID == id {
			return sh, true
		}
	}
	return Shift{}, false
}

// ShiftsFor returns all shifts belonging to one employee.
func (s *AppState) ShiftsFor(employeeID string) []Shift {
	var out []Shift
	for _, sh := range s.Shifts {
		if sh.EmployeeID == employeeID {
			out = append(out, sh)
		}
	}
	return out
}

// SeedEmployees is the example roster a brand-new account starts with.
func SeedEmployees() []Employee {
	return []Employee{
		{ID: "1", Name: "Alex Rivera", Role: "Team Lead", HourlyRate: 25, Avatar: AvatarFor("Alex Rivera")},
		{ID: "2", Name: "Jordan Smith", Role: "Staff", HourlyRate: 18, Avatar: AvatarFor("Jordan Smith")},
		{ID: "3", Name: "Casey Johnson", Role: "Staff", HourlyRate: 18, Avatar: AvatarFor("Casey Johnson")},
	}
}

// DefaultState returns the state a new or unreadable account falls back
// to: the seed roster, no shifts, version 0.
func DefaultState() AppState {
	return AppState{
		Employees: SeedEmployees(),
		Shifts:    []Shift{},
		Version:   0,
	}
}
