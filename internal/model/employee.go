package model

import "fmt"

// Employee represents a staff member on an account's payroll.
type Employee struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
	Avatar     string  `json:"avatar,omitempty"`
	Emoji      string  `json:"emoji,omitempty"`
}

// NewEmployee creates an employee with a generated avatar reference.
func NewEmployee(id, name, role string, hourlyRate float64, emoji string) Employee {
	return Employee{
		ID:         id,
		Name:       name,
		Role:       role,
		HourlyRate: hourlyRate,
		Avatar:     AvatarFor(name),
		Emoji:      emoji,
	}
}

// AvatarFor returns a deterministic placeholder avatar URI for a name.
func AvatarFor(name string) string {
	seed := ""
	for _, r := range name {
		if r != ' ' {
			seed += string(r)
		}
	}
	return fmt.Sprintf("https://picsum.photos/seed/%s/150", seed)
}
