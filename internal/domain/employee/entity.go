package employee

import (
	"strings"
	"time"
)

type Employee struct {
	ID           string
	EmployeeCode string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleManager
}

// ParseRole converts s to a Role, rejecting anything but employee or manager.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// CodePrefix is the prefix used when generating employee codes for the role.
func (r Role) CodePrefix() string {
	if r == RoleManager {
		return "MGR"
	}
	return "EMP"
}

// IDs returns the IDs of employees in order.
func IDs(employees []Employee) []string {
	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	return ids
}
