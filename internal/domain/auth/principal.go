package auth

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"

// Principal identifies the authenticated caller of a service operation.
type Principal struct {
	EmployeeID string
	Email      string
	Role       employee.Role
}

func (p Principal) IsManager() bool {
	return p.Role == employee.RoleManager
}

func (p Principal) IsEmployee() bool {
	return p.Role == employee.RoleEmployee
}
