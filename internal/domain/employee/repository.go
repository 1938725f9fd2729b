package employee

import "context"

// EmployeeRepository is the read side of the employee directory plus the
// Create used by registration and seeding. Lookups return ErrEmployeeNotFound
// when nothing matches.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)

	// ListActive returns active employees with the given role ordered by employee code.
	ListActive(ctx context.Context, role Role) ([]Employee, error)
	CountActive(ctx context.Context, role Role) (int64, error)

	// CountByRole counts every employee with the role, active or not.
	CountByRole(ctx context.Context, role Role) (int64, error)

	Create(ctx context.Context, newEmployee Employee) (Employee, error)
}
