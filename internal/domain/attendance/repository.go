package attendance

import (
	"context"
	"time"
)

// RangeFilter selects records for FindRange. Zero values mean "no constraint".
// Dates are inclusive calendar days.
type RangeFilter struct {
	EmployeeID  string
	EmployeeIDs []string
	DateFrom    *time.Time
	DateTo      *time.Time
	Status      Status
	Limit       int
}

// AttendanceRepository stores at most one Record per (employee, date).
type AttendanceRepository interface {
	// FindOne returns the record for the employee on the given day, or nil when
	// there is none.
	FindOne(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// Upsert creates the (EmployeeID, Date) record or updates the existing one.
	// The update only applies while the stored row still accepts the write:
	// a check-in write needs a stored row without check-in, a check-out write
	// needs a stored row without check-out. Otherwise ErrRecordConflict.
	Upsert(ctx context.Context, record Record) (Record, error)

	// FindRange returns matching records ordered by date descending.
	FindRange(ctx context.Context, filter RangeFilter) ([]Record, error)
}
