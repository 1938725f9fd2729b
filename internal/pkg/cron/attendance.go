package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	policy         attendance.Policy
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository, policy attendance.Policy) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		policy:         policy,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees writes an absent record for every active employee with
// no record on the working day before now. Employees created after that day
// are skipped. Running it again for the same day writes nothing.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context, now time.Time) error {
	day := j.policy.DayOf(now).AddDate(0, 0, -1)
	if j.policy.IsNonWorkingDay(day) {
		return nil
	}

	roster, err := j.employeeRepo.ListActive(ctx, employee.RoleEmployee)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}
	if len(roster) == 0 {
		return nil
	}

	existing, err := j.attendanceRepo.FindRange(ctx, attendance.RangeFilter{
		EmployeeIDs: employee.IDs(roster),
		DateFrom:    &day,
		DateTo:      &day,
	})
	if err != nil {
		return fmt.Errorf("failed to get attendance for %s: %w", day.Format(attendance.DateLayout), err)
	}
	recorded := make(map[string]bool, len(existing))
	for _, r := range existing {
		recorded[r.EmployeeID] = true
	}

	marked := 0
	for _, emp := range roster {
		if recorded[emp.ID] || j.policy.DayOf(emp.CreatedAt).After(day) {
			continue
		}

		_, err := j.attendanceRepo.Upsert(ctx, attendance.Record{
			EmployeeID: emp.ID,
			Date:       day,
			Status:     attendance.StatusAbsent,
			TotalHours: decimal.Zero,
		})
		if err != nil {
			// a check-in landed after the range query
			if errors.Is(err, attendance.ErrRecordConflict) {
				continue
			}
			return fmt.Errorf("failed to mark %s absent: %w", emp.EmployeeCode, err)
		}
		marked++
	}

	if marked > 0 {
		slog.Info("Cron: Marked absent employees", "date", day.Format(attendance.DateLayout), "count", marked)
	}
	return nil
}
