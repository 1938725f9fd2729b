package attendance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

const (
	exportTimeLayout = "2006-01-02 15:04:05"
	notAvailable     = "N/A"
)

var exportHeader = []string{
	"Employee ID", "Name", "Email", "Department", "Date", "Check In", "Check Out", "Status", "Total Hours",
}

func exportTime(t *time.Time) string {
	if t == nil {
		return notAvailable
	}
	return t.Format(exportTimeLayout)
}

// Export implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Export(ctx context.Context, principal auth.Principal, filter attendance.ListFilter, w io.Writer) error {
	if err := requireManager(principal); err != nil {
		return err
	}

	records, err := a.findFiltered(ctx, filter, 0)
	if err != nil {
		return err
	}
	dir, err := a.directoryFor(ctx, records)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, r := range records {
		emp, ok := dir[r.EmployeeID]
		if !ok {
			continue
		}
		row := []string{
			emp.EmployeeCode,
			emp.Name,
			emp.Email,
			emp.Department,
			r.Date.Format(attendance.DateLayout),
			exportTime(r.CheckInTime),
			exportTime(r.CheckOutTime),
			string(r.Status),
			r.TotalHours.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}
