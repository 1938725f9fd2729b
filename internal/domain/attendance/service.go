package attendance

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

// AttendanceService defines business logic for attendance operations.
// Every operation takes the caller explicitly; now is the caller's clock.
type AttendanceService interface {
	// CheckIn opens today's attendance for an employee
	CheckIn(ctx context.Context, principal auth.Principal, now time.Time) (CheckInResponse, error)

	// CheckOut closes today's attendance and settles worked hours
	CheckOut(ctx context.Context, principal auth.Principal, now time.Time) (CheckOutResponse, error)

	GetToday(ctx context.Context, principal auth.Principal, now time.Time) (TodayResponse, error)
	GetMyHistory(ctx context.Context, principal auth.Principal, filter MonthFilter, now time.Time) ([]RecordResponse, error)
	GetMySummary(ctx context.Context, principal auth.Principal, filter MonthFilter, now time.Time) (SummaryResponse, error)

	// Manager views
	ListAll(ctx context.Context, principal auth.Principal, filter ListFilter) ([]RecordWithEmployeeResponse, error)
	GetEmployeeAttendance(ctx context.Context, principal auth.Principal, employeeID string, filter MonthFilter, now time.Time) (EmployeeAttendanceResponse, error)
	GetTeamSummary(ctx context.Context, principal auth.Principal, filter MonthFilter, now time.Time) (TeamSummaryResponse, error)
	GetTodayStatus(ctx context.Context, principal auth.Principal, now time.Time) (TodayStatusResponse, error)

	// Export writes the filtered records as CSV to w
	Export(ctx context.Context, principal auth.Principal, filter ListFilter, w io.Writer) error

	// Limits reports the row caps applied to history and manager list queries
	Limits() (history, list int)

	// Subscribe opens the manager live feed on ManagersTopic
	Subscribe(ctx context.Context, principal auth.Principal) (<-chan sse.Event, func(), error)
}
