package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

// DashboardService composes the attendance engine into dashboard views
type DashboardService interface {
	// GetEmployeeDashboard returns today's state, month stats and the last week for the caller
	GetEmployeeDashboard(ctx context.Context, principal auth.Principal, now time.Time) (*EmployeeDashboardResponse, error)

	// GetManagerDashboard returns headcount, today's stats, weekly trend and department rollup
	GetManagerDashboard(ctx context.Context, principal auth.Principal, now time.Time) (*ManagerDashboardResponse, error)
}
