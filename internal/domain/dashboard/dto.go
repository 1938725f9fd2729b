package dashboard

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// ========== EMPLOYEE DASHBOARD ==========

// EmployeeDashboardResponse is the combined view of the signed-in employee
type EmployeeDashboardResponse struct {
	TodayStatus      TodayStatusResponse         `json:"today_status"`
	MonthStats       MonthStatsResponse          `json:"month_stats"`
	RecentAttendance []attendance.RecordResponse `json:"recent_attendance"`
}

// TodayStatusResponse is the employee's own state for today. Status is absent
// when there is no record yet.
type TodayStatusResponse struct {
	IsCheckedIn  bool    `json:"is_checked_in"`
	IsCheckedOut bool    `json:"is_checked_out"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       string  `json:"status"`
}

type MonthStatsResponse struct {
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Present    int             `json:"present"`
	Absent     int             `json:"absent"`
	Late       int             `json:"late"`
	TotalHours decimal.Decimal `json:"total_hours"`
}

// ========== MANAGER DASHBOARD ==========

// ManagerDashboardResponse is the combined team view for managers
type ManagerDashboardResponse struct {
	TotalEmployees       int64                               `json:"total_employees"`
	TodayStats           TodayStatsResponse                  `json:"today_stats"`
	WeeklyTrend          []attendance.DayTrendResponse       `json:"weekly_trend"`
	DepartmentStats      []attendance.DepartmentStatResponse `json:"department_stats"`
	AbsentEmployeesToday []employee.Brief                    `json:"absent_employees_today"`
}

type TodayStatsResponse struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Late    int    `json:"late"`
}
