package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policy attendance.Policy
}

func NewDashboardService(attendanceRepository attendance.AttendanceRepository, employeeRepository employee.EmployeeRepository, policy attendance.Policy) dashboard.DashboardService {
	return &DashboardServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		policy:               policy,
	}
}

// weekWindow returns the first and last day of the trailing TrendDays window.
func (s *DashboardServiceImpl) weekWindow(now time.Time) (time.Time, time.Time) {
	today := s.policy.DayOf(now)
	return today.AddDate(0, 0, -(attendance.TrendDays - 1)), today
}

// GetEmployeeDashboard returns the caller's dashboard using parallel goroutines
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context, principal auth.Principal, now time.Time) (*dashboard.EmployeeDashboardResponse, error) {
	if !principal.IsEmployee() {
		return nil, attendance.ErrAccessDenied
	}

	today := s.policy.DayOf(now)
	year, month := today.Year(), today.Month()
	monthStart, monthEnd := s.policy.MonthRange(year, month)
	weekStart, weekEnd := s.weekWindow(now)

	var (
		todayRecord  *attendance.Record
		monthRecords []attendance.Record
		recent       []attendance.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's record
	g.Go(func() error {
		record, err := s.AttendanceRepository.FindOne(gCtx, principal.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to load today's attendance: %w", err)
		}
		todayRecord = record
		return nil
	})

	// 2. Current month
	g.Go(func() error {
		records, err := s.AttendanceRepository.FindRange(gCtx, attendance.RangeFilter{
			EmployeeID: principal.EmployeeID,
			DateFrom:   &monthStart,
			DateTo:     &monthEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to load monthly attendance: %w", err)
		}
		monthRecords = records
		return nil
	})

	// 3. Trailing week
	g.Go(func() error {
		records, err := s.AttendanceRepository.FindRange(gCtx, attendance.RangeFilter{
			EmployeeID: principal.EmployeeID,
			DateFrom:   &weekStart,
			DateTo:     &weekEnd,
			Limit:      attendance.TrendDays,
		})
		if err != nil {
			return fmt.Errorf("failed to load recent attendance: %w", err)
		}
		recent = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	todayStatus := dashboard.TodayStatusResponse{Status: string(attendance.StatusAbsent)}
	if todayRecord != nil {
		todayStatus = dashboard.TodayStatusResponse{
			IsCheckedIn:  todayRecord.IsCheckedIn(),
			IsCheckedOut: todayRecord.IsCheckedOut(),
			CheckInTime:  attendance.TimePtrToString(todayRecord.CheckInTime),
			CheckOutTime: attendance.TimePtrToString(todayRecord.CheckOutTime),
			Status:       string(todayRecord.Status),
		}
	}

	summary := attendance.Summarize(monthRecords)

	return &dashboard.EmployeeDashboardResponse{
		TodayStatus: todayStatus,
		MonthStats: dashboard.MonthStatsResponse{
			Month:      int(month),
			Year:       year,
			Present:    summary.Present,
			Absent:     summary.Absent,
			Late:       summary.Late,
			TotalHours: summary.TotalHours,
		},
		RecentAttendance: attendance.ToRecordResponses(recent),
	}, nil
}

// GetManagerDashboard returns the team dashboard using parallel goroutines
func (s *DashboardServiceImpl) GetManagerDashboard(ctx context.Context, principal auth.Principal, now time.Time) (*dashboard.ManagerDashboardResponse, error) {
	if !principal.IsManager() {
		return nil, attendance.ErrAccessDenied
	}

	weekStart, today := s.weekWindow(now)

	var (
		totalEmployees int64
		roster         []employee.Employee
		weekRecords    []attendance.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Headcount
	g.Go(func() error {
		count, err := s.EmployeeRepository.CountActive(gCtx, employee.RoleEmployee)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		totalEmployees = count
		return nil
	})

	// 2. Roster
	g.Go(func() error {
		employees, err := s.EmployeeRepository.ListActive(gCtx, employee.RoleEmployee)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		roster = employees
		return nil
	})

	// 3. Records of the trailing week
	g.Go(func() error {
		records, err := s.AttendanceRepository.FindRange(gCtx, attendance.RangeFilter{
			DateFrom: &weekStart,
			DateTo:   &today,
		})
		if err != nil {
			return fmt.Errorf("failed to load weekly attendance: %w", err)
		}
		weekRecords = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	todayRecords := make([]attendance.Record, 0)
	for _, r := range weekRecords {
		if r.Date.Equal(today) {
			todayRecords = append(todayRecords, r)
		}
	}

	status := attendance.BuildTodayStatus(todayRecords, roster)
	absent := make([]employee.Brief, 0, len(status.AbsentEmployees))
	for _, e := range status.AbsentEmployees {
		absent = append(absent, employee.ToBrief(e))
	}

	return &dashboard.ManagerDashboardResponse{
		TotalEmployees: totalEmployees,
		TodayStats: dashboard.TodayStatsResponse{
			Date:    today.Format(attendance.DateLayout),
			Present: status.Present,
			Absent:  status.Absent,
			Late:    status.Late,
		},
		WeeklyTrend:          attendance.ToDayTrendResponses(attendance.WeeklyTrend(weekRecords, today, int(totalEmployees), s.policy)),
		DepartmentStats:      attendance.ToDepartmentStatResponses(attendance.DepartmentRollup(todayRecords, roster)),
		AbsentEmployeesToday: absent,
	}, nil
}
