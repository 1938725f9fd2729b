package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	DefaultHistoryLimit = 100
	DefaultListLimit    = 500
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policy       attendance.Policy
	historyLimit int
	listLimit    int
	hub          *sse.Hub
}

type Option func(*AttendanceServiceImpl)

// WithEventHub publishes check-ins and check-outs to hub instead of a
// private one.
func WithEventHub(hub *sse.Hub) Option {
	return func(a *AttendanceServiceImpl) {
		a.hub = hub
	}
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	policy attendance.Policy,
	historyLimit int,
	listLimit int,
	opts ...Option,
) attendance.AttendanceService {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	svc := &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		policy:               policy,
		historyLimit:         historyLimit,
		listLimit:            listLimit,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.hub == nil {
		svc.hub = sse.NewHub()
	}
	return svc
}

func requireEmployee(principal auth.Principal) error {
	if !principal.IsEmployee() || principal.EmployeeID == "" {
		return attendance.ErrAccessDenied
	}
	return nil
}

func requireManager(principal auth.Principal) error {
	if !principal.IsManager() {
		return attendance.ErrAccessDenied
	}
	return nil
}

func formatInstant(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Limits implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Limits() (history, list int) {
	return a.historyLimit, a.listLimit
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, principal auth.Principal, now time.Time) (attendance.CheckInResponse, error) {
	if err := requireEmployee(principal); err != nil {
		return attendance.CheckInResponse{}, err
	}
	if a.policy.IsNonWorkingDay(now) {
		return attendance.CheckInResponse{}, attendance.ErrForbiddenDay
	}

	today := a.policy.DayOf(now)
	existing, err := a.AttendanceRepository.FindOne(ctx, principal.EmployeeID, today)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if existing != nil && existing.IsCheckedIn() {
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	}

	checkIn := now.In(today.Location())
	status := a.policy.DetermineCheckInStatus(&checkIn)

	saved, err := a.AttendanceRepository.Upsert(ctx, attendance.Record{
		EmployeeID:  principal.EmployeeID,
		Date:        today,
		CheckInTime: &checkIn,
		Status:      status,
		TotalHours:  decimal.Zero,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrRecordConflict) {
			return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.CheckInResponse{}, fmt.Errorf("failed to save check-in: %w", err)
	}

	slog.Info("employee checked in", "employee_id", principal.EmployeeID, "date", today.Format(attendance.DateLayout), "status", saved.Status)
	a.publish(ctx, attendance.EventCheckedIn, saved)

	return attendance.CheckInResponse{
		CheckInTime: formatInstant(saved.CheckInTime),
		Status:      string(saved.Status),
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, principal auth.Principal, now time.Time) (attendance.CheckOutResponse, error) {
	if err := requireEmployee(principal); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	today := a.policy.DayOf(now)
	existing, err := a.AttendanceRepository.FindOne(ctx, principal.EmployeeID, today)
	if err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if existing == nil || !existing.IsCheckedIn() {
		return attendance.CheckOutResponse{}, attendance.ErrNotCheckedIn
	}
	if existing.IsCheckedOut() {
		return attendance.CheckOutResponse{}, attendance.ErrAlreadyCheckedOut
	}

	checkOut := now.In(today.Location())
	totalHours, err := attendance.ComputeHours(existing.CheckInTime, &checkOut)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}
	status := a.policy.ApplyHalfDayOverride(existing.Status, totalHours)

	saved, err := a.AttendanceRepository.Upsert(ctx, attendance.Record{
		EmployeeID:   principal.EmployeeID,
		Date:         today,
		CheckInTime:  existing.CheckInTime,
		CheckOutTime: &checkOut,
		Status:       status,
		TotalHours:   totalHours,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrRecordConflict) {
			return attendance.CheckOutResponse{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to save check-out: %w", err)
	}

	slog.Info("employee checked out", "employee_id", principal.EmployeeID, "date", today.Format(attendance.DateLayout), "status", saved.Status, "total_hours", saved.TotalHours.String())
	a.publish(ctx, attendance.EventCheckedOut, saved)

	return attendance.CheckOutResponse{
		CheckOutTime: formatInstant(saved.CheckOutTime),
		TotalHours:   saved.TotalHours,
		Status:       string(saved.Status),
	}, nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, principal auth.Principal, now time.Time) (attendance.TodayResponse, error) {
	if err := requireEmployee(principal); err != nil {
		return attendance.TodayResponse{}, err
	}

	record, err := a.AttendanceRepository.FindOne(ctx, principal.EmployeeID, a.policy.DayOf(now))
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if record == nil {
		return attendance.TodayResponse{}, nil
	}

	resp := attendance.ToRecordResponse(*record)
	return attendance.TodayResponse{
		Attendance:   &resp,
		IsCheckedIn:  record.IsCheckedIn(),
		IsCheckedOut: record.IsCheckedOut(),
	}, nil
}

// monthBounds returns the month range when the filter names a month, nil
// bounds otherwise.
func (a *AttendanceServiceImpl) monthBounds(filter attendance.MonthFilter, now time.Time) (*time.Time, *time.Time) {
	if !filter.IsSet() {
		return nil, nil
	}
	first, last := a.policy.MonthRange(filter.Resolve(now, a.policy))
	return &first, &last
}

// GetMyHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyHistory(ctx context.Context, principal auth.Principal, filter attendance.MonthFilter, now time.Time) ([]attendance.RecordResponse, error) {
	if err := requireEmployee(principal); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	from, to := a.monthBounds(filter, now)
	records, err := a.AttendanceRepository.FindRange(ctx, attendance.RangeFilter{
		EmployeeID: principal.EmployeeID,
		DateFrom:   from,
		DateTo:     to,
		Limit:      a.historyLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance history: %w", err)
	}

	return attendance.ToRecordResponses(records), nil
}

// GetMySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMySummary(ctx context.Context, principal auth.Principal, filter attendance.MonthFilter, now time.Time) (attendance.SummaryResponse, error) {
	if err := requireEmployee(principal); err != nil {
		return attendance.SummaryResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	year, month := filter.Resolve(now, a.policy)
	first, last := a.policy.MonthRange(year, month)

	records, err := a.AttendanceRepository.FindRange(ctx, attendance.RangeFilter{
		EmployeeID: principal.EmployeeID,
		DateFrom:   &first,
		DateTo:     &last,
	})
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to load monthly attendance: %w", err)
	}

	return attendance.ToSummaryResponse(attendance.Summarize(records), year, month), nil
}

// directoryFor loads the owners of records.
func (a *AttendanceServiceImpl) directoryFor(ctx context.Context, records []attendance.Record) (attendance.Directory, error) {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.EmployeeID]; ok {
			continue
		}
		seen[r.EmployeeID] = struct{}{}
		ids = append(ids, r.EmployeeID)
	}

	employees, err := a.EmployeeRepository.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	return attendance.NewDirectory(employees), nil
}

// findFiltered resolves a ListFilter against the store. limit <= 0 is unbounded.
func (a *AttendanceServiceImpl) findFiltered(ctx context.Context, filter attendance.ListFilter, limit int) ([]attendance.Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rangeFilter := attendance.RangeFilter{
		Status: attendance.Status(filter.Status),
		Limit:  limit,
	}
	rangeFilter.DateFrom, rangeFilter.DateTo = filter.DateRange(a.policy)

	if filter.EmployeeCode != "" {
		emp, err := a.EmployeeRepository.GetByEmployeeCode(ctx, filter.EmployeeCode)
		if err != nil {
			return nil, err
		}
		rangeFilter.EmployeeID = emp.ID
	}

	records, err := a.AttendanceRepository.FindRange(ctx, rangeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	return records, nil
}

// joinEmployees pairs records with their owners. Records whose owner is gone
// are dropped.
func joinEmployees(records []attendance.Record, dir attendance.Directory) []attendance.RecordWithEmployeeResponse {
	out := make([]attendance.RecordWithEmployeeResponse, 0, len(records))
	for _, r := range records {
		emp, ok := dir[r.EmployeeID]
		if !ok {
			continue
		}
		out = append(out, attendance.RecordWithEmployeeResponse{
			RecordResponse: attendance.ToRecordResponse(r),
			Employee:       employee.ToBrief(emp),
		})
	}
	return out
}

// ListAll implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAll(ctx context.Context, principal auth.Principal, filter attendance.ListFilter) ([]attendance.RecordWithEmployeeResponse, error) {
	if err := requireManager(principal); err != nil {
		return nil, err
	}

	records, err := a.findFiltered(ctx, filter, a.listLimit)
	if err != nil {
		return nil, err
	}
	dir, err := a.directoryFor(ctx, records)
	if err != nil {
		return nil, err
	}

	return joinEmployees(records, dir), nil
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, principal auth.Principal, employeeID string, filter attendance.MonthFilter, now time.Time) (attendance.EmployeeAttendanceResponse, error) {
	if err := requireManager(principal); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}
	if !validator.IsValidUUID(employeeID) {
		return attendance.EmployeeAttendanceResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	from, to := a.monthBounds(filter, now)
	records, err := a.AttendanceRepository.FindRange(ctx, attendance.RangeFilter{
		EmployeeID: emp.ID,
		DateFrom:   from,
		DateTo:     to,
		Limit:      a.historyLimit,
	})
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, fmt.Errorf("failed to load employee attendance: %w", err)
	}

	return attendance.EmployeeAttendanceResponse{
		Employee:   employee.ToBrief(emp),
		Attendance: attendance.ToRecordResponses(records),
	}, nil
}

// GetTeamSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTeamSummary(ctx context.Context, principal auth.Principal, filter attendance.MonthFilter, now time.Time) (attendance.TeamSummaryResponse, error) {
	if err := requireManager(principal); err != nil {
		return attendance.TeamSummaryResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.TeamSummaryResponse{}, err
	}

	year, month := filter.Resolve(now, a.policy)
	first, last := a.policy.MonthRange(year, month)

	records, err := a.AttendanceRepository.FindRange(ctx, attendance.RangeFilter{
		DateFrom: &first,
		DateTo:   &last,
	})
	if err != nil {
		return attendance.TeamSummaryResponse{}, fmt.Errorf("failed to load team attendance: %w", err)
	}
	dir, err := a.directoryFor(ctx, records)
	if err != nil {
		return attendance.TeamSummaryResponse{}, err
	}

	return attendance.TeamSummaryResponse{
		Month:   int(month),
		Year:    year,
		Summary: attendance.ToTeamSummaryRows(attendance.TeamSummary(records, dir)),
	}, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, principal auth.Principal, now time.Time) (attendance.TodayStatusResponse, error) {
	if err := requireManager(principal); err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	today := a.policy.DayOf(now)
	roster, err := a.EmployeeRepository.ListActive(ctx, employee.RoleEmployee)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to load roster: %w", err)
	}
	var records []attendance.Record
	if len(roster) > 0 {
		records, err = a.AttendanceRepository.FindRange(ctx, attendance.RangeFilter{
			EmployeeIDs: employee.IDs(roster),
			DateFrom:    &today,
			DateTo:      &today,
		})
		if err != nil {
			return attendance.TodayStatusResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
		}
	}

	return attendance.ToTodayStatusResponse(attendance.BuildTodayStatus(records, roster), today), nil
}

// publish sends the saved record with its owner to the manager feed. The
// owner lookup only happens while someone is listening.
func (a *AttendanceServiceImpl) publish(ctx context.Context, event string, record attendance.Record) {
	if a.hub.SubscriberCount(attendance.ManagersTopic) == 0 {
		return
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, record.EmployeeID)
	if err != nil {
		slog.Warn("live feed skipped", "event", event, "employee_id", record.EmployeeID, "error", err)
		return
	}

	a.hub.Publish(attendance.ManagersTopic, sse.Event{
		Event: event,
		Data: attendance.RecordWithEmployeeResponse{
			RecordResponse: attendance.ToRecordResponse(record),
			Employee:       employee.ToBrief(emp),
		},
	})
}

// Subscribe implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Subscribe(ctx context.Context, principal auth.Principal) (<-chan sse.Event, func(), error) {
	if err := requireManager(principal); err != nil {
		return nil, nil, err
	}

	events, cleanup := a.hub.Subscribe(attendance.ManagersTopic)
	slog.Info("live feed subscribed", "employee_id", principal.EmployeeID)
	return events, cleanup, nil
}
