package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// REQUEST FILTERS
// ========================================

// MonthFilter selects a calendar month. A month without a year uses the
// current year; a year without a month is rejected.
type MonthFilter struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (f *MonthFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month < 0 || f.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if f.Year != 0 && (f.Year < 1970 || f.Year > 9999) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 1970 and 9999",
		})
	} else if f.Year != 0 && f.Month == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required when year is given",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsSet reports whether a month was requested explicitly.
func (f MonthFilter) IsSet() bool {
	return f.Month != 0
}

// Resolve fills missing fields from now, in the policy location.
func (f MonthFilter) Resolve(now time.Time, policy Policy) (int, time.Month) {
	local := policy.DayOf(now)
	year, month := local.Year(), local.Month()
	if f.Year != 0 {
		year = f.Year
	}
	if f.Month != 0 {
		month = time.Month(f.Month)
	}
	return year, month
}

// ListFilter is the manager-wide record query.
type ListFilter struct {
	EmployeeCode string `json:"employee_code,omitempty"`
	StartDate    string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       string `json:"status,omitempty"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var hasStart, hasEnd bool
	if f.StartDate != "" {
		if start, hasStart = validator.IsValidDate(f.StartDate); !hasStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != "" {
		if end, hasEnd = validator.IsValidDate(f.EndDate); !hasEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if hasStart && hasEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if f.Status != "" && !Status(f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, late, half-day",
		})
	}

	if f.EmployeeCode != "" && !validator.IsValidEmployeeCode(f.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must look like EMP001",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DateRange returns the parsed bounds in the policy location. Call after Validate.
func (f ListFilter) DateRange(policy Policy) (*time.Time, *time.Time) {
	parse := func(s string) *time.Time {
		if s == "" {
			return nil
		}
		t, err := time.ParseInLocation(DateLayout, s, policy.location())
		if err != nil {
			return nil
		}
		return &t
	}
	return parse(f.StartDate), parse(f.EndDate)
}

// ========================================
// RESPONSES
// ========================================

// TimePtrToString formats an optional instant as RFC3339.
func TimePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

type RecordResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	Date         string          `json:"date"`
	CheckInTime  *string         `json:"check_in_time"`
	CheckOutTime *string         `json:"check_out_time"`
	Status       string          `json:"status"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

func ToRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		Date:         r.Date.Format(DateLayout),
		CheckInTime:  TimePtrToString(r.CheckInTime),
		CheckOutTime: TimePtrToString(r.CheckOutTime),
		Status:       string(r.Status),
		TotalHours:   r.TotalHours,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}

func ToRecordResponses(records []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToRecordResponse(r))
	}
	return out
}

// RecordWithEmployeeResponse is a record joined with its owner's metadata.
type RecordWithEmployeeResponse struct {
	RecordResponse
	Employee employee.Brief `json:"employee"`
}

type CheckInResponse struct {
	CheckInTime string `json:"check_in_time"`
	Status      string `json:"status"`
}

type CheckOutResponse struct {
	CheckOutTime string          `json:"check_out_time"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	Status       string          `json:"status"`
}

type TodayResponse struct {
	Attendance   *RecordResponse `json:"attendance"`
	IsCheckedIn  bool            `json:"is_checked_in"`
	IsCheckedOut bool            `json:"is_checked_out"`
}

type SummaryResponse struct {
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Present    int             `json:"present"`
	Absent     int             `json:"absent"`
	Late       int             `json:"late"`
	HalfDay    int             `json:"half_day"`
	TotalHours decimal.Decimal `json:"total_hours"`
	TotalDays  int             `json:"total_days"`
}

func ToSummaryResponse(s Summary, year int, month time.Month) SummaryResponse {
	return SummaryResponse{
		Month:      int(month),
		Year:       year,
		Present:    s.Present,
		Absent:     s.Absent,
		Late:       s.Late,
		HalfDay:    s.HalfDay,
		TotalHours: s.TotalHours,
		TotalDays:  s.TotalDays,
	}
}

type EmployeeAttendanceResponse struct {
	Employee   employee.Brief   `json:"employee"`
	Attendance []RecordResponse `json:"attendance"`
}

type TeamSummaryRowResponse struct {
	EmployeeCode string          `json:"employee_code"`
	Name         string          `json:"name"`
	Department   string          `json:"department"`
	Present      int             `json:"present"`
	Absent       int             `json:"absent"`
	Late         int             `json:"late"`
	HalfDay      int             `json:"half_day"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}

type TeamSummaryResponse struct {
	Month   int                      `json:"month"`
	Year    int                      `json:"year"`
	Summary []TeamSummaryRowResponse `json:"summary"`
}

func ToTeamSummaryRows(rows []TeamSummaryRow) []TeamSummaryRowResponse {
	out := make([]TeamSummaryRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, TeamSummaryRowResponse{
			EmployeeCode: row.Employee.EmployeeCode,
			Name:         row.Employee.Name,
			Department:   row.Employee.Department,
			Present:      row.Summary.Present,
			Absent:       row.Summary.Absent,
			Late:         row.Summary.Late,
			HalfDay:      row.Summary.HalfDay,
			TotalHours:   row.Summary.TotalHours,
		})
	}
	return out
}

type PresentEmployeeResponse struct {
	Employee    employee.Brief `json:"employee"`
	CheckInTime *string `json:"check_in_time"`
	Status      string  `json:"status"`
}

type TodayStatusResponse struct {
	Date             string                    `json:"date"`
	Present          int                       `json:"present"`
	Absent           int                       `json:"absent"`
	Late             int                       `json:"late"`
	PresentEmployees []PresentEmployeeResponse `json:"present_employees"`
	AbsentEmployees  []employee.Brief          `json:"absent_employees"`
}

func ToTodayStatusResponse(s TodayStatus, day time.Time) TodayStatusResponse {
	resp := TodayStatusResponse{
		Date:             day.Format(DateLayout),
		Present:          s.Present,
		Absent:           s.Absent,
		Late:             s.Late,
		PresentEmployees: make([]PresentEmployeeResponse, 0, len(s.PresentEmployees)),
		AbsentEmployees:  make([]employee.Brief, 0, len(s.AbsentEmployees)),
	}
	for _, p := range s.PresentEmployees {
		resp.PresentEmployees = append(resp.PresentEmployees, PresentEmployeeResponse{
			Employee:    employee.ToBrief(p.Employee),
			CheckInTime: TimePtrToString(p.Record.CheckInTime),
			Status:      string(p.Record.Status),
		})
	}
	for _, e := range s.AbsentEmployees {
		resp.AbsentEmployees = append(resp.AbsentEmployees, employee.ToBrief(e))
	}
	return resp
}

type DayTrendResponse struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

func ToDayTrendResponses(trend []DayTrend) []DayTrendResponse {
	out := make([]DayTrendResponse, 0, len(trend))
	for _, d := range trend {
		out = append(out, DayTrendResponse{
			Date:    d.Date.Format(DateLayout),
			Present: d.Present,
			Absent:  d.Absent,
		})
	}
	return out
}

type DepartmentStatResponse struct {
	Department string `json:"department"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Total      int    `json:"total"`
}

func ToDepartmentStatResponses(stats []DepartmentStat) []DepartmentStatResponse {
	out := make([]DepartmentStatResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, DepartmentStatResponse{
			Department: s.Department,
			Present:    s.Present,
			Absent:     s.Absent,
			Total:      s.Total,
		})
	}
	return out
}
