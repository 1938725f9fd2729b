package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// Clock returns the current time. Handlers pass it to the services so the
// server decides what "today" is.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// parseMonthFilter reads the optional month and year query parameters.
func parseMonthFilter(r *http.Request) (attendance.MonthFilter, error) {
	var (
		filter attendance.MonthFilter
		errs   validator.ValidationErrors
	)
	q := r.URL.Query()

	if m := q.Get("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
		}
		filter.Month = month
	}
	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
		}
		filter.Year = year
	}

	if len(errs) > 0 {
		return attendance.MonthFilter{}, errs
	}
	return filter, nil
}

func parseListFilter(r *http.Request) attendance.ListFilter {
	q := r.URL.Query()
	return attendance.ListFilter{
		EmployeeCode: strings.ToUpper(strings.TrimSpace(q.Get("employee_code"))),
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
		Status:       q.Get("status"),
	}
}
