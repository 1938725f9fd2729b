package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthFilter_Validate(t *testing.T) {
	ok := MonthFilter{Month: 3, Year: 2025}
	assert.NoError(t, ok.Validate())

	empty := MonthFilter{}
	assert.NoError(t, empty.Validate())

	bad := MonthFilter{Month: 13, Year: 12}
	err := bad.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "month")
	assert.Contains(t, errs.ToMap(), "year")

	yearOnly := MonthFilter{Year: 2024}
	err = yearOnly.Validate()
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "month is required when year is given", errs.ToMap()["month"])
}

func TestMonthFilter_Resolve(t *testing.T) {
	policy := testPolicy()
	now := at(2025, 3, 15, 10, 0, 0)

	year, month := MonthFilter{}.Resolve(now, policy)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.March, month)

	year, month = MonthFilter{Month: 1}.Resolve(now, policy)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.January, month)

	year, month = MonthFilter{Month: 12, Year: 2024}.Resolve(now, policy)
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.December, month)
}

func TestListFilter_Validate(t *testing.T) {
	cases := []struct {
		name   string
		filter ListFilter
		fields []string
	}{
		{"empty", ListFilter{}, nil},
		{"full", ListFilter{EmployeeCode: "EMP001", StartDate: "2025-03-01", EndDate: "2025-03-31", Status: "half-day"}, nil},
		{"bad dates", ListFilter{StartDate: "03/01/2025", EndDate: "2025-13-01"}, []string{"start_date", "end_date"}},
		{"reversed range", ListFilter{StartDate: "2025-03-31", EndDate: "2025-03-01"}, []string{"end_date"}},
		{"unknown status", ListFilter{Status: "on-leave"}, []string{"status"}},
		{"bad code", ListFilter{EmployeeCode: "alice"}, []string{"employee_code"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.filter.Validate()
			if len(c.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			for _, f := range c.fields {
				assert.Contains(t, errs.ToMap(), f)
			}
		})
	}
}

func TestListFilter_DateRange(t *testing.T) {
	policy := testPolicy()

	from, to := ListFilter{StartDate: "2025-03-01"}.DateRange(policy)
	require.NotNil(t, from)
	assert.Nil(t, to)
	assert.Equal(t, at(2025, 3, 1, 0, 0, 0), *from)
}
