package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hours(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func checkedIn(employeeID string, day time.Time, status Status, total string) Record {
	in := day.Add(8 * time.Hour)
	return Record{
		EmployeeID:  employeeID,
		Date:        day,
		CheckInTime: &in,
		Status:      status,
		TotalHours:  hours(total),
	}
}

func absentRecord(employeeID string, day time.Time) Record {
	return Record{EmployeeID: employeeID, Date: day, Status: StatusAbsent, TotalHours: decimal.Zero}
}

func roster() []employee.Employee {
	return []employee.Employee{
		{ID: "e1", EmployeeCode: "EMP001", Name: "Alice Johnson", Department: "Engineering", Role: employee.RoleEmployee, IsActive: true},
		{ID: "e2", EmployeeCode: "EMP002", Name: "Bob Smith", Department: "Engineering", Role: employee.RoleEmployee, IsActive: true},
		{ID: "e3", EmployeeCode: "EMP003", Name: "Carol Williams", Department: "Marketing", Role: employee.RoleEmployee, IsActive: true},
		{ID: "e4", EmployeeCode: "EMP004", Name: "David Brown", Department: "Sales", Role: employee.RoleEmployee, IsActive: true},
		{ID: "e5", EmployeeCode: "EMP005", Name: "Emma Davis", Department: "HR", Role: employee.RoleEmployee, IsActive: true},
	}
}

func TestSummarize(t *testing.T) {
	day := at(2025, 3, 3, 0, 0, 0)

	t.Run("one of each", func(t *testing.T) {
		records := []Record{
			checkedIn("e1", day, StatusPresent, "8"),
			checkedIn("e1", day.AddDate(0, 0, 1), StatusLate, "7.5"),
			absentRecord("e1", day.AddDate(0, 0, 2)),
		}

		s := Summarize(records)
		assert.Equal(t, 1, s.Present)
		assert.Equal(t, 1, s.Late)
		assert.Equal(t, 1, s.Absent)
		assert.Equal(t, 0, s.HalfDay)
		assert.Equal(t, 3, s.TotalDays)
		assert.True(t, hours("15.5").Equal(s.TotalHours))
	})

	t.Run("empty input", func(t *testing.T) {
		s := Summarize(nil)
		assert.Zero(t, s.Present+s.Absent+s.Late+s.HalfDay)
		assert.Equal(t, 0, s.TotalDays)
		assert.True(t, s.TotalHours.IsZero())
	})

	t.Run("rounds the sum once", func(t *testing.T) {
		records := []Record{
			checkedIn("e1", day, StatusPresent, "0.005"),
			checkedIn("e1", day.AddDate(0, 0, 1), StatusPresent, "0.005"),
		}
		s := Summarize(records)
		assert.Equal(t, "0.01", s.TotalHours.StringFixed(2))
	})
}

func TestTeamSummary(t *testing.T) {
	day := at(2025, 3, 3, 0, 0, 0)
	dir := NewDirectory(roster())

	records := []Record{
		checkedIn("e2", day, StatusPresent, "8"),
		checkedIn("e1", day, StatusLate, "7.25"),
		checkedIn("e1", day.AddDate(0, 0, 1), StatusHalfDay, "3"),
		absentRecord("e2", day.AddDate(0, 0, 1)),
		checkedIn("ghost", day, StatusPresent, "8"),
	}

	rows := TeamSummary(records, dir)
	require.Len(t, rows, 2, "employees without records and unknown employees are left out")

	assert.Equal(t, "EMP001", rows[0].Employee.EmployeeCode)
	assert.Equal(t, 1, rows[0].Summary.Late)
	assert.Equal(t, 1, rows[0].Summary.HalfDay)
	assert.Equal(t, 2, rows[0].Summary.TotalDays)
	assert.True(t, hours("10.25").Equal(rows[0].Summary.TotalHours))

	assert.Equal(t, "EMP002", rows[1].Employee.EmployeeCode)
	assert.Equal(t, 1, rows[1].Summary.Present)
	assert.Equal(t, 1, rows[1].Summary.Absent)
	assert.Equal(t, "Engineering", rows[1].Employee.Department)
}

func TestTeamSummary_Empty(t *testing.T) {
	rows := TeamSummary(nil, NewDirectory(roster()))
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestBuildTodayStatus(t *testing.T) {
	day := at(2025, 3, 3, 0, 0, 0)
	records := []Record{
		checkedIn("e1", day, StatusPresent, "0"),
		checkedIn("e3", day, StatusLate, "0"),
		absentRecord("e4", day),
	}

	status := BuildTodayStatus(records, roster())
	assert.Equal(t, 2, status.Present)
	assert.Equal(t, 3, status.Absent)
	assert.Equal(t, 1, status.Late)
	assert.Equal(t, len(roster()), status.Present+status.Absent)

	require.Len(t, status.PresentEmployees, 2)
	assert.Equal(t, "EMP001", status.PresentEmployees[0].Employee.EmployeeCode)
	assert.Equal(t, StatusLate, status.PresentEmployees[1].Record.Status)

	var absentCodes []string
	for _, e := range status.AbsentEmployees {
		absentCodes = append(absentCodes, e.EmployeeCode)
	}
	assert.Equal(t, []string{"EMP002", "EMP004", "EMP005"}, absentCodes)
}

func TestBuildTodayStatus_NoRecords(t *testing.T) {
	status := BuildTodayStatus(nil, roster())
	assert.Equal(t, 0, status.Present)
	assert.Equal(t, 5, status.Absent)
	assert.Empty(t, status.PresentEmployees)
}

func TestWeeklyTrend(t *testing.T) {
	policy := testPolicy()
	today := at(2025, 3, 7, 15, 0, 0)
	twoDaysAgo := at(2025, 3, 5, 0, 0, 0)

	records := []Record{
		checkedIn("e1", twoDaysAgo, StatusPresent, "8"),
		checkedIn("e2", twoDaysAgo, StatusLate, "8"),
		absentRecord("e3", twoDaysAgo),
		checkedIn("e1", at(2025, 3, 7, 0, 0, 0), StatusPresent, "0"),
	}

	trend := WeeklyTrend(records, today, 5, policy)
	require.Len(t, trend, TrendDays)

	assert.Equal(t, at(2025, 3, 1, 0, 0, 0), trend[0].Date, "oldest day first")
	assert.Equal(t, at(2025, 3, 7, 0, 0, 0), trend[6].Date, "today last")

	assert.Equal(t, 2, trend[4].Present)
	assert.Equal(t, 3, trend[4].Absent)

	assert.Equal(t, 1, trend[6].Present)
	assert.Equal(t, 4, trend[6].Absent)

	assert.Equal(t, 0, trend[0].Present)
	assert.Equal(t, 5, trend[0].Absent)
}

func TestWeeklyTrend_AbsentNeverNegative(t *testing.T) {
	policy := testPolicy()
	day := at(2025, 3, 7, 0, 0, 0)
	records := []Record{
		checkedIn("e1", day, StatusPresent, "0"),
		checkedIn("e2", day, StatusPresent, "0"),
	}

	trend := WeeklyTrend(records, day, 1, policy)
	assert.Equal(t, 2, trend[6].Present)
	assert.Equal(t, 0, trend[6].Absent)
}

func TestDepartmentRollup(t *testing.T) {
	day := at(2025, 3, 3, 0, 0, 0)
	records := []Record{
		checkedIn("e1", day, StatusPresent, "0"),
		checkedIn("e3", day, StatusLate, "0"),
		absentRecord("e2", day),
	}

	stats := DepartmentRollup(records, roster())
	require.Len(t, stats, 4)

	want := []DepartmentStat{
		{Department: "Engineering", Present: 1, Absent: 1, Total: 2},
		{Department: "HR", Present: 0, Absent: 1, Total: 1},
		{Department: "Marketing", Present: 1, Absent: 0, Total: 1},
		{Department: "Sales", Present: 0, Absent: 1, Total: 1},
	}
	assert.Equal(t, want, stats)
}

func TestDepartmentRollup_Empty(t *testing.T) {
	assert.Empty(t, DepartmentRollup(nil, nil))

	stats := DepartmentRollup(nil, roster())
	for _, s := range stats {
		assert.Equal(t, 0, s.Present)
		assert.Equal(t, s.Total, s.Absent)
	}
}
