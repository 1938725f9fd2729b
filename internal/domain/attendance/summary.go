package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// The folds below are pure: they read the records and employees they are
// handed and never touch storage. Employee metadata is joined explicitly
// through a Directory.

// Directory indexes employees by ID for the aggregation joins.
type Directory map[string]employee.Employee

func NewDirectory(employees []employee.Employee) Directory {
	dir := make(Directory, len(employees))
	for _, e := range employees {
		dir[e.ID] = e
	}
	return dir
}

type Summary struct {
	Present    int
	Absent     int
	Late       int
	HalfDay    int
	TotalHours decimal.Decimal
	TotalDays  int
}

func (s *Summary) add(r Record) {
	switch r.Status {
	case StatusPresent:
		s.Present++
	case StatusAbsent:
		s.Absent++
	case StatusLate:
		s.Late++
	case StatusHalfDay:
		s.HalfDay++
	}
	s.TotalHours = s.TotalHours.Add(r.TotalHours)
	s.TotalDays++
}

// Summarize counts records per status and sums worked hours. TotalDays is the
// number of records. Hours are summed exactly and rounded once at the end.
func Summarize(records []Record) Summary {
	s := Summary{TotalHours: decimal.Zero}
	for _, r := range records {
		s.add(r)
	}
	s.TotalHours = s.TotalHours.Round(2)
	return s
}

type TeamSummaryRow struct {
	Employee employee.Employee
	Summary  Summary
}

// TeamSummary produces one row per employee that has at least one record,
// ordered by employee code. Records whose employee is not in dir are skipped.
func TeamSummary(records []Record, dir Directory) []TeamSummaryRow {
	byCode := make(map[string]*TeamSummaryRow)
	for _, r := range records {
		emp, ok := dir[r.EmployeeID]
		if !ok {
			continue
		}
		row, ok := byCode[emp.EmployeeCode]
		if !ok {
			row = &TeamSummaryRow{Employee: emp, Summary: Summary{TotalHours: decimal.Zero}}
			byCode[emp.EmployeeCode] = row
		}
		row.Summary.add(r)
	}

	rows := make([]TeamSummaryRow, 0, len(byCode))
	for _, row := range byCode {
		row.Summary.TotalHours = row.Summary.TotalHours.Round(2)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Employee.EmployeeCode < rows[j].Employee.EmployeeCode
	})
	return rows
}

type PresentEntry struct {
	Employee employee.Employee
	Record   Record
}

type TodayStatus struct {
	Present          int
	Absent           int
	Late             int
	PresentEmployees []PresentEntry
	AbsentEmployees  []employee.Employee
}

// BuildTodayStatus splits the roster into checked-in and not-checked-in
// employees using today's records. Records of employees outside the roster are
// ignored, so Present + Absent always equals len(roster).
func BuildTodayStatus(todayRecords []Record, roster []employee.Employee) TodayStatus {
	byEmployee := make(map[string]Record, len(todayRecords))
	for _, r := range todayRecords {
		byEmployee[r.EmployeeID] = r
	}

	status := TodayStatus{
		PresentEmployees: []PresentEntry{},
		AbsentEmployees:  []employee.Employee{},
	}
	for _, emp := range roster {
		r, ok := byEmployee[emp.ID]
		if ok && r.Status == StatusLate {
			status.Late++
		}
		if ok && r.IsCheckedIn() {
			status.PresentEmployees = append(status.PresentEmployees, PresentEntry{Employee: emp, Record: r})
			continue
		}
		status.AbsentEmployees = append(status.AbsentEmployees, emp)
	}
	status.Present = len(status.PresentEmployees)
	status.Absent = len(status.AbsentEmployees)
	return status
}

type DayTrend struct {
	Date    time.Time
	Present int
	Absent  int
}

// TrendDays is the length of the window returned by WeeklyTrend.
const TrendDays = 7

// WeeklyTrend returns TrendDays entries from the oldest day up to today's day.
// Present counts records of that day with a check-in; absent is
// totalEmployees minus present, floored at zero.
func WeeklyTrend(records []Record, today time.Time, totalEmployees int, policy Policy) []DayTrend {
	presentByDay := make(map[string]int)
	for _, r := range records {
		if !r.IsCheckedIn() {
			continue
		}
		presentByDay[policy.DayOf(r.Date).Format(DateLayout)]++
	}

	end := policy.DayOf(today)
	trend := make([]DayTrend, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		present := presentByDay[day.Format(DateLayout)]
		absent := totalEmployees - present
		if absent < 0 {
			absent = 0
		}
		trend = append(trend, DayTrend{Date: day, Present: present, Absent: absent})
	}
	return trend
}

type DepartmentStat struct {
	Department string
	Present    int
	Absent     int
	Total      int
}

// DepartmentRollup groups the roster by department. Total is the department
// headcount, Present the members checked in today, Absent the remainder.
// Departments come from the roster, so one with no records still appears.
func DepartmentRollup(todayRecords []Record, roster []employee.Employee) []DepartmentStat {
	checkedIn := make(map[string]bool, len(todayRecords))
	for _, r := range todayRecords {
		if r.IsCheckedIn() {
			checkedIn[r.EmployeeID] = true
		}
	}

	byDept := make(map[string]*DepartmentStat)
	for _, emp := range roster {
		stat, ok := byDept[emp.Department]
		if !ok {
			stat = &DepartmentStat{Department: emp.Department}
			byDept[emp.Department] = stat
		}
		stat.Total++
		if checkedIn[emp.ID] {
			stat.Present++
		} else {
			stat.Absent++
		}
	}

	stats := make([]DepartmentStat, 0, len(byDept))
	for _, stat := range byDept {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Department < stats[j].Department
	})
	return stats
}
