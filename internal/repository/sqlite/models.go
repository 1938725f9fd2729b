package sqlite

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type employeeRow struct {
	ID           string    `gorm:"primaryKey;type:text"`
	EmployeeCode string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         string    `gorm:"type:varchar(20);not null;index"`
	Department   string    `gorm:"type:varchar(100);not null"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (employeeRow) TableName() string {
	return "employees"
}

func (r employeeRow) toDomain(loc *time.Location) employee.Employee {
	return employee.Employee{
		ID:           r.ID,
		EmployeeCode: r.EmployeeCode,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         employee.Role(r.Role),
		Department:   r.Department,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt.In(loc),
		UpdatedAt:    r.UpdatedAt.In(loc),
	}
}

// attendanceRow keeps Date as a YYYY-MM-DD text key so the unique index on
// (employee_id, date) compares calendar days, not instants.
type attendanceRow struct {
	ID           string          `gorm:"primaryKey;type:text"`
	EmployeeID   string          `gorm:"type:text;not null;uniqueIndex:idx_attendances_employee_date,priority:1"`
	Date         string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendances_employee_date,priority:2;index"`
	CheckInTime  *time.Time      `gorm:"column:check_in_time"`
	CheckOutTime *time.Time      `gorm:"column:check_out_time"`
	Status       string          `gorm:"type:varchar(20);not null;index"`
	TotalHours   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (attendanceRow) TableName() string {
	return "attendances"
}

func localPtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	local := t.In(loc)
	return &local
}

func (r attendanceRow) toDomain(loc *time.Location) (attendance.Record, error) {
	date, err := time.ParseInLocation(attendance.DateLayout, r.Date, loc)
	if err != nil {
		return attendance.Record{}, err
	}
	return attendance.Record{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		Date:         date,
		CheckInTime:  localPtr(r.CheckInTime, loc),
		CheckOutTime: localPtr(r.CheckOutTime, loc),
		Status:       attendance.Status(r.Status),
		TotalHours:   r.TotalHours,
		CreatedAt:    r.CreatedAt.In(loc),
		UpdatedAt:    r.UpdatedAt.In(loc),
	}, nil
}
