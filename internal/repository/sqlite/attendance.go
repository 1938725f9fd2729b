package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type attendanceRepository struct {
	db  *gorm.DB
	loc *time.Location
}

// NewAttendanceRepository migrates the attendances table and returns a store
// that reports dates and timestamps in loc.
func NewAttendanceRepository(db *gorm.DB, loc *time.Location) (attendance.AttendanceRepository, error) {
	if err := db.AutoMigrate(&attendanceRow{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate attendances table: %w", err)
	}
	return &attendanceRepository{db: db, loc: loc}, nil
}

func (a *attendanceRepository) dateKey(t time.Time) string {
	return t.In(a.loc).Format(attendance.DateLayout)
}

// FindOne implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindOne(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	var row attendanceRow
	err := a.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, a.dateKey(date)).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	record, err := row.toDomain(a.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attendance: %w", err)
	}
	return &record, nil
}

// upsertGuard lets a conflicting write through only while the stored row is
// still open for it: nothing is written over a checked-out row, and a
// check-in write never replaces an existing check-in.
var upsertGuard = clause.Where{Exprs: []clause.Expression{
	clause.Expr{SQL: "attendances.check_out_time IS NULL AND (attendances.check_in_time IS NULL OR excluded.check_out_time IS NOT NULL)"},
}}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	row := attendanceRow{
		ID:           id.String(),
		EmployeeID:   record.EmployeeID,
		Date:         a.dateKey(record.Date),
		CheckInTime:  record.CheckInTime,
		CheckOutTime: record.CheckOutTime,
		Status:       string(record.Status),
		TotalHours:   record.TotalHours,
	}

	result := a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"check_in_time", "check_out_time", "status", "total_hours", "updated_at"}),
		Where:     upsertGuard,
	}).Create(&row)
	if result.Error != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return attendance.Record{}, attendance.ErrRecordConflict
	}

	stored, err := a.FindOne(ctx, record.EmployeeID, record.Date)
	if err != nil {
		return attendance.Record{}, err
	}
	if stored == nil {
		return attendance.Record{}, fmt.Errorf("attendance for %s on %s vanished after upsert", record.EmployeeID, row.Date)
	}
	return *stored, nil
}

// FindRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.Record, error) {
	q := a.db.WithContext(ctx).Model(&attendanceRow{})

	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if len(filter.EmployeeIDs) > 0 {
		q = q.Where("employee_id IN ?", filter.EmployeeIDs)
	}
	if filter.DateFrom != nil {
		q = q.Where("date >= ?", a.dateKey(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		q = q.Where("date <= ?", a.dateKey(*filter.DateTo))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []attendanceRow
	if err := q.Order("date DESC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}

	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		record, err := row.toDomain(a.loc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attendance %s: %w", row.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}
