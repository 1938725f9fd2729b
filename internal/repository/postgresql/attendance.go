package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

const attendanceColumns = `id, employee_id, to_char(date, 'YYYY-MM-DD'), check_in_time, check_out_time,
		status, total_hours, created_at, updated_at`

func (a *attendanceRepository) dateKey(t time.Time) string {
	return t.In(a.loc).Format(attendance.DateLayout)
}

func (a *attendanceRepository) scan(row pgx.Row) (attendance.Record, error) {
	var (
		rec  attendance.Record
		date string
	)
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &date, &rec.CheckInTime, &rec.CheckOutTime,
		&rec.Status, &rec.TotalHours, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	rec.Date, err = time.ParseInLocation(attendance.DateLayout, date, a.loc)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to parse attendance date %q: %w", date, err)
	}
	if rec.CheckInTime != nil {
		local := rec.CheckInTime.In(a.loc)
		rec.CheckInTime = &local
	}
	if rec.CheckOutTime != nil {
		local := rec.CheckOutTime.In(a.loc)
		rec.CheckOutTime = &local
	}
	rec.CreatedAt = rec.CreatedAt.In(a.loc)
	rec.UpdatedAt = rec.UpdatedAt.In(a.loc)
	return rec, nil
}

// FindOne implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindOne(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2::date
		LIMIT 1
	`

	rec, err := a.scan(q.QueryRow(ctx, query, employeeID, a.dateKey(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &rec, nil
}

// Upsert implements attendance.AttendanceRepository. The conflict branch only
// updates a row that is still open for the incoming write: a checked-out row
// is final and a check-in never replaces an existing check-in.
func (a *attendanceRepository) Upsert(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date, check_in_time, check_out_time, status, total_hours
		) VALUES (
			$1, $2, $3::date, $4, $5, $6, $7
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			status = EXCLUDED.status,
			total_hours = EXCLUDED.total_hours,
			updated_at = NOW()
		WHERE attendances.check_out_time IS NULL
		  AND (attendances.check_in_time IS NULL OR EXCLUDED.check_out_time IS NOT NULL)
		RETURNING ` + attendanceColumns

	rec, err := a.scan(q.QueryRow(ctx, query,
		id.String(),
		record.EmployeeID,
		a.dateKey(record.Date),
		record.CheckInTime,
		record.CheckOutTime,
		string(record.Status),
		record.TotalHours,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordConflict
		}
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return rec, nil
}

// FindRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	var (
		conditions []string
		args       []interface{}
	)
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if len(filter.EmployeeIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("employee_id = ANY($%d)", argIdx))
		args = append(args, filter.EmployeeIDs)
		argIdx++
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d::date", argIdx))
		args = append(args, a.dateKey(*filter.DateFrom))
		argIdx++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d::date", argIdx))
		args = append(args, a.dateKey(*filter.DateTo))
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(filter.Status))
		argIdx++
	}

	query := "SELECT " + attendanceColumns + " FROM attendances"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := a.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendances: %w", err)
	}

	return records, nil
}

func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, loc: loc}
}
