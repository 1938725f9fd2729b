package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
)

// Store bundles the repositories of the configured database driver.
type Store struct {
	Employees  employee.EmployeeRepository
	Attendance attendance.AttendanceRepository

	pg    *database.DB
	close func()
}

// Open connects to the database selected by cfg.Database.Driver and prepares
// its schema. Dates and timestamps are reported in loc.
func Open(ctx context.Context, cfg *config.Config, loc *time.Location) (*Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			Employees:  postgresql.NewEmployeeRepository(db, loc),
			Attendance: postgresql.NewAttendanceRepository(db, loc),
			pg:         db,
			close:      db.Close,
		}, nil

	case "sqlite":
		db, err := database.NewSQLiteDB(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sqlite handle: %w", err)
		}
		closeDB := func() { _ = sqlDB.Close() }

		employees, err := sqlite.NewEmployeeRepository(db, loc)
		if err != nil {
			closeDB()
			return nil, err
		}
		records, err := sqlite.NewAttendanceRepository(db, loc)
		if err != nil {
			closeDB()
			return nil, err
		}
		return &Store{Employees: employees, Attendance: records, close: closeDB}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// WithTransaction runs fn in one PostgreSQL transaction. On SQLite the single
// connection already serializes writes and fn runs directly.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.pg == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.pg, fn)
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
