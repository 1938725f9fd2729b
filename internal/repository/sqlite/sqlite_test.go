package sqlite_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	"github.com/stretchr/testify/require"
)

var (
	testLoc   = time.FixedZone("WIB", 7*60*60)
	dbCounter atomic.Int64
)

type testStore struct {
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceRepository
}

// newTestStore opens a private in-memory database for one test.
func newTestStore(t *testing.T) testStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	db, err := database.NewSQLiteDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	employees, err := sqlite.NewEmployeeRepository(db, testLoc)
	require.NoError(t, err)
	records, err := sqlite.NewAttendanceRepository(db, testLoc)
	require.NoError(t, err)

	return testStore{employees: employees, attendance: records}
}

func createEmployee(t *testing.T, ctx context.Context, repo employee.EmployeeRepository, code, email, department string, role employee.Role) employee.Employee {
	t.Helper()
	created, err := repo.Create(ctx, employee.Employee{
		EmployeeCode: code,
		Name:         "Employee " + code,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Department:   department,
		IsActive:     true,
	})
	require.NoError(t, err)
	return created
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, testLoc)
}

func clock(base time.Time, hour, min int) *time.Time {
	t := base.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
	return &t
}
