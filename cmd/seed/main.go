package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	managerEmail    = "manager@company.com"
	historyDays     = 30
	presentPercent  = 80
	checkedInToday  = 3
	managerPassword = "manager123"
	staffPassword   = "employee123"
)

type seedEmployee struct {
	code       string
	name       string
	email      string
	department string
}

var staff = []seedEmployee{
	{"EMP001", "Alice Johnson", "alice@company.com", "Engineering"},
	{"EMP002", "Bob Smith", "bob@company.com", "Engineering"},
	{"EMP003", "Carol Williams", "carol@company.com", "Marketing"},
	{"EMP004", "David Brown", "david@company.com", "Sales"},
	{"EMP005", "Emma Davis", "emma@company.com", "HR"},
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	if err := seed(context.Background(), cfg, time.Now()); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, cfg *config.Config, now time.Time) error {
	policy, err := cfg.AttendancePolicy()
	if err != nil {
		return err
	}

	store, err := repository.Open(ctx, cfg, policy.Location)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if _, err := store.Employees.GetByEmail(ctx, managerEmail); err == nil {
		slog.Info("database already seeded, skipping")
		return nil
	} else if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return err
	}

	managerHash, err := bcrypt.GenerateFromPassword([]byte(managerPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash manager password: %w", err)
	}
	staffHash, err := bcrypt.GenerateFromPassword([]byte(staffPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash employee password: %w", err)
	}

	return store.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := store.Employees.Create(ctx, employee.Employee{
			EmployeeCode: "MGR001",
			Name:         "John Manager",
			Email:        managerEmail,
			PasswordHash: string(managerHash),
			Role:         employee.RoleManager,
			Department:   "Management",
			IsActive:     true,
		}); err != nil {
			return fmt.Errorf("create manager: %w", err)
		}

		created := make([]employee.Employee, 0, len(staff))
		for _, s := range staff {
			emp, err := store.Employees.Create(ctx, employee.Employee{
				EmployeeCode: s.code,
				Name:         s.name,
				Email:        s.email,
				PasswordHash: string(staffHash),
				Role:         employee.RoleEmployee,
				Department:   s.department,
				IsActive:     true,
			})
			if err != nil {
				return fmt.Errorf("create %s: %w", s.code, err)
			}
			created = append(created, emp)
		}

		rng := rand.New(rand.NewPCG(2025, 1))
		today := policy.DayOf(now)

		var count int
		for _, emp := range created {
			for i := historyDays; i >= 1; i-- {
				day := today.AddDate(0, 0, -i)
				if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
					continue
				}
				if _, err := store.Attendance.Upsert(ctx, historyRecord(rng, policy, emp.ID, day)); err != nil {
					return fmt.Errorf("seed attendance for %s: %w", emp.EmployeeCode, err)
				}
				count++
			}
		}

		if !policy.IsNonWorkingDay(today) {
			for _, emp := range created[:checkedInToday] {
				checkIn := today.Add(8*time.Hour + time.Duration(rng.IntN(90))*time.Minute)
				if _, err := store.Attendance.Upsert(ctx, attendance.Record{
					EmployeeID:  emp.ID,
					Date:        today,
					CheckInTime: &checkIn,
					Status:      policy.DetermineCheckInStatus(&checkIn),
					TotalHours:  decimal.Zero,
				}); err != nil {
					return fmt.Errorf("seed today for %s: %w", emp.EmployeeCode, err)
				}
				count++
			}
		}

		slog.Info("database seeded", "employees", len(created)+1, "attendance_records", count)
		return nil
	})
}

// historyRecord produces a finished day: presentPercent of days have a
// check-in between 08:00 and 10:00 and a check-out between 17:00 and 19:00.
func historyRecord(rng *rand.Rand, policy attendance.Policy, employeeID string, day time.Time) attendance.Record {
	if rng.IntN(100) >= presentPercent {
		return attendance.Record{
			EmployeeID: employeeID,
			Date:       day,
			Status:     attendance.StatusAbsent,
			TotalHours: decimal.Zero,
		}
	}

	checkIn := day.Add(8*time.Hour + time.Duration(rng.IntN(120))*time.Minute)
	checkOut := day.Add(17*time.Hour + time.Duration(rng.IntN(120))*time.Minute)
	hours, _ := attendance.ComputeHours(&checkIn, &checkOut)

	return attendance.Record{
		EmployeeID:   employeeID,
		Date:         day,
		CheckInTime:  &checkIn,
		CheckOutTime: &checkOut,
		Status:       policy.ApplyHalfDayOverride(policy.DetermineCheckInStatus(&checkIn), hours),
		TotalHours:   hours,
	}
}
