package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type employeeRepository struct {
	db  *gorm.DB
	loc *time.Location
}

func NewEmployeeRepository(db *gorm.DB, loc *time.Location) (employee.EmployeeRepository, error) {
	if err := db.AutoMigrate(&employeeRow{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate employees table: %w", err)
	}
	return &employeeRepository{db: db, loc: loc}, nil
}

func (e *employeeRepository) getBy(ctx context.Context, column string, value string) (employee.Employee, error) {
	var row employeeRow
	err := e.db.WithContext(ctx).Where(column+" = ?", value).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by %s: %w", column, err)
	}
	return row.toDomain(e.loc), nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getBy(ctx, "id", id)
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return e.getBy(ctx, "email", strings.ToLower(email))
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepository) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return e.getBy(ctx, "employee_code", employeeCode)
}

// ListByIDs implements employee.EmployeeRepository.
func (e *employeeRepository) ListByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return []employee.Employee{}, nil
	}
	var rows []employeeRow
	if err := e.db.WithContext(ctx).Where("id IN ?", ids).Order("employee_code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees by ids: %w", err)
	}
	return e.toDomainList(rows), nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepository) ListActive(ctx context.Context, role employee.Role) ([]employee.Employee, error) {
	var rows []employeeRow
	err := e.db.WithContext(ctx).
		Where("is_active = ? AND role = ?", true, string(role)).
		Order("employee_code").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	return e.toDomainList(rows), nil
}

// CountActive implements employee.EmployeeRepository.
func (e *employeeRepository) CountActive(ctx context.Context, role employee.Role) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&employeeRow{}).
		Where("is_active = ? AND role = ?", true, string(role)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

// CountByRole implements employee.EmployeeRepository.
func (e *employeeRepository) CountByRole(ctx context.Context, role employee.Role) (int64, error) {
	var count int64
	if err := e.db.WithContext(ctx).Model(&employeeRow{}).Where("role = ?", string(role)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count employees by role: %w", err)
	}
	return count, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	if newEmployee.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		newEmployee.ID = id.String()
	}

	row := employeeRow{
		ID:           newEmployee.ID,
		EmployeeCode: newEmployee.EmployeeCode,
		Name:         newEmployee.Name,
		Email:        strings.ToLower(newEmployee.Email),
		PasswordHash: newEmployee.PasswordHash,
		Role:         string(newEmployee.Role),
		Department:   newEmployee.Department,
		IsActive:     newEmployee.IsActive,
	}

	if err := e.db.WithContext(ctx).Create(&row).Error; err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed: employees.email"):
			return employee.Employee{}, employee.ErrEmailExists
		case strings.Contains(msg, "UNIQUE constraint failed: employees.employee_code"):
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return row.toDomain(e.loc), nil
}

func (e *employeeRepository) toDomainList(rows []employeeRow) []employee.Employee {
	employees := make([]employee.Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, row.toDomain(e.loc))
	}
	return employees
}
