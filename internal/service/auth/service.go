package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// codeAttempts bounds how far registration walks past taken generated codes.
const codeAttempts = 5

type AuthServiceImpl struct {
	employee.EmployeeRepository
	jwt.Service
	bcryptCost int
}

func NewAuthService(employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
		bcryptCost:         bcrypt.DefaultCost,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) issueToken(emp employee.Employee) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        employee.ToResponse(emp),
	}, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	_, err := a.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err == nil {
		return auth.TokenResponse{}, employee.ErrEmailExists
	}
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role, err := req.RoleOrDefault()
	if err != nil {
		return auth.TokenResponse{}, err
	}
	newEmployee := employee.Employee{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
		Department:   req.Department,
		IsActive:     true,
	}

	var created employee.Employee
	if req.EmployeeCode != "" {
		newEmployee.EmployeeCode = req.EmployeeCode
		created, err = a.EmployeeRepository.Create(ctx, newEmployee)
		if err != nil {
			return auth.TokenResponse{}, err
		}
	} else {
		created, err = a.createWithGeneratedCode(ctx, newEmployee)
		if err != nil {
			return auth.TokenResponse{}, err
		}
	}

	slog.Info("employee registered", "employee_id", created.ID, "employee_code", created.EmployeeCode, "role", created.Role)
	return a.issueToken(created)
}

// createWithGeneratedCode numbers the employee after the existing members of
// its role, e.g. EMP006 for the sixth employee.
func (a *AuthServiceImpl) createWithGeneratedCode(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	count, err := a.EmployeeRepository.CountByRole(ctx, newEmployee.Role)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to count employees: %w", err)
	}

	for i := int64(1); i <= codeAttempts; i++ {
		newEmployee.EmployeeCode = fmt.Sprintf("%s%03d", newEmployee.Role.CodePrefix(), count+i)
		created, err := a.EmployeeRepository.Create(ctx, newEmployee)
		if errors.Is(err, employee.ErrEmployeeCodeExists) {
			continue
		}
		if err != nil {
			return employee.Employee{}, err
		}
		return created, nil
	}
	return employee.Employee{}, employee.ErrEmployeeCodeExists
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	if !emp.IsActive {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueToken(emp)
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, principal auth.Principal) (employee.EmployeeResponse, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, principal.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, auth.ErrInvalidToken
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return employee.EmployeeResponse{}, auth.ErrAccountInactive
	}
	return employee.ToResponse(emp), nil
}
