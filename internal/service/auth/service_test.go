package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T) (*AuthServiceImpl, employee.EmployeeRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.NewSQLiteDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repo, err := sqlite.NewEmployeeRepository(db, time.UTC)
	require.NoError(t, err)

	svc := NewAuthService(repo, jwt.NewJWTService(testSecret, testAccessExp)).(*AuthServiceImpl)
	svc.bcryptCost = bcrypt.MinCost
	return svc, repo
}

func TestRegister_GeneratesCodeAndToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	resp, err := svc.Register(ctx, auth.RegisterRequest{
		Name:       "Alice Johnson",
		Email:      "Alice@Company.com",
		Password:   "employee123",
		Department: "Engineering",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "EMP001", resp.User.EmployeeCode)
	assert.Equal(t, "employee", resp.User.Role)
	assert.Equal(t, "alice@company.com", resp.User.Email)

	second, err := svc.Register(ctx, auth.RegisterRequest{
		Name:     "Bob Smith",
		Email:    "bob@company.com",
		Password: "employee123",
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP002", second.User.EmployeeCode)

	manager, err := svc.Register(ctx, auth.RegisterRequest{
		Name:     "John Manager",
		Email:    "manager@company.com",
		Password: "manager123",
		Role:     "manager",
	})
	require.NoError(t, err)
	assert.Equal(t, "MGR001", manager.User.EmployeeCode)
}

func TestRegister_SkipsTakenGeneratedCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(ctx, auth.RegisterRequest{
		Name: "Custom", Email: "custom@company.com", Password: "employee123", EmployeeCode: "emp002",
	})
	require.NoError(t, err)

	// one employee exists, EMP002 is already taken
	resp, err := svc.Register(ctx, auth.RegisterRequest{
		Name: "Next", Email: "next@company.com", Password: "employee123",
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP003", resp.User.EmployeeCode)
}

func TestRegister_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(ctx, auth.RegisterRequest{
		Name: "Alice", Email: "alice@company.com", Password: "employee123",
	})
	require.NoError(t, err)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name: "Alice Again", Email: "ALICE@company.com", Password: "employee123",
		})
		assert.ErrorIs(t, err, employee.ErrEmailExists)
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name: "Other", Email: "other@company.com", Password: "employee123", EmployeeCode: "EMP001",
		})
		assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email: "not-an-email", Password: "123", Role: "owner",
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		fields := verrs.ToMap()
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
		assert.Contains(t, fields, "role")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestAuthService(t)

	registered, err := svc.Register(ctx, auth.RegisterRequest{
		Name: "Alice", Email: "alice@company.com", Password: "employee123",
	})
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("employee123"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = repo.Create(ctx, employee.Employee{
		EmployeeCode: "EMP099", Name: "Former", Email: "former@company.com",
		PasswordHash: string(hash), Role: employee.RoleEmployee, IsActive: false,
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Email: " Alice@company.com ", Password: "employee123"})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, resp.User.ID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "alice@company.com", Password: "nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "ghost@company.com", Password: "employee123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "former@company.com", Password: "employee123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	registered, err := svc.Register(ctx, auth.RegisterRequest{
		Name: "Alice", Email: "alice@company.com", Password: "employee123", Department: "Engineering",
	})
	require.NoError(t, err)

	me, err := svc.Me(ctx, auth.Principal{EmployeeID: registered.User.ID, Role: employee.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, "Engineering", me.Department)

	_, err = svc.Me(ctx, auth.Principal{EmployeeID: "gone"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
