package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file:TestOpen_SQLite?mode=memory&cache=shared",
	}}

	store, err := Open(ctx, cfg, time.UTC)
	require.NoError(t, err)
	defer store.Close()

	created, err := store.Employees.Create(ctx, employee.Employee{
		EmployeeCode: "EMP001",
		Name:         "Alice Johnson",
		Email:        "alice@company.com",
		PasswordHash: "hash",
		Role:         employee.RoleEmployee,
		IsActive:     true,
	})
	require.NoError(t, err)

	errBoom := errors.New("boom")
	err = store.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := store.Employees.GetByID(ctx, created.ID)
		require.NoError(t, err)
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "mysql"}}

	_, err := Open(context.Background(), cfg, time.UTC)
	assert.Error(t, err)
}
