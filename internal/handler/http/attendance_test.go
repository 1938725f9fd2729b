package http

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceHandler_CheckInCheckOut(t *testing.T) {
	s := newTestServer(t)
	token := s.register("Alice Johnson", "alice@company.com", "")

	resp := s.do(http.MethodPost, "/api/v1/attendance/checkin", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var checkIn struct {
		CheckInTime string `json:"check_in_time"`
		Status      string `json:"status"`
	}
	env := decode(t, resp, &checkIn)
	assert.True(t, env.Success)
	assert.Equal(t, "present", checkIn.Status)
	assert.NotEmpty(t, checkIn.CheckInTime)

	resp = s.do(http.MethodPost, "/api/v1/attendance/checkin", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	s.clock.set(time.Date(2025, time.March, 3, 17, 0, 0, 0, wib))
	resp = s.do(http.MethodPost, "/api/v1/attendance/checkout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var checkOut struct {
		TotalHours string `json:"total_hours"`
		Status     string `json:"status"`
	}
	decode(t, resp, &checkOut)
	assert.Equal(t, "8.5", checkOut.TotalHours)
	assert.Equal(t, "present", checkOut.Status)

	resp = s.do(http.MethodPost, "/api/v1/attendance/checkout", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var today struct {
		IsCheckedIn  bool `json:"is_checked_in"`
		IsCheckedOut bool `json:"is_checked_out"`
	}
	decode(t, resp, &today)
	assert.True(t, today.IsCheckedIn)
	assert.True(t, today.IsCheckedOut)
}

func TestAttendanceHandler_CheckOutWithoutCheckIn(t *testing.T) {
	s := newTestServer(t)
	token := s.register("Alice Johnson", "alice@company.com", "")

	resp := s.do(http.MethodPost, "/api/v1/attendance/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAttendanceHandler_CheckIn_NonWorkingDay(t *testing.T) {
	s := newTestServer(t)
	token := s.register("Alice Johnson", "alice@company.com", "")
	s.clock.set(time.Date(2025, time.March, 2, 8, 0, 0, 0, wib))

	resp := s.do(http.MethodPost, "/api/v1/attendance/checkin", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decode(t, resp, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Cannot check in on a non-working day", env.Error.Message)
}

func TestAttendanceHandler_Authorization(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.register("Alice Johnson", "alice@company.com", "")
	managerToken := s.register("John Manager", "manager@company.com", "manager")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodPost, "/api/v1/attendance/checkin", "", http.StatusUnauthorized},
		{"employee on manager route", http.MethodGet, "/api/v1/attendance/all", employeeToken, http.StatusForbidden},
		{"manager on employee route", http.MethodPost, "/api/v1/attendance/checkin", managerToken, http.StatusForbidden},
		{"manager dashboard for employee", http.MethodGet, "/api/v1/dashboard/manager", employeeToken, http.StatusForbidden},
		{"manager lists all", http.MethodGet, "/api/v1/attendance/all", managerToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAttendanceHandler_QueryValidation(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.register("Alice Johnson", "alice@company.com", "")
	managerToken := s.register("John Manager", "manager@company.com", "manager")

	resp := s.do(http.MethodGet, "/api/v1/attendance/my-summary?month=abc", employeeToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/attendance/my-history?month=13", employeeToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/attendance/my-history?year=2024", employeeToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/attendance/all?status=sleeping", managerToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/attendance/all?employee_code=emp999", managerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAttendanceHandler_ManagerViews(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.register("Alice Johnson", "alice@company.com", "")
	s.register("Bob Smith", "bob@company.com", "")
	managerToken := s.register("John Manager", "manager@company.com", "manager")

	resp := s.do(http.MethodPost, "/api/v1/attendance/checkin", aliceToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/attendance/today-status", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status struct {
		Date             string `json:"date"`
		Present          int    `json:"present"`
		Absent           int    `json:"absent"`
		PresentEmployees []struct {
			Employee struct {
				EmployeeCode string `json:"employee_code"`
			} `json:"employee"`
		} `json:"present_employees"`
	}
	decode(t, resp, &status)
	assert.Equal(t, "2025-03-03", status.Date)
	assert.Equal(t, 1, status.Present)
	assert.Equal(t, 1, status.Absent)
	require.Len(t, status.PresentEmployees, 1)
	assert.Equal(t, "EMP001", status.PresentEmployees[0].Employee.EmployeeCode)

	resp = s.do(http.MethodGet, "/api/v1/attendance/summary?month=3&year=2025", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		Month   int `json:"month"`
		Summary []struct {
			EmployeeCode string `json:"employee_code"`
			Present      int    `json:"present"`
		} `json:"summary"`
	}
	decode(t, resp, &summary)
	assert.Equal(t, 3, summary.Month)
	require.Len(t, summary.Summary, 1)
	assert.Equal(t, "EMP001", summary.Summary[0].EmployeeCode)
	assert.Equal(t, 1, summary.Summary[0].Present)

	resp = s.do(http.MethodGet, "/api/v1/attendance/all?employee_code=emp001", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var all []struct {
		Employee struct {
			Name string `json:"name"`
		} `json:"employee"`
	}
	env := decode(t, resp, &all)
	require.Len(t, all, 1)
	assert.Equal(t, "Alice Johnson", all[0].Employee.Name)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Count)
	assert.Equal(t, 500, env.Meta.Limit)
	assert.False(t, env.Meta.Truncated)

	resp = s.do(http.MethodGet, "/api/v1/attendance/my-history", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []struct {
		Date string `json:"date"`
	}
	env = decode(t, resp, &history)
	require.Len(t, history, 1)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 100, env.Meta.Limit)
}

func TestAttendanceHandler_Export(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.register("Alice Johnson", "alice@company.com", "")
	managerToken := s.register("John Manager", "manager@company.com", "manager")

	resp := s.do(http.MethodPost, "/api/v1/attendance/checkin", aliceToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/attendance/export", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance-export.csv"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Employee ID", rows[0][0])
	assert.Equal(t, "EMP001", rows[1][0])
	assert.Equal(t, "2025-03-03 08:30:00", rows[1][5])
	assert.Equal(t, "N/A", rows[1][6])
}
