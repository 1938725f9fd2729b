package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

func requireRole(role employee.Role, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := PrincipalFrom(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if principal.Role != role {
				response.Forbidden(w, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireEmployee requires employee role
var RequireEmployee = requireRole(employee.RoleEmployee, "Employee access required")

// RequireManager requires manager role
var RequireManager = requireRole(employee.RoleManager, "Manager access required")
