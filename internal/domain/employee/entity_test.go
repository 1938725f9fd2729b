package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"employee", RoleEmployee, false},
		{"manager", RoleManager, false},
		{" Manager ", RoleManager, false},
		{"admin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_CodePrefix(t *testing.T) {
	assert.Equal(t, "MGR", RoleManager.CodePrefix())
	assert.Equal(t, "EMP", RoleEmployee.CodePrefix())
}
