// internal/models/user_test.go
package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCheck(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("password123"))

	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.NoError(t, u.CheckPassword("password123"))
	assert.Error(t, u.CheckPassword("wrong-password"))
}

func TestLongPasswordsAreTruncatedConsistently(t *testing.T) {
	u := &User{}
	long := strings.Repeat("a", 100)
	require.NoError(t, u.SetPassword(long))

	// Bytes past the bcrypt limit cannot affect the comparison.
	assert.NoError(t, u.CheckPassword(long))
	assert.NoError(t, u.CheckPassword(strings.Repeat("a", 80)))
	assert.Error(t, u.CheckPassword(strings.Repeat("a", 71)))
}

func TestLocationLabel(t *testing.T) {
	tests := []struct {
		name     string
		location JSONB
		want     string
	}{
		{"nil location", nil, "N/A"},
		{"empty location", JSONB{}, "N/A"},
		{"city and state", JSONB{"city": "Indore", "state": "Madhya Pradesh"}, "Indore, Madhya Pradesh"},
		{"city only", JSONB{"city": "Indore"}, "Indore"},
		{"state only", JSONB{"state": "Gujarat"}, "Gujarat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Location: tt.location}
			assert.Equal(t, tt.want, u.LocationLabel())
		})
	}
}
