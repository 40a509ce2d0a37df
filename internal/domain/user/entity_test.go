package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

func TestNewUser(t *testing.T) {
	now := time.Date(2024, 5, 7, 8, 0, 0, 0, time.UTC)
	u, err := NewUser("  farmer@example.com ", "", now)
	require.NoError(t, err)
	assert.Equal(t, "farmer@example.com", u.Username)
	assert.Equal(t, "farmer", u.DisplayName)
	assert.Equal(t, LoginPassword, u.Method)
	assert.Equal(t, now, u.LastLoginAt)
	assert.Equal(t, 1, u.LoginCount)
	assert.NotEqual(t, [16]byte{}, [16]byte(u.ID))
}

func TestNewUser_Invalid(t *testing.T) {
	_, err := NewUser(" ", LoginPhone, time.Now())
	assert.True(t, errors.IsValidation(err))

	_, err = NewUser("13800000000", "wechat", time.Now())
	assert.True(t, errors.IsValidation(err))
}

func TestUser_RecordLogin(t *testing.T) {
	u, err := NewUser("13800000000", LoginPhone, time.Now())
	require.NoError(t, err)
	later := u.LastLoginAt.Add(time.Hour)
	u.RecordLogin(later)
	assert.Equal(t, 2, u.LoginCount)
	assert.Equal(t, later, u.LastLoginAt)
	assert.Equal(t, "13800000000", u.DisplayName)
}
