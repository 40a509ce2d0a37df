// Package user models the visitor identity attached to a session.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// LoginMethod mirrors the two sign-in forms of the portal.
type LoginMethod string

const (
	LoginPassword LoginMethod = "password"
	LoginPhone    LoginMethod = "phone"
)

// User represents a signed-in visitor. No credential is stored.
type User struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Method      LoginMethod `json:"login_method"`
	LastLoginAt time.Time   `json:"last_login_at"`
	LoginCount  int         `json:"login_count"`
}

// NewUser validates username and returns a user logged in at now.
// An empty method defaults to LoginPassword.
func NewUser(username string, method LoginMethod, now time.Time) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.InvalidParam("username is required")
	}
	switch method {
	case "":
		method = LoginPassword
	case LoginPassword, LoginPhone:
	default:
		return nil, errors.InvalidParam("unsupported login method: " + string(method))
	}
	return &User{
		ID:          uuid.New(),
		Username:    username,
		DisplayName: displayName(username),
		Method:      method,
		LastLoginAt: now,
		LoginCount:  1,
	}, nil
}

// RecordLogin bumps the login counter.
func (u *User) RecordLogin(now time.Time) {
	u.LastLoginAt = now
	u.LoginCount++
}

// displayName drops the mail domain.
func displayName(username string) string {
	if i := strings.IndexByte(username, '@'); i > 0 {
		return username[:i]
	}
	return username
}
