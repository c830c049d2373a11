package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// Capabilities carried by a user's permission set.
const (
	PermissionHR                 = "hr"
	PermissionAdmin              = "admin"
	PermissionViewPermitRequests = "view_permit_requests"
)

// User is the authenticated identity resolved by the auth middleware. Handlers
// pass it explicitly into service calls.
type User struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(permissions ...string) bool {
	for _, p := range permissions {
		if u.HasPermission(p) {
			return true
		}
	}
	return false
}

// IsHR reports whether the user holds the HR capability.
func (u *User) IsHR() bool {
	return u.HasPermission(PermissionHR)
}

func (u *User) IsAdmin() bool {
	return u.HasPermission(PermissionAdmin)
}

// CanReviewPermitRequests is true for HR staff and administrators.
func (u *User) CanReviewPermitRequests() bool {
	return u.HasAnyPermission(PermissionHR, PermissionAdmin)
}

func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
