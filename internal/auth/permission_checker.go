package auth

import (
	"context"

	"github.com/frahmantamala/vehicle-permit/internal"
)

type DefaultPermissionChecker struct{}

var _ PermissionAuthorizer = (*DefaultPermissionChecker)(nil)

func NewPermissionChecker() *DefaultPermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error) {
	return c.HasAnyPermission(userPermissions, []string{permission}), nil
}

func (c *DefaultPermissionChecker) CanViewPermitRequestsCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.CanViewPermitRequests(userPermissions), nil
}

func (c *DefaultPermissionChecker) CanReviewPermitRequestsCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.CanReviewPermitRequests(userPermissions), nil
}

// CanViewPermitRequests covers reviewers plus read-only viewers.
func (c *DefaultPermissionChecker) CanViewPermitRequests(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{
		internal.PermissionHR,
		internal.PermissionAdmin,
		internal.PermissionViewPermitRequests,
	})
}

func (c *DefaultPermissionChecker) CanReviewPermitRequests(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{internal.PermissionHR, internal.PermissionAdmin})
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range requiredPermissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}
