package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/transport"
)

type PermissionAuthorizer interface {
	HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error)
	CanViewPermitRequestsCtx(ctx context.Context, userPermissions []string) (bool, error)
	CanReviewPermitRequestsCtx(ctx context.Context, userPermissions []string) (bool, error)
}

type checkFunc func(ctx context.Context, userPermissions []string) (bool, error)

type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer PermissionAuthorizer
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
	}
}

// Middleware requires the named permission exactly.
func (ra *RBACAuthorization) Middleware(permission string) func(http.Handler) http.Handler {
	return ra.require(permission, func(ctx context.Context, perms []string) (bool, error) {
		return ra.authorizer.HasPermission(ctx, perms, permission)
	})
}

// RequireViewPermitRequests guards listing and showing permit requests.
func (ra *RBACAuthorization) RequireViewPermitRequests() func(http.Handler) http.Handler {
	return ra.require("view_permit_requests", ra.authorizer.CanViewPermitRequestsCtx)
}

// RequireReviewPermitRequests guards approving and rejecting.
func (ra *RBACAuthorization) RequireReviewPermitRequests() func(http.Handler) http.Handler {
	return ra.require("review_permit_requests", ra.authorizer.CanReviewPermitRequestsCtx)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Middleware(internal.PermissionAdmin)
}

func (ra *RBACAuthorization) require(name string, check checkFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := ra.CurrentUser(w, r)
			if !ok {
				return
			}

			allowed, err := check(r.Context(), user.Permissions)
			if err != nil {
				ra.Logger.ErrorContext(r.Context(), "authorization check failed", "error", err, "user_id", user.ID, "check", name)
				ra.HandleServiceError(w, err)
				return
			}

			if !allowed {
				ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", user.ID,
					"check", name,
					"user_permissions", user.Permissions)
				ra.WriteAppError(w, internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeUnauthorizedAccess))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
