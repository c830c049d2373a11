package user

import (
	"context"
	"fmt"

	"github.com/frahmantamala/vehicle-permit/internal"
	userDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/user"
)

type Service struct {
	repo Repository
}

// Repository returns (nil, nil) from GetByID when the user does not exist.
type Repository interface {
	GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error)
	GetPermissions(ctx context.Context, userID int64) ([]string, error)
	GetActiveUsersWithPermission(ctx context.Context, permission string) ([]*userDatamodel.User, error)
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	perms, err := s.repo.GetPermissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return FromDataModelWithPermissions(row, perms), nil
}

// GetUsersWithPermission lists active users holding permission, e.g. every HR user.
func (s *Service) GetUsersWithPermission(ctx context.Context, permission string) ([]*User, error) {
	rows, err := s.repo.GetActiveUsersWithPermission(ctx, permission)
	if err != nil {
		return nil, fmt.Errorf("failed to get users with permission %s: %w", permission, err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModelWithPermissions(row, []string{permission}))
	}
	return users, nil
}

// GetHRUsers lists the recipients of permit request notifications.
func (s *Service) GetHRUsers(ctx context.Context) ([]*User, error) {
	return s.GetUsersWithPermission(ctx, internal.PermissionHR)
}
