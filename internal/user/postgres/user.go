package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	userDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/user"
	"github.com/frahmantamala/vehicle-permit/internal/user"
	"github.com/jmoiron/sqlx"
)

const userColumns = "u.id, u.email, u.name, u.password_hash, COALESCE(u.department, '') AS department, u.is_active, u.created_at, u.updated_at"

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users u WHERE u.id = ?`)
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user query: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetPermissions(ctx context.Context, userID int64) ([]string, error) {
	permissions := []string{}
	query := r.db.Rebind(`
SELECT p.name
FROM permissions p
JOIN user_permissions up ON p.id = up.permission_id
WHERE up.user_id = ?
ORDER BY p.name`)
	if err := r.db.SelectContext(ctx, &permissions, query, userID); err != nil {
		return nil, fmt.Errorf("get permissions query: %w", err)
	}
	return permissions, nil
}

func (r *Repository) GetActiveUsersWithPermission(ctx context.Context, permission string) ([]*userDatamodel.User, error) {
	users := []*userDatamodel.User{}
	query := r.db.Rebind(`
SELECT ` + userColumns + `
FROM users u
WHERE u.is_active = ?
  AND EXISTS (
    SELECT 1 FROM user_permissions up
    JOIN permissions p ON up.permission_id = p.id
    WHERE up.user_id = u.id AND p.name = ?
  )
ORDER BY u.id`)
	if err := r.db.SelectContext(ctx, &users, query, true, permission); err != nil {
		return nil, fmt.Errorf("users with permission query: %w", err)
	}
	return users, nil
}
