package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/vehicle-permit/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

var errUserNotFound = errors.New("user not found")

func (r *Repository) GetPasswordForUsername(email string) (string, string, error) {
	var passwordHash string
	var userID string
	query := `SELECT id, password_hash FROM users WHERE email = ? AND is_active = ?`

	row := r.db.Raw(query, email, true).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", errUserNotFound
		}
		return "", "", err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*auth.Identity, error) {
	var user auth.Identity

	query := `SELECT id, email FROM users WHERE id = ? AND is_active = ?`

	row := r.db.Raw(query, userID, true).Row()
	if err := row.Scan(&user.ID, &user.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	var permissions []string
	err := r.db.Raw(`SELECT p.name
	             FROM permissions p
	             JOIN user_permissions up ON p.id = up.permission_id
	             WHERE up.user_id = ?
	             ORDER BY p.name`, userID).Scan(&permissions).Error
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	user.Permissions = permissions
	return &user, nil
}
