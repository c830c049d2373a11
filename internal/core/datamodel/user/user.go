package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey" db:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" db:"email"`
	Name         string    `gorm:"column:name;not null" db:"name"`
	PasswordHash string    `gorm:"column:password_hash;not null" db:"password_hash"`
	Department   string    `gorm:"column:department" db:"department"`
	IsActive     bool      `gorm:"column:is_active;default:true" db:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" db:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Permission struct {
	ID          int64     `gorm:"primaryKey" db:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" db:"name"`
	Description string    `gorm:"column:description" db:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" db:"created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

type UserPermission struct {
	ID           int64     `gorm:"primaryKey" db:"id"`
	UserID       int64     `gorm:"column:user_id;not null;index" db:"user_id"`
	PermissionID int64     `gorm:"column:permission_id;not null" db:"permission_id"`
	GrantedBy    *int64    `gorm:"column:granted_by" db:"granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" db:"created_at"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}
