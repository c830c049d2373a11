package notification

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	ID        int64             `gorm:"primaryKey"`
	UserID    int64             `gorm:"column:user_id;not null;index"`
	Title     string            `gorm:"column:title;not null"`
	Message   string            `gorm:"column:message"`
	Type      string            `gorm:"column:type;not null"`
	Data      datatypes.JSONMap `gorm:"column:data"`
	Read      bool              `gorm:"column:read;default:false;index"`
	ReadAt    *time.Time        `gorm:"column:read_at"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
