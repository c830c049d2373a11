package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal/core/common/pagination"
	notificationDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/notification"
	"github.com/frahmantamala/vehicle-permit/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notificationDatamodel.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*notificationDatamodel.Notification, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *NotificationRepository) GetForUser(ctx context.Context, userID, id int64) (*notificationDatamodel.Notification, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

func (r *NotificationRepository) first(query *gorm.DB) (*notificationDatamodel.Notification, error) {
	var n notificationDatamodel.Notification
	if err := query.First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	n.Data = notification.NormalizeData(n.Data)
	return &n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, page pagination.Params) ([]*notificationDatamodel.Notification, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	notifications := []*notificationDatamodel.Notification{}
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	for _, n := range notifications {
		n.Data = notification.NormalizeData(n.Data)
	}
	return notifications, total, nil
}

// MarkRead only touches the row while it is unread, so read_at is never
// overwritten.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, readAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND read = ?", id, false).
		Updates(map[string]interface{}{
			"read":       true,
			"read_at":    readAt,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64, readAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{
			"read":       true,
			"read_at":    readAt,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
