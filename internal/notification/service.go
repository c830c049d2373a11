package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/core/common/pagination"
	notificationDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/notification"
	"github.com/frahmantamala/vehicle-permit/pkg/logger"
	"gorm.io/datatypes"
)

// RepositoryAPI returns (nil, nil) from lookups when no row matches.
type RepositoryAPI interface {
	Create(ctx context.Context, n *notificationDatamodel.Notification) error
	GetByID(ctx context.Context, id int64) (*notificationDatamodel.Notification, error)
	GetForUser(ctx context.Context, userID, id int64) (*notificationDatamodel.Notification, error)
	ListByUser(ctx context.Context, userID int64, page pagination.Params) ([]*notificationDatamodel.Notification, int64, error)
	MarkRead(ctx context.Context, id int64, readAt time.Time) (int64, error)
	MarkAllRead(ctx context.Context, userID int64, readAt time.Time) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	repo     RepositoryAPI
	logger   *slog.Logger
	pageSize int
	now      func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = internal.DefaultNotificationPageSize
	}
	return &Service{
		repo:     repo,
		logger:   logger,
		pageSize: pageSize,
		now:      time.Now,
	}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromOr(ctx, s.logger)
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64, page pagination.Params) (pagination.Page[*Notification], error) {
	page = pagination.New(page.Page, page.PerPage, s.pageSize)

	rows, total, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		s.log(ctx).Error("failed to list notifications", "error", err, "user_id", userID)
		return pagination.Page[*Notification]{}, internal.NewStoreError("failed to list notifications", err)
	}

	return pagination.NewPage(FromDataModelSlice(rows), page, total), nil
}

// Create stores an unread notification.
func (s *Service) Create(ctx context.Context, dto CreateNotificationDTO) (*Notification, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &notificationDatamodel.Notification{
		UserID:  dto.UserID,
		Title:   dto.Title,
		Message: dto.Message,
		Type:    dto.Type,
		Data:    datatypes.JSONMap(dto.Data),
		Read:    false,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.log(ctx).Error("failed to create notification", "error", err, "user_id", dto.UserID, "type", dto.Type)
		return nil, internal.NewStoreError("failed to create notification", err)
	}

	return FromDataModel(row), nil
}

// GetOne returns a notification only if it belongs to userID.
func (s *Service) GetOne(ctx context.Context, userID, id int64) (*Notification, error) {
	row, err := s.repo.GetForUser(ctx, userID, id)
	if err != nil {
		s.log(ctx).Error("failed to get notification", "error", err, "notification_id", id)
		return nil, internal.NewStoreError("failed to get notification", err)
	}
	if row == nil {
		return nil, ErrNotificationNotFound
	}
	return FromDataModel(row), nil
}

// MarkRead marks the notification read for its owner. Marking an already read
// notification keeps its first read_at.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) (*Notification, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log(ctx).Error("failed to get notification", "error", err, "notification_id", id)
		return nil, internal.NewStoreError("failed to get notification", err)
	}
	if row == nil {
		return nil, ErrNotificationNotFound
	}

	n := FromDataModel(row)
	if !n.BelongsTo(userID) {
		s.log(ctx).Warn("notification access denied", "notification_id", id, "user_id", userID)
		return nil, ErrAccessDenied
	}

	if n.Read {
		return n, nil
	}

	if _, err := s.repo.MarkRead(ctx, id, s.now()); err != nil {
		s.log(ctx).Error("failed to mark notification read", "error", err, "notification_id", id)
		return nil, internal.NewStoreError("failed to mark notification read", err)
	}

	return s.GetOne(ctx, userID, id)
}

// MarkAllRead marks every unread notification of the user and returns how
// many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		s.log(ctx).Error("failed to mark all notifications read", "error", err, "user_id", userID)
		return 0, internal.NewStoreError("failed to mark notifications read", err)
	}

	if updated > 0 {
		s.log(ctx).Info("notifications marked read", "user_id", userID, "count", updated)
	}
	return updated, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.log(ctx).Error("failed to count unread notifications", "error", err, "user_id", userID)
		return 0, internal.NewStoreError("failed to count notifications", err)
	}
	return count, nil
}
