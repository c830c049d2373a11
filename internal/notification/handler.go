package notification

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/vehicle-permit/internal/core/common/pagination"
	"github.com/frahmantamala/vehicle-permit/internal/transport"
	"github.com/frahmantamala/vehicle-permit/pkg/logger"
)

type ServiceAPI interface {
	ListForUser(ctx context.Context, userID int64, page pagination.Params) (pagination.Page[*Notification], error)
	GetOne(ctx context.Context, userID, id int64) (*Notification, error)
	MarkRead(ctx context.Context, userID, id int64) (*Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListNotifications handles GET /notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	current, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	page, err := h.Service.ListForUser(r.Context(), current.ID, pagination.FromRequest(r, 0))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

// UnreadCount handles GET /notifications/unread-count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	current, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	count, err := h.Service.UnreadCount(r.Context(), current.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UnreadCountResponse{Count: count})
}

// GetNotification handles GET /notifications/{id}
func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	current, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	n, err := h.Service.GetOne(r.Context(), current.ID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, n)
}

// MarkRead handles PATCH /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	current, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	n, err := h.Service.MarkRead(r.Context(), current.ID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, n)
}

// MarkAllRead handles POST /notifications/read-all
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	current, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	updated, err := h.Service.MarkAllRead(r.Context(), current.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MarkAllReadResponse{Updated: updated})
}
