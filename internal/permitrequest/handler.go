package permitrequest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/core/common/pagination"
	"github.com/frahmantamala/vehicle-permit/internal/transport"
	"github.com/frahmantamala/vehicle-permit/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
	Create(ctx context.Context, dto CreatePermitRequestDTO) (*PermitRequest, error)
	Show(ctx context.Context, id int64) (*PermitRequest, error)
	Decide(ctx context.Context, id int64, dto ReviewPermitRequestDTO, reviewer *internal.User) (*PermitRequest, error)
	Delete(ctx context.Context, id int64) error
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

// ListPermitRequests handles GET /permit-requests
func (h *Handler) ListPermitRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.List(r.Context(), filter, pagination.FromRequest(r, 0))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// CreatePermitRequest handles POST /permit-requests
func (h *Handler) CreatePermitRequest(w http.ResponseWriter, r *http.Request) {
	var dto CreatePermitRequestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreatePermitRequest: service error", "error", err, "employee_id", dto.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// GetPermitRequest handles GET /permit-requests/{id}
func (h *Handler) GetPermitRequest(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	request, err := h.Service.Show(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, request)
}

// ReviewPermitRequest handles PATCH /permit-requests/{id}/status
func (h *Handler) ReviewPermitRequest(w http.ResponseWriter, r *http.Request) {
	reviewer, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto ReviewPermitRequestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	updated, err := h.Service.Decide(r.Context(), id, dto, reviewer)
	if err != nil {
		h.Logger.Warn("ReviewPermitRequest: service error", "error", err, "permit_request_id", id, "user_id", reviewer.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// DeletePermitRequest handles DELETE /permit-requests/{id}
func (h *Handler) DeletePermitRequest(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
