package permitrequest

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/core/common/pagination"
	permitDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/permitrequest"
	"github.com/frahmantamala/vehicle-permit/internal/core/events"
	"github.com/frahmantamala/vehicle-permit/internal/employee"
	"github.com/frahmantamala/vehicle-permit/pkg/logger"
)

// RepositoryAPI returns (nil, nil) from GetByID when no row matches. Rows
// returned by GetByID and List carry their Employee and Reviewer.
type RepositoryAPI interface {
	Create(ctx context.Context, request *permitDatamodel.PermitRequest) error
	GetByID(ctx context.Context, id int64) (*permitDatamodel.PermitRequest, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*permitDatamodel.PermitRequest, int64, error)
	UpdateDecision(ctx context.Context, id int64, decision Decision) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Decision is the set of columns a review writes in a single update.
type Decision struct {
	Status     string
	Notes      *string
	ReviewedBy int64
	ReviewedAt time.Time
}

type EmployeeDirectory interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error)
	Departments(ctx context.Context) ([]string, error)
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeDirectory
	publisher events.Publisher
	logger    *slog.Logger
	pageSize  int
	now       func() time.Time
}

func NewService(repo RepositoryAPI, employees EmployeeDirectory, publisher events.Publisher, logger *slog.Logger, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = internal.DefaultPermitRequestPageSize
	}
	return &Service{
		repo:      repo,
		employees: employees,
		publisher: publisher,
		logger:    logger,
		pageSize:  pageSize,
		now:       time.Now,
	}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromOr(ctx, s.logger)
}

// List returns one page of requests matching filter, newest first, together
// with the department list and the echoed filters.
func (s *Service) List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	page = pagination.New(page.Page, page.PerPage, s.pageSize)

	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		s.log(ctx).Error("failed to list permit requests", "error", err)
		return nil, internal.NewStoreError("failed to list permit requests", err)
	}

	departments, err := s.employees.Departments(ctx)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Requests:    pagination.NewPage(FromDataModelSlice(rows), page, total),
		Departments: departments,
		Filters:     filter,
	}, nil
}

// Create stores a pending request for the employee identified by business key
// and announces it. A failed announcement is logged and does not fail Create.
func (s *Service) Create(ctx context.Context, dto CreatePermitRequestDTO) (*PermitRequest, error) {
	if err := dto.ValidateFields(); err != nil {
		s.log(ctx).Warn("permit request validation failed", "error", err)
		return nil, err
	}

	emp, err := s.employees.GetByEmployeeID(ctx, dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	row := &permitDatamodel.PermitRequest{
		EmployeeID:    emp.ID,
		StartDatetime: dto.StartDatetime,
		EndDatetime:   dto.EndDatetime,
		VehicleType:   dto.VehicleType,
		LicensePlate:  dto.LicensePlate,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.log(ctx).Error("failed to create permit request", "error", err, "employee_id", emp.EmployeeID)
		return nil, internal.NewStoreError("failed to create permit request", err)
	}

	created := FromDataModel(row)
	created.Employee = emp

	s.log(ctx).Info("permit request created",
		"permit_request_id", created.ID,
		"employee_id", emp.EmployeeID,
		"vehicle_type", created.VehicleType)

	s.publish(ctx, events.NewPermitRequestSubmittedEvent(created.ID, emp.ID, emp.Name, emp.Department, created.VehicleType))

	return created, nil
}

func (s *Service) Show(ctx context.Context, id int64) (*PermitRequest, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log(ctx).Error("failed to get permit request", "error", err, "permit_request_id", id)
		return nil, internal.NewStoreError("failed to get permit request", err)
	}
	if row == nil {
		return nil, ErrPermitRequestNotFound
	}
	return FromDataModel(row), nil
}

// Decide approves or rejects a request on behalf of reviewer. Status, notes
// and the audit fields are written together. Re-reviewing is allowed and
// re-stamps the audit fields.
func (s *Service) Decide(ctx context.Context, id int64, dto ReviewPermitRequestDTO, reviewer *internal.User) (*PermitRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if !reviewer.CanReviewPermitRequests() {
		var reviewerID int64
		if reviewer != nil {
			reviewerID = reviewer.ID
		}
		s.log(ctx).Warn("review denied: missing hr or admin capability",
			"permit_request_id", id,
			"user_id", reviewerID)
		return nil, ErrReviewerNotAuthorized
	}

	existing, err := s.Show(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := Decision{
		Status:     dto.Status,
		Notes:      dto.Notes,
		ReviewedBy: reviewer.ID,
		ReviewedAt: s.now(),
	}
	affected, err := s.repo.UpdateDecision(ctx, id, decision)
	if err != nil {
		s.log(ctx).Error("failed to record decision", "error", err, "permit_request_id", id)
		return nil, internal.NewStoreError("failed to update permit request", err)
	}
	if affected == 0 {
		return nil, ErrPermitRequestNotFound
	}

	s.log(ctx).Info("permit request reviewed",
		"permit_request_id", id,
		"previous_status", existing.Status,
		"re_review", existing.IsReviewed(),
		"status", dto.Status,
		"reviewed_by", reviewer.ID)

	updated, err := s.Show(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewPermitRequestReviewedEvent(id, updated.EmployeeID, updated.Status, updated.Notes, reviewer.ID))

	return updated, nil
}

// Delete removes the request permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log(ctx).Error("failed to delete permit request", "error", err, "permit_request_id", id)
		return internal.NewStoreError("failed to delete permit request", err)
	}
	if affected == 0 {
		return ErrPermitRequestNotFound
	}

	s.log(ctx).Info("permit request deleted", "permit_request_id", id)
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log(ctx).Error("permit request event delivery failed",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
}
