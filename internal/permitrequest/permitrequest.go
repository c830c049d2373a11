package permitrequest

import (
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	permitDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/permitrequest"
	"github.com/frahmantamala/vehicle-permit/internal/employee"
	"github.com/frahmantamala/vehicle-permit/internal/user"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// DecisionStatuses are the statuses a reviewer may move a request to.
var DecisionStatuses = []string{StatusApproved, StatusRejected}

type PermitRequest struct {
	ID            int64              `json:"id"`
	EmployeeID    int64              `json:"employee_id"`
	StartDatetime time.Time          `json:"start_datetime"`
	EndDatetime   time.Time          `json:"end_datetime"`
	VehicleType   string             `json:"vehicle_type"`
	LicensePlate  string             `json:"license_plate"`
	Status        string             `json:"status"`
	Notes         *string            `json:"notes"`
	ReviewedBy    *int64             `json:"reviewed_by"`
	ReviewedAt    *time.Time         `json:"reviewed_at"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Employee      *employee.Employee `json:"employee,omitempty"`
	Reviewer      *user.Summary      `json:"reviewer,omitempty"`
}

func (p *PermitRequest) IsReviewed() bool {
	return p.ReviewedBy != nil && p.ReviewedAt != nil
}

var (
	ErrPermitRequestNotFound = internal.NewNotFoundError("Permit request not found", internal.ErrCodePermitRequestNotFound)
	ErrReviewerNotAuthorized = internal.NewForbiddenError("Only HR staff or administrators can review permit requests", internal.ErrCodeUnauthorizedAccess)
)

func ToDataModel(p *PermitRequest) *permitDatamodel.PermitRequest {
	return &permitDatamodel.PermitRequest{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		StartDatetime: p.StartDatetime,
		EndDatetime:   p.EndDatetime,
		VehicleType:   p.VehicleType,
		LicensePlate:  p.LicensePlate,
		Status:        p.Status,
		Notes:         p.Notes,
		ReviewedBy:    p.ReviewedBy,
		ReviewedAt:    p.ReviewedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromDataModel(p *permitDatamodel.PermitRequest) *PermitRequest {
	if p == nil {
		return nil
	}
	result := &PermitRequest{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		StartDatetime: p.StartDatetime,
		EndDatetime:   p.EndDatetime,
		VehicleType:   p.VehicleType,
		LicensePlate:  p.LicensePlate,
		Status:        p.Status,
		Notes:         p.Notes,
		ReviewedBy:    p.ReviewedBy,
		ReviewedAt:    p.ReviewedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Employee:      employee.FromDataModel(p.Employee),
	}
	if p.Reviewer != nil {
		result.Reviewer = user.FromDataModel(p.Reviewer).ToSummary()
	}
	return result
}

func FromDataModelSlice(rows []*permitDatamodel.PermitRequest) []*PermitRequest {
	result := make([]*PermitRequest, len(rows))
	for i, p := range rows {
		result[i] = FromDataModel(p)
	}
	return result
}
