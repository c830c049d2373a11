package permitrequest

import (
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/core/common/pagination"
	"github.com/frahmantamala/vehicle-permit/internal/core/common/validation"
)

// CreatePermitRequestDTO is the payload employees submit. EmployeeID is the
// business key, not the internal id.
type CreatePermitRequestDTO struct {
	EmployeeID    string    `json:"employee_id"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	VehicleType   string    `json:"vehicle_type"`
	LicensePlate  string    `json:"license_plate"`
}

// ValidateFields checks presence and length of every field.
func (dto CreatePermitRequestDTO) ValidateFields() error {
	if appErr := validation.ValidatePermitRequestFields(
		strings.TrimSpace(dto.EmployeeID),
		dto.StartDatetime,
		dto.EndDatetime,
		strings.TrimSpace(dto.VehicleType),
		strings.TrimSpace(dto.LicensePlate),
	); appErr != nil {
		return appErr
	}
	return nil
}

// Validate is the full request check run at the HTTP boundary, including the
// end >= start rule.
func (dto CreatePermitRequestDTO) Validate() error {
	if err := dto.ValidateFields(); err != nil {
		return err
	}
	if appErr := validation.ValidatePermitPeriod(dto.StartDatetime, dto.EndDatetime); appErr != nil {
		return appErr
	}
	return nil
}

type ReviewPermitRequestDTO struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

func (dto ReviewPermitRequestDTO) Validate() error {
	if appErr := validation.ValidateDecision(dto.Status, DecisionStatuses...); appErr != nil {
		return appErr
	}
	return nil
}

// ListFilter holds the optional, conjunctive list filters. Empty values are
// not applied.
type ListFilter struct {
	Search     string     `json:"search"`
	Department string     `json:"department"`
	Status     string     `json:"status"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
}

var filterDateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

// ParseListFilter reads the filter query parameters.
func ParseListFilter(q url.Values) (ListFilter, error) {
	filter := ListFilter{
		Search:     strings.TrimSpace(q.Get("search")),
		Department: strings.TrimSpace(q.Get("department")),
		Status:     strings.TrimSpace(q.Get("status")),
	}

	var err error
	if filter.DateFrom, err = parseFilterDate("date_from", q.Get("date_from")); err != nil {
		return ListFilter{}, err
	}
	if filter.DateTo, err = parseFilterDate("date_to", q.Get("date_to")); err != nil {
		return ListFilter{}, err
	}
	return filter, nil
}

func parseFilterDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range filterDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, internal.NewValidationFieldError(field, field+" is not a valid date", internal.ErrCodeInvalidDate)
}

// ListResult is the list page plus what a filter UI needs to render itself.
type ListResult struct {
	Requests    pagination.Page[*PermitRequest] `json:"requests"`
	Departments []string                        `json:"departments"`
	Filters     ListFilter                      `json:"filters"`
}
