package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePermitRequestSubmitted = "permit_request.submitted"
	EventTypePermitRequestReviewed  = "permit_request.reviewed"
)

type PermitRequestSubmittedEvent struct {
	BaseEvent
	PermitRequestID    int64  `json:"permit_request_id"`
	EmployeeID         int64  `json:"employee_id"`
	EmployeeName       string `json:"employee_name"`
	EmployeeDepartment string `json:"employee_department"`
	VehicleType        string `json:"vehicle_type"`
}

func NewPermitRequestSubmittedEvent(permitRequestID, employeeID int64, employeeName, department, vehicleType string) *PermitRequestSubmittedEvent {
	return &PermitRequestSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePermitRequestSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"permit_request_id":   permitRequestID,
				"employee_id":         employeeID,
				"employee_name":       employeeName,
				"employee_department": department,
				"vehicle_type":        vehicleType,
			},
		},
		PermitRequestID:    permitRequestID,
		EmployeeID:         employeeID,
		EmployeeName:       employeeName,
		EmployeeDepartment: department,
		VehicleType:        vehicleType,
	}
}

type PermitRequestReviewedEvent struct {
	BaseEvent
	PermitRequestID int64   `json:"permit_request_id"`
	EmployeeID      int64   `json:"employee_id"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	ReviewedBy      int64   `json:"reviewed_by"`
}

func NewPermitRequestReviewedEvent(permitRequestID, employeeID int64, status string, notes *string, reviewedBy int64) *PermitRequestReviewedEvent {
	return &PermitRequestReviewedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePermitRequestReviewed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"permit_request_id": permitRequestID,
				"employee_id":       employeeID,
				"status":            status,
				"reviewed_by":       reviewedBy,
			},
		},
		PermitRequestID: permitRequestID,
		EmployeeID:      employeeID,
		Status:          status,
		Notes:           notes,
		ReviewedBy:      reviewedBy,
	}
}
