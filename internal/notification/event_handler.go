package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/vehicle-permit/internal/core/events"
	"github.com/frahmantamala/vehicle-permit/internal/user"
)

const permitRequestTitle = "New Vehicle Permit Request"

// Creator is the part of the notification service the fan-out needs.
type Creator interface {
	Create(ctx context.Context, dto CreateNotificationDTO) (*Notification, error)
}

// RecipientDirectory lists the users who review permit requests.
type RecipientDirectory interface {
	GetHRUsers(ctx context.Context) ([]*user.User, error)
}

type EventHandler struct {
	notifications Creator
	recipients    RecipientDirectory
	logger        *slog.Logger
}

func NewEventHandler(notifications Creator, recipients RecipientDirectory, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		notifications: notifications,
		recipients:    recipients,
		logger:        logger,
	}
}

// HandlePermitRequestSubmitted notifies every active HR user. A failure for
// one recipient does not stop the others; all failures are returned joined.
func (h *EventHandler) HandlePermitRequestSubmitted(ctx context.Context, event events.Event) error {
	submitted, ok := event.(*events.PermitRequestSubmittedEvent)
	if !ok {
		h.logger.Error("invalid event type for permit request submitted handler", "event_type", event.EventType())
		return fmt.Errorf("expected PermitRequestSubmittedEvent, got %T", event)
	}

	recipients, err := h.recipients.GetHRUsers(ctx)
	if err != nil {
		h.logger.Error("failed to resolve hr recipients",
			"error", err,
			"permit_request_id", submitted.PermitRequestID,
			"event_id", submitted.EventID())
		return fmt.Errorf("resolve recipients for permit request %d: %w", submitted.PermitRequestID, err)
	}

	dto := CreateNotificationDTO{
		Title:   permitRequestTitle,
		Message: fmt.Sprintf("New permit request from %s (%s)", submitted.EmployeeName, submitted.EmployeeDepartment),
		Type:    TypePermitRequest,
	}

	var errs []error
	delivered := 0
	for _, recipient := range recipients {
		dto.UserID = recipient.ID
		dto.Data = map[string]interface{}{
			"permit_request_id":   submitted.PermitRequestID,
			"employee_name":       submitted.EmployeeName,
			"employee_department": submitted.EmployeeDepartment,
			"vehicle_type":        submitted.VehicleType,
		}

		if _, err := h.notifications.Create(ctx, dto); err != nil {
			h.logger.Error("failed to notify hr user",
				"error", err,
				"user_id", recipient.ID,
				"permit_request_id", submitted.PermitRequestID)
			errs = append(errs, fmt.Errorf("notify user %d: %w", recipient.ID, err))
			continue
		}
		delivered++
	}

	h.logger.Info("permit request fan-out finished",
		"permit_request_id", submitted.PermitRequestID,
		"recipients", len(recipients),
		"delivered", delivered,
		"event_id", submitted.EventID())

	return errors.Join(errs...)
}

// HandlePermitRequestReviewed is where a notification to the requesting
// employee would go. Employees have no user accounts yet, so it only logs.
func (h *EventHandler) HandlePermitRequestReviewed(ctx context.Context, event events.Event) error {
	reviewed, ok := event.(*events.PermitRequestReviewedEvent)
	if !ok {
		h.logger.Error("invalid event type for permit request reviewed handler", "event_type", event.EventType())
		return fmt.Errorf("expected PermitRequestReviewedEvent, got %T", event)
	}

	h.logger.Info("permit request reviewed, no employee notification sent",
		"permit_request_id", reviewed.PermitRequestID,
		"employee_id", reviewed.EmployeeID,
		"status", reviewed.Status,
		"reviewed_by", reviewed.ReviewedBy)
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypePermitRequestSubmitted, h.HandlePermitRequestSubmitted)
	eventBus.Subscribe(events.EventTypePermitRequestReviewed, h.HandlePermitRequestReviewed)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypePermitRequestSubmitted, events.EventTypePermitRequestReviewed})
}
