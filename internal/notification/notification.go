package notification

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	notificationDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/notification"
	"gorm.io/datatypes"
)

// TypePermitRequest marks notifications about submitted permit requests.
const TypePermitRequest = "permit_request"

type Notification struct {
	ID        int64                  `json:"id"`
	UserID    int64                  `json:"user_id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Read      bool                   `json:"read"`
	ReadAt    *time.Time             `json:"read_at"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (n *Notification) BelongsTo(userID int64) bool {
	return n.UserID == userID
}

var (
	ErrNotificationNotFound = internal.NewNotFoundError("Notification not found", internal.ErrCodeNotificationNotFound)
	ErrAccessDenied         = internal.NewForbiddenError("You cannot modify this notification", internal.ErrCodeNotificationAccessDenied)
)

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Data:      datatypes.JSONMap(n.Data),
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	if n == nil {
		return nil
	}
	return &Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Data:      map[string]interface{}(NormalizeData(n.Data)),
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// NormalizeData turns the json.Number values produced by decoding the stored
// column back into int64 or float64 so reads match what Create returned.
func NormalizeData(raw datatypes.JSONMap) datatypes.JSONMap {
	data := make(datatypes.JSONMap, len(raw))
	for k, v := range raw {
		data[k] = normalizeValue(v)
	}
	return data
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func FromDataModelSlice(rows []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(rows))
	for i, n := range rows {
		result[i] = FromDataModel(n)
	}
	return result
}
