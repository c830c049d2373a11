package notification

import "github.com/frahmantamala/vehicle-permit/internal/core/common/validation"

type CreateNotificationDTO struct {
	UserID  int64                  `json:"user_id"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Type    string                 `json:"type"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func (dto CreateNotificationDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("user_id", dto.UserID).Required()
	validator.Field("title", dto.Title).Required().MaxLength(255)
	validator.Field("type", dto.Type).Required().MaxLength(50)
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

