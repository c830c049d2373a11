package validation

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/vehicle-permit/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) Required() *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = v == ""
		case *string:
			missing = v == nil || *v == ""
		case int64:
			missing = v == 0
		case time.Time:
			missing = v.IsZero()
		case *time.Time:
			missing = v == nil || v.IsZero()
		case nil:
			missing = true
		}
		if missing {
			return errors.NewValidationFieldError(name, fmt.Sprintf("%s is required", name), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && len(v) > max {
			message := fmt.Sprintf("%s must not exceed %d characters", name, max)
			return errors.NewValidationFieldError(name, message, errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// OneOf restricts a string field to the allowed values.
func (fv *FieldValidator) OneOf(code errors.ErrorCode, allowed ...string) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		message := fmt.Sprintf("%s must be one of %v", name, allowed)
		return errors.NewValidationFieldError(name, message, code)
	})
	return fv
}

// NotBefore fails when the field's time is earlier than other. Zero times are
// left to Required.
func (fv *FieldValidator) NotBefore(other time.Time, otherName string) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(time.Time)
		if !ok || v.IsZero() || other.IsZero() {
			return nil
		}
		if v.Before(other) {
			message := fmt.Sprintf("%s must be after or equal to %s", name, otherName)
			return errors.NewValidationFieldError(name, message, errors.ErrCodeInvalidDate)
		}
		return nil
	})
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}

			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
				continue
			}

			validationErrors = append(validationErrors, errors.ValidationError{
				Field:   field.FieldName,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// ValidatePermitRequestFields checks the fields a permit request cannot be stored without.
func ValidatePermitRequestFields(employeeID string, start, end time.Time, vehicleType, licensePlate string) *errors.AppError {
	validator := NewValidator()
	validator.Field("employee_id", employeeID).Required().MaxLength(50)
	validator.Field("start_datetime", start).Required()
	validator.Field("end_datetime", end).Required()
	validator.Field("vehicle_type", vehicleType).Required().MaxLength(100)
	validator.Field("license_plate", licensePlate).Required().MaxLength(20)
	return validator.Validate()
}

// ValidatePermitPeriod checks that the permit does not end before it starts.
func ValidatePermitPeriod(start, end time.Time) *errors.AppError {
	validator := NewValidator()
	validator.Field("end_datetime", end).NotBefore(start, "start_datetime")
	return validator.Validate()
}

// ValidateDecision checks a review decision.
func ValidateDecision(status string, allowed ...string) *errors.AppError {
	validator := NewValidator()
	validator.Field("status", status).
		Required().
		OneOf(errors.ErrCodeInvalidDecision, allowed...)
	return validator.Validate()
}
