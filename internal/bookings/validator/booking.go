package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"linkuup/pkg/logger"
	"linkuup/pkg/model"
	"linkuup/pkg/recurrence"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *BookingValidator) Validate(b *model.Booking) error {
	if err := v.validate.Struct(b); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return v.validateRecurrence(b)
}

// validateRecurrence enforces the series invariants: a recurring booking
// needs a valid pattern and a series end date, a non-recurring one must not
// carry either, and a weekly pattern must include the first occurrence's
// weekday or the series would never contain its own start.
func (v *BookingValidator) validateRecurrence(b *model.Booking) error {
	var errs ValidationErrors

	if b.IsRecurring {
		if b.Recurrence == nil {
			errs = append(errs, ValidationError{
				Field:   "recurrence",
				Message: "recurrence pattern is required for recurring bookings",
			})
		} else if err := recurrence.Validate(b.Recurrence); err != nil {
			errs = append(errs, ValidationError{
				Field:   "recurrence",
				Message: err.Error(),
			})
		}
		if b.RecurrenceEndDate == nil && (b.Recurrence == nil || b.Recurrence.EndDate == nil) {
			errs = append(errs, ValidationError{
				Field:   "recurrence_end_date",
				Message: "recurring bookings require an end date",
			})
		}
		if b.Recurrence != nil && b.Recurrence.Frequency == model.FrequencyWeekly {
			wanted := false
			for _, dow := range b.Recurrence.DaysOfWeek {
				if dow == int(b.StartTime.UTC().Weekday()) {
					wanted = true
					break
				}
			}
			if !wanted {
				errs = append(errs, ValidationError{
					Field:   "days_of_week",
					Message: "weekly pattern must include the weekday of the first occurrence",
				})
			}
		}
	} else {
		if b.Recurrence != nil {
			errs = append(errs, ValidationError{
				Field:   "recurrence",
				Message: "recurrence pattern must be empty for non-recurring bookings",
			})
		}
		if b.RecurrenceEndDate != nil {
			errs = append(errs, ValidationError{
				Field:   "recurrence_end_date",
				Message: "recurrence_end_date must be empty for non-recurring bookings",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must have at least %s element(s)", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
