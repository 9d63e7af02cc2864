package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

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

// ClosureValidator validates both closure periods and employee time-off
// requests. The two share the same day-level shape: a date range, a
// full-day/half-day split, and an optional recurrence pattern.
type ClosureValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewClosureValidator(log *logger.Logger) *ClosureValidator {
	return &ClosureValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ClosureValidator) ValidateClosure(c *model.ClosurePeriod) error {
	if err := v.validateStruct(c); err != nil {
		return err
	}
	return v.validatePeriod(c.StartDate, c.EndDate, c.IsFullDay, c.HalfDayPeriod, c.IsRecurring, c.Recurrence)
}

func (v *ClosureValidator) ValidateTimeOff(t *model.EmployeeTimeOff) error {
	if err := v.validateStruct(t); err != nil {
		return err
	}
	return v.validatePeriod(t.StartDate, t.EndDate, t.IsFullDay, t.HalfDayPeriod, t.IsRecurring, t.Recurrence)
}

func (v *ClosureValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// validatePeriod enforces the invariants struct tags cannot express:
// end_date >= start_date at day granularity, half_day_period present exactly
// when the row is not full-day, and a valid recurrence pattern present
// exactly when the row is recurring.
func (v *ClosureValidator) validatePeriod(
	startDate, endDate time.Time,
	isFullDay bool,
	halfDayPeriod model.DayPeriod,
	isRecurring bool,
	pattern *model.RecurrencePattern,
) error {
	var errs ValidationErrors

	if recurrence.Date(endDate).Before(recurrence.Date(startDate)) {
		errs = append(errs, ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if isFullDay && halfDayPeriod != "" {
		errs = append(errs, ValidationError{
			Field:   "half_day_period",
			Message: "half_day_period must be empty for full-day periods",
		})
	}
	if !isFullDay && halfDayPeriod == "" {
		errs = append(errs, ValidationError{
			Field:   "half_day_period",
			Message: "half_day_period is required for half-day periods",
		})
	}

	if isRecurring && pattern == nil {
		errs = append(errs, ValidationError{
			Field:   "recurrence",
			Message: "recurrence pattern is required for recurring periods",
		})
	}
	if !isRecurring && pattern != nil {
		errs = append(errs, ValidationError{
			Field:   "recurrence",
			Message: "recurrence pattern must be empty for non-recurring periods",
		})
	}
	if isRecurring && pattern != nil {
		if err := recurrence.Validate(pattern); err != nil {
			errs = append(errs, ValidationError{
				Field:   "recurrence",
				Message: err.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *ClosureValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
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
