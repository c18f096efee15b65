package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bookable/pkg/logger"
	"bookable/pkg/model"

	"github.com/go-playground/validator/v10"
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

type WindowValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewWindowValidator(log *logger.Logger) *WindowValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", ValidateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}

	log.Info("Availability window validator initialized successfully")

	return &WindowValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateHHMM accepts 24-hour wall-clock times like "09:30".
func ValidateHHMM(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

func (v *WindowValidator) Validate(window *model.AvailabilityWindow) error {
	if err := v.validate.Struct(window); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	// Midnight-crossing windows are a configuration error rejected at
	// definition time, not at slot generation time.
	if window.StartTime >= window.EndTime {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time within the same day",
			},
		}
	}

	return nil
}

func (v *WindowValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "gte", "lte":
			message = "day_of_week must be between 0 (Sunday) and 6 (Saturday)"
		case "hhmm":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
