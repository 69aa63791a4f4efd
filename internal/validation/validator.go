package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/pkg/apperrors"
)

// Validator checks inbound request payloads before they reach the service
// layer. Failures are collected per field so the caller sees every problem
// in one round trip.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the domain-specific rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Error maps are keyed by the json field name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// "required" only rejects the zero string; text fields that must hold
	// actual content also carry notblank, which checks the trimmed value.
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "sortkey", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseTicketSort(fl.Field().String())
		return ok
	})
	mustRegister(v, "ticketstatus", func(fl validator.FieldLevel) bool {
		return domain.ValidStatus(domain.TicketStatus(fl.Field().String()))
	})
	mustRegister(v, "ticketpriority", func(fl validator.FieldLevel) bool {
		return domain.ValidPriority(domain.TicketPriority(fl.Field().String()))
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Check validates the payload and returns a ValidationFailed error carrying
// the complete per-field message map, or nil when the payload is valid.
func (v *Validator) Check(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Unexpected(err)
	}

	fields := make(map[string][]string, len(violations))
	for _, violation := range violations {
		key := violation.Field()
		fields[key] = append(fields[key], message(violation))
	}
	return apperrors.Validation(fields)
}

func message(fe validator.FieldError) string {
	name := fe.StructField()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", name)
	case "notblank":
		return fmt.Sprintf("%s cannot be blank.", name)
	case "max":
		return fmt.Sprintf("%s can be max %s characters.", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", name, fe.Param())
	case "sortkey":
		return fmt.Sprintf("%s must be one of createdAtAsc, createdAtDesc, updatedAtAsc, updatedAtDesc.", name)
	case "ticketstatus":
		return fmt.Sprintf("%s must be one of OPEN, IN_PROGRESS, RESOLVED, CLOSED.", name)
	case "ticketpriority":
		return fmt.Sprintf("%s must be one of LOW, MEDIUM, HIGH, URGENT.", name)
	default:
		return fmt.Sprintf("%s is invalid.", name)
	}
}
