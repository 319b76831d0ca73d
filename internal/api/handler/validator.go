package handler

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

// portalValidator is the echo.Validator of the portal. Besides the stock
// rules it knows two school rules:
//
//	role        one of domain.BackendRoles
//	attendance  present, absent or late
type portalValidator struct {
	v *validator.Validate
}

func NewValidator() *portalValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.BackendRoles, fl.Field().String())
	})
	_ = v.RegisterValidation("attendance", func(fl validator.FieldLevel) bool {
		return domain.AttendanceStatus(fl.Field().String()).Valid()
	})
	return &portalValidator{v: v}
}

// Validate reports every failing field at once, wrapped in
// domain.ErrInvalidInput.
func (pv *portalValidator) Validate(i any) error {
	err := pv.v.Struct(i)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, len(ve))
	for n, fe := range ve {
		msgs[n] = describe(fe)
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

// jsonName reports fields under the name the browser sent.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "", "-":
		return f.Name
	}
	return name
}

var ruleText = map[string]string{
	"required":   "is required",
	"email":      "must be a valid email",
	"role":       "must be a known role",
	"attendance": "must be present, absent or late",
	"gt":         "must be greater than %s",
	"gte":        "must be at least %s",
	"lte":        "must be at most %s",
	"min":        "must have at least %s entries",
	"oneof":      "must be one of: %s",
}

func describe(fe validator.FieldError) string {
	text, ok := ruleText[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
	if strings.Contains(text, "%s") {
		text = fmt.Sprintf(text, fe.Param())
	}
	return fe.Field() + " " + text
}
