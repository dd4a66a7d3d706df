package tpos

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)
	validate      = newValidator()

	decimalOne = decimal.NewFromInt(1)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("iso4217", func(fl validator.FieldLevel) bool {
		return IsValidCurrencyCode(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	// The built-in uuid tag only accepts lower case; Swift and .NET clients
	// send upper case.
	if err := v.RegisterValidation("uuid_string", func(fl validator.FieldLevel) bool {
		return isUUID(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("url_scheme", func(fl validator.FieldLevel) bool {
		return schemePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// fieldKinds maps "field" or "field.tag" to the kind reported for a failure.
type fieldKinds map[string]ErrorKind

func (k fieldKinds) lookup(fe validator.FieldError) ErrorKind {
	if kind, ok := k[fe.Field()+"."+fe.Tag()]; ok {
		return kind
	}
	if kind, ok := k[fe.Field()]; ok {
		return kind
	}
	return InvalidField
}

func validateStruct(v any, kinds fieldKinds) error {
	if err := validate.Struct(v); err != nil {
		return normalizeValidationError(err, kinds)
	}
	return nil
}

func normalizeValidationError(err error, kinds fieldKinds) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	first := validationErrs[0]
	return newError(kinds.lookup(first), validationMessage(first), withField(jsonPath(first)))
}

func jsonPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	if path == "" {
		return fe.Field()
	}
	return path
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "iso4217":
		return "must be an upper-case ISO-4217 currency code"
	case "uuid_string":
		return "must be a UUID"
	case "url_scheme":
		return "must be a valid URL scheme"
	case "url":
		return "must be an absolute URL"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// checkNonNegative fails with kind when d < 0.
func checkNonNegative(d decimal.Decimal, field string, kind ErrorKind) error {
	if d.IsNegative() {
		return newError(kind, "must not be negative", withField(field))
	}
	return nil
}

// checkUnitRange fails with kind when d is outside [0, 1].
func checkUnitRange(d decimal.Decimal, field string, kind ErrorKind) error {
	if d.IsNegative() || d.Cmp(decimalOne) > 0 {
		return newError(kind, "must be within [0, 1]", withField(field))
	}
	return nil
}
