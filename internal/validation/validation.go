package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"product-api/internal/money"
)

// Limits of a decimal(18,2) column.
const (
	moneyScale         = money.Scale
	moneyIntegerDigits = money.Precision - money.Scale
)

// FieldError describes one failed constraint on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator checks structs against their `validate` tags.
type Validator struct {
	validate *validator.Validate
}

var std = New()

// New creates a Validator with the custom tags used by the product models:
// notblank, money and json field naming.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, money.Amount{})

	// Registration only fails on an empty tag or a nil func.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		panic(err)
	}

	return &Validator{validate: v}
}

// Struct validates s and returns every violation, or nil when s is valid.
func (v *Validator) Struct(s interface{}) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Message: err.Error()}}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   e.Field(),
			Message: messageFor(e),
		})
	}
	return fieldErrors
}

// Struct validates s with the package-level Validator.
func Struct(s interface{}) []FieldError {
	return std.Struct(s)
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", e.Field())
	case "max":
		return fmt.Sprintf("The %s field must not exceed %s characters.", e.Field(), e.Param())
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", e.Field())
	case "money":
		return fmt.Sprintf("The %s field must have at most %d integer digits and %d decimal places.",
			e.Field(), moneyIntegerDigits, moneyScale)
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// decimalValue lets tags on decimal fields see the canonical string form.
func decimalValue(field reflect.Value) interface{} {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d.String()
	case money.Amount:
		return d.String()
	}
	return nil
}

func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	if !d.Equal(d.Truncate(moneyScale)) {
		return false
	}
	return len(d.Abs().Truncate(0).String()) <= moneyIntegerDigits
}
