// internal/utils/validator.go
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/javajoker/chemist-backend/internal/apperror"
	"github.com/javajoker/chemist-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json names so errors match the request body.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Money and dates validate as their scalar values.
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	validate.RegisterCustomTypeFunc(dateValue, models.Date{})
}

func decimalValue(field reflect.Value) interface{} {
	switch v := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	case decimal.NullDecimal:
		if !v.Valid {
			return nil
		}
		f, _ := v.Decimal.Float64()
		return f
	}
	return nil
}

func dateValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(models.Date); ok && !d.IsZero() {
		return d.Time
	}
	return nil
}

// ValidateStruct runs tag validation and converts failures into an
// apperror.ValidationError carrying one entry per field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fields := GetValidationErrors(err)
	if len(fields) == 0 {
		return apperror.Internal("validate request", err)
	}

	return &apperror.ValidationError{
		Field:   fields[0].Field,
		Message: fields[0].Message,
		Fields:  fields,
	}
}

// ValidateField checks a single value against tag, reporting failures under field.
func ValidateField(field string, value interface{}, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	fields := GetValidationErrors(err)
	if len(fields) == 0 {
		return apperror.Internal("validate "+field, err)
	}
	for i := range fields {
		fields[i].Field = field
	}
	message := fields[0].Message
	if fields[0].Tag != "email" {
		message = field + " is invalid"
	}
	return &apperror.ValidationError{Field: field, Message: message, Fields: fields}
}

// BindJSON decodes the request body into req. Validation is left to the
// service receiving the request.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		return decodeError(err)
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.Is(err, io.EOF):
		return apperror.Validation("", "Request body is required")
	case errors.As(err, &typeErr) && typeErr.Type == reflect.TypeOf(models.Date{}):
		return apperror.Validationf(typeErr.Field, "%s must be a date in YYYY-MM-DD format", typeErr.Field)
	case errors.As(err, &typeErr):
		return apperror.Validationf(typeErr.Field, "%s must be of type %s", typeErr.Field, typeErr.Type.String())
	case errors.As(err, &syntaxErr):
		return apperror.Validationf("", "Malformed JSON at offset %d", syntaxErr.Offset)
	default:
		return apperror.Validationf("", "Invalid request body: %v", err)
	}
}

func GetValidationErrors(err error) []apperror.FieldError {
	var fieldErrors []apperror.FieldError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return fieldErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return e.Field() + " is invalid"
	}
}
