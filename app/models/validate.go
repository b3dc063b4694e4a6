package models

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a field that exceeds its length or count limit.
type ValidationError struct {
	Field   string
	Limit   int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (maximum %d)", e.Message, e.Limit)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// The built-in max counts runes for strings; record limits are in bytes.
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// validateStruct runs the struct tags and converts the first failure into a
// ValidationError. Fields are checked in declaration order.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	limit, _ := strconv.Atoi(fe.Param())
	field := fe.Field()

	switch {
	case strings.HasPrefix(field, "tags["):
		return &ValidationError{Field: field, Limit: limit, Message: "tag is too long"}
	case field == "tags":
		return &ValidationError{Field: field, Limit: limit, Message: "too many tags"}
	default:
		return &ValidationError{Field: field, Limit: limit, Message: field + " is too long"}
	}
}
