package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"shopledger/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimals are checked as numbers so gt/gte/lte tags apply to money fields
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == model.DueDateCash {
			return true
		}
		_, err := time.Parse(model.DateLayout, s)
		return err == nil
	})
	return v
}

// validateRequest runs the struct tags of req and wraps failures in ErrValidation.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), strings.Split(fe.Namespace(), ".")[0]+".")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_without":
		return fmt.Sprintf("%s is required when %s is empty", field, strings.ToLower(fe.Param()))
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "duedate":
		return field + " must be a YYYY-MM-DD date or Cash"
	case "datetime":
		return field + " must be a YYYY-MM-DD date"
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// Clock returns the current time. Services stamp events with it.
type Clock func() time.Time
