package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"todo_app/internal/common"
	"todo_app/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		p := fl.Field().Int()
		return p >= model.MinPriority && p <= model.MaxPriority
	})
	return v
}

// decodeJSON reads the request body into dst and validates it.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &common.DetailedError{
			Err:     fmt.Errorf("invalid request payload: %w", common.ErrValidation),
			Details: []string{err.Error()},
		}
	}
	return validateStruct(dst)
}

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, describeFieldError(fe))
	}
	return &common.DetailedError{Err: common.ErrValidation, Details: details}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + ": field required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s: must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s: must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s: must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s: must be at most %s", fe.Field(), fe.Param())
	case "priority":
		return fmt.Sprintf("%s: must be between %d and %d", fe.Field(), model.MinPriority, model.MaxPriority)
	case "email":
		return fe.Field() + ": must be a valid email address"
	default:
		return fmt.Sprintf("%s: failed %s validation", fe.Field(), fe.Tag())
	}
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &common.DetailedError{
			Err:     common.ErrValidation,
			Details: []string{fmt.Sprintf("%s: must be a positive integer, got %q", name, raw)},
		}
	}
	return id, nil
}
