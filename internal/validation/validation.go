// Package validation checks request bodies before they are sent to the LABit API.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/jrsteele09/labit-client/internal/errors"
)

// Errors maps a JSON field name to the problems found with it
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, strings.Join(e[f], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match validation failures with errors.Is(err, ErrInvalidRequest)
func (e Errors) Unwrap() error {
	return apperrors.ErrInvalidRequest
}

// Validator wraps go-playground/validator, reporting fields by their JSON names
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s against its `validate` tags
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "[validation Struct] %v", err)
	}

	errs := make(Errors)
	for _, fe := range fieldErrors {
		errs[fe.Field()] = append(errs[fe.Field()], message(fe))
	}
	return errs
}

// Slice validates every element of a slice of structs, e.g. an order update body
func (v *Validator) Slice(items any) error {
	rv := reflect.ValueOf(items)
	if rv.Kind() != reflect.Slice {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "[validation Slice] %T is not a slice", items)
	}
	if rv.Len() == 0 {
		return Errors{"items": {"items must not be empty"}}
	}
	for i := range rv.Len() {
		if err := v.Struct(rv.Index(i).Interface()); err != nil {
			var errs Errors
			if apperrors.As(err, &errs) {
				indexed := make(Errors, len(errs))
				for f, msgs := range errs {
					indexed[fmt.Sprintf("[%d].%s", i, f)] = msgs
				}
				return indexed
			}
			return err
		}
	}
	return nil
}

// ID rejects non-positive resource IDs before they are interpolated into a path
func (v *Validator) ID(name string, id int64) error {
	if id <= 0 {
		return Errors{name: {fmt.Sprintf("%s must be a positive id", name)}}
	}
	return nil
}

// ValidateAccessToken checks the token has the three-part shape of a JWT
func (v *Validator) ValidateAccessToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidToken, "access token is required")
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return apperrors.Wrapf(apperrors.ErrInvalidToken, "invalid token format: must be a valid JWT")
	}
	for i, part := range parts {
		if len(part) == 0 {
			return apperrors.Wrapf(apperrors.ErrInvalidToken, "invalid token format: part %d is empty", i+1)
		}
	}
	return nil
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, param)
	}
	return fmt.Sprintf("%s failed on %s", field, fe.Tag())
}
