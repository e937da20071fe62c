package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ogurasousui/hr-records/internal/core/catalog"
	"github.com/ogurasousui/hr-records/internal/core/employee"
)

const (
	codeValidation          = "validation_error"
	codeInvalidJSON         = "invalid_json"
	codeInvalidID           = "invalid_id"
	codeReferenceNotFound   = "reference_not_found"
	codeNotFound            = "not_found"
	codeAlreadyExists       = "already_exists"
	codeDuplicateReference  = "duplicate_reference"
	codeInternal            = "internal_error"
	fieldMessageInvalidJSON = "request body must be valid JSON"
)

var errEmptyBody = errors.New("request body is required")

type httpError struct {
	status int
	code   string
	fields map[string][]string
}

func toHTTPError(err error) httpError {
	var (
		validationErr *employee.ValidationError
		bindErrs      validator.ValidationErrors
		typeErr       *json.UnmarshalTypeError
		syntaxErr     *json.SyntaxError
	)

	switch {
	case errors.As(err, &validationErr):
		return httpError{status: http.StatusBadRequest, code: codeValidation, fields: fieldErrorMap(validationErr.Fields)}
	case errors.As(err, &bindErrs):
		return httpError{status: http.StatusBadRequest, code: codeValidation, fields: bindErrorMap(bindErrs)}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "non_field_errors"
		}
		return httpError{status: http.StatusBadRequest, code: codeInvalidJSON, fields: map[string][]string{
			field: {fmt.Sprintf("must be of type %s", typeErr.Type)},
		}}
	case errors.As(err, &syntaxErr),
		errors.Is(err, errEmptyBody),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return httpError{status: http.StatusBadRequest, code: codeInvalidJSON, fields: map[string][]string{
			"non_field_errors": {fieldMessageInvalidJSON},
		}}
	case errors.Is(err, employee.ErrValidation):
		return httpError{status: http.StatusBadRequest, code: codeValidation}
	case errors.Is(err, employee.ErrInvalidID), errors.Is(err, catalog.ErrInvalidID):
		return httpError{status: http.StatusBadRequest, code: codeInvalidID, fields: map[string][]string{"id": {"must be a valid UUID"}}}
	case errors.Is(err, employee.ErrInvalidPageSize):
		return httpError{status: http.StatusBadRequest, code: codeValidation, fields: map[string][]string{"page_size": {err.Error()}}}
	case errors.Is(err, employee.ErrInvalidPageToken):
		return httpError{status: http.StatusBadRequest, code: codeValidation, fields: map[string][]string{"page_token": {err.Error()}}}
	case errors.Is(err, catalog.ErrInvalidName):
		return httpError{status: http.StatusBadRequest, code: codeValidation, fields: map[string][]string{"name": {err.Error()}}}
	case errors.Is(err, catalog.ErrInvalidKind):
		return httpError{status: http.StatusBadRequest, code: codeValidation}
	case errors.Is(err, employee.ErrReferenceNotFound):
		return httpError{status: http.StatusBadRequest, code: codeReferenceNotFound}
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, catalog.ErrItemNotFound):
		return httpError{status: http.StatusNotFound, code: codeNotFound}
	case errors.Is(err, employee.ErrEmailAlreadyExists):
		return httpError{status: http.StatusConflict, code: codeAlreadyExists, fields: map[string][]string{"email": {err.Error()}}}
	case errors.Is(err, employee.ErrPassportNumberAlreadyExists):
		return httpError{status: http.StatusConflict, code: codeAlreadyExists, fields: map[string][]string{"passport_info.passport_number": {err.Error()}}}
	case errors.Is(err, catalog.ErrNameAlreadyExists):
		return httpError{status: http.StatusConflict, code: codeAlreadyExists, fields: map[string][]string{"name": {err.Error()}}}
	case errors.Is(err, employee.ErrDuplicateReference):
		return httpError{status: http.StatusConflict, code: codeDuplicateReference}
	default:
		return httpError{status: http.StatusInternalServerError, code: codeInternal}
	}
}

func fieldErrorMap(fields []employee.FieldError) map[string][]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string][]string, len(fields))
	for _, f := range fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

func bindErrorMap(errs validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(errs))
	for _, fe := range errs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		msg := fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		if fe.Tag() == "required" {
			msg = "this field is required"
		}
		out[field] = append(out[field], msg)
	}
	return out
}
