package employee

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidID                   = errors.New("employee: invalid id")
	ErrInvalidPageSize             = errors.New("employee: invalid page size")
	ErrInvalidPageToken            = errors.New("employee: invalid page token")
	ErrValidation                  = errors.New("employee: validation failed")
	ErrEmployeeNotFound            = errors.New("employee: not found")
	ErrEmailAlreadyExists          = errors.New("employee: email already exists")
	ErrPassportNumberAlreadyExists = errors.New("employee: passport number already exists")
	ErrReferenceNotFound           = errors.New("employee: referenced record does not exist")
	ErrDuplicateReference          = errors.New("employee: duplicate reference")
)

// FieldError はフィールドパス単位の検証エラーです。
type FieldError struct {
	Field   string
	Message string
}

// ValidationError は検証エラーをまとめて保持します。
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is は errors.Is(err, ErrValidation) を成立させます。
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add はフィールドエラーを追加します。
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Err はエラーが 1 件以上あれば自身を、なければ nil を返します。
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ReferenceNotFoundError は参照先のレコードが存在しないことを表します。
type ReferenceNotFoundError struct {
	Entity string
	ID     string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("referenced %s id %s does not exist", e.Entity, e.ID)
}

// Is は errors.Is(err, ErrReferenceNotFound) を成立させます。
func (e *ReferenceNotFoundError) Is(target error) bool {
	return target == ErrReferenceNotFound
}
