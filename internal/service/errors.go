package service

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	ErrInternal ErrorCode = iota + 1000
	ErrNotFound
	ErrDuplicate
	ErrInvalidInput
	ErrUnauthorized
	ErrForbidden
)

// ServiceError is what every service returns on failure.
// Fields holds per form field messages for ErrInvalidInput.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string) error {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

func Wrap(code ErrorCode, message string, err error) error {
	return &ServiceError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Invalid(fields map[string]string) error {
	return &ServiceError{
		Code:    ErrInvalidInput,
		Message: "invalid form",
		Fields:  fields,
	}
}

func GetErrorCode(err error) ErrorCode {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrInternal
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetErrorCode(err) == code
}

// FieldErrors returns the per field messages of a validation failure, nil otherwise.
func FieldErrors(err error) map[string]string {
	var se *ServiceError
	if errors.As(err, &se) && se.Code == ErrInvalidInput {
		return se.Fields
	}
	return nil
}
