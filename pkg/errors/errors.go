package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

var (
	ErrConfigLoad        = "CONFIG_LOAD_ERROR"
	ErrDatabaseConnect   = "DATABASE_CONNECT_ERROR"
	ErrValidation        = "VALIDATION_ERROR"
	ErrNotFound          = "NOT_FOUND"
	ErrConflict          = "CONFLICT"
	ErrInvalidTransition = "INVALID_TRANSITION"
	ErrUpstream          = "UPSTREAM_ERROR"
)

// Code 返回错误链中最外层AppError的错误码
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return Code(err) == ErrNotFound
}

func IsValidation(err error) bool {
	return Code(err) == ErrValidation
}
