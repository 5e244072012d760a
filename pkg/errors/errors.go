// Package errors 把领域错误转换为带错误码的应用错误，供接口层映射状态码
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"ddd-kernel/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest      ErrorCode = "BAD_REQUEST"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeDomainRule      ErrorCode = "DOMAIN_RULE_VIOLATION"
	// 事务已提交，但进程内事件处理失败
	CodeEventDispatch ErrorCode = "EVENT_DISPATCH_FAILED"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 对应的 HTTP 状态码
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeDomainRule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

// Is 检查错误链中是否有指定错误码的 AppError
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 按领域错误的哨兵映射错误码；无法识别的错误视为内部错误
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, shared.ErrEventDispatch) {
		return Wrap(err, CodeEventDispatch, "changes were saved but follow-up processing failed")
	}

	domainErr, ok := shared.AsDomainError(err)
	if !ok {
		return Wrap(err, CodeInternal, "internal server error")
	}

	code := CodeInternal
	switch {
	case errors.Is(domainErr, shared.ErrInvalidInput):
		code = CodeValidation
	case errors.Is(domainErr, shared.ErrNotFound):
		code = CodeNotFound
	case errors.Is(domainErr, shared.ErrConflict):
		code = CodeConflict
	case errors.Is(domainErr, shared.ErrForbidden):
		code = CodeForbidden
	case errors.Is(domainErr, shared.ErrDomainRule):
		code = CodeDomainRule
	}
	return &AppError{Code: code, Message: domainErr.Error(), Field: domainErr.Field, Err: err}
}
