/*
Package shared - 领域内核：标识、值对象、领域错误、聚合根与领域事件派发

领域错误设计:
1. 哨兵错误(sentinel errors)用于 errors.Is() 判断错误类别
2. DomainError 在创建时捕获堆栈，日志打印时才格式化
3. 领域错误不包含 HTTP 状态码等传输层概念
4. DomainError 是可恢复的业务失败，通常放在 result.Result 中返回，而不是 panic
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrDomainRule 通用业务规则失败
	ErrDomainRule = errors.New("domain rule violated")

	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("not found")

	// ErrConflict 资源冲突（如并发修改、唯一约束冲突）
	ErrConflict = errors.New("conflict")

	// ErrConcurrentModification 乐观锁版本不一致，属于 ErrConflict，重新加载后重试可能成功
	ErrConcurrentModification = fmt.Errorf("%w: concurrent modification", ErrConflict)

	// ErrInvalidInput 无效输入（参数校验失败）
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden 禁止访问
	ErrForbidden = errors.New("forbidden")
)

// DomainError 领域错误 - 携带业务上下文和堆栈的结构化错误
type DomainError struct {
	// Err 底层哨兵错误，用于 errors.Is() 判断
	Err error

	// Entity 发生错误的实体名称（如 "board", "task"）
	Entity string

	// Message 人类可读的错误描述
	Message string

	// Field 可选：发生错误的字段名（用于校验错误）
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack 按需格式化堆栈
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack 捕获当前调用栈
// skip: 跳过的帧数（通常为 3：Callers, CaptureStack, NewXxxError）
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 格式化堆栈帧，过滤 runtime 内部帧，最多返回 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// NewDomainError 创建通用业务规则错误
func NewDomainError(message string) *DomainError {
	return &DomainError{
		Err:     ErrDomainRule,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewNotFoundError 创建"未找到"领域错误
func NewNotFoundError(entity string) *DomainError {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError 创建"冲突"领域错误
func NewConflictError(entity, message string) *DomainError {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewConcurrentModificationError 创建乐观锁冲突错误
func NewConcurrentModificationError(entity string) *DomainError {
	return &DomainError{
		Err:     ErrConcurrentModification,
		Entity:  entity,
		Message: entity + " was modified concurrently",
		stack:   CaptureStack(3),
	}
}

// NewValidationError 创建"校验失败"领域错误
func NewValidationError(entity, field, reason string) *DomainError {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewForbiddenError 创建"禁止访问"领域错误
func NewForbiddenError(entity, reason string) *DomainError {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// AsDomainError 从错误链中取出 DomainError
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// Stacker 可提供堆栈的错误接口
type Stacker interface {
	Stack() []string
}

var _ Stacker = (*DomainError)(nil)
