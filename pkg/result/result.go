/*
Package result 提供函数式的结果类型，用于在调用链中传递成功或失败，而不是依赖 panic。

两类错误通道：
1. Result / Either：可恢复的校验失败与业务规则失败，调用方必须先检查 IsSuccess / IsLeft
2. panic：Result 构造不变量被破坏（成功却带错误、失败却没有错误），属于编程错误
*/
package result

import "errors"

var (
	// ErrSuccessWithError 成功的结果不能携带错误
	ErrSuccessWithError = errors.New("InvalidOperation: a result cannot be successful and contain an error")

	// ErrFailureWithoutError 失败的结果必须携带错误
	ErrFailureWithoutError = errors.New("InvalidOperation: a failing result needs to contain an error message")
)

// Outcome 是所有 Result 的非泛型视图，供 Combine 聚合不同类型的结果
type Outcome interface {
	IsSuccess() bool
	IsFailure() bool
	Err() error
}

// Result 恰好持有成功值或失败错误之一，构造后不可变
type Result[T any] struct {
	isSuccess bool
	err       error
	value     T
}

func newResult[T any](isSuccess bool, err error, value T) *Result[T] {
	if isSuccess && err != nil {
		panic(ErrSuccessWithError)
	}
	if !isSuccess && err == nil {
		panic(ErrFailureWithoutError)
	}
	return &Result[T]{
		isSuccess: isSuccess,
		err:       err,
		value:     value,
	}
}

// Ok 构造成功结果
func Ok[T any](value T) *Result[T] {
	return newResult(true, nil, value)
}

// OkEmpty 构造不携带值的成功结果
func OkEmpty() *Result[struct{}] {
	return Ok(struct{}{})
}

// Fail 构造失败结果，err 为 nil 时 panic
func Fail[T any](err error) *Result[T] {
	var zero T
	return newResult(false, err, zero)
}

// FailMessage 以文本消息构造失败结果
func FailMessage[T any](message string) *Result[T] {
	if message == "" {
		return Fail[T](nil)
	}
	return Fail[T](errors.New(message))
}

func (r *Result[T]) IsSuccess() bool { return r.isSuccess }
func (r *Result[T]) IsFailure() bool { return !r.isSuccess }

// Value 返回成功值；失败时返回零值，调用方必须先检查 IsSuccess
func (r *Result[T]) Value() T {
	return r.value
}

// Err 返回失败错误；成功时为 nil
func (r *Result[T]) Err() error {
	return r.err
}

// Unwrap 以 Go 惯用的 (value, error) 形式取出结果
func (r *Result[T]) Unwrap() (T, error) {
	if !r.isSuccess {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Combine 按顺序返回第一个失败的结果，全部成功（或为空）时返回一个新的成功结果
func Combine(results ...Outcome) Outcome {
	for _, r := range results {
		if r.IsFailure() {
			return r
		}
	}
	return OkEmpty()
}
