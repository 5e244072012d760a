package result

// Sided 是 Either 的非泛型视图，用于在不关心载荷类型时做模式匹配
type Sided interface {
	IsLeft() bool
	IsRight() bool
}

// Either 二选一的和类型
// 约定：Left 携带失败形态的载荷（通常是包装 DomainError 的失败 Result），
// Right 携带成功形态的载荷（通常是包装领域值的成功 Result）
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left 构造左值（失败）
func Left[L, R any](value L) Either[L, R] {
	return Either[L, R]{left: value}
}

// Right 构造右值（成功）
func Right[L, R any](value R) Either[L, R] {
	return Either[L, R]{right: value, isRight: true}
}

func (e Either[L, R]) IsLeft() bool  { return !e.isRight }
func (e Either[L, R]) IsRight() bool { return e.isRight }

// LeftValue 返回左值；对右值调用时返回零值
func (e Either[L, R]) LeftValue() L { return e.left }

// RightValue 返回右值；对左值调用时返回零值
func (e Either[L, R]) RightValue() R { return e.right }

// Fold 对两侧分别求值并汇合为同一类型
func Fold[L, R, T any](e Either[L, R], onLeft func(L) T, onRight func(R) T) T {
	if e.isRight {
		return onRight(e.right)
	}
	return onLeft(e.left)
}

// IsLeftBulk 按顺序返回第一个 Left，否则返回默认的成功 Right(Ok("success"))
func IsLeftBulk(args ...Sided) Sided {
	for _, arg := range args {
		if arg.IsLeft() {
			return arg
		}
	}
	return Right[any](Ok("success"))
}
