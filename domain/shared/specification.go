package shared

import (
	"context"
)

// Specification 封装一条可组合的业务规则
// 内存仓储直接调用 IsSatisfiedBy；数据库仓储可把已知的规范翻译成查询条件
type Specification[T any] interface {
	IsSatisfiedBy(ctx context.Context, candidate T) bool
}

// SpecFunc 函数适配为规范
type SpecFunc[T any] func(ctx context.Context, candidate T) bool

func (f SpecFunc[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return f(ctx, candidate)
}

type AndSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

func (spec AndSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return spec.Left.IsSatisfiedBy(ctx, candidate) && spec.Right.IsSatisfiedBy(ctx, candidate)
}

func And[T any](left, right Specification[T]) Specification[T] {
	return AndSpecification[T]{Left: left, Right: right}
}

type OrSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

func (spec OrSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return spec.Left.IsSatisfiedBy(ctx, candidate) || spec.Right.IsSatisfiedBy(ctx, candidate)
}

func Or[T any](left, right Specification[T]) Specification[T] {
	return OrSpecification[T]{Left: left, Right: right}
}

type NotSpecification[T any] struct {
	Spec Specification[T]
}

func (spec NotSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return !spec.Spec.IsSatisfiedBy(ctx, candidate)
}

func Not[T any](inner Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: inner}
}

// AllOf 把多个规范以 AND 连接；nil 项被忽略，全部为 nil 时返回 nil
func AllOf[T any](specs ...Specification[T]) Specification[T] {
	var combined Specification[T]
	for _, spec := range specs {
		if spec == nil {
			continue
		}
		if combined == nil {
			combined = spec
			continue
		}
		combined = And(combined, spec)
	}
	return combined
}

// Filter 返回满足规范的元素；spec 为 nil 时原样返回
func Filter[T any](ctx context.Context, candidates []T, spec Specification[T]) []T {
	if spec == nil {
		return candidates
	}
	matched := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if spec.IsSatisfiedBy(ctx, c) {
			matched = append(matched, c)
		}
	}
	return matched
}
