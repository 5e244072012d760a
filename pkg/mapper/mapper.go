// Package mapper 在持久化记录、领域对象和 DTO 之间做集合级别的转换
package mapper

import (
	"ddd-kernel/domain/shared"
	"ddd-kernel/pkg/result"
)

// Mapped 单个元素的转换结果：Left 为领域校验失败，Right 为包装领域值的成功 Result
type Mapped[D any] = result.Either[*shared.DomainError, *result.Result[D]]

// Valid 构造成功的元素转换结果
func Valid[D any](value D) Mapped[D] {
	return result.Right[*shared.DomainError](result.Ok(value))
}

// Invalid 构造失败的元素转换结果
func Invalid[D any](err *shared.DomainError) Mapped[D] {
	return result.Left[*shared.DomainError, *result.Result[D]](err)
}

// ToDomain 按顺序转换原始记录
//
// 遇到第一个 Left 立即停止并原样返回，后续元素不再求值，factory 不会被调用。
// 全部成功时把解包后的领域值按原顺序交给 factory 构建集合。
// Right 中的 Result 为 nil 或失败时按 Left 处理。
func ToDomain[Raw, D, C any](raw []Raw, toDomain func(Raw) Mapped[D], factory func([]D) C) Mapped[C] {
	values := make([]D, 0, len(raw))
	for _, r := range raw {
		mapped := toDomain(r)
		if mapped.IsLeft() {
			return Invalid[C](mapped.LeftValue())
		}
		res := mapped.RightValue()
		if res == nil {
			return Invalid[C](shared.NewDomainError("mapper returned no value"))
		}
		if res.IsFailure() {
			return Invalid[C](asDomainError(res.Err()))
		}
		values = append(values, res.Value())
	}
	return Valid(factory(values))
}

func asDomainError(err error) *shared.DomainError {
	if domainErr, ok := shared.AsDomainError(err); ok {
		return domainErr
	}
	return shared.NewDomainError(err.Error())
}

// ToPersistence 把集合中的每个元素转换为持久化记录，保持顺序
func ToPersistence[T, P any](list *shared.WatchedList[T], toPersistence func(T) P) []P {
	return mapItems(list, toPersistence)
}

// ToDTO 把集合中的每个元素转换为 DTO，保持顺序
func ToDTO[T, DTO any](list *shared.WatchedList[T], toDTO func(T) DTO) []DTO {
	return mapItems(list, toDTO)
}

func mapItems[T, U any](list *shared.WatchedList[T], fn func(T) U) []U {
	if list == nil {
		return []U{}
	}
	items := list.Items()
	out := make([]U, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
