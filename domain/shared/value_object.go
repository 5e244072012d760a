package shared

import "reflect"

// ValueObject 值对象基础类型
// 值对象的特征：
// 1. 没有唯一标识，通过属性判断相等性
// 2. 构造时保存属性快照，之后不可变；变更意味着构造一个新的值对象
//
// 相等性有两种：
//   - Equals：结构相等（深比较快照内容），这是值对象的语义
//   - SameSnapshot：引用相等（两个值对象共享同一个快照）
//
// 注意：P 中的 map / slice / 指针字段仍然与调用方共享底层数据，
// 构造后调用方不应再修改它们
type ValueObject[P any] struct {
	props *P
}

// NewValueObject 以属性创建值对象，属性被复制为内部快照
func NewValueObject[P any](props P) ValueObject[P] {
	snapshot := props
	return ValueObject[P]{props: &snapshot}
}

// Props 返回属性快照的副本
func (v ValueObject[P]) Props() P {
	if v.props == nil {
		var zero P
		return zero
	}
	return *v.props
}

// Equals 结构相等：双方都有快照且快照内容深度相等
func (v ValueObject[P]) Equals(other *ValueObject[P]) bool {
	if other == nil || v.props == nil || other.props == nil {
		return false
	}
	if v.props == other.props {
		return true
	}
	return reflect.DeepEqual(*v.props, *other.props)
}

// SameSnapshot 引用相等：双方共享同一个快照实例
func (v ValueObject[P]) SameSnapshot(other *ValueObject[P]) bool {
	if other == nil || v.props == nil || other.props == nil {
		return false
	}
	return v.props == other.props
}
