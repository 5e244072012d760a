package shared

import (
	"github.com/google/uuid"
)

// UniqueEntityID 实体唯一标识
// 标识与实体属性无关：两个标识相等当且仅当包装的值相等
// 新实体在构造时生成，从存储重建时由调用方提供，创建后不可修改
type UniqueEntityID struct {
	value string
}

// NewUniqueEntityID 生成新的标识（UUID v4）
func NewUniqueEntityID() UniqueEntityID {
	return UniqueEntityID{value: uuid.NewString()}
}

// UniqueEntityIDFrom 使用已有值构造标识（从存储重建时使用）
// 空字符串会生成新的标识
func UniqueEntityIDFrom(value string) UniqueEntityID {
	if value == "" {
		return NewUniqueEntityID()
	}
	return UniqueEntityID{value: value}
}

// IsValidUniqueEntityID 校验字符串是否为合法的 UUID
func IsValidUniqueEntityID(value string) bool {
	return uuid.Validate(value) == nil
}

// Equals 标识相等性：包装值相等即相等，nil 返回 false
func (id UniqueEntityID) Equals(other *UniqueEntityID) bool {
	if other == nil {
		return false
	}
	return id.value == other.value
}

func (id UniqueEntityID) Value() string  { return id.value }
func (id UniqueEntityID) String() string { return id.value }

// IsZero 是否为未初始化的零值
func (id UniqueEntityID) IsZero() bool { return id.value == "" }
