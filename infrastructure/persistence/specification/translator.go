// Package specification 把领域规范翻译成 GORM 查询条件
package specification

import (
	"errors"
	"fmt"

	"ddd-kernel/domain/shared"

	"gorm.io/gorm"
)

// ErrUnsupported 规范中存在无法翻译的叶子节点
var ErrUnsupported = errors.New("specification cannot be translated to a query")

// Scope 可用于 db.Scopes 的查询条件
type Scope func(*gorm.DB) *gorm.DB

// ConcreteFunc 翻译具体（非组合）规范；不认识时返回 false
type ConcreteFunc[T any] func(spec shared.Specification[T]) (Scope, bool)

// Translator 组合规范递归翻译，叶子交给各仓储注册的 ConcreteFunc
type Translator[T any] struct {
	concrete ConcreteFunc[T]
}

func NewTranslator[T any](concrete ConcreteFunc[T]) *Translator[T] {
	return &Translator[T]{concrete: concrete}
}

// Translate spec 为 nil 时返回不做任何过滤的 Scope
func (t *Translator[T]) Translate(spec shared.Specification[T]) (Scope, error) {
	if spec == nil {
		return func(db *gorm.DB) *gorm.DB { return db }, nil
	}

	switch s := spec.(type) {
	case shared.AndSpecification[T]:
		left, right, err := t.pair(s.Left, s.Right)
		if err != nil {
			return nil, err
		}
		return func(db *gorm.DB) *gorm.DB {
			return db.Where(left(fresh(db))).Where(right(fresh(db)))
		}, nil
	case shared.OrSpecification[T]:
		left, right, err := t.pair(s.Left, s.Right)
		if err != nil {
			return nil, err
		}
		return func(db *gorm.DB) *gorm.DB {
			return db.Where(left(fresh(db)).Or(right(fresh(db))))
		}, nil
	case shared.NotSpecification[T]:
		inner, err := t.Translate(s.Spec)
		if err != nil {
			return nil, err
		}
		return func(db *gorm.DB) *gorm.DB {
			return db.Not(inner(fresh(db)))
		}, nil
	}

	if scope, ok := t.concrete(spec); ok {
		return scope, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, spec)
}

func (t *Translator[T]) pair(l, r shared.Specification[T]) (Scope, Scope, error) {
	left, err := t.Translate(l)
	if err != nil {
		return nil, nil, err
	}
	right, err := t.Translate(r)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// fresh 新的条件构建器，用于 GORM 的分组条件
func fresh(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true})
}
