package shared

// Entity 实体基础类型
// 实体与值对象的区别：
// 1. 实体有唯一标识（ID）
// 2. 通过标识判断相等性（即使属性相同，ID不同就是不同的实体）
type Entity[P any] struct {
	id    UniqueEntityID
	props P
}

// NewEntity 创建实体；id 为零值时生成新标识
func NewEntity[P any](props P, id UniqueEntityID) Entity[P] {
	if id.IsZero() {
		id = NewUniqueEntityID()
	}
	return Entity[P]{id: id, props: props}
}

func (e *Entity[P]) ID() UniqueEntityID { return e.id }

// Props 返回属性的副本
func (e *Entity[P]) Props() P { return e.props }

// Equals 标识相等：同一实例或标识相同
func (e *Entity[P]) Equals(other *Entity[P]) bool {
	if other == nil {
		return false
	}
	if e == other {
		return true
	}
	return e.id.Equals(&other.id)
}
