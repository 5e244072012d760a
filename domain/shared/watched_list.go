package shared

// WatchedList 带变更追踪的聚合内集合
// 记录自加载以来新增和移除的元素，仓储据此只插入/删除变化的部分：
//   - 移除一个本次新增的元素：撤销新增，不记为移除
//   - 重新加入一个本次移除的元素：撤销移除，不记为新增
type WatchedList[T any] struct {
	current []T
	initial []T
	added   []T
	removed []T
	equal   func(a, b T) bool
}

// NewWatchedList 以初始元素创建集合，equal 定义元素相等性
func NewWatchedList[T any](initial []T, equal func(a, b T) bool) *WatchedList[T] {
	current := make([]T, len(initial))
	copy(current, initial)
	snapshot := make([]T, len(initial))
	copy(snapshot, initial)
	return &WatchedList[T]{
		current: current,
		initial: snapshot,
		equal:   equal,
	}
}

// Items 返回当前元素的副本，保持插入顺序
func (l *WatchedList[T]) Items() []T {
	items := make([]T, len(l.current))
	copy(items, l.current)
	return items
}

func (l *WatchedList[T]) Len() int { return len(l.current) }

// NewItems 自加载以来新增的元素
func (l *WatchedList[T]) NewItems() []T {
	items := make([]T, len(l.added))
	copy(items, l.added)
	return items
}

// RemovedItems 自加载以来移除的初始元素
func (l *WatchedList[T]) RemovedItems() []T {
	items := make([]T, len(l.removed))
	copy(items, l.removed)
	return items
}

// Exists 当前集合是否包含该元素
func (l *WatchedList[T]) Exists(item T) bool {
	return indexIn(l.current, item, l.equal) >= 0
}

// Add 加入元素；已存在时为空操作
func (l *WatchedList[T]) Add(item T) {
	if l.Exists(item) {
		return
	}

	if i := indexIn(l.removed, item, l.equal); i >= 0 {
		l.removed = append(l.removed[:i], l.removed[i+1:]...)
	} else if indexIn(l.initial, item, l.equal) < 0 {
		l.added = append(l.added, item)
	}

	l.current = append(l.current, item)
}

// Remove 移除元素；不存在时为空操作
func (l *WatchedList[T]) Remove(item T) {
	i := indexIn(l.current, item, l.equal)
	if i < 0 {
		return
	}
	l.current = append(l.current[:i], l.current[i+1:]...)

	if j := indexIn(l.added, item, l.equal); j >= 0 {
		l.added = append(l.added[:j], l.added[j+1:]...)
		return
	}
	if indexIn(l.initial, item, l.equal) >= 0 {
		l.removed = append(l.removed, item)
	}
}

// MarkPersisted 变更已写入存储：当前元素成为新的基线，新增与移除清空
func (l *WatchedList[T]) MarkPersisted() {
	l.initial = make([]T, len(l.current))
	copy(l.initial, l.current)
	l.added = nil
	l.removed = nil
}

func indexIn[T any](items []T, item T, equal func(a, b T) bool) int {
	for i, candidate := range items {
		if equal(candidate, item) {
			return i
		}
	}
	return -1
}
