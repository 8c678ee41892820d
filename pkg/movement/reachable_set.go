package movement

import (
	"sort"

	"github.com/gonewx/valkyrie/pkg/grid"
)

// ReachableSet 可达格子集合，去重且不保证顺序
type ReachableSet map[grid.Cell]struct{}

// NewReachableSet 由格子列表构造集合
func NewReachableSet(cells ...grid.Cell) ReachableSet {
	s := make(ReachableSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

// Contains 检查格子是否可达
func (s ReachableSet) Contains(c grid.Cell) bool {
	_, ok := s[c]
	return ok
}

// Len 返回集合大小
func (s ReachableSet) Len() int {
	return len(s)
}

// Cells 返回按行主序排序的格子列表（便于确定性地创建指示器和测试）
func (s ReachableSet) Cells() []grid.Cell {
	out := make([]grid.Cell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Equal 判断两个集合是否包含相同的格子
func (s ReachableSet) Equal(o ReachableSet) bool {
	if len(s) != len(o) {
		return false
	}
	for c := range s {
		if !o.Contains(c) {
			return false
		}
	}
	return true
}
