package systems

import (
	"log"

	"github.com/gonewx/valkyrie/pkg/components"
	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/entities"
	"github.com/gonewx/valkyrie/pkg/grid"
	"github.com/gonewx/valkyrie/pkg/movement"
)

// IndicatorOverlaySystem 把可达集合转换为指示器实体
//
// 指示器整体替换：每次 FromReachableSet 先销毁上一批全部指示器，再创建新的一批，
// 不做增量比较，保证不会残留上一次查询的可视对象。
type IndicatorOverlaySystem struct {
	entityManager *ecs.EntityManager
	resources     *entities.Resources
	layout        grid.Layout

	indicators []ecs.EntityID
	suppressed bool
}

// NewIndicatorOverlaySystem 创建指示器覆盖层系统
func NewIndicatorOverlaySystem(em *ecs.EntityManager, res *entities.Resources, layout grid.Layout) *IndicatorOverlaySystem {
	return &IndicatorOverlaySystem{
		entityManager: em,
		resources:     res,
		layout:        layout,
	}
}

// FromReachableSet 为集合中的每个格子创建一个指示器，替换之前的全部指示器
//
// 返回:
//   - []ecs.EntityID: 新指示器列表（按行主序）
//   - error: 集合中包含越界格子时返回 grid.ErrOutOfBounds，此时覆盖层为空
func (s *IndicatorOverlaySystem) FromReachableSet(set movement.ReachableSet) ([]ecs.EntityID, error) {
	s.Clear()

	cells := set.Cells()
	created := make([]ecs.EntityID, 0, len(cells))
	for _, cell := range cells {
		id, err := entities.NewIndicatorEntity(s.entityManager, s.resources, s.layout, cell)
		if err != nil {
			for _, c := range created {
				s.entityManager.DestroyEntity(c)
			}
			s.entityManager.RemoveMarkedEntities()
			return nil, err
		}
		created = append(created, id)
	}

	s.indicators = created
	log.Printf("[IndicatorOverlay] 创建 %d 个指示器", len(created))
	return s.Indicators(), nil
}

// Clear 销毁全部指示器
func (s *IndicatorOverlaySystem) Clear() {
	if len(s.indicators) == 0 {
		return
	}
	for _, id := range s.indicators {
		s.entityManager.DestroyEntity(id)
	}
	removed := s.entityManager.RemoveMarkedEntities()
	log.Printf("[IndicatorOverlay] 清除 %d 个指示器", removed)
	s.indicators = nil
}

// Indicators 返回当前指示器列表的副本
func (s *IndicatorOverlaySystem) Indicators() []ecs.EntityID {
	out := make([]ecs.EntityID, len(s.indicators))
	copy(out, s.indicators)
	return out
}

// Targets 返回当前指示器标记的格子
func (s *IndicatorOverlaySystem) Targets() []grid.Cell {
	out := make([]grid.Cell, 0, len(s.indicators))
	for _, id := range s.indicators {
		if ind, ok := ecs.GetComponent[*components.IndicatorComponent](s.entityManager, id); ok {
			out = append(out, ind.Target)
		}
	}
	return out
}

// Len 当前指示器数量
func (s *IndicatorOverlaySystem) Len() int {
	return len(s.indicators)
}

// SetSuppressed 隐藏或显示指示器分组（不销毁实体）
func (s *IndicatorOverlaySystem) SetSuppressed(suppressed bool) {
	s.suppressed = suppressed
}

// Suppressed 指示器分组是否被隐藏
func (s *IndicatorOverlaySystem) Suppressed() bool {
	return s.suppressed
}

// Visible 指示器分组本帧是否需要渲染
func (s *IndicatorOverlaySystem) Visible() bool {
	return !s.suppressed && len(s.indicators) > 0
}
