package scenes

import (
	"errors"
	"fmt"
	"log"

	"github.com/gonewx/valkyrie/pkg/components"
	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/grid"
	"github.com/gonewx/valkyrie/pkg/movement"
)

// MoveCursor 移动光标，结果限制在网格内
func (s *LevelScene) MoveCursor(dRow, dCol int) {
	n := s.layout.Size
	s.cursor.Row = clamp(s.cursor.Row+dRow, 0, n-1)
	s.cursor.Col = clamp(s.cursor.Col+dCol, 0, n-1)
}

// SetCursor 把光标放到指定格子
func (s *LevelScene) SetCursor(c grid.Cell) error {
	if !s.layout.InBounds(c) {
		return fmt.Errorf("cursor: %w: %s", grid.ErrOutOfBounds, c)
	}
	s.cursor = c
	return nil
}

// Cursor 返回光标位置
func (s *LevelScene) Cursor() grid.Cell {
	return s.cursor
}

// Confirm 在光标处执行确认
//
// 光标处有未行动的单位时选中它；已选中单位且光标在可达范围内时移动；
// 在选中单位自身的格子上确认表示原地待命，同样结束该单位的行动。
// 其余情况发出 EventDenied，选择状态不变。
func (s *LevelScene) Confirm() error {
	occupant, err := s.registry.Occupant(s.cursor)
	if err != nil {
		return err
	}

	if occupant != 0 && occupant == s.selected && s.reach != nil && s.reach.Set.Contains(s.cursor) {
		return s.moveSelected(s.cursor)
	}

	if occupant != 0 {
		u := s.unitComponent(occupant)
		if u == nil || u.HasActed {
			s.deny(occupant)
			return nil
		}
		return s.Select(occupant)
	}

	if s.selected == 0 || s.reach == nil || !s.reach.Set.Contains(s.cursor) {
		s.deny(s.selected)
		return nil
	}
	return s.moveSelected(s.cursor)
}

// Select 选中单位并显示其可达范围
// 重复选择会替换上一次的可达范围
func (s *LevelScene) Select(id ecs.EntityID) error {
	u := s.unitComponent(id)
	if u == nil {
		return fmt.Errorf("entity %d is not a unit", id)
	}
	if u.HasActed {
		return fmt.Errorf("unit %q has already acted this turn", u.Name)
	}

	res, err := movement.Calculate(s.registry, u.Cell, u.Budget, id)
	if err != nil {
		return fmt.Errorf("select %q: %w", u.Name, err)
	}
	if _, err := s.overlay.FromReachableSet(res.Set); err != nil {
		return fmt.Errorf("select %q: %w", u.Name, err)
	}

	s.selected = id
	s.reach = res
	s.emit(Event{Kind: EventSelected, Unit: u.Name, From: u.Cell, To: u.Cell})
	return nil
}

// Cancel 清除选择与指示器
func (s *LevelScene) Cancel() {
	if s.selected == 0 {
		return
	}
	u := s.unitComponent(s.selected)
	s.clearSelection()
	if u != nil {
		s.emit(Event{Kind: EventCancelled, Unit: u.Name, From: u.Cell, To: u.Cell})
	}
}

// Selected 返回当前选中的单位，没有时返回 0
func (s *LevelScene) Selected() ecs.EntityID {
	return s.selected
}

// Reachable 返回当前选中单位的可达范围，没有选中时返回 nil
func (s *LevelScene) Reachable() *movement.Result {
	return s.reach
}

// Turn 返回当前回合数（从 1 开始）
func (s *LevelScene) Turn() int {
	return s.turn
}

// Units 返回全部单位，按配置顺序
func (s *LevelScene) Units() []ecs.EntityID {
	out := make([]ecs.EntityID, len(s.units))
	copy(out, s.units)
	return out
}

// Unit 返回单位组件
func (s *LevelScene) Unit(id ecs.EntityID) (*components.UnitComponent, bool) {
	u := s.unitComponent(id)
	return u, u != nil
}

// UnitByName 按名称查找单位
func (s *LevelScene) UnitByName(name string) (ecs.EntityID, bool) {
	for _, id := range s.units {
		if u := s.unitComponent(id); u != nil && u.Name == name {
			return id, true
		}
	}
	return 0, false
}

// moveSelected 把选中的单位移动到 to（to 可以是原格子）
// 注册表占用、单位组件和渲染位置一起更新
func (s *LevelScene) moveSelected(to grid.Cell) error {
	id := s.selected
	u := s.unitComponent(id)
	rc, ok := ecs.GetComponent[*components.RenderComponent](s.entityManager, id)
	if u == nil || !ok {
		return fmt.Errorf("selected entity %d is not a renderable unit", id)
	}

	pos, err := s.layout.CellToWorld(to, grid.LayerUnit)
	if err != nil {
		return fmt.Errorf("move %q: %w", u.Name, err)
	}

	from := u.Cell
	if err := s.registry.ClearOccupant(from); err != nil {
		return fmt.Errorf("move %q: %w", u.Name, err)
	}
	if err := s.registry.SetOccupant(to, id); err != nil {
		// 恢复原占用
		if rerr := s.registry.SetOccupant(from, id); rerr != nil {
			log.Printf("[LevelScene] 恢复 %q 在 %s 的占用失败: %v", u.Name, from, rerr)
			err = errors.Join(err, rerr)
		}
		return fmt.Errorf("move %q: %w", u.Name, err)
	}

	u.Cell = to
	u.HasActed = true
	rc.SetPosition(pos)
	s.clearSelection()
	s.emit(Event{Kind: EventMoved, Unit: u.Name, From: from, To: to})

	if s.allActed() {
		s.endTurn()
	}
	if s.cfg.ShouldAutoSelect() {
		return s.selectNextReady()
	}
	return nil
}

// endTurn 回合结束：回合数加一，所有单位恢复可行动
func (s *LevelScene) endTurn() {
	s.emit(Event{Kind: EventTurnEnded})
	s.turn++
	for _, id := range s.units {
		if u := s.unitComponent(id); u != nil {
			u.HasActed = false
		}
	}
}

// selectNextReady 按配置顺序选中第一个未行动的单位，并把光标移到它
func (s *LevelScene) selectNextReady() error {
	for _, id := range s.units {
		u := s.unitComponent(id)
		if u == nil || u.HasActed {
			continue
		}
		s.cursor = u.Cell
		return s.Select(id)
	}
	return nil
}

func (s *LevelScene) allActed() bool {
	for _, id := range s.units {
		if u := s.unitComponent(id); u != nil && !u.HasActed {
			return false
		}
	}
	return true
}

func (s *LevelScene) clearSelection() {
	s.selected = 0
	s.reach = nil
	s.overlay.Clear()
}

func (s *LevelScene) deny(id ecs.EntityID) {
	e := Event{Kind: EventDenied, To: s.cursor}
	if u := s.unitComponent(id); u != nil {
		e.Unit = u.Name
		e.From = u.Cell
	}
	s.emit(e)
}

func (s *LevelScene) unitComponent(id ecs.EntityID) *components.UnitComponent {
	if id == 0 {
		return nil
	}
	u, ok := ecs.GetComponent[*components.UnitComponent](s.entityManager, id)
	if !ok {
		return nil
	}
	return u
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
