package scenes

import (
	"fmt"
	"strings"

	"github.com/gonewx/valkyrie/pkg/grid"
)

// Snapshot 字符
const (
	SnapshotUnit      = '@'
	SnapshotIndicator = '*'
	SnapshotBlocked   = '#'
	SnapshotEmpty     = '.'
)

// Snapshot 返回网格的字符画，每行一个网格行
// 优先级：单位 > 指示器 > 障碍 > 空格子
func (s *LevelScene) Snapshot() string {
	marked := make(map[grid.Cell]bool, s.overlay.Len())
	for _, c := range s.overlay.Targets() {
		marked[c] = true
	}

	n := s.layout.Size
	var b strings.Builder
	b.Grow((n + 1) * n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			b.WriteByte(s.snapshotChar(grid.Cell{Row: row, Col: col}, marked))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *LevelScene) snapshotChar(c grid.Cell, marked map[grid.Cell]bool) byte {
	gc, err := s.registry.Get(c)
	if err != nil {
		return SnapshotEmpty
	}
	switch {
	case gc.Occupant != 0:
		return SnapshotUnit
	case marked[c]:
		return SnapshotIndicator
	case !gc.Passable:
		return SnapshotBlocked
	default:
		return SnapshotEmpty
	}
}

// Status HUD 显示的关卡状态
type Status struct {
	Level            string
	Turn             int
	Cursor           grid.Cell
	Selected         string // 选中单位名称，没有时为空
	Reachable        int    // 可达格子数量
	IndicatorsHidden bool
}

// Status 返回当前状态
func (s *LevelScene) Status() Status {
	st := Status{
		Level:            s.cfg.Name,
		Turn:             s.turn,
		Cursor:           s.cursor,
		IndicatorsHidden: s.overlay.Suppressed(),
	}
	if u := s.unitComponent(s.selected); u != nil {
		st.Selected = u.Name
	}
	if s.reach != nil {
		st.Reachable = s.reach.Set.Len()
	}
	return st
}

// String 单行状态文本
func (st Status) String() string {
	sel := "-"
	if st.Selected != "" {
		sel = fmt.Sprintf("%s (%d tiles)", st.Selected, st.Reachable)
	}
	hidden := ""
	if st.IndicatorsHidden {
		hidden = " [indicators hidden]"
	}
	return fmt.Sprintf("%s  turn %d  cursor %s  selected %s%s", st.Level, st.Turn, st.Cursor, sel, hidden)
}
