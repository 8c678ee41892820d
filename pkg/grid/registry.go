package grid

import (
	"fmt"

	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/vmath"
)

// GridCell 网格中的一个逻辑格子
type GridCell struct {
	Cell     Cell
	Origin   vmath.Vec3   // 格子层的世界坐标原点
	Occupant ecs.EntityID // 占用该格子的单位，0 表示空格子
	Passable bool         // 地形是否可通行
}

// IsFree 格子可通行且未被占用
func (g *GridCell) IsFree() bool {
	return g.Passable && g.Occupant == 0
}

// Registry 格子注册表
// 关卡加载时构建一次，关卡生命周期内格子不会被销毁
type Registry struct {
	layout Layout
	cells  []GridCell // 行主序存储，索引 = row*N + col
}

// Build 按布局分配 N×N 个格子，全部可通行、无人占用
func Build(layout Layout) (*Registry, error) {
	if layout.Size <= 0 {
		return nil, fmt.Errorf("grid: size must be positive, got %d", layout.Size)
	}
	if layout.Step <= 0 {
		return nil, fmt.Errorf("grid: step must be positive, got %v", layout.Step)
	}

	r := &Registry{
		layout: layout,
		cells:  make([]GridCell, layout.Size*layout.Size),
	}
	for row := 0; row < layout.Size; row++ {
		for col := 0; col < layout.Size; col++ {
			c := Cell{Row: row, Col: col}
			origin, err := layout.CellToWorld(c, LayerTile)
			if err != nil {
				return nil, err
			}
			r.cells[r.index(c)] = GridCell{Cell: c, Origin: origin, Passable: true}
		}
	}
	return r, nil
}

// Layout 返回注册表使用的布局
func (r *Registry) Layout() Layout {
	return r.layout
}

// Size 返回网格边长 N
func (r *Registry) Size() int {
	return r.layout.Size
}

// InBounds 检查格子是否在网格内
func (r *Registry) InBounds(c Cell) bool {
	return r.layout.InBounds(c)
}

// Get 获取格子，越界返回 ErrOutOfBounds
func (r *Registry) Get(c Cell) (*GridCell, error) {
	if !r.layout.InBounds(c) {
		return nil, r.layout.outOfBounds(c)
	}
	return &r.cells[r.index(c)], nil
}

// Occupant 返回格子的占用者，0 表示空
func (r *Registry) Occupant(c Cell) (ecs.EntityID, error) {
	gc, err := r.Get(c)
	if err != nil {
		return 0, err
	}
	return gc.Occupant, nil
}

// SetOccupant 让单位占用格子
//
// 返回:
//   - error: 越界返回 ErrOutOfBounds；格子已被占用返回 ErrConflict，原占用状态保持不变
func (r *Registry) SetOccupant(c Cell, unit ecs.EntityID) error {
	gc, err := r.Get(c)
	if err != nil {
		return err
	}
	if unit == 0 {
		return fmt.Errorf("grid: cannot occupy %s with invalid entity 0", c)
	}
	if gc.Occupant != 0 {
		return fmt.Errorf("%w: %s is held by entity %d", ErrConflict, c, gc.Occupant)
	}
	gc.Occupant = unit
	return nil
}

// ClearOccupant 清空格子的占用状态
func (r *Registry) ClearOccupant(c Cell) error {
	gc, err := r.Get(c)
	if err != nil {
		return err
	}
	gc.Occupant = 0
	return nil
}

// SetPassable 设置格子的地形通行性
func (r *Registry) SetPassable(c Cell, passable bool) error {
	gc, err := r.Get(c)
	if err != nil {
		return err
	}
	gc.Passable = passable
	return nil
}

// Cells 按行主序返回所有格子的副本
func (r *Registry) Cells() []GridCell {
	out := make([]GridCell, len(r.cells))
	copy(out, r.cells)
	return out
}

// neighborOffsets 上、下、左、右
var neighborOffsets = [4]Cell{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// Neighbors 返回格子在网格内的正交邻居（固定顺序：上、下、左、右）
func (r *Registry) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range neighborOffsets {
		n := Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
		if r.layout.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

func (r *Registry) index(c Cell) int {
	return c.Row*r.layout.Size + c.Col
}
