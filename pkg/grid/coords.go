// Package grid 定义战棋网格的坐标模型与格子注册表
//
// # 坐标约定
//
//   - 格子由 (Row, Col) 标识，两者都在 [0, N) 内
//   - 世界坐标：x = col * step，y = -row * step（行号向下增长）
//   - z 由渲染层决定，不同层使用不同深度避免深度冲突
//
// 坐标模型与渲染无关，可以在没有图形设备的情况下使用和测试。
package grid

import (
	"fmt"
	"math"

	"github.com/gonewx/valkyrie/pkg/vmath"
)

// 默认网格参数（与原始关卡一致）
const (
	DefaultSize = 9   // 9x9 网格
	DefaultStep = 0.2 // 每格世界单位
)

// Cell 格子坐标
type Cell struct {
	Row int
	Col int
}

// String 返回 "(row,col)" 形式
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Manhattan 返回两个格子之间的曼哈顿距离
func (c Cell) Manhattan(o Cell) int {
	dr := c.Row - o.Row
	if dr < 0 {
		dr = -dr
	}
	dc := c.Col - o.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Layer 渲染层，决定实体的 z 值
type Layer int

const (
	LayerBackground Layer = iota
	LayerTile
	LayerIndicator
	LayerUnit
	layerCount
)

// String 返回层名称
func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerTile:
		return "tile"
	case LayerIndicator:
		return "indicator"
	case LayerUnit:
		return "unit"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// Layout 网格布局参数
type Layout struct {
	Size  int                 // 网格边长 N
	Step  float32             // 相邻格子之间的世界距离
	Depth [layerCount]float32 // 每个渲染层的 z 值
}

// DefaultLayout 返回 9x9、步长 0.2 的默认布局
func DefaultLayout() Layout {
	return NewLayout(DefaultSize, DefaultStep)
}

// NewLayout 创建布局，层深度使用默认值（背景最低，角色最高）
func NewLayout(size int, step float32) Layout {
	return Layout{
		Size: size,
		Step: step,
		Depth: [layerCount]float32{
			LayerBackground: 0.0,
			LayerTile:       0.1,
			LayerIndicator:  0.2,
			LayerUnit:       0.3,
		},
	}
}

// InBounds 检查格子是否在网格内
func (l Layout) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < l.Size && c.Col >= 0 && c.Col < l.Size
}

// LayerDepth 返回指定层的 z 值，未知层返回 0
func (l Layout) LayerDepth(layer Layer) float32 {
	if layer < 0 || layer >= layerCount {
		return 0
	}
	return l.Depth[layer]
}

// CellToWorld 将格子坐标转换为世界坐标
//
// 返回:
//   - vmath.Vec3: 格子原点的世界坐标
//   - error: 格子越界时返回 ErrOutOfBounds
func (l Layout) CellToWorld(c Cell, layer Layer) (vmath.Vec3, error) {
	if !l.InBounds(c) {
		return vmath.Vec3{}, l.outOfBounds(c)
	}
	return vmath.Vec3{
		X: float32(c.Col) * l.Step,
		Y: -float32(c.Row) * l.Step,
		Z: l.LayerDepth(layer),
	}, nil
}

// WorldToCell 将世界坐标转换为最近的格子坐标
// 对网格点而言是 CellToWorld 的精确逆运算
//
// 返回:
//   - Cell: 最近的格子
//   - error: 结果不在网格内时返回 ErrOutOfBounds
func (l Layout) WorldToCell(x, y float32) (Cell, error) {
	if l.Step <= 0 {
		return Cell{}, fmt.Errorf("grid: invalid step %v", l.Step)
	}
	c := Cell{
		Row: int(math.Round(float64(-y / l.Step))),
		Col: int(math.Round(float64(x / l.Step))),
	}
	if !l.InBounds(c) {
		return Cell{}, l.outOfBounds(c)
	}
	return c, nil
}

// Extent 返回网格在世界坐标中的包围范围（格子原点所占的范围，外扩半格）
func (l Layout) Extent() (minX, minY, maxX, maxY float32) {
	half := l.Step / 2
	last := float32(l.Size-1) * l.Step
	return -half, -last - half, last + half, half
}

func (l Layout) outOfBounds(c Cell) error {
	return fmt.Errorf("%w: %s outside %dx%d grid", ErrOutOfBounds, c, l.Size, l.Size)
}
