package components

import "github.com/gonewx/valkyrie/pkg/grid"

// BackgroundComponent 标识背景实体
type BackgroundComponent struct{}

// TileComponent 标识格子实体
// 每个网格格子对应一个格子实体，关卡生命周期内不销毁
type TileComponent struct {
	Cell grid.Cell
}

// IndicatorComponent 标识移动范围指示器
// 指示器是临时实体：每次移动范围查询整体重建
type IndicatorComponent struct {
	Target grid.Cell
}
