package components

import "github.com/gonewx/valkyrie/pkg/grid"

// UnitComponent 可移动的战斗单位
type UnitComponent struct {
	Name     string
	Cell     grid.Cell // 当前所在格子
	Budget   int       // 每回合移动力（格数）
	HasActed bool      // 本回合是否已经行动
}
