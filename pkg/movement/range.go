// Package movement 计算单位在一个回合内可以到达的格子
//
// 算法为从起点出发的广度优先搜索：
//   - 每一步只能正交移动（上下左右），不能离开网格
//   - 只能进入可通行且无人占用的格子（起点本身除外）
//   - 每个格子最多访问一次，首次发现时的层数即最少步数
//
// 因此复杂度为 O(可达格子数)，不会出现指数级重复展开。
// 搜索同时记录父指针，需要路径时无需再次搜索。
package movement

import (
	"errors"
	"fmt"

	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/grid"
)

// ErrInvalidBudget 移动力为负数
var ErrInvalidBudget = errors.New("movement: budget must be non-negative")

// Result 一次移动范围查询的结果
type Result struct {
	Start  grid.Cell
	Budget int
	Set    ReachableSet

	cost   map[grid.Cell]int
	parent map[grid.Cell]grid.Cell
}

// Cost 返回到达格子的最少步数，不可达时 ok 为 false
func (r *Result) Cost(c grid.Cell) (steps int, ok bool) {
	steps, ok = r.cost[c]
	return steps, ok
}

// PathTo 返回从起点到目标格子的一条最短路径（包含起点和终点）
// 目标不可达时返回 nil
func (r *Result) PathTo(target grid.Cell) []grid.Cell {
	if !r.Set.Contains(target) {
		return nil
	}
	steps := r.cost[target]
	path := make([]grid.Cell, steps+1)
	cur := target
	for i := steps; i > 0; i-- {
		path[i] = cur
		cur = r.parent[cur]
	}
	path[0] = cur
	return path
}

// Calculate 计算 mover 从 start 出发、最多走 budget 步能到达的所有格子
//
// 参数:
//   - reg: 格子注册表（只读）
//   - start: 起点格子
//   - budget: 移动力（非负整数）
//   - mover: 执行移动的单位，起点被它占用不影响查询；传 0 表示仅做规划
//
// 返回:
//   - *Result: 可达集合及每个格子的步数/父指针
//   - error: 起点越界返回 grid.ErrOutOfBounds，移动力为负返回 ErrInvalidBudget
//
// 特殊情况:
//   - budget = 0 时结果只包含起点
//   - 起点被其他单位占用时结果为空集
//   - 四周被封死的单位结果只包含起点
func Calculate(reg *grid.Registry, start grid.Cell, budget int, mover ecs.EntityID) (*Result, error) {
	if budget < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBudget, budget)
	}
	startCell, err := reg.Get(start)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Start:  start,
		Budget: budget,
		Set:    make(ReachableSet),
		cost:   make(map[grid.Cell]int),
		parent: make(map[grid.Cell]grid.Cell),
	}

	if startCell.Occupant != 0 && startCell.Occupant != mover {
		return result, nil
	}

	result.Set[start] = struct{}{}
	result.cost[start] = 0

	queue := []grid.Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		steps := result.cost[cur]
		if steps == budget {
			continue
		}

		for _, next := range reg.Neighbors(cur) {
			if _, seen := result.cost[next]; seen {
				continue
			}
			gc, err := reg.Get(next)
			if err != nil {
				return nil, err
			}
			if !gc.IsFree() {
				continue
			}
			result.cost[next] = steps + 1
			result.parent[next] = cur
			result.Set[next] = struct{}{}
			queue = append(queue, next)
		}
	}

	return result, nil
}
