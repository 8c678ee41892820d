// Package entities 提供战棋场景中各类实体的工厂函数
package entities

import (
	"fmt"

	"github.com/gonewx/valkyrie/pkg/components"
	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/grid"
	"github.com/gonewx/valkyrie/pkg/vmath"
)

// NewBackgroundEntity 创建背景实体，覆盖整个网格并居中
func NewBackgroundEntity(em *ecs.EntityManager, res *Resources, layout grid.Layout) ecs.EntityID {
	minX, minY, maxX, maxY := layout.Extent()
	center := vmath.Vec3{
		X: (minX + maxX) / 2,
		Y: (minY + maxY) / 2,
		Z: layout.LayerDepth(grid.LayerBackground),
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.BackgroundComponent{})
	em.AddComponent(id, &components.RenderComponent{
		Mesh:      res.BackgroundMesh,
		Texture:   res.BackgroundTexture,
		Shader:    gfx.ShaderBackground,
		Transform: components.NewTransform(center),
	})
	return id
}

// NewTileEntity 创建格子实体
//
// 返回:
//   - ecs.EntityID: 格子实体ID
//   - error: 格子越界时返回 grid.ErrOutOfBounds
func NewTileEntity(em *ecs.EntityManager, res *Resources, layout grid.Layout, cell grid.Cell) (ecs.EntityID, error) {
	pos, err := layout.CellToWorld(cell, grid.LayerTile)
	if err != nil {
		return 0, fmt.Errorf("create tile: %w", err)
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.TileComponent{Cell: cell})
	em.AddComponent(id, &components.RenderComponent{
		Mesh:      res.TileMesh,
		Texture:   res.TileTexture,
		Shader:    gfx.ShaderTile,
		Transform: components.NewTransform(pos),
	})
	return id, nil
}

// NewIndicatorEntity 创建移动范围指示器实体
func NewIndicatorEntity(em *ecs.EntityManager, res *Resources, layout grid.Layout, cell grid.Cell) (ecs.EntityID, error) {
	pos, err := layout.CellToWorld(cell, grid.LayerIndicator)
	if err != nil {
		return 0, fmt.Errorf("create indicator: %w", err)
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.IndicatorComponent{Target: cell})
	em.AddComponent(id, &components.RenderComponent{
		Mesh:      res.IndicatorMesh,
		Texture:   res.IndicatorTexture,
		Shader:    gfx.ShaderIndicator,
		Transform: components.NewTransform(pos),
	})
	return id, nil
}

// NewUnitEntity 创建战斗单位实体
// 只创建实体本身，格子占用由调用方通过 grid.Registry 登记
func NewUnitEntity(
	em *ecs.EntityManager,
	res *Resources,
	layout grid.Layout,
	name string,
	cell grid.Cell,
	budget int,
) (ecs.EntityID, error) {
	if budget < 0 {
		return 0, fmt.Errorf("unit %q: movement budget must be non-negative, got %d", name, budget)
	}
	pos, err := layout.CellToWorld(cell, grid.LayerUnit)
	if err != nil {
		return 0, fmt.Errorf("create unit %q: %w", name, err)
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.UnitComponent{
		Name:   name,
		Cell:   cell,
		Budget: budget,
	})
	em.AddComponent(id, &components.RenderComponent{
		Mesh:      res.UnitMesh,
		Texture:   res.UnitTexture,
		Shader:    gfx.ShaderCharacter,
		Transform: components.NewTransform(pos),
	})
	return id, nil
}
