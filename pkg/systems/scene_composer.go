package systems

import (
	"fmt"

	"github.com/gonewx/valkyrie/pkg/components"
	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/gfx"
)

// SceneComposer 每帧按固定顺序发出绘制调用
//
// 渲染顺序（从底到顶）：背景 → 格子 → 指示器 → 角色
// 后绘制的分组覆盖先绘制的分组，这是正确性要求而不是优化。
// 每个分组在独立的着色器作用域中绘制（启用 → 绘制 → 禁用），
// 分组之间不会共享顶点布局或 uniform 状态。
type SceneComposer struct {
	device        gfx.Device
	entityManager *ecs.EntityManager
	overlay       *IndicatorOverlaySystem
	tileOrder     func() []ecs.EntityID
}

// NewSceneComposer 创建场景合成器
//
// 参数:
//   - tileOrder: 返回格子实体的绘制顺序（通常为行主序）；为 nil 时按实体ID排序
func NewSceneComposer(dev gfx.Device, em *ecs.EntityManager, overlay *IndicatorOverlaySystem, tileOrder func() []ecs.EntityID) *SceneComposer {
	return &SceneComposer{
		device:        dev,
		entityManager: em,
		overlay:       overlay,
		tileOrder:     tileOrder,
	}
}

// renderGroup 分组描述
type renderGroup struct {
	name   string
	shader gfx.ShaderKey
	ids    func() []ecs.EntityID
	skip   func() bool
}

func (s *SceneComposer) groups() []renderGroup {
	return []renderGroup{
		{
			name:   "background",
			shader: gfx.ShaderBackground,
			ids: func() []ecs.EntityID {
				return ecs.GetEntitiesWith2[*components.BackgroundComponent, *components.RenderComponent](s.entityManager)
			},
		},
		{
			name:   "tiles",
			shader: gfx.ShaderTile,
			ids: func() []ecs.EntityID {
				if s.tileOrder != nil {
					return s.tileOrder()
				}
				return ecs.GetEntitiesWith2[*components.TileComponent, *components.RenderComponent](s.entityManager)
			},
		},
		{
			name:   "indicators",
			shader: gfx.ShaderIndicator,
			ids: func() []ecs.EntityID {
				return s.overlay.Indicators()
			},
			skip: func() bool {
				return s.overlay == nil || !s.overlay.Visible()
			},
		},
		{
			name:   "units",
			shader: gfx.ShaderCharacter,
			ids: func() []ecs.EntityID {
				return ecs.GetEntitiesWith2[*components.UnitComponent, *components.RenderComponent](s.entityManager)
			},
		},
	}
}

// Render 绘制一帧
// 任一分组失败时立即返回错误，已启用的着色器仍会被禁用
func (s *SceneComposer) Render() error {
	for _, g := range s.groups() {
		if g.skip != nil && g.skip() {
			continue
		}
		ids := g.ids()
		if len(ids) == 0 {
			continue
		}
		err := gfx.WithShader(s.device, g.shader, func() error {
			return s.drawGroup(ids)
		})
		if err != nil {
			return fmt.Errorf("render %s: %w", g.name, err)
		}
	}
	return nil
}

func (s *SceneComposer) drawGroup(ids []ecs.EntityID) error {
	for _, id := range ids {
		rc, ok := ecs.GetComponent[*components.RenderComponent](s.entityManager, id)
		if !ok {
			return fmt.Errorf("entity %d has no RenderComponent", id)
		}
		rc.Render(s.device)
	}
	return nil
}
