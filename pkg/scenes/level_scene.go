package scenes

import (
	"fmt"
	"log"

	"github.com/gonewx/valkyrie/pkg/components"
	"github.com/gonewx/valkyrie/pkg/config"
	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/entities"
	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/grid"
	"github.com/gonewx/valkyrie/pkg/input"
	"github.com/gonewx/valkyrie/pkg/movement"
	"github.com/gonewx/valkyrie/pkg/systems"
)

// LevelScene 一个关卡的全部状态
//
// 持有格子注册表、实体管理器、共享资源、指示器覆盖层和场景合成器。
// 所有方法都必须在帧循环所在的 goroutine 中调用。
//
// 选择状态机：
//   - 空闲：确认一个未行动的单位 → 选中，计算并显示可达范围
//   - 选中：确认可达格子 → 移动，单位标记为已行动，回到空闲
//   - 选中：确认另一个未行动的单位 → 重新选择（最后一次查询生效）
//   - 任意：取消 → 清除选择与指示器
type LevelScene struct {
	cfg    *config.LevelConfig
	device gfx.Device
	layout grid.Layout

	entityManager *ecs.EntityManager
	registry      *grid.Registry
	resources     *entities.Resources
	overlay       *systems.IndicatorOverlaySystem
	composer      *systems.SceneComposer

	background ecs.EntityID
	tiles      map[grid.Cell]ecs.EntityID
	tileOrder  []ecs.EntityID
	units      []ecs.EntityID // 配置中的顺序

	cursor   grid.Cell
	selected ecs.EntityID // 0 表示没有选中单位
	reach    *movement.Result
	turn     int
	elapsed  float64

	events   []Event
	disposed bool
}

// NewLevelScene 根据关卡配置创建场景
//
// 任一步骤失败时释放已获取的资源；设备资源失败的错误包装 gfx.ErrResourceInit。
func NewLevelScene(cfg *config.LevelConfig, dev gfx.Device) (*LevelScene, error) {
	layout := cfg.Layout()
	reg, err := grid.Build(layout)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", cfg.ID, err)
	}
	for _, b := range cfg.Blocked {
		if err := reg.SetPassable(b.Cell(), false); err != nil {
			return nil, fmt.Errorf("level %s: %w", cfg.ID, err)
		}
	}

	res, err := entities.NewResources(dev, layout, cfg.TextureSet())
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", cfg.ID, err)
	}

	em := ecs.NewEntityManager()
	s := &LevelScene{
		cfg:           cfg,
		device:        dev,
		layout:        layout,
		entityManager: em,
		registry:      reg,
		resources:     res,
		tiles:         make(map[grid.Cell]ecs.EntityID, layout.Size*layout.Size),
		turn:          1,
	}

	if err := s.populate(); err != nil {
		s.Dispose()
		return nil, fmt.Errorf("level %s: %w", cfg.ID, err)
	}

	s.overlay = systems.NewIndicatorOverlaySystem(em, res, layout)
	s.composer = systems.NewSceneComposer(dev, em, s.overlay, s.TileOrder)

	if len(s.units) > 0 {
		s.cursor = s.unitComponent(s.units[0]).Cell
	}
	if cfg.ShouldAutoSelect() {
		if err := s.selectNextReady(); err != nil {
			s.Dispose()
			return nil, fmt.Errorf("level %s: %w", cfg.ID, err)
		}
	}

	log.Printf("[LevelScene] 关卡 %s 加载完成: %dx%d, %d 个单位, %d 个障碍",
		cfg.ID, layout.Size, layout.Size, len(s.units), len(cfg.Blocked))
	return s, nil
}

// populate 创建背景、格子（行主序）和单位，并登记单位占用
func (s *LevelScene) populate() error {
	s.background = entities.NewBackgroundEntity(s.entityManager, s.resources, s.layout)

	for _, gc := range s.registry.Cells() {
		id, err := entities.NewTileEntity(s.entityManager, s.resources, s.layout, gc.Cell)
		if err != nil {
			return err
		}
		if !gc.Passable {
			// 障碍格不绘制格子，露出背景
			if rc, ok := ecs.GetComponent[*components.RenderComponent](s.entityManager, id); ok {
				rc.Hidden = true
			}
		}
		s.tiles[gc.Cell] = id
		s.tileOrder = append(s.tileOrder, id)
	}

	for _, u := range s.cfg.Units {
		id, err := entities.NewUnitEntity(s.entityManager, s.resources, s.layout, u.Name, u.Cell(), u.Budget)
		if err != nil {
			return err
		}
		if err := s.registry.SetOccupant(u.Cell(), id); err != nil {
			return fmt.Errorf("place unit %q: %w", u.Name, err)
		}
		s.units = append(s.units, id)
	}
	return nil
}

// Update 按顺序处理动作
//
// 返回:
//   - error: 收到退出动作时返回 ErrExit；其余错误表示本帧逻辑失败
func (s *LevelScene) Update(deltaTime float64, actions []input.Action) error {
	if s.disposed {
		return fmt.Errorf("level %s: update after dispose", s.cfg.ID)
	}
	s.elapsed += deltaTime

	for _, a := range actions {
		var err error
		switch a {
		case input.ActionExit:
			return ErrExit
		case input.ActionUp:
			s.MoveCursor(-1, 0)
		case input.ActionDown:
			s.MoveCursor(1, 0)
		case input.ActionLeft:
			s.MoveCursor(0, -1)
		case input.ActionRight:
			s.MoveCursor(0, 1)
		case input.ActionConfirm:
			err = s.Confirm()
		case input.ActionCancel:
			s.Cancel()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Render 绘制一帧
func (s *LevelScene) Render() error {
	if s.disposed {
		return nil
	}
	return s.composer.Render()
}

// Dispose 销毁全部实体并释放共享资源，可重复调用
func (s *LevelScene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	if s.overlay != nil {
		s.overlay.Clear()
	}
	for _, id := range ecs.GetEntitiesWith1[*components.RenderComponent](s.entityManager) {
		s.entityManager.DestroyEntity(id)
	}
	s.entityManager.RemoveMarkedEntities()
	s.resources.Dispose()
	log.Printf("[LevelScene] 关卡 %s 已释放", s.cfg.ID)
}

// Events 取出并清空累计的事件
func (s *LevelScene) Events() []Event {
	out := s.events
	s.events = nil
	return out
}

func (s *LevelScene) emit(e Event) {
	e.Turn = s.turn
	s.events = append(s.events, e)
	log.Printf("[LevelScene] %s", e)
}

// SetIndicatorsHidden 隐藏或显示可达范围指示器（不影响选择状态）
func (s *LevelScene) SetIndicatorsHidden(hidden bool) {
	s.overlay.SetSuppressed(hidden)
}

// TileOrder 返回格子实体的行主序列表
func (s *LevelScene) TileOrder() []ecs.EntityID {
	return s.tileOrder
}

// Tile 返回格子对应的实体
func (s *LevelScene) Tile(c grid.Cell) (ecs.EntityID, bool) {
	id, ok := s.tiles[c]
	return id, ok
}

// Registry 返回格子注册表
func (s *LevelScene) Registry() *grid.Registry {
	return s.registry
}

// Overlay 返回指示器覆盖层
func (s *LevelScene) Overlay() *systems.IndicatorOverlaySystem {
	return s.overlay
}

// EntityManager 返回实体管理器
func (s *LevelScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// Config 返回关卡配置
func (s *LevelScene) Config() *config.LevelConfig {
	return s.cfg
}
