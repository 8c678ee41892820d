package systems

import (
	"testing"

	"github.com/gonewx/valkyrie/pkg/ecs"
	"github.com/gonewx/valkyrie/pkg/entities"
	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/grid"
)

// testScene 测试用的最小场景：背景 + 9x9 格子 + 一个单位
type testScene struct {
	rec     *gfx.Recorder
	em      *ecs.EntityManager
	res     *entities.Resources
	layout  grid.Layout
	overlay *IndicatorOverlaySystem
	tiles   []ecs.EntityID
	unit    ecs.EntityID
}

func newTestScene(t *testing.T) *testScene {
	t.Helper()
	rec := gfx.NewRecorder()
	layout := grid.DefaultLayout()
	res, err := entities.NewResources(rec, layout, entities.TextureSet{
		Background: "color:#000000",
		Tile:       "color:#333333",
		Indicator:  "color:#ffff00",
		Unit:       "color:#ff0000",
	})
	if err != nil {
		t.Fatalf("NewResources error: %v", err)
	}

	em := ecs.NewEntityManager()
	s := &testScene{
		rec:     rec,
		em:      em,
		res:     res,
		layout:  layout,
		overlay: NewIndicatorOverlaySystem(em, res, layout),
	}

	// 单位先于格子创建，确保绘制顺序不依赖实体ID
	s.unit, err = entities.NewUnitEntity(em, res, layout, "hero", grid.Cell{}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for row := 0; row < layout.Size; row++ {
		for col := 0; col < layout.Size; col++ {
			id, err := entities.NewTileEntity(em, res, layout, grid.Cell{Row: row, Col: col})
			if err != nil {
				t.Fatal(err)
			}
			s.tiles = append(s.tiles, id)
		}
	}
	entities.NewBackgroundEntity(em, res, layout)
	return s
}

func (s *testScene) composer() *SceneComposer {
	return NewSceneComposer(s.rec, s.em, s.overlay, func() []ecs.EntityID { return s.tiles })
}
