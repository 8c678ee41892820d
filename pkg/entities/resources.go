package entities

import (
	"log"

	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/grid"
)

// TextureSet 每个渲染分组使用的纹理路径
type TextureSet struct {
	Background string
	Tile       string
	Indicator  string
	Unit       string
}

// 网格尺寸相对于格子步长的比例
const (
	tileFill      = 0.92 // 格子之间留出缝隙
	indicatorFill = 0.5
	unitFill      = 0.7
	bgMargin      = 1.0 // 背景向四周多铺一格
)

// Resources 关卡级共享的网格与纹理
// 每个分组的网格和纹理只创建一次，由该分组的所有实体共享，关卡销毁时统一释放
type Resources struct {
	dev gfx.Device

	BackgroundMesh    gfx.MeshHandle
	TileMesh          gfx.MeshHandle
	IndicatorMesh     gfx.MeshHandle
	UnitMesh          gfx.MeshHandle
	BackgroundTexture gfx.TextureHandle
	TileTexture       gfx.TextureHandle
	IndicatorTexture  gfx.TextureHandle
	UnitTexture       gfx.TextureHandle

	meshes   []gfx.MeshHandle
	textures []gfx.TextureHandle
}

// NewResources 为布局创建所有共享资源
// 任意一项失败时释放已创建的资源，并返回包装了 gfx.ErrResourceInit 的错误
func NewResources(dev gfx.Device, layout grid.Layout, textures TextureSet) (*Resources, error) {
	r := &Resources{dev: dev}

	step := layout.Step
	bgSize := float32(layout.Size)*step + 2*bgMargin*step

	meshes := []struct {
		name   string
		size   float32
		handle *gfx.MeshHandle
	}{
		{"background", bgSize, &r.BackgroundMesh},
		{"tile", step * tileFill, &r.TileMesh},
		{"indicator", step * indicatorFill, &r.IndicatorMesh},
		{"unit", step * unitFill, &r.UnitMesh},
	}
	for _, m := range meshes {
		h, err := gfx.NewQuad(m.size).Create(dev)
		if err != nil {
			r.Dispose()
			return nil, gfx.ResourceError("mesh", m.name, err)
		}
		*m.handle = h
		r.meshes = append(r.meshes, h)
	}

	texs := []struct {
		path   string
		handle *gfx.TextureHandle
	}{
		{textures.Background, &r.BackgroundTexture},
		{textures.Tile, &r.TileTexture},
		{textures.Indicator, &r.IndicatorTexture},
		{textures.Unit, &r.UnitTexture},
	}
	for _, t := range texs {
		h, err := dev.LoadTexture(t.path)
		if err != nil {
			r.Dispose()
			return nil, gfx.ResourceError("texture", t.path, err)
		}
		*t.handle = h
		r.textures = append(r.textures, h)
	}

	log.Printf("[Resources] 创建 %d 个网格, %d 个纹理", len(r.meshes), len(r.textures))
	return r, nil
}

// Dispose 释放所有已创建的资源，可重复调用
func (r *Resources) Dispose() {
	for _, m := range r.meshes {
		r.dev.DeleteMesh(m)
	}
	for _, t := range r.textures {
		r.dev.DeleteTexture(t)
	}
	r.meshes = nil
	r.textures = nil
}
