// Package termgfx 基于 tcell 的 gfx.Device 实现
//
// 终端没有像素和着色器，着色器键决定每个分组的绘制方式：
// 背景和格子填充网格在屏幕上的包围盒，指示器和角色在网格中心绘制一个字符。
package termgfx

import (
	"fmt"
	"log"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/vmath"
)

// Glyph 每个分组使用的字符
var Glyph = map[gfx.ShaderKey]rune{
	gfx.ShaderBackground: ' ',
	gfx.ShaderTile:       ' ',
	gfx.ShaderIndicator:  '*',
	gfx.ShaderCharacter:  '@',
}

type bounds struct {
	minX, minY, maxX, maxY float32
}

// Device 终端图形设备
type Device struct {
	screen tcell.Screen
	proj   gfx.Projection

	meshes   map[gfx.MeshHandle]bounds
	textures map[gfx.TextureHandle]tcell.Color
	nextMesh gfx.MeshHandle
	nextTex  gfx.TextureHandle

	active gfx.ShaderKey
	bound  tcell.Color
	model  vmath.Mat4
}

// NewDevice 创建终端设备
func NewDevice(screen tcell.Screen) *Device {
	return &Device{
		screen:   screen,
		meshes:   make(map[gfx.MeshHandle]bounds),
		textures: make(map[gfx.TextureHandle]tcell.Color),
		bound:    tcell.ColorDefault,
		model:    vmath.Identity(),
	}
}

// Begin 设置本帧投影
func (d *Device) Begin(proj gfx.Projection) {
	d.proj = proj
}

// CreateMesh 实现 gfx.Device，只保留网格的包围盒
func (d *Device) CreateMesh(vertices, uvs []float32, indices []uint16) (gfx.MeshHandle, error) {
	if len(vertices) < 3 || len(vertices)%3 != 0 {
		return 0, fmt.Errorf("mesh: invalid vertex data (%d floats)", len(vertices))
	}
	b := bounds{
		minX: float32(math.Inf(1)), minY: float32(math.Inf(1)),
		maxX: float32(math.Inf(-1)), maxY: float32(math.Inf(-1)),
	}
	for i := 0; i < len(vertices); i += 3 {
		b.minX = min(b.minX, vertices[i])
		b.maxX = max(b.maxX, vertices[i])
		b.minY = min(b.minY, vertices[i+1])
		b.maxY = max(b.maxY, vertices[i+1])
	}
	d.nextMesh++
	d.meshes[d.nextMesh] = b
	return d.nextMesh, nil
}

// DeleteMesh 实现 gfx.Device
func (d *Device) DeleteMesh(h gfx.MeshHandle) {
	delete(d.meshes, h)
}

// LoadTexture 实现 gfx.Device
// 纯色纹理转换为终端颜色，图片纹理在终端中无法显示，使用默认颜色
func (d *Device) LoadTexture(path string) (gfx.TextureHandle, error) {
	c, isColor, err := gfx.ParseColorTexture(path)
	if err != nil {
		return 0, err
	}
	col := tcell.ColorDefault
	if isColor {
		col = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	} else {
		log.Printf("[termgfx] Texture %q is not a color texture, using default color", path)
	}
	d.nextTex++
	d.textures[d.nextTex] = col
	return d.nextTex, nil
}

// DeleteTexture 实现 gfx.Device
func (d *Device) DeleteTexture(h gfx.TextureHandle) {
	delete(d.textures, h)
}

// BindTexture 实现 gfx.Device
func (d *Device) BindTexture(h gfx.TextureHandle) {
	if c, ok := d.textures[h]; ok {
		d.bound = c
		return
	}
	d.bound = tcell.ColorDefault
}

// UnbindTexture 实现 gfx.Device
func (d *Device) UnbindTexture() {
	d.bound = tcell.ColorDefault
}

// EnableShader 实现 gfx.Device
func (d *Device) EnableShader(key gfx.ShaderKey) error {
	if _, ok := Glyph[key]; !ok {
		return fmt.Errorf("unknown shader %q", key)
	}
	if d.active != "" {
		return fmt.Errorf("shader %q enabled while %q is active", key, d.active)
	}
	d.active = key
	d.model = vmath.Identity()
	return nil
}

// DisableShader 实现 gfx.Device
func (d *Device) DisableShader(key gfx.ShaderKey) {
	if d.active == key {
		d.active = ""
	}
}

// SetUniformMat4 实现 gfx.Device
func (d *Device) SetUniformMat4(name string, m vmath.Mat4) {
	if name == gfx.UniformTransform {
		d.model = m
	}
}

// Draw 实现 gfx.Device
func (d *Device) Draw(h gfx.MeshHandle) {
	if d.active == "" {
		return
	}
	b, ok := d.meshes[h]
	if !ok {
		return
	}

	x0, y0, x1, y1 := d.screenRect(b)
	switch d.active {
	case gfx.ShaderBackground, gfx.ShaderTile:
		style := tcell.StyleDefault.Background(d.bound)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				d.screen.SetContent(x, y, Glyph[d.active], nil, style)
			}
		}
	default:
		cx, cy := (x0+x1)/2, (y0+y1)/2
		_, _, under, _ := d.screen.GetContent(cx, cy)
		_, bg, _ := under.Decompose()
		style := tcell.StyleDefault.Foreground(d.bound).Background(bg).Bold(true)
		d.screen.SetContent(cx, cy, Glyph[d.active], nil, style)
	}
}

// screenRect 返回网格包围盒变换后覆盖的字符格范围（闭区间）
func (d *Device) screenRect(b bounds) (x0, y0, x1, y1 int) {
	corners := [4]vmath.Vec3{
		{X: b.minX, Y: b.minY}, {X: b.maxX, Y: b.minY},
		{X: b.minX, Y: b.maxY}, {X: b.maxX, Y: b.maxY},
	}
	sx0, sy0 := float32(math.Inf(1)), float32(math.Inf(1))
	sx1, sy1 := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, c := range corners {
		x, y := d.proj.ToScreen(d.model.TransformPoint(c))
		sx0, sx1 = min(sx0, x), max(sx1, x)
		sy0, sy1 = min(sy0, y), max(sy1, y)
	}
	x0, y0 = int(math.Round(float64(sx0))), int(math.Round(float64(sy0)))
	x1, y1 = int(math.Round(float64(sx1)))-1, int(math.Round(float64(sy1)))-1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return x0, y0, x1, y1
}

var _ gfx.Device = (*Device)(nil)
