// Package ebitengfx 基于 ebiten 的 gfx.Device 实现
//
// 每个渲染分组使用一个 Kage 着色器；网格在 CPU 端经模型矩阵和投影变换后，
// 通过 DrawTrianglesShader 绘制到当前帧的屏幕图像上。
package ebitengfx

import (
	"embed"
	"fmt"
	"image/color"
	_ "image/png"
	"io/fs"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/vmath"
)

//go:embed shaders/*.kage
var shaderFS embed.FS

// 着色器默认 uniform
const (
	tileBorder     = 0.06
	indicatorAlpha = 0.65
)

type mesh struct {
	vertices []float32
	uvs      []float32
	indices  []uint16
}

// Device ebiten 图形设备
// 所有方法必须在 ebiten 的 Update/Draw 所在 goroutine 中调用
type Device struct {
	assets fs.FS

	shaders  map[gfx.ShaderKey]*ebiten.Shader
	uniforms map[gfx.ShaderKey]map[string]any
	meshes   map[gfx.MeshHandle]*mesh
	textures map[gfx.TextureHandle]*ebiten.Image
	nextMesh gfx.MeshHandle
	nextTex  gfx.TextureHandle

	screen *ebiten.Image
	proj   gfx.Projection
	white  *ebiten.Image

	active  gfx.ShaderKey
	bound   *ebiten.Image
	model   vmath.Mat4
	scratch []ebiten.Vertex
}

// NewDevice 创建设备并编译所有内置着色器
//
// 参数:
//   - assets: 非纯色纹理的加载来源，可为 nil
//
// 返回:
//   - error: 任一着色器编译失败时返回包装了 gfx.ErrResourceInit 的错误
func NewDevice(assets fs.FS) (*Device, error) {
	d := &Device{
		assets:   assets,
		shaders:  make(map[gfx.ShaderKey]*ebiten.Shader),
		uniforms: make(map[gfx.ShaderKey]map[string]any),
		meshes:   make(map[gfx.MeshHandle]*mesh),
		textures: make(map[gfx.TextureHandle]*ebiten.Image),
		model:    vmath.Identity(),
	}

	for _, key := range gfx.AllShaders() {
		src, err := ShaderSource(key)
		if err != nil {
			d.Dispose()
			return nil, gfx.ResourceError("shader", string(key), err)
		}
		s, err := ebiten.NewShader(src)
		if err != nil {
			d.Dispose()
			return nil, gfx.ResourceError("shader", string(key), err)
		}
		d.shaders[key] = s
	}
	d.uniforms[gfx.ShaderTile] = map[string]any{"Border": float32(tileBorder)}
	d.uniforms[gfx.ShaderIndicator] = map[string]any{"Alpha": float32(indicatorAlpha)}

	d.white = ebiten.NewImage(1, 1)
	d.white.Fill(color.White)

	log.Printf("[ebitengfx] Compiled %d shaders", len(d.shaders))
	return d, nil
}

// ShaderSource 返回着色器的 Kage 源码
func ShaderSource(key gfx.ShaderKey) ([]byte, error) {
	return shaderFS.ReadFile("shaders/" + string(key) + ".kage")
}

// Begin 设置本帧的绘制目标和投影
func (d *Device) Begin(screen *ebiten.Image, proj gfx.Projection) {
	d.screen = screen
	d.proj = proj
}

// Projection 返回当前投影
func (d *Device) Projection() gfx.Projection {
	return d.proj
}

// CreateMesh 实现 gfx.Device
func (d *Device) CreateMesh(vertices, uvs []float32, indices []uint16) (gfx.MeshHandle, error) {
	if len(vertices)%3 != 0 || len(uvs)/2 != len(vertices)/3 {
		return 0, fmt.Errorf("mesh: %d vertex floats and %d uv floats do not match", len(vertices), len(uvs))
	}
	if len(vertices)/3 > math.MaxUint16 {
		return 0, fmt.Errorf("mesh: %d vertices exceed the 16-bit index range", len(vertices)/3)
	}
	n := uint16(len(vertices) / 3)
	for _, i := range indices {
		if i >= n {
			return 0, fmt.Errorf("mesh: index %d out of range (%d vertices)", i, n)
		}
	}
	d.nextMesh++
	d.meshes[d.nextMesh] = &mesh{
		vertices: append([]float32(nil), vertices...),
		uvs:      append([]float32(nil), uvs...),
		indices:  append([]uint16(nil), indices...),
	}
	return d.nextMesh, nil
}

// DeleteMesh 实现 gfx.Device
func (d *Device) DeleteMesh(h gfx.MeshHandle) {
	delete(d.meshes, h)
}

// LoadTexture 实现 gfx.Device
func (d *Device) LoadTexture(path string) (gfx.TextureHandle, error) {
	img, err := d.loadImage(path)
	if err != nil {
		return 0, err
	}
	d.nextTex++
	d.textures[d.nextTex] = img
	return d.nextTex, nil
}

func (d *Device) loadImage(path string) (*ebiten.Image, error) {
	c, isColor, err := gfx.ParseColorTexture(path)
	if err != nil {
		return nil, err
	}
	if isColor {
		img := ebiten.NewImage(16, 16)
		img.Fill(c)
		return img, nil
	}
	if d.assets == nil {
		return nil, fmt.Errorf("texture %q: no asset filesystem", path)
	}
	img, _, err := ebitenutil.NewImageFromFileSystem(d.assets, path)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", path, err)
	}
	return img, nil
}

// DeleteTexture 实现 gfx.Device
func (d *Device) DeleteTexture(h gfx.TextureHandle) {
	if img, ok := d.textures[h]; ok {
		img.Deallocate()
		delete(d.textures, h)
	}
}

// BindTexture 实现 gfx.Device
func (d *Device) BindTexture(h gfx.TextureHandle) {
	d.bound = d.textures[h]
}

// UnbindTexture 实现 gfx.Device
func (d *Device) UnbindTexture() {
	d.bound = nil
}

// EnableShader 实现 gfx.Device
func (d *Device) EnableShader(key gfx.ShaderKey) error {
	if _, ok := d.shaders[key]; !ok {
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
// 模型矩阵在 CPU 端应用，其余矩阵 uniform 忽略
func (d *Device) SetUniformMat4(name string, m vmath.Mat4) {
	if name == gfx.UniformTransform {
		d.model = m
	}
}

// Draw 实现 gfx.Device
func (d *Device) Draw(h gfx.MeshHandle) {
	if d.screen == nil || d.active == "" {
		return
	}
	m, ok := d.meshes[h]
	if !ok {
		return
	}
	src := d.bound
	if src == nil {
		src = d.white
	}

	b := src.Bounds()
	d.scratch = appendVertices(d.scratch[:0], m, d.model, d.proj, float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy()))

	op := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: d.uniforms[d.active],
	}
	op.Images[0] = src
	d.screen.DrawTrianglesShader(d.scratch, m.indices, d.shaders[d.active], op)
}

// appendVertices 变换网格顶点并换算为屏幕坐标和源图像像素坐标
func appendVertices(dst []ebiten.Vertex, m *mesh, model vmath.Mat4, proj gfx.Projection, srcX, srcY, srcW, srcH float32) []ebiten.Vertex {
	n := len(m.vertices) / 3
	for i := 0; i < n; i++ {
		p := model.TransformPoint(vmath.Vec3{X: m.vertices[i*3], Y: m.vertices[i*3+1], Z: m.vertices[i*3+2]})
		x, y := proj.ToScreen(p)
		dst = append(dst, ebiten.Vertex{
			DstX:   x,
			DstY:   y,
			SrcX:   srcX + m.uvs[i*2]*srcW,
			SrcY:   srcY + m.uvs[i*2+1]*srcH,
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		})
	}
	return dst
}

// Dispose 释放所有着色器与纹理
func (d *Device) Dispose() {
	for key, s := range d.shaders {
		s.Deallocate()
		delete(d.shaders, key)
	}
	for h := range d.textures {
		d.DeleteTexture(h)
	}
	for h := range d.meshes {
		delete(d.meshes, h)
	}
	if d.white != nil {
		d.white.Deallocate()
		d.white = nil
	}
}

var _ gfx.Device = (*Device)(nil)
