// Package gfx 定义战棋核心所依赖的图形资源接口
//
// 核心逻辑只依赖 Device 接口，具体实现有：
//   - ebitengfx.Device：桌面窗口（ebiten + Kage 着色器）
//   - termgfx.Device：终端（tcell）
//   - Recorder：记录调用顺序的内存实现，用于测试
package gfx

import "github.com/gonewx/valkyrie/pkg/vmath"

// MeshHandle 网格句柄，0 为无效句柄
type MeshHandle uint32

// TextureHandle 纹理句柄，0 为无效句柄
type TextureHandle uint32

// ShaderKey 着色器绑定键，每个渲染分组使用独立的着色器
type ShaderKey string

// 渲染分组使用的着色器
const (
	ShaderBackground ShaderKey = "background"
	ShaderTile       ShaderKey = "tile"
	ShaderIndicator  ShaderKey = "indicator"
	ShaderCharacter  ShaderKey = "character"
)

// AllShaders 返回所有内置着色器，按绘制顺序排列
func AllShaders() []ShaderKey {
	return []ShaderKey{ShaderBackground, ShaderTile, ShaderIndicator, ShaderCharacter}
}

// UniformTransform 模型变换矩阵的 uniform 名称
const UniformTransform = "transformationMatrix"

// Device 图形资源层
type Device interface {
	// CreateMesh 上传顶点(xyz)、纹理坐标(uv)与三角形索引
	CreateMesh(vertices, uvs []float32, indices []uint16) (MeshHandle, error)
	// DeleteMesh 释放网格
	DeleteMesh(MeshHandle)

	// LoadTexture 加载纹理；"color:#rrggbb" 生成纯色纹理
	LoadTexture(path string) (TextureHandle, error)
	// DeleteTexture 释放纹理
	DeleteTexture(TextureHandle)
	BindTexture(TextureHandle)
	UnbindTexture()

	// EnableShader 启用着色器，必须与 DisableShader 成对调用（见 WithShader）
	EnableShader(ShaderKey) error
	DisableShader(ShaderKey)
	// SetUniformMat4 设置当前着色器的矩阵 uniform
	SetUniformMat4(name string, m vmath.Mat4)

	// Draw 使用当前着色器、纹理和 uniform 绘制网格
	Draw(MeshHandle)
}
