package components

import (
	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/vmath"
)

// RenderComponent 可渲染记录：网格 + 纹理 + 着色器绑定键 + 世界变换
//
// 背景、格子、指示器、角色各自持有独立的 RenderComponent（组合而非继承）。
// 渲染系统只读取它，变换由拥有它的实体逻辑修改。
// 网格和纹理是关卡级共享资源，RenderComponent 不负责释放它们。
type RenderComponent struct {
	Mesh      gfx.MeshHandle
	Texture   gfx.TextureHandle
	Shader    gfx.ShaderKey
	Transform Transform
	Hidden    bool
}

// Render 使用当前变换发出一次绘制调用
// 调用者负责在此之前启用 Shader 对应的着色器
func (r *RenderComponent) Render(dev gfx.Device) {
	if r.Hidden {
		return
	}
	dev.BindTexture(r.Texture)
	dev.SetUniformMat4(gfx.UniformTransform, r.Transform.Matrix())
	dev.Draw(r.Mesh)
	dev.UnbindTexture()
}

// SetPosition 设置平移分量
func (r *RenderComponent) SetPosition(p vmath.Vec3) {
	r.Transform.Position = p
}

// IncreasePosition 在当前平移上叠加偏移
func (r *RenderComponent) IncreasePosition(dx, dy, dz float32) {
	r.Transform.Position = r.Transform.Position.Add(vmath.Vec3{X: dx, Y: dy, Z: dz})
}

// Position 返回当前平移分量
func (r *RenderComponent) Position() vmath.Vec3 {
	return r.Transform.Position
}
