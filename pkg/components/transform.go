package components

import "github.com/gonewx/valkyrie/pkg/vmath"

// Transform 世界变换：平移 + 旋转（角度制） + 等比缩放
type Transform struct {
	Position vmath.Vec3
	Rotation vmath.Vec3 // 绕 X/Y/Z 轴的旋转角度（度）
	Scale    float32
}

// NewTransform 创建位于 pos、无旋转、缩放为 1 的变换
func NewTransform(pos vmath.Vec3) Transform {
	return Transform{Position: pos, Scale: 1}
}

// Matrix 返回模型矩阵：T * Rx * Ry * Rz * S
func (t Transform) Matrix() vmath.Mat4 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return vmath.Translate(t.Position).
		Mul(vmath.RotateX(t.Rotation.X)).
		Mul(vmath.RotateY(t.Rotation.Y)).
		Mul(vmath.RotateZ(t.Rotation.Z)).
		Mul(vmath.Scale(scale))
}
