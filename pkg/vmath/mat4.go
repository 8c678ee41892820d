package vmath

import "math"

// Mat4 4x4 矩阵，按列主序存储（与 GLSL uniform 布局一致）
// 元素 (row, col) 位于 m[col*4+row]
type Mat4 [16]float32

// Identity 返回单位矩阵
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At 返回 (row, col) 处的元素
func (m Mat4) At(row, col int) float32 {
	return m[col*4+row]
}

// Translate 返回平移矩阵
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
	return m
}

// Scale 返回等比缩放矩阵
func Scale(s float32) Mat4 {
	m := Identity()
	m[0] = s
	m[5] = s
	m[10] = s
	return m
}

// ScaleXYZ 返回非等比缩放矩阵
func ScaleXYZ(sx, sy, sz float32) Mat4 {
	m := Identity()
	m[0] = sx
	m[5] = sy
	m[10] = sz
	return m
}

// RotateX 返回绕 X 轴旋转 deg 度的矩阵
func RotateX(deg float32) Mat4 {
	r := toRadians(deg)
	c, s := float32(math.Cos(r)), float32(math.Sin(r))
	m := Identity()
	m[5] = c
	m[6] = s
	m[9] = -s
	m[10] = c
	return m
}

// RotateY 返回绕 Y 轴旋转 deg 度的矩阵
func RotateY(deg float32) Mat4 {
	r := toRadians(deg)
	c, s := float32(math.Cos(r)), float32(math.Sin(r))
	m := Identity()
	m[0] = c
	m[2] = -s
	m[8] = s
	m[10] = c
	return m
}

// RotateZ 返回绕 Z 轴旋转 deg 度的矩阵
func RotateZ(deg float32) Mat4 {
	r := toRadians(deg)
	c, s := float32(math.Cos(r)), float32(math.Sin(r))
	m := Identity()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// Mul 返回 m * o（先应用 o，再应用 m）
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// TransformPoint 用矩阵变换一个点（w = 1）
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	x := m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]
	y := m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]
	z := m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{X: x / w, Y: y / w, Z: z / w}
	}
	return Vec3{X: x, Y: y, Z: z}
}

// Ortho 返回正交投影矩阵
// 把 [left,right]x[bottom,top] 的世界区域映射到 [-1,1] 的标准化设备坐标
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	m := Identity()
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	return m
}
