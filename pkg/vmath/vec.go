// Package vmath 提供网格战棋渲染所需的最小向量与矩阵运算
//
// 世界坐标约定：
//   - X 向右增长
//   - Y 向上增长（网格行号增加时 Y 减小）
//   - Z 用于区分渲染层（背景、格子、指示器、角色）
package vmath

import "math"

// Vec3 三维向量（世界坐标）
type Vec3 struct {
	X, Y, Z float32
}

// Add 返回 v + o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub 返回 v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale 返回 v * s
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// ApproxEqual 判断两个向量在 eps 误差内是否相等
func (v Vec3) ApproxEqual(o Vec3, eps float32) bool {
	return absf(v.X-o.X) <= eps && absf(v.Y-o.Y) <= eps && absf(v.Z-o.Z) <= eps
}

func absf(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

// toRadians 角度转弧度
func toRadians(deg float32) float64 {
	return float64(deg) * math.Pi / 180.0
}
