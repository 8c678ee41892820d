package gfx

import "github.com/gonewx/valkyrie/pkg/vmath"

// Projection 世界坐标到屏幕坐标的正交投影
// 屏幕 Y 向下增长，世界 Y 向上增长
type Projection struct {
	OriginX, OriginY float32 // 世界原点对应的屏幕坐标
	ScaleX, ScaleY   float32 // 世界单位对应的屏幕单位
}

// FitProjection 使世界矩形 [minX,maxX]x[minY,maxY] 居中并完整显示在 width x height 的屏幕内
//
// 参数:
//   - fill: 使用屏幕的比例 (0,1]，留出边距
//   - xStretch: 屏幕单元的高宽比，像素为 1，终端字符格约为 2
func FitProjection(width, height, minX, minY, maxX, maxY, fill, xStretch float32) Projection {
	if fill <= 0 || fill > 1 {
		fill = 1
	}
	if xStretch <= 0 {
		xStretch = 1
	}
	dx, dy := maxX-minX, maxY-minY
	scale := float32(1)
	if dx > 0 && dy > 0 {
		sx := width * fill / (dx * xStretch)
		sy := height * fill / dy
		scale = sy
		if sx < sy {
			scale = sx
		}
	}

	p := Projection{ScaleX: scale * xStretch, ScaleY: scale}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	p.OriginX = width/2 - cx*p.ScaleX
	p.OriginY = height/2 + cy*p.ScaleY
	return p
}

// ToScreen 投影一个世界坐标点
func (p Projection) ToScreen(v vmath.Vec3) (float32, float32) {
	return p.OriginX + v.X*p.ScaleX, p.OriginY - v.Y*p.ScaleY
}

// ToWorld ToScreen 的逆运算，z 为 0
func (p Projection) ToWorld(sx, sy float32) vmath.Vec3 {
	if p.ScaleX == 0 || p.ScaleY == 0 {
		return vmath.Vec3{}
	}
	return vmath.Vec3{X: (sx - p.OriginX) / p.ScaleX, Y: (p.OriginY - sy) / p.ScaleY}
}
