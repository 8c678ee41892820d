package gfx

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ColorTexturePrefix 纯色纹理路径前缀，例如 "color:#3c8d2f"
const ColorTexturePrefix = "color:"

// ParseColorTexture 解析纯色纹理路径
//
// 返回:
//   - color.RGBA: 解析出的颜色（不透明）
//   - bool: path 是否为纯色纹理
//   - error: 前缀正确但颜色格式错误
func ParseColorTexture(path string) (color.RGBA, bool, error) {
	if !strings.HasPrefix(path, ColorTexturePrefix) {
		return color.RGBA{}, false, nil
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(path, ColorTexturePrefix), "#")
	if len(hex) != 6 {
		return color.RGBA{}, true, fmt.Errorf("invalid color %q: want #rrggbb", path)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, true, fmt.Errorf("invalid color %q: %w", path, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true, nil
}
