package grid

import "errors"

// ErrOutOfBounds 表示网格坐标超出 [0, N) 范围
// 调用者可使用 errors.Is 检查，网格层从不静默钳制坐标
var ErrOutOfBounds = errors.New("grid: cell out of bounds")

// ErrConflict 表示试图占用一个已被其他单位占用的格子
var ErrConflict = errors.New("grid: cell already occupied")
