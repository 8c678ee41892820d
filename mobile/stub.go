//go:build !mobile

// Package mobile 在普通构建中只保留 Dummy，实际入口见 mobile.go（-tags mobile）
package mobile

// Dummy 供 ebitenmobile 识别包
func Dummy() {}
