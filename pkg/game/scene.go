package game

import (
	"github.com/gonewx/valkyrie/pkg/input"
)

// Scene 一个可运行的场景（当前只有关卡场景）
// 同一时刻只有一个场景被更新和渲染
type Scene interface {
	// Update 按顺序处理本帧动作并推进逻辑，deltaTime 单位为秒
	Update(deltaTime float64, actions []input.Action) error

	// Render 发出本帧的绘制调用
	// Update 返回错误的帧不会调用 Render
	Render() error

	// Dispose 释放场景持有的图形资源，可重复调用
	Dispose()
}
