package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyBinding 按键到动作的映射
type KeyBinding struct {
	Key    ebiten.Key
	Action Action
}

// DefaultKeyBindings 默认键位
// 方向键/WASD 移动光标，空格/回车确认，X/退格取消，Esc 退出，R 重新开始
func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{ebiten.KeyArrowUp, ActionUp},
		{ebiten.KeyW, ActionUp},
		{ebiten.KeyArrowDown, ActionDown},
		{ebiten.KeyS, ActionDown},
		{ebiten.KeyArrowLeft, ActionLeft},
		{ebiten.KeyA, ActionLeft},
		{ebiten.KeyArrowRight, ActionRight},
		{ebiten.KeyD, ActionRight},
		{ebiten.KeySpace, ActionConfirm},
		{ebiten.KeyEnter, ActionConfirm},
		{ebiten.KeyX, ActionCancel},
		{ebiten.KeyBackspace, ActionCancel},
		{ebiten.KeyEscape, ActionExit},
		{ebiten.KeyI, ActionToggleIndicators},
		{ebiten.KeyC, ActionCopySnapshot},
		{ebiten.KeyR, ActionRestart},
	}
}

// EbitenSource 基于 inpututil 的输入源
// 只报告本帧刚按下的键，按住不放不会重复触发
type EbitenSource struct {
	bindings []KeyBinding
}

// NewEbitenSource 创建输入源，bindings 为空时使用默认键位
func NewEbitenSource(bindings []KeyBinding) *EbitenSource {
	if len(bindings) == 0 {
		bindings = DefaultKeyBindings()
	}
	return &EbitenSource{bindings: bindings}
}

// Poll 实现 Source
func (s *EbitenSource) Poll() []Action {
	var actions []Action
	for _, b := range s.bindings {
		if inpututil.IsKeyJustPressed(b.Key) {
			actions = append(actions, b.Action)
		}
	}
	return actions
}
