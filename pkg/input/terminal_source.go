package input

import (
	"github.com/gdamore/tcell/v2"
)

// TerminalSource 基于 tcell 按键事件的输入源
//
// tcell 的 PollEvent 是阻塞调用，由前端在独立 goroutine 中读取并通过
// Events 通道送入；帧循环每帧调用 Poll 一次，非阻塞地取走全部事件。
type TerminalSource struct {
	events chan tcell.Event
	onExit func()
}

// NewTerminalSource 创建输入源，buffer 为事件通道容量
func NewTerminalSource(buffer int) *TerminalSource {
	return &TerminalSource{events: make(chan tcell.Event, buffer)}
}

// Events 返回事件写入端
func (s *TerminalSource) Events() chan<- tcell.Event {
	return s.events
}

// Poll 实现 Source
func (s *TerminalSource) Poll() []Action {
	var actions []Action
	for {
		select {
		case ev := <-s.events:
			if a := TranslateKey(ev); a != ActionNone {
				actions = append(actions, a)
			}
		default:
			return actions
		}
	}
}

// TranslateKey 把 tcell 事件转换为动作，非按键事件返回 ActionNone
func TranslateKey(ev tcell.Event) Action {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return ActionNone
	}

	switch key.Key() {
	case tcell.KeyUp:
		return ActionUp
	case tcell.KeyDown:
		return ActionDown
	case tcell.KeyLeft:
		return ActionLeft
	case tcell.KeyRight:
		return ActionRight
	case tcell.KeyEnter:
		return ActionConfirm
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ActionCancel
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionExit
	case tcell.KeyRune:
		switch key.Rune() {
		case 'w', 'k':
			return ActionUp
		case 's', 'j':
			return ActionDown
		case 'a', 'h':
			return ActionLeft
		case 'd', 'l':
			return ActionRight
		case ' ':
			return ActionConfirm
		case 'x':
			return ActionCancel
		case 'q':
			return ActionExit
		case 'i':
			return ActionToggleIndicators
		case 'c':
			return ActionCopySnapshot
		case 'r':
			return ActionRestart
		}
	}
	return ActionNone
}
