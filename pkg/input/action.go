// Package input 把平台按键事件转换为离散的游戏动作
//
// 核心逻辑每帧在 update 阶段调用一次 Source.Poll，
// 不直接依赖 ebiten 或 tcell 的按键类型。
package input

// Action 离散的游戏动作
type Action int

const (
	ActionNone Action = iota
	ActionConfirm
	ActionCancel
	ActionExit
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionToggleIndicators
	ActionCopySnapshot
	ActionRestart
)

var actionNames = map[Action]string{
	ActionNone:             "none",
	ActionConfirm:          "confirm",
	ActionCancel:           "cancel",
	ActionExit:             "exit",
	ActionUp:               "up",
	ActionDown:             "down",
	ActionLeft:             "left",
	ActionRight:            "right",
	ActionToggleIndicators: "toggleIndicators",
	ActionCopySnapshot:     "copySnapshot",
	ActionRestart:          "restart",
}

// String 返回动作名称
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Source 输入源，每帧轮询一次，返回本帧新按下的动作（按发生顺序）
type Source interface {
	Poll() []Action
}

// Queue 简单的动作队列，用于测试和脚本回放
type Queue struct {
	pending []Action
}

// Push 追加动作
func (q *Queue) Push(actions ...Action) {
	q.pending = append(q.pending, actions...)
}

// Poll 实现 Source，取出全部待处理动作
func (q *Queue) Poll() []Action {
	out := q.pending
	q.pending = nil
	return out
}
