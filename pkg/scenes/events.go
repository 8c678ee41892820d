package scenes

import (
	"fmt"

	"github.com/gonewx/valkyrie/pkg/grid"
)

// EventKind 关卡事件类型
type EventKind int

const (
	EventSelected  EventKind = iota // 选中单位并计算可达范围
	EventMoved                      // 单位移动到目标格子
	EventDenied                     // 确认了不可执行的操作
	EventCancelled                  // 取消选择
	EventTurnEnded                  // 所有单位行动完毕，进入下一回合
)

func (k EventKind) String() string {
	switch k {
	case EventSelected:
		return "selected"
	case EventMoved:
		return "moved"
	case EventDenied:
		return "denied"
	case EventCancelled:
		return "cancelled"
	case EventTurnEnded:
		return "turnEnded"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event 关卡事件，供前端播放提示音、记录日志
type Event struct {
	Kind EventKind
	Unit string    // 相关单位名称，可为空
	From grid.Cell // 单位原位置
	To   grid.Cell // 目标格子（选中时为单位位置）
	Turn int       // 事件发生时的回合数
}

func (e Event) String() string {
	switch e.Kind {
	case EventMoved:
		return fmt.Sprintf("%s %s %s->%s", e.Kind, e.Unit, e.From, e.To)
	case EventTurnEnded:
		return fmt.Sprintf("%s turn=%d", e.Kind, e.Turn)
	default:
		return fmt.Sprintf("%s %s %s", e.Kind, e.Unit, e.To)
	}
}
