package scenes

import (
	"errors"

	"github.com/gonewx/valkyrie/pkg/game"
)

// Scene 是 game.Scene 的别名
type Scene = game.Scene

// ErrExit 玩家请求退出，前端据此结束帧循环
var ErrExit = errors.New("scenes: exit requested")
