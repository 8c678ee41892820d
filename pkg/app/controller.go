package app

import (
	"fmt"
	"log"

	"github.com/gonewx/valkyrie/pkg/config"
	"github.com/gonewx/valkyrie/pkg/game"
	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/input"
	"github.com/gonewx/valkyrie/pkg/scenes"
)

// NewLevelFactory 返回在 dev 上创建关卡场景的工厂
// 路径为空时加载内置默认关卡
func NewLevelFactory(dev gfx.Device, settings *game.SettingsManager) game.SceneFactory {
	return func(levelPath string) (game.Scene, error) {
		var (
			cfg *config.LevelConfig
			err error
		)
		if levelPath == "" {
			cfg, err = config.LoadDefaultLevel()
		} else {
			cfg, err = config.LoadLevelConfig(levelPath)
		}
		if err != nil {
			return nil, err
		}

		level, err := scenes.NewLevelScene(cfg, dev)
		if err != nil {
			return nil, err
		}
		if settings != nil {
			level.SetIndicatorsHidden(!settings.GetSettings().ShowIndicators)
		}
		return level, nil
	}
}

// Controller 两个前端共用的帧逻辑
//
// 处理前端级别的动作（切换指示器、复制快照、重新开始），
// 其余动作按顺序交给当前关卡场景。
type Controller struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	copyText     func(string) error
	message      string
}

// NewController 创建控制器
//
// 参数:
//   - copyText: 写入剪贴板的函数（通常为 clipboard.WriteAll），可为 nil
func NewController(sm *game.SceneManager, settings *game.SettingsManager, copyText func(string) error) *Controller {
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}
	return &Controller{
		sceneManager: sm,
		settings:     settings,
		copyText:     copyText,
	}
}

// LoadLevel 加载关卡并记录到设置中
func (c *Controller) LoadLevel(levelPath string) error {
	if err := c.sceneManager.LoadLevel(levelPath); err != nil {
		return err
	}
	c.settings.SetLastLevel(levelPath)
	if err := c.settings.Save(); err != nil {
		log.Printf("[Controller] Warning: %v", err)
	}
	return nil
}

// Level 返回当前关卡场景，没有时返回 nil
func (c *Controller) Level() *scenes.LevelScene {
	level, _ := c.sceneManager.GetCurrentScene().(*scenes.LevelScene)
	return level
}

// Settings 返回设置管理器
func (c *Controller) Settings() *game.SettingsManager {
	return c.settings
}

// Message 最近一条提示信息
func (c *Controller) Message() string {
	return c.message
}

// Step 处理一帧
//
// 返回:
//   - []scenes.Event: 本帧产生的关卡事件
//   - error: scenes.ErrExit 表示退出；其他错误表示本帧失败，前端应跳过渲染
func (c *Controller) Step(deltaTime float64, actions []input.Action) ([]scenes.Event, error) {
	sceneActions := actions[:0:0]
	for _, a := range actions {
		switch a {
		case input.ActionToggleIndicators:
			c.toggleIndicators()
		case input.ActionCopySnapshot:
			c.copySnapshot()
		case input.ActionRestart:
			if err := c.sceneManager.Reload(); err != nil {
				return nil, err
			}
			c.message = "level restarted"
		default:
			sceneActions = append(sceneActions, a)
		}
	}

	if err := c.sceneManager.Update(deltaTime, sceneActions); err != nil {
		return nil, err
	}

	var events []scenes.Event
	if level := c.Level(); level != nil {
		events = level.Events()
	}
	for _, e := range events {
		c.message = e.String()
	}
	return events, nil
}

// Render 渲染当前场景
func (c *Controller) Render() error {
	return c.sceneManager.Render()
}

// Dispose 释放当前场景
func (c *Controller) Dispose() {
	c.sceneManager.Dispose()
}

func (c *Controller) toggleIndicators() {
	show := c.settings.ToggleIndicators()
	if level := c.Level(); level != nil {
		level.SetIndicatorsHidden(!show)
	}
	if err := c.settings.Save(); err != nil {
		log.Printf("[Controller] Warning: %v", err)
	}
	c.message = fmt.Sprintf("indicators %s", onOff(show))
}

func (c *Controller) copySnapshot() {
	level := c.Level()
	if level == nil {
		return
	}
	if c.copyText == nil {
		c.message = "clipboard unavailable"
		return
	}
	if err := c.copyText(level.Snapshot()); err != nil {
		log.Printf("[Controller] Failed to copy snapshot: %v", err)
		c.message = "clipboard unavailable"
		return
	}
	c.message = "snapshot copied to clipboard"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
