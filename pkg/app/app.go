// Package app 提供桌面端（ebiten）的应用包装器
//
// App 实现 ebiten.Game：每个 tick 轮询输入、更新关卡；每帧通过 ebitengfx 设备渲染。
// 帧逻辑本身在 Controller 中，终端前端复用同一个 Controller。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/valkyrie/pkg/config"
	"github.com/gonewx/valkyrie/pkg/game"
	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/gfx/ebitengfx"
	"github.com/gonewx/valkyrie/pkg/input"
	"github.com/gonewx/valkyrie/pkg/scenes"
)

// Config 应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 关卡 YAML 路径，为空时使用上次的关卡或内置关卡
	Level string
	// Assets 图片纹理的加载来源，可为 nil
	Assets fs.FS
	// Settings 设置管理器，可为 nil
	Settings *game.SettingsManager
}

// App 桌面端应用，实现 ebiten.Game 接口
type App struct {
	controller *Controller
	device     *ebitengfx.Device
	input      input.Source
	hud        *HUD

	skipRender bool
	verbose    bool
}

// NewApp 创建应用并加载初始关卡
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	settings := cfg.Settings
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}

	device, err := ebitengfx.NewDevice(cfg.Assets)
	if err != nil {
		return nil, err
	}

	sm := game.NewSceneManager(NewLevelFactory(device, settings))
	controller := NewController(sm, settings, clipboard.WriteAll)

	levelToLoad := cfg.Level
	if levelToLoad == "" {
		levelToLoad = settings.GetSettings().LastLevel
		if levelToLoad != "" {
			log.Printf("[App] Loading last level: %s", levelToLoad)
		}
	}
	if err := controller.LoadLevel(levelToLoad); err != nil {
		if cfg.Level != "" || errors.Is(err, gfx.ErrResourceInit) {
			device.Dispose()
			return nil, err
		}
		// 上次的关卡文件可能已经不存在，退回内置关卡
		log.Printf("[App] Warning: %v, falling back to the built-in level", err)
		if err := controller.LoadLevel(""); err != nil {
			device.Dispose()
			return nil, err
		}
	}

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		controller: controller,
		device:     device,
		input:      input.NewEbitenSource(nil),
		hud:        NewHUD(),
		verbose:    cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑，每个 tick 调用一次
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		full := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(full)
		a.controller.Settings().SetFullscreen(full)
		if err := a.controller.Settings().Save(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	_, err := a.controller.Step(deltaTime, a.input.Poll())
	if errors.Is(err, scenes.ErrExit) {
		log.Printf("[App] Exit requested")
		return ebiten.Termination
	}
	if err != nil {
		log.Printf("[App] Update failed: %v", err)
		a.skipRender = true
		return nil
	}
	a.skipRender = false
	return nil
}

// Draw 绘制一帧；本帧 Update 失败时跳过渲染
func (a *App) Draw(screen *ebiten.Image) {
	if a.skipRender {
		return
	}
	screen.Fill(color.RGBA{R: 0x10, G: 0x14, B: 0x1a, A: 0xff})

	level := a.controller.Level()
	if level == nil {
		return
	}

	proj := projectionFor(level, screen.Bounds().Dx(), screen.Bounds().Dy())
	a.device.Begin(screen, proj)
	if err := a.controller.Render(); err != nil {
		log.Printf("[App] Render failed: %v", err)
		return
	}
	a.hud.Draw(screen, proj, level, a.controller.Message())
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 释放关卡与设备资源
func (a *App) Close() {
	a.controller.Dispose()
	a.device.Dispose()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// projectionFor 让关卡网格（含背景边距）居中显示
func projectionFor(level *scenes.LevelScene, width, height int) gfx.Projection {
	layout := level.Registry().Layout()
	minX, minY, maxX, maxY := layout.Extent()
	m := layout.Step
	return gfx.FitProjection(float32(width), float32(height), minX-m, minY-m, maxX+m, maxY+m, config.ViewFill, 1)
}

// Run 创建窗口并运行帧循环，直到窗口关闭或收到退出动作
func Run(cfg Config) error {
	a, err := NewApp(cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer a.Close()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.GameWindowTitle)
	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
