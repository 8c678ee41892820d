// valkyrie-term 在终端中运行关卡（tcell 渲染 + beep 提示音）
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/gonewx/valkyrie/pkg/app"
	"github.com/gonewx/valkyrie/pkg/audio"
	"github.com/gonewx/valkyrie/pkg/game"
	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/gfx/termgfx"
	"github.com/gonewx/valkyrie/pkg/grid"
	"github.com/gonewx/valkyrie/pkg/input"
	"github.com/gonewx/valkyrie/pkg/scenes"
)

const frameInterval = time.Second / 60

func main() {
	levelPath := flag.String("level", "", "关卡 YAML 文件路径（为空时使用内置关卡）")
	verbose := flag.Bool("verbose", false, "输出详细日志（写入 -log 指定的文件）")
	logPath := flag.String("log", "valkyrie-term.log", "详细日志文件")
	mute := flag.Bool("mute", false, "关闭提示音")
	flag.Parse()

	// 终端被 tcell 占用，日志只能写文件
	log.SetOutput(io.Discard)
	if *verbose {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if err := run(*levelPath, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "valkyrie-term: %v\n", err)
		os.Exit(1)
	}
}

func run(levelPath string, mute bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("%w: terminal: %v", gfx.ErrResourceInit, err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("%w: terminal: %v", gfx.ErrResourceInit, err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	settings := game.NewSettingsManager(game.OpenStorage("valkyrie"))

	cues := audio.NewCues(settings.GetSettings().SoundEnabled && !mute)
	if err := cues.Init(); err != nil {
		log.Printf("[Term] Audio disabled: %v", err)
	}
	defer cues.Close()

	device := termgfx.NewDevice(screen)
	controller := app.NewController(game.NewSceneManager(app.NewLevelFactory(device, settings)), settings, clipboard.WriteAll)
	defer controller.Dispose()
	if err := controller.LoadLevel(levelPath); err != nil {
		return err
	}

	src := input.NewTerminalSource(100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			src.Events() <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	last := time.Now()
	for now := range ticker.C {
		dt := now.Sub(last).Seconds()
		last = now

		events, err := controller.Step(dt, src.Poll())
		if errors.Is(err, scenes.ErrExit) {
			return nil
		}
		if err != nil {
			// 本帧失败，跳过渲染
			log.Printf("[Term] Update failed: %v", err)
			continue
		}
		for _, e := range events {
			if cue, ok := cueFor(e.Kind); ok {
				cues.Play(cue)
			}
		}

		draw(screen, device, controller)
	}
	return nil
}

func draw(screen tcell.Screen, device *termgfx.Device, controller *app.Controller) {
	level := controller.Level()
	if level == nil {
		return
	}
	screen.Clear()

	w, h := screen.Size()
	layout := level.Registry().Layout()
	minX, minY, maxX, maxY := layout.Extent()
	// 顶部两行状态，底部一行帮助
	proj := gfx.FitProjection(float32(w), float32(h-3), minX, minY, maxX, maxY, 1, 2)
	proj.OriginY += 2
	device.Begin(proj)

	if err := controller.Render(); err != nil {
		log.Printf("[Term] Render failed: %v", err)
		return
	}

	drawCursor(screen, proj, level)
	drawLine(screen, 0, level.Status().String())
	drawLine(screen, 1, controller.Message())
	drawLine(screen, h-1, "arrows/hjkl move  space select/move  x cancel  i indicators  c copy  r restart  q quit")
	screen.Show()
}

// drawCursor 反色显示光标所在格子的中心字符
func drawCursor(screen tcell.Screen, proj gfx.Projection, level *scenes.LevelScene) {
	center, err := level.Registry().Layout().CellToWorld(level.Cursor(), grid.LayerTile)
	if err != nil {
		return
	}
	x, y := proj.ToScreen(center)
	cx, cy := int(x), int(y)
	r, comb, style, _ := screen.GetContent(cx, cy)
	screen.SetContent(cx, cy, r, comb, style.Reverse(true))
}

func drawLine(screen tcell.Screen, y int, s string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	x := 0
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func cueFor(kind scenes.EventKind) (audio.Cue, bool) {
	switch kind {
	case scenes.EventSelected:
		return audio.CueSelect, true
	case scenes.EventMoved:
		return audio.CueMove, true
	case scenes.EventDenied:
		return audio.CueDeny, true
	case scenes.EventTurnEnded:
		return audio.CueTurn, true
	}
	return 0, false
}
