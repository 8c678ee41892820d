package app

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/valkyrie/pkg/gfx"
	"github.com/gonewx/valkyrie/pkg/grid"
	"github.com/gonewx/valkyrie/pkg/scenes"
)

const (
	hudMargin     = 8
	hudLineHeight = 16
)

var (
	hudTextColor   = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	hudShadowColor = color.RGBA{A: 0xc8}
	cursorColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xe0}
)

// HUD 状态栏和光标
type HUD struct {
	face text.Face
}

// NewHUD 创建 HUD，使用内置位图字体
func NewHUD() *HUD {
	return &HUD{face: text.NewGoXFace(basicfont.Face7x13)}
}

// Draw 绘制光标框、状态栏和提示信息
func (h *HUD) Draw(screen *ebiten.Image, proj gfx.Projection, level *scenes.LevelScene, message string) {
	h.drawCursor(screen, proj, level)

	st := level.Status()
	h.drawText(screen, st.String(), hudMargin, hudMargin)
	if message != "" {
		h.drawText(screen, message, hudMargin, hudMargin+hudLineHeight)
	}
	h.drawText(screen, "arrows move  space select/move  x cancel  i indicators  c copy  r restart  esc quit",
		hudMargin, float64(screen.Bounds().Dy()-hudMargin-hudLineHeight))
}

func (h *HUD) drawCursor(screen *ebiten.Image, proj gfx.Projection, level *scenes.LevelScene) {
	layout := level.Registry().Layout()
	center, err := layout.CellToWorld(level.Cursor(), grid.LayerIndicator)
	if err != nil {
		return
	}
	x, y := proj.ToScreen(center)
	w := layout.Step * proj.ScaleX
	hgt := layout.Step * proj.ScaleY
	vector.StrokeRect(screen, x-w/2, y-hgt/2, w, hgt, 2, cursorColor, false)
}

// drawText 带一像素阴影的文字
func (h *HUD) drawText(screen *ebiten.Image, s string, x, y float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x+1, y+1)
	op.ColorScale.ScaleWithColor(hudShadowColor)
	text.Draw(screen, s, h.face, op)

	op = &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(hudTextColor)
	text.Draw(screen, s, h.face, op)
}
