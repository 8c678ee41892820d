//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此文件仅在使用 -tags mobile 构建时编译：
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.valkyrie -o build/android/valkyrie.aar -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/gonewx/valkyrie/pkg/app"
	"github.com/gonewx/valkyrie/pkg/game"
)

func init() {
	gameApp, err := app.NewApp(app.Config{
		Verbose:  true,
		Settings: game.NewSettingsManager(game.OpenStorage("valkyrie")),
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
