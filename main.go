package main

import (
	"flag"
	"io/fs"
	"log"
	"os"

	"github.com/gonewx/valkyrie/pkg/app"
	"github.com/gonewx/valkyrie/pkg/game"
)

func main() {
	levelPath := flag.String("level", "", "关卡 YAML 文件路径（为空时使用上次的关卡或内置关卡）")
	assetsDir := flag.String("assets", "", "图片纹理所在目录")
	verbose := flag.Bool("verbose", false, "输出详细日志")
	flag.Parse()

	var assets fs.FS
	if *assetsDir != "" {
		assets = os.DirFS(*assetsDir)
	}

	settings := game.NewSettingsManager(game.OpenStorage("valkyrie"))

	err := app.Run(app.Config{
		Verbose:  *verbose,
		Level:    *levelPath,
		Assets:   assets,
		Settings: settings,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("游戏运行失败: %v", err)
	}
}
