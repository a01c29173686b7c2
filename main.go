package main

import (
	"flag"
	"log"

	"github.com/decker502/bombgrid/pkg/app"
	"github.com/decker502/bombgrid/pkg/embedded"
	"github.com/decker502/bombgrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	level      = flag.Uint("level", 0, "启动关卡编号（0 表示使用配置中的 startLevel）")
	configPath = flag.String("config", "", "编辑配置文件路径（默认使用嵌入的 data/edit_config.yaml）")
)

func main() {
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Level:      types.LevelID(*level),
		ConfigPath: *configPath,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}
	defer gameApp.Close()

	width, height := gameApp.ScreenSize()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("炸弹格子")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
