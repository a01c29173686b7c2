// verify_placement 无界面检查关卡布局
//
// 加载关卡配置，执行 Init -> Edit 初始化，打印回放后的网格内容。
// 使用 -roundtrip 时额外执行一次 Edit -> Run -> Init -> Edit，
// 检查快照回放后网格是否与首次进入时一致。
//
// 用法（在项目根目录执行）：
//
//	go run ./cmd/verify_placement -level 1
//	go run ./cmd/verify_placement -level 2 -roundtrip -verbose
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/decker502/bombgrid/pkg/app"
	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/embedded"
	"github.com/decker502/bombgrid/pkg/systems"
	"github.com/decker502/bombgrid/pkg/types"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	levelID    = flag.Uint("level", 1, "关卡编号")
	configPath = flag.String("config", config.DefaultEditConfigPath, "编辑配置文件路径")
	roundTrip  = flag.Bool("roundtrip", false, "执行 Run/Reset 往返并比较网格")
)

func main() {
	flag.Parse()

	// 从当前目录读取 data/
	embedded.Init(os.DirFS("."))

	editConfig, err := config.LoadEditConfig(*configPath)
	if err != nil {
		log.Fatalf("编辑配置加载失败: %v", err)
	}
	if *verbose {
		editConfig.Logging.Level = "debug"
	}

	logger, err := app.NewLogger(editConfig.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	levelConfig, err := config.LoadLevelConfig(config.LevelConfigPath(editConfig.LevelDir, types.LevelID(*levelID)))
	if err != nil {
		log.Fatalf("关卡配置加载失败: %v", err)
	}

	core := systems.NewEditCore(systems.EditCoreDeps{
		Config: editConfig,
		Level:  levelConfig,
		Logger: logger,
	})
	core.Start()

	fmt.Printf("关卡 %d: %s (%dx%d)\n", levelConfig.ID, levelConfig.Name, levelConfig.Columns, levelConfig.Rows)
	fmt.Printf("阶段: %s, 火焰: %d\n", core.State.Phase, len(core.Fires.Fires()))
	first := renderBoard(core.EntityManager, levelConfig)
	fmt.Print(first)
	if !printObjects(core) {
		fmt.Println("对象与所属格子坐标不一致")
		os.Exit(1)
	}

	if !*roundTrip {
		return
	}

	if !core.Phases.TryRun() {
		fmt.Println("无法进入运行阶段：网格上没有火焰")
		os.Exit(1)
	}
	core.Phases.RequestReset()

	second := renderBoard(core.EntityManager, levelConfig)
	if first != second {
		fmt.Println("往返后网格不一致:")
		fmt.Print(second)
		os.Exit(1)
	}
	fmt.Println("往返检查通过")
}

// renderBoard 按行输出网格，每格一个字符
func renderBoard(em *ecs.EntityManager, level *config.LevelConfig) string {
	cells := make(map[types.GridCoord]types.Item)
	for _, id := range ecs.GetEntitiesWith1[*components.PlacedObjectComponent](em) {
		obj, _ := ecs.GetComponent[*components.PlacedObjectComponent](em, id)
		cells[obj.Coord] = obj.Item
	}

	var b strings.Builder
	for y := 0; y < level.Rows; y++ {
		for x := 0; x < level.Columns; x++ {
			item, ok := cells[types.GridCoord{X: x, Y: y}]
			if !ok {
				b.WriteByte('.')
				continue
			}
			b.WriteByte(itemGlyph(item))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func itemGlyph(item types.Item) byte {
	switch item {
	case types.ItemBombSmall:
		return 's'
	case types.ItemBombMedium:
		return 'm'
	case types.ItemBombLarge:
		return 'L'
	case types.ItemBombHorizontal:
		return '-'
	case types.ItemBombVertical:
		return '|'
	default:
		return '?'
	}
}

// printObjects 列出放置对象及其父格子，返回父格子坐标是否全部一致
func printObjects(core *systems.EditCore) bool {
	consistent := true
	for _, id := range core.Objects.Objects() {
		obj, ok := ecs.GetComponent[*components.PlacedObjectComponent](core.EntityManager, id)
		if !ok {
			continue
		}
		parent, _ := core.EntityManager.Parent(id)
		tileCoord, ok := core.Grid.TileCoord(parent)
		if !ok || tileCoord != obj.Coord {
			consistent = false
		}
		fmt.Printf("  %s %-16s tile=%s\n", obj.Coord, obj.Item, tileCoord)
	}
	return consistent
}
