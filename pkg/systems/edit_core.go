package systems

import (
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap"
)

// EditCore 编辑核心的全部系统及其连线
type EditCore struct {
	EntityManager *ecs.EntityManager
	State         *game.EditState
	Bus           *game.CommandBus

	Grid      *GridRegistrySystem
	Objects   *ObjectCreationSystem
	Selection *SelectionSystem
	Buttons   *ItemButtonSystem
	Placement *PlacementSystem
	Fires     *FireSystem
	Phases    *PhaseSystem
	Level     *LevelSystem
	Input     *EditInputSystem
}

// EditCoreDeps 编辑核心的外部依赖，除 Level 外都可为 nil
// Config 为 nil 时使用默认配置
type EditCoreDeps struct {
	Config     *config.EditConfig
	Level      *config.LevelConfig
	Sounds     game.SoundPlayer
	Repository *game.PlacementRepository
	Logger     *zap.Logger
}

// NewEditCore 创建并连接所有系统
//
// 进入 Edit 阶段的回调顺序：重建格子和按钮 -> 重置选择 -> 回放布局
// 离开 Edit 进入 Run 时对网格做快照
func NewEditCore(deps EditCoreDeps) *EditCore {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Config == nil {
		deps.Config = config.DefaultEditConfig()
	}

	em := ecs.NewEntityManager()
	state := game.NewEditState()
	bus := game.NewCommandBus(state, logger)

	var saver PlacementSaver
	var loader PlacementLoader
	if deps.Repository != nil {
		saver = deps.Repository
		loader = deps.Repository
	}

	c := &EditCore{
		EntityManager: em,
		State:         state,
		Bus:           bus,
	}
	c.Grid = NewGridRegistrySystem(em, logger)
	c.Objects = NewObjectCreationSystem(em, deps.Sounds, deps.Config, logger)
	c.Selection = NewSelectionSystem(em, state, logger)
	c.Buttons = NewItemButtonSystem(em, bus, deps.Config, logger)
	c.Placement = NewPlacementSystem(em, state, c.Grid, bus, saver, logger)
	c.Fires = NewFireSystem(em, c.Objects, deps.Config, logger)
	c.Phases = NewPhaseSystem(em, state, deps.Sounds, deps.Config, logger)
	c.Level = NewLevelSystem(em, state, deps.Level, deps.Config, c.Grid, c.Buttons, c.Fires, c.Phases, loader, logger)
	c.Input = NewEditInputSystem(state, bus, c.Buttons, c.Grid, logger)

	c.Objects.RegisterHandlers(bus)
	c.Selection.RegisterHandlers(bus)
	c.Phases.RegisterHandlers(bus)
	c.Fires.RegisterHandlers(bus)
	c.Buttons.SetRunHandler(func() { c.Phases.TryRunFromButton() })

	c.Phases.OnEnter(types.PhaseInit, c.Level.OnInitEnter)
	c.Phases.OnEnter(types.PhaseEdit, c.Level.OnEditEnter)
	c.Phases.OnEnter(types.PhaseEdit, func(from, to types.GamePhase) { c.Selection.Reset() })
	c.Phases.OnEnter(types.PhaseEdit, func(from, to types.GamePhase) { c.Placement.ApplyCurrentPlacement() })
	c.Phases.OnExit(types.PhaseEdit, func(from, to types.GamePhase) {
		if to == types.PhaseRun {
			c.Placement.CapturePlacement()
		}
	})
	// 离开编辑阶段时清空选择，按钮高亮随之复位
	c.Phases.OnExit(types.PhaseEdit, func(from, to types.GamePhase) { c.Selection.Reset() })

	return c
}

// Start 执行 Init 阶段初始化，完成后处于 Edit 阶段
func (c *EditCore) Start() {
	c.Phases.Start()
}

// Update 处理一帧输入
func (c *EditCore) Update(input Input) {
	c.Phases.Update(input)
	c.Input.Update(input)
}

// Shutdown 离开游戏场景：清空放置存储并销毁所有实体
func (c *EditCore) Shutdown() {
	c.Placement.ResetCurrentPlacement()
	c.EntityManager.DestroyAll()
}
