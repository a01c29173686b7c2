package systems

import (
	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap"
)

// PlacementLoader 读取已保存布局
type PlacementLoader interface {
	Load(level types.LevelID) (game.CurrentPlacement, bool, error)
}

// LevelSystem 关卡初始化
//
// 进入 Init：清空关卡实体，设置激活关卡，按需填充放置存储，然后请求进入 Edit
// 进入 Edit：重建格子、按钮和预设火焰（必须先于选择重置和布局回放执行）
type LevelSystem struct {
	entityManager *ecs.EntityManager
	state         *game.EditState
	level         *config.LevelConfig
	layout        config.LayoutConfig
	grid          *GridRegistrySystem
	buttons       *ItemButtonSystem
	fires         *FireSystem
	phases        *PhaseSystem
	loader        PlacementLoader // 可为 nil
	logger        *zap.Logger
}

// NewLevelSystem 创建关卡系统
func NewLevelSystem(
	em *ecs.EntityManager,
	state *game.EditState,
	level *config.LevelConfig,
	cfg *config.EditConfig,
	grid *GridRegistrySystem,
	buttons *ItemButtonSystem,
	fires *FireSystem,
	phases *PhaseSystem,
	loader PlacementLoader,
	logger *zap.Logger,
) *LevelSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LevelSystem{
		entityManager: em,
		state:         state,
		level:         level,
		layout:        cfg.Layout,
		grid:          grid,
		buttons:       buttons,
		fires:         fires,
		phases:        phases,
		loader:        loader,
		logger:        logger.Named("LevelSystem"),
	}
}

// Level 当前关卡配置
func (s *LevelSystem) Level() *config.LevelConfig {
	return s.level
}

// OnInitEnter 进入 Init 阶段
func (s *LevelSystem) OnInitEnter(from, to types.GamePhase) {
	s.ClearBoard()
	s.state.ActiveLevel = s.level.ID
	s.PrepareStore()

	s.logger.Info("level initialized",
		zap.Uint("level", uint(s.level.ID)),
		zap.String("name", s.level.Name),
		zap.Int("columns", s.level.Columns),
		zap.Int("rows", s.level.Rows),
	)
	s.phases.SetPhase(types.PhaseEdit)
}

// OnEditEnter 进入 Edit 阶段
func (s *LevelSystem) OnEditEnter(from, to types.GamePhase) {
	s.BuildBoard()
}

// PrepareStore 放置存储不属于当前关卡时填充它
// 优先使用已保存布局，其次使用关卡预设
func (s *LevelSystem) PrepareStore() {
	if s.state.Placement.Matches(s.level.ID) {
		return
	}

	if s.loader != nil {
		saved, ok, err := s.loader.Load(s.level.ID)
		if err != nil {
			s.logger.Warn("failed to load saved placement", zap.Error(err))
		} else if ok {
			s.state.Placement = saved
			s.logger.Debug("saved placement loaded", zap.Int("entries", saved.Len()))
			return
		}
	}

	preset := make([]game.Placement, 0, len(s.level.Placements))
	for _, p := range s.level.Placements {
		preset = append(preset, game.Placement{Coord: p.Coord, Item: p.Item})
	}
	s.state.Placement = game.NewCurrentPlacement(s.level.ID, preset)
}

// BuildBoard 重建格子、按钮和预设火焰
func (s *LevelSystem) BuildBoard() {
	s.ClearBoard()

	l := s.layout
	for y := 0; y < s.level.Rows; y++ {
		for x := 0; x < s.level.Columns; x++ {
			coord := types.NewGridCoord(x, y)
			tile := s.grid.RegisterTile(coord)
			s.entityManager.AddComponent(tile, &components.ClickableComponent{
				X:         l.BoardX + float64(x)*l.CellSize,
				Y:         l.BoardY + float64(y)*l.CellSize,
				Width:     l.CellSize,
				Height:    l.CellSize,
				IsEnabled: true,
			})
		}
	}

	s.buttons.CreateButtons()

	for _, coord := range s.level.Fires {
		tile, ok := s.grid.Lookup(coord)
		if !ok {
			s.logger.Warn("preset fire outside grid", zap.Stringer("coord", coord))
			continue
		}
		s.fires.SpawnPresetFire(tile, coord)
	}
}

// ClearBoard 销毁所有关卡作用域实体
func (s *LevelSystem) ClearBoard() {
	for _, id := range ecs.GetEntitiesWith1[*components.LevelScopedComponent](s.entityManager) {
		s.entityManager.DestroyEntity(id)
	}
}
