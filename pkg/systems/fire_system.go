package systems

import (
	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap"
)

// FireSystem 火焰标记
//
// 两种来源：
//   - 关卡预设火焰，挂在格子上
//   - 玩家在编辑阶段点燃的火焰（需 fire.enabled），挂在炸弹上，同一时间最多一个
type FireSystem struct {
	entityManager *ecs.EntityManager
	objects       *ObjectCreationSystem
	config        config.FireConfig
	logger        *zap.Logger
}

// NewFireSystem 创建火焰系统
func NewFireSystem(em *ecs.EntityManager, objects *ObjectCreationSystem, cfg *config.EditConfig, logger *zap.Logger) *FireSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FireSystem{
		entityManager: em,
		objects:       objects,
		config:        cfg.Fire,
		logger:        logger.Named("FireSystem"),
	}
}

// Enabled 是否允许玩家点燃炸弹
func (s *FireSystem) Enabled() bool {
	return s.config.Enabled
}

// RegisterHandlers 注册 CreateFire 命令（仅编辑阶段）
// 未启用时不注册，命令会被总线拒绝
func (s *FireSystem) RegisterHandlers(bus *game.CommandBus) {
	if !s.config.Enabled {
		return
	}
	bus.Register(game.CommandCreateFire, []types.GamePhase{types.PhaseEdit}, func(cmd game.Command) error {
		s.TryCreateSingleFire(cmd.(game.CreateFireCommand).Coord)
		return nil
	})
}

// TryCreateSingleFire 在炸弹上放置或移除火焰
//
//   - 坐标上没有炸弹：不做任何事
//   - 已有玩家火焰：先移除；若就在该坐标则到此为止（切换）
//   - 否则在该炸弹上放置新的火焰
func (s *FireSystem) TryCreateSingleFire(coord types.GridCoord) {
	bomb, ok := s.bombAt(coord)
	if !ok {
		return
	}

	if existing, existingCoord, found := s.playerFire(); found {
		s.entityManager.DestroyEntity(existing)
		if existingCoord == coord {
			s.logger.Debug("fire removed", zap.Stringer("coord", coord))
			return
		}
	}

	s.spawn(bomb, coord, false)
	s.logger.Debug("fire placed", zap.Stringer("coord", coord))
}

// SpawnPresetFire 在格子上放置关卡预设火焰
func (s *FireSystem) SpawnPresetFire(tile ecs.EntityID, coord types.GridCoord) ecs.EntityID {
	return s.spawn(tile, coord, true)
}

// Fires 返回所有火焰
func (s *FireSystem) Fires() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.FireComponent](s.entityManager)
}

func (s *FireSystem) spawn(parent ecs.EntityID, coord types.GridCoord, preset bool) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(id, &components.FireComponent{Coord: coord, Preset: preset})
	s.entityManager.AddComponent(id, &components.SpriteComponent{
		AtlasIndex: s.config.VisualIndex,
		Z:          s.config.Depth,
		Scale:      1,
	})
	s.entityManager.AddComponent(id, &components.LevelScopedComponent{})
	s.entityManager.SetParent(id, parent)
	return id
}

func (s *FireSystem) bombAt(coord types.GridCoord) (ecs.EntityID, bool) {
	id, ok := s.objects.ObjectAt(coord)
	if !ok {
		return 0, false
	}
	obj, _ := ecs.GetComponent[*components.PlacedObjectComponent](s.entityManager, id)
	return id, obj.Item.IsBomb()
}

// playerFire 返回唯一的玩家火焰
func (s *FireSystem) playerFire() (ecs.EntityID, types.GridCoord, bool) {
	for _, id := range s.Fires() {
		fire, _ := ecs.GetComponent[*components.FireComponent](s.entityManager, id)
		if !fire.Preset {
			return id, fire.Coord, true
		}
	}
	return 0, types.GridCoord{}, false
}
