package systems

import (
	"fmt"

	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap"
)

// ObjectCreationSystem 网格内容的唯一修改入口
//
// 每次创建都先移除目标坐标上的已有对象，因此任意时刻每个坐标最多一个对象
type ObjectCreationSystem struct {
	entityManager *ecs.EntityManager
	sounds        game.SoundPlayer // 可为 nil
	soundConfig   config.SoundConfig
	objectConfig  config.ObjectConfig
	logger        *zap.Logger
}

// NewObjectCreationSystem 创建对象创建系统
func NewObjectCreationSystem(em *ecs.EntityManager, sounds game.SoundPlayer, cfg *config.EditConfig, logger *zap.Logger) *ObjectCreationSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectCreationSystem{
		entityManager: em,
		sounds:        sounds,
		soundConfig:   cfg.Sounds,
		objectConfig:  cfg.Object,
		logger:        logger.Named("ObjectCreation"),
	}
}

// RegisterHandlers 注册 CreateObject 命令
// 布局回放和玩家点击都经由此命令，任何阶段都允许
func (s *ObjectCreationSystem) RegisterHandlers(bus *game.CommandBus) {
	bus.Register(game.CommandCreateObject, nil, func(cmd game.Command) error {
		create := cmd.(game.CreateObjectCommand)
		if !create.Item.IsValid() {
			return fmt.Errorf("create object at %s: %w: %s", create.Coord, game.ErrInvalidItem, create.Item)
		}
		s.CreateObject(create)
		return nil
	})
}

// CreateObject 在格子上创建对象
//
// 处理流程：
//  1. 移除该坐标上的已有对象（连同其子实体）
//  2. 橡皮擦：按需播放擦除音效后返回
//  3. 其他物品：作为 ParentGrid 的子实体创建对象，按需播放放置音效
//
// ParentGrid 已失效时对象仍会被创建，只是没有父实体
// 未定义的物品被忽略，网格不变
func (s *ObjectCreationSystem) CreateObject(cmd game.CreateObjectCommand) {
	if !cmd.Item.IsValid() {
		s.logger.Warn("ignoring invalid item", zap.Stringer("coord", cmd.Coord), zap.Stringer("item", cmd.Item))
		return
	}

	removed := s.removeObjectsAt(cmd.Coord)

	if cmd.Item.IsEraser() {
		s.logger.Debug("erase", zap.Stringer("coord", cmd.Coord), zap.Int("removed", removed))
		if cmd.WithSound {
			s.playSound(s.soundConfig.Erase)
		}
		return
	}

	id := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(id, &components.PlacedObjectComponent{
		Coord: cmd.Coord,
		Item:  cmd.Item,
		State: components.ItemStateNone,
		Grid:  cmd.ParentGrid,
	})
	s.entityManager.AddComponent(id, &components.SpriteComponent{
		AtlasIndex: cmd.Item.VisualIndex(),
		Z:          s.objectConfig.Depth,
		Scale:      s.objectConfig.Scale,
	})
	s.entityManager.AddComponent(id, &components.LevelScopedComponent{})

	if !s.entityManager.SetParent(id, cmd.ParentGrid) {
		s.logger.Debug("parent grid not alive", zap.Stringer("coord", cmd.Coord))
	}

	s.logger.Debug("object created",
		zap.Stringer("coord", cmd.Coord),
		zap.Stringer("item", cmd.Item),
		zap.Int("replaced", removed),
	)

	if cmd.WithSound {
		s.playSound(s.soundConfig.Place)
	}
}

// ObjectAt 返回坐标上的放置对象
func (s *ObjectCreationSystem) ObjectAt(coord types.GridCoord) (ecs.EntityID, bool) {
	for _, id := range s.Objects() {
		obj, _ := ecs.GetComponent[*components.PlacedObjectComponent](s.entityManager, id)
		if obj.Coord == coord {
			return id, true
		}
	}
	return 0, false
}

// Objects 返回所有放置对象
func (s *ObjectCreationSystem) Objects() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.PlacedObjectComponent](s.entityManager)
}

// removeObjectsAt 移除坐标上的所有放置对象，返回移除数量
func (s *ObjectCreationSystem) removeObjectsAt(coord types.GridCoord) int {
	removed := 0
	for _, id := range s.Objects() {
		obj, _ := ecs.GetComponent[*components.PlacedObjectComponent](s.entityManager, id)
		if obj.Coord == coord {
			s.entityManager.DestroyEntity(id)
			removed++
		}
	}
	return removed
}

func (s *ObjectCreationSystem) playSound(soundID string) {
	if s.sounds == nil || soundID == "" {
		return
	}
	s.sounds.PlaySound(soundID)
}
