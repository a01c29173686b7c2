package systems

import (
	"sort"

	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"go.uber.org/zap"
)

// PlacementSaver 布局持久化接口
type PlacementSaver interface {
	Save(p game.CurrentPlacement) error
}

// PlacementSystem 放置存储的回放、重置和快照
type PlacementSystem struct {
	entityManager *ecs.EntityManager
	state         *game.EditState
	grid          *GridRegistrySystem
	bus           *game.CommandBus
	saver         PlacementSaver // 可为 nil
	logger        *zap.Logger
}

// NewPlacementSystem 创建放置系统
func NewPlacementSystem(em *ecs.EntityManager, state *game.EditState, grid *GridRegistrySystem, bus *game.CommandBus, saver PlacementSaver, logger *zap.Logger) *PlacementSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementSystem{
		entityManager: em,
		state:         state,
		grid:          grid,
		bus:           bus,
		saver:         saver,
		logger:        logger.Named("PlacementSystem"),
	}
}

// ApplyCurrentPlacement 回放放置存储
// 存储不属于当前关卡时不做任何事；找不到格子的记录记录警告后跳过
// 回放不播放音效
func (s *PlacementSystem) ApplyCurrentPlacement() {
	p := &s.state.Placement
	if !p.Matches(s.state.ActiveLevel) {
		s.logger.Debug("placement not applied, level mismatch",
			zap.Uint("stored", uint(p.Level)),
			zap.Uint("active", uint(s.state.ActiveLevel)),
		)
		return
	}

	applied := 0
	for _, entry := range p.Entries() {
		tile, ok := s.grid.Lookup(entry.Coord)
		if !ok {
			s.logger.Warn("no grid tile found for coord", zap.Stringer("coord", entry.Coord))
			continue
		}
		cmd := game.NewCreateObject(tile, entry.Coord, entry.Item).WithoutSound()
		if err := s.bus.Dispatch(cmd); err != nil {
			s.logger.Warn("replay dispatch failed", zap.Stringer("coord", entry.Coord), zap.Error(err))
			continue
		}
		applied++
	}

	s.logger.Info("placement applied", zap.Uint("level", uint(p.Level)), zap.Int("entries", applied))
}

// ResetCurrentPlacement 清空放置存储并使其失效
func (s *PlacementSystem) ResetCurrentPlacement() {
	s.state.Placement.Reset()
	s.logger.Debug("placement reset")
}

// CapturePlacement 将当前网格上的对象写入放置存储并持久化
// 记录按坐标排序（先行后列）
func (s *PlacementSystem) CapturePlacement() game.CurrentPlacement {
	ids := ecs.GetEntitiesWith1[*components.PlacedObjectComponent](s.entityManager)
	placements := make([]game.Placement, 0, len(ids))
	for _, id := range ids {
		obj, _ := ecs.GetComponent[*components.PlacedObjectComponent](s.entityManager, id)
		placements = append(placements, game.Placement{Coord: obj.Coord, Item: obj.Item})
	}
	sort.Slice(placements, func(i, j int) bool {
		return placements[i].Coord.Less(placements[j].Coord)
	})

	s.state.Placement.Set(s.state.ActiveLevel, placements)

	if s.saver != nil {
		if err := s.saver.Save(s.state.Placement); err != nil {
			s.logger.Warn("failed to save placement", zap.Error(err))
		}
	}

	s.logger.Info("placement captured",
		zap.Uint("level", uint(s.state.ActiveLevel)),
		zap.Int("entries", len(placements)),
	)
	return game.NewCurrentPlacement(s.state.Placement.Level, s.state.Placement.Placements)
}
