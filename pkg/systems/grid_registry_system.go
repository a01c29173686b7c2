package systems

import (
	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap"
)

// GridRegistrySystem 网格格子注册表
// 格子在关卡构建时注册，之后只读；查询按坐标线性扫描
type GridRegistrySystem struct {
	entityManager *ecs.EntityManager
	logger        *zap.Logger
}

// NewGridRegistrySystem 创建网格注册表
func NewGridRegistrySystem(em *ecs.EntityManager, logger *zap.Logger) *GridRegistrySystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridRegistrySystem{
		entityManager: em,
		logger:        logger.Named("GridRegistry"),
	}
}

// RegisterTile 注册一个格子实体
// 同一坐标已注册时返回已有实体
func (s *GridRegistrySystem) RegisterTile(coord types.GridCoord) ecs.EntityID {
	if existing, ok := s.Lookup(coord); ok {
		s.logger.Debug("tile already registered", zap.Stringer("coord", coord))
		return existing
	}

	id := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(id, &components.GridTileComponent{Coord: coord})
	s.entityManager.AddComponent(id, &components.LevelScopedComponent{})
	return id
}

// Lookup 根据坐标查找格子实体
func (s *GridRegistrySystem) Lookup(coord types.GridCoord) (ecs.EntityID, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.GridTileComponent](s.entityManager) {
		tile, _ := ecs.GetComponent[*components.GridTileComponent](s.entityManager, id)
		if tile.Coord == coord {
			return id, true
		}
	}
	return 0, false
}

// Tiles 返回所有格子实体（按创建顺序）
func (s *GridRegistrySystem) Tiles() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.GridTileComponent](s.entityManager)
}

// TileCoord 返回格子实体的坐标
func (s *GridRegistrySystem) TileCoord(id ecs.EntityID) (types.GridCoord, bool) {
	tile, ok := ecs.GetComponent[*components.GridTileComponent](s.entityManager, id)
	if !ok {
		return types.GridCoord{}, false
	}
	return tile.Coord, true
}

// HitTest 返回屏幕坐标所在的格子（需要格子带有 ClickableComponent）
func (s *GridRegistrySystem) HitTest(x, y float64) (ecs.EntityID, types.GridCoord, bool) {
	for _, id := range ecs.GetEntitiesWith2[*components.GridTileComponent, *components.ClickableComponent](s.entityManager) {
		area, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)
		if !area.IsEnabled || !containsPoint(area, x, y) {
			continue
		}
		tile, _ := ecs.GetComponent[*components.GridTileComponent](s.entityManager, id)
		return id, tile.Coord, true
	}
	return 0, types.GridCoord{}, false
}

// containsPoint 点是否在可点击区域内（左上闭、右下开，相邻格子不会同时命中）
func containsPoint(area *components.ClickableComponent, x, y float64) bool {
	return x >= area.X && x < area.X+area.Width &&
		y >= area.Y && y < area.Y+area.Height
}
