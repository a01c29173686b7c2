package systems

import (
	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap"
)

// ItemButtonSystem 物品按钮与运行按钮
//
// 按钮表在创建系统时由配置确定，之后每次进入编辑阶段按表重建按钮实体
// 所有按钮共用一个点击入口 HandleClick
type ItemButtonSystem struct {
	entityManager *ecs.EntityManager
	bus           *game.CommandBus
	items         []types.Item
	layout        config.LayoutConfig
	onRun         func()
	logger        *zap.Logger
}

// NewItemButtonSystem 创建按钮系统
func NewItemButtonSystem(em *ecs.EntityManager, bus *game.CommandBus, cfg *config.EditConfig, logger *zap.Logger) *ItemButtonSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	items := make([]types.Item, len(cfg.ItemButtons))
	copy(items, cfg.ItemButtons)
	return &ItemButtonSystem{
		entityManager: em,
		bus:           bus,
		items:         items,
		layout:        cfg.Layout,
		logger:        logger.Named("ItemButtons"),
	}
}

// SetRunHandler 设置运行按钮的点击回调
func (s *ItemButtonSystem) SetRunHandler(fn func()) {
	s.onRun = fn
}

// Items 返回按钮表
func (s *ItemButtonSystem) Items() []types.Item {
	items := make([]types.Item, len(s.items))
	copy(items, s.items)
	return items
}

// CreateButtons 按按钮表重建物品按钮和运行按钮
// 物品按钮纵向排列，初始为普通状态
func (s *ItemButtonSystem) CreateButtons() {
	s.DestroyButtons()

	l := s.layout
	for i, item := range s.items {
		id := s.entityManager.CreateEntity()
		s.entityManager.AddComponent(id, &components.ItemButtonComponent{
			Item:       item,
			AtlasIndex: components.ItemButtonAtlasNormal,
		})
		s.entityManager.AddComponent(id, &components.ClickableComponent{
			X:         l.ButtonX,
			Y:         l.ButtonY + float64(i)*(l.ButtonSize+l.ButtonGap),
			Width:     l.ButtonSize,
			Height:    l.ButtonSize,
			IsEnabled: true,
		})
		s.entityManager.AddComponent(id, &components.LevelScopedComponent{})
	}

	run := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(run, &components.RunButtonComponent{})
	s.entityManager.AddComponent(run, &components.ClickableComponent{
		X:         l.RunButtonX,
		Y:         l.RunButtonY,
		Width:     l.RunButtonW,
		Height:    l.RunButtonH,
		IsEnabled: true,
	})
	s.entityManager.AddComponent(run, &components.LevelScopedComponent{})

	s.logger.Debug("buttons created", zap.Int("items", len(s.items)))
}

// DestroyButtons 销毁所有按钮实体
func (s *ItemButtonSystem) DestroyButtons() {
	for _, id := range ecs.GetEntitiesWith1[*components.ItemButtonComponent](s.entityManager) {
		s.entityManager.DestroyEntity(id)
	}
	for _, id := range ecs.GetEntitiesWith1[*components.RunButtonComponent](s.entityManager) {
		s.entityManager.DestroyEntity(id)
	}
}

// HandleClick 处理屏幕坐标上的点击
// 命中物品按钮时分发 SelectItem，命中运行按钮时调用运行回调；返回是否命中按钮
func (s *ItemButtonSystem) HandleClick(x, y float64) bool {
	for _, id := range ecs.GetEntitiesWith2[*components.ItemButtonComponent, *components.ClickableComponent](s.entityManager) {
		area, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)
		if !area.IsEnabled || !containsPoint(area, x, y) {
			continue
		}
		button, _ := ecs.GetComponent[*components.ItemButtonComponent](s.entityManager, id)
		if err := s.bus.Dispatch(game.SelectItemCommand{Item: button.Item}); err != nil {
			s.logger.Warn("select item failed", zap.Error(err))
		}
		return true
	}

	for _, id := range ecs.GetEntitiesWith2[*components.RunButtonComponent, *components.ClickableComponent](s.entityManager) {
		area, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)
		if !area.IsEnabled || !containsPoint(area, x, y) {
			continue
		}
		if s.onRun != nil {
			s.onRun()
		}
		return true
	}

	return false
}
