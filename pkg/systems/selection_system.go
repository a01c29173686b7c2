package systems

import (
	"fmt"

	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap"
)

// SelectionSystem 管理当前选中的物品
// 选中项变化时重算所有物品按钮的高亮状态
type SelectionSystem struct {
	entityManager *ecs.EntityManager
	state         *game.EditState
	logger        *zap.Logger
}

// NewSelectionSystem 创建选择系统
func NewSelectionSystem(em *ecs.EntityManager, state *game.EditState, logger *zap.Logger) *SelectionSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionSystem{
		entityManager: em,
		state:         state,
		logger:        logger.Named("Selection"),
	}
}

// RegisterHandlers 注册 SelectItem 命令
// 任何阶段都接受，非编辑阶段的选择会被清空
func (s *SelectionSystem) RegisterHandlers(bus *game.CommandBus) {
	bus.Register(game.CommandSelectItem, nil, func(cmd game.Command) error {
		item := cmd.(game.SelectItemCommand).Item
		if !item.IsValid() {
			return fmt.Errorf("select %s: %w", item, game.ErrInvalidItem)
		}
		s.SelectItem(item)
		return nil
	})
}

// SelectItem 选择物品
// 再次选择当前物品或不在编辑阶段时清空选择；未定义的物品被忽略
func (s *SelectionSystem) SelectItem(candidate types.Item) {
	if !candidate.IsValid() {
		s.logger.Warn("ignoring invalid item", zap.Stringer("item", candidate))
		return
	}

	var changed bool
	if s.state.Phase != types.PhaseEdit || s.state.IsSelected(candidate) {
		changed = s.state.ClearSelection()
	} else {
		changed = s.state.SetSelectedItem(candidate, true)
	}

	if !changed {
		return
	}

	if item, ok := s.state.SelectedItem(); ok {
		s.logger.Debug("item selected", zap.Stringer("item", item))
	} else {
		s.logger.Debug("selection cleared")
	}
	s.RefreshHighlights()
}

// Reset 清空选择（进入编辑阶段时调用）
func (s *SelectionSystem) Reset() {
	s.state.ClearSelection()
	s.RefreshHighlights()
}

// RefreshHighlights 重算所有物品按钮的图集帧
func (s *SelectionSystem) RefreshHighlights() {
	for _, id := range ecs.GetEntitiesWith1[*components.ItemButtonComponent](s.entityManager) {
		button, _ := ecs.GetComponent[*components.ItemButtonComponent](s.entityManager, id)
		if s.state.IsSelected(button.Item) {
			button.AtlasIndex = components.ItemButtonAtlasHighlighted
		} else {
			button.AtlasIndex = components.ItemButtonAtlasNormal
		}
	}
}
