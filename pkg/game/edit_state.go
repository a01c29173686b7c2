package game

import "github.com/decker502/bombgrid/pkg/types"

// EditState 编辑核心的共享状态
// 每个场景（或每个测试）单独创建一份，以指针在系统间传递
//
// 写入约定：
//   - Phase 只由 PhaseSystem 修改
//   - 选中物品只由 SelectionSystem 修改
//   - Placement 只由 PlacementSystem 和 LevelSystem 修改
type EditState struct {
	Phase       types.GamePhase
	ActiveLevel types.LevelID
	Placement   CurrentPlacement

	selectedItem types.Item
	hasSelection bool
}

// NewEditState 创建初始状态：Init 阶段，无激活关卡，无选中物品
func NewEditState() *EditState {
	return &EditState{
		Phase:       types.PhaseInit,
		ActiveLevel: types.InvalidLevelID,
		Placement:   EmptyPlacement(),
	}
}

// SelectedItem 返回当前选中的物品
func (s *EditState) SelectedItem() (types.Item, bool) {
	return s.selectedItem, s.hasSelection
}

// IsSelected 指定物品是否为当前选中物品
func (s *EditState) IsSelected(item types.Item) bool {
	return s.hasSelection && s.selectedItem == item
}

// SetSelectedItem 设置选中物品，ok 为 false 表示清空选择
// 返回值表示选择是否发生了变化
func (s *EditState) SetSelectedItem(item types.Item, ok bool) bool {
	if !ok {
		item = 0
	}
	if s.hasSelection == ok && s.selectedItem == item {
		return false
	}
	s.selectedItem = item
	s.hasSelection = ok
	return true
}

// ClearSelection 清空选择，返回选择是否发生了变化
func (s *EditState) ClearSelection() bool {
	return s.SetSelectedItem(0, false)
}
