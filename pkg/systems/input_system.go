package systems

import (
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// PointerInput 鼠标/触摸输入
type PointerInput interface {
	// JustClicked 返回本帧刚按下的位置
	JustClicked(button ebiten.MouseButton) (x, y float64, ok bool)
}

// Input 编辑阶段需要的全部输入
type Input interface {
	KeyboardInput
	PointerInput
}

// EbitenInput 基于 inpututil 的输入实现
// 触摸按下视为鼠标左键
type EbitenInput struct{}

// IsKeyJustPressed 按键本帧是否刚按下
func (EbitenInput) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// JustClicked 返回本帧刚按下的位置
func (EbitenInput) JustClicked(button ebiten.MouseButton) (float64, float64, bool) {
	if inpututil.IsMouseButtonJustPressed(button) {
		x, y := ebiten.CursorPosition()
		return float64(x), float64(y), true
	}
	if button == ebiten.MouseButtonLeft {
		if touches := inpututil.AppendJustPressedTouchIDs(nil); len(touches) > 0 {
			x, y := ebiten.TouchPosition(touches[0])
			return float64(x), float64(y), true
		}
	}
	return 0, 0, false
}

// EditInputSystem 处理编辑阶段的点击
//
//   - 左键：先检测按钮；未命中按钮且有选中物品时在格子上创建对象
//   - 右键：启用火焰时在炸弹上放置/移除火焰
type EditInputSystem struct {
	state   *game.EditState
	bus     *game.CommandBus
	buttons *ItemButtonSystem
	grid    *GridRegistrySystem
	logger  *zap.Logger
}

// NewEditInputSystem 创建编辑输入系统
func NewEditInputSystem(state *game.EditState, bus *game.CommandBus, buttons *ItemButtonSystem, grid *GridRegistrySystem, logger *zap.Logger) *EditInputSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditInputSystem{
		state:   state,
		bus:     bus,
		buttons: buttons,
		grid:    grid,
		logger:  logger.Named("EditInput"),
	}
}

// Update 轮询鼠标
func (s *EditInputSystem) Update(input PointerInput) {
	if x, y, ok := input.JustClicked(ebiten.MouseButtonLeft); ok {
		s.HandlePrimaryClick(x, y)
	}
	if x, y, ok := input.JustClicked(ebiten.MouseButtonRight); ok {
		s.HandleSecondaryClick(x, y)
	}
}

// HandlePrimaryClick 处理左键点击
func (s *EditInputSystem) HandlePrimaryClick(x, y float64) {
	if s.buttons.HandleClick(x, y) {
		return
	}
	if s.state.Phase != types.PhaseEdit {
		return
	}

	item, ok := s.state.SelectedItem()
	if !ok {
		return
	}

	tile, coord, hit := s.grid.HitTest(x, y)
	if !hit {
		return
	}

	if err := s.bus.Dispatch(game.NewCreateObject(tile, coord, item)); err != nil {
		s.logger.Warn("create object failed", zap.Error(err))
	}
}

// HandleSecondaryClick 处理右键点击
func (s *EditInputSystem) HandleSecondaryClick(x, y float64) {
	if s.state.Phase != types.PhaseEdit || !s.bus.Registered(game.CommandCreateFire) {
		return
	}

	_, coord, hit := s.grid.HitTest(x, y)
	if !hit {
		return
	}

	if err := s.bus.Dispatch(game.CreateFireCommand{Coord: coord}); err != nil {
		s.logger.Debug("create fire rejected", zap.Error(err))
	}
}
