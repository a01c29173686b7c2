package systems

import (
	"fmt"

	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// PhaseHook 阶段切换回调
type PhaseHook func(from, to types.GamePhase)

// KeyboardInput 键盘输入
type KeyboardInput interface {
	IsKeyJustPressed(key ebiten.Key) bool
}

// PhaseSystem 阶段控制器
//
// 阶段流转：
//   - Init -> Edit: 关卡初始化完成后由 LevelSystem 请求
//   - Edit -> Init: 重置键
//   - Edit -> Run: 运行键或运行按钮，且至少存在一个火焰
//
// 回调按注册顺序执行；回调内请求的切换会排队，在当前切换完成后依次执行
type PhaseSystem struct {
	entityManager *ecs.EntityManager
	state         *game.EditState
	sounds        game.SoundPlayer
	startSound    string
	keys          config.KeyBindings

	enterHooks map[types.GamePhase][]PhaseHook
	exitHooks  map[types.GamePhase][]PhaseHook

	transitioning bool
	pending       []types.GamePhase

	logger *zap.Logger
}

// NewPhaseSystem 创建阶段控制器
func NewPhaseSystem(em *ecs.EntityManager, state *game.EditState, sounds game.SoundPlayer, cfg *config.EditConfig, logger *zap.Logger) *PhaseSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhaseSystem{
		entityManager: em,
		state:         state,
		sounds:        sounds,
		startSound:    cfg.Sounds.Start,
		keys:          cfg.Keys,
		enterHooks:    make(map[types.GamePhase][]PhaseHook),
		exitHooks:     make(map[types.GamePhase][]PhaseHook),
		logger:        logger.Named("PhaseController"),
	}
}

// RegisterHandlers 注册 SetPhase 命令
// 命令经由 RequestPhase，与键盘和按钮遵守同样的切换规则
func (s *PhaseSystem) RegisterHandlers(bus *game.CommandBus) {
	bus.Register(game.CommandSetPhase, nil, func(cmd game.Command) error {
		return s.RequestPhase(cmd.(game.SetPhaseCommand).Phase)
	})
}

// RequestPhase 按切换规则请求阶段
//
//   - Run: 仅编辑阶段且存在火焰时（同 TryRun）
//   - Init: 编辑或运行阶段（同 RequestReset）
//   - Edit: 仅从 Init 进入（关卡初始化完成）
//
// 不合法的请求返回 game.ErrCommandNotAllowed，阶段不变
func (s *PhaseSystem) RequestPhase(phase types.GamePhase) error {
	from := s.state.Phase
	var ok bool
	switch phase {
	case types.PhaseRun:
		ok = s.TryRun()
	case types.PhaseInit:
		ok = s.RequestReset()
	case types.PhaseEdit:
		if from == types.PhaseInit {
			s.SetPhase(types.PhaseEdit)
			ok = true
		}
	}
	if !ok {
		s.logger.Debug("phase request rejected", zap.Stringer("from", from), zap.Stringer("to", phase))
		return fmt.Errorf("%s -> %s: %w", from, phase, game.ErrCommandNotAllowed)
	}
	return nil
}

// OnEnter 注册进入阶段的回调
func (s *PhaseSystem) OnEnter(phase types.GamePhase, hook PhaseHook) {
	s.enterHooks[phase] = append(s.enterHooks[phase], hook)
}

// OnExit 注册离开阶段的回调
func (s *PhaseSystem) OnExit(phase types.GamePhase, hook PhaseHook) {
	s.exitHooks[phase] = append(s.exitHooks[phase], hook)
}

// Phase 当前阶段
func (s *PhaseSystem) Phase() types.GamePhase {
	return s.state.Phase
}

// Start 执行当前阶段的进入回调（场景创建后调用一次）
func (s *PhaseSystem) Start() {
	current := s.state.Phase
	s.transitioning = true
	s.runHooks(s.enterHooks[current], current, current)
	s.transitioning = false
	s.drain()
}

// SetPhase 切换阶段，不检查切换规则
// 供关卡初始化等内部流程使用；外部请求走 RequestPhase
// 目标与当前阶段相同时不做任何事
func (s *PhaseSystem) SetPhase(phase types.GamePhase) {
	if s.transitioning {
		s.pending = append(s.pending, phase)
		return
	}
	s.transition(phase)
	s.drain()
}

func (s *PhaseSystem) drain() {
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.transition(next)
	}
}

func (s *PhaseSystem) transition(to types.GamePhase) {
	from := s.state.Phase
	if from == to {
		s.logger.Debug("phase unchanged", zap.Stringer("phase", to))
		return
	}

	s.transitioning = true
	defer func() { s.transitioning = false }()

	s.runHooks(s.exitHooks[from], from, to)
	s.state.Phase = to
	s.logger.Info("phase changed", zap.Stringer("from", from), zap.Stringer("to", to))
	s.runHooks(s.enterHooks[to], from, to)
}

func (s *PhaseSystem) runHooks(hooks []PhaseHook, from, to types.GamePhase) {
	for _, hook := range hooks {
		hook(from, to)
	}
}

// HasFireMarker 是否存在至少一个火焰
func (s *PhaseSystem) HasFireMarker() bool {
	return len(ecs.GetEntitiesWith1[*components.FireComponent](s.entityManager)) > 0
}

// TryRun 尝试进入运行阶段
// 不在编辑阶段或没有火焰时静默返回 false
func (s *PhaseSystem) TryRun() bool {
	if s.state.Phase != types.PhaseEdit {
		return false
	}
	if !s.HasFireMarker() {
		s.logger.Debug("run ignored, no fire marker")
		return false
	}
	s.SetPhase(types.PhaseRun)
	return true
}

// TryRunFromButton 运行按钮回调，非编辑阶段的点击被忽略
func (s *PhaseSystem) TryRunFromButton() bool {
	return s.TryRun()
}

// RequestReset 回到 Init 阶段，重新初始化关卡
// 编辑阶段和运行阶段都可以重置
func (s *PhaseSystem) RequestReset() bool {
	switch s.state.Phase {
	case types.PhaseEdit, types.PhaseRun:
		s.SetPhase(types.PhaseInit)
		return true
	default:
		return false
	}
}

// Update 轮询键盘
// 编辑阶段：重置键回到 Init；运行键播放开始音效并尝试运行
// 运行阶段：重置键结束运行
func (s *PhaseSystem) Update(input KeyboardInput) {
	switch s.state.Phase {
	case types.PhaseEdit:
		if input.IsKeyJustPressed(s.keys.ResetKey) {
			s.RequestReset()
			return
		}
		if input.IsKeyJustPressed(s.keys.RunKey) {
			if s.sounds != nil && s.startSound != "" {
				s.sounds.PlaySound(s.startSound)
			}
			s.TryRun()
		}
	case types.PhaseRun:
		if input.IsKeyJustPressed(s.keys.ResetKey) {
			s.RequestReset()
		}
	}
}
