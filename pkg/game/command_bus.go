package game

import (
	"errors"
	"fmt"

	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap"
)

// ErrCommandNotAllowed 命令在当前阶段不允许执行
var ErrCommandNotAllowed = errors.New("command not allowed in current phase")

// ErrInvalidItem 命令携带了未定义的物品
var ErrInvalidItem = errors.New("invalid item")

// CommandHandler 命令处理函数
// 返回的错误原样交给 Dispatch 的调用方
type CommandHandler func(cmd Command) error

type handlerEntry struct {
	fn            CommandHandler
	allowedPhases map[types.GamePhase]bool // nil 表示任意阶段
}

// CommandBus 命令总线
// 按命令类型注册处理函数，每个处理函数可限定允许的阶段
// 所有处理都在调用 Dispatch 的线程上同步完成
type CommandBus struct {
	handlers map[CommandType]*handlerEntry
	state    *EditState
	logger   *zap.Logger
}

// NewCommandBus 创建命令总线
func NewCommandBus(state *EditState, logger *zap.Logger) *CommandBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandBus{
		handlers: make(map[CommandType]*handlerEntry),
		state:    state,
		logger:   logger.Named("CommandBus"),
	}
}

// Register 注册命令处理函数
// phases 为空表示任意阶段都允许；同一类型重复注册会覆盖旧的处理函数
func (b *CommandBus) Register(t CommandType, phases []types.GamePhase, fn CommandHandler) {
	var allowed map[types.GamePhase]bool
	if len(phases) > 0 {
		allowed = make(map[types.GamePhase]bool, len(phases))
		for _, p := range phases {
			allowed[p] = true
		}
	}
	b.handlers[t] = &handlerEntry{fn: fn, allowedPhases: allowed}
}

// Registered 检查命令类型是否已注册
func (b *CommandBus) Registered(t CommandType) bool {
	_, ok := b.handlers[t]
	return ok
}

// Dispatch 分发命令
// 未注册的类型返回错误；阶段不允许时返回 ErrCommandNotAllowed；其余错误来自处理函数
func (b *CommandBus) Dispatch(cmd Command) error {
	t := cmd.Type()
	entry, ok := b.handlers[t]
	if !ok {
		b.logger.Warn("unknown command", zap.Stringer("type", t))
		return fmt.Errorf("no handler registered for command %s", t)
	}

	phase := b.state.Phase
	if entry.allowedPhases != nil && !entry.allowedPhases[phase] {
		b.logger.Debug("command rejected",
			zap.Stringer("type", t),
			zap.Stringer("phase", phase),
		)
		return fmt.Errorf("%s in phase %s: %w", t, phase, ErrCommandNotAllowed)
	}

	b.logger.Debug("dispatch", zap.Stringer("type", t), zap.Stringer("phase", phase))
	return entry.fn(cmd)
}
