package game

import (
	"fmt"

	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/types"
)

// CommandType 命令类型
type CommandType int

const (
	CommandCreateObject CommandType = iota // 创建/擦除格子上的对象
	CommandSelectItem                      // 选择物品
	CommandSetPhase                        // 切换阶段
	CommandCreateFire                      // 点燃炸弹（默认关闭）
)

func (t CommandType) String() string {
	switch t {
	case CommandCreateObject:
		return "CreateObject"
	case CommandSelectItem:
		return "SelectItem"
	case CommandSetPhase:
		return "SetPhase"
	case CommandCreateFire:
		return "CreateFire"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Command 命令接口
type Command interface {
	Type() CommandType
}

// CreateObjectCommand 在格子上创建对象
// Item 为橡皮擦时只移除已有对象
type CreateObjectCommand struct {
	ParentGrid ecs.EntityID
	Coord      types.GridCoord
	Item       types.Item
	WithSound  bool
}

// NewCreateObject 创建命令，默认播放音效
func NewCreateObject(parentGrid ecs.EntityID, coord types.GridCoord, item types.Item) CreateObjectCommand {
	return CreateObjectCommand{
		ParentGrid: parentGrid,
		Coord:      coord,
		Item:       item,
		WithSound:  true,
	}
}

// WithoutSound 返回不播放音效的副本（布局回放使用）
func (c CreateObjectCommand) WithoutSound() CreateObjectCommand {
	c.WithSound = false
	return c
}

func (CreateObjectCommand) Type() CommandType { return CommandCreateObject }

// SelectItemCommand 选择物品（再次选择同一物品则取消选择）
type SelectItemCommand struct {
	Item types.Item
}

func (SelectItemCommand) Type() CommandType { return CommandSelectItem }

// SetPhaseCommand 请求切换阶段
type SetPhaseCommand struct {
	Phase types.GamePhase
}

func (SetPhaseCommand) Type() CommandType { return CommandSetPhase }

// CreateFireCommand 在炸弹上放置/移除火焰
type CreateFireCommand struct {
	Coord types.GridCoord
}

func (CreateFireCommand) Type() CommandType { return CommandCreateFire }
