package types

import "fmt"

// GamePhase 游戏阶段
type GamePhase int

const (
	// PhaseInit 关卡（重新）加载
	PhaseInit GamePhase = iota
	// PhaseEdit 编辑阶段：选择物品并放置到网格上
	PhaseEdit
	// PhaseRun 模拟运行阶段
	PhaseRun
)

func (p GamePhase) String() string {
	switch p {
	case PhaseInit:
		return "Init"
	case PhaseEdit:
		return "Edit"
	case PhaseRun:
		return "Run"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}
