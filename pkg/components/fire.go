package components

import "github.com/decker502/bombgrid/pkg/types"

// FireComponent 火焰标记
// 编辑核心只关心"是否存在至少一个火焰"，作为进入运行阶段的前提
type FireComponent struct {
	Coord types.GridCoord
	// Preset 关卡预设火焰挂在格子上；玩家点燃的火焰挂在炸弹上，随炸弹一起销毁
	Preset bool
}
