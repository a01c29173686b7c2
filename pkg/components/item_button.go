package components

import "github.com/decker502/bombgrid/pkg/types"

// 物品按钮图集帧
const (
	ItemButtonAtlasHighlighted = 0 // 高亮（已选中）
	ItemButtonAtlasNormal      = 1 // 普通
)

// ItemButtonComponent 物品选择按钮
// AtlasIndex 由选择系统在选中项变化时整体重算
type ItemButtonComponent struct {
	Item       types.Item
	AtlasIndex int
}

// RunButtonComponent 标记"开始运行"按钮
type RunButtonComponent struct{}

// LevelScopedComponent 标记关卡作用域实体
// 关卡重新初始化（进入 Init 阶段）时统一销毁
type LevelScopedComponent struct{}
