package components

import (
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/types"
)

// ItemState 放置对象的瞬态状态
// 编辑阶段始终为 ItemStateNone，其余状态由模拟系统驱动
type ItemState int

const (
	// ItemStateNone 未激活
	ItemStateNone ItemState = iota
	// ItemStateIgnited 已点燃，等待引爆
	ItemStateIgnited
	// ItemStateExploded 已爆炸
	ItemStateExploded
)

// PlacedObjectComponent 放置在网格上的物品对象
//
// 不变量：
//   - 同一坐标最多只有一个放置对象
//   - Item 永远不会是 types.ItemEraser
type PlacedObjectComponent struct {
	// Coord 所在格子坐标，创建后不可修改
	Coord types.GridCoord
	// Item 物品类型
	Item types.Item
	// State 瞬态状态
	State ItemState
	// Grid 所属格子实体（同时也是 ECS 层级中的父实体）
	Grid ecs.EntityID
}
