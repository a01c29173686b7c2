package components

import "github.com/decker502/bombgrid/pkg/types"

// GridTileComponent 标识网格格子实体
// 格子实体是放置对象的父实体，坐标在关卡初始化时注册后不再改变
type GridTileComponent struct {
	Coord types.GridCoord
}
