package types

import "fmt"

// GridCoord 网格坐标（格子地址）
// 值类型，可直接用 == 比较
type GridCoord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// NewGridCoord 创建网格坐标
func NewGridCoord(x, y int) GridCoord {
	return GridCoord{X: x, Y: y}
}

// String 返回 "(x, y)" 形式的坐标
func (c GridCoord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Less 行优先排序（先 Y 后 X）
func (c GridCoord) Less(other GridCoord) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}
