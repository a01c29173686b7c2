package types

import "math"

// LevelID 关卡编号（非负整数）
type LevelID uint

// InvalidLevelID 无效关卡编号哨兵值，不会与任何真实关卡编号冲突
const InvalidLevelID = LevelID(math.MaxUint)

// IsValid 是否为真实关卡编号
func (l LevelID) IsValid() bool {
	return l != InvalidLevelID
}
