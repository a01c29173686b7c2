package game

import "github.com/decker502/bombgrid/pkg/types"

// Placement 单条放置记录
type Placement struct {
	Coord types.GridCoord `yaml:"coord"`
	Item  types.Item      `yaml:"item"`
}

// CurrentPlacement 当前关卡的放置存储
// 只有 Level 等于当前激活关卡时才有效；Level 为 types.InvalidLevelID 时表示已失效
//
// 存储在阶段切换（Edit -> Init -> Edit）之间保留，重新进入 Edit 时按顺序回放
type CurrentPlacement struct {
	Level      types.LevelID `yaml:"level"`
	Placements []Placement   `yaml:"placements"`
}

// NewCurrentPlacement 创建放置存储，placements 会被复制
func NewCurrentPlacement(level types.LevelID, placements []Placement) CurrentPlacement {
	p := CurrentPlacement{Level: level}
	p.Placements = append(p.Placements, placements...)
	return p
}

// EmptyPlacement 返回已失效的空存储
func EmptyPlacement() CurrentPlacement {
	return CurrentPlacement{Level: types.InvalidLevelID}
}

// Matches 存储是否属于指定关卡
// 失效存储与任何关卡都不匹配
func (p *CurrentPlacement) Matches(level types.LevelID) bool {
	return p.Level.IsValid() && p.Level == level
}

// Set 替换存储内容
func (p *CurrentPlacement) Set(level types.LevelID, placements []Placement) {
	p.Level = level
	p.Placements = append(p.Placements[:0], placements...)
}

// Reset 清空记录并将关卡置为无效值
func (p *CurrentPlacement) Reset() {
	p.Placements = p.Placements[:0]
	p.Level = types.InvalidLevelID
}

// Entries 返回记录副本（按回放顺序）
func (p *CurrentPlacement) Entries() []Placement {
	entries := make([]Placement, len(p.Placements))
	copy(entries, p.Placements)
	return entries
}

// Len 记录条数
func (p *CurrentPlacement) Len() int {
	return len(p.Placements)
}
