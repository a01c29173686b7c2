// Package types 定义共享的基础类型
package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Item 定义可放置的物品类型
// 数值编码与表现层一致，同时也是精灵图集中的帧索引
type Item uint8

const (
	ItemBombSmall      Item = 0 // 小炸弹
	ItemBombMedium     Item = 1 // 中炸弹
	ItemBombLarge      Item = 2 // 大炸弹（保留槽位，默认按钮表中未启用）
	ItemBombHorizontal Item = 3 // 横向炸弹
	ItemBombVertical   Item = 4 // 纵向炸弹

	// ItemEraser 橡皮擦，伪物品
	// 永远不会作为放置对象存在，只表示"移除该格子上的对象"
	ItemEraser Item = 255
)

// itemNames 物品名称表（用于配置文件和日志）
var itemNames = map[Item]string{
	ItemBombSmall:      "bomb_small",
	ItemBombMedium:     "bomb_medium",
	ItemBombLarge:      "bomb_large",
	ItemBombHorizontal: "bomb_horizontal",
	ItemBombVertical:   "bomb_vertical",
	ItemEraser:         "eraser",
}

// AllItems 返回所有合法物品（按数值升序，橡皮擦在最后）
func AllItems() []Item {
	return []Item{
		ItemBombSmall,
		ItemBombMedium,
		ItemBombLarge,
		ItemBombHorizontal,
		ItemBombVertical,
		ItemEraser,
	}
}

// ItemFromByte 将表现层的数值编码转换为 Item
// 未知编码返回 false
func ItemFromByte(b uint8) (Item, bool) {
	item := Item(b)
	if _, ok := itemNames[item]; !ok {
		return 0, false
	}
	return item, true
}

// ParseItem 根据名称解析物品类型，如 "bomb_small"、"eraser"
func ParseItem(name string) (Item, error) {
	for item, n := range itemNames {
		if n == name {
			return item, nil
		}
	}
	return 0, fmt.Errorf("unknown item name: %q", name)
}

// String 返回物品名称
func (i Item) String() string {
	if name, ok := itemNames[i]; ok {
		return name
	}
	return fmt.Sprintf("item(%d)", uint8(i))
}

// IsValid 检查是否为已定义的物品
func (i Item) IsValid() bool {
	_, ok := itemNames[i]
	return ok
}

// IsEraser 是否为橡皮擦
func (i Item) IsEraser() bool {
	return i == ItemEraser
}

// IsBomb 是否为炸弹类物品（除橡皮擦外全部是炸弹）
func (i Item) IsBomb() bool {
	return i.IsValid() && !i.IsEraser()
}

// VisualIndex 返回物品在精灵图集中的帧索引（等于枚举值）
func (i Item) VisualIndex() int {
	return int(i)
}

// MarshalYAML 以名称形式序列化
func (i Item) MarshalYAML() (interface{}, error) {
	if !i.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid item %d", uint8(i))
	}
	return i.String(), nil
}

// UnmarshalYAML 支持名称（"bomb_small"）和数值编码（0、255）两种写法
func (i *Item) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}

	if item, err := ParseItem(name); err == nil {
		*i = item
		return nil
	}

	var code uint8
	if err := node.Decode(&code); err != nil {
		return fmt.Errorf("unknown item %q", name)
	}
	item, ok := ItemFromByte(code)
	if !ok {
		return fmt.Errorf("unknown item code %d", code)
	}
	*i = item
	return nil
}
