package components

// SpriteComponent 存储实体的视觉表现
// 只记录图集帧索引和绘制参数，图集本身由表现层持有
type SpriteComponent struct {
	AtlasIndex int     // 精灵图集帧索引
	Z          float64 // 相对父实体的绘制深度，越大越靠上
	Scale      float64 // 绘制缩放
}
