package components

// ClickableComponent 标记实体可以被鼠标点击
// 定义了可点击区域的位置、尺寸和是否启用点击
type ClickableComponent struct {
	X         float64 // 可点击区域左上角X(屏幕坐标)
	Y         float64 // 可点击区域左上角Y(屏幕坐标)
	Width     float64 // 可点击区域的宽度(像素)
	Height    float64 // 可点击区域的高度(像素)
	IsEnabled bool    // 是否可以被点击
}
