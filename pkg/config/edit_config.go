package config

import (
	"fmt"
	"os"

	"github.com/decker502/bombgrid/pkg/embedded"
	"github.com/decker502/bombgrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// DefaultEditConfigPath 默认编辑配置路径（嵌入资源）
const DefaultEditConfigPath = "data/edit_config.yaml"

// EditConfig 编辑阶段配置
type EditConfig struct {
	Keys        KeyBindings   `yaml:"keys"`
	Sounds      SoundConfig   `yaml:"sounds"`
	ItemButtons []types.Item  `yaml:"itemButtons"` // 物品按钮表（按显示顺序）
	Object      ObjectConfig  `yaml:"object"`
	Fire        FireConfig    `yaml:"fire"`
	Layout      LayoutConfig  `yaml:"layout"`
	Logging     LoggingConfig `yaml:"logging"`
	LevelDir    string        `yaml:"levelDir"`  // 关卡配置目录，默认 data/levels
	StartLevel  types.LevelID `yaml:"startLevel"` // 启动关卡，默认 1
}

// KeyBindings 编辑阶段键位
// 键名使用 ebiten.Key 的名称，如 "R"、"Space"
type KeyBindings struct {
	Reset      string `yaml:"reset"`      // 重置布局（回到 Init 阶段）
	Run        string `yaml:"run"`        // 开始运行
	Mute       string `yaml:"mute"`       // 音效开关
	VolumeUp   string `yaml:"volumeUp"`   // 音量增大
	VolumeDown string `yaml:"volumeDown"` // 音量减小

	ResetKey      ebiten.Key `yaml:"-"`
	RunKey        ebiten.Key `yaml:"-"`
	MuteKey       ebiten.Key `yaml:"-"`
	VolumeUpKey   ebiten.Key `yaml:"-"`
	VolumeDownKey ebiten.Key `yaml:"-"`
}

// SoundConfig 音效资源ID
// 留空表示不播放
type SoundConfig struct {
	Erase string `yaml:"erase"` // 擦除对象
	Place string `yaml:"place"` // 放置对象
	Start string `yaml:"start"` // 按下运行键
}

// ObjectConfig 放置对象的绘制参数
type ObjectConfig struct {
	Depth float64 `yaml:"depth"` // 相对格子的深度
	Scale float64 `yaml:"scale"` // 缩放
}

// FireConfig 火焰标记配置
type FireConfig struct {
	// Enabled 是否允许在编辑阶段点燃炸弹
	// 默认关闭，此时只有关卡预设火焰能让运行阶段可达
	Enabled     bool    `yaml:"enabled"`
	VisualIndex int     `yaml:"visualIndex"`
	Depth       float64 `yaml:"depth"`
}

// LayoutConfig 表现层布局（屏幕坐标，像素）
type LayoutConfig struct {
	ScreenWidth  int     `yaml:"screenWidth"`
	ScreenHeight int     `yaml:"screenHeight"`
	CellSize     float64 `yaml:"cellSize"`
	BoardX       float64 `yaml:"boardX"`
	BoardY       float64 `yaml:"boardY"`
	ButtonX      float64 `yaml:"buttonX"`
	ButtonY      float64 `yaml:"buttonY"`
	ButtonSize   float64 `yaml:"buttonSize"`
	ButtonGap    float64 `yaml:"buttonGap"`
	RunButtonX   float64 `yaml:"runButtonX"`
	RunButtonY   float64 `yaml:"runButtonY"`
	RunButtonW   float64 `yaml:"runButtonW"`
	RunButtonH   float64 `yaml:"runButtonH"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" 或 "console"
}

// DefaultItemButtons 默认物品按钮表
// 大炸弹保留在枚举中但默认不提供按钮
func DefaultItemButtons() []types.Item {
	return []types.Item{
		types.ItemBombSmall,
		types.ItemBombMedium,
		types.ItemBombHorizontal,
		types.ItemBombVertical,
		types.ItemEraser,
	}
}

// DefaultEditConfig 返回默认配置
func DefaultEditConfig() *EditConfig {
	cfg := &EditConfig{}
	applyEditDefaults(cfg)
	// 默认值一定合法
	_ = resolveKeys(&cfg.Keys)
	return cfg
}

// LoadEditConfig 加载编辑配置
// 优先读取嵌入资源，其次读取磁盘文件
func LoadEditConfig(path string) (*EditConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edit config %s: %w", path, err)
	}

	cfg, err := ParseEditConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid edit config in %s: %w", path, err)
	}
	return cfg, nil
}

// ParseEditConfig 解析编辑配置YAML数据
func ParseEditConfig(data []byte) (*EditConfig, error) {
	var cfg EditConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse edit config YAML: %w", err)
	}

	applyEditDefaults(&cfg)

	if err := validateEditConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEditDefaults 为缺失字段设置默认值
// 音效ID为空表示"不播放"，因此不填默认值；只有整个 sounds 段缺失时才使用默认ID
func applyEditDefaults(cfg *EditConfig) {
	if cfg.Keys.Reset == "" {
		cfg.Keys.Reset = "R"
	}
	if cfg.Keys.Run == "" {
		cfg.Keys.Run = "Space"
	}
	if cfg.Keys.Mute == "" {
		cfg.Keys.Mute = "M"
	}
	if cfg.Keys.VolumeUp == "" {
		cfg.Keys.VolumeUp = "Equal"
	}
	if cfg.Keys.VolumeDown == "" {
		cfg.Keys.VolumeDown = "Minus"
	}

	if cfg.Sounds == (SoundConfig{}) {
		cfg.Sounds = SoundConfig{
			Erase: "SOUND_BREAK_1",
			Place: "SOUND_BREAK_2",
			Start: "SOUND_START_1",
		}
	}

	if len(cfg.ItemButtons) == 0 {
		cfg.ItemButtons = DefaultItemButtons()
	}

	if cfg.Object.Depth == 0 {
		cfg.Object.Depth = 1.0
	}
	if cfg.Object.Scale == 0 {
		cfg.Object.Scale = 2.0
	}

	if cfg.Fire.VisualIndex == 0 {
		cfg.Fire.VisualIndex = 5
	}
	if cfg.Fire.Depth == 0 {
		cfg.Fire.Depth = 0.1
	}

	l := &cfg.Layout
	if l.ScreenWidth == 0 {
		l.ScreenWidth = 800
	}
	if l.ScreenHeight == 0 {
		l.ScreenHeight = 600
	}
	if l.CellSize == 0 {
		l.CellSize = 56
	}
	if l.BoardX == 0 {
		l.BoardX = 120
	}
	if l.BoardY == 0 {
		l.BoardY = 96
	}
	if l.ButtonX == 0 {
		l.ButtonX = 660
	}
	if l.ButtonY == 0 {
		l.ButtonY = 120
	}
	if l.ButtonSize == 0 {
		l.ButtonSize = 56
	}
	if l.ButtonGap == 0 {
		l.ButtonGap = 16
	}
	if l.RunButtonX == 0 {
		l.RunButtonX = 24
	}
	if l.RunButtonY == 0 {
		l.RunButtonY = 480
	}
	if l.RunButtonW == 0 {
		l.RunButtonW = 72
	}
	if l.RunButtonH == 0 {
		l.RunButtonH = 40
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.LevelDir == "" {
		cfg.LevelDir = "data/levels"
	}
	if cfg.StartLevel == 0 {
		cfg.StartLevel = 1
	}
}

// validateEditConfig 验证配置合法性，并解析键位
func validateEditConfig(cfg *EditConfig) error {
	if err := resolveKeys(&cfg.Keys); err != nil {
		return err
	}

	seen := make(map[types.Item]bool, len(cfg.ItemButtons))
	for i, item := range cfg.ItemButtons {
		if seen[item] {
			return fmt.Errorf("itemButtons[%d]: duplicate item %s", i, item)
		}
		seen[item] = true
	}

	if cfg.Object.Scale < 0 {
		return fmt.Errorf("object.scale cannot be negative, got %v", cfg.Object.Scale)
	}
	if cfg.Layout.CellSize < 0 || cfg.Layout.ButtonSize < 0 {
		return fmt.Errorf("layout sizes cannot be negative")
	}

	if cfg.Logging.Format != "json" && cfg.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}

	if !cfg.StartLevel.IsValid() {
		return fmt.Errorf("startLevel %d is reserved", cfg.StartLevel)
	}

	return nil
}

// resolveKeys 将键名解析为 ebiten.Key，所有键位必须互不相同
func resolveKeys(keys *KeyBindings) error {
	bindings := []struct {
		field string
		name  string
		key   *ebiten.Key
	}{
		{"reset", keys.Reset, &keys.ResetKey},
		{"run", keys.Run, &keys.RunKey},
		{"mute", keys.Mute, &keys.MuteKey},
		{"volumeUp", keys.VolumeUp, &keys.VolumeUpKey},
		{"volumeDown", keys.VolumeDown, &keys.VolumeDownKey},
	}

	used := make(map[ebiten.Key]string, len(bindings))
	for _, b := range bindings {
		if err := b.key.UnmarshalText([]byte(b.name)); err != nil {
			return fmt.Errorf("keys.%s: %w", b.field, err)
		}
		if other, ok := used[*b.key]; ok {
			return fmt.Errorf("keys.%s and keys.%s must differ, both are %q", other, b.field, b.name)
		}
		used[*b.key] = b.field
	}
	return nil
}

// readConfigFile 读取配置文件
// 嵌入资源中存在时读取嵌入资源，否则读取磁盘文件
func readConfigFile(path string) ([]byte, error) {
	if embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}
