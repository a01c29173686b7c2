package config

import (
	"fmt"
	"path"

	"github.com/decker502/bombgrid/pkg/types"
	"gopkg.in/yaml.v3"
)

// 默认网格规格
const (
	DefaultGridColumns = 8
	DefaultGridRows    = 6
)

// LevelConfig 关卡配置数据结构
// 定义了网格尺寸和关卡预设布局
type LevelConfig struct {
	ID          types.LevelID `yaml:"id"`          // 关卡编号，如 1
	Name        string        `yaml:"name"`        // 关卡名称
	Description string        `yaml:"description"` // 关卡描述（可选）
	Columns     int           `yaml:"columns"`     // 列数，默认 8
	Rows        int           `yaml:"rows"`        // 行数，默认 6

	// Placements 预设布局，首次进入关卡时写入放置存储
	Placements []PlacementEntry `yaml:"placements"`

	// Fires 预设火焰坐标（可选）
	Fires []types.GridCoord `yaml:"fires"`
}

// PlacementEntry 单个预设放置
type PlacementEntry struct {
	Coord types.GridCoord `yaml:"coord"`
	Item  types.Item      `yaml:"item"`
}

// LevelConfigPath 返回关卡配置文件路径，如 data/levels/level-1.yaml
func LevelConfigPath(dir string, id types.LevelID) string {
	return path.Join(dir, fmt.Sprintf("level-%d.yaml", id))
}

// LoadLevelConfig 从YAML文件加载关卡配置
// 优先读取嵌入资源，其次读取磁盘文件
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := readConfigFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}

	cfg, err := ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseLevelConfig 解析关卡配置YAML数据
func ParseLevelConfig(data []byte) (*LevelConfig, error) {
	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML: %w", err)
	}

	applyLevelDefaults(&levelConfig)

	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, err
	}

	return &levelConfig, nil
}

// InBounds 检查坐标是否在关卡网格范围内
func (c *LevelConfig) InBounds(coord types.GridCoord) bool {
	return coord.X >= 0 && coord.X < c.Columns && coord.Y >= 0 && coord.Y < c.Rows
}

// applyLevelDefaults 为缺失的可选字段设置默认值
func applyLevelDefaults(config *LevelConfig) {
	if config.Columns == 0 {
		config.Columns = DefaultGridColumns
	}
	if config.Rows == 0 {
		config.Rows = DefaultGridRows
	}
}

// validateLevelConfig 验证关卡配置的完整性和合法性
func validateLevelConfig(config *LevelConfig) error {
	if !config.ID.IsValid() {
		return fmt.Errorf("level id %d is reserved", config.ID)
	}

	if config.Columns < 0 || config.Rows < 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", config.Columns, config.Rows)
	}

	seen := make(map[types.GridCoord]bool, len(config.Placements))
	for i, p := range config.Placements {
		if p.Item.IsEraser() {
			return fmt.Errorf("placements[%d]: eraser cannot be placed", i)
		}
		if !config.InBounds(p.Coord) {
			return fmt.Errorf("placements[%d]: coord %s outside %dx%d grid", i, p.Coord, config.Columns, config.Rows)
		}
		if seen[p.Coord] {
			return fmt.Errorf("placements[%d]: duplicate coord %s", i, p.Coord)
		}
		seen[p.Coord] = true
	}

	for i, f := range config.Fires {
		if !config.InBounds(f) {
			return fmt.Errorf("fires[%d]: coord %s outside %dx%d grid", i, f, config.Columns, config.Rows)
		}
	}

	return nil
}
