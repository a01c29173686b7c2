package game

import (
	"fmt"

	"github.com/decker502/bombgrid/pkg/types"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// 存储路径常量
const placementObject = "placements"

// PlacementRepository 放置布局持久化
// 每个关卡保存一份布局，键为 "level-<id>"
type PlacementRepository struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，不持久化）
	logger       *zap.Logger
}

// NewPlacementRepository 创建布局仓库
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//   - logger: 日志，可为 nil
func NewPlacementRepository(gdataManager *gdata.Manager, logger *zap.Logger) *PlacementRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementRepository{
		gdataManager: gdataManager,
		logger:       logger.Named("PlacementRepository"),
	}
}

func placementProperty(level types.LevelID) string {
	return fmt.Sprintf("level-%d", level)
}

// Save 保存布局
// 失效的存储不会被保存；降级模式下直接返回 nil
func (r *PlacementRepository) Save(p CurrentPlacement) error {
	if r == nil || r.gdataManager == nil || !p.Level.IsValid() {
		return nil
	}

	data, err := yaml.Marshal(&p)
	if err != nil {
		return fmt.Errorf("failed to marshal placement: %w", err)
	}

	if err := r.gdataManager.SaveObjectProp(placementObject, placementProperty(p.Level), data); err != nil {
		return fmt.Errorf("failed to save placement for level %d: %w", p.Level, err)
	}

	r.logger.Debug("placement saved", zap.Uint("level", uint(p.Level)), zap.Int("entries", p.Len()))
	return nil
}

// Load 读取关卡的已保存布局
// 不存在时返回 false
func (r *PlacementRepository) Load(level types.LevelID) (CurrentPlacement, bool, error) {
	if r == nil || r.gdataManager == nil || !level.IsValid() {
		return EmptyPlacement(), false, nil
	}

	prop := placementProperty(level)
	if !r.gdataManager.ObjectPropExists(placementObject, prop) {
		return EmptyPlacement(), false, nil
	}

	data, err := r.gdataManager.LoadObjectProp(placementObject, prop)
	if err != nil {
		return EmptyPlacement(), false, fmt.Errorf("failed to load placement for level %d: %w", level, err)
	}

	var p CurrentPlacement
	if err := yaml.Unmarshal(data, &p); err != nil {
		return EmptyPlacement(), false, fmt.Errorf("failed to unmarshal placement for level %d: %w", level, err)
	}

	// 文件被改动过时以请求的关卡为准
	if p.Level != level {
		return EmptyPlacement(), false, fmt.Errorf("placement file for level %d records level %d", level, p.Level)
	}

	return p, true, nil
}
