package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/bombgrid/pkg/types"
)

// TestLoadLevelConfig 测试关卡配置文件加载
func TestLoadLevelConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		// 创建临时测试文件
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "level-5.yaml")

		validYAML := `id: 5
name: "Test Level"
columns: 4
rows: 3
placements:
  - coord: {x: 1, y: 2}
    item: bomb_small
  - coord: {x: 3, y: 0}
    item: 4
fires:
  - {x: 1, y: 2}
`
		if err := os.WriteFile(testFile, []byte(validYAML), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		config, err := LoadLevelConfig(testFile)
		if err != nil {
			t.Fatalf("LoadLevelConfig() failed: %v", err)
		}

		if config.ID != 5 {
			t.Errorf("Expected ID 5, got %d", config.ID)
		}
		if config.Columns != 4 || config.Rows != 3 {
			t.Errorf("Expected 4x3 grid, got %dx%d", config.Columns, config.Rows)
		}
		if len(config.Placements) != 2 {
			t.Fatalf("Expected 2 placements, got %d", len(config.Placements))
		}
		// 顺序必须与文件一致
		if config.Placements[0].Coord != types.NewGridCoord(1, 2) || config.Placements[0].Item != types.ItemBombSmall {
			t.Errorf("Unexpected placements[0]: %+v", config.Placements[0])
		}
		if config.Placements[1].Item != types.ItemBombVertical {
			t.Errorf("Expected bomb_vertical from code 4, got %v", config.Placements[1].Item)
		}
		if len(config.Fires) != 1 || config.Fires[0] != types.NewGridCoord(1, 2) {
			t.Errorf("Unexpected fires: %v", config.Fires)
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadLevelConfig("/nonexistent/level-1.yaml"); err == nil {
			t.Error("Expected error for missing file")
		}
	})
}

// TestLevelConfigDefaults 测试默认网格尺寸
func TestLevelConfigDefaults(t *testing.T) {
	config, err := ParseLevelConfig([]byte("id: 2\nname: defaults\n"))
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}
	if config.Columns != DefaultGridColumns || config.Rows != DefaultGridRows {
		t.Errorf("Expected default %dx%d grid, got %dx%d",
			DefaultGridColumns, DefaultGridRows, config.Columns, config.Rows)
	}
	if len(config.Placements) != 0 {
		t.Error("Expected no preset placements")
	}
}

// TestLevelConfigValidation 测试非法配置被拒绝
func TestLevelConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "eraser in preset",
			yaml: "id: 1\nplacements:\n  - coord: {x: 0, y: 0}\n    item: eraser\n",
		},
		{
			name: "out of bounds placement",
			yaml: "id: 1\ncolumns: 2\nrows: 2\nplacements:\n  - coord: {x: 2, y: 0}\n    item: bomb_small\n",
		},
		{
			name: "duplicate coord",
			yaml: "id: 1\nplacements:\n  - coord: {x: 1, y: 1}\n    item: bomb_small\n  - coord: {x: 1, y: 1}\n    item: bomb_medium\n",
		},
		{
			name: "out of bounds fire",
			yaml: "id: 1\ncolumns: 2\nrows: 2\nfires:\n  - {x: -1, y: 0}\n",
		},
		{
			name: "unknown item",
			yaml: "id: 1\nplacements:\n  - coord: {x: 0, y: 0}\n    item: bomb_giant\n",
		},
		{
			name: "negative size",
			yaml: "id: 1\ncolumns: -3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLevelConfig([]byte(tt.yaml)); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

// TestLevelConfigPath 关卡文件命名
func TestLevelConfigPath(t *testing.T) {
	if got := LevelConfigPath("data/levels", 3); got != "data/levels/level-3.yaml" {
		t.Errorf("Unexpected path: %s", got)
	}
}
