package game

import (
	"testing"

	"github.com/decker502/bombgrid/pkg/types"
	"gopkg.in/yaml.v3"
)

// TestCurrentPlacementMatches 测试存储与关卡的匹配规则
func TestCurrentPlacementMatches(t *testing.T) {
	tests := []struct {
		name   string
		stored types.LevelID
		active types.LevelID
		want   bool
	}{
		{"same level", 5, 5, true},
		{"different level", 5, 6, false},
		{"invalid store", types.InvalidLevelID, 5, false},
		{"invalid store and no active level", types.InvalidLevelID, types.InvalidLevelID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewCurrentPlacement(tt.stored, nil)
			if got := p.Matches(tt.active); got != tt.want {
				t.Errorf("Matches(%d) with stored %d = %v, want %v", tt.active, tt.stored, got, tt.want)
			}
		})
	}
}

// TestCurrentPlacementReset 测试重置后存储被清空且关卡失效
func TestCurrentPlacementReset(t *testing.T) {
	p := NewCurrentPlacement(3, []Placement{
		{Coord: types.NewGridCoord(1, 1), Item: types.ItemBombSmall},
	})

	p.Reset()

	if p.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", p.Len())
	}
	if p.Level != types.InvalidLevelID {
		t.Errorf("Level after Reset = %d, want InvalidLevelID", p.Level)
	}
	if p.Matches(3) {
		t.Error("reset store should not match its former level")
	}
}

// TestCurrentPlacementCopies 测试构造和读取都不共享底层数组
func TestCurrentPlacementCopies(t *testing.T) {
	src := []Placement{{Coord: types.NewGridCoord(0, 0), Item: types.ItemBombMedium}}
	p := NewCurrentPlacement(1, src)

	src[0].Item = types.ItemBombVertical
	if p.Placements[0].Item != types.ItemBombMedium {
		t.Error("NewCurrentPlacement should copy its input")
	}

	entries := p.Entries()
	entries[0].Item = types.ItemBombHorizontal
	if p.Placements[0].Item != types.ItemBombMedium {
		t.Error("Entries should return a copy")
	}
}

// TestCurrentPlacementYAML 测试持久化格式
func TestCurrentPlacementYAML(t *testing.T) {
	data := []byte(`
level: 5
placements:
  - coord: {x: 2, y: 3}
    item: bomb_horizontal
  - coord: {x: 0, y: 1}
    item: 1
`)
	var p CurrentPlacement
	if err := yaml.Unmarshal(data, &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if p.Level != 5 {
		t.Errorf("Level = %d, want 5", p.Level)
	}
	want := []Placement{
		{Coord: types.NewGridCoord(2, 3), Item: types.ItemBombHorizontal},
		{Coord: types.NewGridCoord(0, 1), Item: types.ItemBombMedium},
	}
	if len(p.Placements) != len(want) {
		t.Fatalf("got %d placements, want %d", len(p.Placements), len(want))
	}
	for i := range want {
		if p.Placements[i] != want[i] {
			t.Errorf("placement[%d] = %+v, want %+v", i, p.Placements[i], want[i])
		}
	}
}
