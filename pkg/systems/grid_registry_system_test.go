package systems

import (
	"testing"

	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap/zaptest"
)

// TestGridRegistryLookup 测试注册与查找
func TestGridRegistryLookup(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := NewGridRegistrySystem(em, zaptest.NewLogger(t))

	a := grid.RegisterTile(types.NewGridCoord(0, 0))
	b := grid.RegisterTile(types.NewGridCoord(1, 0))

	if got, ok := grid.Lookup(types.NewGridCoord(1, 0)); !ok || got != b {
		t.Errorf("Lookup(1,0) = %v %v, want %v", got, ok, b)
	}
	if _, ok := grid.Lookup(types.NewGridCoord(5, 5)); ok {
		t.Error("Lookup of unregistered coord should fail")
	}

	if again := grid.RegisterTile(types.NewGridCoord(0, 0)); again != a {
		t.Error("registering the same coord twice should return the existing tile")
	}
	if n := len(grid.Tiles()); n != 2 {
		t.Errorf("Tiles() = %d, want 2", n)
	}

	if coord, ok := grid.TileCoord(b); !ok || coord != types.NewGridCoord(1, 0) {
		t.Errorf("TileCoord = %v %v", coord, ok)
	}
}

// TestGridRegistryHitTest 测试屏幕坐标命中格子
func TestGridRegistryHitTest(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := NewGridRegistrySystem(em, zaptest.NewLogger(t))

	for x := 0; x < 2; x++ {
		id := grid.RegisterTile(types.NewGridCoord(x, 0))
		em.AddComponent(id, &components.ClickableComponent{
			X: float64(x) * 10, Y: 0, Width: 10, Height: 10, IsEnabled: true,
		})
	}

	tests := []struct {
		name  string
		x, y  float64
		want  types.GridCoord
		found bool
	}{
		{"第一格内部", 5, 5, types.NewGridCoord(0, 0), true},
		{"共享边界属于右侧格子", 10, 5, types.NewGridCoord(1, 0), true},
		{"网格外", 25, 5, types.GridCoord{}, false},
		{"上方", 5, -1, types.GridCoord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, coord, ok := grid.HitTest(tt.x, tt.y)
			if ok != tt.found || (ok && coord != tt.want) {
				t.Errorf("HitTest(%v, %v) = %v %v, want %v %v", tt.x, tt.y, coord, ok, tt.want, tt.found)
			}
		})
	}
}
