package systems

import (
	"testing"

	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap/zaptest"
)

// recordingSounds 记录播放请求的音效实现
type recordingSounds struct {
	played []string
}

func (r *recordingSounds) PlaySound(soundID string) bool {
	r.played = append(r.played, soundID)
	return true
}

// fakeInput 可编程的输入
type fakeInput struct {
	keys   map[ebiten.Key]bool
	clicks map[ebiten.MouseButton][2]float64
}

func newFakeInput() *fakeInput {
	return &fakeInput{
		keys:   make(map[ebiten.Key]bool),
		clicks: make(map[ebiten.MouseButton][2]float64),
	}
}

func (f *fakeInput) IsKeyJustPressed(key ebiten.Key) bool {
	return f.keys[key]
}

func (f *fakeInput) JustClicked(button ebiten.MouseButton) (float64, float64, bool) {
	pos, ok := f.clicks[button]
	return pos[0], pos[1], ok
}

func pressKey(key ebiten.Key) *fakeInput {
	in := newFakeInput()
	in.keys[key] = true
	return in
}

func click(button ebiten.MouseButton, pos [2]float64) *fakeInput {
	in := newFakeInput()
	in.clicks[button] = pos
	return in
}

// testLevel 3x2 的测试关卡
func testLevel(id types.LevelID) *config.LevelConfig {
	return &config.LevelConfig{ID: id, Name: "test", Columns: 3, Rows: 2}
}

// newTestCore 创建连接好的编辑核心（未启动）
func newTestCore(t *testing.T, cfg *config.EditConfig, level *config.LevelConfig, sounds game.SoundPlayer) *EditCore {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultEditConfig()
	}
	return NewEditCore(EditCoreDeps{
		Config: cfg,
		Level:  level,
		Sounds: sounds,
		Logger: zaptest.NewLogger(t),
	})
}

// boardItems 返回网格上的对象（coord -> item）
func boardItems(em *ecs.EntityManager) map[types.GridCoord]types.Item {
	result := make(map[types.GridCoord]types.Item)
	for _, id := range ecs.GetEntitiesWith1[*components.PlacedObjectComponent](em) {
		obj, _ := ecs.GetComponent[*components.PlacedObjectComponent](em, id)
		result[obj.Coord] = obj.Item
	}
	return result
}

// countObjectsAt 统计坐标上的对象数量
func countObjectsAt(em *ecs.EntityManager, coord types.GridCoord) int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.PlacedObjectComponent](em) {
		obj, _ := ecs.GetComponent[*components.PlacedObjectComponent](em, id)
		if obj.Coord == coord {
			n++
		}
	}
	return n
}
