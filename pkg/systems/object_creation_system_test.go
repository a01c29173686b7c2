package systems

import (
	"errors"
	"testing"

	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"go.uber.org/zap/zaptest"
)

func newObjectFixture(t *testing.T) (*ecs.EntityManager, *GridRegistrySystem, *ObjectCreationSystem, *recordingSounds) {
	t.Helper()
	em := ecs.NewEntityManager()
	logger := zaptest.NewLogger(t)
	sounds := &recordingSounds{}
	grid := NewGridRegistrySystem(em, logger)
	objects := NewObjectCreationSystem(em, sounds, config.DefaultEditConfig(), logger)
	return em, grid, objects, sounds
}

// TestCreateObjectUniqueness 测试同一坐标连续放置后只剩最后一个对象
func TestCreateObjectUniqueness(t *testing.T) {
	em, grid, objects, _ := newObjectFixture(t)
	coord := types.NewGridCoord(1, 1)
	tile := grid.RegisterTile(coord)

	for _, item := range []types.Item{types.ItemBombSmall, types.ItemBombMedium, types.ItemBombVertical} {
		objects.CreateObject(game.NewCreateObject(tile, coord, item))
		if n := countObjectsAt(em, coord); n != 1 {
			t.Fatalf("after placing %s: %d objects at %s, want 1", item, n, coord)
		}
	}

	if got := boardItems(em)[coord]; got != types.ItemBombVertical {
		t.Errorf("item at %s = %s, want bomb_vertical", coord, got)
	}
}

// TestCreateObjectIdempotent 测试相同命令执行两次与执行一次结果相同
func TestCreateObjectIdempotent(t *testing.T) {
	em, grid, objects, _ := newObjectFixture(t)
	coord := types.NewGridCoord(0, 1)
	tile := grid.RegisterTile(coord)
	cmd := game.NewCreateObject(tile, coord, types.ItemBombHorizontal).WithoutSound()

	objects.CreateObject(cmd)
	first := boardItems(em)
	objects.CreateObject(cmd)
	second := boardItems(em)

	if len(first) != 1 || len(second) != 1 || first[coord] != second[coord] {
		t.Errorf("board after one call %v, after two calls %v", first, second)
	}
}

// TestCreateObjectAttributes 测试对象组件：父实体、帧索引、深度和缩放
func TestCreateObjectAttributes(t *testing.T) {
	em, grid, objects, _ := newObjectFixture(t)
	coord := types.NewGridCoord(2, 0)
	tile := grid.RegisterTile(coord)

	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemBombVertical))

	id, ok := objects.ObjectAt(coord)
	if !ok {
		t.Fatal("object not created")
	}
	if parent, ok := em.Parent(id); !ok || parent != tile {
		t.Errorf("parent = %v %v, want tile %v", parent, ok, tile)
	}
	obj, _ := ecs.GetComponent[*components.PlacedObjectComponent](em, id)
	if obj.State != components.ItemStateNone || obj.Grid != tile {
		t.Errorf("object = %+v", obj)
	}
	sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, id)
	if sprite.AtlasIndex != 4 || sprite.Z != 1 || sprite.Scale != 2 {
		t.Errorf("sprite = %+v, want index 4, z 1, scale 2", sprite)
	}
}

// TestCreateObjectErase 测试橡皮擦只移除不创建
func TestCreateObjectErase(t *testing.T) {
	em, grid, objects, _ := newObjectFixture(t)
	coord := types.NewGridCoord(1, 0)
	tile := grid.RegisterTile(coord)

	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemBombSmall))
	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemEraser))

	if n := countObjectsAt(em, coord); n != 0 {
		t.Errorf("%d objects after erase, want 0", n)
	}

	// 空格子上擦除也不会创建对象
	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemEraser))
	if n := len(objects.Objects()); n != 0 {
		t.Errorf("%d objects after erasing an empty cell, want 0", n)
	}
}

// TestCreateObjectSounds 测试音效请求
func TestCreateObjectSounds(t *testing.T) {
	_, grid, objects, sounds := newObjectFixture(t)
	coord := types.NewGridCoord(0, 0)
	tile := grid.RegisterTile(coord)

	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemBombSmall))
	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemEraser))
	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemBombSmall).WithoutSound())
	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemEraser).WithoutSound())

	want := []string{"SOUND_BREAK_2", "SOUND_BREAK_1"}
	if len(sounds.played) != len(want) {
		t.Fatalf("played %v, want %v", sounds.played, want)
	}
	for i := range want {
		if sounds.played[i] != want[i] {
			t.Errorf("played[%d] = %s, want %s", i, sounds.played[i], want[i])
		}
	}
}

// TestCreateObjectWithoutSoundPlayer 测试没有音效实现时不报错
func TestCreateObjectWithoutSoundPlayer(t *testing.T) {
	em := ecs.NewEntityManager()
	grid := NewGridRegistrySystem(em, nil)
	var am *game.AudioManager
	objects := NewObjectCreationSystem(em, am, config.DefaultEditConfig(), nil)

	coord := types.NewGridCoord(0, 0)
	objects.CreateObject(game.NewCreateObject(grid.RegisterTile(coord), coord, types.ItemBombSmall))
	if len(objects.Objects()) != 1 {
		t.Error("object should be created without a sound player")
	}
}

// TestCreateObjectDeadParent 测试父格子失效时仍正常创建
func TestCreateObjectDeadParent(t *testing.T) {
	em, grid, objects, _ := newObjectFixture(t)
	coord := types.NewGridCoord(0, 0)
	tile := grid.RegisterTile(coord)
	em.DestroyEntity(tile)

	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemBombMedium))

	id, ok := objects.ObjectAt(coord)
	if !ok {
		t.Fatal("object should still be created")
	}
	if _, ok := em.Parent(id); ok {
		t.Error("object should have no parent")
	}
}

// TestCreateObjectRemovesChildren 测试替换对象时其子实体一并销毁
func TestCreateObjectRemovesChildren(t *testing.T) {
	em, grid, objects, _ := newObjectFixture(t)
	coord := types.NewGridCoord(0, 0)
	tile := grid.RegisterTile(coord)

	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemBombSmall))
	bomb, _ := objects.ObjectAt(coord)
	child := em.CreateEntity()
	em.SetParent(child, bomb)

	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemEraser))

	if em.IsAlive(child) {
		t.Error("child of the erased object should be destroyed")
	}
	if !em.IsAlive(tile) {
		t.Error("tile must survive erasing its object")
	}
}

// TestCreateObjectInvalidItem 测试未定义的物品不会进入网格，也不会移除已有对象
func TestCreateObjectInvalidItem(t *testing.T) {
	em, grid, objects, sounds := newObjectFixture(t)
	coord := types.NewGridCoord(0, 1)
	tile := grid.RegisterTile(coord)
	objects.CreateObject(game.NewCreateObject(tile, coord, types.ItemBombSmall).WithoutSound())

	objects.CreateObject(game.NewCreateObject(tile, coord, types.Item(7)))

	if got := boardItems(em)[coord]; got != types.ItemBombSmall || countObjectsAt(em, coord) != 1 {
		t.Errorf("item at %s = %s, want the original bomb_small", coord, got)
	}

	bus := game.NewCommandBus(game.NewEditState(), zaptest.NewLogger(t))
	objects.RegisterHandlers(bus)
	err := bus.Dispatch(game.NewCreateObject(tile, types.NewGridCoord(1, 1), types.Item(7)))
	if !errors.Is(err, game.ErrInvalidItem) {
		t.Errorf("Dispatch err = %v, want ErrInvalidItem", err)
	}
	if n := countObjectsAt(em, types.NewGridCoord(1, 1)); n != 0 {
		t.Errorf("%d objects created for an invalid item", n)
	}
	if len(sounds.played) != 0 {
		t.Errorf("played %v for invalid items", sounds.played)
	}
}
