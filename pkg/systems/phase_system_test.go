package systems

import (
	"errors"
	"reflect"
	"testing"

	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap/zaptest"
)

func newPhaseFixture(t *testing.T, sounds game.SoundPlayer) (*ecs.EntityManager, *game.EditState, *PhaseSystem) {
	t.Helper()
	em := ecs.NewEntityManager()
	state := game.NewEditState()
	phases := NewPhaseSystem(em, state, sounds, config.DefaultEditConfig(), zaptest.NewLogger(t))
	return em, state, phases
}

// TestPhaseHookOrder 测试回调按注册顺序执行，离开回调先于进入回调
func TestPhaseHookOrder(t *testing.T) {
	_, state, phases := newPhaseFixture(t, nil)

	var calls []string
	phases.OnExit(types.PhaseInit, func(from, to types.GamePhase) { calls = append(calls, "exit-init") })
	phases.OnEnter(types.PhaseEdit, func(from, to types.GamePhase) {
		if state.Phase != types.PhaseEdit {
			t.Errorf("enter hook saw phase %s", state.Phase)
		}
		calls = append(calls, "enter-edit-1")
	})
	phases.OnEnter(types.PhaseEdit, func(from, to types.GamePhase) { calls = append(calls, "enter-edit-2") })

	phases.SetPhase(types.PhaseEdit)

	want := []string{"exit-init", "enter-edit-1", "enter-edit-2"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}

	calls = nil
	phases.SetPhase(types.PhaseEdit)
	if len(calls) != 0 {
		t.Errorf("setting the same phase ran hooks %v", calls)
	}
}

// TestPhaseQueuedTransition 测试回调内请求的切换在当前切换完成后执行
func TestPhaseQueuedTransition(t *testing.T) {
	_, state, phases := newPhaseFixture(t, nil)

	var calls []string
	phases.OnEnter(types.PhaseInit, func(from, to types.GamePhase) {
		phases.SetPhase(types.PhaseEdit)
		calls = append(calls, "init-done")
	})
	phases.OnEnter(types.PhaseEdit, func(from, to types.GamePhase) {
		calls = append(calls, "edit-from-"+from.String())
	})

	phases.Start()

	want := []string{"init-done", "edit-from-Init"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if state.Phase != types.PhaseEdit {
		t.Errorf("phase = %s, want Edit", state.Phase)
	}
}

// TestTryRunGating 测试没有火焰时运行被静默忽略
func TestTryRunGating(t *testing.T) {
	em, state, phases := newPhaseFixture(t, nil)
	fires := NewFireSystem(em, nil, config.DefaultEditConfig(), nil)
	state.Phase = types.PhaseEdit

	if phases.TryRun() {
		t.Error("TryRun without fire should fail")
	}
	if state.Phase != types.PhaseEdit {
		t.Errorf("phase = %s, want Edit", state.Phase)
	}

	tile := em.CreateEntity()
	fires.SpawnPresetFire(tile, types.NewGridCoord(0, 0))

	if !phases.TryRun() {
		t.Error("TryRun with a fire should succeed")
	}
	if state.Phase != types.PhaseRun {
		t.Errorf("phase = %s, want Run", state.Phase)
	}
}

// TestTryRunFromButtonOutsideEdit 测试非编辑阶段点击运行按钮被忽略
func TestTryRunFromButtonOutsideEdit(t *testing.T) {
	em, state, phases := newPhaseFixture(t, nil)
	NewFireSystem(em, nil, config.DefaultEditConfig(), nil).SpawnPresetFire(em.CreateEntity(), types.NewGridCoord(0, 0))

	for _, phase := range []types.GamePhase{types.PhaseInit, types.PhaseRun} {
		state.Phase = phase
		if phases.TryRunFromButton() {
			t.Errorf("run button in %s should be ignored", phase)
		}
		if state.Phase != phase {
			t.Errorf("phase changed from %s to %s", phase, state.Phase)
		}
	}
}

// TestPhaseKeyboard 测试键盘轮询
func TestPhaseKeyboard(t *testing.T) {
	t.Run("运行键无火焰仍播放开始音效", func(t *testing.T) {
		sounds := &recordingSounds{}
		_, state, phases := newPhaseFixture(t, sounds)
		state.Phase = types.PhaseEdit

		phases.Update(pressKey(ebiten.KeySpace))

		if state.Phase != types.PhaseEdit {
			t.Errorf("phase = %s, want Edit", state.Phase)
		}
		if !reflect.DeepEqual(sounds.played, []string{"SOUND_START_1"}) {
			t.Errorf("played = %v, want [SOUND_START_1]", sounds.played)
		}
	})

	t.Run("重置键回到Init", func(t *testing.T) {
		_, state, phases := newPhaseFixture(t, nil)
		state.Phase = types.PhaseEdit

		phases.Update(pressKey(ebiten.KeyR))

		if state.Phase != types.PhaseInit {
			t.Errorf("phase = %s, want Init", state.Phase)
		}
	})

	t.Run("Init阶段忽略按键", func(t *testing.T) {
		sounds := &recordingSounds{}
		_, state, phases := newPhaseFixture(t, sounds)

		phases.Update(pressKey(ebiten.KeySpace))
		phases.Update(pressKey(ebiten.KeyR))

		if state.Phase != types.PhaseInit || len(sounds.played) != 0 {
			t.Errorf("phase = %s, played = %v", state.Phase, sounds.played)
		}
	})

	t.Run("运行阶段重置键结束运行", func(t *testing.T) {
		_, state, phases := newPhaseFixture(t, nil)
		state.Phase = types.PhaseRun

		phases.Update(pressKey(ebiten.KeyR))

		if state.Phase != types.PhaseInit {
			t.Errorf("phase = %s, want Init", state.Phase)
		}
	})
}

// TestSetPhaseCommand 测试通过命令总线切换阶段时遵守切换规则
func TestSetPhaseCommand(t *testing.T) {
	tests := []struct {
		name      string
		from      types.GamePhase
		withFire  bool
		to        types.GamePhase
		wantPhase types.GamePhase
		wantErr   bool
	}{
		{"编辑阶段无火焰不能运行", types.PhaseEdit, false, types.PhaseRun, types.PhaseEdit, true},
		{"编辑阶段有火焰可以运行", types.PhaseEdit, true, types.PhaseRun, types.PhaseRun, false},
		{"Init 不能直接运行", types.PhaseInit, true, types.PhaseRun, types.PhaseInit, true},
		{"运行阶段不能直接回到编辑", types.PhaseRun, true, types.PhaseEdit, types.PhaseRun, true},
		{"Init 可以进入编辑", types.PhaseInit, false, types.PhaseEdit, types.PhaseEdit, false},
		{"编辑阶段可以重置", types.PhaseEdit, false, types.PhaseInit, types.PhaseInit, false},
		{"运行阶段可以重置", types.PhaseRun, false, types.PhaseInit, types.PhaseInit, false},
		{"Init 不能重复重置", types.PhaseInit, false, types.PhaseInit, types.PhaseInit, true},
		{"编辑阶段不能再次进入编辑", types.PhaseEdit, false, types.PhaseEdit, types.PhaseEdit, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em, state, phases := newPhaseFixture(t, nil)
			bus := game.NewCommandBus(state, zaptest.NewLogger(t))
			phases.RegisterHandlers(bus)
			state.Phase = tt.from
			if tt.withFire {
				em.AddComponent(em.CreateEntity(), &components.FireComponent{})
			}

			err := bus.Dispatch(game.SetPhaseCommand{Phase: tt.to})

			if tt.wantErr && !errors.Is(err, game.ErrCommandNotAllowed) {
				t.Errorf("err = %v, want ErrCommandNotAllowed", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Dispatch: %v", err)
			}
			if state.Phase != tt.wantPhase {
				t.Errorf("phase = %s, want %s", state.Phase, tt.wantPhase)
			}
		})
	}
}

// TestSetPhaseCommandSkipsHooksWhenRejected 测试被拒绝的请求不会触发离开回调
func TestSetPhaseCommandSkipsHooksWhenRejected(t *testing.T) {
	_, state, phases := newPhaseFixture(t, nil)
	bus := game.NewCommandBus(state, zaptest.NewLogger(t))
	phases.RegisterHandlers(bus)
	state.Phase = types.PhaseEdit

	exits := 0
	phases.OnExit(types.PhaseEdit, func(from, to types.GamePhase) { exits++ })

	if err := bus.Dispatch(game.SetPhaseCommand{Phase: types.PhaseRun}); err == nil {
		t.Fatal("run without fire should be rejected")
	}
	if exits != 0 {
		t.Errorf("exit hooks ran %d times, want 0", exits)
	}
}
