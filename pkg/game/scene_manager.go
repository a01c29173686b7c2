package game

import (
	"github.com/decker502/bombgrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// SceneFactory 场景工厂函数类型
// 用于创建指定关卡的场景，避免循环依赖
type SceneFactory func(levelID types.LevelID) (Scene, error)

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
	logger       *zap.Logger
}

// NewSceneManager creates a SceneManager with no active scene.
func NewSceneManager(logger *zap.Logger) *SceneManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneManager{logger: logger.Named("SceneManager")}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene.
// 旧场景实现了 Exiter 时先调用其 OnExit()
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	if exiter, ok := sm.currentScene.(Exiter); ok {
		exiter.OnExit()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadLevel 通过工厂创建关卡场景并切换过去
// 创建失败时保留当前场景
func (sm *SceneManager) LoadLevel(levelID types.LevelID) bool {
	if sm.sceneFactory == nil {
		sm.logger.Error("scene factory not set")
		return false
	}

	scene, err := sm.sceneFactory(levelID)
	if err != nil {
		sm.logger.Error("failed to create level scene", zap.Uint("level", uint(levelID)), zap.Error(err))
		return false
	}

	sm.SwitchTo(scene)
	sm.logger.Info("level scene loaded", zap.Uint("level", uint(levelID)))
	return true
}

// Close 关闭当前场景（程序退出时调用）
func (sm *SceneManager) Close() {
	sm.SwitchTo(nil)
}

// Update updates the currently active scene.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
