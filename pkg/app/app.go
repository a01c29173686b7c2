// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"time"

	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/scenes"
	"github.com/decker502/bombgrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

// 音频采样率
const sampleRate = 48000

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用调试日志（覆盖配置文件中的日志级别）
	Verbose bool
	// Level 启动关卡，0 表示使用配置文件中的 startLevel
	Level types.LevelID
	// ConfigPath 编辑配置路径，为空时使用嵌入的默认配置
	ConfigPath string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	editConfig      *config.EditConfig
	logger          *zap.Logger

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.DefaultEditConfigPath
	}
	editConfig, err := config.LoadEditConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("编辑配置加载失败: %w", err)
	}
	if cfg.Verbose {
		editConfig.Logging.Level = "debug"
	}

	logger, err := NewLogger(editConfig.Logging)
	if err != nil {
		return nil, fmt.Errorf("日志初始化失败: %w", err)
	}
	log := logger.Named("App")

	// 存储不可用时降级为仅内存模式
	gdataManager, err := gdata.Open(gdata.Config{AppName: "bombgrid"})
	if err != nil {
		log.Warn("gdata unavailable, running without persistence", zap.Error(err))
		gdataManager = nil
	}

	settingsManager := game.NewSettingsManager(gdataManager, logger)
	repository := game.NewPlacementRepository(gdataManager, logger)

	audioManager := game.NewAudioManager(audio.NewContext(sampleRate), settingsManager, logger)
	registerPlaceholderSounds(audioManager, editConfig.Sounds, log)

	sceneManager := game.NewSceneManager(logger)
	sceneManager.SetSceneFactory(func(levelID types.LevelID) (game.Scene, error) {
		levelConfig, err := config.LoadLevelConfig(config.LevelConfigPath(editConfig.LevelDir, levelID))
		if err != nil {
			return nil, err
		}
		if levelConfig.ID != levelID {
			return nil, fmt.Errorf("level file for %d declares id %d", levelID, levelConfig.ID)
		}
		return scenes.NewGameplayScene(scenes.GameplaySceneDeps{
			Config:        editConfig,
			Level:         levelConfig,
			Sounds:        audioManager,
			Repository:    repository,
			SceneManager:  sceneManager,
			SoundControls: audioManager,
			Logger:        logger,
		}), nil
	})

	levelToLoad := cfg.Level
	if levelToLoad == 0 {
		levelToLoad = editConfig.StartLevel
	}
	if !sceneManager.LoadLevel(levelToLoad) {
		return nil, fmt.Errorf("无法加载关卡 %d", levelToLoad)
	}

	log.Info("app started", zap.Uint("level", uint(levelToLoad)))

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		editConfig:      editConfig,
		logger:          logger,
	}, nil
}

// registerPlaceholderSounds 为配置中的音效ID注册合成音
// 资源加载不在本程序范围内，合成音只用于提示操作
func registerPlaceholderSounds(am *game.AudioManager, sounds config.SoundConfig, log *zap.Logger) {
	tones := []struct {
		id        string
		frequency float64
		duration  time.Duration
	}{
		{sounds.Erase, 220, 80 * time.Millisecond},
		{sounds.Place, 440, 60 * time.Millisecond},
		{sounds.Start, 660, 200 * time.Millisecond},
	}
	for _, tone := range tones {
		if tone.id == "" {
			continue
		}
		if err := am.RegisterPCM(tone.id, game.SynthesizeTone(sampleRate, tone.frequency, tone.duration)); err != nil {
			log.Warn("failed to register sound", zap.String("sound", tone.id), zap.Error(err))
		}
	}
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 退出全屏后需要等待几帧才能正确设置窗口大小
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.editConfig.Layout.ScreenWidth, a.editConfig.Layout.ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.editConfig.Layout.ScreenWidth, a.editConfig.Layout.ScreenHeight
}

// ScreenSize 返回配置的窗口尺寸
func (a *App) ScreenSize() (int, int) {
	return a.editConfig.Layout.ScreenWidth, a.editConfig.Layout.ScreenHeight
}

// Close 关闭当前场景并保存设置（程序退出时调用）
func (a *App) Close() {
	a.sceneManager.Close()
	if err := a.settingsManager.Save(); err != nil {
		a.logger.Warn("failed to save settings", zap.Error(err))
	}
	_ = a.logger.Sync()
}
