package scenes

import (
	"fmt"
	"image/color"

	"github.com/decker502/bombgrid/pkg/components"
	"github.com/decker502/bombgrid/pkg/config"
	"github.com/decker502/bombgrid/pkg/ecs"
	"github.com/decker502/bombgrid/pkg/game"
	"github.com/decker502/bombgrid/pkg/systems"
	"github.com/decker502/bombgrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// 绘制颜色
var (
	backgroundColor  = color.RGBA{R: 34, G: 40, B: 49, A: 255}
	tileColor        = color.RGBA{R: 57, G: 62, B: 70, A: 255}
	tileBorderColor  = color.RGBA{R: 90, G: 96, B: 106, A: 255}
	buttonColor      = color.RGBA{R: 70, G: 76, B: 86, A: 255}
	highlightColor   = color.RGBA{R: 255, G: 211, B: 105, A: 255}
	runButtonColor   = color.RGBA{R: 64, G: 160, B: 90, A: 255}
	runDisabledColor = color.RGBA{R: 80, G: 90, B: 84, A: 255}
	fireColor        = color.RGBA{R: 255, G: 120, B: 40, A: 255}
)

// itemColors 按图集帧索引区分物品
var itemColors = map[int]color.RGBA{
	0:   {R: 200, G: 80, B: 80, A: 255},
	1:   {R: 220, G: 120, B: 60, A: 255},
	2:   {R: 160, G: 60, B: 120, A: 255},
	3:   {R: 80, G: 140, B: 220, A: 255},
	4:   {R: 80, G: 200, B: 180, A: 255},
	255: {R: 180, G: 180, B: 180, A: 255},
}

// itemLabels 按钮上的简写
var itemLabels = map[types.Item]string{
	types.ItemBombSmall:      "S",
	types.ItemBombMedium:     "M",
	types.ItemBombLarge:      "L",
	types.ItemBombHorizontal: "H",
	types.ItemBombVertical:   "V",
	types.ItemEraser:         "E",
}

// 每次按键调整的音量
const volumeStep = 0.1

// SoundControls 音效设置（由 game.AudioManager 实现）
type SoundControls interface {
	SoundEnabled() bool
	SetSoundEnabled(enabled bool)
	GetSoundVolume() float64
	SetSoundVolume(volume float64)
}

// GameplayScene 编辑场景
// 持有一份独立的编辑核心，离开场景时清空放置存储
type GameplayScene struct {
	core         *systems.EditCore
	cfg          *config.EditConfig
	sceneManager *game.SceneManager
	sound        SoundControls
	input        systems.Input
	logger       *zap.Logger
}

// GameplaySceneDeps 场景依赖
// Config 为 nil 时使用默认配置
type GameplaySceneDeps struct {
	Config        *config.EditConfig
	Level         *config.LevelConfig
	Sounds        game.SoundPlayer
	Repository    *game.PlacementRepository
	SceneManager  *game.SceneManager // 可为 nil，此时不支持切换关卡
	SoundControls SoundControls      // 可为 nil，此时音效键无效
	Input         systems.Input      // 为 nil 时使用 systems.EbitenInput
	Logger        *zap.Logger
}

// NewGameplayScene 创建编辑场景并完成关卡初始化
func NewGameplayScene(deps GameplaySceneDeps) *GameplayScene {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	input := deps.Input
	if input == nil {
		input = systems.EbitenInput{}
	}
	if deps.Config == nil {
		deps.Config = config.DefaultEditConfig()
	}

	core := systems.NewEditCore(systems.EditCoreDeps{
		Config:     deps.Config,
		Level:      deps.Level,
		Sounds:     deps.Sounds,
		Repository: deps.Repository,
		Logger:     logger,
	})
	core.Start()

	return &GameplayScene{
		core:         core,
		cfg:          deps.Config,
		sceneManager: deps.SceneManager,
		sound:        deps.SoundControls,
		input:        input,
		logger:       logger.Named("GameplayScene"),
	}
}

// Core 返回编辑核心
func (s *GameplayScene) Core() *systems.EditCore {
	return s.core
}

// Update 处理输入
// 音效键任何阶段都有效；PageDown/PageUp 在编辑阶段切换到下一关/上一关
func (s *GameplayScene) Update(deltaTime float64) {
	s.updateSound()

	if s.sceneManager != nil && s.core.State.Phase == types.PhaseEdit {
		level := s.core.Level.Level().ID
		switch {
		case s.input.IsKeyJustPressed(ebiten.KeyPageDown):
			s.sceneManager.LoadLevel(level + 1)
			return
		case s.input.IsKeyJustPressed(ebiten.KeyPageUp) && level > 1:
			s.sceneManager.LoadLevel(level - 1)
			return
		}
	}

	s.core.Update(s.input)
}

// updateSound 处理音效开关和音量键
func (s *GameplayScene) updateSound() {
	if s.sound == nil {
		return
	}
	keys := s.cfg.Keys
	switch {
	case s.input.IsKeyJustPressed(keys.MuteKey):
		s.sound.SetSoundEnabled(!s.sound.SoundEnabled())
	case s.input.IsKeyJustPressed(keys.VolumeUpKey):
		s.sound.SetSoundVolume(s.sound.GetSoundVolume() + volumeStep)
	case s.input.IsKeyJustPressed(keys.VolumeDownKey):
		s.sound.SetSoundVolume(s.sound.GetSoundVolume() - volumeStep)
	}
}

// OnExit 离开场景：清空放置存储并销毁所有实体
func (s *GameplayScene) OnExit() {
	s.logger.Debug("leaving gameplay scene", zap.Uint("level", uint(s.core.Level.Level().ID)))
	s.core.Shutdown()
}

// Draw 绘制网格、对象、火焰和按钮
func (s *GameplayScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	em := s.core.EntityManager

	for _, id := range s.core.Grid.Tiles() {
		area, ok := ecs.GetComponent[*components.ClickableComponent](em, id)
		if !ok {
			continue
		}
		fillArea(screen, area, 0, tileColor)
		strokeArea(screen, area, tileBorderColor)
	}

	for _, id := range s.core.Objects.Objects() {
		obj, _ := ecs.GetComponent[*components.PlacedObjectComponent](em, id)
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, id)
		area, ok := ecs.GetComponent[*components.ClickableComponent](em, obj.Grid)
		if !ok {
			continue
		}
		// 缩放越大留白越少
		inset := area.Width / (2 + 2*sprite.Scale)
		fillArea(screen, area, inset, itemColors[sprite.AtlasIndex])
		ebitenutil.DebugPrintAt(screen, itemLabels[obj.Item], int(area.X+area.Width/2-3), int(area.Y+area.Height/2-8))
	}

	for _, id := range s.core.Fires.Fires() {
		fire, _ := ecs.GetComponent[*components.FireComponent](em, id)
		tile, ok := s.core.Grid.Lookup(fire.Coord)
		if !ok {
			continue
		}
		area, _ := ecs.GetComponent[*components.ClickableComponent](em, tile)
		size := float32(area.Width / 4)
		vector.DrawFilledRect(screen, float32(area.X)+2, float32(area.Y)+2, size, size, fireColor, false)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.ItemButtonComponent, *components.ClickableComponent](em) {
		button, _ := ecs.GetComponent[*components.ItemButtonComponent](em, id)
		area, _ := ecs.GetComponent[*components.ClickableComponent](em, id)
		fillArea(screen, area, 0, buttonColor)
		fillArea(screen, area, area.Width/4, itemColors[button.Item.VisualIndex()])
		if button.AtlasIndex == components.ItemButtonAtlasHighlighted {
			strokeArea(screen, area, highlightColor)
		}
		ebitenutil.DebugPrintAt(screen, itemLabels[button.Item], int(area.X+area.Width/2-3), int(area.Y+area.Height/2-8))
	}

	for _, id := range ecs.GetEntitiesWith2[*components.RunButtonComponent, *components.ClickableComponent](em) {
		area, _ := ecs.GetComponent[*components.ClickableComponent](em, id)
		clr := runDisabledColor
		if s.core.Phases.HasFireMarker() {
			clr = runButtonColor
		}
		fillArea(screen, area, 0, clr)
		ebitenutil.DebugPrintAt(screen, "RUN", int(area.X+area.Width/2-9), int(area.Y+area.Height/2-8))
	}

	ebitenutil.DebugPrintAt(screen, s.statusLine(), 8, 8)
}

func (s *GameplayScene) statusLine() string {
	level := s.core.Level.Level()
	selected := "none"
	if item, ok := s.core.State.SelectedItem(); ok {
		selected = item.String()
	}
	line := fmt.Sprintf("Level %d %s | Phase: %s | Selected: %s | %s: reset  %s: run",
		level.ID, level.Name, s.core.State.Phase, selected, s.cfg.Keys.Reset, s.cfg.Keys.Run)
	if s.core.Fires.Enabled() {
		line += "  right click: fire"
	}
	if s.sound != nil {
		if s.sound.SoundEnabled() {
			line += fmt.Sprintf(" | Sound %.0f%%", s.sound.GetSoundVolume()*100)
		} else {
			line += " | Sound off"
		}
	}
	return line
}

func fillArea(screen *ebiten.Image, area *components.ClickableComponent, inset float64, clr color.Color) {
	vector.DrawFilledRect(screen,
		float32(area.X+inset), float32(area.Y+inset),
		float32(area.Width-2*inset), float32(area.Height-2*inset),
		clr, false)
}

func strokeArea(screen *ebiten.Image, area *components.ClickableComponent, clr color.Color) {
	vector.StrokeRect(screen, float32(area.X), float32(area.Y), float32(area.Width), float32(area.Height), 2, clr, false)
}
