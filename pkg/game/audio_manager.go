package game

import (
	"encoding/binary"
	"errors"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

// SoundPlayer 音效播放接口
// 编辑核心只发出播放请求，资源缺失时静默跳过
type SoundPlayer interface {
	PlaySound(soundID string) bool
}

// AudioManager 音频管理器
// 职责：
//   - 按资源ID管理音效播放器
//   - 从 SettingsManager 读取音量和开关
type AudioManager struct {
	context         *audio.Context           // 可为 nil（无音频设备或测试环境）
	settingsManager *SettingsManager         // 可为 nil
	soundPlayers    map[string]*audio.Player // 资源ID -> 播放器
	logger          *zap.Logger
}

// NewAudioManager 创建音频管理器
func NewAudioManager(ctx *audio.Context, sm *SettingsManager, logger *zap.Logger) *AudioManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		soundPlayers:    make(map[string]*audio.Player),
		logger:          logger.Named("AudioManager"),
	}
}

// RegisterSound 注册音效播放器，同一ID会被覆盖
func (am *AudioManager) RegisterSound(soundID string, player *audio.Player) {
	if player == nil {
		delete(am.soundPlayers, soundID)
		return
	}
	am.soundPlayers[soundID] = player
}

// RegisterPCM 使用 16 位小端立体声 PCM 数据注册音效
func (am *AudioManager) RegisterPCM(soundID string, pcm []byte) error {
	if am.context == nil {
		return errors.New("audio context not available")
	}
	am.RegisterSound(soundID, am.context.NewPlayerFromBytes(pcm))
	return nil
}

// HasSound 检查音效是否已注册
func (am *AudioManager) HasSound(soundID string) bool {
	_, ok := am.soundPlayers[soundID]
	return ok
}

// PlaySound 播放音效
// 音效ID为空、未注册或音效被禁用时返回 false
func (am *AudioManager) PlaySound(soundID string) bool {
	if am == nil || soundID == "" {
		return false
	}

	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player, ok := am.soundPlayers[soundID]
	if !ok {
		am.logger.Debug("sound not registered", zap.String("sound", soundID))
		return false
	}

	player.SetVolume(am.soundVolume())
	if err := player.Rewind(); err != nil {
		am.logger.Warn("failed to rewind sound", zap.String("sound", soundID), zap.Error(err))
	}
	player.Play()
	return true
}

// SetSoundVolume 设置音效音量，立即应用到所有已注册的播放器
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(am.soundVolume())
	}
}

// SetSoundEnabled 设置音效开关
func (am *AudioManager) SetSoundEnabled(enabled bool) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundEnabled(enabled)
	}
	am.logger.Debug("sound toggled", zap.Bool("enabled", enabled))
}

// SoundEnabled 音效是否开启（没有设置管理器时视为开启）
func (am *AudioManager) SoundEnabled() bool {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundEnabled
	}
	return DefaultSettings().SoundEnabled
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.soundVolume()
}

func (am *AudioManager) soundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return DefaultSettings().SoundVolume
}

// SynthesizeTone 生成一段带线性衰减的正弦波（16 位小端立体声 PCM）
// 没有音频资源时用作占位音效
func SynthesizeTone(sampleRate int, frequency float64, d time.Duration) []byte {
	if sampleRate <= 0 || d <= 0 {
		return nil
	}
	samples := int(float64(sampleRate) * d.Seconds())
	buf := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		envelope := 1 - float64(i)/float64(samples)
		v := math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate)) * envelope * 0.3
		s := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*4:], s)
		binary.LittleEndian.PutUint16(buf[i*4+2:], s)
	}
	return buf
}
