package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// HostSettings 宿主偏好设置
// 只保存宿主层面的选项，不包含任何对局状态
type HostSettings struct {
	MasterVolume       float64 `yaml:"masterVolume"`       // 主音量 0.0 ~ 1.0
	Muted              bool    `yaml:"muted"`              // 静音
	AutoDefenseOnStart bool    `yaml:"autoDefenseOnStart"` // 开局时打开自动防御
	LastSeed           int64   `yaml:"lastSeed"`           // 上一局使用的随机种子，0 表示按时间生成
}

// DefaultSettings 返回默认设置
func DefaultSettings() *HostSettings {
	return &HostSettings{
		MasterVolume: 0.8,
	}
}

// SettingsManager 设置管理器
// 负责宿主设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	settings     *HostSettings
}

const (
	settingsObject   = "settings"
	settingsProperty = "host"
)

// NewSettingsManager 创建设置管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不是致命错误，使用默认设置并记录警告。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或数据不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.MasterVolume = clampVolume(loaded.MasterVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时直接返回 nil
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 当前设置
func (sm *SettingsManager) GetSettings() *HostSettings {
	return sm.settings
}

// SetMasterVolume 设置主音量，限制在 0.0 ~ 1.0
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetMasterVolume(volume float64) {
	sm.settings.MasterVolume = clampVolume(volume)
}

// ToggleMute 切换静音，返回切换后的状态
func (sm *SettingsManager) ToggleMute() bool {
	sm.settings.Muted = !sm.settings.Muted
	return sm.settings.Muted
}

// SetAutoDefenseOnStart 设置开局时是否打开自动防御
func (sm *SettingsManager) SetAutoDefenseOnStart(enabled bool) {
	sm.settings.AutoDefenseOnStart = enabled
}

// SetLastSeed 记录上一局的随机种子
func (sm *SettingsManager) SetLastSeed(seed int64) {
	sm.settings.LastSeed = seed
}

// EffectiveVolume 静音时为 0，否则为主音量
func (sm *SettingsManager) EffectiveVolume() float64 {
	if sm.settings.Muted {
		return 0
	}
	return sm.settings.MasterVolume
}

func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
