package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Settings 全局设置
// 与关卡无关，跨关卡、跨前端共享
type Settings struct {
	ShowIndicators bool   `yaml:"showIndicators"` // 是否显示可达范围指示器
	SoundEnabled   bool   `yaml:"soundEnabled"`   // 提示音开关（终端前端）
	Fullscreen     bool   `yaml:"fullscreen"`     // 启动时是否全屏
	LastLevel      string `yaml:"lastLevel"`      // 最近一次加载的关卡路径
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{
		ShowIndicators: true,
		SoundEnabled:   true,
		Fullscreen:     false,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	settings     *Settings
}

const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建设置管理器，并尝试加载已保存的设置
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil
//
// 返回：
//   - *SettingsManager: 设置管理器实例（加载失败时使用默认设置）
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

// OpenStorage 打开 gdata 存储
// 失败时返回 nil 并记录日志，调用方进入降级模式
func OpenStorage(appName string) *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: gdata unavailable: %v (settings will not persist)", err)
		return nil
	}
	return m
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或尚无保存记录时使用默认设置
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

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// 降级模式下直接返回 nil
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

// Persistent 是否能持久化
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *Settings {
	return sm.settings
}

// ToggleIndicators 切换指示器显示，返回切换后的值
// 注意：仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) ToggleIndicators() bool {
	sm.settings.ShowIndicators = !sm.settings.ShowIndicators
	return sm.settings.ShowIndicators
}

// SetSoundEnabled 设置提示音开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetLastLevel 记录最近加载的关卡
func (sm *SettingsManager) SetLastLevel(path string) {
	sm.settings.LastLevel = path
}
