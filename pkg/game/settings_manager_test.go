package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下打开 gdata 存储
func openTestGdata(t *testing.T, app string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestDefaultSettings 测试默认设置
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if settings.MasterVolume != 0.8 {
		t.Errorf("MasterVolume: got %v, want 0.8", settings.MasterVolume)
	}
	if settings.Muted {
		t.Error("Muted: got true, want false")
	}
	if settings.AutoDefenseOnStart {
		t.Error("AutoDefenseOnStart: got true, want false")
	}
	if settings.LastSeed != 0 {
		t.Errorf("LastSeed: got %d, want 0", settings.LastSeed)
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil)
	if sm == nil {
		t.Fatal("NewSettingsManager(nil) returned nil")
	}
	if sm.GetSettings().MasterVolume != 0.8 {
		t.Errorf("Degraded mode MasterVolume: got %v, want 0.8", sm.GetSettings().MasterVolume)
	}
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}
}

// TestSettingsLoadSave 测试保存后重新加载
func TestSettingsLoadSave(t *testing.T) {
	m := openTestGdata(t, "test_overdrive_settings")

	sm1 := NewSettingsManager(m)
	sm1.SetMasterVolume(0.35)
	sm1.ToggleMute()
	sm1.SetAutoDefenseOnStart(true)
	sm1.SetLastSeed(4242)
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2 := NewSettingsManager(m)
	s := sm2.GetSettings()
	if s.MasterVolume != 0.35 {
		t.Errorf("Loaded MasterVolume: got %v, want 0.35", s.MasterVolume)
	}
	if !s.Muted {
		t.Error("Loaded Muted: got false, want true")
	}
	if !s.AutoDefenseOnStart {
		t.Error("Loaded AutoDefenseOnStart: got false, want true")
	}
	if s.LastSeed != 4242 {
		t.Errorf("Loaded LastSeed: got %d, want 4242", s.LastSeed)
	}
}

// TestSettingsLoadCorrupted 测试存储内容损坏时回退默认设置
func TestSettingsLoadCorrupted(t *testing.T) {
	m := openTestGdata(t, "test_overdrive_settings_bad")
	if err := m.SaveObjectProp(settingsObject, settingsProperty, []byte("masterVolume: [oops")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm := NewSettingsManager(m)
	if sm.GetSettings().MasterVolume != 0.8 {
		t.Errorf("Expected defaults after corrupted load, got MasterVolume %v", sm.GetSettings().MasterVolume)
	}
	if err := sm.Load(); err == nil {
		t.Error("Expected error from Load() with corrupted data")
	}
}

// TestSetMasterVolumeClamp 测试音量范围限制
func TestSetMasterVolumeClamp(t *testing.T) {
	sm := NewSettingsManager(nil)
	tests := []struct {
		input    float64
		expected float64
	}{
		{0.5, 0.5},
		{0.0, 0.0},
		{1.0, 1.0},
		{-0.5, 0.0},
		{1.5, 1.0},
	}
	for _, tt := range tests {
		sm.SetMasterVolume(tt.input)
		if got := sm.GetSettings().MasterVolume; got != tt.expected {
			t.Errorf("SetMasterVolume(%v): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}

// TestEffectiveVolume 测试静音时有效音量为 0
func TestEffectiveVolume(t *testing.T) {
	sm := NewSettingsManager(nil)
	sm.SetMasterVolume(0.6)
	if got := sm.EffectiveVolume(); got != 0.6 {
		t.Errorf("Expected 0.6, got %v", got)
	}
	if !sm.ToggleMute() {
		t.Fatal("Expected ToggleMute to return true")
	}
	if got := sm.EffectiveVolume(); got != 0 {
		t.Errorf("Expected 0 when muted, got %v", got)
	}
	if sm.ToggleMute() {
		t.Error("Expected ToggleMute to return false")
	}
}
