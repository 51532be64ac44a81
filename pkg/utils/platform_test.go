//go:build !mobile

package utils

import "testing"

func TestIsMobileDesktop(t *testing.T) {
	t.Run("默认不是移动端", func(t *testing.T) {
		t.Setenv(MobileEmulateEnv, "")
		if IsMobile() {
			t.Error("Expected IsMobile() false on desktop")
		}
	})

	t.Run("环境变量模拟移动端", func(t *testing.T) {
		t.Setenv(MobileEmulateEnv, "1")
		if !IsMobile() {
			t.Error("Expected IsMobile() true with emulation enabled")
		}
	})
}
