//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 在打开 gdata 之前创建 Android 的设置目录
//
// gdata 在 Android 上写入 /data/data/{package}/，但不会预先创建子目录，
// 目录不存在或不可写时设置无法保存。
func EnsureStorageDir() error {
	root := StoragePath()
	if root == "" {
		return fmt.Errorf("cannot detect Android package name")
	}
	dir := filepath.Join(root, "saves")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create settings dir %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("settings dir %s not writable: %w", dir, err)
	}
	return os.Remove(probe)
}

// StoragePath Android 应用的私有数据目录，检测失败时返回空字符串
func StoragePath() string {
	cmdline, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	// cmdline 以 NUL 分隔，第一段即包名
	pkg, _, _ := bytes.Cut(cmdline, []byte{0})
	pkg = bytes.TrimSpace(pkg)
	if len(pkg) == 0 {
		return ""
	}
	return filepath.Join("/data/data", string(pkg))
}
