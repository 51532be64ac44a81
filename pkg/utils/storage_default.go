//go:build !android

package utils

// EnsureStorageDir 非 Android 平台由 gdata 自行创建设置目录
func EnsureStorageDir() error {
	return nil
}

// StoragePath 非 Android 平台返回空字符串
func StoragePath() string {
	return ""
}
