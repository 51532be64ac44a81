//go:build !mobile

// Package mobile 是 Missile Command Overdrive 的移动端绑定入口
//
// 桌面构建（go build ./...）只编译本文件，不会初始化游戏，也不嵌入 mobile/data。
// 移动端入口见 mobile.go，需要 -tags mobile。
package mobile

// Enabled 桌面构建中始终为 false
func Enabled() bool { return false }
