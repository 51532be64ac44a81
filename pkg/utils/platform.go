//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设置为 "1" 时桌面端按移动端处理（本地调试触屏布局）
const MobileEmulateEnv = "OVERDRIVE_MOBILE_EMULATE"

// IsMobile 是否运行在移动设备上
// 桌面端编译时只看 MobileEmulateEnv
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
