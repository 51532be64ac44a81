// Package embedded 提供嵌入数据表的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量声明在项目根目录（embed.go），本包提供包装函数。
//
// 以 "data/" 开头的路径从嵌入文件系统读取；其他路径（测试夹具、
// 命令行指定的配置目录）直接读取磁盘。
package embedded

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const dataPrefix = "data/"

var (
	dataFS      embed.FS
	initialized bool
)

// Init 初始化嵌入数据
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data embed.FS) {
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符并移除 "./" 前缀
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// isEmbeddedPath 路径是否应从嵌入文件系统读取
func isEmbeddedPath(path string) bool {
	return strings.HasPrefix(path, dataPrefix)
}

// ReadFile 读取文件内容
//
// "data/" 前缀的路径需要先调用 Init()；
// 其余路径按本地文件读取。
func ReadFile(path string) ([]byte, error) {
	path = normalize(path)
	if !isEmbeddedPath(path) {
		return os.ReadFile(path)
	}
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first (path %s)", path)
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	path = normalize(path)
	if !isEmbeddedPath(path) {
		_, err := os.Stat(path)
		return err == nil
	}
	if !initialized {
		return false
	}
	_, err := fs.Stat(dataFS, path)
	return err == nil
}

// Glob 在嵌入数据中匹配文件，模式必须以 "data/" 开头
func Glob(pattern string) ([]string, error) {
	pattern = normalize(pattern)
	if !isEmbeddedPath(pattern) {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", pattern)
	}
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	return fs.Glob(dataFS, pattern)
}
