//go:build mobile

// embed.go - 移动端数据表嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前需要把根目录的 data/*.yaml 复制到 mobile/data/：
//
//	mkdir -p mobile/data && cp data/*.yaml mobile/data/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed data/variant_stats.yaml data/wave_rules.yaml data/defense.yaml
var dataFS embed.FS
