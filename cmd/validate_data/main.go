// validate_data 校验 data/ 下的配置表并打印各关卡的波次概况
//
//	go run ./cmd/validate_data -dir data -levels 30
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decker502/overdrive/pkg/config"
	"github.com/decker502/overdrive/pkg/types"
)

func main() {
	dir := flag.String("dir", "data", "配置表目录（磁盘路径）")
	levels := flag.Int("levels", 20, "打印前 N 关的波次概况")
	flag.Parse()

	// 绝对路径绕过嵌入数据，直接读取磁盘
	abs, err := filepath.Abs(*dir)
	if err != nil {
		fmt.Printf("❌ 无效目录 %s: %v\n", *dir, err)
		os.Exit(1)
	}
	bundle, err := config.LoadBundle(abs)
	if err != nil {
		fmt.Printf("❌ 配置表校验失败: %v\n", err)
		os.Exit(1)
	}

	pf := bundle.Defense.Playfield
	fmt.Printf("✅ %s: %d 个型号\n", config.VariantStatsFile, len(bundle.Variants.Variants))
	fmt.Printf("✅ %s: %d 条航道, %d 个型号权重\n", config.WaveRulesFile, len(bundle.Waves.Lanes), len(bundle.Waves.Variants))
	fmt.Printf("✅ %s: 战场 %.0fx%.0f, 地面 %.1f, 地平线 %.1f\n",
		config.DefenseFile, pf.Width, pf.Height, pf.GroundY(), pf.HorizonY())

	for v := types.Variant(0); v < types.VariantCount; v++ {
		if !bundle.Variants.Has(v) {
			fmt.Printf("⚠️  型号 %s 没有属性，无法生成\n", v)
		}
	}

	fmt.Println()
	for level := 1; level <= *levels; level++ {
		unlocked := bundle.Waves.UnlockedAt(level)
		names := make([]string, 0, len(unlocked))
		for v := range unlocked {
			names = append(names, v.String())
		}
		sort.Strings(names)
		fmt.Printf("L%-3d plan=%-4d aircraft=%d raiders=%d  %s\n",
			level,
			bundle.Waves.TotalAt(level),
			bundle.Waves.Aircraft.QuotaAt(level),
			bundle.Waves.Raiders.QuotaAt(level),
			strings.Join(names, ","))
	}
}
