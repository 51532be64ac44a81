package components

import "github.com/decker502/overdrive/pkg/types"

// PlanEntry 波次生成计划条目
// 整个计划在波次开始时生成一次，按 Time 升序消费
type PlanEntry struct {
	Variant types.Variant
	Time    float64 // 相对波次开始的时间（秒）
	Lane    float64 // 横向通道偏移（相对屏幕中心的比例）
}
