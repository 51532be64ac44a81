// Package types 定义共享的基础类型
package types

import "fmt"

// Variant 定义来袭导弹的型号
//
// 型号决定速度、分值、抗性和机动方式，具体数值见 data/variant_stats.yaml。
// 创建导弹时查表一次，之后每帧不再按型号分派。
type Variant int

const (
	VariantStandard Variant = iota // 普通弹
	VariantFast                    // 快速弹
	VariantZig                     // 之字机动弹
	VariantStealth                 // 隐身弹
	VariantDecoy                   // 诱饵（命中无伤害）
	VariantSplit                   // 分裂弹
	VariantShard                   // 分裂后的子弹头
	VariantHeavy                   // 重型弹
	VariantCruise                  // 巡航弹（侧向进入，偏好基地）
	VariantCarrier                 // 装甲运载弹（3 点生命）
	VariantDrone                   // 无人机
	VariantUfoBomb                 // 飞碟投弹
	VariantSpit                    // 突袭机散射弹
	VariantHell                    // 地狱弹

	// VariantCount 型号总数（用于定长查表）
	VariantCount
)

var variantNames = [VariantCount]string{
	VariantStandard: "standard",
	VariantFast:     "fast",
	VariantZig:      "zig",
	VariantStealth:  "stealth",
	VariantDecoy:    "decoy",
	VariantSplit:    "split",
	VariantShard:    "shard",
	VariantHeavy:    "heavy",
	VariantCruise:   "cruise",
	VariantCarrier:  "carrier",
	VariantDrone:    "drone",
	VariantUfoBomb:  "ufoBomb",
	VariantSpit:     "spit",
	VariantHell:     "hell",
}

// String 返回型号在配置文件中使用的名称
func (v Variant) String() string {
	if v < 0 || v >= VariantCount {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return variantNames[v]
}

// ParseVariant 将配置名称解析为型号
// 返回：
//   - Variant: 解析结果
//   - bool: 名称是否有效
func ParseVariant(name string) (Variant, bool) {
	for i, n := range variantNames {
		if n == name {
			return Variant(i), true
		}
	}
	return VariantStandard, false
}

// IsHeavyClass 重型类弹头（撞击爆炸更大、持续更久）
func (v Variant) IsHeavyClass() bool {
	return v == VariantHeavy || v == VariantCarrier || v == VariantHell
}

// HasZigPhase 是否在创建时随机化摆动相位
func (v Variant) HasZigPhase() bool {
	switch v {
	case VariantZig, VariantDrone, VariantCruise, VariantSpit, VariantHell:
		return true
	}
	return false
}

// MarshalText 实现 encoding.TextMarshaler（YAML/日志使用名称而非数字）
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, ok := ParseVariant(string(text))
	if !ok {
		return fmt.Errorf("unknown variant %q", string(text))
	}
	*v = parsed
	return nil
}
