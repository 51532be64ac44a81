package config

import (
	"fmt"

	"github.com/decker502/overdrive/pkg/embedded"
	"github.com/decker502/overdrive/pkg/types"
	"gopkg.in/yaml.v3"
)

// TargetBias 型号对不同目标类型的选择权重加成
type TargetBias struct {
	City   float64 `yaml:"city"`
	Base   float64 `yaml:"base"`
	Turret float64 `yaml:"turret"`
}

// VariantStats 单个导弹型号的属性配置
type VariantStats struct {
	SpeedBase        float64    `yaml:"speedBase"`        // 1 级基础速度
	SpeedPerLevel    float64    `yaml:"speedPerLevel"`    // 每级速度增量
	Value            int        `yaml:"value"`            // 击毁基础分值
	Resistance       float64    `yaml:"resistance"`       // 抗性，缩小爆炸判定半径、降低近防命中率
	HitPoints        float64    `yaml:"hitPoints"`        // 生命值
	ZigAmp           Range      `yaml:"zigAmp"`           // 之字摆动幅度
	ZigFreq          Range      `yaml:"zigFreq"`          // 之字摆动频率
	Blast            Range      `yaml:"blast"`            // 撞击爆炸半径
	Homing           Range      `yaml:"homing"`           // 制导系数，0 表示无制导
	ThreatMultiplier float64    `yaml:"threatMultiplier"` // 威胁评估乘数
	TargetBias       TargetBias `yaml:"targetBias"`       // 目标选择加成
}

// Speed 返回指定关卡下的飞行速度
func (s *VariantStats) Speed(level int) float64 {
	return s.SpeedBase + s.SpeedPerLevel*float64(level)
}

// VariantStatsConfig 型号属性配置文件结构
type VariantStatsConfig struct {
	Variants map[string]VariantStats `yaml:"variants"` // 型号名称到属性的映射

	// 校验后按枚举值展开的查找表
	table   [types.VariantCount]VariantStats
	present [types.VariantCount]bool
}

// LoadVariantStats 从 YAML 文件加载型号属性配置
// 参数：
//
//	filepath - 配置文件路径（"data/" 前缀从嵌入数据读取，其余读取磁盘）
//
// 返回：
//
//	*VariantStatsConfig - 解析并建立查找表后的配置
//	error - 读取、解析或校验失败
func LoadVariantStats(filepath string) (*VariantStatsConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read variant stats file %s: %w", filepath, err)
	}

	cfg, err := ParseVariantStats(data)
	if err != nil {
		return nil, fmt.Errorf("invalid variant stats in %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParseVariantStats 从 YAML 字节解析型号属性配置
func ParseVariantStats(data []byte) (*VariantStatsConfig, error) {
	var cfg VariantStatsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse variant stats YAML: %w", err)
	}
	if err := validateVariantStats(&cfg); err != nil {
		return nil, err
	}
	cfg.buildTable()
	return &cfg, nil
}

// validateVariantStats 验证型号属性配置的完整性和合法性
func validateVariantStats(cfg *VariantStatsConfig) error {
	if len(cfg.Variants) == 0 {
		return fmt.Errorf("at least one variant is required")
	}
	if _, ok := cfg.Variants[types.VariantStandard.String()]; !ok {
		return fmt.Errorf("variant %q is required as fallback", types.VariantStandard.String())
	}

	for name, s := range cfg.Variants {
		if _, ok := types.ParseVariant(name); !ok {
			return fmt.Errorf("unknown variant %q", name)
		}
		if s.SpeedBase <= 0 {
			return fmt.Errorf("variant %s: speedBase must be positive, got %v", name, s.SpeedBase)
		}
		if s.SpeedPerLevel < 0 {
			return fmt.Errorf("variant %s: speedPerLevel cannot be negative, got %v", name, s.SpeedPerLevel)
		}
		if s.Value < 0 {
			return fmt.Errorf("variant %s: value cannot be negative, got %d", name, s.Value)
		}
		if s.Resistance < 0 || s.Resistance >= 1 {
			return fmt.Errorf("variant %s: resistance must be in [0,1), got %v", name, s.Resistance)
		}
		if s.HitPoints < 1 {
			return fmt.Errorf("variant %s: hitPoints must be at least 1, got %v", name, s.HitPoints)
		}
		if s.ThreatMultiplier <= 0 {
			return fmt.Errorf("variant %s: threatMultiplier must be positive, got %v", name, s.ThreatMultiplier)
		}
		for field, r := range map[string]Range{
			"zigAmp": s.ZigAmp, "zigFreq": s.ZigFreq, "blast": s.Blast, "homing": s.Homing,
		} {
			if !r.Valid() {
				return fmt.Errorf("variant %s: %s range is inverted [%v, %v]", name, field, r.Min, r.Max)
			}
			if r.Min < 0 {
				return fmt.Errorf("variant %s: %s cannot be negative", name, field)
			}
		}
		if s.Blast.Max <= 0 {
			return fmt.Errorf("variant %s: blast range must be positive", name)
		}
	}
	return nil
}

func (c *VariantStatsConfig) buildTable() {
	for name, s := range c.Variants {
		v, _ := types.ParseVariant(name)
		c.table[v] = s
		c.present[v] = true
	}
}

// Stats 获取型号属性
// 未配置的型号回退到 standard
func (c *VariantStatsConfig) Stats(v types.Variant) *VariantStats {
	if v >= 0 && v < types.VariantCount && c.present[v] {
		return &c.table[v]
	}
	return &c.table[types.VariantStandard]
}

// Has 型号是否在配置中显式定义
func (c *VariantStatsConfig) Has(v types.Variant) bool {
	return v >= 0 && v < types.VariantCount && c.present[v]
}
