package config

import (
	"fmt"
	"path"

	"github.com/decker502/overdrive/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// PlayfieldConfig 战场几何
type PlayfieldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundRatio  float64 `yaml:"groundRatio"`  // 地面高度 = Height * GroundRatio
	HorizonRatio float64 `yaml:"horizonRatio"` // 地平线高度 = Height * HorizonRatio
}

// GroundY 地面 Y 坐标
func (p PlayfieldConfig) GroundY() float64 { return p.Height * p.GroundRatio }

// HorizonY 地平线 Y 坐标
func (p PlayfieldConfig) HorizonY() float64 { return p.Height * p.HorizonRatio }

// ThreatSearch 来袭导弹拦截点搜索参数
//
// 这些步长和容差是经验值，修改会改变自动防御的行为。
type ThreatSearch struct {
	Start        float64 `yaml:"start"`        // 起始采样时间（秒）
	Step         float64 `yaml:"step"`         // 采样步长（秒）
	Tolerance    float64 `yaml:"tolerance"`    // 到达时间误差容差（秒）
	MinRemaining float64 `yaml:"minRemaining"` // 剩余飞行时间低于此值时不再搜索
	GroundMargin float64 `yaml:"groundMargin"` // 预测点距地面小于此值视为无解
	SideMargin   float64 `yaml:"sideMargin"`   // 预测点超出左右边界此值视为无解
}

// AircraftSearch 飞碟拦截点搜索参数
type AircraftSearch struct {
	Start        float64 `yaml:"start"`
	Step         float64 `yaml:"step"`
	Tolerance    float64 `yaml:"tolerance"`
	Horizon      float64 `yaml:"horizon"`      // 搜索时间上限（秒）
	SideMargin   float64 `yaml:"sideMargin"`   // 左右边界内缩
	TopMargin    float64 `yaml:"topMargin"`    // 顶部边界内缩
	GroundMargin float64 `yaml:"groundMargin"` // 地面上方保留高度
}

// InterceptConfig 拦截搜索配置
type InterceptConfig struct {
	Threat   ThreatSearch   `yaml:"threat"`
	Aircraft AircraftSearch `yaml:"aircraft"`
}

// DefenseConfig 防御系统配置文件结构
type DefenseConfig struct {
	Playfield PlayfieldConfig `yaml:"playfield"`
	MaxStep   float64         `yaml:"maxStep"` // 单帧最大步长（秒）
	Intercept InterceptConfig `yaml:"intercept"`
}

// LoadDefenseConfig 从 YAML 文件加载防御配置
func LoadDefenseConfig(filepath string) (*DefenseConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read defense config file %s: %w", filepath, err)
	}

	var cfg DefenseConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse defense config YAML from %s: %w", filepath, err)
	}

	if err := validateDefenseConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid defense config in %s: %w", filepath, err)
	}
	return &cfg, nil
}

// validateDefenseConfig 验证防御配置
func validateDefenseConfig(cfg *DefenseConfig) error {
	p := cfg.Playfield
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("playfield size must be positive, got %vx%v", p.Width, p.Height)
	}
	if p.GroundRatio <= 0 || p.GroundRatio > 1 {
		return fmt.Errorf("playfield groundRatio must be in (0,1], got %v", p.GroundRatio)
	}
	if p.HorizonRatio <= 0 || p.HorizonRatio >= p.GroundRatio {
		return fmt.Errorf("playfield horizonRatio must be in (0, groundRatio), got %v", p.HorizonRatio)
	}
	if cfg.MaxStep <= 0 {
		return fmt.Errorf("maxStep must be positive, got %v", cfg.MaxStep)
	}

	t := cfg.Intercept.Threat
	if t.Step <= 0 || t.Tolerance <= 0 || t.Start < 0 {
		return fmt.Errorf("intercept.threat: step and tolerance must be positive, start non-negative")
	}
	a := cfg.Intercept.Aircraft
	if a.Step <= 0 || a.Tolerance <= 0 || a.Start < 0 {
		return fmt.Errorf("intercept.aircraft: step and tolerance must be positive, start non-negative")
	}
	if a.Horizon <= a.Start {
		return fmt.Errorf("intercept.aircraft: horizon %v must exceed start %v", a.Horizon, a.Start)
	}
	return nil
}

// Bundle 模拟所需的全部配置表
type Bundle struct {
	Variants *VariantStatsConfig
	Waves    *WaveRulesConfig
	Defense  *DefenseConfig
}

// 配置文件名
const (
	VariantStatsFile = "variant_stats.yaml"
	WaveRulesFile    = "wave_rules.yaml"
	DefenseFile      = "defense.yaml"
)

// LoadBundle 从目录加载全部配置表
// 参数：
//
//	dir - 配置目录（"data" 读取嵌入数据，其他目录读取磁盘）
func LoadBundle(dir string) (*Bundle, error) {
	variants, err := LoadVariantStats(path.Join(dir, VariantStatsFile))
	if err != nil {
		return nil, err
	}
	waves, err := LoadWaveRules(path.Join(dir, WaveRulesFile))
	if err != nil {
		return nil, err
	}
	defense, err := LoadDefenseConfig(path.Join(dir, DefenseFile))
	if err != nil {
		return nil, err
	}

	// 波次规则引用的型号必须在属性表中存在
	for _, vw := range waves.Variants {
		if !variants.Has(vw.Variant) {
			return nil, fmt.Errorf("wave rules reference variant %s missing from %s", vw.Variant, VariantStatsFile)
		}
	}

	return &Bundle{Variants: variants, Waves: waves, Defense: defense}, nil
}
