package config

import (
	"fmt"
	"math"

	"github.com/decker502/overdrive/pkg/embedded"
	"github.com/decker502/overdrive/pkg/types"
	"gopkg.in/yaml.v3"
)

// LaneWeight 横向进场通道及其权重
// Offset 为相对屏幕中心的比例偏移（-1 ~ 1）
type LaneWeight struct {
	Offset float64 `yaml:"offset"`
	Weight float64 `yaml:"weight"`
}

// VariantWeight 按关卡解锁的型号权重
//
// 关卡 > UnlockAfter 时权重为 Weight + PerLevel*关卡，否则为 LockedWeight。
type VariantWeight struct {
	Variant      types.Variant `yaml:"variant"`
	UnlockAfter  int           `yaml:"unlockAfter"`
	Weight       float64       `yaml:"weight"`
	PerLevel     float64       `yaml:"perLevel"`
	LockedWeight float64       `yaml:"lockedWeight"`
}

// WeightAt 返回指定关卡下的权重
func (w VariantWeight) WeightAt(level int) float64 {
	if level > w.UnlockAfter {
		return w.Weight + w.PerLevel*float64(level)
	}
	return w.LockedWeight
}

// SalvoRules 齐射规则
type SalvoRules struct {
	BaseChance   float64 `yaml:"baseChance"`
	PerLevel     float64 `yaml:"perLevel"`
	MaxChance    float64 `yaml:"maxChance"`
	TripleChance float64 `yaml:"tripleChance"` // 齐射为 3 发的概率（否则 2 发）
	Offset       Range   `yaml:"offset"`       // 齐射内每发的时间偏移系数
}

// ChanceAt 返回指定关卡的齐射概率
func (s SalvoRules) ChanceAt(level int) float64 {
	c := s.BaseChance + s.PerLevel*float64(level)
	return math.Max(s.BaseChance, math.Min(s.MaxChance, c))
}

// GapRules 相邻生成之间的时间间隔规则
type GapRules struct {
	Base     float64 `yaml:"base"`
	PerLevel float64 `yaml:"perLevel"`
	Min      float64 `yaml:"min"`
	Jitter   Range   `yaml:"jitter"`
}

// BaseAt 返回指定关卡的基础间隔（不含抖动）
func (g GapRules) BaseAt(level int) float64 {
	return math.Max(g.Min, g.Base-g.PerLevel*float64(level))
}

// QuotaRules 飞碟/突袭机的每波配额与出现间隔
//
// 配额 = min(QuotaMax, QuotaBase + (关卡 - LevelOffset) / LevelsPerExtra)，关卡 < StartLevel 时为 0。
// 再次出现时间 = 当前 + Respawn - min(ShrinkMax, ShrinkPerLevel*关卡)。
type QuotaRules struct {
	StartLevel     int     `yaml:"startLevel"`
	QuotaBase      int     `yaml:"quotaBase"`
	LevelOffset    int     `yaml:"levelOffset"`
	LevelsPerExtra int     `yaml:"levelsPerExtra"`
	QuotaMax       int     `yaml:"quotaMax"`
	FirstDelay     Range   `yaml:"firstDelay"`
	Respawn        Range   `yaml:"respawn"`
	ShrinkPerLevel float64 `yaml:"shrinkPerLevel"`
	ShrinkMax      float64 `yaml:"shrinkMax"`
}

// QuotaAt 返回指定关卡的配额
func (q QuotaRules) QuotaAt(level int) int {
	if level < q.StartLevel {
		return 0
	}
	n := q.QuotaBase + (level-q.LevelOffset)/q.LevelsPerExtra
	if n > q.QuotaMax {
		n = q.QuotaMax
	}
	return n
}

// Shrink 返回指定关卡下出现间隔的缩短量
func (q QuotaRules) Shrink(level int) float64 {
	return math.Min(q.ShrinkMax, q.ShrinkPerLevel*float64(level))
}

// WaveRulesConfig 波次生成规则
type WaveRulesConfig struct {
	BaseCount     int             `yaml:"baseCount"`     // 1 级之前的基础数量
	PerLevelCount int             `yaml:"perLevelCount"` // 每级增加数量
	Lanes         []LaneWeight    `yaml:"lanes"`
	LaneJitter    float64         `yaml:"laneJitter"`
	Variants      []VariantWeight `yaml:"variants"`
	Salvo         SalvoRules      `yaml:"salvo"`
	Gap           GapRules        `yaml:"gap"`
	Aircraft      QuotaRules      `yaml:"aircraft"`
	Raiders       QuotaRules      `yaml:"raiders"`
}

// TotalAt 返回指定关卡的生成总数
func (c *WaveRulesConfig) TotalAt(level int) int {
	return c.BaseCount + c.PerLevelCount*level
}

// UnlockedAt 返回指定关卡下权重为正的型号集合
func (c *WaveRulesConfig) UnlockedAt(level int) map[types.Variant]bool {
	out := make(map[types.Variant]bool, len(c.Variants))
	for _, vw := range c.Variants {
		if vw.WeightAt(level) > 0 {
			out[vw.Variant] = true
		}
	}
	return out
}

// LoadWaveRules 从 YAML 文件加载波次规则
func LoadWaveRules(filepath string) (*WaveRulesConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wave rules file %s: %w", filepath, err)
	}

	var cfg WaveRulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse wave rules YAML from %s: %w", filepath, err)
	}

	if err := validateWaveRules(&cfg); err != nil {
		return nil, fmt.Errorf("invalid wave rules in %s: %w", filepath, err)
	}
	return &cfg, nil
}

// validateWaveRules 验证波次规则
func validateWaveRules(cfg *WaveRulesConfig) error {
	if cfg.BaseCount < 0 || cfg.PerLevelCount < 0 {
		return fmt.Errorf("baseCount and perLevelCount cannot be negative")
	}
	if cfg.BaseCount+cfg.PerLevelCount <= 0 {
		return fmt.Errorf("level 1 must spawn at least one threat")
	}
	if len(cfg.Lanes) == 0 {
		return fmt.Errorf("at least one lane is required")
	}
	laneTotal := 0.0
	for i, l := range cfg.Lanes {
		if l.Weight < 0 {
			return fmt.Errorf("lane %d: weight cannot be negative, got %v", i, l.Weight)
		}
		if l.Offset < -1 || l.Offset > 1 {
			return fmt.Errorf("lane %d: offset must be in [-1,1], got %v", i, l.Offset)
		}
		laneTotal += l.Weight
	}
	if laneTotal <= 0 {
		return fmt.Errorf("lane weights must sum to a positive value")
	}
	if len(cfg.Variants) == 0 {
		return fmt.Errorf("at least one variant weight is required")
	}
	seen := make(map[types.Variant]bool)
	for _, vw := range cfg.Variants {
		if seen[vw.Variant] {
			return fmt.Errorf("variant %s listed twice", vw.Variant)
		}
		seen[vw.Variant] = true
		if vw.Weight < 0 || vw.PerLevel < 0 || vw.LockedWeight < 0 {
			return fmt.Errorf("variant %s: weights cannot be negative", vw.Variant)
		}
	}
	if len(cfg.UnlockedAt(1)) == 0 {
		return fmt.Errorf("no variant is available at level 1")
	}
	if cfg.Salvo.MaxChance < cfg.Salvo.BaseChance || cfg.Salvo.MaxChance > 1 {
		return fmt.Errorf("salvo: maxChance must be in [baseChance, 1]")
	}
	if !cfg.Salvo.Offset.Valid() || !cfg.Gap.Jitter.Valid() {
		return fmt.Errorf("salvo offset and gap jitter ranges must be ordered")
	}
	if cfg.Gap.Min <= 0 {
		return fmt.Errorf("gap: min must be positive, got %v", cfg.Gap.Min)
	}
	for name, q := range map[string]QuotaRules{"aircraft": cfg.Aircraft, "raiders": cfg.Raiders} {
		if q.LevelsPerExtra <= 0 {
			return fmt.Errorf("%s: levelsPerExtra must be positive", name)
		}
		if q.QuotaMax < 0 || q.QuotaBase < 0 {
			return fmt.Errorf("%s: quotas cannot be negative", name)
		}
		if !q.FirstDelay.Valid() || !q.Respawn.Valid() {
			return fmt.Errorf("%s: delay ranges must be ordered", name)
		}
	}
	return nil
}
