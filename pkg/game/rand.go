package game

import "math/rand"

// Rand 世界唯一的随机数源
//
// 波次生成、目标选择、射击散布等所有随机决策都从这里取数，
// 固定种子即可在测试中复现同一局。
type Rand struct {
	r *rand.Rand
}

// NewRand 以指定种子创建随机数源
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// Float64 返回 [0, 1) 均匀分布
func (g *Rand) Float64() float64 {
	return g.r.Float64()
}

// Range 返回 [lo, hi) 均匀分布
func (g *Rand) Range(lo, hi float64) float64 {
	return lo + g.r.Float64()*(hi-lo)
}

// Chance 以概率 p 返回 true
func (g *Rand) Chance(p float64) bool {
	return g.r.Float64() < p
}

// Sign 等概率返回 -1 或 1
func (g *Rand) Sign() float64 {
	if g.r.Float64() < 0.5 {
		return -1
	}
	return 1
}
