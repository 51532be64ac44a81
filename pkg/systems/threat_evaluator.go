package systems

import (
	"math"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/utils"
)

// Weighted 加权候选项
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// TotalWeight 候选池的正权重之和
func TotalWeight[T any](pool []Weighted[T]) float64 {
	total := 0.0
	for _, p := range pool {
		if p.Weight > 0 {
			total += p.Weight
		}
	}
	return total
}

// PickWeighted 累积权重抽样
//
// draw 应落在 [0, TotalWeight) 内。沿累积和遍历，返回第一个累积和 >= draw 的候选；
// 权重非正的候选被跳过，浮点误差导致未命中时退化为最后一个有效候选。
// 候选池为空或总权重为 0 时返回 false。
func PickWeighted[T any](pool []Weighted[T], draw float64) (T, bool) {
	var zero T
	acc := 0.0
	last := -1
	for i, p := range pool {
		if p.Weight <= 0 {
			continue
		}
		last = i
		acc += p.Weight
		if acc >= draw {
			return p.Item, true
		}
	}
	if last < 0 {
		return zero, false
	}
	return pool[last].Item, true
}

// DrawWeighted 使用世界随机源做一次加权抽样
func DrawWeighted[T any](rng *game.Rand, pool []Weighted[T]) (T, bool) {
	total := TotalWeight(pool)
	if total <= 0 {
		var zero T
		return zero, false
	}
	return PickWeighted(pool, rng.Float64()*total)
}

// Intercept 拦截解：拦截点与拦截弹飞行时间
type Intercept struct {
	X, Y float64
	T    float64
}

// ThreatScore 来袭导弹的威胁评分
// 目标类型加成 × 型号乘数 + 剩余时间倒数项 + 速度项 + 额外生命值项
func ThreatScore(w *game.World, t *components.Threat) float64 {
	ti := 1.0
	if t.Duration > 0 {
		ti = t.Duration - t.Elapsed
	}
	tv := 70.0
	switch t.Target.Kind {
	case components.TargetCity, components.TargetBase:
		tv = 120
	}
	mul := w.Config.Variants.Stats(t.Variant).ThreatMultiplier
	hpBonus := math.Max(0, t.HitPoints-1) * 42
	return tv*mul + 128/(ti+0.75) + t.Speed*0.18 + hpBonus
}

// AircraftThreatScore 飞碟的威胁评分，越靠近存活城市越高
func AircraftThreatScore(w *game.World, a *components.Aircraft) float64 {
	reach := w.Width * 0.16
	near := 0.0
	for _, c := range w.Cities {
		if c.Destroyed {
			continue
		}
		d := math.Abs(c.X - a.X)
		if d < reach {
			near = math.Max(near, 1-d/reach)
		}
	}
	return 168 + near*110 + math.Abs(a.VX)*0.42 + float64(3-a.HitPoints)*34
}

// PredictThreat 预测来袭导弹 ahead 秒后的位置（直线段加之字摆动）
func PredictThreat(t *components.Threat, ahead float64) (float64, float64) {
	local := utils.Clamp(t.Elapsed+ahead, 0, t.Duration)
	pp := 1.0
	if t.Duration > 0 {
		pp = local / t.Duration
	}
	x := t.StartX + t.VX*local
	y := t.StartY + t.VY*local
	if t.ZigAmp > 0 {
		x += math.Sin(pp*t.ZigFreq*utils.TAU+t.ZigPhase) * t.ZigAmp * (1 - pp*0.5)
	}
	return x, y
}

// FindIntercept 搜索拦截来袭导弹的时间点
//
// 沿时间轴以固定步长前向采样导弹的预测位置，要求恒速拦截弹从 (sx, sy) 出发
// 到达该点的时间与采样时间之差不超过容差；满足条件的候选中取
// 误差*8 + 时间*0.07 最小者。预测点接近地面或离开战场的采样被跳过。
func FindIntercept(w *game.World, sx, sy float64, t *components.Threat, speed float64) (Intercept, bool) {
	cfg := w.Config.Defense.Intercept.Threat
	rem := t.Duration - t.Elapsed
	if rem <= cfg.MinRemaining || speed <= 0 {
		return Intercept{}, false
	}

	var best Intercept
	found := false
	bestQ := math.MaxFloat64
	for ahead := cfg.Start; ahead < rem; ahead += cfg.Step {
		px, py := PredictThreat(t, ahead)
		if py >= w.GroundY-cfg.GroundMargin || px < -cfg.SideMargin || px > w.Width+cfg.SideMargin {
			continue
		}
		travel := utils.Dist(sx, sy, px, py) / speed
		err := math.Abs(travel - ahead)
		if err > cfg.Tolerance {
			continue
		}
		q := err*8 + ahead*0.07
		if q < bestQ {
			bestQ = q
			best = Intercept{X: px, Y: py, T: ahead}
			found = true
		}
	}
	return best, found
}

// PredictAircraft 预测飞碟 ahead 秒后的位置（匀速横移加上下浮动）
func PredictAircraft(a *components.Aircraft, now, ahead float64) (float64, float64) {
	x := a.X + a.VX*ahead
	y := a.Y + math.Sin((now+ahead)*2+a.BobPhase)*12
	return x, y
}

// FindAircraftIntercept 搜索拦截飞碟的时间点，搜索上限由配置给出
func FindAircraftIntercept(w *game.World, sx, sy float64, a *components.Aircraft, speed, now float64) (Intercept, bool) {
	cfg := w.Config.Defense.Intercept.Aircraft
	if speed <= 0 {
		return Intercept{}, false
	}

	var best Intercept
	found := false
	bestQ := math.MaxFloat64
	for ahead := cfg.Start; ahead < cfg.Horizon; ahead += cfg.Step {
		x, y := PredictAircraft(a, now, ahead)
		if x < cfg.SideMargin || x > w.Width-cfg.SideMargin || y < cfg.TopMargin || y > w.GroundY-cfg.GroundMargin {
			continue
		}
		travel := utils.Dist(sx, sy, x, y) / speed
		err := math.Abs(travel - ahead)
		if err > cfg.Tolerance {
			continue
		}
		q := err*8 + ahead*0.12 + math.Abs(sx-x)*0.0007
		if q < bestQ {
			bestQ = q
			best = Intercept{X: x, Y: y, T: ahead}
			found = true
		}
	}
	return best, found
}

// lockCandidate 制导拦截弹/发射井候选目标
type lockCandidate struct {
	Lock components.LockRef
	X, Y float64
}

// collectLockPool 以 (ox, oy) 为中心收集 900 范围内的加权空中目标
// 距离越近权重越高，每个候选权重至少为 1
func collectLockPool(w *game.World, ox, oy, aircraftWeight, bossWeight float64) []Weighted[lockCandidate] {
	var pool []Weighted[lockCandidate]
	distWeight := func(x, y float64) (float64, bool) {
		d := utils.Dist(ox, oy, x, y)
		if d > 900 {
			return 0, false
		}
		return 1 / (0.38 + d*0.0034), true
	}
	for _, t := range w.Threats {
		if t.Y > w.GroundY+18 {
			continue
		}
		dw, ok := distWeight(t.X, t.Y)
		if !ok {
			continue
		}
		base := 80.0
		if t.Target.Kind == components.TargetCity {
			base += 46
		}
		pool = append(pool, Weighted[lockCandidate]{
			Item:   lockCandidate{Lock: components.LockRef{Kind: components.LockThreat, ID: t.ID}, X: t.X, Y: t.Y},
			Weight: math.Max(1, base*dw),
		})
	}
	for _, a := range w.Aircraft {
		dw, ok := distWeight(a.X, a.Y)
		if !ok {
			continue
		}
		base := aircraftWeight
		if a.Boss {
			base = bossWeight
		}
		pool = append(pool, Weighted[lockCandidate]{
			Item:   lockCandidate{Lock: components.LockRef{Kind: components.LockAircraft, ID: a.ID}, X: a.X, Y: a.Y},
			Weight: math.Max(1, base*dw),
		})
	}
	for _, r := range w.Raiders {
		dw, ok := distWeight(r.X, r.Y)
		if !ok {
			continue
		}
		pool = append(pool, Weighted[lockCandidate]{
			Item:   lockCandidate{Lock: components.LockRef{Kind: components.LockRaider, ID: r.ID}, X: r.X, Y: r.Y},
			Weight: math.Max(1, 228*dw),
		})
	}
	return pool
}

// lockPoint 解析锁定目标并返回带提前量的瞄准点，目标不存在时返回 false
func lockPoint(w *game.World, ref components.LockRef, lead float64) (float64, float64, bool) {
	switch ref.Kind {
	case components.LockThreat:
		if t, _ := w.ThreatByID(ref.ID); t != nil {
			return t.X + t.VX*lead, t.Y + t.VY*lead, true
		}
	case components.LockAircraft:
		if a, _ := w.AircraftByID(ref.ID); a != nil {
			return a.X + a.VX*lead, a.Y, true
		}
	case components.LockRaider:
		if r, _ := w.RaiderByID(ref.ID); r != nil {
			return r.X + r.VX*lead, r.Y + math.Sin((w.Time+lead)*2.7+r.Angle)*10, true
		}
	}
	return 0, 0, false
}
