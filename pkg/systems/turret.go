package systems

import (
	"math"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

const (
	turretPivotHeight  = 52.0
	turretMuzzleLength = 48.0
	turretAlignLimit   = 0.16 // 对准误差上限（弧度）
	turretMaxShots     = 120  // 每帧最多射击数
	turretLead         = 0.06
	turretHeatPerShot  = 0.0036
)

// TurretSystem 近防炮控制器
//
// 状态是连续的：有无锁定目标，以及由此推出的是否在射程内、是否对准、是否开火。
// 每帧：热量和冷却衰减 → 炮管转速 → 选择得分最高的目标 → 有限角速度转向提前量瞄准点 →
// 满足射程、对准、弹药和冷却条件时按射速累加器射击，每发独立掷骰判定命中。
type TurretSystem struct {
	world  *game.World
	combat *CombatSystem
}

// NewTurretSystem 创建近防炮控制器
func NewTurretSystem(w *game.World, combat *CombatSystem) *TurretSystem {
	return &TurretSystem{world: w, combat: combat}
}

// turretCandidate 近防炮候选目标
type turretCandidate struct {
	Lock   components.LockRef
	X, Y   float64
	VX, VY float64
	Dist   float64
	Score  float64
}

// Update 更新所有近防炮，开场和游戏结束时不运行
func (s *TurretSystem) Update(dt float64) {
	w := s.world
	if w.Intro || w.GameOver {
		return
	}
	for _, p := range w.Turrets {
		s.updateTurret(p, dt)
	}
}

// FireRange 射程，随效率升级增加
func FireRange(eff float64) float64 {
	return 620 + math.Max(0, eff-1)*110
}

// cooldownMult 热量和冷却的衰减倍率
// 中间的第三座城市存活时散热更快
func (s *TurretSystem) cooldownMult() float64 {
	w := s.world
	m := 1.0
	if len(w.Cities) > 2 && !w.Cities[2].Destroyed {
		m = 2.2
	}
	return m * (1 + (w.Upgrades.TurretEff-1)*0.55)
}

func (s *TurretSystem) updateTurret(p *components.Turret, dt float64) {
	w := s.world
	eff := w.Upgrades.TurretEff
	cd := s.cooldownMult()

	if p.Cool > 0 {
		p.Cool = math.Max(0, p.Cool-dt*cd)
	}
	if p.Heat > 0 {
		p.Heat = math.Max(0, p.Heat-dt*1.25*cd)
	}

	firing := p.FireMix > 0.01 || p.Heat > 0.01
	spinTarget, ramp := 1.5, 1.8
	if firing {
		spinTarget, ramp = 10+p.FireMix*18, 10
	}
	p.SpinSpeed += (spinTarget - p.SpinSpeed) * math.Min(1, dt*ramp)
	p.SpinAngle = math.Mod(p.SpinAngle+p.SpinSpeed*dt, utils.TAU)

	if p.Destroyed {
		p.Lock = components.LockRef{}
		p.FireAcc = 0
		return
	}

	fireRange := FireRange(eff)
	lockRange := math.Max(fireRange*2.15, w.Width*1.08)

	best, ok := s.acquire(p, lockRange, fireRange)
	if math.IsNaN(p.AimAngle) || math.IsInf(p.AimAngle, 0) {
		p.AimAngle = -math.Pi / 2
	}
	pivotY := p.Y - turretPivotHeight

	if !ok {
		p.Lock = components.LockRef{}
		p.AimX = p.X + math.Cos(p.AimAngle)*160
		p.AimY = pivotY + math.Sin(p.AimAngle)*160
		p.AimErr = math.Pi
		p.TargetDist = 0
		p.FireMix = math.Max(0, p.FireMix-dt*4.2)
		return
	}

	p.Lock = best.Lock
	p.TargetDist = best.Dist
	p.AimX = best.X + best.VX*turretLead
	p.AimY = best.Y + best.VY*turretLead
	desired := math.Atan2(p.AimY-pivotY, p.AimX-p.X)
	turnRate := (2.8 + (1-p.Heat)*2.4 + math.Min(1.3, float64(w.Level)*0.02)) * (1 + (eff-1)*0.18)
	diff := utils.AngleDelta(p.AimAngle, desired)
	step := turnRate * dt
	p.AimAngle += utils.Clamp(diff, -step, step)
	p.AimErr = math.Abs(diff)

	if !CanTurretFire(p, best.Dist, fireRange) {
		p.FireMix = math.Max(0, p.FireMix-dt*4.2)
		return
	}

	rate := 94.0
	if p.Heat > 0.72 {
		rate = 56
	}
	rate = (rate + math.Min(28, float64(w.Level)*2.2)) * (1 + (eff-1)*0.4)
	p.FireAcc += dt * rate

	shots := 0
	for p.FireAcc >= 1 && p.Ammo > 0 && shots < turretMaxShots {
		p.FireAcc--
		p.Ammo--
		shots++
		if s.shoot(p, best, fireRange) {
			break
		}
	}

	if shots > 0 {
		p.Heat = math.Min(1, p.Heat+float64(shots)*(turretHeatPerShot/math.Max(1, eff)))
		p.FireMix = math.Min(1, p.FireMix+float64(shots)*0.03)
		w.Telemetry.Add(game.CounterTurretRounds, shots)
	} else {
		p.FireMix = math.Max(0, p.FireMix-dt*4.2)
	}

	if p.Ammo <= 0 && p.Cool <= 0 {
		p.Cool = 2.1 / math.Max(1, eff)
		w.SetNote("Phalanx out of ammo", 0.75)
	}
}

// CanTurretFire 开火条件：射程内、已对准、有弹药且不在强制冷却中
func CanTurretFire(p *components.Turret, dist, fireRange float64) bool {
	return !p.Destroyed && dist <= fireRange && p.AimErr <= turretAlignLimit && p.Ammo > 0 && p.Cool <= 0
}

// shoot 发射一发并判定命中
// 返回 true 表示目标已不存在（被击毁或已移除），本帧停止射击
func (s *TurretSystem) shoot(p *components.Turret, best turretCandidate, fireRange float64) bool {
	w := s.world
	rng := w.Rand
	aimQ := utils.Clamp(1-p.AimErr/0.18, 0, 1)
	spread := 5 + (1-aimQ)*8
	tx := p.AimX + rng.Range(-spread, spread)
	ty := p.AimY + rng.Range(-spread, spread)
	eff := w.Upgrades.TurretEff

	switch best.Lock.Kind {
	case components.LockThreat:
		t, _ := w.ThreatByID(best.Lock.ID)
		if t == nil {
			return true
		}
		missRadius := 24.0
		switch t.Variant {
		case types.VariantFast:
			missRadius += 6
		case types.VariantZig:
			missRadius += 8
		}
		heavy := 1.0
		if t.Variant == types.VariantHeavy {
			heavy = 0.6
		}
		chance := utils.Clamp((1-best.Dist/fireRange)*0.37+0.09, 0.08, 0.56) *
			(1 - t.Resistance*0.9) * heavy * (1 + (eff-1)*0.45) * (0.52 + aimQ*0.78)
		if utils.Dist(tx, ty, t.X, t.Y) < missRadius && rng.Chance(chance) {
			if s.combat.DamageThreat(t, t.X, t.Y, threatDamage(t)) {
				w.RemoveThreat(t.ID)
				return true
			}
		}

	case components.LockAircraft:
		a, _ := w.AircraftByID(best.Lock.ID)
		if a == nil {
			return true
		}
		chance := utils.Clamp((1-best.Dist/(fireRange*1.08))*0.42+0.08, 0.08, 0.44) *
			(1 + (eff-1)*0.4) * (0.48 + aimQ*0.82)
		if rng.Chance(chance) {
			fx := components.Explosion{
				X: a.X + rng.Range(-9, 9), Y: a.Y + rng.Range(-5, 5),
				MaxRadius: 30, Life: 0.43, ShakeTime: 0.34, Flash: 0.03,
			}
			if s.combat.HitAircraft(a, fx) {
				return true
			}
		}

	case components.LockRaider:
		r, _ := w.RaiderByID(best.Lock.ID)
		if r == nil {
			return true
		}
		chance := utils.Clamp((1-best.Dist/(fireRange*1.12))*0.46+0.1, 0.1, 0.58) *
			(1 + (eff-1)*0.35) * (0.5 + aimQ*0.78)
		if rng.Chance(chance) {
			fx := components.Explosion{
				X: r.X + rng.Range(-8, 8), Y: r.Y + rng.Range(-5, 5),
				MaxRadius: 38, Life: 0.46, ShakeTime: 0.35, Flash: 0.05,
			}
			if s.combat.HitRaider(r, fx) {
				return true
			}
		}
	}
	return false
}

// acquire 选择得分最高的目标
// 得分 = 基础分 + 射程内加成 54 - 距离 * 0.14，超出锁定范围或低于地面的目标被忽略
func (s *TurretSystem) acquire(p *components.Turret, lockRange, fireRange float64) (turretCandidate, bool) {
	w := s.world
	oy := p.Y - turretPivotHeight
	var best turretCandidate
	found := false

	consider := func(lock components.LockRef, x, y, vx, vy, base float64) {
		d := utils.Dist(p.X, oy, x, y)
		if d > lockRange || y > w.GroundY+8 {
			return
		}
		score := base - d*0.14
		if d <= fireRange {
			score += 54
		}
		if !found || score > best.Score {
			best = turretCandidate{Lock: lock, X: x, Y: y, VX: vx, VY: vy, Dist: d, Score: score}
			found = true
		}
	}

	for _, t := range w.Threats {
		if t.Y > w.GroundY-4 {
			continue
		}
		base := 70 + 128/(t.Remaining()+0.75)
		switch t.Target.Kind {
		case components.TargetCity:
			base += 62
		case components.TargetBase:
			base += 24
		}
		if t.Variant == types.VariantUfoBomb {
			base += 42
		}
		consider(components.LockRef{Kind: components.LockThreat, ID: t.ID}, t.X, t.Y, t.VX, t.VY, base)
	}
	for _, a := range w.Aircraft {
		base := 168 + 54.0
		if a.Boss {
			base = 168 + 80
		}
		consider(components.LockRef{Kind: components.LockAircraft, ID: a.ID}, a.X, a.Y, a.VX, 0, base)
	}
	for _, r := range w.Raiders {
		consider(components.LockRef{Kind: components.LockRaider, ID: r.ID}, r.X, r.Y, r.VX, 0, 250)
	}
	return best, found
}

// FireLevel 所有近防炮中最高的射击强度，供音频合成使用
func (s *TurretSystem) FireLevel() float64 {
	level := 0.0
	for _, p := range s.world.Turrets {
		if !p.Destroyed {
			level = math.Max(level, p.FireMix)
		}
	}
	return level
}
