package systems

import (
	"math"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

// KinematicsSystem 运动学系统
// 按固定顺序推进来袭导弹、飞碟、突袭机、拦截弹、爆炸和浮动文字。
// 所有集合都从后向前遍历，移除在同一次遍历中完成；遍历过程中新增的实体追加到末尾，本帧不再处理。
type KinematicsSystem struct {
	world  *game.World
	combat *CombatSystem
}

// NewKinematicsSystem 创建运动学系统
func NewKinematicsSystem(w *game.World, combat *CombatSystem) *KinematicsSystem {
	return &KinematicsSystem{world: w, combat: combat}
}

// Update 推进全部运动实体
func (s *KinematicsSystem) Update(dt float64) {
	s.UpdateThreats(dt)
	s.UpdateAircraft(dt)
	s.UpdateRaiders(dt)
	s.UpdateInterceptors(dt)
	s.UpdateExplosions(dt)
}

// UpdateThreats 推进来袭导弹：分裂、到达目标、制导转向、位置、触地
func (s *KinematicsSystem) UpdateThreats(dt float64) {
	w := s.world
	for i := len(w.Threats) - 1; i >= 0; i-- {
		t := w.Threats[i]
		t.Elapsed += dt
		p := t.Progress()

		if t.Variant == types.VariantSplit && !t.HasSplit && p >= t.SplitAt {
			s.combat.SplitThreat(t)
			w.RemoveThreatAt(i)
			continue
		}

		if p >= 1 {
			w.RemoveThreatAt(i)
			s.combat.ImpactThreat(t, t.TargetX, t.TargetY)
			continue
		}

		if t.Homing > 0 && !t.Target.IsNone() {
			desired := math.Atan2(t.TargetY-t.Y, t.TargetX-t.X)
			cur := math.Atan2(t.VY, t.VX)
			turn := utils.Clamp(utils.AngleDelta(cur, desired), -1, 1) * t.Homing * dt * 2.2
			sp := math.Hypot(t.VX, t.VY)
			na := cur + turn
			t.VX = math.Cos(na) * sp
			t.VY = math.Sin(na) * sp
		}

		t.X, t.Y = threatPosition(t)

		if t.Y >= w.GroundY-4 {
			w.RemoveThreatAt(i)
			s.combat.ImpactThreat(t, t.X, w.GroundY-2)
		}
	}
}

// threatPosition 参数位置加之字摆动和型号抖动
func threatPosition(t *components.Threat) (float64, float64) {
	x, y := PredictThreat(t, 0)
	local := utils.Clamp(t.Elapsed, 0, t.Duration)
	pp := 1.0
	if t.Duration > 0 {
		pp = local / t.Duration
	}

	switch t.Variant {
	case types.VariantHeavy:
		x += math.Sin(pp*utils.TAU*0.6+float64(t.ID)) * 7
	case types.VariantCruise:
		y += math.Sin(pp*utils.TAU*1.2+t.ZigPhase) * 18 * (1 - pp*0.32)
	case types.VariantDrone:
		x += math.Sin(pp*utils.TAU*3.4+t.ZigPhase) * 12 * (1 - pp*0.16)
		y += math.Cos(pp*utils.TAU*2.7+t.ZigPhase*0.8) * 9 * (1 - pp*0.22)
	}
	return x, y
}

// UpdateAircraft 飞碟横移、上下浮动并周期性投弹，飞出 ±130 后移除
func (s *KinematicsSystem) UpdateAircraft(dt float64) {
	w := s.world
	for i := len(w.Aircraft) - 1; i >= 0; i-- {
		a := w.Aircraft[i]
		a.X += a.VX * dt
		a.Y += math.Sin(w.Time*2+a.BobPhase) * dt * 12
		a.FireCooldown -= dt
		if a.FireCooldown <= 0 {
			if target, ok := chooseTarget(w, types.VariantUfoBomb); ok {
				s.combat.CreateThreat(types.VariantUfoBomb, a.X+w.Rand.Range(-20, 20), a.Y+8, target, ThreatOverrides{})
			}
			a.FireCooldown = w.Rand.Range(1.15, 2.2)
		}
		if (a.VX > 0 && a.X > w.Width+130) || (a.VX < 0 && a.X < -130) {
			w.RemoveAircraft(a.ID)
		}
	}
}

// UpdateRaiders 突袭机开火后调头并连射吐弹，飞出 ±180 后移除
func (s *KinematicsSystem) UpdateRaiders(dt float64) {
	w := s.world
	rng := w.Rand
	for i := len(w.Raiders) - 1; i >= 0; i-- {
		r := w.Raiders[i]
		r.FireCooldown -= dt
		if r.FireCooldown <= 0 {
			r.FireCooldown = rng.Range(0.55, 1.25)
			r.VX = -r.VX * rng.Range(0.9, 1.22)
			burst := 4
			if rng.Chance(0.45) {
				burst = 5
			}
			for j := 0; j < burst; j++ {
				target, ok := chooseTarget(w, types.VariantSpit)
				if !ok {
					continue
				}
				sx, sy := r.X+rng.Range(-20, 20), r.Y+10
				s.combat.CreateThreat(types.VariantSpit, sx, sy, target, ThreatOverrides{
					Blast:   rng.Range(46, 78),
					ZigAmp:  rng.Range(10, 28),
					ZigFreq: rng.Range(1.2, 2.4),
				})
			}
		}
		r.X += r.VX * dt
		r.Y += math.Sin(w.Time*2.7+r.Angle) * dt * 24
		r.Angle = math.Atan2(math.Cos(w.Time*2.7+r.Angle)*24, r.VX)

		if r.X < -180 || r.X > w.Width+180 {
			w.RemoveRaider(r.ID)
		}
	}
}

// UpdateInterceptors 推进拦截弹，到时引爆
//
// 普通拦截弹按参数方程飞向瞄准点并在瞄准点引爆；制导拦截弹按恒速追踪锁定目标，
// 飞出战场视为到时，在当前位置（夹紧到战场内）引爆。
func (s *KinematicsSystem) UpdateInterceptors(dt float64) {
	w := s.world
	for i := len(w.Interceptors) - 1; i >= 0; i-- {
		m := w.Interceptors[i]
		m.Elapsed += dt

		if m.Guidance != nil {
			s.steerGuided(m, dt)
		} else {
			m.X = m.StartX + m.VX*m.Elapsed
			m.Y = m.StartY + m.VY*m.Elapsed
		}

		p := 1.0
		if m.Duration > 0 {
			p = m.Elapsed / m.Duration
		}
		if p < 1 {
			continue
		}

		w.RemoveInterceptorAt(i)
		if m.Guidance != nil {
			s.combat.SpawnExplosion(components.Explosion{
				X:         utils.Clamp(m.X, 0, w.Width),
				Y:         utils.Clamp(m.Y, 18, w.GroundY-4),
				MaxRadius: m.Blast,
				Life:      0.8,
				ShakeTime: 0.36,
				Player:    true,
				Flash:     0.05,
			})
		} else {
			s.combat.SpawnExplosion(components.Explosion{
				X:         m.TargetX,
				Y:         m.TargetY,
				MaxRadius: m.Blast,
				Life:      1.28,
				ShakeTime: 0.36,
				Player:    true,
				Flash:     0.08,
			})
		}
	}
}

// steerGuided 制导拦截弹：重新选择目标、限速转向、蛇形摆动
func (s *KinematicsSystem) steerGuided(m *components.Interceptor, dt float64) {
	w := s.world
	g := m.Guidance

	g.Retarget -= dt
	if g.Retarget <= 0 || !w.LockAlive(g.Lock) {
		pool := collectLockPool(w, m.X, m.Y, 120, 200)
		if c, ok := DrawWeighted(w.Rand, pool); ok {
			g.Lock = c.Lock
		} else {
			g.Lock = components.LockRef{}
		}
		g.Retarget = w.Rand.Range(0.06, 0.18)
	}

	ang := math.Atan2(m.VY, m.VX)
	if ax, ay, ok := lockPoint(w, g.Lock, w.Rand.Range(0.03, 0.12)); ok {
		desired := math.Atan2(ay-m.Y, ax-m.X)
		ang += utils.Clamp(utils.AngleDelta(ang, desired), -g.Turn*dt, g.Turn*dt)
	}
	ang += math.Sin((w.Time+float64(m.ID)*0.013)*g.WanderFreq+g.WanderPhase) * dt * 1.35

	m.VX = math.Cos(ang) * m.Speed
	m.VY = math.Sin(ang) * m.Speed
	m.X += m.VX * dt
	m.Y += m.VY * dt

	if m.X < -60 || m.X > w.Width+60 || m.Y < -40 || m.Y > w.GroundY+28 {
		m.Elapsed = m.Duration
	}
}

// UpdateExplosions 爆炸寿命递减，半径按已存在时间重新计算
func (s *KinematicsSystem) UpdateExplosions(dt float64) {
	w := s.world
	for i := len(w.Explosions) - 1; i >= 0; i-- {
		e := w.Explosions[i]
		e.Life -= dt
		if e.Life <= 0 {
			w.Explosions = removeExplosion(w.Explosions, i)
			continue
		}
		e.Radius = ExplosionRadius(e.MaxLife-e.Life, e.MaxRadius, e.ShakeTime, e.MaxLife)
	}
}

// UpdateFloatingTexts 浮动文字上飘并淡出
func (s *KinematicsSystem) UpdateFloatingTexts(dt float64) {
	w := s.world
	for i := len(w.FloatingTexts) - 1; i >= 0; i-- {
		ft := w.FloatingTexts[i]
		ft.Life -= dt
		ft.Y -= dt * 38
		if ft.Life <= 0 {
			copy(w.FloatingTexts[i:], w.FloatingTexts[i+1:])
			w.FloatingTexts[len(w.FloatingTexts)-1] = nil
			w.FloatingTexts = w.FloatingTexts[:len(w.FloatingTexts)-1]
		}
	}
}

func removeExplosion(s []*components.Explosion, i int) []*components.Explosion {
	copy(s[i:], s[i+1:])
	s[len(s)-1] = nil
	return s[:len(s)-1]
}
