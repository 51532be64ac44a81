package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/ecs"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

const (
	// baseInterceptorSpeed 1 级拦截弹速度
	baseInterceptorSpeed = 640.0
	// carrierDamage 装甲运载弹每次受到的伤害（低于一个单位）
	carrierDamage = 0.9
	// comboWindow 连击计时（秒）
	comboWindow = 4.0
	// pulseCooldown 脉冲武器冷却（秒）
	pulseCooldown = 13.0
	// nearMissRange 撞击点距存活城市小于此距离时发出险情提示
	nearMissRange = 60.0
)

// ThreatOverrides 创建来袭导弹时覆盖型号表中的随机参数，0 表示使用型号表
type ThreatOverrides struct {
	Blast   float64
	ZigAmp  float64
	ZigFreq float64
}

// CombatSystem 战斗结算系统
// 职责：
//   - 创建来袭导弹、爆炸、拦截弹
//   - 撞击结算、目标摧毁与溅射
//   - 伤害、击杀计分与连击
//   - 爆炸与敌方单位的碰撞判定
type CombatSystem struct {
	world *game.World
}

// NewCombatSystem 创建战斗结算系统
func NewCombatSystem(w *game.World) *CombatSystem {
	return &CombatSystem{world: w}
}

// InterceptorSpeed 当前关卡和天气下的拦截弹速度
// 参数：
//
//	mult - 额外倍率（自动防御使用 1.08）
func InterceptorSpeed(w *game.World, mult float64) float64 {
	lvlBoost := 1 + math.Min(1.7, math.Max(0, float64(w.Level-1))*0.022)
	return baseInterceptorSpeed * lvlBoost * WeatherDrag(w) * mult
}

// CreateThreat 创建来袭导弹并加入世界
//
// 飞行时间 = max(100, 距离) / 型号速度；摆动、爆炸半径、制导系数按型号表的区间随机，
// ov 中的非零值优先。
func (s *CombatSystem) CreateThreat(v types.Variant, sx, sy float64, target components.Target, ov ThreatOverrides) *components.Threat {
	w := s.world
	stats := w.Config.Variants.Stats(v)
	rng := w.Rand

	dx, dy := target.X-sx, target.Y-sy
	dist := math.Max(100, math.Hypot(dx, dy))
	speed := stats.Speed(w.Level)
	dur := dist / speed

	pick := func(override float64, lo, hi float64) float64 {
		if override > 0 {
			return override
		}
		if lo == 0 && hi == 0 {
			return 0
		}
		return rng.Range(lo, hi)
	}
	amp := pick(ov.ZigAmp, stats.ZigAmp.Min, stats.ZigAmp.Max)
	freq := pick(ov.ZigFreq, stats.ZigFreq.Min, stats.ZigFreq.Max)
	blast := pick(ov.Blast, stats.Blast.Min, stats.Blast.Max)
	homing := pick(0, stats.Homing.Min, stats.Homing.Max)

	t := &components.Threat{
		ID:         w.Entities.CreateEntity(ecs.KindThreat),
		Variant:    v,
		X:          sx,
		Y:          sy,
		StartX:     sx,
		StartY:     sy,
		TargetX:    target.X,
		TargetY:    target.Y,
		Target:     target.Ref,
		VX:         dx / dur,
		VY:         dy / dur,
		Speed:      speed,
		Duration:   dur,
		Resistance: stats.Resistance,
		HitPoints:  stats.HitPoints,
		Value:      stats.Value,
		ZigAmp:     amp,
		ZigFreq:    freq,
		Homing:     homing,
		Blast:      blast,
	}
	if v.HasZigPhase() {
		t.ZigPhase = rng.Float64() * utils.TAU
	}
	if v == types.VariantSplit {
		t.SplitAt = rng.Range(0.4, 0.63)
	}

	w.Threats = append(w.Threats, t)
	w.Telemetry.Add(game.CounterSpawned, 1)
	return t
}

// SpawnExplosion 创建爆炸并施加屏幕效果
// 零值字段使用默认值：最大半径 92、寿命 1.3、膨胀比例 0.36
func (s *CombatSystem) SpawnExplosion(e components.Explosion) *components.Explosion {
	w := s.world
	if e.MaxRadius == 0 {
		e.MaxRadius = 92
	}
	if e.Life == 0 {
		e.Life = 1.3
	}
	if e.ShakeTime == 0 {
		e.ShakeTime = 0.36
	}
	e.Radius = 0
	e.MaxLife = e.Life

	if !e.NoShake {
		shake := 11.0
		switch {
		case e.Pulse:
			shake = 19
		case e.Player:
			shake = 7
		case e.Heavy:
			shake = 14
		}
		w.Shake = math.Max(w.Shake, shake)
	}
	if e.Flash > 0 {
		w.Flash = math.Max(w.Flash, e.Flash)
	}
	if e.Pulse {
		w.Chromatic = math.Max(w.Chromatic, 1)
	} else if e.Heavy {
		w.Chromatic = math.Max(w.Chromatic, 0.45)
	}

	ex := &e
	w.Explosions = append(w.Explosions, ex)
	return ex
}

// ExplosionRadius 爆炸半径随时间的变化
// 前 shakeTime 比例按 easeOut 膨胀到 maxRadius，之后按 easeIn 收缩到 0；
// 时间非有限值或超出寿命时为 0。
func ExplosionRadius(elapsed, maxRadius, shakeTime, life float64) float64 {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) || elapsed < 0 || elapsed > life {
		return 0
	}
	p := 1.0
	if life > 0 {
		p = elapsed / life
	}
	if p < shakeTime {
		return maxRadius * utils.EaseOutCubic(p/math.Max(0.0001, shakeTime))
	}
	q := (p - shakeTime) / math.Max(0.0001, 1-shakeTime)
	return maxRadius * math.Max(0, 1-utils.EaseInCubic(q))
}

// LaunchInterceptor 从基地发射拦截弹
//
// 基地选择顺序：显式下标（可用时）→ 当前选中基地（可用时）→ 距目标横向最近的有弹药基地。
// 选中的基地仍在冷却时失败并轻微震屏。瞄准点不低于地面上方 56。
// 参数：
//
//	baseIndex - 基地下标，负数表示未指定
//
// 返回：
//
//	bool - 是否成功发射
func (s *CombatSystem) LaunchInterceptor(tx, ty float64, baseIndex int) bool {
	w := s.world
	if w.GameOver || w.Intro || w.Shop {
		return false
	}

	var b *components.LaunchBase
	if baseIndex >= 0 && baseIndex < len(w.Bases) && w.Bases[baseIndex].Ready() {
		b = w.Bases[baseIndex]
	}
	if b == nil && w.SelectedBase >= 0 && w.SelectedBase < len(w.Bases) && w.Bases[w.SelectedBase].Ready() {
		b = w.Bases[w.SelectedBase]
	}
	if b == nil {
		bestD := math.MaxFloat64
		for _, c := range w.Bases {
			if c.Destroyed || c.Ammo <= 0 {
				continue
			}
			if d := math.Abs(c.X - tx); d < bestD {
				bestD = d
				b = c
			}
		}
		if b == nil {
			return false
		}
	}
	if !b.Ready() {
		w.Shake = math.Max(w.Shake, 2)
		return false
	}

	y2 := math.Min(ty, w.GroundY-56)
	dx, dy := tx-b.X, y2-b.Y
	dist := math.Max(90, math.Hypot(dx, dy))
	speed := InterceptorSpeed(w, 1)
	dur := dist / speed

	b.Ammo--
	lvlReload := 1 + math.Min(1.9, float64(w.Level)*0.03)
	b.Cooldown = 0.24 / (math.Max(0.4, w.Upgrades.ReloadMult) * lvlReload)

	m := &components.Interceptor{
		ID:        w.Entities.CreateEntity(ecs.KindInterceptor),
		X:         b.X,
		Y:         b.Y,
		StartX:    b.X,
		StartY:    b.Y,
		TargetX:   tx,
		TargetY:   y2,
		VX:        dx / dur,
		VY:        dy / dur,
		Speed:     speed,
		Duration:  dur,
		Blast:     102 * w.Upgrades.BlastScale,
		BaseIndex: w.BaseIndex(b),
		Auto:      w.Auto,
	}
	w.Interceptors = append(w.Interceptors, m)
	w.Telemetry.Add(game.CounterInterceptors, 1)
	w.Emit(types.SoundLaunch, b.X, 1)
	return true
}

// UseAreaPulse 在瞄准点释放区域脉冲
// 无充能、冷却中、开场或结束时失败
func (s *CombatSystem) UseAreaPulse() bool {
	w := s.world
	if w.Intro || w.GameOver || w.Pulse <= 0 || w.PulseCooldown > 0 {
		return false
	}
	w.Pulse--
	w.PulseCooldown = pulseCooldown
	s.SpawnExplosion(components.Explosion{
		X: w.AimX, Y: w.AimY,
		MaxRadius: 228 * w.Upgrades.PulseScale,
		Life:      1.45,
		ShakeTime: 0.42,
		Player:    true,
		Pulse:     true,
		Flash:     0.32,
	})
	w.Shake = math.Max(w.Shake, 20)
	w.Flash = math.Max(w.Flash, 0.32)
	w.Chromatic = math.Max(w.Chromatic, 0.8)
	w.SetNote("Area pulse deployed", 1.1)
	w.Emit(types.SoundAreaPulse, w.AimX, 1)
	return true
}

// ImpactThreat 来袭导弹在 (x, y) 命中
// 诱饵只产生小型视觉爆炸；其余型号按型号爆炸并摧毁瞄准的目标，大型爆炸附带溅射
func (s *CombatSystem) ImpactThreat(t *components.Threat, x, y float64) {
	w := s.world
	if t.Variant == types.VariantDecoy {
		s.SpawnExplosion(components.Explosion{X: x, Y: y, MaxRadius: 30, Life: 0.8, ShakeTime: 0.3, Flash: 0.05, NoShake: true})
		return
	}

	heavy := t.Variant.IsHeavyClass()
	life, shakeTime, flash := 1.0, 0.3, 0.16
	switch {
	case heavy:
		life, shakeTime, flash = 1.22, 0.24, 0.28
	case t.Variant == types.VariantDrone:
		life, flash = 0.82, 0.1
	}
	s.SpawnExplosion(components.Explosion{
		X: x, Y: y,
		MaxRadius: t.Blast,
		Life:      life,
		ShakeTime: shakeTime,
		Flash:     flash,
		Heavy:     heavy,
	})
	s.DestroyTarget(t.Target, x, y, t.Blast)
	w.Telemetry.Add(game.CounterImpacts, 1)

	intensity := 0.6
	if heavy {
		intensity = 1
	}
	w.Emit(types.SoundImpact, x, intensity)

	for _, c := range w.Cities {
		if !c.Destroyed && math.Abs(c.X-x) <= nearMissRange {
			w.Emit(types.SoundNearMiss, c.X, 0.7)
			break
		}
	}
}

// DestroyTarget 摧毁导弹瞄准的地面目标
// blast 超过 100 时对城市(0.75b)、基地(0.68b)、近防炮(0.64b) 以及展开中的发射井(0.64b) 造成溅射，
// 距离按横向计算
func (s *CombatSystem) DestroyTarget(ref components.TargetRef, x, y, blast float64) {
	w := s.world
	switch ref.Kind {
	case components.TargetCity:
		if c := w.CityByID(ref.ID); c != nil && !c.Destroyed {
			s.KillCity(c, x, y)
		}
	case components.TargetBase:
		if b := w.BaseByID(ref.ID); b != nil && !b.Destroyed {
			b.Destroyed = true
			b.Ammo = 0
			s.SpawnExplosion(components.Explosion{X: b.X, Y: b.Y - 4, MaxRadius: 84, Life: 1.05, ShakeTime: 0.3, Flash: 0.18})
			log.Printf("[CombatSystem] Base %s destroyed", b.ID)
		}
	case components.TargetTurret:
		if p := w.TurretByID(ref.ID); p != nil && !p.Destroyed {
			p.Destroyed = true
			p.Ammo = 0
			s.SpawnExplosion(components.Explosion{X: p.X, Y: p.Y - 4, MaxRadius: 72, Life: 0.9, ShakeTime: 0.3, Flash: 0.14})
			log.Printf("[CombatSystem] Turret %s destroyed", p.ID)
		}
	}

	if blast <= 100 {
		return
	}
	for _, c := range w.Cities {
		if !c.Destroyed && math.Abs(c.X-x) <= blast*0.75 {
			s.KillCity(c, c.X, w.GroundY-20)
		}
	}
	for _, b := range w.Bases {
		if !b.Destroyed && math.Abs(b.X-x) <= blast*0.68 {
			b.Destroyed = true
			b.Ammo = 0
			s.SpawnExplosion(components.Explosion{X: b.X, Y: b.Y - 8, MaxRadius: 78, Life: 0.95, ShakeTime: 0.3, Flash: 0.12, NoShake: true})
			log.Printf("[CombatSystem] Base %s lost to splash", b.ID)
		}
	}
	for _, p := range w.Turrets {
		if !p.Destroyed && math.Abs(p.X-x) <= blast*0.64 {
			p.Destroyed = true
			p.Ammo = 0
		}
	}
	if silo := w.Silo; silo != nil && !silo.Destroyed && silo.Lift > 0 && math.Abs(silo.X-x) <= blast*0.64 {
		silo.Destroyed = true
		silo.Ammo = 0
		log.Printf("[CombatSystem] Silo lost to splash")
	}
}

// KillCity 摧毁城市
func (s *CombatSystem) KillCity(c *components.City, x, y float64) {
	w := s.world
	c.Destroyed = true
	s.SpawnExplosion(components.Explosion{
		X: x, Y: y,
		MaxRadius: w.Rand.Range(74, 120),
		Life:      1.08,
		ShakeTime: 0.3,
		Flash:     0.22,
		Heavy:     true,
	})
	w.Telemetry.Add(game.CounterCitiesLost, 1)
	w.Emit(types.SoundCityDestroyed, x, 1)
	log.Printf("[CombatSystem] City %s destroyed", c.ID)
}

// threatDamage 一次命中对来袭导弹造成的伤害
func threatDamage(t *components.Threat) float64 {
	if t.Variant == types.VariantCarrier {
		return carrierDamage
	}
	return 1
}

// DamageThreat 对来袭导弹造成伤害
// 返回：
//
//	bool - 是否被击毁（调用方负责从世界中移除）
func (s *CombatSystem) DamageThreat(t *components.Threat, x, y, dmg float64) bool {
	if t.HitPoints > dmg {
		t.HitPoints -= dmg
		r := 34.0
		if t.Variant == types.VariantCarrier {
			r = 56
		}
		s.SpawnExplosion(components.Explosion{X: x, Y: y, MaxRadius: r, Life: 0.46, ShakeTime: 0.34, Player: true, Flash: 0.04, NoShake: true})
		return false
	}
	t.HitPoints = 0
	s.registerKill(t, x, y)
	return true
}

// registerKill 来袭导弹被击毁：计分、连击、击毁爆炸
func (s *CombatSystem) registerKill(t *components.Threat, x, y float64) {
	w := s.world
	s.scoreKill(t.Value, x, y)

	big := t.Variant == types.VariantHeavy || t.Variant == types.VariantCarrier
	r, flash := 70.0, 0.08
	switch {
	case big:
		r, flash = 94, 0.16
	case t.Variant == types.VariantCruise:
		r = 78
	}
	s.SpawnExplosion(components.Explosion{X: x, Y: y, MaxRadius: r, Life: 0.9, ShakeTime: 0.41, Player: true, Flash: flash, NoShake: !big})

	intensity := 0.6
	if big {
		intensity = 1
	}
	w.Emit(types.SoundHit, x, intensity)
}

// scoreKill 击杀计分
//
// 得分 = round(value * (1 + min(2.2, combo*0.09)))，连击 +1 并刷新计时；
// 每 5 连击显示浮动提示，每 12 连击补充一次脉冲充能。
func (s *CombatSystem) scoreKill(value int, x, y float64) int {
	w := s.world
	bonus := 1 + math.Min(2.2, float64(w.Combo)*0.09)
	gain := int(math.Round(float64(value) * bonus))
	w.Score += gain
	w.Combo++
	w.ComboTimer = comboWindow
	if w.Combo > w.MaxCombo {
		w.MaxCombo = w.Combo
	}
	w.Telemetry.Add(game.CounterKills, 1)

	if w.Combo > 1 && w.Combo%5 == 0 {
		w.FloatingTexts = append(w.FloatingTexts, &components.FloatingText{
			Text: fmt.Sprintf("%dx COMBO!", w.Combo),
			X:    x, Y: y - 20,
			Life: 1.2, MaxLife: 1.2,
		})
	}
	if w.Combo%12 == 0 && w.Pulse < w.PulseMax {
		w.Pulse++
		w.SetNote("Pulse charge granted", 1.25)
	}
	return gain
}

// HitAircraft 飞碟受到一次伤害，生命值归零时击毁并移除
// 返回是否被击毁
func (s *CombatSystem) HitAircraft(a *components.Aircraft, fx components.Explosion) bool {
	a.HitPoints--
	fx.Player, fx.NoShake = true, true
	s.SpawnExplosion(fx)
	if a.HitPoints > 0 {
		return false
	}
	w := s.world
	value, r, life, flash, note := 260, 96.0, 1.02, 0.18, "UFO destroyed"
	if a.Boss {
		value, r, life, flash, note = 1500, 140, 1.4, 0.32, "Boss UFO destroyed"
	}
	s.scoreKill(value, a.X, a.Y)
	s.SpawnExplosion(components.Explosion{X: a.X, Y: a.Y, MaxRadius: r, Life: life, ShakeTime: 0.34, Player: true, Flash: flash})
	w.SetNote(note, 0.9)
	w.Emit(types.SoundHit, a.X, 1)
	w.RemoveAircraft(a.ID)
	return true
}

// HitRaider 突袭机受到一次伤害，生命值归零时击毁并移除
func (s *CombatSystem) HitRaider(r *components.Raider, fx components.Explosion) bool {
	r.HitPoints--
	fx.Player, fx.NoShake = true, true
	s.SpawnExplosion(fx)
	if r.HitPoints > 0 {
		return false
	}
	w := s.world
	s.scoreKill(460, r.X, r.Y)
	s.SpawnExplosion(components.Explosion{X: r.X, Y: r.Y, MaxRadius: 116, Life: 1.1, ShakeTime: 0.33, Player: true, Flash: 0.24})
	w.SetNote("Stratospheric raider destroyed", 0.9)
	w.Emit(types.SoundHit, r.X, 1)
	w.RemoveRaider(r.ID)
	return true
}

// SplitThreat 分裂弹在当前位置分裂为 2~3 枚子弹头
// 原导弹由调用方移除
func (s *CombatSystem) SplitThreat(t *components.Threat) int {
	w := s.world
	t.HasSplit = true
	s.SpawnExplosion(components.Explosion{X: t.X, Y: t.Y, MaxRadius: 42, Life: 0.62, ShakeTime: 0.28, Flash: 0.08, NoShake: true})

	count := 2
	if w.Rand.Chance(0.35) {
		count = 3
	}
	spawned := 0
	for i := 0; i < count; i++ {
		target, ok := chooseTarget(w, types.VariantShard)
		if !ok {
			continue
		}
		target.X = utils.Clamp(utils.Lerp(target.X, t.TargetX+w.Rand.Range(-150, 150), 0.42), 18, w.Width-18)
		ov := ThreatOverrides{
			ZigAmp:  w.Rand.Range(14, 34),
			ZigFreq: w.Rand.Range(1.2, 2.4),
			Blast:   w.Rand.Range(40, 64),
		}
		s.CreateThreat(types.VariantShard, t.X, t.Y, target, ov)
		spawned++
	}
	if w.Verbose {
		log.Printf("[CombatSystem] Threat %d split into %d shards", t.ID, spawned)
	}
	return spawned
}

// RunCollisions 玩家方爆炸与敌方单位的碰撞判定
//
// 判定半径：导弹 max(18, R*(1-抗性*0.45))，飞碟 max(22, 0.6R)，突袭机 max(26, 0.55R)。
// 每个单位每帧最多被第一个命中的爆炸结算一次。
func (s *CombatSystem) RunCollisions() {
	w := s.world

	for i := len(w.Threats) - 1; i >= 0; i-- {
		t := w.Threats[i]
		killed := false
		for _, e := range w.Explosions {
			if !e.Player {
				continue
			}
			r := math.Max(18, e.Radius*(1-t.Resistance*0.45))
			if within(t.X, t.Y, e.X, e.Y, r) {
				killed = s.DamageThreat(t, t.X, t.Y, threatDamage(t))
				break
			}
		}
		if killed {
			w.RemoveThreatAt(i)
		}
	}

	for i := len(w.Aircraft) - 1; i >= 0; i-- {
		a := w.Aircraft[i]
		for _, e := range w.Explosions {
			if !e.Player {
				continue
			}
			if within(a.X, a.Y, e.X, e.Y, math.Max(22, e.Radius*0.6)) {
				r := 44.0
				if a.Boss {
					r = 64
				}
				s.HitAircraft(a, components.Explosion{X: a.X, Y: a.Y, MaxRadius: r, Life: 0.58, ShakeTime: 0.34, Flash: 0.06})
				break
			}
		}
	}

	for i := len(w.Raiders) - 1; i >= 0; i-- {
		rd := w.Raiders[i]
		for _, e := range w.Explosions {
			if !e.Player {
				continue
			}
			if within(rd.X, rd.Y, e.X, e.Y, math.Max(26, e.Radius*0.55)) {
				s.HitRaider(rd, components.Explosion{
					X: rd.X + w.Rand.Range(-8, 8), Y: rd.Y + w.Rand.Range(-5, 5),
					MaxRadius: 42, Life: 0.52, ShakeTime: 0.35, Flash: 0.05,
				})
				break
			}
		}
	}
}

func within(x1, y1, x2, y2, r float64) bool {
	dx, dy := x1-x2, y1-y2
	return dx*dx+dy*dy <= r*r
}
