package systems

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/ecs"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

// WaveDirector 波次导演
// 职责：
//   - 按关卡生成带时间戳的生成计划
//   - 波次开始时重置防御设施的弹药
//   - 按计划时间生成来袭导弹，按配额生成飞碟和突袭机
//   - 为所有敌方弹头加权选择地面目标
type WaveDirector struct {
	world   *game.World
	combat  *CombatSystem
	weather *WeatherSystem
	silo    *SiloSystem
}

// NewWaveDirector 创建波次导演
func NewWaveDirector(w *game.World, combat *CombatSystem, weather *WeatherSystem, silo *SiloSystem) *WaveDirector {
	return &WaveDirector{world: w, combat: combat, weather: weather, silo: silo}
}

// BuildPlan 生成指定关卡的波次计划
//
// 总数 = baseCount + perLevelCount*关卡。每一步加权选择通道，可能触发 2~3 发齐射，
// 型号按关卡解锁表加权选择；条目时间按递增的抖动间隔排列，最后按时间稳定排序。
func (d *WaveDirector) BuildPlan(level int) []components.PlanEntry {
	w := d.world
	rules := w.Config.Waves
	rng := w.Rand
	total := rules.TotalAt(level)

	variants := make([]Weighted[types.Variant], 0, len(rules.Variants))
	for _, vw := range rules.Variants {
		variants = append(variants, Weighted[types.Variant]{Item: vw.Variant, Weight: vw.WeightAt(level)})
	}
	lanes := make([]Weighted[float64], 0, len(rules.Lanes))
	for _, l := range rules.Lanes {
		lanes = append(lanes, Weighted[float64]{Item: l.Offset, Weight: l.Weight})
	}

	plan := make([]components.PlanEntry, 0, total)
	salvoChance := rules.Salvo.ChanceAt(level)
	t := 0.0
	for i := 0; i < total && len(plan) < total; i++ {
		salvo := 1
		if rng.Chance(salvoChance) {
			salvo = 2
			if rng.Chance(rules.Salvo.TripleChance) {
				salvo = 3
			}
		}
		lane, _ := DrawWeighted(rng, lanes)

		for k := 0; k < salvo && len(plan) < total; k++ {
			v, _ := DrawWeighted(rng, variants)
			plan = append(plan, components.PlanEntry{
				Variant: v,
				Time:    t + float64(k)*rng.Range(rules.Salvo.Offset.Min, rules.Salvo.Offset.Max),
				Lane:    lane + rng.Range(-rules.LaneJitter, rules.LaneJitter),
			})
		}

		t += rules.Gap.BaseAt(level) + rng.Range(rules.Gap.Jitter.Min, rules.Gap.Jitter.Max)
	}

	sort.SliceStable(plan, func(i, j int) bool { return plan[i].Time < plan[j].Time })
	return plan
}

// ChooseTarget 为指定型号加权选择地面目标
// 没有任何存活目标时返回 false
func (d *WaveDirector) ChooseTarget(v types.Variant) (components.Target, bool) {
	return chooseTarget(d.world, v)
}

// chooseTarget 加权选择地面目标
//
// 城市权重随附近存活城市数量增加（聚集压力），基地权重随弹药增加，
// 型号对各类目标的偏好来自型号表的 targetBias。
func chooseTarget(w *game.World, v types.Variant) (components.Target, bool) {
	bias := w.Config.Variants.Stats(v).TargetBias
	rng := w.Rand
	var pool []Weighted[components.Target]

	for _, c := range w.Cities {
		if c.Destroyed {
			continue
		}
		neigh := 0
		for _, o := range w.Cities {
			if !o.Destroyed && math.Abs(o.X-c.X) < w.Width*0.14 {
				neigh++
			}
		}
		weight := 95 + float64(neigh)*22 + rng.Range(0, 18) + bias.City
		pool = append(pool, Weighted[components.Target]{
			Item: components.Target{
				Ref: components.TargetRef{Kind: components.TargetCity, ID: c.ID},
				X:   c.X + rng.Range(-c.W*0.24, c.W*0.24),
				Y:   w.GroundY - 30,
			},
			Weight: weight,
		})
	}
	for _, b := range w.Bases {
		if b.Destroyed {
			continue
		}
		weight := 72 + float64(b.Ammo)*2.6 + rng.Range(0, 16) + bias.Base
		pool = append(pool, Weighted[components.Target]{
			Item: components.Target{
				Ref: components.TargetRef{Kind: components.TargetBase, ID: b.ID},
				X:   b.X,
				Y:   w.GroundY - 14,
			},
			Weight: weight,
		})
	}
	for _, p := range w.Turrets {
		if p.Destroyed {
			continue
		}
		weight := 28 + float64(p.Ammo)*0.012 + rng.Range(0, 8) + bias.Turret
		pool = append(pool, Weighted[components.Target]{
			Item: components.Target{
				Ref: components.TargetRef{Kind: components.TargetTurret, ID: p.ID},
				X:   p.X,
				Y:   w.GroundY - 18,
			},
			Weight: weight,
		})
	}

	return DrawWeighted(rng, pool)
}

// StartWave 开始当前关卡的波次
//
// 清空战斗实体，重置基地、近防炮和发射井的弹药（已摧毁的设施有一定概率修复），
// 重新生成计划和飞碟/突袭机配额，最后设置本波天气。
// 参数：
//
//	delay - 第一发导弹前的等待时间（秒）
func (d *WaveDirector) StartWave(delay float64) {
	w := d.world
	rng := w.Rand
	level := float64(w.Level)
	rules := w.Config.Waves

	w.ClearCombat()

	baseAmmo := int(math.Min(155, math.Round(20+level*2.7+math.Max(0, level-14)*1.35)))
	for _, b := range w.Bases {
		if b.Destroyed && rng.Chance(0.33) {
			b.Destroyed = false
			log.Printf("[WaveDirector] Base %s repaired", b.ID)
		}
		b.Ammo = baseAmmo
		if b.Destroyed {
			b.Ammo = 0
		}
		b.MaxAmmo = baseAmmo
		b.Cooldown = 0
	}

	eff := w.Upgrades.TurretEff
	turretPool := math.Min(1300, math.Round((620+level*90)*(1+(eff-1)*0.55)))
	turretAmmo := int(math.Max(340, math.Round(turretPool*0.62)))
	for _, p := range w.Turrets {
		if p.Destroyed && rng.Chance(0.4) {
			p.Destroyed = false
			log.Printf("[WaveDirector] Turret %s repaired", p.ID)
		}
		p.Ammo = turretAmmo
		if p.Destroyed {
			p.Ammo = 0
		}
		p.MaxAmmo = turretAmmo
		p.Cool = 0
		p.Heat = 0
		p.FireAcc = 0
		p.Lock = components.LockRef{}
	}

	if w.Silo != nil {
		d.silo.ResetForWave()
	}

	if w.Level > 1 && w.Pulse < w.PulseMax {
		w.Pulse++
	}

	w.Plan = d.BuildPlan(w.Level)
	w.WavePause = delay
	w.WaveTime = 0
	w.SpawnIndex = 0
	w.AircraftQuota = rules.Aircraft.QuotaAt(w.Level)
	w.NextAircraft = delay + rng.Range(rules.Aircraft.FirstDelay.Min, rules.Aircraft.FirstDelay.Max)
	w.RaiderQuota = rules.Raiders.QuotaAt(w.Level)
	w.NextRaider = delay + rng.Range(rules.Raiders.FirstDelay.Min, rules.Raiders.FirstDelay.Max)

	d.weather.SetWaveWeather()
	w.SetNote(fmt.Sprintf("Wave %d incoming | %s FRONT", w.Level, strings.ToUpper(w.Weather.Mode.String())), 2.1)
	w.Telemetry.BeginWave(w.Level, w.Weather.Mode.String())

	log.Printf("[WaveDirector] Wave %d plan built: %d entries, %d aircraft, %d raiders",
		w.Level, len(w.Plan), w.AircraftQuota, w.RaiderQuota)
}

// SpawnThreat 按计划条目生成来袭导弹
// 没有可选目标时进入游戏结束
func (d *WaveDirector) SpawnThreat(e components.PlanEntry) {
	w := d.world
	rng := w.Rand
	target, ok := chooseTarget(w, e.Variant)
	if !ok {
		w.GameOver = true
		return
	}

	var sx, sy float64
	switch e.Variant {
	case types.VariantCruise:
		sx = w.Width*0.5 + rng.Sign()*(w.Width*0.5+70)
		sy = rng.Range(w.HorizonY*0.66, w.GroundY*0.52)
	default:
		sx = utils.Clamp(w.Width*0.5+e.Lane*w.Width*0.44+rng.Range(-140, 140), 14, w.Width-14)
		if e.Variant == types.VariantCarrier {
			sy = rng.Range(-220, -120)
		} else {
			sy = rng.Range(-160, -40)
		}
	}

	d.combat.CreateThreat(e.Variant, sx, sy, target, ThreatOverrides{})
	w.Emit(types.SoundEnemyLaunch, sx, 0.5)
	if e.Variant.IsHeavyClass() {
		w.Emit(types.SoundIncomingWarning, sx, 0.8)
	}
}

// SpawnAircraft 生成飞碟，5 级起可能出现首领
func (d *WaveDirector) SpawnAircraft() {
	w := d.world
	rng := w.Rand
	if w.AliveCities() == 0 {
		return
	}

	left := rng.Chance(0.5)
	y := rng.Range(w.HorizonY*0.62, w.HorizonY*0.88)
	x := w.Width + 90
	if left {
		x = -90
	}
	boss := w.Level >= 5 && rng.Chance(0.2+float64(w.Level)*0.05)
	mult := 1.0
	if boss {
		mult = 0.6
	}
	vx := (rng.Range(58, 96) + float64(w.Level)*3) * mult
	if !left {
		vx = -vx
	}
	hp := 2
	if boss {
		hp = 6
	}

	w.Aircraft = append(w.Aircraft, &components.Aircraft{
		ID:           w.Entities.CreateEntity(ecs.KindAircraft),
		X:            x,
		Y:            y,
		VX:           vx,
		BobPhase:     rng.Float64() * utils.TAU,
		Boss:         boss,
		HitPoints:    hp,
		FireCooldown: rng.Range(1.25, 2.35),
	})

	if boss {
		w.SetNote("WARNING: Boss UFO detected", 1.1)
	} else {
		w.SetNote("UFO intruder detected", 1.1)
	}
	w.Emit(types.SoundIncomingWarning, x, 1)
}

// SpawnRaider 生成平流层突袭机
func (d *WaveDirector) SpawnRaider() {
	w := d.world
	rng := w.Rand
	left := rng.Chance(0.5)
	x, dir := w.Width+95, -1.0
	if left {
		x, dir = -95, 1
	}
	y := rng.Range(w.HorizonY*0.14, w.HorizonY*0.34)

	w.Raiders = append(w.Raiders, &components.Raider{
		ID:           w.Entities.CreateEntity(ecs.KindRaider),
		X:            x,
		Y:            y,
		VX:           dir * rng.Range(150, 210),
		HitPoints:    5,
		FireCooldown: rng.Range(0.65, 1.25),
	})

	w.SetNote("Stratospheric Raider detected", 0.95)
	w.Emit(types.SoundIncomingWarning, x, 1)
}

// Update 波次节奏：等待间歇，按时间生成计划条目，按配额生成飞碟和突袭机
// 开场和商店间歇期间不推进
func (d *WaveDirector) Update(dt float64) {
	w := d.world
	if w.Intro || w.Shop {
		return
	}
	if w.WavePause > 0 {
		w.WavePause -= dt
		return
	}

	w.WaveTime += dt
	for w.SpawnIndex < len(w.Plan) && w.Plan[w.SpawnIndex].Time <= w.WaveTime {
		d.SpawnThreat(w.Plan[w.SpawnIndex])
		w.SpawnIndex++
	}

	rules := w.Config.Waves
	if w.AircraftQuota > 0 && w.WaveTime >= w.NextAircraft {
		d.SpawnAircraft()
		w.AircraftQuota--
		w.NextAircraft = w.WaveTime + w.Rand.Range(rules.Aircraft.Respawn.Min, rules.Aircraft.Respawn.Max) -
			rules.Aircraft.Shrink(w.Level)
	}
	if w.RaiderQuota > 0 && w.WaveTime >= w.NextRaider {
		d.SpawnRaider()
		w.RaiderQuota--
		w.NextRaider = w.WaveTime + w.Rand.Range(rules.Raiders.Respawn.Min, rules.Raiders.Respawn.Max) -
			rules.Raiders.Shrink(w.Level)
	}
}
