package systems

import (
	"log"
	"math"

	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/ecs"
	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

const (
	siloDoorRate   = 2.7
	siloRiseRate   = 1.95
	siloLowerRate  = 2.15
	siloActiveTime = 6.4
	siloMaxShots   = 22 // 每帧最多发射数
	siloLiftHeight = 40.0
)

// siloTransitions 合法的状态转换
// 循环内每个状态只能前进到下一个状态；任何状态都可以进入 Destroyed。
var siloTransitions = map[types.SiloState][]types.SiloState{
	types.SiloHidden:   {types.SiloOpening, types.SiloDestroyed},
	types.SiloOpening:  {types.SiloRising, types.SiloDestroyed},
	types.SiloRising:   {types.SiloActive, types.SiloDestroyed},
	types.SiloActive:   {types.SiloLowering, types.SiloDestroyed},
	types.SiloLowering: {types.SiloClosing, types.SiloDestroyed},
	types.SiloClosing:  {types.SiloCooldown, types.SiloDestroyed},
	types.SiloCooldown: {types.SiloHidden, types.SiloDestroyed},
}

// CanTransition 状态转换是否合法
func CanTransition(from, to types.SiloState) bool {
	for _, s := range siloTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SiloSystem 地下发射井状态机
//
// 隐藏 → 开门 → 升起 → 齐射 → 下降 → 关门 → 冷却 → 隐藏。
// 齐射阶段以高射速向附近空中目标发射制导拦截弹，目标按距离加权随机选择。
type SiloSystem struct {
	world  *game.World
	combat *CombatSystem
}

// NewSiloSystem 创建发射井系统
func NewSiloSystem(w *game.World, combat *CombatSystem) *SiloSystem {
	return &SiloSystem{world: w, combat: combat}
}

// transition 修改发射井状态的唯一入口
// 非法转换被拒绝并返回 false；force 只用于波次重置回到隐藏状态
func (s *SiloSystem) transition(silo *components.Silo, to types.SiloState, force bool) bool {
	from := silo.State
	if from == to {
		return true
	}
	if !force && !CanTransition(from, to) {
		log.Printf("[SiloSystem] Warning: rejected transition %s -> %s", from, to)
		return false
	}
	silo.State = to
	silo.StateTime = 0
	if s.world.Verbose {
		log.Printf("[SiloSystem] %s -> %s", from, to)
	}
	return true
}

// Toggle 切换发射井：隐藏且冷却完毕时展开，展开过程中或齐射中时收回
// 开场、游戏结束和商店间歇期间拒绝展开。返回是否接受了指令
func (s *SiloSystem) Toggle() bool {
	silo := s.world.Silo
	if silo == nil || silo.Destroyed {
		return false
	}
	switch {
	case silo.State == types.SiloHidden && silo.Cool <= 0 && s.world.CanOperate():
		silo.Command = types.SiloCommandDeploy
		return true
	case silo.State.Deployed():
		silo.Command = types.SiloCommandRetract
		return true
	}
	return false
}

// ResetForWave 波次开始时重置发射井
// 已摧毁的发射井以 0.58 的概率修复；修复或完好的发射井回到隐藏状态并补满弹药
func (s *SiloSystem) ResetForWave() {
	w := s.world
	silo := w.Silo
	if silo == nil {
		return
	}
	if silo.Destroyed && w.Rand.Chance(0.58) {
		silo.Destroyed = false
		log.Printf("[SiloSystem] Silo repaired")
	}

	silo.Command = types.SiloCommandIdle
	silo.FireAcc = 0
	silo.ActiveTime = 0
	if silo.Destroyed {
		silo.MaxAmmo, silo.Ammo = 0, 0
		silo.Lift, silo.DoorOpen = 0.45, 0.5
		silo.Cool = 0
		s.transition(silo, types.SiloDestroyed, true)
		return
	}

	silo.MaxAmmo = int(math.Min(1100, math.Round(460+70*float64(w.Level))))
	silo.Ammo = silo.MaxAmmo
	silo.Lift, silo.DoorOpen = 0, 0
	silo.Cool = 0.95
	s.transition(silo, types.SiloHidden, true)
}

// Update 推进状态机
func (s *SiloSystem) Update(dt float64) {
	w := s.world
	silo := w.Silo
	if silo == nil {
		return
	}
	if silo.Destroyed {
		if silo.State != types.SiloDestroyed {
			s.transition(silo, types.SiloDestroyed, false)
			silo.Command = types.SiloCommandIdle
			silo.FireAcc = 0
		}
		return
	}

	silo.StateTime += dt
	if silo.State.Deployed() && !w.CanOperate() {
		silo.Command = types.SiloCommandRetract
	}
	reload := math.Max(1, w.Upgrades.ReloadMult)

	switch silo.State {
	case types.SiloHidden:
		if silo.Cool > 0 {
			silo.Cool = math.Max(0, silo.Cool-dt*reload)
		}
		if silo.Command == types.SiloCommandDeploy && !w.CanOperate() {
			silo.Command = types.SiloCommandIdle
		}
		if silo.Command == types.SiloCommandDeploy && silo.Cool <= 0 && silo.Ammo > 0 {
			s.transition(silo, types.SiloOpening, false)
			silo.Command = types.SiloCommandIdle
			w.SetNote("Hell Raiser online", 0.85)
		}

	case types.SiloOpening:
		silo.DoorOpen = math.Min(1, silo.DoorOpen+dt*siloDoorRate)
		if silo.DoorOpen >= 1 {
			s.transition(silo, types.SiloRising, false)
		}

	case types.SiloRising:
		silo.Lift = math.Min(1, silo.Lift+dt*siloRiseRate)
		if silo.Lift >= 1 {
			s.transition(silo, types.SiloActive, false)
			silo.FireAcc = 0
			silo.ActiveTime = siloActiveTime
			w.SetNote("Hell Raiser barrage", 0.85)
		}

	case types.SiloActive:
		silo.ActiveTime -= dt
		if silo.Command == types.SiloCommandRetract || silo.ActiveTime <= 0 || silo.Ammo <= 0 {
			s.transition(silo, types.SiloLowering, false)
			silo.Command = types.SiloCommandIdle
			break
		}
		s.fireBarrage(silo, dt)

	case types.SiloLowering:
		silo.Lift = math.Max(0, silo.Lift-dt*siloLowerRate)
		if silo.Lift <= 0 {
			s.transition(silo, types.SiloClosing, false)
		}

	case types.SiloClosing:
		silo.DoorOpen = math.Max(0, silo.DoorOpen-dt*siloDoorRate)
		if silo.DoorOpen <= 0 {
			s.transition(silo, types.SiloCooldown, false)
			silo.Cool = math.Max(1.4, 3.2/math.Max(0.6, w.Upgrades.ReloadMult))
		}

	case types.SiloCooldown:
		silo.Cool = math.Max(0, silo.Cool-dt*reload)
		if silo.Cool <= 0 {
			s.transition(silo, types.SiloHidden, false)
			silo.Ammo = silo.MaxAmmo
			silo.FireAcc = 0
		}
	}
}

// fireBarrage 齐射：射击累加器按射速累积，每满 1 发射一枚制导拦截弹
func (s *SiloSystem) fireBarrage(silo *components.Silo, dt float64) {
	w := s.world
	topY := silo.Y - silo.Lift*siloLiftHeight
	pool := collectLockPool(w, silo.X, topY, 178, 200)
	if len(pool) == 0 {
		return
	}

	rate := 95 + math.Min(52, float64(w.Level)*3.4)
	silo.FireAcc += dt * rate

	shots := 0
	for silo.FireAcc >= 1 && silo.Ammo > 0 && shots < siloMaxShots {
		silo.FireAcc--
		silo.Ammo--
		shots++

		c, ok := DrawWeighted(w.Rand, pool)
		if !ok {
			return
		}
		tx := utils.Clamp(c.X+w.Rand.Range(-20, 20), 20, w.Width-20)
		ty := utils.Clamp(c.Y+w.Rand.Range(-18, 18), 24, w.GroundY-52)
		s.launchGuided(silo, tx, ty, w.Rand.Range(820, 1080), c.Lock)
	}
}

// launchGuided 从发射架顶部发射一枚制导拦截弹
func (s *SiloSystem) launchGuided(silo *components.Silo, tx, ty, speed float64, lock components.LockRef) {
	w := s.world
	rng := w.Rand
	sx := silo.X + rng.Range(-6, 6)
	sy := silo.Y - silo.Lift*siloLiftHeight - 6 + rng.Range(-4, 4)
	dx, dy := tx-sx, ty-sy
	dist := math.Max(80, math.Hypot(dx, dy))
	dur := dist/speed + rng.Range(0.28, 0.74)

	m := &components.Interceptor{
		ID:        w.Entities.CreateEntity(ecs.KindInterceptor),
		X:         sx,
		Y:         sy,
		StartX:    sx,
		StartY:    sy,
		TargetX:   tx,
		TargetY:   ty,
		VX:        dx / dur,
		VY:        dy / dur,
		Speed:     speed,
		Duration:  dur,
		Blast:     (34 + rng.Range(0, 12)) * (0.55 + w.Upgrades.BlastScale*0.45),
		BaseIndex: -1,
		Auto:      true,
	}
	m.Guidance = &components.Guidance{
		Turn:        rng.Range(5.6, 8.8),
		Retarget:    rng.Range(0.07, 0.2),
		Lock:        lock,
		WanderAmp:   rng.Range(5, 13),
		WanderFreq:  rng.Range(3.1, 6.8),
		WanderPhase: rng.Float64() * utils.TAU,
	}
	w.Interceptors = append(w.Interceptors, m)
	w.Telemetry.Add(game.CounterSiloShots, 1)
	w.Emit(types.SoundSiloFire, sx, 0.4)
}
