package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/overdrive/pkg/game"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

const (
	shopDuration   = 5.0
	nextWaveDelay  = 2.9
	jumpWaveDelay  = 0.7
	resupplyCap    = 180
	messageSeconds = 1.2
)

// Simulation 帧调度器
//
// 持有世界和全部系统，每帧按固定顺序推进：
//
//	全局计时器 → 浮动文字 → 弹药补给 → 基地冷却 → 运动学（导弹、飞碟、突袭机、拦截弹、爆炸）
//	→ 碰撞 → 自动防御 → 近防炮 → 发射井 → 波次节奏 → 天气 → 波次结束 / 失败判定 → 危险度
//
// 游戏结束后只推进运动学、爆炸和碰撞，攻防系统全部冻结。
type Simulation struct {
	world *game.World

	combat     *CombatSystem
	weather    *WeatherSystem
	silo       *SiloSystem
	waves      *WaveDirector
	kinematics *KinematicsSystem
	auto       *AutoDefenseSystem
	turrets    *TurretSystem
}

// NewSimulation 创建帧调度器并布置防御设施
// 世界保持开场状态，直到调用 Start
func NewSimulation(w *game.World) *Simulation {
	combat := NewCombatSystem(w)
	weather := NewWeatherSystem(w)
	silo := NewSiloSystem(w, combat)
	s := &Simulation{
		world:      w,
		combat:     combat,
		weather:    weather,
		silo:       silo,
		waves:      NewWaveDirector(w, combat, weather, silo),
		kinematics: NewKinematicsSystem(w, combat),
		auto:       NewAutoDefenseSystem(w, combat),
		turrets:    NewTurretSystem(w, combat),
	}
	BuildWorld(w)
	return s
}

// World 返回模拟的世界
func (s *Simulation) World() *game.World { return s.world }

// Combat 战斗结算系统
func (s *Simulation) Combat() *CombatSystem { return s.combat }

// Waves 波次导演
func (s *Simulation) Waves() *WaveDirector { return s.waves }

// Silo 发射井系统
func (s *Simulation) Silo() *SiloSystem { return s.silo }

// Turrets 近防炮控制器
func (s *Simulation) Turrets() *TurretSystem { return s.turrets }

// Advance 推进一帧
// dt 超过配置的最大步长时被截断；开场期间只推进时钟
func (s *Simulation) Advance(dt float64) {
	w := s.world
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	dt = math.Min(dt, w.Config.Defense.MaxStep)

	w.Time += dt
	if w.Intro {
		return
	}

	s.updateTimers(dt)
	s.kinematics.UpdateFloatingTexts(dt)

	if w.GameOver {
		w.GameOverTime += dt
		s.kinematics.Update(dt)
		s.combat.RunCollisions()
		s.finishTick()
		return
	}

	s.resupply(dt)
	for _, b := range w.Bases {
		if b.Cooldown > 0 {
			b.Cooldown = math.Max(0, b.Cooldown-dt)
		}
	}

	s.kinematics.Update(dt)
	s.combat.RunCollisions()
	if w.Auto {
		s.auto.Update()
	}
	s.turrets.Update(dt)
	s.silo.Update(dt)
	s.waves.Update(dt)
	s.weather.Update(dt)

	s.checkWaveClear(dt)
	s.checkGameOver()
	s.updateDanger()
	s.finishTick()
}

// updateTimers 消息、提示、连击、屏幕效果和脉冲冷却的倒计时
func (s *Simulation) updateTimers(dt float64) {
	w := s.world
	decay := func(v, rate float64) float64 {
		if v <= 0 {
			return v
		}
		return math.Max(0, v-dt*rate)
	}
	w.MessageTime = decay(w.MessageTime, 1)
	w.NoteTime = decay(w.NoteTime, 1)
	if w.ComboTimer > 0 {
		w.ComboTimer = math.Max(0, w.ComboTimer-dt)
		if w.ComboTimer == 0 {
			w.Combo = 0
		}
	}
	w.Shake = decay(w.Shake, 20)
	w.Flash = decay(w.Flash, 1.7)
	w.PulseCooldown = decay(w.PulseCooldown, 1)
	w.Chromatic = decay(w.Chromatic, 1.8)
}

// resupply 弹药补给
//
// 存活基地弹药不足时按概率给弹药最少的基地补 1 发（紧急状态下 40% 补 2 发），
// 补给速率随关卡、自动防御、危险度和紧急状态提高。
func (s *Simulation) resupply(dt float64) {
	w := s.world
	if w.AliveCities() == 0 {
		return
	}
	total, live := 0, 0
	for _, b := range w.Bases {
		if !b.Destroyed {
			total += b.Ammo
			live++
		}
	}
	if live == 0 {
		return
	}

	level := float64(w.Level)
	emergency := float64(total) <= math.Max(24, 8+level*0.9)
	rate := 0.18 + utils.Clamp((level-12)*0.012, 0, 0.28) + w.Danger*0.16
	if w.Auto {
		rate += 0.09
	}
	if emergency {
		rate += 0.32
	}
	low := 36
	if w.Auto {
		low = 44
	}

	target := -1
	for i, b := range w.Bases {
		if b.Destroyed || b.Ammo >= low {
			continue
		}
		if target < 0 || b.Ammo < w.Bases[target].Ammo {
			target = i
		}
	}
	if target < 0 || !w.Rand.Chance(dt*rate) {
		return
	}
	grant := 1
	if emergency && w.Rand.Chance(0.4) {
		grant = 2
	}
	b := w.Bases[target]
	b.Ammo = min(resupplyCap, b.Ammo+grant)
}

// checkWaveClear 计划和配额耗尽且场上没有敌方单位和爆炸时进入商店间歇，间歇结束后开始下一波
func (s *Simulation) checkWaveClear(dt float64) {
	w := s.world
	if !w.Intro && !w.Shop && w.PendingSpawns() == 0 && w.AircraftQuota == 0 && w.RaiderQuota == 0 &&
		len(w.Threats) == 0 && len(w.Aircraft) == 0 && len(w.Raiders) == 0 && len(w.Explosions) == 0 {
		w.Shop = true
		w.ShopTimer = shopDuration
		w.SetMessage(fmt.Sprintf("Wave %d cleared", w.Level), 1.6)
		w.Emit(types.SoundWaveCleared, w.Width/2, 1)
		log.Printf("[Simulation] Wave %d cleared (score %d, cities %d)", w.Level, w.Score, w.AliveCities())
	}

	if w.Shop {
		w.ShopTimer -= dt
		if w.ShopTimer <= 0 {
			w.Shop = false
			w.Level++
			s.waves.StartWave(nextWaveDelay)
		}
	}
}

// checkGameOver 所有城市被摧毁时进入游戏结束，音效只触发一次
func (s *Simulation) checkGameOver() {
	w := s.world
	if w.AliveCities() > 0 && !w.GameOver {
		return
	}
	if !w.GameOver {
		w.GameOverTime = 0
	}
	w.GameOver = true
	w.SetNote("Defense grid collapsed", 2.2)
	if !w.GameOverSfx {
		w.GameOverSfx = true
		w.Emit(types.SoundGameOver, w.Width/2, 1)
		log.Printf("[Simulation] Game over at wave %d, score %d", w.Level, w.Score)
	}
}

// updateDanger 危险度：按存活城市数归一化的威胁总量，限制在 [0, 1]
func (s *Simulation) updateDanger() {
	w := s.world
	w.Danger = Danger(w)
}

// Danger 计算危险度，开场和游戏结束时为 0
func Danger(w *game.World) float64 {
	if w.Intro || w.GameOver {
		return 0
	}
	alive := max(1, w.AliveCities())
	d := float64(len(w.Threats))*12 +
		float64(w.PendingSpawns())*1.8 +
		float64(len(w.Aircraft))*52 +
		float64(len(w.Raiders))*66
	return utils.Clamp(d/(float64(alive)*170), 0, 1)
}

// finishTick 帧末：上报近防炮射击强度并清理已标记删除的实体
func (s *Simulation) finishTick() {
	w := s.world
	w.TurretFireLevel = s.turrets.FireLevel()
	if w.Sound != nil {
		w.Sound.SetTurretFireLevel(w.TurretFireLevel)
	}
	w.Entities.RemoveMarkedEntities()
}

// Start 离开开场画面，开始新的一局
func (s *Simulation) Start() {
	if s.world.Intro {
		s.ResetGame()
	}
}

// Restart 重新开始
func (s *Simulation) Restart() {
	s.ResetGame()
}

// Fire 向指定点发射拦截弹，基地自动选择
func (s *Simulation) Fire(x, y float64) bool {
	return s.FireFrom(x, y, -1)
}

// FireFrom 从指定基地向指定点发射拦截弹
func (s *Simulation) FireFrom(x, y float64, base int) bool {
	if !s.world.CanOperate() {
		return false
	}
	return s.combat.LaunchInterceptor(x, y, base)
}

// AreaPulse 在当前瞄准点释放区域脉冲
func (s *Simulation) AreaPulse() bool {
	return s.combat.UseAreaPulse()
}

// SetAim 更新瞄准点，限制在战场范围内
func (s *Simulation) SetAim(x, y float64) {
	w := s.world
	w.AimX = utils.Clamp(x, 0, w.Width)
	w.AimY = utils.Clamp(y, 0, w.Height)
}

// ToggleAuto 切换自动防御，返回切换后的状态
func (s *Simulation) ToggleAuto() bool {
	w := s.world
	w.Auto = !w.Auto
	if w.Auto {
		w.SetMessage("Auto Defense ON", messageSeconds)
	} else {
		w.SetMessage("Auto Defense OFF", messageSeconds)
	}
	return w.Auto
}

// ToggleSilo 切换发射井展开/收回
func (s *Simulation) ToggleSilo() bool {
	return s.silo.Toggle()
}

// ToggleTelemetry 切换逐波遥测，打开时立即开始记录当前波次
func (s *Simulation) ToggleTelemetry() bool {
	w := s.world
	t := w.Telemetry
	t.Enabled = !t.Enabled
	if t.Enabled {
		if cur := t.Current(); cur == nil || cur.Wave != w.Level {
			t.BeginWave(w.Level, w.Weather.Mode.String())
		}
		w.SetMessage("Debug telemetry ON", 1)
	} else {
		w.SetMessage("Debug telemetry OFF", 1)
	}
	return t.Enabled
}

// SelectBase 选择优先发射的基地，越界下标表示取消选择
func (s *Simulation) SelectBase(i int) {
	w := s.world
	if i < 0 || i >= len(w.Bases) {
		w.SelectedBase = -1
		return
	}
	w.SelectedBase = i
	w.SetNote(fmt.Sprintf("Base %s selected", w.Bases[i].ID), 0.8)
}

// JumpWave 跳关（调试用），delta 为正向后跳、为负向前跳，关卡不低于 1
func (s *Simulation) JumpWave(delta int) {
	w := s.world
	if w.Intro || w.GameOver {
		s.ResetGame()
	}
	w.Shop = false
	w.Level = max(1, w.Level+delta)
	s.waves.StartWave(jumpWaveDelay)
	w.SetMessage(fmt.Sprintf("Jumped to Wave %d", w.Level), messageSeconds)
}

// Snapshot 当前帧的只读快照
func (s *Simulation) Snapshot() game.Snapshot {
	return s.world.Snapshot()
}
