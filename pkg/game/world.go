package game

import (
	"github.com/decker502/overdrive/pkg/components"
	"github.com/decker502/overdrive/pkg/config"
	"github.com/decker502/overdrive/pkg/ecs"
	"github.com/decker502/overdrive/pkg/types"
	"github.com/decker502/overdrive/pkg/utils"
)

// Upgrades 升级倍率（商店间歇期间购买，默认全部为 1）
type Upgrades struct {
	BlastScale float64 // 拦截弹爆炸半径
	ReloadMult float64 // 基地装填、发射井冷却
	PulseScale float64 // 脉冲武器半径
	TurretEff  float64 // 近防炮效率
}

// DefaultUpgrades 返回初始升级倍率
func DefaultUpgrades() Upgrades {
	return Upgrades{BlastScale: 1, ReloadMult: 1, PulseScale: 1, TurretEff: 1}
}

// WeatherState 天气的数值输出（视觉表现由渲染方负责）
type WeatherState struct {
	Mode           types.WeatherMode
	Intensity      float64
	Wind           float64
	LightningTimer float64
}

// World 模拟的唯一可变聚合
//
// 所有实体、计数器和计时器都在这里。各系统只持有 *World 和只读配置，
// 不在自身保存任何跨帧状态，由 Simulation 在同一帧内按固定顺序调用。
type World struct {
	Config *config.Bundle

	Width, Height     float64
	GroundY, HorizonY float64

	Entities  *ecs.EntityManager
	Rand      *Rand
	Sound     SoundSink
	Telemetry *Telemetry
	Verbose   bool // 输出状态机转换等细节日志

	Time float64

	// 流程
	Intro        bool
	GameOver     bool
	GameOverSfx  bool
	GameOverTime float64
	Shop         bool
	ShopTimer    float64

	Level      int
	Score      int
	Combo      int
	MaxCombo   int
	ComboTimer float64
	Danger     float64

	// 波次
	WavePause     float64
	WaveTime      float64
	Plan          []components.PlanEntry
	SpawnIndex    int
	AircraftQuota int
	NextAircraft  float64
	RaiderQuota   int
	NextRaider    float64

	// 战斗实体
	Threats       []*components.Threat
	Interceptors  []*components.Interceptor
	Aircraft      []*components.Aircraft
	Raiders       []*components.Raider
	Explosions    []*components.Explosion
	FloatingTexts []*components.FloatingText

	// 防御设施
	Cities  []*components.City
	Bases   []*components.LaunchBase
	Turrets []*components.Turret
	Silo    *components.Silo

	// 屏幕效果
	Shake     float64
	Flash     float64
	Chromatic float64

	// 玩家
	AimX, AimY    float64
	Auto          bool
	Pulse         int
	PulseMax      int
	PulseCooldown float64
	SelectedBase  int // -1 表示未选择

	Message     string
	MessageTime float64
	Note        string
	NoteTime    float64

	Upgrades Upgrades
	Weather  WeatherState

	TurretFireLevel float64
}

// Option 世界构造选项
type Option func(*World)

// WithSeed 固定随机种子
func WithSeed(seed int64) Option {
	return func(w *World) { w.Rand = NewRand(seed) }
}

// WithSoundSink 指定音效接收方
func WithSoundSink(sink SoundSink) Option {
	return func(w *World) { w.Sound = sink }
}

// WithVerbose 打开细节日志
func WithVerbose(v bool) Option {
	return func(w *World) { w.Verbose = v }
}

// WithTelemetry 打开逐波遥测
func WithTelemetry() Option {
	return func(w *World) { w.Telemetry.Enabled = true }
}

// NewWorld 创建空世界
// 防御设施由 systems.BuildWorld 布置，游戏开始前处于 Intro 状态
func NewWorld(bundle *config.Bundle, opts ...Option) *World {
	pf := bundle.Defense.Playfield
	w := &World{
		Config:       bundle,
		Width:        pf.Width,
		Height:       pf.Height,
		GroundY:      pf.GroundY(),
		HorizonY:     pf.HorizonY(),
		Entities:     ecs.NewEntityManager(),
		Rand:         NewRand(1),
		Sound:        NewSoundQueue(0),
		Telemetry:    NewTelemetry(),
		Intro:        true,
		Level:        1,
		Pulse:        1,
		PulseMax:     3,
		SelectedBase: -1,
		Upgrades:     DefaultUpgrades(),
		WavePause:    2,
	}
	w.AimX, w.AimY = w.Width/2, w.HorizonY
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetNote 设置短提示
func (w *World) SetNote(text string, duration float64) {
	w.Note = text
	w.NoteTime = duration
}

// SetMessage 设置居中消息
func (w *World) SetMessage(text string, duration float64) {
	w.Message = text
	w.MessageTime = duration
}

// Emit 发出音效事件，x 为声源横坐标
func (w *World) Emit(trigger types.SoundTrigger, x, intensity float64) {
	if w.Sound == nil {
		return
	}
	w.Sound.Trigger(SoundEvent{Trigger: trigger, Pan: utils.Pan(x, w.Width), Intensity: intensity})
}

// CanOperate 是否处于可操作阶段（非开场、非结束、非商店）
func (w *World) CanOperate() bool {
	return !w.Intro && !w.GameOver && !w.Shop
}

// AliveCities 存活城市数
func (w *World) AliveCities() int {
	n := 0
	for _, c := range w.Cities {
		if !c.Destroyed {
			n++
		}
	}
	return n
}

// CityByID 按 ID 查找城市
func (w *World) CityByID(id string) *components.City {
	for _, c := range w.Cities {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// BaseByID 按 ID 查找发射基地
func (w *World) BaseByID(id string) *components.LaunchBase {
	for _, b := range w.Bases {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// TurretByID 按 ID 查找近防炮
func (w *World) TurretByID(id string) *components.Turret {
	for _, t := range w.Turrets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// BaseIndex 返回基地下标，找不到返回 -1
func (w *World) BaseIndex(b *components.LaunchBase) int {
	for i, x := range w.Bases {
		if x == b {
			return i
		}
	}
	return -1
}

// ThreatByID 按 ID 查找来袭导弹
func (w *World) ThreatByID(id ecs.EntityID) (*components.Threat, int) {
	for i, t := range w.Threats {
		if t.ID == id {
			return t, i
		}
	}
	return nil, -1
}

// AircraftByID 按 ID 查找飞碟
func (w *World) AircraftByID(id ecs.EntityID) (*components.Aircraft, int) {
	for i, a := range w.Aircraft {
		if a.ID == id {
			return a, i
		}
	}
	return nil, -1
}

// RaiderByID 按 ID 查找突袭机
func (w *World) RaiderByID(id ecs.EntityID) (*components.Raider, int) {
	for i, r := range w.Raiders {
		if r.ID == id {
			return r, i
		}
	}
	return nil, -1
}

// LockAlive 锁定的目标是否仍存在且种类与锁定一致
func (w *World) LockAlive(ref components.LockRef) bool {
	if ref.IsNone() || !w.Entities.Alive(ref.ID) {
		return false
	}
	kind, _ := w.Entities.KindOf(ref.ID)
	switch ref.Kind {
	case components.LockThreat:
		return kind == ecs.KindThreat
	case components.LockAircraft:
		return kind == ecs.KindAircraft
	case components.LockRaider:
		return kind == ecs.KindRaider
	}
	return false
}

// RemoveThreatAt 移除指定下标的来袭导弹
func (w *World) RemoveThreatAt(i int) {
	w.Entities.DestroyEntity(w.Threats[i].ID)
	w.Threats = removeAt(w.Threats, i)
}

// RemoveThreat 按 ID 移除来袭导弹，不存在时忽略
func (w *World) RemoveThreat(id ecs.EntityID) {
	if _, i := w.ThreatByID(id); i >= 0 {
		w.RemoveThreatAt(i)
	}
}

// RemoveInterceptorAt 移除指定下标的拦截弹
func (w *World) RemoveInterceptorAt(i int) {
	w.Entities.DestroyEntity(w.Interceptors[i].ID)
	w.Interceptors = removeAt(w.Interceptors, i)
}

// RemoveAircraft 按 ID 移除飞碟
func (w *World) RemoveAircraft(id ecs.EntityID) {
	if _, i := w.AircraftByID(id); i >= 0 {
		w.Entities.DestroyEntity(id)
		w.Aircraft = removeAt(w.Aircraft, i)
	}
}

// RemoveRaider 按 ID 移除突袭机
func (w *World) RemoveRaider(id ecs.EntityID) {
	if _, i := w.RaiderByID(id); i >= 0 {
		w.Entities.DestroyEntity(id)
		w.Raiders = removeAt(w.Raiders, i)
	}
}

// ClearCombat 清空所有战斗实体（新波次开始或重新开始）
func (w *World) ClearCombat() {
	for _, t := range w.Threats {
		w.Entities.DestroyEntity(t.ID)
	}
	for _, m := range w.Interceptors {
		w.Entities.DestroyEntity(m.ID)
	}
	for _, a := range w.Aircraft {
		w.Entities.DestroyEntity(a.ID)
	}
	for _, r := range w.Raiders {
		w.Entities.DestroyEntity(r.ID)
	}
	w.Entities.RemoveMarkedEntities()
	w.Threats = w.Threats[:0]
	w.Interceptors = w.Interceptors[:0]
	w.Aircraft = w.Aircraft[:0]
	w.Raiders = w.Raiders[:0]
	w.Explosions = w.Explosions[:0]
}

// PendingSpawns 本波尚未生成的计划条目数
func (w *World) PendingSpawns() int {
	return len(w.Plan) - w.SpawnIndex
}

// removeAt 按下标删除并保持顺序（更新顺序影响结果的可复现性）
func removeAt[T any](s []T, i int) []T {
	copy(s[i:], s[i+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}
