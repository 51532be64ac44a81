package components

import "github.com/decker502/overdrive/pkg/types"

// City 城市，被摧毁后本波内不再恢复
type City struct {
	ID        string
	X, Y      float64
	W         float64
	Destroyed bool
}

// LaunchBase 拦截弹发射基地
// 被摧毁时弹药清零；弹药永不为负
type LaunchBase struct {
	ID        string
	X, Y      float64
	Ammo      int
	MaxAmmo   int
	Cooldown  float64
	Destroyed bool
}

// Ready 是否可以立即发射
func (b *LaunchBase) Ready() bool {
	return !b.Destroyed && b.Ammo > 0 && b.Cooldown <= 0
}

// Turret 近防炮
type Turret struct {
	ID      string
	X, Y    float64
	Ammo    int
	MaxAmmo int

	Cool    float64 // 强制冷却（弹药耗尽后）
	FireAcc float64 // 小数射击累加器
	Heat    float64 // 炮管热量 [0, 1]

	SpinAngle float64
	SpinSpeed float64
	FireMix   float64 // 近期射击强度 [0, 1]，驱动炮管转速和射击音量

	AimAngle   float64
	AimX, AimY float64
	AimErr     float64
	TargetDist float64
	Lock       LockRef

	Destroyed bool
}

// Silo 地下发射井
// State 只能通过 SiloSystem 的状态转换函数修改
type Silo struct {
	X, Y       float64
	State      types.SiloState
	Command    types.SiloCommand
	StateTime  float64
	Lift       float64 // 升起进度 [0, 1]
	DoorOpen   float64 // 舱门开启进度 [0, 1]
	Ammo       int
	MaxAmmo    int
	FireAcc    float64
	Cool       float64
	ActiveTime float64
	Destroyed  bool
}
