package components

import "github.com/decker502/overdrive/pkg/ecs"

// Interceptor 拦截弹
//
// 普通拦截弹沿直线飞到瞄准点后引爆；发射井发射的是制导拦截弹，
// 按恒定速度追踪锁定目标，到时或飞出战场时就地引爆。
// 每枚拦截弹只引爆一次。
type Interceptor struct {
	ID ecs.EntityID

	X, Y             float64
	StartX, StartY   float64
	TargetX, TargetY float64
	VX, VY           float64
	Speed            float64
	Duration         float64
	Elapsed          float64
	Blast            float64

	BaseIndex int  // 发射基地下标，发射井为 -1
	Auto      bool // 由自动系统发射

	Guidance *Guidance // 非 nil 表示制导拦截弹
}

// Guidance 制导拦截弹的追踪参数
type Guidance struct {
	Turn     float64 // 最大转向角速度（rad/s）
	Retarget float64 // 距下次重新选择目标的倒计时
	Lock     LockRef

	WanderAmp   float64
	WanderFreq  float64
	WanderPhase float64
}
