package components

import "github.com/decker502/overdrive/pkg/ecs"

// Aircraft 飞碟
// 水平飞越战场并周期性投弹，飞出 ±130 或生命值归零时移除
type Aircraft struct {
	ID           ecs.EntityID
	X, Y         float64
	VX           float64
	BobPhase     float64
	Boss         bool
	HitPoints    int
	FireCooldown float64
}

// Raider 平流层突袭机
// 每次开火后调头，连射一串吐弹，飞出 ±180 或被击毁时移除
type Raider struct {
	ID           ecs.EntityID
	X, Y         float64
	VX           float64
	Angle        float64
	HitPoints    int
	FireCooldown float64
}
